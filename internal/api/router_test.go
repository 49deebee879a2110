package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/sectorlead/backend/internal/api/handlers"
	"github.com/wonny/sectorlead/backend/internal/brain"
	"github.com/wonny/sectorlead/backend/internal/contracts"
	"github.com/wonny/sectorlead/backend/pkg/logger"
)

type emptySource struct{}

func (emptySource) Series(ctx context.Context, code string) (contracts.Series, error) {
	return contracts.Series{}, &contracts.MissingDataError{Kind: "series", Key: code}
}

func TestRouter_Health(t *testing.T) {
	svc := brain.NewService(nil, logger.Nop())
	router := NewRouter(handlers.NewSectorHandler(svc, emptySource{}, 20, logger.Nop()), logger.Nop())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "sectorlead-api")

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/series/005930/overlay", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/unknown", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
