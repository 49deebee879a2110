package jobs

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/sectorlead/backend/internal/brain"
	"github.com/wonny/sectorlead/backend/internal/s0_data/quality"
	"github.com/wonny/sectorlead/backend/pkg/logger"
)

type stubRefresher struct {
	result *brain.RunResult
	err    error
	calls  int
}

func (s *stubRefresher) Refresh(ctx context.Context) (*brain.RunResult, error) {
	s.calls++
	return s.result, s.err
}

func TestRefreshJob(t *testing.T) {
	job := NewRefreshJob(&stubRefresher{}, "", logger.Nop())
	assert.Equal(t, "sector_leader_refresh", job.Name())
	assert.Equal(t, DefaultRefreshSchedule, job.Schedule())

	tests := []struct {
		name    string
		stub    *stubRefresher
		wantErr bool
	}{
		{"success", &stubRefresher{result: &brain.RunResult{RunID: "r", Coverage: quality.Report{Passed: true}}}, false},
		{"low coverage still succeeds", &stubRefresher{result: &brain.RunResult{RunID: "r"}}, false},
		{"roster failure", &stubRefresher{err: errors.New("missing roster")}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			job := NewRefreshJob(tt.stub, "0 0 17 * * 1-5", logger.Nop())
			err := job.Run(context.Background())
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "refresh sector leaders")
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, 1, tt.stub.calls)
		})
	}
}
