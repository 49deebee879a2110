package brain

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"github.com/wonny/sectorlead/backend/pkg/logger"
)

// ErrNoResult is returned when nothing has been published yet
var ErrNoResult = errors.New("no ranking result published yet")

// Latest holds the most recently published run.
// 발행된 결과는 불변, 새로고침 시 통째로 교체
type Latest struct {
	mu     sync.RWMutex
	result *RunResult
}

// Get returns the published result or nil
func (l *Latest) Get() *RunResult {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.result
}

// Publish replaces the published result
func (l *Latest) Publish(r *RunResult) {
	l.mu.Lock()
	l.result = r
	l.mu.Unlock()
}

// Runner executes one ranking run
type Runner interface {
	Run(ctx context.Context, config RunConfig) (*RunResult, error)
}

// Service serializes refreshes and serves the latest snapshot
// ⭐ SSOT: 외부(API, 스케줄러, CLI)는 이 서비스로만 랭킹을 실행
type Service struct {
	runner Runner
	latest Latest
	group  singleflight.Group
	now    func() time.Time
	logger *logger.Logger
}

// NewService creates a service around a runner
func NewService(runner Runner, log *logger.Logger) *Service {
	return &Service{
		runner: runner,
		now:    time.Now,
		logger: log,
	}
}

// Refresh runs the ranking once. Concurrent callers share the same run.
// A failed run keeps the previous snapshot published.
func (s *Service) Refresh(ctx context.Context) (*RunResult, error) {
	v, err, shared := s.group.Do("refresh", func() (interface{}, error) {
		runID := fmt.Sprintf("run-%s-%s", s.now().Format("20060102-150405"), uuid.NewString()[:8])
		result, err := s.runner.Run(ctx, RunConfig{RunID: runID})
		if err != nil {
			return result, err
		}
		s.latest.Publish(result)
		return result, nil
	})
	if shared {
		s.logger.Debug("Refresh joined an in-flight run")
	}

	result, _ := v.(*RunResult)
	if err != nil {
		s.logger.WithError(err).Error("Refresh failed, keeping previous result")
		return result, err
	}
	return result, nil
}

// Current returns the published result, running once if nothing exists yet
func (s *Service) Current(ctx context.Context) (*RunResult, error) {
	if r := s.latest.Get(); r != nil {
		return r, nil
	}
	return s.Refresh(ctx)
}

// Latest returns the published result without triggering a run
func (s *Service) Latest() (*RunResult, error) {
	if r := s.latest.Get(); r != nil {
		return r, nil
	}
	return nil, ErrNoResult
}
