package jobs

import (
	"context"
	"fmt"

	"github.com/wonny/sectorlead/backend/internal/brain"
	"github.com/wonny/sectorlead/backend/pkg/logger"
)

// DefaultRefreshSchedule runs after the KRX close on weekdays (seconds field first)
const DefaultRefreshSchedule = "0 30 16 * * 1-5"

// Refresher is the part of brain.Service the job needs
type Refresher interface {
	Refresh(ctx context.Context) (*brain.RunResult, error)
}

// RefreshJob re-runs the sector leader ranking on a schedule
// ⭐ SSOT: 정기 랭킹 갱신은 이 Job에서만
type RefreshJob struct {
	service  Refresher
	schedule string
	logger   *logger.Logger
}

// NewRefreshJob creates a new refresh job; empty schedule uses the default
func NewRefreshJob(service Refresher, schedule string, log *logger.Logger) *RefreshJob {
	if schedule == "" {
		schedule = DefaultRefreshSchedule
	}
	return &RefreshJob{
		service:  service,
		schedule: schedule,
		logger:   log,
	}
}

// Name returns the job name
func (j *RefreshJob) Name() string {
	return "sector_leader_refresh"
}

// Schedule returns the cron schedule
func (j *RefreshJob) Schedule() string {
	return j.schedule
}

// Run executes one refresh
func (j *RefreshJob) Run(ctx context.Context) error {
	result, err := j.service.Refresh(ctx)
	if err != nil {
		return fmt.Errorf("refresh sector leaders: %w", err)
	}

	fields := map[string]interface{}{
		"run_id":   result.RunID,
		"sectors":  len(result.Results),
		"reversal": len(result.Reversal),
		"coverage": result.Coverage.Coverage,
	}
	if !result.Coverage.Passed {
		j.logger.WithFields(fields).Warn("Scheduled refresh finished with low series coverage")
		return nil
	}
	j.logger.WithFields(fields).Info("Scheduled refresh finished")
	return nil
}
