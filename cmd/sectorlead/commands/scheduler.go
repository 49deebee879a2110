package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/sectorlead/backend/internal/api"
	"github.com/wonny/sectorlead/backend/internal/api/handlers"
	"github.com/wonny/sectorlead/backend/internal/scheduler"
	"github.com/wonny/sectorlead/backend/internal/scheduler/jobs"
	"github.com/wonny/sectorlead/backend/pkg/logger"
)

// schedulerCmd represents the scheduler command
var schedulerCmd = &cobra.Command{
	Use:   "scheduler",
	Short: "스케줄러 관리",
	Long: `정기 랭킹 갱신 스케줄러.

Subcommands:
  start   - 스케줄러 시작 (옵션: API 서버 동시 실행)
  next    - 다음 실행 시각 확인

Example:
  go run ./cmd/sectorlead scheduler start
  go run ./cmd/sectorlead scheduler start --with-api
  go run ./cmd/sectorlead scheduler next`,
}

var (
	schedulerStartCmd = &cobra.Command{
		Use:   "start",
		Short: "스케줄러 시작",
		Long: `REFRESH_SCHEDULE (기본: 평일 16:30 KST) 마다 랭킹을 다시 계산합니다.

스케줄러는 Ctrl+C로 종료할 수 있습니다.`,
		RunE: runScheduler,
	}

	schedulerNextCmd = &cobra.Command{
		Use:   "next",
		Short: "다음 실행 시각",
		RunE:  showNextRun,
	}

	schedulerWithAPI bool
	schedulerRunNow  bool
)

func init() {
	rootCmd.AddCommand(schedulerCmd)
	schedulerCmd.AddCommand(schedulerStartCmd)
	schedulerCmd.AddCommand(schedulerNextCmd)

	schedulerStartCmd.Flags().BoolVar(&schedulerWithAPI, "with-api", false, "API 서버 동시 실행")
	schedulerStartCmd.Flags().BoolVar(&schedulerRunNow, "run-now", false, "시작 직후 1회 실행")
}

func runScheduler(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, log, app, err := bootstrap(ctx, nil)
	if err != nil {
		return err
	}
	defer app.Close()

	loc, err := time.LoadLocation(app.Policy.Meta.Timezone)
	if err != nil {
		return fmt.Errorf("load timezone: %w", err)
	}

	sched := scheduler.New(log, scheduler.WithLocation(loc))
	job := jobs.NewRefreshJob(app.Service, cfg.RefreshSchedule, log)
	if err := sched.AddJob(job); err != nil {
		return err
	}

	sched.Start()
	defer sched.Stop()

	if next, err := sched.NextRun(job.Name()); err == nil {
		PrintKeyValue("Next run", next.In(loc).Format("2006-01-02 15:04:05 MST"), 9)
	}

	if schedulerRunNow {
		go func() {
			if _, err := sched.RunJob(job.Name()); err != nil {
				log.WithError(err).Error("Immediate run failed")
			}
		}()
	}

	if schedulerWithAPI {
		sectorHandler := handlers.NewSectorHandler(app.Service, app.Series, app.Policy.Trend.MAPeriod, log)
		server := api.New(cfg, log, api.NewRouter(sectorHandler, log))
		fmt.Printf("\n✅ Scheduler + API running on http://localhost:%s\n", cfg.Port)
		return server.Run(ctx, 30*time.Second)
	}

	fmt.Println("\n✅ Scheduler running. Press Ctrl+C to stop")
	<-ctx.Done()
	return nil
}

func showNextRun(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := logger.New(cfg)
	policy, err := loadPolicy(cfg, log)
	if err != nil {
		return err
	}

	loc, err := time.LoadLocation(policy.Meta.Timezone)
	if err != nil {
		return fmt.Errorf("load timezone: %w", err)
	}

	sched := scheduler.New(log, scheduler.WithLocation(loc))
	job := jobs.NewRefreshJob(nil, cfg.RefreshSchedule, log)
	if err := sched.AddJob(job); err != nil {
		return err
	}
	sched.Start()
	defer sched.Stop()

	next, err := sched.NextRun(job.Name())
	if err != nil {
		return err
	}
	PrintKeyValue("Schedule", job.Schedule(), 9)
	PrintKeyValue("Next run", next.In(loc).Format("2006-01-02 15:04:05 MST"), 9)
	return nil
}
