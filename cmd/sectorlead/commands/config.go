package commands

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/wonny/sectorlead/backend/internal/s0_data"
	"github.com/wonny/sectorlead/backend/internal/strategyconfig"
	"github.com/wonny/sectorlead/backend/pkg/config"
	"github.com/wonny/sectorlead/backend/pkg/database"
	"github.com/wonny/sectorlead/backend/pkg/httputil"
	"github.com/wonny/sectorlead/backend/pkg/logger"
	"github.com/wonny/sectorlead/backend/pkg/redis"
)

// configCmd groups configuration commands
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "설정/정책 확인",
	Long: `환경 설정과 선정 정책을 확인합니다.

Subcommands:
  show    - 적용될 환경 설정과 정책 출력
  check   - 데이터 소스/DB/Redis 연결 점검

Example:
  go run ./cmd/sectorlead config show
  go run ./cmd/sectorlead config show --policy config/policy/sector_leader.yaml
  go run ./cmd/sectorlead config check`,
}

var (
	configShowCmd = &cobra.Command{
		Use:   "show",
		Short: "환경 설정과 정책 출력",
		RunE:  showConfig,
	}

	configCheckCmd = &cobra.Command{
		Use:   "check",
		Short: "연결 점검",
		RunE:  checkConfig,
	}
)

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configCheckCmd)
}

func showConfig(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log := logger.New(cfg)
	policy, err := loadPolicy(cfg, log)
	if err != nil {
		return err
	}
	hash, err := strategyconfig.Hash(policy)
	if err != nil {
		return err
	}

	PrintDoubleSeparator()
	fmt.Println("  Environment")
	PrintSeparator()
	PrintKeyValue("ENV", cfg.Env, 18)
	PrintKeyValue("DATA_SOURCE", cfg.Data.Source, 18)
	switch cfg.Data.Source {
	case config.SourceFile:
		PrintKeyValue("DATA_DIR", cfg.Data.Dir, 18)
	case config.SourceHTTP:
		PrintKeyValue("DATA_BASE_URL", cfg.Data.BaseURL, 18)
	case config.SourcePostgres:
		PrintKeyValue("DATABASE_URL", "(set)", 18)
	}
	PrintKeyValue("FETCH_CONCURRENCY", fmt.Sprint(cfg.Data.FetchConcurrency), 18)
	PrintKeyValue("REDIS_ENABLED", fmt.Sprint(cfg.Redis.Enabled), 18)
	PrintKeyValue("NAVER_FALLBACK", fmt.Sprint(cfg.Naver.FallbackEnabled), 18)
	PrintKeyValue("REFRESH_SCHEDULE", cfg.RefreshSchedule, 18)

	fmt.Println()
	PrintDoubleSeparator()
	fmt.Printf("  Policy (hash %s)\n", shortHash(hash))
	PrintSeparator()
	enc := yaml.NewEncoder(os.Stdout)
	enc.SetIndent(2)
	if err := enc.Encode(policy); err != nil {
		return err
	}
	return enc.Close()
}

func checkConfig(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	failed := 0

	switch cfg.Data.Source {
	case config.SourcePostgres:
		db, err := database.New(ctx, cfg.Database)
		if err != nil {
			PrintError(fmt.Sprintf("database: %v", err))
			failed++
			break
		}
		defer db.Close()
		health, err := db.HealthCheck(ctx)
		if err != nil || !health.Healthy {
			PrintError(fmt.Sprintf("database unhealthy: %v", err))
			failed++
		} else {
			PrintSuccess(fmt.Sprintf("database ok (%s, %d/%d conns)", health.ResponseTime, health.AcquiredConns, health.MaxConns))
		}
	default:
		var fetcher s0_data.Fetcher = s0_data.NewFileFetcher(cfg.Data.Dir)
		if cfg.Data.Source == config.SourceHTTP {
			client := httputil.New(logger.New(cfg), cfg.Data.HTTPTimeout, cfg.Data.HTTPRateLimit).DisableRetry()
			fetcher = s0_data.NewHTTPFetcher(cfg.Data.BaseURL, client)
		}
		if _, err := fetcher.Fetch(ctx, s0_data.RosterFile); err != nil {
			PrintError(fmt.Sprintf("roster: %v", err))
			failed++
		} else {
			PrintSuccess("roster found at " + fetcher.Describe())
		}
	}

	if cfg.Redis.Enabled {
		rc, err := redis.New(cfg)
		if err != nil {
			PrintError(fmt.Sprintf("redis: %v", err))
			failed++
		} else {
			_ = rc.Close()
			PrintSuccess("redis ok")
		}
	} else {
		PrintInfo("redis disabled")
	}

	if failed > 0 {
		return fmt.Errorf("%d check(s) failed", failed)
	}
	return nil
}
