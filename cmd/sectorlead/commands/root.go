package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/wonny/sectorlead/backend/internal/brain"
	"github.com/wonny/sectorlead/backend/internal/strategyconfig"
	"github.com/wonny/sectorlead/backend/pkg/config"
	"github.com/wonny/sectorlead/backend/pkg/logger"
)

var (
	// Global flags
	policyFile string
	dataSource string
	dataDir    string
	verbose    bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "sectorlead",
	Short: "섹터 주도주 랭킹 엔진",
	Long: `Sector Leader Ranking CLI

섹터 ETF 로스터와 종목 유니버스로부터 섹터별 주도주를 선정하고
MA20 추세/이탈 섹터 반전 후보를 계산합니다.

Usage:
  go run ./cmd/sectorlead [command]

Examples:
  go run ./cmd/sectorlead rank
  go run ./cmd/sectorlead rank --format json --strict
  go run ./cmd/sectorlead api --port 8089
  go run ./cmd/sectorlead scheduler start
  go run ./cmd/sectorlead config show`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&policyFile, "policy", "", "policy YAML (default: $POLICY_FILE or built-in)")
	rootCmd.PersistentFlags().StringVar(&dataSource, "source", "", "data source override (file|http|postgres)")
	rootCmd.PersistentFlags().StringVar(&dataDir, "data-dir", "", "data directory override for file source")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}

// loadConfig applies flag overrides and loads env configuration
func loadConfig() (*config.Config, error) {
	if dataSource != "" {
		os.Setenv("DATA_SOURCE", dataSource)
	}
	if dataDir != "" {
		os.Setenv("DATA_DIR", dataDir)
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if verbose {
		cfg.LogLevel = "debug"
	}
	return cfg, nil
}

// loadPolicy resolves the policy file from flag, then env, then defaults
func loadPolicy(cfg *config.Config, log *logger.Logger) (*strategyconfig.Config, error) {
	path := policyFile
	if path == "" {
		path = cfg.PolicyFile
	}

	policy, err := strategyconfig.LoadOrDefault(path)
	if err != nil {
		return nil, fmt.Errorf("load policy: %w", err)
	}

	for _, w := range strategyconfig.Warn(policy) {
		log.WithField("code", w.Code).Warn(w.Message)
	}
	return policy, nil
}

// bootstrap loads config, logger and policy and wires the engine
func bootstrap(ctx context.Context, mutate func(*strategyconfig.Config)) (*config.Config, *logger.Logger, *brain.App, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, nil, err
	}
	log := logger.New(cfg)

	policy, err := loadPolicy(cfg, log)
	if err != nil {
		return nil, nil, nil, err
	}
	if mutate != nil {
		mutate(policy)
		if err := strategyconfig.Validate(policy); err != nil {
			return nil, nil, nil, fmt.Errorf("policy override: %w", err)
		}
	}

	app, err := brain.Build(ctx, cfg, policy, log)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("build engine: %w", err)
	}
	return cfg, log, app, nil
}
