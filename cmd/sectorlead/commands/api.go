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
)

// apiCmd represents the api command
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "API 서버 시작",
	Long: `REST API 서버를 시작합니다.

Endpoints:
  GET  /health                              - Health check
  GET  /api/v1/sector-leaders               - 섹터 주도주 (최근 결과, 없으면 1회 실행)
  POST /api/v1/sector-leaders/refresh       - 즉시 재계산
  GET  /api/v1/sector-leaders/reversal      - 이탈 섹터 반전 후보
  GET  /api/v1/series/{code}/overlay        - 종가 + MA 오버레이

Example:
  go run ./cmd/sectorlead api
  go run ./cmd/sectorlead api --port 8080 --warm`,
	RunE: runAPIServer,
}

var (
	apiPort string
	apiWarm bool
)

func init() {
	rootCmd.AddCommand(apiCmd)

	apiCmd.Flags().StringVar(&apiPort, "port", "", "API 서버 포트 (기본: $PORT)")
	apiCmd.Flags().BoolVar(&apiWarm, "warm", false, "시작 시 랭킹 1회 실행")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, log, app, err := bootstrap(ctx, nil)
	if err != nil {
		return err
	}
	defer app.Close()

	if apiPort != "" {
		cfg.Port = apiPort
	}

	if apiWarm {
		if _, err := app.Service.Refresh(ctx); err != nil {
			log.WithError(err).Warn("Warm-up ranking failed, serving on demand")
		}
	}

	sectorHandler := handlers.NewSectorHandler(app.Service, app.Series, app.Policy.Trend.MAPeriod, log)
	router := api.NewRouter(sectorHandler, log)
	server := api.New(cfg, log, router)

	fmt.Printf("\n✅ Server running on http://localhost:%s\n", cfg.Port)
	fmt.Println("\nPress Ctrl+C to stop")

	if err := server.Run(ctx, 30*time.Second); err != nil {
		return err
	}

	log.Info("Server stopped")
	return nil
}
