package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/wonny/sectorlead/backend/internal/strategyconfig"
)

// rankCmd runs one ranking pass and prints the result
var rankCmd = &cobra.Command{
	Use:   "rank",
	Short: "섹터 주도주 랭킹 1회 실행",
	Long: `로스터/유니버스/시계열을 읽어 섹터별 주도주를 선정합니다.

Flags:
  --format     table | json (기본: table)
  --strict     풀 소진 시 재사용 없이 빈 섹터로 둠
  --min-streak 유지 지속일 하한 덮어쓰기
  --reversal   이탈 섹터 반전 후보도 출력

Example:
  go run ./cmd/sectorlead rank
  go run ./cmd/sectorlead rank --source http --format json
  go run ./cmd/sectorlead rank --strict --min-streak 5`,
	RunE: runRank,
}

var (
	rankFormat    string
	rankStrict    bool
	rankMinStreak int
	rankReversal  bool
)

func init() {
	rootCmd.AddCommand(rankCmd)

	rankCmd.Flags().StringVar(&rankFormat, "format", "table", "output format (table|json)")
	rankCmd.Flags().BoolVar(&rankStrict, "strict", false, "never reuse leaders across sectors")
	rankCmd.Flags().IntVar(&rankMinStreak, "min-streak", -1, "minimum holding streak (default: policy)")
	rankCmd.Flags().BoolVar(&rankReversal, "reversal", false, "also print reversal candidates")
}

func runRank(cmd *cobra.Command, args []string) error {
	if rankFormat != "table" && rankFormat != "json" {
		return fmt.Errorf("unknown format %q (valid: table, json)", rankFormat)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	_, log, app, err := bootstrap(ctx, func(p *strategyconfig.Config) {
		if rankStrict {
			p.Selection.ReusePolicy = "strict"
		}
		if rankMinStreak >= 0 {
			p.Filter.MinStreakDays = rankMinStreak
		}
	})
	if err != nil {
		return err
	}
	defer app.Close()

	var bar *progressbar.ProgressBar
	if rankFormat == "table" {
		app.Orchestrator.OnProgress(func(done, total int) {
			if bar == nil {
				bar = newFetchBar(total)
			}
			_ = bar.Set(done)
		})
	}

	result, err := app.Service.Refresh(ctx)
	if bar != nil {
		_ = bar.Finish()
		fmt.Fprintln(os.Stderr)
	}
	if err != nil {
		log.WithError(err).Error("Ranking failed")
		return err
	}

	if rankFormat == "json" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	PrintRunHeader(result)
	if err := RenderLeaders(os.Stdout, result.Results); err != nil {
		return err
	}
	if rankReversal {
		fmt.Println()
		if err := RenderReversal(os.Stdout, result.Reversal); err != nil {
			return err
		}
	}
	PrintRunFooter(result)
	return nil
}

func newFetchBar(total int) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("Series"),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]█[reset]",
			SaucerHead:    "[green]█[reset]",
			SaucerPadding: "░",
			BarStart:      "[",
			BarEnd:        "]",
		}),
	)
}
