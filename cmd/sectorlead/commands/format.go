package commands

import (
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"

	"github.com/wonny/sectorlead/backend/internal/brain"
	"github.com/wonny/sectorlead/backend/internal/contracts"
)

// ═══════════════════════════════════════════════════════════
// Common Formatting Utilities
// 모든 커맨드가 동일한 출력 포맷을 사용하도록 통일
// ═══════════════════════════════════════════════════════════

// PrintRunHeader prints a formatted run header
func PrintRunHeader(r *brain.RunResult) {
	fmt.Println()
	PrintDoubleSeparator()
	fmt.Println("  Sector Leaders")
	PrintSeparator()
	PrintKeyValue("Run ID", r.RunID, 9)
	PrintKeyValue("Policy", fmt.Sprintf("%s (%s)", r.Stamp.PolicyID, shortHash(r.Stamp.PolicyHash)), 9)
	PrintKeyValue("Roster", fmt.Sprintf("%d sectors, %d qualified, %d excluded", r.Stats.RosterSize, r.Stats.Qualified, r.Stats.Excluded), 9)
	PrintKeyValue("Universe", strconv.Itoa(r.UniverseSize), 9)
	PrintSeparator()
}

// PrintRunFooter prints coverage and timing
func PrintRunFooter(r *brain.RunResult) {
	fmt.Println()
	if !r.Coverage.Passed {
		PrintWarning(fmt.Sprintf("series coverage %.0f%% (missing %d, short %d)",
			r.Coverage.Coverage*100, len(r.Coverage.Missing), len(r.Coverage.Short)))
	}
	if r.Stats.ReusedSlots > 0 {
		PrintInfo(fmt.Sprintf("%d leader slot(s) reused from earlier sectors (*)", r.Stats.ReusedSlots))
	}
	PrintSuccess(fmt.Sprintf("Ranked %d sectors in %.2fs", len(r.Results), r.Duration.Seconds()))
}

// RenderLeaders writes the leader table
func RenderLeaders(w io.Writer, results []contracts.SelectionResult) error {
	table := tablewriter.NewTable(w,
		tablewriter.WithHeader([]string{"#", "Sector", "ETF", "Trend", "Days", "Chg%", "MA20", "Leaders"}),
	)
	for i, r := range results {
		if err := table.Append([]string{
			strconv.Itoa(i + 1),
			r.SectorLabel,
			etfCell(r),
			r.TrendLabel,
			strconv.Itoa(r.StreakDays),
			fmt.Sprintf("%+.2f", r.ChangePercent),
			maCell(r.Trend),
			leadersCell(r.Stocks),
		}); err != nil {
			return err
		}
	}
	return table.Render()
}

// RenderReversal writes the reversal watch table
func RenderReversal(w io.Writer, candidates []contracts.ReversalCandidate) error {
	table := tablewriter.NewTable(w,
		tablewriter.WithHeader([]string{"#", "Sector", "ETF", "Broken", "Gap%"}),
	)
	for i, c := range candidates {
		if err := table.Append([]string{
			strconv.Itoa(i + 1),
			c.SectorLabel,
			fmt.Sprintf("%s %s", c.ETFCode, c.ETFName),
			strconv.Itoa(c.StreakDays),
			fmt.Sprintf("%.2f", c.ProximityPct),
		}); err != nil {
			return err
		}
	}
	return table.Render()
}

func etfCell(r contracts.SelectionResult) string {
	s := fmt.Sprintf("%s %s", r.ETFCode, r.ETFName)
	if r.ETFSeriesSubstituted {
		s += " (대체)"
	}
	return s
}

func maCell(t contracts.TrendState) string {
	if t.ProximityPct == math.MaxFloat64 {
		return "-"
	}
	arrow := "▼"
	if t.AboveMA20 {
		arrow = "▲"
	}
	return fmt.Sprintf("%s %dd", arrow, t.StreakDays)
}

func leadersCell(stocks []contracts.LeaderStock) string {
	if len(stocks) == 0 {
		return "-"
	}
	parts := make([]string, len(stocks))
	for i, s := range stocks {
		mark := ""
		if s.Reused {
			mark = "*"
		}
		parts[i] = fmt.Sprintf("%s(%d)%s", s.Name, s.RSValue, mark)
	}
	return strings.Join(parts, ", ")
}

func shortHash(h string) string {
	if len(h) > 8 {
		return h[:8]
	}
	return h
}

// PrintSeparator prints a visual separator
func PrintSeparator() {
	fmt.Println("───────────────────────────────────────────────────────────")
}

// PrintDoubleSeparator prints a double-line separator
func PrintDoubleSeparator() {
	fmt.Println("═══════════════════════════════════════════════════════════")
}

// PrintWarning prints a warning message
func PrintWarning(message string) {
	fmt.Printf("⚠️  %s\n", message)
}

// PrintSuccess prints a success message
func PrintSuccess(message string) {
	fmt.Printf("✅ %s\n", message)
}

// PrintError prints an error message
func PrintError(message string) {
	fmt.Printf("❌ %s\n", message)
}

// PrintInfo prints an info message
func PrintInfo(message string) {
	fmt.Printf("ℹ️  %s\n", message)
}

// PrintKeyValue prints key-value pairs
func PrintKeyValue(key string, value string, keyWidth int) {
	fmt.Printf("   %-*s : %s\n", keyWidth, key, value)
}
