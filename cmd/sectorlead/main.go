package main

import (
	"os"

	"github.com/wonny/sectorlead/backend/cmd/sectorlead/commands"
)

// main is the entry point for the sector leader CLI
// ⭐ 통합 CLI 진입점: go run ./cmd/sectorlead [command]
func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
