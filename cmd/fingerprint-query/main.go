package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/scamguard/fpengine/internal/category"
	"github.com/scamguard/fpengine/internal/config"
	"github.com/scamguard/fpengine/internal/engine"
	"github.com/scamguard/fpengine/internal/logger"
	"github.com/scamguard/fpengine/internal/store"
)

var mode string

var rootCmd = &cobra.Command{
	Use:   "fingerprint-query [path]",
	Short: "Run a known-fraud verdict against a single recording",
	Args:  cobra.ExactArgs(1),
	RunE:  run,
}

func init() {
	rootCmd.Flags().StringVar(&mode, "mode", "fingerprint", "query mode: fingerprint, hybrid, or auto")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	path := args[0]
	cfg := config.Load()

	logFile := cfg.LogPath
	if logFile == "" {
		logFile = "fingerprint-query.log"
	}
	if err := logger.Initialize("info", logFile); err != nil {
		return fmt.Errorf("initialize logger: %w", err)
	}
	defer logger.Close()
	log := logger.Log

	st, err := store.Open(cfg.IndexPath, log)
	if err != nil {
		return fmt.Errorf("open index: %w", err)
	}
	defer st.Close()

	cats, err := category.Load(cfg.CategoryMapPath)
	if err != nil {
		return fmt.Errorf("load category mapping: %w", err)
	}

	eng := engine.New(st, cats, cfg.Fingerprint, log)

	verdict, err := eng.Query(context.Background(), path, engine.Mode(mode))
	if err != nil {
		fmt.Printf("label=ERROR details=%q\n", err.Error())
		os.Exit(1)
	}

	fmt.Printf("label=%s confidence=%.2f scam_type=%q match_ratio=%.3f best_match=%q details=%q\n",
		verdict.Label, verdict.Confidence, verdict.ScamType, verdict.MatchRatio, verdict.BestMatch, verdict.Details)

	return nil
}
