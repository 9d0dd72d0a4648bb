package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/scamguard/fpengine/internal/audio"
	"github.com/scamguard/fpengine/internal/category"
	"github.com/scamguard/fpengine/internal/config"
	"github.com/scamguard/fpengine/internal/ingest"
	"github.com/scamguard/fpengine/internal/logger"
	"github.com/scamguard/fpengine/internal/store"
)

var (
	build   bool
	check   bool
	rebuild bool
)

var rootCmd = &cobra.Command{
	Use:   "fingerprint-ingest",
	Short: "Build and inspect the known-fraud fingerprint index",
	RunE:  run,
}

func init() {
	rootCmd.Flags().BoolVar(&build, "build", false, "fingerprint the corpus and replace per-recording rows")
	rootCmd.Flags().BoolVar(&check, "check", false, "print index row/recording counts and a sample of recording ids")
	rootCmd.Flags().BoolVar(&rebuild, "rebuild", false, "alias for --build that also regenerates the category mapping")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	cfg := config.Load()

	logFile := cfg.LogPath
	if logFile == "" {
		logFile = "fingerprint-ingest.log"
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

	if !build && !check && !rebuild {
		return fmt.Errorf("nothing to do: pass --build, --rebuild, or --check")
	}

	if build || rebuild {
		cats, err := category.Load(cfg.CategoryMapPath)
		if err != nil {
			return fmt.Errorf("load category mapping: %w", err)
		}
		if rebuild || len(cats) == 0 {
			cats, err = category.Generate(cfg.CorpusRoot, audio.IsSupported, cfg.ExcludeDirs)
			if err != nil {
				return fmt.Errorf("generate category mapping: %w", err)
			}
			if err := category.Save(cfg.CategoryMapPath, cats); err != nil {
				return fmt.Errorf("save category mapping: %w", err)
			}
		}

		report, err := ingest.Build(context.Background(), st, cfg.CorpusRoot, cfg.ExcludeDirs, cats, cfg.Fingerprint, log)
		if err != nil {
			return fmt.Errorf("build index: %w", err)
		}
		log.Info("ingest complete",
			zap.Int("processed", report.FilesProcessed),
			zap.Int("skipped", report.FilesSkipped))
	}

	if check {
		recordings, err := st.Recordings()
		if err != nil {
			return fmt.Errorf("list recordings: %w", err)
		}

		total := 0
		for _, r := range recordings {
			total += r.HashCount
		}

		fmt.Printf("rows: %d\n", total)
		fmt.Printf("distinct recordings: %d\n", len(recordings))
		fmt.Println("sample recordings:")
		for i, r := range recordings {
			if i >= 10 {
				break
			}
			fmt.Printf("  %s (%s, %d hashes)\n", r.ID, r.Category, r.HashCount)
		}
	}

	return nil
}
