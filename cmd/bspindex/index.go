package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/bsptools/bspindex/internal/config"
	"github.com/bsptools/bspindex/internal/indexer"
	"github.com/bsptools/bspindex/internal/storage"
)

var indexCmd = &cobra.Command{
	Use:   "index <project-path>",
	Short: "Index a BSP project into a fresh snapshot",
	Long: "index crawls the project tree, extracts facts from recipes, configuration,\n" +
		"headers, and device tree sources, and writes a new snapshot, replacing any\n" +
		"prior snapshot at the output location.",
	Args: cobra.ExactArgs(1),
	RunE: runIndex,
}

func init() {
	indexCmd.Flags().StringP("output", "o", "", "output snapshot path (default <project>/.bsp-index/index.db)")
	indexCmd.Flags().Int("workers", 0, "extraction worker count")
	indexCmd.Flags().Int("batch-size", 0, "files per write transaction")
	indexCmd.Flags().StringSlice("exclude", nil, "extra exclusion patterns (gitignore syntax)")
	_ = viper.BindPFlag("output", indexCmd.Flags().Lookup("output"))
	_ = viper.BindPFlag("workers", indexCmd.Flags().Lookup("workers"))
	_ = viper.BindPFlag("batch_size", indexCmd.Flags().Lookup("batch-size"))
	_ = viper.BindPFlag("exclude_patterns", indexCmd.Flags().Lookup("exclude"))
}

func runIndex(cmd *cobra.Command, args []string) error {
	cfg := config.Load()
	logger := newLogger(cfg.Verbose)

	rootPath, err := filepath.Abs(args[0])
	if err != nil {
		return fmt.Errorf("resolving project path: %w", err)
	}
	if info, err := os.Stat(rootPath); err != nil || !info.IsDir() {
		return fmt.Errorf("project path %s is not a directory", rootPath)
	}

	outputPath := cfg.Output
	if outputPath == "" {
		outputPath = filepath.Join(rootPath, ".bsp-index", "index.db")
	}

	logger.Info("indexing project", "root", rootPath, "output", outputPath)

	store, err := storage.Create(outputPath)
	if err != nil {
		return fmt.Errorf("initializing snapshot store: %w", err)
	}
	defer func() { _ = store.Close() }()

	idx := indexer.New(store, logger)
	stats, err := idx.IndexProject(cmd.Context(), rootPath, &indexer.Config{
		Workers:         cfg.Workers,
		BatchSize:       cfg.BatchSize,
		ExcludePatterns: cfg.ExcludePatterns,
		Version:         version,
	})
	if err != nil {
		return fmt.Errorf("indexing failed: %w", err)
	}

	if err := indexer.WriteSummary(outputPath, version, stats); err != nil {
		return fmt.Errorf("writing summary: %w", err)
	}

	logger.Info("indexing complete",
		"duration", stats.Duration,
		"files", stats.FilesIndexed,
		"skipped", stats.FilesSkipped,
		"symbols", stats.Symbols,
		"includes", stats.Includes,
		"dt_nodes", stats.Nodes)

	fmt.Println(outputPath)
	return nil
}

func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
