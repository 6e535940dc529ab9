// Package main provides the entry point for the disclosure verification CLI.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/masato/disclosure-verifier/internal/config"
	"github.com/masato/disclosure-verifier/internal/llm"
	"github.com/masato/disclosure-verifier/internal/rasterize"
	"github.com/masato/disclosure-verifier/internal/verify"
)

var rootCmd = &cobra.Command{
	Use:   "disclosure_agent",
	Short: "Real estate disclosure verification",
	Long:  "disclosure_agent cross-checks a real estate disclosure statement (重要事項説明書) against its evidence documents with a multimodal model, and runs rule-based input checks on contracts, disclosures, and equipment schedules.",
}

var (
	configPath string
	verbose    bool
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to JSON config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// loadConfig builds the runtime configuration from defaults, the optional
// --config file, and the environment.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	if verbose {
		cfg.Verbose = true
	}
	return cfg, nil
}

func newLogger(cfg *config.Config) *slog.Logger {
	level := slog.LevelInfo
	if cfg.Verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func newRasterizer(cfg *config.Config, logger *slog.Logger) *rasterize.Rasterizer {
	return rasterize.New(rasterize.Config{
		Pdftoppm:  cfg.Pdftoppm,
		Pdftotext: cfg.Pdftotext,
		DPI:       cfg.DPI,
		Quality:   cfg.Quality,
		MaxPages:  cfg.MaxPages,
		MaxEdgePx: cfg.MaxEdgePx,
	}, logger)
}

// newVerifier wires the model client and the rasterizer into a Verifier.
// The caller must close the returned client.
func newVerifier(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*verify.Verifier, llm.Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	llmCfg := llm.DefaultConfig()
	if cfg.Model != "" {
		llmCfg = llmCfg.WithModel(llm.TierStandard, cfg.Model)
	}
	client, err := llm.NewClient(ctx, llmCfg, cfg.APIKey)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create model client: %w", err)
	}

	return verify.New(client, newRasterizer(cfg, logger), logger), client, nil
}
