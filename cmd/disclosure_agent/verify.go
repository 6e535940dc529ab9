package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"image/jpeg"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/masato/disclosure-verifier/internal/imaging"
	"github.com/masato/disclosure-verifier/internal/observability"
	"github.com/masato/disclosure-verifier/internal/types"
	"github.com/masato/disclosure-verifier/internal/verify"
)

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Cross-check a disclosure statement against evidence documents",
	Long:  "Rasterize the evidence PDFs and the target disclosure PDF, run the form-completeness and cross-referencing passes, and print the merged findings.",
	RunE:  runVerify,
}

var (
	verifyEvidence []string
	verifyTarget   []string
	verifyJSONOut  string
	verifyCropsDir string
	verifyModel    string
)

func init() {
	verifyCmd.Flags().StringArrayVar(&verifyEvidence, "evidence", nil, "Path to an evidence PDF (repeatable)")
	verifyCmd.Flags().StringArrayVar(&verifyTarget, "target", nil, "Path to the disclosure statement PDF (repeatable)")
	verifyCmd.Flags().StringVar(&verifyJSONOut, "json", "", "Write the findings as JSON to this path")
	verifyCmd.Flags().StringVar(&verifyCropsDir, "crops", "", "Write evidence crop images for located findings to this directory")
	verifyCmd.Flags().StringVar(&verifyModel, "model", "", "Override the verification model")

	_ = verifyCmd.MarkFlagRequired("evidence")
	_ = verifyCmd.MarkFlagRequired("target")

	rootCmd.AddCommand(verifyCmd)
}

func runVerify(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if verifyModel != "" {
		cfg.Model = verifyModel
	}
	logger := newLogger(cfg)

	ctx := cmd.Context()
	verifier, client, err := newVerifier(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := client.Close(); err != nil {
			logger.Warn("failed to close model client", "error", err)
		}
	}()

	evidence, err := readDocuments(verifyEvidence)
	if err != nil {
		return err
	}
	target, err := readDocuments(verifyTarget)
	if err != nil {
		return err
	}

	result, err := verifier.Run(ctx, verify.Request{Evidence: evidence, Target: target})
	if err != nil {
		return fmt.Errorf("verification failed: %w", err)
	}

	observability.NewPrinter(os.Stdout).PrintFindings(result.Findings)

	if verifyJSONOut != "" {
		if err := writeFindingsJSON(verifyJSONOut, result.Findings); err != nil {
			return err
		}
	}
	if verifyCropsDir != "" {
		if err := writeEvidenceCrops(verifyCropsDir, result, logger); err != nil {
			return err
		}
	}
	return nil
}

func readDocuments(paths []string) ([][]byte, error) {
	docs := make([][]byte, 0, len(paths))
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read document %s: %w", path, err)
		}
		docs = append(docs, data)
	}
	return docs, nil
}

func writeFindingsJSON(path string, findings []types.Finding) error {
	if findings == nil {
		findings = []types.Finding{}
	}
	data, err := json.MarshalIndent(findings, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal findings: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write findings JSON: %w", err)
	}
	return nil
}

// writeEvidenceCrops saves a padded crop image for every finding that
// carries a usable box and page reference. Findings pointing outside the
// page set are skipped.
func writeEvidenceCrops(dir string, result *verify.Result, logger *slog.Logger) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create crops directory: %w", err)
	}

	written := 0
	for i, f := range result.Findings {
		if len(f.Box) != 4 || f.ImageIndex == nil {
			continue
		}
		idx := *f.ImageIndex
		if idx < 0 || idx >= len(result.Pages) {
			logger.Warn("finding references a page outside the submitted set",
				"category", f.Category, "image_index", idx)
			continue
		}

		page, err := jpeg.Decode(bytes.NewReader(result.Pages[idx].JPEG))
		if err != nil {
			logger.Warn("failed to decode page for cropping", "image_index", idx, "error", err)
			continue
		}
		crop := imaging.CropEvidenceRegion(page, f.Box)

		var buf bytes.Buffer
		if err := jpeg.Encode(&buf, crop, &jpeg.Options{Quality: 90}); err != nil {
			return fmt.Errorf("failed to encode crop: %w", err)
		}
		path := filepath.Join(dir, fmt.Sprintf("finding-%02d.jpg", i+1))
		if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
			return fmt.Errorf("failed to write crop %s: %w", path, err)
		}
		written++
	}

	logger.Info("evidence crops written", "dir", dir, "count", written)
	return nil
}
