package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/masato/disclosure-verifier/internal/checkers"
	"github.com/masato/disclosure-verifier/internal/observability"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Run rule-based input checks on a single document",
	Long:  "Extract the text of a PDF and run the rule set for its document type: contract (契約書), disclosure (重要事項説明書), or equipment (設備表). No model calls are made.",
	RunE:  runCheck,
}

var (
	checkFile string
	checkType string
)

func init() {
	checkCmd.Flags().StringVar(&checkFile, "file", "", "Path to the PDF to check")
	checkCmd.Flags().StringVar(&checkType, "type", "", "Document type: contract, disclosure, or equipment")

	_ = checkCmd.MarkFlagRequired("file")
	_ = checkCmd.MarkFlagRequired("type")

	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, _ []string) error {
	checker := checkers.ForDocumentType(checkType)
	if checker == nil {
		return fmt.Errorf("unknown document type %q (expected contract, disclosure, or equipment)", checkType)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	logger := newLogger(cfg)

	data, err := os.ReadFile(checkFile)
	if err != nil {
		return fmt.Errorf("failed to read document %s: %w", checkFile, err)
	}

	text, pages, err := newRasterizer(cfg, logger).Text(cmd.Context(), data)
	if err != nil {
		return fmt.Errorf("failed to extract text: %w", err)
	}
	logger.Debug("text extracted", "pages", pages, "bytes", len(text))

	results := checker.Run(text)
	observability.NewPrinter(os.Stdout).PrintCheckResults(checker.Name(), results)

	for _, r := range results {
		if r.Severity == checkers.SeverityError {
			os.Exit(1)
		}
	}
	return nil
}
