// Package verify orchestrates the two-pass disclosure verification: a
// standalone form-completeness check over the target document and a
// cross-referencing pass over evidence and target together.
package verify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/masato/disclosure-verifier/internal/llm"
	"github.com/masato/disclosure-verifier/internal/parsing"
	"github.com/masato/disclosure-verifier/internal/prompts"
	"github.com/masato/disclosure-verifier/internal/rasterize"
	"github.com/masato/disclosure-verifier/internal/schemas"
	"github.com/masato/disclosure-verifier/internal/types"
)

const (
	formCheckMaxTokens  = 4096
	crossCheckMaxTokens = 8192
)

// Request carries the documents for one verification run. Evidence and
// Target are raw PDF streams; each may span multiple files.
type Request struct {
	Evidence [][]byte
	Target   [][]byte
	Tier     llm.ModelTier
}

// Result is the outcome of a verification run. Pages holds the rasterized
// evidence pages followed by the target pages, matching the image indexes
// referenced by the findings.
type Result struct {
	RequestID     string
	Findings      []types.Finding
	Pages         []types.PageImage
	EvidenceCount int
	States        []State
}

// Verifier runs verification requests against a vision model.
type Verifier struct {
	llm    llm.Client
	ras    *rasterize.Rasterizer
	logger *slog.Logger
}

// New creates a Verifier. A nil logger falls back to slog.Default.
func New(client llm.Client, ras *rasterize.Rasterizer, logger *slog.Logger) *Verifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &Verifier{llm: client, ras: ras, logger: logger}
}

// Run executes both verification passes and returns the merged findings.
// A form-pass failure degrades to a warning finding; a cross-pass failure
// fails the run.
func (v *Verifier) Run(ctx context.Context, req Request) (*Result, error) {
	if len(req.Evidence) == 0 {
		return nil, &ValidationError{Message: "at least one evidence document is required"}
	}
	if len(req.Target) == 0 {
		return nil, &ValidationError{Message: "a target document is required"}
	}

	tier := req.Tier
	if tier == "" {
		tier = llm.TierStandard
	}

	res := &Result{
		RequestID: uuid.New().String(),
		States:    []State{StateIdle},
	}
	logger := v.logger.With("request_id", res.RequestID)

	res.States = append(res.States, StateRasterizingEvidence)
	evidencePages, err := v.rasterizeAll(ctx, req.Evidence)
	if err != nil {
		return nil, err
	}

	res.States = append(res.States, StateRasterizingTarget)
	targetPages, err := v.rasterizeAll(ctx, req.Target)
	if err != nil {
		return nil, err
	}
	logger.Info("documents rasterized",
		"evidence_pages", len(evidencePages),
		"target_pages", len(targetPages))

	// The two passes are data-independent and run concurrently; the state
	// trace keeps their logical order.
	res.States = append(res.States, StateRunningFormCheck, StateRunningCrossCheck)
	var (
		formFindings  []types.Finding
		crossFindings []types.Finding
		formErr       error
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		findings, err := v.runFormCheck(gctx, targetPages, tier)
		if err != nil {
			if recoverable(err) {
				formErr = err
				return nil
			}
			return err
		}
		formFindings = findings
		return nil
	})
	g.Go(func() error {
		findings, err := v.runCrossCheck(gctx, evidencePages, targetPages, tier)
		if err != nil {
			return err
		}
		crossFindings = findings
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if formErr != nil {
		logger.Warn("form check failed, continuing with cross-check results only",
			"error", formErr)
		formFindings = []types.Finding{formCheckFailureFinding()}
	} else {
		// The form pass numbers images from the first target page.
		shiftImageIndexes(formFindings, len(evidencePages))
	}

	res.States = append(res.States, StateMerging)
	res.Findings = MergeFindings(crossFindings, formFindings)
	res.Pages = append(evidencePages, targetPages...)
	res.EvidenceCount = len(evidencePages)
	res.States = append(res.States, StateDone)

	logger.Info("verification complete", "findings", len(res.Findings))
	return res, nil
}

func (v *Verifier) rasterizeAll(ctx context.Context, docs [][]byte) ([]types.PageImage, error) {
	var pages []types.PageImage
	for _, doc := range docs {
		p, err := v.ras.Pages(ctx, doc)
		if err != nil {
			return nil, err
		}
		pages = append(pages, p...)
	}
	return pages, nil
}

func (v *Verifier) runFormCheck(ctx context.Context, targetPages []types.PageImage, tier llm.ModelTier) ([]types.Finding, error) {
	result, err := v.llm.GenerateVision(ctx, llm.VisionRequest{
		Prompt:          prompts.FormCheck(len(targetPages)),
		Images:          targetPages,
		MaxOutputTokens: formCheckMaxTokens,
	}, tier)
	if err != nil {
		return nil, fmt.Errorf("form check: %w", err)
	}
	if result.Truncated {
		v.logger.Warn("form check response truncated, repairing partial output")
	}
	return v.parseFindings(result.Text)
}

func (v *Verifier) runCrossCheck(ctx context.Context, evidencePages, targetPages []types.PageImage, tier llm.ModelTier) ([]types.Finding, error) {
	images := make([]types.PageImage, 0, len(evidencePages)+len(targetPages))
	images = append(images, evidencePages...)
	images = append(images, targetPages...)

	result, err := v.llm.GenerateVision(ctx, llm.VisionRequest{
		Prompt:          prompts.CrossCheck(len(evidencePages), len(targetPages)),
		Images:          images,
		MaxOutputTokens: crossCheckMaxTokens,
	}, tier)
	if err != nil {
		return nil, fmt.Errorf("cross check: %w", err)
	}
	if result.Truncated {
		v.logger.Warn("cross check response truncated, repairing partial output")
	}
	return v.parseFindings(result.Text)
}

// parseFindings repairs and decodes a model response, then drops findings
// that violate the wire contract rather than failing the pass.
func (v *Verifier) parseFindings(raw string) ([]types.Finding, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}

	findings, err := parsing.ParseFindings(raw)
	if err != nil {
		return nil, err
	}

	valid := findings[:0]
	for _, f := range findings {
		wire, err := json.Marshal(f)
		if err != nil {
			continue
		}
		if err := schemas.ValidateFinding(wire); err != nil {
			v.logger.Warn("dropping finding that violates the wire contract",
				"category", f.Category, "error", err)
			continue
		}
		valid = append(valid, f)
	}
	return valid, nil
}

// recoverable reports whether a form-pass error should degrade to a warning
// finding instead of failing the run.
func recoverable(err error) bool {
	var safetyErr *llm.SafetyBlockError
	var parseErr *parsing.ResponseParseError
	return errors.As(err, &safetyErr) || errors.As(err, &parseErr)
}

func formCheckFailureFinding() types.Finding {
	return types.Finding{
		Category: "フォームチェック",
		Status:   types.StatusWarning,
		Item:     "実行エラー",
		Message:  "フォーム記載チェックの実行に失敗しました。照合結果のみ表示しています。",
	}
}
