// Package rasterize converts PDF byte streams into ordered page images
// suitable for visual reading by a multimodal model. Rendering is
// delegated to poppler's pdftoppm; plain-text extraction for the regex
// checkers goes through pdftotext.
package rasterize

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	xdraw "golang.org/x/image/draw"

	"github.com/masato/disclosure-verifier/internal/types"
)

type Config struct {
	Pdftoppm  string // binary name or absolute path; if empty -> "pdftoppm"
	Pdftotext string // binary name or absolute path; if empty -> "pdftotext"

	// DPI for page rendering. 200 keeps small form fields (a license
	// registration number, for example) readable to the model.
	DPI int

	// Quality is the JPEG quality (0-100) for encoded pages and for
	// re-encoding after a downscale.
	Quality int

	MaxPages int // 0 = no limit

	// MaxEdgePx caps the longer edge of a rendered page; oversized pages
	// are downscaled before submission. 0 disables the cap.
	MaxEdgePx int
}

// Rasterizer renders PDFs to page images. Safe for concurrent use; each
// call works in its own temp directory.
type Rasterizer struct {
	cfg    Config
	runner Runner
	logger *slog.Logger
}

func New(cfg Config, logger *slog.Logger) *Rasterizer {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Pdftoppm == "" {
		cfg.Pdftoppm = "pdftoppm"
	}
	if cfg.Pdftotext == "" {
		cfg.Pdftotext = "pdftotext"
	}
	if cfg.DPI <= 0 {
		cfg.DPI = 200
	}
	if cfg.Quality <= 0 || cfg.Quality > 100 {
		cfg.Quality = 85
	}
	return &Rasterizer{cfg: cfg, runner: execRunner{}, logger: logger}
}

// WithRunner returns a copy of the rasterizer using the given command
// runner. Tests use this to stub pdftoppm/pdftotext.
func (r *Rasterizer) WithRunner(runner Runner) *Rasterizer {
	clone := *r
	clone.runner = runner
	return &clone
}

// Pages renders every page of the PDF in document order. Either all pages
// succeed or the whole call fails with a DocumentReadError; a partially
// rendered document is never returned.
func (r *Rasterizer) Pages(ctx context.Context, pdf []byte) ([]types.PageImage, error) {
	if len(pdf) == 0 {
		return nil, &DocumentReadError{Message: "empty document"}
	}

	tmpDir, err := os.MkdirTemp("", "dv-pages-*")
	if err != nil {
		return nil, &DocumentReadError{Message: "create temp dir", Cause: err}
	}
	defer func() {
		if rmErr := os.RemoveAll(tmpDir); rmErr != nil {
			r.logger.Warn("failed to remove temp dir", "path", tmpDir, "error", rmErr)
		}
	}()

	pdfPath := filepath.Join(tmpDir, "input.pdf")
	if err := os.WriteFile(pdfPath, pdf, 0o600); err != nil {
		return nil, &DocumentReadError{Message: "write pdf", Cause: err}
	}

	prefix := filepath.Join(tmpDir, "page")
	// pdftoppm -jpeg -jpegopt quality=85 -r 200 -q <in.pdf> <tmp/page>
	_, errb, err := r.runner.Run(ctx, r.cfg.Pdftoppm,
		"-jpeg",
		"-jpegopt", fmt.Sprintf("quality=%d", r.cfg.Quality),
		"-r", strconv.Itoa(r.cfg.DPI),
		"-q",
		pdfPath, prefix)
	if err != nil {
		return nil, &DocumentReadError{
			Message: fmt.Sprintf("pdftoppm failed: %s", strings.TrimSpace(string(errb))),
			Cause:   err,
		}
	}

	// collect generated pages (prefix-1.jpg, prefix-2.jpg, ...)
	matches, err := filepath.Glob(prefix + "-*.jpg")
	if err != nil {
		return nil, &DocumentReadError{Message: "collect rendered pages", Cause: err}
	}
	sort.Slice(matches, func(i, j int) bool {
		return pageNum(matches[i]) < pageNum(matches[j])
	})
	if len(matches) == 0 {
		return nil, &DocumentReadError{Message: "no pages rendered"}
	}
	if r.cfg.MaxPages > 0 && len(matches) > r.cfg.MaxPages {
		r.logger.Warn("document exceeds the page cap, later pages are not checked",
			"pages", len(matches), "max_pages", r.cfg.MaxPages)
		matches = matches[:r.cfg.MaxPages]
	}

	pages := make([]types.PageImage, 0, len(matches))
	for _, path := range matches {
		page, err := r.loadPage(path)
		if err != nil {
			return nil, &DocumentReadError{
				Message: fmt.Sprintf("read rendered page %s", filepath.Base(path)),
				Cause:   err,
			}
		}
		pages = append(pages, page)
	}

	r.logger.Debug("rasterized document", "pages", len(pages), "dpi", r.cfg.DPI)
	return pages, nil
}

// Text extracts the plain text of the PDF via pdftotext, returning the
// text and the page count. This feeds the regex checkers, not the model.
func (r *Rasterizer) Text(ctx context.Context, pdf []byte) (string, int, error) {
	if len(pdf) == 0 {
		return "", 0, &DocumentReadError{Message: "empty document"}
	}

	tmpDir, err := os.MkdirTemp("", "dv-text-*")
	if err != nil {
		return "", 0, &DocumentReadError{Message: "create temp dir", Cause: err}
	}
	defer func() {
		if rmErr := os.RemoveAll(tmpDir); rmErr != nil {
			r.logger.Warn("failed to remove temp dir", "path", tmpDir, "error", rmErr)
		}
	}()

	pdfPath := filepath.Join(tmpDir, "input.pdf")
	if err := os.WriteFile(pdfPath, pdf, 0o600); err != nil {
		return "", 0, &DocumentReadError{Message: "write pdf", Cause: err}
	}

	// pdftotext -layout -enc UTF-8 -eol unix <path> -
	out, errb, err := r.runner.Run(ctx, r.cfg.Pdftotext, "-layout", "-enc", "UTF-8", "-eol", "unix", pdfPath, "-")
	if err != nil {
		return "", 0, &DocumentReadError{
			Message: fmt.Sprintf("pdftotext failed: %s", strings.TrimSpace(string(errb))),
			Cause:   err,
		}
	}

	text := string(out)
	// A form-feed \f is used as page separator by default
	pageCount := 1 + strings.Count(text, "\f")
	return text, pageCount, nil
}

// loadPage reads one rendered page file, decoding it for dimensions and
// downscaling when an edge exceeds the configured cap.
func (r *Rasterizer) loadPage(path string) (types.PageImage, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return types.PageImage{}, err
	}

	img, err := jpeg.Decode(bytes.NewReader(data))
	if err != nil {
		return types.PageImage{}, fmt.Errorf("decode jpeg: %w", err)
	}

	w := img.Bounds().Dx()
	h := img.Bounds().Dy()

	if r.cfg.MaxEdgePx > 0 && (w > r.cfg.MaxEdgePx || h > r.cfg.MaxEdgePx) {
		scaled, sw, sh, err := r.downscale(img, w, h)
		if err != nil {
			return types.PageImage{}, err
		}
		return types.PageImage{JPEG: scaled, Width: sw, Height: sh}, nil
	}

	return types.PageImage{JPEG: data, Width: w, Height: h}, nil
}

func (r *Rasterizer) downscale(img image.Image, w, h int) ([]byte, int, int, error) {
	longEdge := max(w, h)
	scale := float64(r.cfg.MaxEdgePx) / float64(longEdge)
	tw := max(1, int(float64(w)*scale))
	th := max(1, int(float64(h)*scale))

	dst := image.NewRGBA(image.Rect(0, 0, tw, th))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), img, img.Bounds(), xdraw.Src, nil)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, dst, &jpeg.Options{Quality: r.cfg.Quality}); err != nil {
		return nil, 0, 0, fmt.Errorf("re-encode jpeg: %w", err)
	}
	return buf.Bytes(), tw, th, nil
}

func pageNum(path string) int {
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	idx := strings.LastIndexByte(base, '-')
	if idx == -1 || idx+1 >= len(base) {
		return 0
	}
	n, _ := strconv.Atoi(base[idx+1:])
	return n
}
