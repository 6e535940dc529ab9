// Package imaging turns model-cited normalized boxes into evidence crops.
package imaging

import (
	"image"
	"math"

	xdraw "golang.org/x/image/draw"
)

// Padding ratios applied to a cited box before cropping. Model-estimated
// boxes are frequently tight around the cited text; expanding gives a
// reviewer visual context (the field label, not just the value).
const (
	padRatioY = 0.5
	padRatioX = 0.3
)

// normScale is the coordinate space boxes are expressed in.
const normScale = 1000.0

// CropEvidenceRegion returns the sub-image of img described by box, a
// [ymin, xmin, ymax, xmax] rectangle on a 0-1000 scale, expanded by the
// padding ratios and clamped to the image bounds. A structurally invalid
// box (wrong arity) returns the original image unchanged; numerically
// malformed but 4-element boxes are clamped into range. This function
// never fails.
func CropEvidenceRegion(img image.Image, box []float64) image.Image {
	if img == nil || len(box) != 4 {
		return img
	}

	ymin, xmin, ymax, xmax := box[0], box[1], box[2], box[3]

	// The contract intends ymin<=ymax, xmin<=xmax but nothing upstream
	// enforces it; a swapped pair is treated as the same rectangle.
	if ymin > ymax {
		ymin, ymax = ymax, ymin
	}
	if xmin > xmax {
		xmin, xmax = xmax, xmin
	}

	padY := (ymax - ymin) * padRatioY
	padX := (xmax - xmin) * padRatioX
	ymin -= padY
	ymax += padY
	xmin -= padX
	xmax += padX

	// Clamp in normalized space, keeping at least a 1-unit extent.
	ymin = math.Max(0, math.Min(ymin, normScale))
	xmin = math.Max(0, math.Min(xmin, normScale))
	ymax = math.Max(ymin+1, math.Min(ymax, normScale))
	xmax = math.Max(xmin+1, math.Min(xmax, normScale))

	bounds := img.Bounds()
	w := bounds.Dx()
	h := bounds.Dy()

	yminPx := toPixel(ymin, h)
	xminPx := toPixel(xmin, w)
	ymaxPx := toPixel(ymax, h)
	xmaxPx := toPixel(xmax, w)

	// Pixel clamp guaranteeing a non-empty crop region.
	xminPx = clampInt(xminPx, 0, w-1)
	yminPx = clampInt(yminPx, 0, h-1)
	xmaxPx = clampInt(xmaxPx, xminPx+1, w)
	ymaxPx = clampInt(ymaxPx, yminPx+1, h)

	rect := image.Rect(
		bounds.Min.X+xminPx,
		bounds.Min.Y+yminPx,
		bounds.Min.X+xmaxPx,
		bounds.Min.Y+ymaxPx,
	)

	// Copy into a standalone image so the crop does not pin the full page
	// buffer in memory.
	out := image.NewRGBA(image.Rect(0, 0, rect.Dx(), rect.Dy()))
	xdraw.Copy(out, image.Point{}, img, rect, xdraw.Src, nil)
	return out
}

func toPixel(norm float64, dim int) int {
	return int(math.Round(norm / normScale * float64(dim)))
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
