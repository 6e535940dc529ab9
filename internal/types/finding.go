// Package types provides type definitions for structured data used throughout the disclosure-verifier system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"encoding/json"
	"strings"
)

// Status is the severity of a finding as reported by the model.
type Status string

// Status values accepted on the wire.
const (
	StatusError      Status = "error"
	StatusWarning    Status = "warning"
	StatusSuggestion Status = "suggestion"
)

// Valid reports whether the status is one of the documented values.
func (s Status) Valid() bool {
	switch s {
	case StatusError, StatusWarning, StatusSuggestion:
		return true
	}
	return false
}

// Finding is one discrepancy or observation reported by the model when
// cross-checking a disclosure document against evidence documents. Every
// field is untrusted input: the model may omit, mistype, or contradict any
// of them, so decoding is tolerant and consumers must treat optional fields
// as potentially absent or out of range.
type Finding struct {
	Category string `json:"category"`
	Status   Status `json:"status"`
	Item     string `json:"item"`
	Evidence string `json:"evidence"`
	Target   string `json:"target"`
	Message  string `json:"message"`

	// Box is the cited region as [ymin, xmin, ymax, xmax] on a 0-1000
	// scale, or nil when the model gave none (or gave garbage).
	Box []float64 `json:"box_2d"`

	// ImageIndex references a position in the caller-defined concatenated
	// image sequence (evidence pages first, then target pages). Nil when
	// absent. May be out of range; consumers degrade to "no image shown".
	ImageIndex *int `json:"image_index"`
}

// findingWire mirrors Finding with loosely typed box/index fields so that
// the documented tolerant forms (JSON-encoded-string boxes, float indices)
// decode without error.
type findingWire struct {
	Category   string          `json:"category"`
	Status     string          `json:"status"`
	Item       string          `json:"item"`
	Evidence   string          `json:"evidence"`
	Target     string          `json:"target"`
	Message    string          `json:"message"`
	Box        json.RawMessage `json:"box_2d"`
	ImageIndex json.RawMessage `json:"image_index"`
}

// UnmarshalJSON decodes a finding leniently. A box given as a JSON array of
// numbers or as a JSON-encoded string of the same array is accepted; any
// other shape (wrong arity included) leaves Box nil. An image index given
// as an integer or an integer-valued float is accepted; anything else
// leaves ImageIndex nil. Structural failure of the object itself is still
// an error.
func (f *Finding) UnmarshalJSON(data []byte) error {
	var w findingWire
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	f.Category = w.Category
	f.Status = Status(strings.ToLower(strings.TrimSpace(w.Status)))
	f.Item = w.Item
	f.Evidence = w.Evidence
	f.Target = w.Target
	f.Message = w.Message
	f.Box = decodeBox(w.Box)
	f.ImageIndex = decodeImageIndex(w.ImageIndex)

	return nil
}

// MarshalJSON emits the canonical wire form with explicit nulls for the
// optional fields, matching what the UI consumer expects.
func (f Finding) MarshalJSON() ([]byte, error) {
	type alias struct {
		Category   string    `json:"category"`
		Status     Status    `json:"status"`
		Item       string    `json:"item"`
		Evidence   string    `json:"evidence"`
		Target     string    `json:"target"`
		Message    string    `json:"message"`
		Box        []float64 `json:"box_2d"`
		ImageIndex *int      `json:"image_index"`
	}
	return json.Marshal(alias(f))
}

// decodeBox extracts a 4-element numeric box from raw JSON. Returns nil for
// null, missing, wrong-arity, or wrong-typed input.
func decodeBox(raw json.RawMessage) []float64 {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}

	var nums []float64
	if err := json.Unmarshal(raw, &nums); err == nil {
		if len(nums) == 4 {
			return nums
		}
		return nil
	}

	// The model sometimes returns the array JSON-encoded inside a string.
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if err := json.Unmarshal([]byte(s), &nums); err == nil && len(nums) == 4 {
			return nums
		}
	}

	return nil
}

// decodeImageIndex extracts a non-negative integer index from raw JSON,
// accepting integer-valued floats. Returns nil otherwise.
func decodeImageIndex(raw json.RawMessage) *int {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}

	var f float64
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil
	}
	n := int(f)
	if float64(n) != f || n < 0 {
		return nil
	}
	return &n
}
