package types

// PageImage is one rendered PDF page. The JPEG bytes are what gets sent to
// the model; Width and Height are the decoded pixel dimensions, kept so
// consumers can resolve normalized box coordinates without re-decoding.
// Page ordering in a slice of PageImage is document reading order.
type PageImage struct {
	JPEG   []byte
	Width  int
	Height int
}
