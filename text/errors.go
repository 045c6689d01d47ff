package text

import "errors"

// Sentinel errors for text package.
var (
	// ErrEmptyFontData is returned when font data is empty.
	ErrEmptyFontData = errors.New("text: empty font data")

	// ErrFaceIndexOutOfRange is returned when the requested face index
	// does not exist within the font data (a single-face file only has
	// index 0; a collection has one entry per face it bundles).
	ErrFaceIndexOutOfRange = errors.New("text: face index out of range")
)
