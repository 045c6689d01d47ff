package text

// Metrics holds font metrics at a specific size.
// These metrics are derived from the font file and scaled to the face size.
type Metrics struct {
	// Ascent is the distance from the baseline to the top of the font (positive).
	// This is the maximum height a glyph can reach above the baseline.
	Ascent float64

	// Descent is the distance from the baseline to the bottom of the font (positive, below baseline).
	// This is the maximum depth a glyph can reach below the baseline.
	// Note: Unlike FontMetrics.Descent, this is stored as a positive value.
	Descent float64

	// LineGap is the recommended gap between lines.
	LineGap float64

	// XHeight is the height of lowercase letters (like 'x').
	XHeight float64

	// CapHeight is the height of uppercase letters.
	CapHeight float64

	// Scale is the factor applied to a font's unscaled, face-space
	// metrics to produce this Metrics (size / unitsPerEm).
	Scale float64

	// RecommendedLineHeight is Ascent+Descent+LineGap, clamped to
	// 1.2 times the size these metrics were scaled to when the font's
	// own tables report a zero line height.
	RecommendedLineHeight float64

	// UnderlinePosition is the offset from the baseline to the top of
	// the underline stroke (negative: below the baseline).
	UnderlinePosition float64
	// UnderlineThickness is the underline stroke's weight.
	UnderlineThickness float64

	// StrikeoutPosition is the offset from the baseline to the
	// strikeout stroke, approximated as half of XHeight when the font
	// does not report one directly.
	StrikeoutPosition float64
	// StrikeoutThickness is the strikeout stroke's weight, approximated
	// as size/20 when the font does not report one directly.
	StrikeoutThickness float64
}

// LineHeight returns the total line height (ascent + descent + line gap).
// This is the recommended vertical distance between baselines of consecutive lines.
func (m Metrics) LineHeight() float64 {
	return m.Ascent + m.Descent + m.LineGap
}
