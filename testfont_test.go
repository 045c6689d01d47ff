package raytext

import (
	"os"
	"testing"
)

// testFontPath returns the path to a system TTF usable for tests, or
// skips the test if none is available. Only single-face TTF files are
// listed, so face index 0 applies.
func testFontPath(t *testing.T) string {
	t.Helper()

	candidates := []string{
		"C:\\Windows\\Fonts\\arial.ttf",
		"C:\\Windows\\Fonts\\calibri.ttf",
		"/Library/Fonts/Arial.ttf",
		"/System/Library/Fonts/Supplemental/Arial.ttf",
		"/System/Library/Fonts/Supplemental/Courier New.ttf",
		"/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf",
		"/usr/share/fonts/TTF/DejaVuSans.ttf",
		"/usr/share/fonts/liberation/LiberationSans-Regular.ttf",
		"/usr/share/fonts/truetype/liberation/LiberationSans-Regular.ttf",
	}
	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	t.Skip("no TTF font available for test")
	return ""
}

func loadTestFontData(t *testing.T) []byte {
	t.Helper()
	data, err := os.ReadFile(testFontPath(t))
	if err != nil {
		t.Fatalf("failed to read test font: %v", err)
	}
	return data
}
