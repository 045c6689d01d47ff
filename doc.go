// Package raytext provides a rich text layout and rendering engine: given
// styled text runs and inline images, a paragraph style, and a rendering
// context, it produces a fully positioned, line-broken, bidirectional,
// multi-script text block with per-glyph coordinates, backed by an
// SDF glyph atlas and a batched render pipeline.
//
// # Quick Start
//
//	import "github.com/Xarvie/ray-text"
//
//	engine, err := raytext.CreateEngine()
//	if err != nil {
//		// handle error
//	}
//	defer engine.Close()
//
//	fontID, err := engine.LoadFont(fontBytes, 0)
//	block, err := engine.LayoutStyledText(spans, paragraphStyle)
//
// # Architecture
//
// The library is organized into:
//   - Public API: Engine, TextBlock, CharacterStyle, ParagraphStyle, plus the
//     font registry and line composition
//   - text/: font faces, paragraph analysis (bidi/script segmentation), shaping
//   - text/sdfatlas/: signed-distance-field glyph rasterization and packing
//   - internal/: generic caches, color math shared across packages
//
// # Coordinate System
//
// Uses standard computer graphics coordinates:
//   - Origin (0,0) at top-left
//   - X increases right
//   - Y increases down
//   - Angles in radians, 0 is right, increases clockwise on screen (toward +Y)
package raytext

// Version information.
const (
	// Version is the current version of the library.
	Version = "0.1.0-alpha.1"

	// VersionMajor is the major version.
	VersionMajor = 0

	// VersionMinor is the minor version.
	VersionMinor = 1

	// VersionPatch is the patch version.
	VersionPatch = 0

	// VersionPrerelease is the prerelease identifier.
	VersionPrerelease = "alpha.1"
)
