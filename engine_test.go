package raytext

import "testing"

func TestLoadFontBecomesDefault(t *testing.T) {
	engine, err := CreateEngine()
	if err != nil {
		t.Fatalf("CreateEngine() error = %v", err)
	}
	defer engine.Close()

	data := loadTestFontData(t)
	id, err := engine.LoadFont(data, 0)
	if err != nil {
		t.Fatalf("LoadFont() error = %v", err)
	}
	if id == InvalidFontID {
		t.Fatal("LoadFont() returned InvalidFontID")
	}
	if !engine.IsFontValid(id) {
		t.Error("IsFontValid(id) = false, want true")
	}
	if engine.GetDefaultFont() != id {
		t.Errorf("GetDefaultFont() = %v, want %v", engine.GetDefaultFont(), id)
	}
}

func TestLoadFontEmptyData(t *testing.T) {
	engine, err := CreateEngine()
	if err != nil {
		t.Fatalf("CreateEngine() error = %v", err)
	}
	defer engine.Close()

	if _, err := engine.LoadFont(nil, 0); err == nil {
		t.Error("LoadFont(nil) error = nil, want an error")
	}
}

func TestUnloadFontClearsDefault(t *testing.T) {
	engine, err := CreateEngine()
	if err != nil {
		t.Fatalf("CreateEngine() error = %v", err)
	}
	defer engine.Close()

	data := loadTestFontData(t)
	id, err := engine.LoadFont(data, 0)
	if err != nil {
		t.Fatalf("LoadFont() error = %v", err)
	}

	engine.UnloadFont(id)
	if engine.IsFontValid(id) {
		t.Error("IsFontValid(id) = true after UnloadFont, want false")
	}
	if engine.GetDefaultFont() != InvalidFontID {
		t.Errorf("GetDefaultFont() = %v after unloading the only font, want InvalidFontID", engine.GetDefaultFont())
	}
}

func TestIsCodepointAvailable(t *testing.T) {
	engine, err := CreateEngine()
	if err != nil {
		t.Fatalf("CreateEngine() error = %v", err)
	}
	defer engine.Close()

	data := loadTestFontData(t)
	id, err := engine.LoadFont(data, 0)
	if err != nil {
		t.Fatalf("LoadFont() error = %v", err)
	}

	if !engine.IsCodepointAvailable(id, 'A', false) {
		t.Error("IsCodepointAvailable(id, 'A', false) = false, want true")
	}
}

func TestGetFontProperties(t *testing.T) {
	engine, err := CreateEngine()
	if err != nil {
		t.Fatalf("CreateEngine() error = %v", err)
	}
	defer engine.Close()

	data := loadTestFontData(t)
	id, err := engine.LoadFont(data, 0)
	if err != nil {
		t.Fatalf("LoadFont() error = %v", err)
	}

	props, err := engine.GetFontProperties(id)
	if err != nil {
		t.Fatalf("GetFontProperties() error = %v", err)
	}
	if props.NumGlyphs == 0 {
		t.Error("GetFontProperties().NumGlyphs = 0, want > 0")
	}
}

func TestGetFontPropertiesUnknownID(t *testing.T) {
	engine, err := CreateEngine()
	if err != nil {
		t.Fatalf("CreateEngine() error = %v", err)
	}
	defer engine.Close()

	if _, err := engine.GetFontProperties(FontID(999)); err == nil {
		t.Error("GetFontProperties(unknown) error = nil, want an error")
	}
}

func TestSetFontFallbackChainDropsUnknownIDs(t *testing.T) {
	engine, err := CreateEngine()
	if err != nil {
		t.Fatalf("CreateEngine() error = %v", err)
	}
	defer engine.Close()

	data := loadTestFontData(t)
	id, err := engine.LoadFont(data, 0)
	if err != nil {
		t.Fatalf("LoadFont() error = %v", err)
	}

	engine.SetFontFallbackChain(id, []FontID{id, FontID(999)})
	chain := engine.fonts.FallbackChain(id)
	if len(chain) != 1 || chain[0] != id {
		t.Errorf("FallbackChain(id) = %v, want [%v]", chain, id)
	}
}

func TestLoadFontFaceIndexOutOfRange(t *testing.T) {
	engine, err := CreateEngine()
	if err != nil {
		t.Fatalf("CreateEngine() error = %v", err)
	}
	defer engine.Close()

	data := loadTestFontData(t)
	_, err = engine.LoadFont(data, 1)
	if err == nil {
		t.Fatal("LoadFont(data, 1) error = nil, want FontErrorFaceIndexOutOfRange")
	}
	fontErr, ok := err.(*FontError)
	if !ok {
		t.Fatalf("LoadFont(data, 1) error type = %T, want *FontError", err)
	}
	if fontErr.Kind != FontErrorFaceIndexOutOfRange {
		t.Errorf("LoadFont(data, 1) Kind = %v, want %v", fontErr.Kind, FontErrorFaceIndexOutOfRange)
	}
}

func TestGetScaledFontMetricsScalesWithSize(t *testing.T) {
	engine, err := CreateEngine()
	if err != nil {
		t.Fatalf("CreateEngine() error = %v", err)
	}
	defer engine.Close()

	data := loadTestFontData(t)
	id, err := engine.LoadFont(data, 0)
	if err != nil {
		t.Fatalf("LoadFont() error = %v", err)
	}

	small, err := engine.GetScaledFontMetrics(id, 12)
	if err != nil {
		t.Fatalf("GetScaledFontMetrics(12) error = %v", err)
	}
	large, err := engine.GetScaledFontMetrics(id, 24)
	if err != nil {
		t.Fatalf("GetScaledFontMetrics(24) error = %v", err)
	}
	if large.Ascent <= small.Ascent {
		t.Errorf("large.Ascent = %v, want > small.Ascent = %v", large.Ascent, small.Ascent)
	}
	if small.Scale <= 0 || large.Scale <= small.Scale {
		t.Errorf("Scale did not increase with size: small=%v large=%v", small.Scale, large.Scale)
	}
	if small.RecommendedLineHeight <= 0 {
		t.Error("RecommendedLineHeight should be positive")
	}
	if small.StrikeoutThickness != 12.0/20 {
		t.Errorf("StrikeoutThickness = %v, want %v", small.StrikeoutThickness, 12.0/20)
	}
}

func TestUnloadFontEvictsGlyphCache(t *testing.T) {
	engine, err := CreateEngine()
	if err != nil {
		t.Fatalf("CreateEngine() error = %v", err)
	}
	defer engine.Close()

	data := loadTestFontData(t)
	id, err := engine.LoadFont(data, 0)
	if err != nil {
		t.Fatalf("LoadFont() error = %v", err)
	}

	block, err := engine.LayoutStyledText([]TextSpan{{
		Text:  "A",
		Style: CharacterStyle{FontID: id, SizePx: 16},
	}}, ParagraphStyle{})
	if err != nil {
		t.Fatalf("LayoutStyledText() error = %v", err)
	}
	engine.DrawTextBlock(block, Identity(), RGBA{1, 1, 1, 1}, nil)
	if engine.cache.Len() == 0 {
		t.Fatal("expected glyph cache to hold at least one entry after drawing")
	}

	engine.UnloadFont(id)
	if engine.cache.Len() != 0 {
		t.Errorf("cache.Len() = %d after UnloadFont, want 0", engine.cache.Len())
	}
}
