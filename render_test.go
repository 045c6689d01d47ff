package raytext

import "testing"

func TestDrawTextBlockProducesBatches(t *testing.T) {
	engine, fontID := newTestEngineWithFont(t)
	defer engine.Close()

	spans := []TextSpan{
		{Text: "Hello", Style: CharacterStyle{FontID: fontID, SizePx: 16, Fill: FillStyle{Type: FillSolid, Color: Black}}},
	}
	block, err := engine.LayoutStyledText(spans, ParagraphStyle{})
	if err != nil {
		t.Fatalf("LayoutStyledText() error = %v", err)
	}

	items := engine.DrawTextBlock(block, Identity(), RGBA{1, 1, 1, 1}, nil)
	if len(items) == 0 {
		t.Fatal("DrawTextBlock() returned no items for non-empty shaped text")
	}
	for _, item := range items {
		if item.Batch == nil {
			t.Fatalf("item.Batch = nil for a text-only block with no images")
		}
		b := item.Batch
		if b.Page == nil {
			t.Error("batch.Page = nil, want a backing atlas page")
		}
		if len(b.Vertices)%4 != 0 {
			t.Errorf("len(Vertices) = %d, want a multiple of 4", len(b.Vertices))
		}
		if len(b.Indices)%6 != 0 {
			t.Errorf("len(Indices) = %d, want a multiple of 6", len(b.Indices))
		}
	}
}

func TestDrawTextBlockEmptyBlock(t *testing.T) {
	engine, err := CreateEngine()
	if err != nil {
		t.Fatalf("CreateEngine() error = %v", err)
	}
	defer engine.Close()

	items := engine.DrawTextBlock(&TextBlock{}, Identity(), RGBA{1, 1, 1, 1}, nil)
	if len(items) != 0 {
		t.Errorf("DrawTextBlock(empty) = %d items, want 0", len(items))
	}
}

func TestDrawTextSelectionHighlightMatchesRangeBounds(t *testing.T) {
	engine, fontID := newTestEngineWithFont(t)
	defer engine.Close()

	spans := []TextSpan{
		{Text: "Hello", Style: CharacterStyle{FontID: fontID, SizePx: 16}},
	}
	block, err := engine.LayoutStyledText(spans, ParagraphStyle{})
	if err != nil {
		t.Fatalf("LayoutStyledText() error = %v", err)
	}

	tint := RGBA{1, 0, 0, 1}
	highlight := engine.DrawSelectionHighlight(block, 0, len(spans[0].Text), tint, Identity())
	bounds := engine.BoundsOfByteRange(block, 0, len(spans[0].Text))
	if len(highlight) != len(bounds) {
		t.Fatalf("len(highlight) = %d, want %d", len(highlight), len(bounds))
	}
	for i := range highlight {
		if highlight[i].Rect != bounds[i] {
			t.Errorf("highlight[%d].Rect = %v, want %v", i, highlight[i].Rect, bounds[i])
		}
		if highlight[i].Color != tint {
			t.Errorf("highlight[%d].Color = %v, want %v", i, highlight[i].Color, tint)
		}
	}
}
