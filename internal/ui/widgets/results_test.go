package widgets

import (
	"testing"

	"github.com/piwi3910/BoxPack/internal/model"
)

func breakdownResult() model.PackingResult {
	box := func(id string, y float64, stage int) model.PlacedItem {
		return model.PlacedItem{
			ItemID:   id,
			Position: model.Vec3{Y: y},
			Size:     model.Dims{Width: 10, Height: 10, Depth: 10},
			Stage:    stage,
		}
	}
	return model.PackingResult{
		Container:       model.NewContainer("Box", 20, 20, 20),
		ContainerVolume: 8000,
		Placed:          []model.PlacedItem{box("a", 0, 0), box("b", 0, 0), box("c", 10, 1)},
		Unplaced: []model.UnplacedItem{
			{ItemID: "x", Reason: model.ReasonTooLarge},
			{ItemID: "y", Reason: model.ReasonCapacityExceeded},
			{ItemID: "z", Reason: model.ReasonTooLarge},
		},
	}
}

func TestBuildStageBreakdown(t *testing.T) {
	lines := buildStageBreakdown(breakdownResult())
	want := []string{
		"  Stage 1: 2 item(s), 25.0% of volume",
		"  Stage 2: 1 item(s), 12.5% of volume",
	}
	if len(lines) != len(want) {
		t.Fatalf("expected %d lines, got %d: %v", len(want), len(lines), lines)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d: expected %q, got %q", i, want[i], lines[i])
		}
	}
}

func TestBuildUnplacedBreakdown(t *testing.T) {
	lines := buildUnplacedBreakdown(breakdownResult())
	want := []string{"  CapacityExceeded: 1", "  TooLarge: 2"}
	if len(lines) != len(want) {
		t.Fatalf("expected %d lines, got %d: %v", len(want), len(lines), lines)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Errorf("line %d: expected %q, got %q", i, want[i], lines[i])
		}
	}
}

func TestBuildUnplacedBreakdown_Empty(t *testing.T) {
	if lines := buildUnplacedBreakdown(model.PackingResult{}); len(lines) != 0 {
		t.Errorf("expected no lines, got %v", lines)
	}
}

func TestBoxCanvas_ImageSize(t *testing.T) {
	bc := NewBoxCanvas(breakdownResult(), 100, 100)
	img := bc.Image(120, 90)
	if img.Bounds().Dx() != 120 || img.Bounds().Dy() != 90 {
		t.Errorf("unexpected image bounds %v", img.Bounds())
	}
}
