package model

import (
	"math"
	"testing"
)

func TestParseShape(t *testing.T) {
	cases := map[string]Shape{
		"":         ShapeBox,
		"box":      ShapeBox,
		"Cylinder": ShapeCylinder,
		"sphere":   ShapeSphere,
	}
	for in, want := range cases {
		got, ok := ParseShape(in)
		if !ok {
			t.Errorf("ParseShape(%q) not recognized", in)
		}
		if got != want {
			t.Errorf("ParseShape(%q) = %s, want %s", in, got, want)
		}
	}
	if _, ok := ParseShape("pyramid"); ok {
		t.Error("expected unknown shape to be rejected")
	}
}

func TestBoundingDimsBoxUnchanged(t *testing.T) {
	it := NewItem("Mug box", 10, 12, 8, 1)
	got := it.BoundingDims()
	if got != (Dims{Width: 10, Height: 12, Depth: 8}) {
		t.Errorf("unexpected box bounding dims %+v", got)
	}
}

func TestBoundingDimsCylinderSquareFootprint(t *testing.T) {
	it := NewItem("Bottle", 6, 25, 8, 1)
	it.Shape = ShapeCylinder
	got := it.BoundingDims()
	if got.Width != 8 || got.Depth != 8 || got.Height != 25 {
		t.Errorf("expected 8x25x8 footprint, got %+v", got)
	}
}

func TestBoundingDimsSphere(t *testing.T) {
	it := NewItem("Ball", 20, 20, 18, 1)
	it.Shape = ShapeSphere
	got := it.BoundingDims()
	if got.Width != 20 || got.Depth != 20 || got.Height != 20 {
		t.Errorf("expected 20x20x20, got %+v", got)
	}
}

func TestDimsValid(t *testing.T) {
	if !(Dims{1, 2, 3}).Valid() {
		t.Error("expected positive dims to be valid")
	}
	invalid := []Dims{
		{0, 1, 1},
		{1, -1, 1},
		{1, 1, math.Inf(1)},
		{math.NaN(), 1, 1},
	}
	for _, d := range invalid {
		if d.Valid() {
			t.Errorf("expected %+v to be invalid", d)
		}
	}
}

func TestContainerValid(t *testing.T) {
	if !NewContainer("C", 10, 10, 10).Valid() {
		t.Error("expected container to be valid")
	}
	if NewContainer("Flat", 10, 0, 10).Valid() {
		t.Error("expected zero-height container to be invalid")
	}
	c := NewContainer("Neg weight", 10, 10, 10)
	c.MaxWeight = -1
	if c.Valid() {
		t.Error("expected negative weight cap to be invalid")
	}
}

func TestLargestBoundsAndHolds(t *testing.T) {
	items := []Item{
		{Width: 10, Height: 8, Depth: 12},
		{Width: 4, Height: 20, Depth: 6, Shape: ShapeCylinder},
	}
	got := LargestBounds(items)
	want := Dims{Width: 10, Height: 20, Depth: 12}
	if got != want {
		t.Errorf("LargestBounds = %+v, want %+v", got, want)
	}
	if (LargestBounds(nil) != Dims{}) {
		t.Error("expected zero bounds for no items")
	}

	if !NewContainer("Fit", 10, 20, 12).Holds(got) {
		t.Error("expected exact-size container to hold the bounds")
	}
	if NewContainer("Cube", 11.84, 11.84, 11.84).Holds(got) {
		t.Error("expected 11.84 cube to be too small")
	}
}

func TestPackingResultHelpers(t *testing.T) {
	r := PackingResult{
		Placed: []PlacedItem{
			{ItemID: "a", Stage: 0},
			{ItemID: "b", Stage: 2},
		},
		Unplaced: []UnplacedItem{
			{ItemID: "c", Reason: ReasonTooLarge},
			{ItemID: "d", Reason: ReasonCapacityExceeded},
			{ItemID: "e", Reason: ReasonCapacityExceeded},
		},
	}
	if r.StageCount() != 3 {
		t.Errorf("expected 3 stages, got %d", r.StageCount())
	}
	counts := r.UnplacedByReason()
	if counts[ReasonCapacityExceeded] != 2 || counts[ReasonTooLarge] != 1 {
		t.Errorf("unexpected reason counts %v", counts)
	}

	clone := r.Clone()
	clone.Placed[0].Stage = 5
	if r.Placed[0].Stage != 0 {
		t.Error("Clone should not share the placed slice")
	}
}

func TestSavingsTableLookupFallback(t *testing.T) {
	table := SavingsTable{
		"":        {CO2Kg: 0.1, PlasticKg: 0.01},
		"Kitchen": {CO2Kg: 0.3, PlasticKg: 0.05},
	}
	if got := table.Lookup("Kitchen"); got.CO2Kg != 0.3 {
		t.Errorf("expected Kitchen rate, got %+v", got)
	}
	if got := table.Lookup("Toys"); got.CO2Kg != 0.1 {
		t.Errorf("expected fallback rate, got %+v", got)
	}
}

func TestParseOrderStatus(t *testing.T) {
	if s, ok := ParseOrderStatus(" paid "); !ok || s != StatusPaid {
		t.Errorf("expected Paid, got %q %v", s, ok)
	}
	if s, ok := ParseOrderStatus("Canceled"); !ok || s != StatusCancelled {
		t.Errorf("expected Cancelled, got %q %v", s, ok)
	}
	if _, ok := ParseOrderStatus("shipped"); ok {
		t.Error("expected unknown status to be rejected")
	}
}

func TestCustomerName(t *testing.T) {
	if got := (Customer{DisplayName: "Ada", Email: "ada@example.com"}).Name(); got != "Ada" {
		t.Errorf("expected display name, got %s", got)
	}
	if got := (Customer{Email: "ada@example.com"}).Name(); got != "ada@example.com" {
		t.Errorf("expected email, got %s", got)
	}
	if got := (Customer{}).Name(); got != "Anonymous" {
		t.Errorf("expected Anonymous, got %s", got)
	}
}

func TestOrderUnits(t *testing.T) {
	o := Order{Items: []OrderItem{{Quantity: 2}, {Quantity: 0}, {Quantity: 3}}}
	if o.Units() != 6 {
		t.Errorf("expected 6 units, got %d", o.Units())
	}
}
