package model

import "testing"

func TestDefaultBoxInventoryHasStandardCategories(t *testing.T) {
	inv := DefaultBoxInventory()
	for _, name := range []string{"Small", "Medium", "Large"} {
		if inv.FindByName(name) == nil {
			t.Errorf("expected preset %q in default inventory", name)
		}
	}
}

func TestFindByNameIsCaseInsensitive(t *testing.T) {
	inv := DefaultBoxInventory()
	p := inv.FindByName(" medium")
	if p == nil {
		t.Fatal("expected to find Medium")
	}
	if p.Name != "Medium" {
		t.Errorf("expected Medium, got %s", p.Name)
	}
}

func TestFindByID(t *testing.T) {
	inv := DefaultBoxInventory()
	id := inv.Boxes[1].ID
	if p := inv.FindByID(id); p == nil || p.Name != inv.Boxes[1].Name {
		t.Errorf("expected to find preset by id %s", id)
	}
	if inv.FindByID("missing") != nil {
		t.Error("expected nil for unknown id")
	}
}

func TestToContainerCarriesWeightCap(t *testing.T) {
	bp := NewBoxPreset("Crate", 50, 40, 30, 20)
	c := bp.ToContainer()
	if c.Width != 50 || c.Height != 40 || c.Depth != 30 {
		t.Errorf("unexpected container dims %+v", c)
	}
	if c.MaxWeight != 20 {
		t.Errorf("expected max weight 20, got %.1f", c.MaxWeight)
	}
}

func TestSmallestFitting(t *testing.T) {
	inv := DefaultBoxInventory()
	p := inv.SmallestFitting(Dims{Width: 35, Height: 10, Depth: 10})
	if p == nil || p.Name != "Medium" {
		t.Fatalf("expected Medium, got %+v", p)
	}
	if inv.SmallestFitting(Dims{Width: 100, Height: 1, Depth: 1}) != nil {
		t.Error("expected no preset to fit")
	}
}

func TestNames(t *testing.T) {
	inv := DefaultBoxInventory()
	names := inv.Names()
	if len(names) != len(inv.Boxes) {
		t.Fatalf("expected %d names, got %d", len(inv.Boxes), len(names))
	}
	if names[0] != "Small" {
		t.Errorf("expected Small first, got %s", names[0])
	}
}
