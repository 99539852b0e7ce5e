package model

import (
	"strings"

	"github.com/google/uuid"
)

// BoxPreset is a named shipping box size kept in the warehouse inventory.
type BoxPreset struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`     // Matches the predictor's box category, e.g. "Medium"
	Width     float64 `json:"width"`
	Height    float64 `json:"height"`
	Depth     float64 `json:"depth"`
	MaxWeight float64 `json:"max_weight"` // 0 = no limit
}

// NewBoxPreset creates a new BoxPreset with a generated ID.
func NewBoxPreset(name string, w, h, d, maxWeight float64) BoxPreset {
	return BoxPreset{
		ID:        uuid.New().String()[:8],
		Name:      name,
		Width:     w,
		Height:    h,
		Depth:     d,
		MaxWeight: maxWeight,
	}
}

// ToContainer converts the preset into a packing container.
func (bp BoxPreset) ToContainer() Container {
	return Container{
		Label:     bp.Name,
		Width:     bp.Width,
		Height:    bp.Height,
		Depth:     bp.Depth,
		MaxWeight: bp.MaxWeight,
	}
}

// BoxInventory holds the box sizes available for packing.
type BoxInventory struct {
	Boxes []BoxPreset `json:"boxes"`
}

// DefaultBoxInventory returns the three standard box categories.
func DefaultBoxInventory() BoxInventory {
	return BoxInventory{
		Boxes: []BoxPreset{
			NewBoxPreset("Small", 30, 30, 30, 10),
			NewBoxPreset("Medium", 45, 45, 45, 25),
			NewBoxPreset("Large", 60, 60, 60, 40),
		},
	}
}

// FindByID returns a pointer to the preset with the given ID, or nil.
func (inv *BoxInventory) FindByID(id string) *BoxPreset {
	for i := range inv.Boxes {
		if inv.Boxes[i].ID == id {
			return &inv.Boxes[i]
		}
	}
	return nil
}

// FindByName returns a pointer to the first preset whose name matches
// case-insensitively, or nil.
func (inv *BoxInventory) FindByName(name string) *BoxPreset {
	for i := range inv.Boxes {
		if strings.EqualFold(inv.Boxes[i].Name, strings.TrimSpace(name)) {
			return &inv.Boxes[i]
		}
	}
	return nil
}

// Names returns the preset names for UI dropdowns.
func (inv *BoxInventory) Names() []string {
	names := make([]string, len(inv.Boxes))
	for i, b := range inv.Boxes {
		names[i] = b.Name
	}
	return names
}

// SmallestFitting returns the smallest-volume preset whose every dimension is
// at least as large as d, or nil when none fits.
func (inv *BoxInventory) SmallestFitting(d Dims) *BoxPreset {
	var best *BoxPreset
	for i := range inv.Boxes {
		b := &inv.Boxes[i]
		if b.Width < d.Width || b.Height < d.Height || b.Depth < d.Depth {
			continue
		}
		if best == nil || b.ToContainer().Volume() < best.ToContainer().Volume() {
			best = b
		}
	}
	return best
}
