package model

import (
	"math"

	"github.com/google/uuid"
)

// Shape is the physical form of an item. The packer always works with the
// shape's axis-aligned bounding box; the shape only decides which
// orientations are allowed.
type Shape int

const (
	ShapeBox      Shape = iota // Rectangular box, packed as declared
	ShapeCylinder              // Upright cylinder, height along y
	ShapeSphere                // Sphere, diameter from the largest dimension
)

func (s Shape) String() string {
	switch s {
	case ShapeCylinder:
		return "Cylinder"
	case ShapeSphere:
		return "Sphere"
	default:
		return "Box"
	}
}

// ParseShape converts a shape name into a Shape. Unknown names report false.
func ParseShape(name string) (Shape, bool) {
	switch name {
	case "", "box", "Box", "BOX", "b":
		return ShapeBox, true
	case "cylinder", "Cylinder", "CYLINDER", "cyl", "c":
		return ShapeCylinder, true
	case "sphere", "Sphere", "SPHERE", "ball", "s":
		return ShapeSphere, true
	default:
		return ShapeBox, false
	}
}

// Dims is a width/height/depth triple. Height runs along the y (vertical) axis.
type Dims struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Depth  float64 `json:"depth"`
}

// Volume returns width*height*depth.
func (d Dims) Volume() float64 {
	return d.Width * d.Height * d.Depth
}

// Declared reports whether all three dimensions are set to positive values.
func (d Dims) Declared() bool {
	return d.Width > 0 && d.Height > 0 && d.Depth > 0
}

// Valid reports whether every dimension is finite and positive.
func (d Dims) Valid() bool {
	return finitePositive(d.Width) && finitePositive(d.Height) && finitePositive(d.Depth)
}

// Vec3 is a point in the container's local frame. The origin is the
// container's minimum corner.
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Item is a single physical unit to be packed.
type Item struct {
	ID       string  `json:"id"`
	Label    string  `json:"label"`
	Category string  `json:"category,omitempty"`
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
	Depth    float64 `json:"depth"`
	Weight   float64 `json:"weight"`
	Shape    Shape   `json:"shape"`
}

func NewItem(label string, w, h, d, weight float64) Item {
	return Item{
		ID:     uuid.New().String()[:8],
		Label:  label,
		Width:  w,
		Height: h,
		Depth:  d,
		Weight: weight,
		Shape:  ShapeBox,
	}
}

// Dims returns the item's declared dimensions.
func (it Item) Dims() Dims {
	return Dims{Width: it.Width, Height: it.Height, Depth: it.Depth}
}

// BoundingDims returns the axis-aligned bounding box used for packing.
// Cylinders and spheres occupy a square footprint of side max(width, depth).
func (it Item) BoundingDims() Dims {
	switch it.Shape {
	case ShapeCylinder, ShapeSphere:
		side := math.Max(it.Width, it.Depth)
		return Dims{Width: side, Height: it.Height, Depth: side}
	default:
		return it.Dims()
	}
}

// Orientations returns the bounding boxes the item may be packed in, in
// preference order. Index 0 is the default orientation.
func (it Item) Orientations() []Dims {
	return []Dims{it.BoundingDims()}
}

// LargestBounds returns the per-axis maximum of the items' bounding boxes:
// the smallest inner size a container needs to take each item on its own.
func LargestBounds(items []Item) Dims {
	var d Dims
	for _, it := range items {
		b := it.BoundingDims()
		d.Width = math.Max(d.Width, b.Width)
		d.Height = math.Max(d.Height, b.Height)
		d.Depth = math.Max(d.Depth, b.Depth)
	}
	return d
}

// Container is the fixed-size box items are packed into.
type Container struct {
	Label     string  `json:"label"`
	Width     float64 `json:"width"`
	Height    float64 `json:"height"`
	Depth     float64 `json:"depth"`
	MaxWeight float64 `json:"max_weight,omitempty"` // 0 = no weight cap
}

func NewContainer(label string, w, h, d float64) Container {
	return Container{Label: label, Width: w, Height: h, Depth: d}
}

// Dims returns the container's inner dimensions.
func (c Container) Dims() Dims {
	return Dims{Width: c.Width, Height: c.Height, Depth: c.Depth}
}

// Volume returns the container's inner volume.
func (c Container) Volume() float64 {
	return c.Width * c.Height * c.Depth
}

// Holds reports whether a box of size d fits inside the container.
func (c Container) Holds(d Dims) bool {
	return d.Width <= c.Width && d.Height <= c.Height && d.Depth <= c.Depth
}

// Valid reports whether the container has finite, positive geometry.
func (c Container) Valid() bool {
	v := c.Volume()
	return c.Dims().Valid() && finitePositive(v) && !math.IsNaN(c.MaxWeight) && c.MaxWeight >= 0
}

// Reason explains why an item was not placed.
type Reason string

const (
	ReasonInvalidInput     Reason = "InvalidInput"
	ReasonTooLarge         Reason = "TooLarge"
	ReasonCapacityExceeded Reason = "CapacityExceeded"
)

// PlacedItem is one item positioned inside the container.
type PlacedItem struct {
	ItemID        string  `json:"item_id"`
	Label         string  `json:"label"`
	Category      string  `json:"category,omitempty"`
	Shape         Shape   `json:"shape"`
	Position      Vec3    `json:"position"` // Bounding-box minimum corner
	Size          Dims    `json:"size"`     // Bounding box as placed
	Weight        float64 `json:"weight"`
	RotationIndex int     `json:"rotation_index"`
	Stage         int     `json:"stage"`
}

// Max returns the bounding-box maximum corner.
func (p PlacedItem) Max() Vec3 {
	return Vec3{X: p.Position.X + p.Size.Width, Y: p.Position.Y + p.Size.Height, Z: p.Position.Z + p.Size.Depth}
}

// Volume returns the bounding-box volume of the placement.
func (p PlacedItem) Volume() float64 {
	return p.Size.Volume()
}

// UnplacedItem records an item the packer rejected.
type UnplacedItem struct {
	ItemID string `json:"item_id"`
	Label  string `json:"label"`
	Reason Reason `json:"reason"`
}

// PackingResult is the full output of one packing run.
type PackingResult struct {
	Container       Container      `json:"container"`
	Placed          []PlacedItem   `json:"placed"`
	Unplaced        []UnplacedItem `json:"unplaced"`
	OccupiedVolume  float64        `json:"occupied_volume"`
	ContainerVolume float64        `json:"container_volume"`
	Utilization     float64        `json:"utilization"` // OccupiedVolume / ContainerVolume
	PlacedWeight    float64        `json:"placed_weight"`
}

// StageCount returns the number of distinct stages referenced by placements.
func (r PackingResult) StageCount() int {
	n := 0
	for _, p := range r.Placed {
		if p.Stage+1 > n {
			n = p.Stage + 1
		}
	}
	return n
}

// UnplacedByReason counts rejected items per reason.
func (r PackingResult) UnplacedByReason() map[Reason]int {
	counts := make(map[Reason]int)
	for _, u := range r.Unplaced {
		counts[u.Reason]++
	}
	return counts
}

// Clone returns a deep copy of the result.
func (r PackingResult) Clone() PackingResult {
	out := r
	out.Placed = append([]PlacedItem(nil), r.Placed...)
	out.Unplaced = append([]UnplacedItem(nil), r.Unplaced...)
	return out
}

// SavingsRate is the per-item environmental saving for one category.
type SavingsRate struct {
	CO2Kg     float64 `json:"co2_kg" mapstructure:"co2_kg"`
	PlasticKg float64 `json:"plastic_kg" mapstructure:"plastic_kg"`
}

// SavingsTable maps an item category to its savings rate. The empty category
// key is the fallback for categories without an entry.
type SavingsTable map[string]SavingsRate

// Lookup returns the rate for category, falling back to the "" entry.
func (t SavingsTable) Lookup(category string) SavingsRate {
	if r, ok := t[category]; ok {
		return r
	}
	return t[""]
}

// Metrics summarizes a packing result for display.
type Metrics struct {
	OccupiedVolume    float64 `json:"occupied_volume"`
	ContainerVolume   float64 `json:"container_volume"`
	RawUtilization    float64 `json:"raw_utilization"`
	ScaledUtilization float64 `json:"scaled_utilization"`
	Reference         float64 `json:"reference_utilization"`
	PlacedCount       int     `json:"placed_count"`
	UnplacedCount     int     `json:"unplaced_count"`
	PlacedWeight      float64 `json:"placed_weight"`
	CO2SavedKg        float64 `json:"co2_saved_kg"`
	PlasticSavedKg    float64 `json:"plastic_saved_kg"`
}

// ScaledPercent returns the scaled utilization as a percentage.
func (m Metrics) ScaledPercent() float64 {
	return m.ScaledUtilization * 100.0
}

func finitePositive(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}

// ItemSpec describes an item before its packing dimensions are known. When
// Declared is not fully set, the dimensions are estimated from Weight.
type ItemSpec struct {
	ID       string  `json:"id"`
	Label    string  `json:"label"`
	Category string  `json:"category,omitempty"`
	Weight   float64 `json:"weight"`
	Declared Dims    `json:"declared"`
	Shape    Shape   `json:"shape"`
	Quantity int     `json:"quantity"`
}
