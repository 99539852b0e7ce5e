// Package preview turns a packing result into drawable 2D geometry: an
// isometric projection of the container and placed boxes, a stage timeline
// for the drop-in animation and a cosmetic jitter for display.
package preview

import (
	"image/color"
	"math"
	"sort"

	"github.com/piwi3910/BoxPack/internal/model"
)

var (
	cos30 = math.Cos(math.Pi / 6)
	sin30 = 0.5
)

// Point is a projected 2D point. Y grows downward, as on screen and in PDF.
type Point struct {
	X float64
	Y float64
}

// Project maps a container-frame point to isometric screen space, viewed
// from above the +x/+z corner.
func Project(v model.Vec3) Point {
	return Point{
		X: (v.X - v.Z) * cos30,
		Y: (v.X+v.Z)*sin30 - v.Y,
	}
}

// Face is one visible side of a box.
type Face struct {
	Points [4]Point
	Shade  float64 // Brightness multiplier in (0,1]
}

// Shades for the three visible faces.
const (
	ShadeTop   = 1.0
	ShadeFront = 0.8
	ShadeSide  = 0.62
)

// BoxFaces returns the top, front (+z) and side (+x) faces of a placement.
func BoxFaces(p model.PlacedItem) []Face {
	a := p.Position
	b := p.Max()
	pt := func(x, y, z float64) Point { return Project(model.Vec3{X: x, Y: y, Z: z}) }

	return []Face{
		{Points: [4]Point{pt(a.X, b.Y, a.Z), pt(b.X, b.Y, a.Z), pt(b.X, b.Y, b.Z), pt(a.X, b.Y, b.Z)}, Shade: ShadeTop},
		{Points: [4]Point{pt(a.X, a.Y, b.Z), pt(b.X, a.Y, b.Z), pt(b.X, b.Y, b.Z), pt(a.X, b.Y, b.Z)}, Shade: ShadeFront},
		{Points: [4]Point{pt(b.X, a.Y, a.Z), pt(b.X, a.Y, b.Z), pt(b.X, b.Y, b.Z), pt(b.X, b.Y, a.Z)}, Shade: ShadeSide},
	}
}

// Segment is a projected line.
type Segment struct {
	From Point
	To   Point
}

// ContainerEdges returns the 12 wireframe edges of the container.
func ContainerEdges(c model.Container) []Segment {
	return cuboidEdges(model.Vec3{}, model.Vec3{X: c.Width, Y: c.Height, Z: c.Depth})
}

// BoxEdges returns the 12 wireframe edges of a placement.
func BoxEdges(p model.PlacedItem) []Segment {
	return cuboidEdges(p.Position, p.Max())
}

func cuboidEdges(a, b model.Vec3) []Segment {
	corners := [8]model.Vec3{
		{X: a.X, Y: a.Y, Z: a.Z}, {X: b.X, Y: a.Y, Z: a.Z}, {X: b.X, Y: a.Y, Z: b.Z}, {X: a.X, Y: a.Y, Z: b.Z},
		{X: a.X, Y: b.Y, Z: a.Z}, {X: b.X, Y: b.Y, Z: a.Z}, {X: b.X, Y: b.Y, Z: b.Z}, {X: a.X, Y: b.Y, Z: b.Z},
	}
	pairs := [12][2]int{
		{0, 1}, {1, 2}, {2, 3}, {3, 0}, // bottom
		{4, 5}, {5, 6}, {6, 7}, {7, 4}, // top
		{0, 4}, {1, 5}, {2, 6}, {3, 7}, // verticals
	}
	out := make([]Segment, 0, len(pairs))
	for _, pr := range pairs {
		out = append(out, Segment{From: Project(corners[pr[0]]), To: Project(corners[pr[1]])})
	}
	return out
}

// DrawOrder returns placement indices back to front for painter's-algorithm
// drawing, keyed on the sum of each box's minimum corner coordinates.
func DrawOrder(placed []model.PlacedItem) []int {
	idx := make([]int, len(placed))
	for i := range idx {
		idx[i] = i
	}
	depth := func(p model.PlacedItem) float64 {
		return p.Position.X + p.Position.Y + p.Position.Z
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return depth(placed[idx[a]]) < depth(placed[idx[b]])
	})
	return idx
}

// Transform scales and offsets projected points into a drawing area.
type Transform struct {
	Scale   float64
	OffsetX float64
	OffsetY float64
}

// Apply maps p into the drawing area.
func (t Transform) Apply(p Point) Point {
	return Point{X: p.X*t.Scale + t.OffsetX, Y: p.Y*t.Scale + t.OffsetY}
}

// Fit returns the transform that centers the projected container inside a
// width x height area with the given margin. lift reserves extra room above
// the container for items dropping in.
func Fit(c model.Container, width, height, margin, lift float64) Transform {
	minP, maxP := bounds(c, lift)
	pw := maxP.X - minP.X
	ph := maxP.Y - minP.Y
	availW := width - 2*margin
	availH := height - 2*margin
	if pw <= 0 || ph <= 0 || availW <= 0 || availH <= 0 {
		return Transform{Scale: 1}
	}
	scale := math.Min(availW/pw, availH/ph)
	return Transform{
		Scale:   scale,
		OffsetX: margin + (availW-pw*scale)/2 - minP.X*scale,
		OffsetY: margin + (availH-ph*scale)/2 - minP.Y*scale,
	}
}

func bounds(c model.Container, lift float64) (Point, Point) {
	minP := Point{X: math.Inf(1), Y: math.Inf(1)}
	maxP := Point{X: math.Inf(-1), Y: math.Inf(-1)}
	for _, x := range []float64{0, c.Width} {
		for _, y := range []float64{0, c.Height + lift} {
			for _, z := range []float64{0, c.Depth} {
				p := Project(model.Vec3{X: x, Y: y, Z: z})
				minP.X = math.Min(minP.X, p.X)
				minP.Y = math.Min(minP.Y, p.Y)
				maxP.X = math.Max(maxP.X, p.X)
				maxP.Y = math.Max(maxP.Y, p.Y)
			}
		}
	}
	return minP, maxP
}

// Palette cycles through these for visual distinction.
var Palette = []color.NRGBA{
	{R: 76, G: 175, B: 80, A: 230},  // green
	{R: 33, G: 150, B: 243, A: 230}, // blue
	{R: 255, G: 152, B: 0, A: 230},  // orange
	{R: 156, G: 39, B: 176, A: 230}, // purple
	{R: 0, G: 188, B: 212, A: 230},  // cyan
	{R: 244, G: 67, B: 54, A: 230},  // red
	{R: 255, G: 235, B: 59, A: 230}, // yellow
	{R: 121, G: 85, B: 72, A: 230},  // brown
}

// ColorFor returns the palette color for index i.
func ColorFor(i int) color.NRGBA {
	if i < 0 {
		i = -i
	}
	return Palette[i%len(Palette)]
}

// Shaded darkens c by shade, keeping alpha.
func Shaded(c color.NRGBA, shade float64) color.NRGBA {
	f := func(v uint8) uint8 { return uint8(math.Round(float64(v) * shade)) }
	return color.NRGBA{R: f(c.R), G: f(c.G), B: f(c.B), A: c.A}
}
