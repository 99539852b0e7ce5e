package preview

import (
	"image"
	"image/color"

	"github.com/fogleman/gg"
	"github.com/piwi3910/BoxPack/internal/model"
)

// RenderOptions controls raster output.
type RenderOptions struct {
	Width      int
	Height     int
	Margin     float64
	Lift       float64 // Extra room above the container for dropping boxes
	Background color.Color
	Highlight  int // Stage drawn at full color; others are faded. -1 highlights all.
}

// DefaultRenderOptions returns an 800x600 white canvas with every stage
// highlighted.
func DefaultRenderOptions() RenderOptions {
	return RenderOptions{
		Width:      800,
		Height:     600,
		Margin:     20,
		Background: color.White,
		Highlight:  -1,
	}
}

// Render draws the container wireframe and the given placements in
// isometric view. Colors come from each placement's index in colorOf, so a
// box keeps its color between animation frames.
func Render(c model.Container, placed []model.PlacedItem, colorOf map[string]int, opts RenderOptions) image.Image {
	dc := gg.NewContext(opts.Width, opts.Height)
	if opts.Background != nil {
		dc.SetColor(opts.Background)
		dc.Clear()
	}

	tr := Fit(c, float64(opts.Width), float64(opts.Height), opts.Margin, opts.Lift)

	// Back edges first so boxes cover them
	dc.SetRGB255(150, 150, 150)
	dc.SetLineWidth(1)
	for _, seg := range ContainerEdges(c) {
		a, b := tr.Apply(seg.From), tr.Apply(seg.To)
		dc.DrawLine(a.X, a.Y, b.X, b.Y)
	}
	dc.Stroke()

	for _, i := range DrawOrder(placed) {
		p := placed[i]
		base := ColorFor(colorOf[p.ItemID])
		if opts.Highlight >= 0 && p.Stage != opts.Highlight {
			base = Faded(base)
		}
		for _, f := range BoxFaces(p) {
			for k, fp := range f.Points {
				q := tr.Apply(fp)
				if k == 0 {
					dc.MoveTo(q.X, q.Y)
				} else {
					dc.LineTo(q.X, q.Y)
				}
			}
			dc.ClosePath()
			dc.SetColor(Shaded(base, f.Shade))
			dc.FillPreserve()
			dc.SetRGB255(30, 30, 30)
			dc.SetLineWidth(0.8)
			dc.Stroke()
		}
	}
	return dc.Image()
}

// RenderResult draws every placement of result.
func RenderResult(result model.PackingResult, opts RenderOptions) image.Image {
	return Render(result.Container, result.Placed, ColorIndex(result.Placed), opts)
}

// SavePNG renders result to a PNG file.
func SavePNG(path string, result model.PackingResult, opts RenderOptions) error {
	img := RenderResult(result, opts)
	return gg.SavePNG(path, img)
}

// ColorIndex maps each item id to its placement index.
func ColorIndex(placed []model.PlacedItem) map[string]int {
	idx := make(map[string]int, len(placed))
	for i, p := range placed {
		idx[p.ItemID] = i
	}
	return idx
}

// Faded blends c halfway to white.
func Faded(c color.NRGBA) color.NRGBA {
	mix := func(v uint8) uint8 { return uint8((int(v) + 255) / 2) }
	return color.NRGBA{R: mix(c.R), G: mix(c.G), B: mix(c.B), A: c.A}
}
