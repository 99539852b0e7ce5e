package export

import (
	"fmt"

	"github.com/piwi3910/BoxPack/internal/engine"
	"github.com/piwi3910/BoxPack/internal/model"
	"github.com/yofu/dxf"
	"github.com/yofu/dxf/color"
	"github.com/yofu/dxf/drawing"
)

// Layer names used in DXF output.
const (
	LayerContainer = "CONTAINER"
	LayerLabels    = "LABELS"
)

// StageLayer returns the layer name for a zero-based stage.
func StageLayer(stage int) string {
	return fmt.Sprintf("STAGE_%d", stage+1)
}

// stageColors cycle through the standard ACI colors.
var stageColors = []color.ColorNumber{color.Red, color.Yellow, color.Green, color.Cyan, color.Blue, color.Magenta}

// ExportDXF writes a 3D wireframe of the container and every placed box.
// The container is on its own layer and each stage gets a layer, so CAD
// viewers can toggle stages. DXF is z-up: the packing y axis maps to z.
func ExportDXF(path string, result model.PackingResult) error {
	if result.ContainerVolume <= 0 {
		return fmt.Errorf("no packing result to export")
	}

	d := dxf.NewDrawing()

	if _, err := d.AddLayer(LayerContainer, color.White, dxf.DefaultLineType, true); err != nil {
		return fmt.Errorf("failed to add container layer: %w", err)
	}
	c := result.Container
	if err := wireframe(d, model.Vec3{}, model.Vec3{X: c.Width, Y: c.Height, Z: c.Depth}); err != nil {
		return err
	}

	stages := engine.Stages(result)
	for s, items := range stages {
		if _, err := d.AddLayer(StageLayer(s), stageColors[s%len(stageColors)], dxf.DefaultLineType, true); err != nil {
			return fmt.Errorf("failed to add layer for stage %d: %w", s+1, err)
		}
		for _, p := range items {
			if err := wireframe(d, p.Position, p.Max()); err != nil {
				return fmt.Errorf("failed to draw %s: %w", p.ItemID, err)
			}
		}
	}

	if len(result.Placed) > 0 {
		if _, err := d.AddLayer(LayerLabels, color.White, dxf.DefaultLineType, true); err != nil {
			return fmt.Errorf("failed to add label layer: %w", err)
		}
		for _, p := range result.Placed {
			top := p.Max()
			h := labelTextHeight(p.Size)
			if _, err := d.Text(itemName(p), p.Position.X, p.Position.Z, top.Y, h); err != nil {
				return fmt.Errorf("failed to label %s: %w", p.ItemID, err)
			}
		}
	}

	if err := d.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save DXF: %w", err)
	}
	return nil
}

// wireframe draws the 12 edges of the box from a to b on the current layer.
func wireframe(d *drawing.Drawing, a, b model.Vec3) error {
	// DXF coordinates (x, y, z) = packing (x, z, y).
	corners := [8][3]float64{
		{a.X, a.Z, a.Y}, {b.X, a.Z, a.Y}, {b.X, b.Z, a.Y}, {a.X, b.Z, a.Y},
		{a.X, a.Z, b.Y}, {b.X, a.Z, b.Y}, {b.X, b.Z, b.Y}, {a.X, b.Z, b.Y},
	}
	edges := [12][2]int{
		{0, 1}, {1, 2}, {2, 3}, {3, 0},
		{4, 5}, {5, 6}, {6, 7}, {7, 4},
		{0, 4}, {1, 5}, {2, 6}, {3, 7},
	}
	for _, e := range edges {
		p, q := corners[e[0]], corners[e[1]]
		if _, err := d.Line(p[0], p[1], p[2], q[0], q[1], q[2]); err != nil {
			return fmt.Errorf("failed to draw edge: %w", err)
		}
	}
	return nil
}

func labelTextHeight(s model.Dims) float64 {
	h := s.Width
	if s.Depth < h {
		h = s.Depth
	}
	return h / 8
}
