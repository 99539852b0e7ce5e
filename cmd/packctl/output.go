package main

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/piwi3910/BoxPack/internal/engine"
	"github.com/piwi3910/BoxPack/internal/orders"
)

func (c *cli) printJSON(v any) error {
	enc := json.NewEncoder(c.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (c *cli) table(fn func(w *tabwriter.Writer)) error {
	w := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
	fn(w)
	return w.Flush()
}

func (c *cli) printPreview(p orders.Preview) error {
	if c.asJSON {
		return c.printJSON(p)
	}
	m := p.Metrics
	box := p.Container
	if err := c.table(func(w *tabwriter.Writer) {
		fmt.Fprintf(w, "Box:\t%s (%.1f x %.1f x %.1f), %s\n", box.Label, box.Width, box.Height, box.Depth, p.ContainerSource)
		fmt.Fprintf(w, "Utilization:\t%.1f%% (raw %.1f%%)\n", m.ScaledPercent(), m.RawUtilization*100)
		fmt.Fprintf(w, "Placed:\t%d\n", m.PlacedCount)
		fmt.Fprintf(w, "Unplaced:\t%d\n", m.UnplacedCount)
		fmt.Fprintf(w, "Weight:\t%.2f\n", m.PlacedWeight)
		fmt.Fprintf(w, "CO2 saved:\t%.2f kg\n", m.CO2SavedKg)
		fmt.Fprintf(w, "Plastic saved:\t%.2f kg\n", m.PlasticSavedKg)
	}); err != nil {
		return err
	}

	fmt.Fprintln(c.out)
	return c.table(func(w *tabwriter.Writer) {
		fmt.Fprintln(w, "STAGE\tITEM\tLABEL\tX\tY\tZ\tW\tH\tD")
		for s, items := range engine.Stages(p.Result) {
			for _, it := range items {
				fmt.Fprintf(w, "%d\t%s\t%s\t%.1f\t%.1f\t%.1f\t%.1f\t%.1f\t%.1f\n",
					s+1, it.ItemID, it.Label,
					it.Position.X, it.Position.Y, it.Position.Z,
					it.Size.Width, it.Size.Height, it.Size.Depth)
			}
		}
		for _, u := range p.Result.Unplaced {
			fmt.Fprintf(w, "-\t%s\t%s\t%s\n", u.ItemID, u.Label, u.Reason)
		}
	})
}
