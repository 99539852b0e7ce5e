package main

import (
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/piwi3910/BoxPack/internal/engine"
	"github.com/piwi3910/BoxPack/internal/export"
	"github.com/piwi3910/BoxPack/internal/importer"
	"github.com/piwi3910/BoxPack/internal/model"
	"github.com/piwi3910/BoxPack/internal/orders"
	"github.com/piwi3910/BoxPack/internal/predict"
	"github.com/piwi3910/BoxPack/internal/preview"
)

const (
	searchOrdering = "search"
	autoBox        = "auto"
)

// boxFlags select the container for pack and compare.
type boxFlags struct {
	name      string
	dims      string
	maxWeight float64
}

func (b *boxFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&b.name, "box", "", `box name from the inventory, or "auto" for the smallest box that fits every item`)
	cmd.Flags().StringVar(&b.dims, "dims", "", "custom box as WxHxD, overrides --box")
	cmd.Flags().Float64Var(&b.maxWeight, "max-weight", 0, "weight cap for a custom box (0 = none)")
}

func (c *cli) resolveBox(b boxFlags, items []model.Item) (model.Container, error) {
	if b.dims != "" {
		d, err := predict.ParseBoxDimensions(b.dims)
		if err != nil {
			return model.Container{}, err
		}
		box := model.NewContainer("Custom", d.Width, d.Height, d.Depth)
		box.MaxWeight = b.maxWeight
		return box, nil
	}
	name := b.name
	if name == "" {
		return c.env.Config.DefaultContainer, nil
	}
	if strings.EqualFold(name, autoBox) {
		preset := c.env.Inventory.SmallestFitting(model.LargestBounds(items))
		if preset == nil {
			return model.Container{}, fmt.Errorf("no box in the inventory fits the largest item")
		}
		return preset.ToContainer(), nil
	}
	preset := c.env.Inventory.FindByName(name)
	if preset == nil {
		return model.Container{}, fmt.Errorf("box %q not in inventory (have %s)", name, strings.Join(c.env.Inventory.Names(), ", "))
	}
	return preset.ToContainer(), nil
}

func (c *cli) loadSpecs(path string) ([]model.ItemSpec, error) {
	res := importer.Import(path)
	if len(res.Errors) > 0 {
		return nil, fmt.Errorf("failed to import %s:\n  %s", path, strings.Join(res.Errors, "\n  "))
	}
	for _, w := range res.Warnings {
		c.env.Logger.Sugar().Warnw("import warning", "file", path, "warning", w)
	}
	return res.Items, nil
}

func (c *cli) loadItems(path string) ([]model.Item, error) {
	specs, err := c.loadSpecs(path)
	if err != nil {
		return nil, err
	}
	return c.env.Service.EstimateSpecs(specs)
}

// ─── estimate ──────────────────────────────────────────────

func (c *cli) newEstimateCmd() *cobra.Command {
	var dims string
	cmd := &cobra.Command{
		Use:   "estimate WEIGHT",
		Short: "Estimate packing dimensions from weight",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			weight, err := strconv.ParseFloat(args[0], 64)
			if err != nil {
				return fmt.Errorf("invalid weight %q: %w", args[0], err)
			}
			var declared model.Dims
			if dims != "" {
				if declared, err = predict.ParseBoxDimensions(dims); err != nil {
					return err
				}
			}
			d, err := engine.NewEstimator(c.env.Config.EstimatorScale).Estimate(weight, declared)
			if err != nil {
				return err
			}
			if c.asJSON {
				return c.printJSON(d)
			}
			fmt.Fprintf(c.out, "%.2f x %.2f x %.2f\n", d.Width, d.Height, d.Depth)
			return nil
		},
	}
	cmd.Flags().StringVar(&dims, "dims", "", "declared dimensions WxHxD; used when complete")
	return cmd
}

// ─── pack ──────────────────────────────────────────────────

type exportFlags struct {
	pdf, labels, dxf, xlsx, png string
}

func (c *cli) newPackCmd() *cobra.Command {
	var (
		box      boxFlags
		ordering string
		out      exportFlags
	)
	cmd := &cobra.Command{
		Use:   "pack ITEMS_FILE",
		Short: "Pack a CSV or Excel item list into a box",
		Long: `Imports items from a CSV or Excel file, estimates missing dimensions
from weight and packs them into the chosen box.

Orderings: "As Given" (default), any name listed by "compare", or
"search" for the genetic ordering search.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			specs, err := c.loadSpecs(args[0])
			if err != nil {
				return err
			}
			items, err := c.env.Service.EstimateSpecs(specs)
			if err != nil {
				return err
			}
			container, err := c.resolveBox(box, items)
			if err != nil {
				return err
			}

			var p orders.Preview
			if ordering == "" {
				if p, err = c.env.Service.PackSpecs(container, specs); err != nil {
					return err
				}
			} else {
				result, err := packWithOrdering(container, items, ordering)
				if err != nil {
					return err
				}
				if p, err = c.env.Service.Finish(result); err != nil {
					return err
				}
			}
			if err := c.writeExports(p, args[0], out); err != nil {
				return err
			}
			return c.printPreview(p)
		},
	}
	box.register(cmd)
	cmd.Flags().StringVar(&ordering, "ordering", "", "item ordering strategy")
	cmd.Flags().StringVar(&out.pdf, "pdf", "", "write a stage-by-stage PDF report")
	cmd.Flags().StringVar(&out.labels, "labels", "", "write QR label sheets")
	cmd.Flags().StringVar(&out.dxf, "dxf", "", "write a 3D DXF wireframe")
	cmd.Flags().StringVar(&out.xlsx, "xlsx", "", "write an Excel workbook")
	cmd.Flags().StringVar(&out.png, "png", "", "write an isometric PNG")
	return cmd
}

func packWithOrdering(container model.Container, items []model.Item, ordering string) (model.PackingResult, error) {
	if strings.EqualFold(ordering, searchOrdering) {
		sr, err := engine.SearchOrdering(container, items, engine.DefaultGeneticConfig())
		if err != nil {
			return model.PackingResult{}, err
		}
		return sr.Result, nil
	}
	if ordering != "" {
		found := false
		for _, s := range engine.DefaultOrderings() {
			if strings.EqualFold(s.Name, ordering) {
				items, found = s.Apply(items), true
				break
			}
		}
		if !found {
			return model.PackingResult{}, fmt.Errorf("unknown ordering %q", ordering)
		}
	}
	return engine.Pack(container, items)
}

func (c *cli) writeExports(p orders.Preview, title string, out exportFlags) error {
	report := export.Report{Title: title, Result: p.Result, Metrics: p.Metrics}
	steps := []struct {
		path  string
		write func(string) error
	}{
		{out.pdf, func(path string) error { return export.ExportPDF(path, report) }},
		{out.labels, func(path string) error { return export.ExportLabels(path, p.OrderID, p.Result) }},
		{out.dxf, func(path string) error { return export.ExportDXF(path, p.Result) }},
		{out.xlsx, func(path string) error { return export.ExportXLSX(path, report) }},
		{out.png, func(path string) error { return preview.SavePNG(path, p.Result, preview.DefaultRenderOptions()) }},
	}
	for _, s := range steps {
		if s.path == "" {
			continue
		}
		if err := s.write(s.path); err != nil {
			return err
		}
		c.env.Logger.Sugar().Infow("exported", "path", s.path)
	}
	return nil
}

// ─── compare ───────────────────────────────────────────────

func (c *cli) newCompareCmd() *cobra.Command {
	var box boxFlags
	cmd := &cobra.Command{
		Use:   "compare ITEMS_FILE",
		Short: "Compare item orderings for one box",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			items, err := c.loadItems(args[0])
			if err != nil {
				return err
			}
			container, err := c.resolveBox(box, items)
			if err != nil {
				return err
			}
			results, err := engine.CompareOrderings(container, items, engine.DefaultOrderings())
			if err != nil {
				return err
			}
			best := engine.BestComparison(results)

			if c.asJSON {
				type row struct {
					Strategy    string  `json:"strategy"`
					Placed      int     `json:"placed"`
					Unplaced    int     `json:"unplaced"`
					Utilization float64 `json:"utilization"`
					Best        bool    `json:"best"`
				}
				rows := make([]row, len(results))
				for i, r := range results {
					rows[i] = row{r.Strategy, r.PlacedCount, r.UnplacedCount, r.Utilization, i == best}
				}
				return c.printJSON(rows)
			}
			return c.table(func(w *tabwriter.Writer) {
				fmt.Fprintln(w, "ORDERING\tPLACED\tUNPLACED\tUTILIZATION\t")
				for i, r := range results {
					mark := ""
					if i == best {
						mark = "*"
					}
					fmt.Fprintf(w, "%s\t%d\t%d\t%.1f%%\t%s\n", r.Strategy, r.PlacedCount, r.UnplacedCount, r.Utilization*100, mark)
				}
			})
		},
	}
	box.register(cmd)
	return cmd
}
