package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// Sheet names in the exported workbook.
const (
	SheetPlacements = "Placements"
	SheetUnplaced   = "Unplaced"
	SheetSummary    = "Summary"
)

var placementHeaders = []string{"Item", "Label", "Category", "Shape", "Stage", "X", "Y", "Z", "Width", "Height", "Depth", "Weight"}

// ExportXLSX writes the placements, the rejected items and the metrics of a
// report to an Excel workbook.
func ExportXLSX(path string, report Report) error {
	if report.Result.ContainerVolume <= 0 {
		return fmt.Errorf("no packing result to export")
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetPlacements); err != nil {
		return fmt.Errorf("failed to rename sheet: %w", err)
	}

	rows := [][]interface{}{toRow(placementHeaders)}
	for _, p := range report.Result.Placed {
		rows = append(rows, []interface{}{
			p.ItemID, p.Label, p.Category, p.Shape.String(), p.Stage + 1,
			p.Position.X, p.Position.Y, p.Position.Z,
			p.Size.Width, p.Size.Height, p.Size.Depth, p.Weight,
		})
	}
	if err := writeRows(f, SheetPlacements, rows); err != nil {
		return err
	}

	if _, err := f.NewSheet(SheetUnplaced); err != nil {
		return fmt.Errorf("failed to add sheet %s: %w", SheetUnplaced, err)
	}
	rows = [][]interface{}{{"Item", "Label", "Reason"}}
	for _, u := range report.Result.Unplaced {
		rows = append(rows, []interface{}{u.ItemID, u.Label, string(u.Reason)})
	}
	if err := writeRows(f, SheetUnplaced, rows); err != nil {
		return err
	}

	if _, err := f.NewSheet(SheetSummary); err != nil {
		return fmt.Errorf("failed to add sheet %s: %w", SheetSummary, err)
	}
	if err := writeRows(f, SheetSummary, summaryRows(report)); err != nil {
		return err
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

func summaryRows(report Report) [][]interface{} {
	c := report.Result.Container
	m := report.Metrics
	return [][]interface{}{
		{"Metric", "Value"},
		{"Title", report.Title},
		{"Container", c.Label},
		{"Container Width", c.Width},
		{"Container Height", c.Height},
		{"Container Depth", c.Depth},
		{"Max Weight", c.MaxWeight},
		{"Placed Items", m.PlacedCount},
		{"Unplaced Items", m.UnplacedCount},
		{"Occupied Volume", m.OccupiedVolume},
		{"Container Volume", m.ContainerVolume},
		{"Raw Utilization", m.RawUtilization},
		{"Scaled Utilization", m.ScaledUtilization},
		{"Reference Utilization", m.Reference},
		{"Placed Weight", m.PlacedWeight},
		{"CO2 Saved (kg)", m.CO2SavedKg},
		{"Plastic Saved (kg)", m.PlasticSavedKg},
		{"Stages", report.Result.StageCount()},
	}
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for i, row := range rows {
		for j, cell := range row {
			ref, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				return fmt.Errorf("failed to address cell: %w", err)
			}
			if err := f.SetCellValue(sheet, ref, cell); err != nil {
				return fmt.Errorf("failed to write %s!%s: %w", sheet, ref, err)
			}
		}
	}
	return nil
}

func toRow(cells []string) []interface{} {
	out := make([]interface{}, len(cells))
	for i, c := range cells {
		out[i] = c
	}
	return out
}
