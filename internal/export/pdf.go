// Package export writes packing previews to PDF reports, QR label sheets,
// DXF wireframes and Excel workbooks.
package export

import (
	"fmt"
	"sort"

	"github.com/go-pdf/fpdf"
	"github.com/piwi3910/BoxPack/internal/engine"
	"github.com/piwi3910/BoxPack/internal/model"
	"github.com/piwi3910/BoxPack/internal/preview"
)

// Report is one packing preview to export.
type Report struct {
	Title   string // e.g. the order id
	Result  model.PackingResult
	Metrics model.Metrics
}

// Page layout constants (A4 landscape in mm).
const (
	pageWidth    = 297.0
	pageHeight   = 210.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 15.0
	headerHeight = 12.0
	legendHeight = 22.0
	drawAreaTop  = marginTop + headerHeight + 5.0
)

// ExportPDF writes a report with one page per stage, each showing the boxes
// placed so far with the current stage highlighted, followed by a summary
// page.
func ExportPDF(path string, report Report) error {
	if report.Result.ContainerVolume <= 0 {
		return fmt.Errorf("no packing result to export")
	}

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, marginBottom)
	pdf.SetTitle(reportTitle(report), true)

	stages := engine.Stages(report.Result)
	for s := range stages {
		pdf.AddPage()
		renderStagePage(pdf, report, stages, s)
	}

	pdf.AddPage()
	renderSummaryPage(pdf, report, stages)

	return pdf.OutputFileAndClose(path)
}

func reportTitle(r Report) string {
	if r.Title != "" {
		return "Packaging Preview - " + r.Title
	}
	return "Packaging Preview"
}

// renderStagePage draws stages 0..stage in isometric view.
func renderStagePage(pdf *fpdf.Fpdf, report Report, stages [][]model.PlacedItem, stage int) {
	res := report.Result
	c := res.Container

	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetXY(marginLeft, marginTop)
	title := fmt.Sprintf("%s - Stage %d of %d", reportTitle(report), stage+1, len(stages))
	pdf.CellFormat(pageWidth-marginLeft-marginRight, headerHeight, title, "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetXY(marginLeft, marginTop+headerHeight)
	stats := fmt.Sprintf("Container: %s (%.1f x %.1f x %.1f) | Items this stage: %d | Placed so far: %d of %d",
		c.Label, c.Width, c.Height, c.Depth, len(stages[stage]), placedThrough(stages, stage), len(res.Placed))
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 5, stats, "", 0, "L", false, 0, "")

	drawWidth := pageWidth - marginLeft - marginRight
	drawHeight := pageHeight - drawAreaTop - marginBottom - legendHeight
	tr := preview.Fit(c, drawWidth, drawHeight, 2, 0)
	tr.OffsetX += marginLeft
	tr.OffsetY += drawAreaTop

	// Container wireframe behind the boxes
	pdf.SetDrawColor(150, 150, 150)
	pdf.SetLineWidth(0.3)
	for _, seg := range preview.ContainerEdges(c) {
		a, b := tr.Apply(seg.From), tr.Apply(seg.To)
		pdf.Line(a.X, a.Y, b.X, b.Y)
	}

	var visible []model.PlacedItem
	for s := 0; s <= stage; s++ {
		visible = append(visible, stages[s]...)
	}
	colorIndex := preview.ColorIndex(res.Placed)

	// Later stages as dashed outlines
	pdf.SetDrawColor(180, 180, 180)
	pdf.SetLineWidth(0.15)
	pdf.SetDashPattern([]float64{1, 1}, 0)
	for s := stage + 1; s < len(stages); s++ {
		for _, p := range stages[s] {
			for _, seg := range preview.BoxEdges(p) {
				a, b := tr.Apply(seg.From), tr.Apply(seg.To)
				pdf.Line(a.X, a.Y, b.X, b.Y)
			}
		}
	}
	pdf.SetDashPattern([]float64{}, 0)

	pdf.SetDrawColor(30, 30, 30)
	pdf.SetLineWidth(0.2)
	for _, i := range preview.DrawOrder(visible) {
		p := visible[i]
		col := preview.ColorFor(colorIndex[p.ItemID])
		if p.Stage != stage {
			col = preview.Faded(col)
		}
		for _, f := range preview.BoxFaces(p) {
			sc := preview.Shaded(col, f.Shade)
			pdf.SetFillColor(int(sc.R), int(sc.G), int(sc.B))
			pts := make([]fpdf.PointType, 0, len(f.Points))
			for _, fp := range f.Points {
				q := tr.Apply(fp)
				pts = append(pts, fpdf.PointType{X: q.X, Y: q.Y})
			}
			pdf.Polygon(pts, "FD")
		}
	}

	drawStageLegend(pdf, stages[stage], colorIndex, pageHeight-marginBottom-legendHeight+4)
}

func placedThrough(stages [][]model.PlacedItem, stage int) int {
	n := 0
	for s := 0; s <= stage && s < len(stages); s++ {
		n += len(stages[s])
	}
	return n
}

// drawStageLegend lists the items added in the current stage.
func drawStageLegend(pdf *fpdf.Fpdf, items []model.PlacedItem, colorIndex map[string]int, startY float64) {
	if len(items) == 0 {
		return
	}

	pdf.SetFont("Helvetica", "B", 8)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(marginLeft, startY)
	pdf.CellFormat(30, 4, "Added this stage:", "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	xPos := marginLeft + 32
	maxX := pageWidth - marginRight

	for _, p := range items {
		col := preview.ColorFor(colorIndex[p.ItemID])
		label := fmt.Sprintf("%s (%.1fx%.1fx%.1f)", itemName(p), p.Size.Width, p.Size.Height, p.Size.Depth)
		labelW := pdf.GetStringWidth(label) + 6

		if xPos+labelW > maxX {
			startY += 5
			xPos = marginLeft
		}

		pdf.SetFillColor(int(col.R), int(col.G), int(col.B))
		pdf.Rect(xPos, startY+0.5, 3, 3, "F")

		pdf.SetXY(xPos+4, startY)
		pdf.CellFormat(labelW-4, 4, label, "", 0, "L", false, 0, "")

		xPos += labelW + 2
	}
}

func itemName(p model.PlacedItem) string {
	if p.Label != "" {
		return p.Label
	}
	return p.ItemID
}

// renderSummaryPage draws the metrics, stage breakdown and rejected items.
func renderSummaryPage(pdf *fpdf.Fpdf, report Report, stages [][]model.PlacedItem) {
	res := report.Result
	m := report.Metrics

	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetXY(marginLeft, marginTop)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 10, reportTitle(report)+" - Summary", "", 0, "L", false, 0, "")

	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.5)
	pdf.Line(marginLeft, marginTop+12, pageWidth-marginRight, marginTop+12)

	y := marginTop + 18

	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(100, 7, "Overall Statistics", "", 0, "L", false, 0, "")
	y += 9

	summaryItems := []struct {
		label string
		value string
	}{
		{"Container", fmt.Sprintf("%s (%.1f x %.1f x %.1f)", res.Container.Label, res.Container.Width, res.Container.Height, res.Container.Depth)},
		{"Items Placed", fmt.Sprintf("%d", m.PlacedCount)},
		{"Items Not Placed", fmt.Sprintf("%d", m.UnplacedCount)},
		{"Volume Used", fmt.Sprintf("%.1f / %.1f", m.OccupiedVolume, m.ContainerVolume)},
		{"Raw Utilization", fmt.Sprintf("%.1f%%", m.RawUtilization*100)},
		{"Packing Efficiency", fmt.Sprintf("%.1f%% (reference %.0f%%)", m.ScaledPercent(), m.Reference*100)},
		{"Placed Weight", fmt.Sprintf("%.2f kg", m.PlacedWeight)},
		{"CO2 Saved", fmt.Sprintf("%.2f kg", m.CO2SavedKg)},
		{"Plastic Saved", fmt.Sprintf("%.2f kg", m.PlasticSavedKg)},
	}

	pdf.SetFont("Helvetica", "", 10)
	for _, item := range summaryItems {
		pdf.SetXY(marginLeft+5, y)
		pdf.CellFormat(60, 6, item.label+":", "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(120, 6, item.value, "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		y += 7
	}

	y += 5

	if len(stages) > 0 {
		pdf.SetFont("Helvetica", "B", 12)
		pdf.SetXY(marginLeft, y)
		pdf.CellFormat(100, 7, "Stage Breakdown", "", 0, "L", false, 0, "")
		y += 9

		colWidths := []float64{25, 30, 45, 45, 45}
		headers := []string{"Stage", "Items", "Lowest Y", "Highest Top", "Volume"}

		pdf.SetFont("Helvetica", "B", 9)
		pdf.SetFillColor(230, 230, 230)
		xPos := marginLeft
		for i, header := range headers {
			pdf.SetXY(xPos, y)
			pdf.CellFormat(colWidths[i], 6, header, "1", 0, "C", true, 0, "")
			xPos += colWidths[i]
		}
		y += 6

		pdf.SetFont("Helvetica", "", 9)
		for s, items := range stages {
			lo, hi, vol := stageExtent(items)
			rowData := []string{
				fmt.Sprintf("%d", s+1),
				fmt.Sprintf("%d", len(items)),
				fmt.Sprintf("%.1f", lo),
				fmt.Sprintf("%.1f", hi),
				fmt.Sprintf("%.1f", vol),
			}
			if s%2 == 0 {
				pdf.SetFillColor(245, 245, 245)
			} else {
				pdf.SetFillColor(255, 255, 255)
			}
			xPos = marginLeft
			for j, cell := range rowData {
				pdf.SetXY(xPos, y)
				pdf.CellFormat(colWidths[j], 6, cell, "1", 0, "C", true, 0, "")
				xPos += colWidths[j]
			}
			y += 6
		}
	}

	if len(res.Unplaced) > 0 {
		y += 8
		pdf.SetFont("Helvetica", "B", 11)
		pdf.SetTextColor(200, 0, 0)
		pdf.SetXY(marginLeft, y)
		pdf.CellFormat(200, 7, "WARNING: Items Not Placed", "", 0, "L", false, 0, "")
		y += 8

		pdf.SetFont("Helvetica", "", 9)
		pdf.SetTextColor(0, 0, 0)
		for _, line := range unplacedLines(res) {
			if y > pageHeight-marginBottom-6 {
				pdf.SetXY(marginLeft+5, y)
				pdf.CellFormat(200, 5, "...", "", 0, "L", false, 0, "")
				break
			}
			pdf.SetXY(marginLeft+5, y)
			pdf.CellFormat(200, 5, line, "", 0, "L", false, 0, "")
			y += 5
		}
	}

	pdf.SetFont("Helvetica", "I", 8)
	pdf.SetTextColor(120, 120, 120)
	pdf.SetXY(marginLeft, pageHeight-marginBottom)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 4, "Generated by BoxPack - Packaging Preview", "", 0, "C", false, 0, "")
}

// unplacedLines summarizes rejected items grouped by reason.
func unplacedLines(res model.PackingResult) []string {
	counts := res.UnplacedByReason()
	reasons := make([]string, 0, len(counts))
	for r := range counts {
		reasons = append(reasons, string(r))
	}
	sort.Strings(reasons)

	var lines []string
	for _, r := range reasons {
		lines = append(lines, fmt.Sprintf("%s: %d item(s)", r, counts[model.Reason(r)]))
	}
	for _, u := range res.Unplaced {
		name := u.Label
		if name == "" {
			name = u.ItemID
		}
		lines = append(lines, fmt.Sprintf("- %s (%s)", name, u.Reason))
	}
	return lines
}

func stageExtent(items []model.PlacedItem) (lowest, highestTop, volume float64) {
	for i, p := range items {
		top := p.Max().Y
		if i == 0 || p.Position.Y < lowest {
			lowest = p.Position.Y
		}
		if i == 0 || top > highestTop {
			highestTop = top
		}
		volume += p.Volume()
	}
	return lowest, highestTop, volume
}
