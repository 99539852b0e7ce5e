// Package importer reads item lists from CSV and Excel files. It detects the
// CSV delimiter, maps columns by header name (case-insensitive, with common
// aliases) and falls back to positional columns when there is no header.
package importer

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/piwi3910/BoxPack/internal/model"
	"github.com/xuri/excelize/v2"
)

// ImportResult holds the results of an import operation.
type ImportResult struct {
	Items    []model.ItemSpec
	Errors   []string
	Warnings []string
}

// ColumnMapping maps semantic column roles to their indices in the data.
// -1 means the column is absent.
type ColumnMapping struct {
	Label    int
	Width    int
	Height   int
	Depth    int
	Weight   int
	Quantity int
	Shape    int
	Category int
}

// positionalMapping is used when the first row is not a header:
// Label, Width, Height, Depth, Weight, Quantity, Shape, Category.
var positionalMapping = ColumnMapping{
	Label: 0, Width: 1, Height: 2, Depth: 3, Weight: 4, Quantity: 5, Shape: 6, Category: 7,
}

// headerAliases maps canonical column names to their accepted aliases (all lowercase).
var headerAliases = map[string][]string{
	"label":    {"label", "name", "item", "item name", "product", "title", "description", "desc", "sku"},
	"width":    {"width", "w", "length", "len", "x"},
	"height":   {"height", "h", "tall", "y"},
	"depth":    {"depth", "d", "deep", "z"},
	"weight":   {"weight", "wt", "mass", "kg", "weight (kg)"},
	"quantity": {"quantity", "qty", "count", "num", "amount", "pcs", "units"},
	"shape":    {"shape", "form"},
	"category": {"category", "cat", "group", "department", "dept"},
}

// DetectCSVDelimiter reads the file content and determines the most likely CSV delimiter.
// It tries comma, semicolon, tab, and pipe. The delimiter that produces the most
// consistent (non-one) column count across lines wins.
func DetectCSVDelimiter(data []byte) rune {
	candidates := []rune{',', ';', '\t', '|'}
	bestDelimiter := ','
	bestScore := 0

	for _, delim := range candidates {
		reader := csv.NewReader(bytes.NewReader(data))
		reader.Comma = delim
		reader.LazyQuotes = true
		reader.FieldsPerRecord = -1

		records, err := reader.ReadAll()
		if err != nil || len(records) < 1 {
			continue
		}

		firstCols := len(records[0])
		if firstCols < 2 {
			continue
		}

		score := 0
		for _, row := range records {
			if len(row) == firstCols {
				score++
			}
		}

		weighted := score*10 + firstCols
		if weighted > bestScore {
			bestScore = weighted
			bestDelimiter = delim
		}
	}

	return bestDelimiter
}

// DetectColumns examines a header row and returns a ColumnMapping.
// Returns the mapping and true if a header was detected, or the positional
// mapping and false if no header was found.
func DetectColumns(row []string) (ColumnMapping, bool) {
	mapping := ColumnMapping{-1, -1, -1, -1, -1, -1, -1, -1}
	slots := map[string]*int{
		"label":    &mapping.Label,
		"width":    &mapping.Width,
		"height":   &mapping.Height,
		"depth":    &mapping.Depth,
		"weight":   &mapping.Weight,
		"quantity": &mapping.Quantity,
		"shape":    &mapping.Shape,
		"category": &mapping.Category,
	}

	isHeader := false
	for i, cell := range row {
		normalized := strings.ToLower(strings.TrimSpace(cell))
		for role, aliases := range headerAliases {
			for _, alias := range aliases {
				if normalized != alias {
					continue
				}
				isHeader = true
				if slot := slots[role]; *slot == -1 {
					*slot = i
				}
			}
		}
	}

	if !isHeader {
		return positionalMapping, false
	}
	return mapping, true
}

// getCell safely retrieves a cell value from a row by column index.
// Returns empty string if the index is out of range or negative.
func getCell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// parseOptionalFloat returns 0 for an empty cell.
func parseOptionalFloat(s string) (float64, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.ParseFloat(s, 64)
}

// parseRow extracts an ItemSpec from a row using the given column mapping.
// Returns the spec, any error message, and any warning messages.
func parseRow(row []string, mapping ColumnMapping, rowLabel string, itemCount int) (model.ItemSpec, string, []string) {
	var warnings []string

	label := getCell(row, mapping.Label)
	if label == "" {
		label = fmt.Sprintf("Item %d", itemCount+1)
	}

	weightStr := getCell(row, mapping.Weight)
	if weightStr == "" {
		return model.ItemSpec{}, fmt.Sprintf("%s: Missing weight value", rowLabel), nil
	}
	weight, err := strconv.ParseFloat(weightStr, 64)
	if err != nil {
		return model.ItemSpec{}, fmt.Sprintf("%s: Invalid weight '%s'", rowLabel, weightStr), nil
	}
	if weight <= 0 {
		return model.ItemSpec{}, fmt.Sprintf("%s: Weight must be positive", rowLabel), nil
	}

	var dims model.Dims
	for _, f := range []struct {
		name string
		idx  int
		dst  *float64
	}{
		{"width", mapping.Width, &dims.Width},
		{"height", mapping.Height, &dims.Height},
		{"depth", mapping.Depth, &dims.Depth},
	} {
		s := getCell(row, f.idx)
		v, err := parseOptionalFloat(s)
		if err != nil {
			return model.ItemSpec{}, fmt.Sprintf("%s: Invalid %s '%s'", rowLabel, f.name, s), nil
		}
		if v < 0 {
			return model.ItemSpec{}, fmt.Sprintf("%s: Dimensions must not be negative", rowLabel), nil
		}
		*f.dst = v
	}
	if !dims.Declared() && (dims.Width > 0 || dims.Height > 0 || dims.Depth > 0) {
		warnings = append(warnings, fmt.Sprintf("%s: Incomplete dimensions, estimating from weight", rowLabel))
		dims = model.Dims{}
	}

	qty := 1
	if qtyStr := getCell(row, mapping.Quantity); qtyStr != "" {
		qty, err = strconv.Atoi(qtyStr)
		if err != nil {
			return model.ItemSpec{}, fmt.Sprintf("%s: Invalid quantity '%s'", rowLabel, qtyStr), nil
		}
		if qty <= 0 {
			return model.ItemSpec{}, fmt.Sprintf("%s: Quantity must be positive", rowLabel), nil
		}
	}

	shape := model.ShapeBox
	if shapeStr := getCell(row, mapping.Shape); shapeStr != "" {
		s, ok := model.ParseShape(strings.ToLower(shapeStr))
		if ok {
			shape = s
		} else {
			warnings = append(warnings, fmt.Sprintf("%s: Unknown shape '%s', defaulting to Box", rowLabel, shapeStr))
		}
	}

	return model.ItemSpec{
		Label:    label,
		Category: getCell(row, mapping.Category),
		Weight:   weight,
		Declared: dims,
		Shape:    shape,
		Quantity: qty,
	}, "", warnings
}

// isEmptyRow returns true if the row has no meaningful content.
func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// ImportCSV imports items from a CSV file.
// It automatically detects the delimiter and maps columns by header names.
func ImportCSV(path string) ImportResult {
	result := ImportResult{}

	data, err := os.ReadFile(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open file: %v", err))
		return result
	}

	if len(bytes.TrimSpace(data)) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	delimiter := DetectCSVDelimiter(data)
	if delimiter != ',' {
		delimName := map[rune]string{';': "semicolon", '\t': "tab", '|': "pipe"}[delimiter]
		result.Warnings = append(result.Warnings, fmt.Sprintf("Detected %s delimiter", delimName))
	}

	res := ImportCSVFromReader(bytes.NewReader(data), delimiter)
	res.Warnings = append(result.Warnings, res.Warnings...)
	return res
}

// ImportCSVFromReader imports items from a CSV reader with a specific delimiter.
func ImportCSVFromReader(reader io.Reader, delimiter rune) ImportResult {
	csvReader := csv.NewReader(reader)
	csvReader.Comma = delimiter
	csvReader.LazyQuotes = true
	csvReader.FieldsPerRecord = -1

	records, err := csvReader.ReadAll()
	if err != nil {
		return ImportResult{Errors: []string{fmt.Sprintf("Cannot read CSV: %v", err)}}
	}

	return importFromRows(records, "Line", nil)
}

// ImportExcel imports items from an Excel (.xlsx) file.
// Reads the first sheet and auto-detects column mapping from headers.
func ImportExcel(path string) ImportResult {
	result := ImportResult{}

	f, err := excelize.OpenFile(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open Excel file: %v", err))
		return result
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		result.Errors = append(result.Errors, "Excel file has no sheets")
		return result
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read Excel data: %v", err))
		return result
	}

	return importFromRows(rows, "Row", nil)
}

// Import dispatches on the file extension: .xlsx/.xlsm go to ImportExcel,
// everything else is read as CSV.
func Import(path string) ImportResult {
	lower := strings.ToLower(path)
	if strings.HasSuffix(lower, ".xlsx") || strings.HasSuffix(lower, ".xlsm") {
		return ImportExcel(path)
	}
	return ImportCSV(path)
}

// importFromRows is the shared import logic for both CSV and Excel data.
func importFromRows(rows [][]string, rowPrefix string, initialWarnings []string) ImportResult {
	result := ImportResult{
		Warnings: initialWarnings,
	}

	if len(rows) == 0 {
		result.Errors = append(result.Errors, "No data rows found")
		return result
	}

	mapping, hasHeader := DetectColumns(rows[0])
	startRow := 0
	if hasHeader {
		startRow = 1
		result.Warnings = append(result.Warnings, "Detected header row, skipping")

		if mapping.Weight == -1 {
			result.Errors = append(result.Errors, "Required columns not found in header: Weight")
			return result
		}
	} else if len(rows[0]) > mapping.Weight {
		// An unrecognized header still has a non-numeric weight cell.
		if _, err := strconv.ParseFloat(strings.TrimSpace(rows[0][mapping.Weight]), 64); err != nil {
			startRow = 1
			result.Warnings = append(result.Warnings, "Detected header row, skipping")
		}
	}

	for i := startRow; i < len(rows); i++ {
		row := rows[i]
		if isEmptyRow(row) {
			continue
		}

		rowLabel := fmt.Sprintf("%s %d", rowPrefix, i+1)
		spec, errMsg, warnings := parseRow(row, mapping, rowLabel, len(result.Items))
		if errMsg != "" {
			result.Errors = append(result.Errors, errMsg)
			continue
		}
		result.Warnings = append(result.Warnings, warnings...)
		result.Items = append(result.Items, spec)
	}

	return result
}
