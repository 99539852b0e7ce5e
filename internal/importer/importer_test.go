package importer

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/piwi3910/BoxPack/internal/model"
	"github.com/xuri/excelize/v2"
)

// ─── DetectCSVDelimiter Tests ──────────────────────────────

func TestDetectCSVDelimiter(t *testing.T) {
	cases := map[rune]string{
		',':  "Label,Weight,Qty\nMug,0.4,2\nLamp,2.5,1\n",
		';':  "Label;Weight;Qty\nMug;0.4;2\nLamp;2.5;1\n",
		'\t': "Label\tWeight\tQty\nMug\t0.4\t2\nLamp\t2.5\t1\n",
		'|':  "Label|Weight|Qty\nMug|0.4|2\nLamp|2.5|1\n",
	}
	for want, data := range cases {
		if got := DetectCSVDelimiter([]byte(data)); got != want {
			t.Errorf("expected %q delimiter, got %q", want, got)
		}
	}
}

// ─── DetectColumns Tests ───────────────────────────────────

func TestDetectColumns_StandardHeaders(t *testing.T) {
	row := []string{"Label", "Width", "Height", "Depth", "Weight", "Quantity", "Shape", "Category"}
	mapping, isHeader := DetectColumns(row)

	if !isHeader {
		t.Fatal("expected header to be detected")
	}
	want := ColumnMapping{0, 1, 2, 3, 4, 5, 6, 7}
	if mapping != want {
		t.Errorf("expected %+v, got %+v", want, mapping)
	}
}

func TestDetectColumns_AliasesAndOrder(t *testing.T) {
	row := []string{"QTY", "Product", "WT", "Dept", "Form"}
	mapping, isHeader := DetectColumns(row)

	if !isHeader {
		t.Fatal("expected header to be detected")
	}
	if mapping.Quantity != 0 || mapping.Label != 1 || mapping.Weight != 2 || mapping.Category != 3 || mapping.Shape != 4 {
		t.Errorf("unexpected mapping %+v", mapping)
	}
	if mapping.Width != -1 || mapping.Height != -1 || mapping.Depth != -1 {
		t.Errorf("dimension columns should be absent, got %+v", mapping)
	}
}

func TestDetectColumns_NoHeader(t *testing.T) {
	mapping, isHeader := DetectColumns([]string{"Mug", "8", "10", "8", "0.4", "2"})

	if isHeader {
		t.Error("numeric row should not be detected as header")
	}
	if mapping != positionalMapping {
		t.Errorf("expected positional mapping, got %+v", mapping)
	}
}

// ─── ImportCSVFromReader Tests ─────────────────────────────

func TestImportCSVFromReader_WithHeaders(t *testing.T) {
	data := "Label,Width,Height,Depth,Weight,Quantity,Shape,Category\n" +
		"Mug,8,10,8,0.4,2,cylinder,Kitchen\n" +
		"Lamp,,,,2.5,1,,Home\n"

	result := ImportCSVFromReader(strings.NewReader(data), ',')

	if len(result.Errors) > 0 {
		t.Fatalf("unexpected errors: %v", result.Errors)
	}
	if len(result.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(result.Items))
	}

	mug := result.Items[0]
	if mug.Label != "Mug" || mug.Category != "Kitchen" || mug.Quantity != 2 {
		t.Errorf("unexpected mug %+v", mug)
	}
	if mug.Shape != model.ShapeCylinder {
		t.Errorf("expected cylinder, got %v", mug.Shape)
	}
	if mug.Declared != (model.Dims{Width: 8, Height: 10, Depth: 8}) {
		t.Errorf("unexpected mug dims %+v", mug.Declared)
	}

	lamp := result.Items[1]
	if lamp.Declared.Declared() {
		t.Errorf("lamp dims should be left for estimation, got %+v", lamp.Declared)
	}
	if lamp.Weight != 2.5 {
		t.Errorf("expected weight 2.5, got %f", lamp.Weight)
	}
}

func TestImportCSVFromReader_WithoutHeaders(t *testing.T) {
	data := "Mug,8,10,8,0.4,2\nLamp,20,30,20,2.5,1\n"
	result := ImportCSVFromReader(strings.NewReader(data), ',')

	if len(result.Items) != 2 {
		t.Fatalf("expected 2 items, got %d (errors: %v)", len(result.Items), result.Errors)
	}
	if result.Items[1].Declared.Height != 30 {
		t.Errorf("expected height 30, got %f", result.Items[1].Declared.Height)
	}
}

func TestImportCSVFromReader_UnknownHeaderSkipped(t *testing.T) {
	data := "Thing,A,B,C,Mass?,N\nMug,8,10,8,0.4,2\n"
	result := ImportCSVFromReader(strings.NewReader(data), ',')

	if len(result.Items) != 1 {
		t.Fatalf("expected 1 item, got %d (errors: %v)", len(result.Items), result.Errors)
	}
}

func TestImportCSVFromReader_QuantityDefaultsToOne(t *testing.T) {
	result := ImportCSVFromReader(strings.NewReader("Name,Weight\nBook,1.2\n"), ',')

	if len(result.Items) != 1 {
		t.Fatalf("expected 1 item, got %d (errors: %v)", len(result.Items), result.Errors)
	}
	if result.Items[0].Quantity != 1 {
		t.Errorf("expected quantity 1, got %d", result.Items[0].Quantity)
	}
}

func TestImportCSVFromReader_PartialDimsWarn(t *testing.T) {
	result := ImportCSVFromReader(strings.NewReader("Name,Width,Weight\nBook,20,1.2\n"), ',')

	if len(result.Items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(result.Items))
	}
	if result.Items[0].Declared != (model.Dims{}) {
		t.Errorf("partial dims should be cleared, got %+v", result.Items[0].Declared)
	}
	found := false
	for _, w := range result.Warnings {
		if strings.Contains(w, "Incomplete dimensions") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected incomplete-dimensions warning, got %v", result.Warnings)
	}
}

func TestImportCSVFromReader_RowErrors(t *testing.T) {
	cases := map[string]string{
		"missing weight":   "Name,Weight\nBook,\n",
		"invalid weight":   "Name,Weight\nBook,heavy\n",
		"zero weight":      "Name,Weight\nBook,0\n",
		"invalid width":    "Name,Width,Height,Depth,Weight\nBook,abc,1,1,1\n",
		"negative depth":   "Name,Width,Height,Depth,Weight\nBook,1,1,-1,1\n",
		"invalid quantity": "Name,Weight,Qty\nBook,1,two\n",
		"zero quantity":    "Name,Weight,Qty\nBook,1,0\n",
	}
	for name, data := range cases {
		result := ImportCSVFromReader(strings.NewReader(data), ',')
		if len(result.Errors) != 1 {
			t.Errorf("%s: expected 1 error, got %v", name, result.Errors)
		}
		if len(result.Items) != 0 {
			t.Errorf("%s: expected no items, got %d", name, len(result.Items))
		}
	}
}

func TestImportCSVFromReader_MissingWeightColumn(t *testing.T) {
	result := ImportCSVFromReader(strings.NewReader("Name,Width,Height,Depth\nBook,1,1,1\n"), ',')

	if len(result.Errors) != 1 || !strings.Contains(result.Errors[0], "Weight") {
		t.Errorf("expected missing Weight column error, got %v", result.Errors)
	}
}

func TestImportCSVFromReader_MixedValidAndInvalid(t *testing.T) {
	data := "Name,Weight\nBook,1\nBad,x\nPen,0.1\n"
	result := ImportCSVFromReader(strings.NewReader(data), ',')

	if len(result.Items) != 2 {
		t.Errorf("expected 2 items, got %d", len(result.Items))
	}
	if len(result.Errors) != 1 || !strings.Contains(result.Errors[0], "Line 3") {
		t.Errorf("expected one error on Line 3, got %v", result.Errors)
	}
}

func TestImportCSVFromReader_EmptyRowsAndLabels(t *testing.T) {
	data := "Name,Weight\n,1\n\n,,\n,2\n"
	result := ImportCSVFromReader(strings.NewReader(data), ',')

	if len(result.Items) != 2 {
		t.Fatalf("expected 2 items, got %d (errors: %v)", len(result.Items), result.Errors)
	}
	if result.Items[0].Label != "Item 1" || result.Items[1].Label != "Item 2" {
		t.Errorf("expected generated labels, got %q and %q", result.Items[0].Label, result.Items[1].Label)
	}
}

func TestImportCSVFromReader_UnknownShape(t *testing.T) {
	result := ImportCSVFromReader(strings.NewReader("Name,Weight,Shape\nCone,1,cone\n"), ',')

	if len(result.Items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(result.Items))
	}
	if result.Items[0].Shape != model.ShapeBox {
		t.Errorf("expected Box fallback, got %v", result.Items[0].Shape)
	}
	if len(result.Warnings) < 2 {
		t.Errorf("expected header and shape warnings, got %v", result.Warnings)
	}
}

func TestImportCSVFromReader_Empty(t *testing.T) {
	result := ImportCSVFromReader(strings.NewReader(""), ',')
	if len(result.Errors) == 0 {
		t.Error("expected error for empty input")
	}
}

// ─── ImportCSV File Tests ──────────────────────────────────

func TestImportCSV_SemicolonFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "items.csv")
	data := "Name;Weight;Qty\nMug;0,4;2\nLamp;2.5;1\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	result := ImportCSV(path)

	if len(result.Items) != 1 {
		t.Errorf("expected 1 valid item (comma decimal rejected), got %d", len(result.Items))
	}
	if len(result.Warnings) == 0 || !strings.Contains(result.Warnings[0], "semicolon") {
		t.Errorf("expected semicolon warning, got %v", result.Warnings)
	}
}

func TestImportCSV_FileNotFound(t *testing.T) {
	result := ImportCSV(filepath.Join(t.TempDir(), "missing.csv"))
	if len(result.Errors) == 0 {
		t.Error("expected error for missing file")
	}
}

func TestImportCSV_EmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.csv")
	if err := os.WriteFile(path, []byte("  \n"), 0644); err != nil {
		t.Fatal(err)
	}
	if result := ImportCSV(path); len(result.Errors) == 0 {
		t.Error("expected error for empty file")
	}
}

// ─── Excel Import Tests ────────────────────────────────────

func createTestExcel(t *testing.T, rows [][]interface{}) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "items.xlsx")

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	for i, row := range rows {
		for j, cell := range row {
			cellRef, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				t.Fatalf("failed to create cell reference: %v", err)
			}
			if err := f.SetCellValue(sheet, cellRef, cell); err != nil {
				t.Fatalf("failed to set cell value: %v", err)
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		t.Fatalf("failed to save Excel file: %v", err)
	}
	return path
}

func TestImportExcel_WithHeaders(t *testing.T) {
	path := createTestExcel(t, [][]interface{}{
		{"Item", "Weight", "Qty", "Category"},
		{"Headphones", 0.3, 1, "Electronics"},
		{"Novel", 0.5, 3, "Books"},
	})

	result := Import(path)

	if len(result.Errors) > 0 {
		t.Errorf("unexpected errors: %v", result.Errors)
	}
	if len(result.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(result.Items))
	}
	if result.Items[1].Label != "Novel" || result.Items[1].Quantity != 3 {
		t.Errorf("unexpected item %+v", result.Items[1])
	}
	if result.Items[0].Category != "Electronics" {
		t.Errorf("expected Electronics, got %q", result.Items[0].Category)
	}
}

func TestImportExcel_WithoutHeaders(t *testing.T) {
	path := createTestExcel(t, [][]interface{}{
		{"Mug", 8, 10, 8, 0.4, 2},
		{"Lamp", 20, 30, 20, 2.5, 1},
	})

	result := ImportExcel(path)

	if len(result.Items) != 2 {
		t.Fatalf("expected 2 items, got %d (errors: %v)", len(result.Items), result.Errors)
	}
}

func TestImportExcel_InvalidData(t *testing.T) {
	path := createTestExcel(t, [][]interface{}{
		{"Name", "Weight"},
		{"Mug", "abc"},
	})

	if result := ImportExcel(path); len(result.Errors) == 0 {
		t.Error("expected error for invalid weight")
	}
}

func TestImportExcel_FileNotFound(t *testing.T) {
	if result := ImportExcel("/nonexistent/file.xlsx"); len(result.Errors) == 0 {
		t.Error("expected error for nonexistent file")
	}
}
