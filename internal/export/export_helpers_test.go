package export

import (
	"fmt"
	"os"
	"testing"

	"github.com/piwi3910/BoxPack/internal/engine"
	"github.com/piwi3910/BoxPack/internal/model"
)

// buildTestReport packs a realistic mix of boxes into a 30x30x30 container
// and sequences it into three stages.
func buildTestReport(t *testing.T, n int) Report {
	t.Helper()
	container := model.NewContainer("Medium", 30, 30, 30)
	var items []model.Item
	for i := 0; i < n; i++ {
		items = append(items, model.Item{
			ID:     fmt.Sprintf("item-%d", i),
			Label:  fmt.Sprintf("Item %d", i+1),
			Width:  10,
			Height: 8,
			Depth:  12,
			Weight: 1,
		})
	}
	items = append(items, model.Item{ID: "huge", Label: "Huge", Width: 50, Height: 5, Depth: 5, Weight: 1})

	res, err := engine.Pack(container, items)
	if err != nil {
		t.Fatalf("Pack failed: %v", err)
	}
	res, err = engine.Sequence(res, 3)
	if err != nil {
		t.Fatalf("Sequence failed: %v", err)
	}
	m, err := engine.Calculate(res, engine.DefaultReferenceUtilization, model.SavingsTable{"": {CO2Kg: 0.2, PlasticKg: 0.46}})
	if err != nil {
		t.Fatalf("Calculate failed: %v", err)
	}
	return Report{Title: "order-42", Result: res, Metrics: m}
}

func requireNonEmptyFile(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("file was not created: %v", err)
	}
	if info.Size() == 0 {
		t.Fatal("file is empty")
	}
}
