package engine

import (
	"fmt"
	"sort"

	"github.com/piwi3910/BoxPack/internal/model"
)

// OrderingStrategy is a named way of pre-sorting items before packing. A nil
// Less keeps the caller's order.
type OrderingStrategy struct {
	Name string
	Less func(a, b model.Item) bool
}

// Apply returns a sorted copy of items. The sort is stable so equal items
// keep their relative order.
func (s OrderingStrategy) Apply(items []model.Item) []model.Item {
	out := append([]model.Item(nil), items...)
	if s.Less == nil {
		return out
	}
	sort.SliceStable(out, func(i, j int) bool {
		return s.Less(out[i], out[j])
	})
	return out
}

// ComparisonResult holds the packing result and summary figures for one
// ordering strategy.
type ComparisonResult struct {
	Strategy      string
	Result        model.PackingResult
	PlacedCount   int
	UnplacedCount int
	Utilization   float64
}

// CompareOrderings packs the same items once per strategy so the orderings
// can be compared side by side. Results follow the strategy order.
func CompareOrderings(container model.Container, items []model.Item, strategies []OrderingStrategy) ([]ComparisonResult, error) {
	results := make([]ComparisonResult, 0, len(strategies))

	for _, s := range strategies {
		result, err := Pack(container, s.Apply(items))
		if err != nil {
			return nil, fmt.Errorf("failed to pack with ordering %q: %w", s.Name, err)
		}
		results = append(results, ComparisonResult{
			Strategy:      s.Name,
			Result:        result,
			PlacedCount:   len(result.Placed),
			UnplacedCount: len(result.Unplaced),
			Utilization:   result.Utilization,
		})
	}

	return results, nil
}

// BestComparison returns the index of the result with the highest
// utilization, preferring the earlier strategy on ties. It returns -1 for an
// empty slice.
func BestComparison(results []ComparisonResult) int {
	best := -1
	for i, r := range results {
		if best < 0 || r.Utilization > results[best].Utilization+tolerance {
			best = i
		}
	}
	return best
}

// DefaultOrderings returns the built-in strategies. "As Given" always comes
// first so the caller's own order is the baseline.
func DefaultOrderings() []OrderingStrategy {
	return []OrderingStrategy{
		{Name: "As Given"},
		{Name: "Volume (largest first)", Less: func(a, b model.Item) bool {
			return a.BoundingDims().Volume() > b.BoundingDims().Volume()
		}},
		{Name: "Weight (heaviest first)", Less: func(a, b model.Item) bool {
			return a.Weight > b.Weight
		}},
		{Name: "Height (tallest first)", Less: func(a, b model.Item) bool {
			return a.BoundingDims().Height > b.BoundingDims().Height
		}},
		{Name: "Footprint (widest first)", Less: func(a, b model.Item) bool {
			da, db := a.BoundingDims(), b.BoundingDims()
			return da.Width*da.Depth > db.Width*db.Depth
		}},
	}
}
