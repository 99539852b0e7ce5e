package engine

import (
	"fmt"
	"math"

	"github.com/piwi3910/BoxPack/internal/model"
)

// DefaultReferenceUtilization is the practical packing ceiling the raw
// utilization is scaled against when the caller has no better figure.
const DefaultReferenceUtilization = 0.86

// Calculate derives display metrics from a packing result.
//
// The raw utilization is occupied/container volume. The scaled utilization
// multiplies it by reference, so a completely full container reads as the
// reference figure. Savings are the per-category rates from the table
// summed over placed items.
func Calculate(result model.PackingResult, reference float64, savings model.SavingsTable) (model.Metrics, error) {
	cv := result.ContainerVolume
	if !(cv > 0) || math.IsInf(cv, 0) {
		return model.Metrics{}, fmt.Errorf("container volume %v: %w", cv, ErrInvalidInput)
	}
	if math.IsNaN(reference) || reference < 0 || reference > 1 {
		return model.Metrics{}, fmt.Errorf("reference utilization %v: %w", reference, ErrInvalidInput)
	}

	m := model.Metrics{
		ContainerVolume: cv,
		Reference:       reference,
		PlacedCount:     len(result.Placed),
		UnplacedCount:   len(result.Unplaced),
	}
	for _, p := range result.Placed {
		m.OccupiedVolume += p.Volume()
		m.PlacedWeight += p.Weight

		rate := savings.Lookup(p.Category)
		m.CO2SavedKg += rate.CO2Kg
		m.PlasticSavedKg += rate.PlasticKg
	}

	m.RawUtilization = math.Min(math.Max(m.OccupiedVolume/cv, 0), 1)
	m.ScaledUtilization = m.RawUtilization * reference
	return m, nil
}
