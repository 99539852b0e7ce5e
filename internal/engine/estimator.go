package engine

import (
	"fmt"
	"math"

	"github.com/google/uuid"
	"github.com/piwi3910/BoxPack/internal/model"
)

// DefaultScale is the estimator constant K used when none is configured.
const DefaultScale = 10.0

// Aspect ratios applied to the cube-root base when dimensions are estimated.
const (
	heightRatio = 0.8
	depthRatio  = 1.2
)

// Estimator derives bounding dimensions from an item's weight when the
// caller has no measured dimensions.
type Estimator struct {
	Scale float64
}

// NewEstimator returns an estimator using scale k. A non-positive k falls
// back to DefaultScale.
func NewEstimator(k float64) *Estimator {
	if !(k > 0) || math.IsInf(k, 0) {
		k = DefaultScale
	}
	return &Estimator{Scale: k}
}

// Estimate requires a finite, positive weight. It returns declared unchanged
// when all of its dimensions are finite and positive. Otherwise it computes
// base = Scale * cbrt(weight) and returns (base, 0.8*base, 1.2*base), each
// rounded to two decimals.
func (e *Estimator) Estimate(weight float64, declared model.Dims) (model.Dims, error) {
	if !(weight > 0) || math.IsInf(weight, 0) {
		return model.Dims{}, fmt.Errorf("failed to estimate dimensions for weight %v: %w", weight, ErrInvalidInput)
	}
	if declared.Valid() {
		return declared, nil
	}

	base := e.scale() * math.Cbrt(weight)
	return model.Dims{
		Width:  round2(base),
		Height: round2(base * heightRatio),
		Depth:  round2(base * depthRatio),
	}, nil
}

// EstimateItem turns a spec into a packable item, estimating dimensions where
// needed and assigning an id when the spec has none.
func (e *Estimator) EstimateItem(spec model.ItemSpec) (model.Item, error) {
	dims, err := e.Estimate(spec.Weight, spec.Declared)
	if err != nil {
		return model.Item{}, fmt.Errorf("item %q: %w", spec.Label, err)
	}

	id := spec.ID
	if id == "" {
		id = uuid.New().String()[:8]
	}
	return model.Item{
		ID:       id,
		Label:    spec.Label,
		Category: spec.Category,
		Width:    dims.Width,
		Height:   dims.Height,
		Depth:    dims.Depth,
		Weight:   spec.Weight,
		Shape:    spec.Shape,
	}, nil
}

// ExpandSpecs estimates every spec and repeats it Quantity times (at least
// once). Copies get "-2", "-3", ... appended to the id so ids stay unique.
func (e *Estimator) ExpandSpecs(specs []model.ItemSpec) ([]model.Item, error) {
	var items []model.Item
	for _, s := range specs {
		item, err := e.EstimateItem(s)
		if err != nil {
			return nil, err
		}
		n := s.Quantity
		if n < 1 {
			n = 1
		}
		for i := 0; i < n; i++ {
			cp := item
			if i > 0 {
				cp.ID = fmt.Sprintf("%s-%d", item.ID, i+1)
			}
			items = append(items, cp)
		}
	}
	return items, nil
}

func (e *Estimator) scale() float64 {
	if e == nil || !(e.Scale > 0) {
		return DefaultScale
	}
	return e.Scale
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
