package engine

import (
	"fmt"
	"sort"

	"github.com/piwi3910/BoxPack/internal/model"
)

// Sequence assigns every placed item to one of waveCount stages for staged
// presentation. Items are ranked by ascending y, ties keeping placement
// order, and split into consecutive groups. When the count does not divide
// evenly the first n%waveCount stages get one extra item.
//
// The input is not modified; positions and the order of Placed are kept.
func Sequence(result model.PackingResult, waveCount int) (model.PackingResult, error) {
	if waveCount < 1 {
		return model.PackingResult{}, fmt.Errorf("wave count %d: %w", waveCount, ErrInvalidInput)
	}

	out := result.Clone()
	order := presentationOrder(out.Placed)

	n := len(order)
	base, extra := n/waveCount, n%waveCount
	next := 0
	for stage := 0; stage < waveCount && next < n; stage++ {
		size := base
		if stage < extra {
			size++
		}
		for k := 0; k < size; k++ {
			out.Placed[order[next]].Stage = stage
			next++
		}
	}
	return out, nil
}

// Stages groups placed items by stage, each group in presentation order.
// Empty stages below the highest used stage are returned as empty groups.
func Stages(result model.PackingResult) [][]model.PlacedItem {
	groups := make([][]model.PlacedItem, result.StageCount())
	for _, idx := range presentationOrder(result.Placed) {
		p := result.Placed[idx]
		if p.Stage < 0 {
			continue
		}
		groups[p.Stage] = append(groups[p.Stage], p)
	}
	return groups
}

// presentationOrder returns indices into placed sorted by y, ties by index.
func presentationOrder(placed []model.PlacedItem) []int {
	order := make([]int, len(placed))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return placed[order[a]].Position.Y < placed[order[b]].Position.Y
	})
	return order
}
