package engine

import (
	"testing"

	"github.com/piwi3910/BoxPack/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func placedAtHeights(ys ...float64) model.PackingResult {
	var r model.PackingResult
	for i, y := range ys {
		r.Placed = append(r.Placed, model.PlacedItem{
			ItemID:   string(rune('a' + i)),
			Position: model.Vec3{Y: y},
			Size:     model.Dims{Width: 1, Height: 1, Depth: 1},
		})
	}
	return r
}

func stagesByID(r model.PackingResult) map[string]int {
	m := make(map[string]int, len(r.Placed))
	for _, p := range r.Placed {
		m[p.ItemID] = p.Stage
	}
	return m
}

func TestSequence_NineItemsThreeWaves(t *testing.T) {
	in := placedAtHeights(10, 0, 5, 0, 10, 5, 0, 5, 10)

	out, err := Sequence(in, 3)
	require.NoError(t, err)

	stages := stagesByID(out)
	for _, id := range []string{"b", "d", "g"} {
		assert.Equal(t, 0, stages[id], id)
	}
	for _, id := range []string{"c", "f", "h"} {
		assert.Equal(t, 1, stages[id], id)
	}
	for _, id := range []string{"a", "e", "i"} {
		assert.Equal(t, 2, stages[id], id)
	}
	assert.Equal(t, 3, out.StageCount())
}

func TestSequence_FrontLoadsRemainder(t *testing.T) {
	in := placedAtHeights(0, 1, 2, 3, 4, 5, 6, 7, 8, 9)

	out, err := Sequence(in, 3)
	require.NoError(t, err)

	groups := Stages(out)
	require.Len(t, groups, 3)
	assert.Len(t, groups[0], 4)
	assert.Len(t, groups[1], 3)
	assert.Len(t, groups[2], 3)
}

func TestSequence_FewerItemsThanWaves(t *testing.T) {
	out, err := Sequence(placedAtHeights(0, 5), 4)
	require.NoError(t, err)

	stages := stagesByID(out)
	assert.Equal(t, 0, stages["a"])
	assert.Equal(t, 1, stages["b"])
	assert.Equal(t, 2, out.StageCount())
}

func TestSequence_TiesKeepPlacementOrder(t *testing.T) {
	out, err := Sequence(placedAtHeights(0, 0, 0, 0), 2)
	require.NoError(t, err)

	stages := stagesByID(out)
	assert.Equal(t, 0, stages["a"])
	assert.Equal(t, 0, stages["b"])
	assert.Equal(t, 1, stages["c"])
	assert.Equal(t, 1, stages["d"])
}

func TestSequence_DoesNotModifyInput(t *testing.T) {
	in := placedAtHeights(5, 0, 5)

	out, err := Sequence(in, 3)
	require.NoError(t, err)

	for _, p := range in.Placed {
		assert.Equal(t, 0, p.Stage)
	}
	// Placement order and positions are preserved.
	for i := range in.Placed {
		assert.Equal(t, in.Placed[i].ItemID, out.Placed[i].ItemID)
		assert.Equal(t, in.Placed[i].Position, out.Placed[i].Position)
	}
}

func TestSequence_InvalidWaveCount(t *testing.T) {
	_, err := Sequence(placedAtHeights(0), 0)
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = Sequence(placedAtHeights(0), -2)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestSequence_Empty(t *testing.T) {
	out, err := Sequence(model.PackingResult{}, 3)
	require.NoError(t, err)
	assert.Empty(t, out.Placed)
	assert.Empty(t, Stages(out))
}

func TestStages_PresentationOrder(t *testing.T) {
	in := placedAtHeights(3, 1, 2)

	out, err := Sequence(in, 1)
	require.NoError(t, err)

	groups := Stages(out)
	require.Len(t, groups, 1)
	require.Len(t, groups[0], 3)
	assert.Equal(t, "b", groups[0][0].ItemID)
	assert.Equal(t, "c", groups[0][1].ItemID)
	assert.Equal(t, "a", groups[0][2].ItemID)
}

func TestSequence_AfterPack(t *testing.T) {
	container := model.NewContainer("Box", 10, 10, 10)
	var items []model.Item
	for i := 0; i < 8; i++ {
		items = append(items, cube(string(rune('a'+i)), 5, 1))
	}
	packed, err := Pack(container, items)
	require.NoError(t, err)

	out, err := Sequence(packed, 2)
	require.NoError(t, err)

	for _, p := range out.Placed {
		if p.Position.Y == 0 {
			assert.Equal(t, 0, p.Stage, p.ItemID)
		} else {
			assert.Equal(t, 1, p.Stage, p.ItemID)
		}
	}
}
