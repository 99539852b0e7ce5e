package engine

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/piwi3910/BoxPack/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cube(id string, side, weight float64) model.Item {
	return model.Item{ID: id, Label: id, Width: side, Height: side, Depth: side, Weight: weight}
}

func overlaps(a, b model.PlacedItem) bool {
	am, bm := a.Max(), b.Max()
	const eps = 1e-9
	return a.Position.X < bm.X-eps && b.Position.X < am.X-eps &&
		a.Position.Y < bm.Y-eps && b.Position.Y < am.Y-eps &&
		a.Position.Z < bm.Z-eps && b.Position.Z < am.Z-eps
}

func randomItems(seed int64, n int) []model.Item {
	rng := rand.New(rand.NewSource(seed))
	items := make([]model.Item, n)
	for i := range items {
		items[i] = model.Item{
			ID:     string(rune('A'+i%26)) + string(rune('a'+i/26)),
			Width:  1 + float64(rng.Intn(12)),
			Height: 1 + float64(rng.Intn(12)),
			Depth:  1 + float64(rng.Intn(12)),
			Weight: 0.5 + rng.Float64()*3,
			Shape:  model.Shape(rng.Intn(3)),
		}
	}
	return items
}

// ─── Scenarios ──────────────────────────────────────────────

func TestPack_SingleItemAtOrigin(t *testing.T) {
	container := model.NewContainer("Box", 30, 30, 30)

	result, err := Pack(container, []model.Item{cube("a", 10, 5)})
	require.NoError(t, err)

	require.Len(t, result.Placed, 1)
	assert.Empty(t, result.Unplaced)
	assert.Equal(t, model.Vec3{}, result.Placed[0].Position)
	assert.Equal(t, 1000.0, result.OccupiedVolume)
	assert.Equal(t, 27000.0, result.ContainerVolume)
	assert.InDelta(t, 1000.0/27000.0, result.Utilization, 1e-12)
}

func TestPack_TooLarge(t *testing.T) {
	container := model.NewContainer("Box", 10, 10, 10)
	item := model.Item{ID: "long", Width: 20, Height: 5, Depth: 5, Weight: 1}

	result, err := Pack(container, []model.Item{item})
	require.NoError(t, err)

	assert.Empty(t, result.Placed)
	require.Len(t, result.Unplaced, 1)
	assert.Equal(t, model.ReasonTooLarge, result.Unplaced[0].Reason)
	assert.Equal(t, "long", result.Unplaced[0].ItemID)
}

func TestPack_WeightCap(t *testing.T) {
	container := model.NewContainer("Box", 10, 10, 10)
	container.MaxWeight = 5

	result, err := Pack(container, []model.Item{cube("a", 2, 3), cube("b", 2, 3)})
	require.NoError(t, err)

	require.Len(t, result.Placed, 1)
	assert.Equal(t, "a", result.Placed[0].ItemID)
	require.Len(t, result.Unplaced, 1)
	assert.Equal(t, model.ReasonCapacityExceeded, result.Unplaced[0].Reason)
	assert.Equal(t, 3.0, result.PlacedWeight)
}

func TestPack_WeightCapStopsLaterItems(t *testing.T) {
	container := model.NewContainer("Box", 10, 10, 10)
	container.MaxWeight = 5

	items := []model.Item{
		cube("a", 2, 3),
		cube("b", 2, 3),  // would reach 6
		cube("c", 2, 1),  // would fit the cap, still rejected
		cube("d", 20, 1), // keeps its own reason
		cube("e", 2, -1), // invalid
	}
	result, err := Pack(container, items)
	require.NoError(t, err)

	require.Len(t, result.Placed, 1)
	reasons := map[string]model.Reason{}
	for _, u := range result.Unplaced {
		reasons[u.ItemID] = u.Reason
	}
	assert.Equal(t, model.ReasonCapacityExceeded, reasons["b"])
	assert.Equal(t, model.ReasonCapacityExceeded, reasons["c"])
	assert.Equal(t, model.ReasonTooLarge, reasons["d"])
	assert.Equal(t, model.ReasonInvalidInput, reasons["e"])
}

func TestPack_WeightCapIgnoresItemsWithoutSpace(t *testing.T) {
	container := model.NewContainer("Box", 10, 10, 10)
	container.MaxWeight = 10

	slab := func(id string) model.Item {
		return model.Item{ID: id, Label: id, Width: 10, Height: 5, Depth: 10, Weight: 1}
	}
	items := []model.Item{
		slab("a"),
		cube("b", 10, 100), // no room left, must not trip the weight cap
		slab("c"),
	}
	result, err := Pack(container, items)
	require.NoError(t, err)

	require.Len(t, result.Placed, 2)
	assert.Equal(t, "a", result.Placed[0].ItemID)
	assert.Equal(t, "c", result.Placed[1].ItemID)
	assert.Equal(t, 5.0, result.Placed[1].Position.Y)
	require.Len(t, result.Unplaced, 1)
	assert.Equal(t, "b", result.Unplaced[0].ItemID)
	assert.Equal(t, model.ReasonCapacityExceeded, result.Unplaced[0].Reason)
	assert.Equal(t, 2.0, result.PlacedWeight)
}

func TestPack_ZeroMaxWeightMeansNoCap(t *testing.T) {
	container := model.NewContainer("Box", 10, 10, 10)

	result, err := Pack(container, []model.Item{cube("a", 2, 1000), cube("b", 2, 1000)})
	require.NoError(t, err)
	assert.Len(t, result.Placed, 2)
}

// ─── Placement Tests ────────────────────────────────────────

func TestPack_FillsBottomLayerFirst(t *testing.T) {
	container := model.NewContainer("Box", 10, 10, 10)
	var items []model.Item
	for i := 0; i < 8; i++ {
		items = append(items, cube(string(rune('a'+i)), 5, 1))
	}

	result, err := Pack(container, items)
	require.NoError(t, err)

	require.Len(t, result.Placed, 8)
	assert.Empty(t, result.Unplaced)
	for i := 0; i < 4; i++ {
		assert.Equal(t, 0.0, result.Placed[i].Position.Y, "item %d should be on the floor", i)
	}
	for i := 4; i < 8; i++ {
		assert.Equal(t, 5.0, result.Placed[i].Position.Y, "item %d should be on the second layer", i)
	}
	assert.InDelta(t, 1.0, result.Utilization, 1e-12)
}

func TestPack_LowestAnchorOrder(t *testing.T) {
	container := model.NewContainer("Box", 10, 10, 10)

	result, err := Pack(container, []model.Item{cube("a", 5, 1), cube("b", 5, 1), cube("c", 5, 1)})
	require.NoError(t, err)

	require.Len(t, result.Placed, 3)
	assert.Equal(t, model.Vec3{}, result.Placed[0].Position)
	assert.Equal(t, model.Vec3{X: 5}, result.Placed[1].Position)
	assert.Equal(t, model.Vec3{Z: 5}, result.Placed[2].Position)
}

func TestPack_NoSpaceLeft(t *testing.T) {
	container := model.NewContainer("Box", 10, 10, 10)

	result, err := Pack(container, []model.Item{cube("a", 10, 1), cube("b", 1, 1)})
	require.NoError(t, err)

	require.Len(t, result.Placed, 1)
	require.Len(t, result.Unplaced, 1)
	assert.Equal(t, model.ReasonCapacityExceeded, result.Unplaced[0].Reason)
}

func TestPack_CylinderUsesSquareFootprint(t *testing.T) {
	container := model.NewContainer("Box", 10, 10, 10)
	item := model.Item{ID: "cyl", Width: 4, Height: 3, Depth: 6, Weight: 1, Shape: model.ShapeCylinder}

	result, err := Pack(container, []model.Item{item})
	require.NoError(t, err)

	require.Len(t, result.Placed, 1)
	assert.Equal(t, model.Dims{Width: 6, Height: 3, Depth: 6}, result.Placed[0].Size)
	assert.Equal(t, 0, result.Placed[0].RotationIndex)
}

func TestPack_SphereTooLargeByFootprint(t *testing.T) {
	container := model.NewContainer("Box", 10, 10, 5)
	item := model.Item{ID: "ball", Width: 6, Height: 4, Depth: 4, Weight: 1, Shape: model.ShapeSphere}

	result, err := Pack(container, []model.Item{item})
	require.NoError(t, err)

	require.Len(t, result.Unplaced, 1)
	assert.Equal(t, model.ReasonTooLarge, result.Unplaced[0].Reason)
}

func TestPack_BoxIsNotRotated(t *testing.T) {
	container := model.NewContainer("Box", 10, 5, 10)
	item := model.Item{ID: "tall", Width: 5, Height: 8, Depth: 5, Weight: 1}

	result, err := Pack(container, []model.Item{item})
	require.NoError(t, err)

	require.Len(t, result.Unplaced, 1)
	assert.Equal(t, model.ReasonTooLarge, result.Unplaced[0].Reason)
}

func TestPack_ExactFit(t *testing.T) {
	container := model.NewContainer("Box", 10, 10, 10)

	result, err := Pack(container, []model.Item{cube("a", 10, 1)})
	require.NoError(t, err)
	assert.Len(t, result.Placed, 1)
}

// ─── Validation Tests ───────────────────────────────────────

func TestPack_InvalidItems(t *testing.T) {
	container := model.NewContainer("Box", 10, 10, 10)
	items := []model.Item{
		{ID: "zero", Width: 0, Height: 1, Depth: 1, Weight: 1},
		{ID: "neg", Width: 1, Height: -1, Depth: 1, Weight: 1},
		{ID: "nan", Width: 1, Height: 1, Depth: math.NaN(), Weight: 1},
		{ID: "inf", Width: math.Inf(1), Height: 1, Depth: 1, Weight: 1},
		{ID: "noweight", Width: 1, Height: 1, Depth: 1},
		{ID: "", Width: 1, Height: 1, Depth: 1, Weight: 1},
	}

	result, err := Pack(container, items)
	require.NoError(t, err)

	assert.Empty(t, result.Placed)
	require.Len(t, result.Unplaced, len(items))
	for _, u := range result.Unplaced {
		assert.Equal(t, model.ReasonInvalidInput, u.Reason, "item %q", u.ItemID)
	}
}

func TestPack_DuplicateID(t *testing.T) {
	container := model.NewContainer("Box", 10, 10, 10)

	result, err := Pack(container, []model.Item{cube("a", 2, 1), cube("a", 2, 1)})
	require.NoError(t, err)

	require.Len(t, result.Placed, 1)
	require.Len(t, result.Unplaced, 1)
	assert.Equal(t, model.ReasonInvalidInput, result.Unplaced[0].Reason)
}

func TestPack_InvalidOutranksTooLarge(t *testing.T) {
	container := model.NewContainer("Box", 10, 10, 10)
	item := model.Item{ID: "x", Width: 20, Height: 1, Depth: 1, Weight: 0}

	result, err := Pack(container, []model.Item{item})
	require.NoError(t, err)

	require.Len(t, result.Unplaced, 1)
	assert.Equal(t, model.ReasonInvalidInput, result.Unplaced[0].Reason)
}

func TestPack_InvalidContainer(t *testing.T) {
	for _, c := range []model.Container{
		model.NewContainer("zero", 0, 10, 10),
		model.NewContainer("neg", 10, -1, 10),
		model.NewContainer("nan", 10, 10, math.NaN()),
		model.NewContainer("inf", math.Inf(1), 10, 10),
	} {
		_, err := Pack(c, []model.Item{cube("a", 1, 1)})
		assert.True(t, errors.Is(err, ErrInvalidContainer), "container %s", c.Label)
		assert.True(t, errors.Is(err, ErrInvalidInput), "container %s", c.Label)
	}
}

func TestPack_EmptyItems(t *testing.T) {
	result, err := Pack(model.NewContainer("Box", 10, 10, 10), nil)
	require.NoError(t, err)

	assert.Empty(t, result.Placed)
	assert.Empty(t, result.Unplaced)
	assert.Equal(t, 0.0, result.Utilization)
}

// ─── Property Tests ─────────────────────────────────────────

func TestPack_Deterministic(t *testing.T) {
	container := model.NewContainer("Box", 30, 25, 20)
	items := randomItems(7, 60)

	first, err := Pack(container, items)
	require.NoError(t, err)
	second, err := Pack(container, items)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestPack_Invariants(t *testing.T) {
	container := model.NewContainer("Box", 30, 25, 20)

	for seed := int64(1); seed <= 5; seed++ {
		items := randomItems(seed, 80)
		result, err := Pack(container, items)
		require.NoError(t, err)

		// Every item is accounted for exactly once.
		assert.Equal(t, len(items), len(result.Placed)+len(result.Unplaced))

		for i, a := range result.Placed {
			m := a.Max()
			assert.GreaterOrEqual(t, a.Position.X, 0.0)
			assert.GreaterOrEqual(t, a.Position.Y, 0.0)
			assert.GreaterOrEqual(t, a.Position.Z, 0.0)
			assert.LessOrEqual(t, m.X, container.Width+1e-6)
			assert.LessOrEqual(t, m.Y, container.Height+1e-6)
			assert.LessOrEqual(t, m.Z, container.Depth+1e-6)

			for _, b := range result.Placed[i+1:] {
				assert.False(t, overlaps(a, b), "seed %d: %s overlaps %s", seed, a.ItemID, b.ItemID)
			}
		}

		assert.LessOrEqual(t, result.OccupiedVolume, result.ContainerVolume+1e-6)
	}
}

func TestPack_TooLargeAlwaysReported(t *testing.T) {
	container := model.NewContainer("Box", 10, 10, 10)
	items := append(randomItems(3, 30), model.Item{ID: "huge", Width: 11, Height: 1, Depth: 1, Weight: 1})

	result, err := Pack(container, items)
	require.NoError(t, err)

	found := false
	for _, u := range result.Unplaced {
		if u.ItemID == "huge" {
			found = true
			assert.Equal(t, model.ReasonTooLarge, u.Reason)
		}
	}
	assert.True(t, found)
}

func TestPack_KeepsCallerOrder(t *testing.T) {
	container := model.NewContainer("Box", 10, 10, 10)
	items := []model.Item{cube("small", 2, 1), cube("big", 8, 1)}

	result, err := Pack(container, items)
	require.NoError(t, err)

	require.Len(t, result.Placed, 2)
	assert.Equal(t, "small", result.Placed[0].ItemID)
	assert.Equal(t, model.Vec3{}, result.Placed[0].Position)
}

func BenchmarkPack(b *testing.B) {
	container := model.NewContainer("Box", 60, 60, 60)
	items := randomItems(11, 200)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = Pack(container, items)
	}
}
