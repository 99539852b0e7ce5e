package engine

import (
	"fmt"
	"math"
	"sort"

	"github.com/piwi3910/BoxPack/internal/model"
)

// tolerance absorbs floating-point noise in bound and overlap checks.
const tolerance = 1e-6

// Pack places items into the container in the order given. The order is
// never changed here; callers that want a different ordering sort first
// (see CompareOrderings and SearchOrdering).
//
// Every item either ends up in Placed or in Unplaced with a reason. Only an
// unusable container is reported as an error.
//
// Each placement scans the anchor frontier and checks every candidate
// against all earlier placements, so cost grows quadratically with the item
// count. That is fine for order-sized inputs (tens to a few hundred items)
// and is the limit of this packer.
func Pack(container model.Container, items []model.Item) (model.PackingResult, error) {
	if !container.Valid() {
		return model.PackingResult{}, fmt.Errorf("%w: %gx%gx%g", ErrInvalidContainer,
			container.Width, container.Height, container.Depth)
	}

	result := model.PackingResult{
		Container:       container,
		ContainerVolume: container.Volume(),
	}

	ap := newAnchorPacker(container.Dims())
	seen := make(map[string]bool, len(items))
	weightStopped := false

	for _, item := range items {
		reject := func(r model.Reason) {
			result.Unplaced = append(result.Unplaced, model.UnplacedItem{
				ItemID: item.ID,
				Label:  item.Label,
				Reason: r,
			})
		}

		if !validItem(item) || seen[item.ID] {
			reject(model.ReasonInvalidInput)
			continue
		}
		seen[item.ID] = true

		orientations := item.Orientations()
		if !fitsAny(orientations, container.Dims()) {
			reject(model.ReasonTooLarge)
			continue
		}
		if weightStopped {
			reject(model.ReasonCapacityExceeded)
			continue
		}

		pos, rot, ok := ap.find(orientations)
		if !ok {
			reject(model.ReasonCapacityExceeded)
			continue
		}
		// The weight cap only applies to items that have space; once it
		// trips, nothing later is placed.
		if container.MaxWeight > 0 && result.PlacedWeight+item.Weight > container.MaxWeight+tolerance {
			weightStopped = true
			reject(model.ReasonCapacityExceeded)
			continue
		}

		size := orientations[rot]
		ap.commit(pos, size)
		result.Placed = append(result.Placed, model.PlacedItem{
			ItemID:        item.ID,
			Label:         item.Label,
			Category:      item.Category,
			Shape:         item.Shape,
			Position:      pos,
			Size:          size,
			Weight:        item.Weight,
			RotationIndex: rot,
		})
		result.OccupiedVolume += size.Volume()
		result.PlacedWeight += item.Weight
	}

	result.Utilization = result.OccupiedVolume / result.ContainerVolume
	return result, nil
}

func validItem(item model.Item) bool {
	if item.ID == "" || !item.Dims().Valid() {
		return false
	}
	return item.Weight > 0 && !math.IsInf(item.Weight, 0)
}

func fitsAny(orientations []model.Dims, bounds model.Dims) bool {
	for _, o := range orientations {
		if o.Width <= bounds.Width+tolerance &&
			o.Height <= bounds.Height+tolerance &&
			o.Depth <= bounds.Depth+tolerance {
			return true
		}
	}
	return false
}

// ─── Anchor frontier ────────────────────────────────────────

// cuboid is an occupied axis-aligned region.
type cuboid struct {
	min, max model.Vec3
}

func (c cuboid) overlaps(o cuboid) bool {
	return c.min.X < o.max.X-tolerance && o.min.X < c.max.X-tolerance &&
		c.min.Y < o.max.Y-tolerance && o.min.Y < c.max.Y-tolerance &&
		c.min.Z < o.max.Z-tolerance && o.min.Z < c.max.Z-tolerance
}

// contains reports whether p lies strictly inside c.
func (c cuboid) contains(p model.Vec3) bool {
	return p.X > c.min.X+tolerance && p.X < c.max.X-tolerance &&
		p.Y > c.min.Y+tolerance && p.Y < c.max.Y-tolerance &&
		p.Z > c.min.Z+tolerance && p.Z < c.max.Z-tolerance
}

// anchorPacker keeps candidate corner points sorted by (y, z, x). Placing a
// box at an anchor adds three new anchors at its far faces.
type anchorPacker struct {
	bounds  model.Dims
	placed  []cuboid
	anchors []model.Vec3
}

func newAnchorPacker(bounds model.Dims) *anchorPacker {
	return &anchorPacker{
		bounds:  bounds,
		anchors: []model.Vec3{{}},
	}
}

// find returns the first anchor, in frontier order, where one of the
// orientations fits without leaving the container or overlapping an
// earlier placement.
func (ap *anchorPacker) find(orientations []model.Dims) (model.Vec3, int, bool) {
	for _, a := range ap.anchors {
		for rot, d := range orientations {
			if ap.fits(a, d) {
				return a, rot, true
			}
		}
	}
	return model.Vec3{}, 0, false
}

func (ap *anchorPacker) fits(at model.Vec3, d model.Dims) bool {
	if at.X+d.Width > ap.bounds.Width+tolerance ||
		at.Y+d.Height > ap.bounds.Height+tolerance ||
		at.Z+d.Depth > ap.bounds.Depth+tolerance {
		return false
	}
	c := cuboid{min: at, max: model.Vec3{X: at.X + d.Width, Y: at.Y + d.Height, Z: at.Z + d.Depth}}
	for _, p := range ap.placed {
		if c.overlaps(p) {
			return false
		}
	}
	return true
}

func (ap *anchorPacker) commit(at model.Vec3, d model.Dims) {
	c := cuboid{min: at, max: model.Vec3{X: at.X + d.Width, Y: at.Y + d.Height, Z: at.Z + d.Depth}}
	ap.placed = append(ap.placed, c)

	next := make([]model.Vec3, 0, len(ap.anchors)+3)
	for _, a := range ap.anchors {
		if a == at || c.contains(a) {
			continue
		}
		next = append(next, a)
	}
	for _, a := range []model.Vec3{
		{X: c.max.X, Y: at.Y, Z: at.Z},
		{X: at.X, Y: c.max.Y, Z: at.Z},
		{X: at.X, Y: at.Y, Z: c.max.Z},
	} {
		if ap.inside(a) {
			next = append(next, a)
		}
	}
	ap.anchors = sortAnchors(next)
}

// inside reports whether an anchor leaves room for a box of any size.
func (ap *anchorPacker) inside(a model.Vec3) bool {
	return a.X < ap.bounds.Width-tolerance &&
		a.Y < ap.bounds.Height-tolerance &&
		a.Z < ap.bounds.Depth-tolerance
}

// sortAnchors orders anchors by y, then z, then x and drops duplicates.
func sortAnchors(anchors []model.Vec3) []model.Vec3 {
	sort.SliceStable(anchors, func(i, j int) bool {
		a, b := anchors[i], anchors[j]
		if a.Y != b.Y {
			return a.Y < b.Y
		}
		if a.Z != b.Z {
			return a.Z < b.Z
		}
		return a.X < b.X
	})

	out := anchors[:0]
	for i, a := range anchors {
		if i > 0 && samePoint(a, out[len(out)-1]) {
			continue
		}
		out = append(out, a)
	}
	return out
}

func samePoint(a, b model.Vec3) bool {
	return math.Abs(a.X-b.X) <= tolerance &&
		math.Abs(a.Y-b.Y) <= tolerance &&
		math.Abs(a.Z-b.Z) <= tolerance
}
