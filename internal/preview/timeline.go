package preview

import (
	"math"
	"math/rand"
	"time"

	"github.com/piwi3910/BoxPack/internal/model"
)

// DefaultStageDuration is how long one stage takes to drop in.
const DefaultStageDuration = 500 * time.Millisecond

// Timeline plays the stages of a sequenced result one after another. Each
// stage drops from Lift above its resting height with an ease-out curve.
type Timeline struct {
	Stages        int
	StageDuration time.Duration
	Lift          float64
}

// NewTimeline builds a timeline for result. Lift defaults to the container
// height.
func NewTimeline(result model.PackingResult, stageDuration time.Duration) Timeline {
	if stageDuration <= 0 {
		stageDuration = DefaultStageDuration
	}
	return Timeline{
		Stages:        result.StageCount(),
		StageDuration: stageDuration,
		Lift:          result.Container.Height,
	}
}

// Duration is the time until the last stage has landed.
func (tl Timeline) Duration() time.Duration {
	return time.Duration(tl.Stages) * tl.StageDuration
}

// Progress returns how far stage has dropped at t, in [0,1]. Zero means the
// stage has not started.
func (tl Timeline) Progress(stage int, t time.Duration) float64 {
	if tl.StageDuration <= 0 {
		return 1
	}
	start := time.Duration(stage) * tl.StageDuration
	if t <= start {
		return 0
	}
	p := float64(t-start) / float64(tl.StageDuration)
	return math.Min(p, 1)
}

// Visible reports whether stage has started at t. Stage 0 is visible from
// the first frame.
func (tl Timeline) Visible(stage int, t time.Duration) bool {
	return stage == 0 || t > time.Duration(stage)*tl.StageDuration
}

// Offset is the height above rest of stage at t.
func (tl Timeline) Offset(stage int, t time.Duration) float64 {
	return tl.Lift * (1 - EaseOutCubic(tl.Progress(stage, t)))
}

// Frame returns the placements visible at t, raised by their stage offset.
// The input is not modified.
func (tl Timeline) Frame(result model.PackingResult, t time.Duration) []model.PlacedItem {
	var out []model.PlacedItem
	for _, p := range result.Placed {
		if !tl.Visible(p.Stage, t) {
			continue
		}
		p.Position.Y += tl.Offset(p.Stage, t)
		out = append(out, p)
	}
	return out
}

// EaseOutCubic maps linear progress to a decelerating curve.
func EaseOutCubic(p float64) float64 {
	p = math.Max(0, math.Min(1, p))
	q := 1 - p
	return 1 - q*q*q
}

// Jitter returns a copy of result with every placement shifted by up to
// amount along x and z. Display only: the shifted boxes may overlap or leave
// the container, so the output must never be packed, measured or exported.
func Jitter(result model.PackingResult, amount float64, rng *rand.Rand) model.PackingResult {
	out := result.Clone()
	if amount <= 0 || rng == nil {
		return out
	}
	for i := range out.Placed {
		out.Placed[i].Position.X += (rng.Float64()*2 - 1) * amount
		out.Placed[i].Position.Z += (rng.Float64()*2 - 1) * amount
	}
	return out
}
