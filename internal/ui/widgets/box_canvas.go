package widgets

import (
	"image"
	"image/color"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/widget"

	"github.com/piwi3910/BoxPack/internal/model"
	"github.com/piwi3910/BoxPack/internal/preview"
)

const frameInterval = time.Second / 30

// BoxCanvas renders a packing result in isometric view and can replay the
// stage-by-stage drop-in animation.
type BoxCanvas struct {
	widget.BaseWidget

	mu        sync.Mutex
	result    model.PackingResult
	colors    map[string]int
	timeline  preview.Timeline
	elapsed   time.Duration
	highlight int
	stop      chan struct{}

	minW, minH float32
}

// NewBoxCanvas creates a canvas showing result fully landed.
func NewBoxCanvas(result model.PackingResult, minW, minH float32) *BoxCanvas {
	bc := &BoxCanvas{minW: minW, minH: minH, highlight: -1}
	bc.ExtendBaseWidget(bc)
	bc.setResult(result)
	return bc
}

// SetResult replaces the displayed result and stops any running animation.
func (bc *BoxCanvas) SetResult(result model.PackingResult) {
	bc.Stop()
	bc.setResult(result)
	bc.Refresh()
}

func (bc *BoxCanvas) setResult(result model.PackingResult) {
	bc.mu.Lock()
	defer bc.mu.Unlock()
	bc.result = result
	bc.colors = preview.ColorIndex(result.Placed)
	bc.timeline = preview.NewTimeline(result, preview.DefaultStageDuration)
	bc.elapsed = bc.timeline.Duration()
}

// Highlight draws stage at full color and fades the others. -1 clears it.
func (bc *BoxCanvas) Highlight(stage int) {
	bc.mu.Lock()
	bc.highlight = stage
	bc.mu.Unlock()
	bc.Refresh()
}

// Play restarts the drop-in animation. onDone runs on the UI thread once the
// last stage has landed, unless the animation was stopped first.
func (bc *BoxCanvas) Play(onDone func()) {
	bc.Stop()

	bc.mu.Lock()
	bc.elapsed = 0
	total := bc.timeline.Duration()
	stop := make(chan struct{})
	bc.stop = stop
	bc.mu.Unlock()
	bc.Refresh()

	go func() {
		ticker := time.NewTicker(frameInterval)
		defer ticker.Stop()
		start := time.Now()
		for {
			select {
			case <-stop:
				return
			case now := <-ticker.C:
				elapsed := now.Sub(start)
				done := elapsed >= total
				if done {
					elapsed = total
				}
				fyne.Do(func() {
					bc.mu.Lock()
					if bc.stop != stop {
						bc.mu.Unlock()
						return
					}
					bc.elapsed = elapsed
					if done {
						bc.stop = nil
					}
					bc.mu.Unlock()
					bc.Refresh()
					if done && onDone != nil {
						onDone()
					}
				})
				if done {
					return
				}
			}
		}
	}()
}

// Stop halts a running animation, leaving the current frame on screen.
func (bc *BoxCanvas) Stop() {
	bc.mu.Lock()
	defer bc.mu.Unlock()
	if bc.stop != nil {
		close(bc.stop)
		bc.stop = nil
	}
}

// Image renders the current frame at the given pixel size.
func (bc *BoxCanvas) Image(w, h int) image.Image {
	bc.mu.Lock()
	result := bc.result
	colors := bc.colors
	tl := bc.timeline
	elapsed := bc.elapsed
	highlight := bc.highlight
	bc.mu.Unlock()

	opts := preview.DefaultRenderOptions()
	opts.Width = w
	opts.Height = h
	opts.Lift = tl.Lift
	opts.Highlight = highlight
	return preview.Render(result.Container, tl.Frame(result, elapsed), colors, opts)
}

func (bc *BoxCanvas) CreateRenderer() fyne.WidgetRenderer {
	img := canvas.NewImageFromImage(image.NewNRGBA(image.Rect(0, 0, 1, 1)))
	img.FillMode = canvas.ImageFillContain
	bg := canvas.NewRectangle(color.White)
	return &boxCanvasRenderer{bc: bc, bg: bg, img: img}
}

type boxCanvasRenderer struct {
	bc   *BoxCanvas
	bg   *canvas.Rectangle
	img  *canvas.Image
	size fyne.Size
}

func (r *boxCanvasRenderer) Layout(size fyne.Size) {
	r.size = size
	r.bg.Resize(size)
	r.img.Resize(size)
	r.redraw()
}

func (r *boxCanvasRenderer) redraw() {
	w, h := int(r.size.Width), int(r.size.Height)
	if w <= 0 || h <= 0 {
		return
	}
	r.img.Image = r.bc.Image(w, h)
	r.img.Refresh()
}

func (r *boxCanvasRenderer) Refresh()                     { r.redraw() }
func (r *boxCanvasRenderer) Destroy()                     { r.bc.Stop() }
func (r *boxCanvasRenderer) Objects() []fyne.CanvasObject { return []fyne.CanvasObject{r.bg, r.img} }
func (r *boxCanvasRenderer) MinSize() fyne.Size {
	return fyne.NewSize(r.bc.minW, r.bc.minH)
}
