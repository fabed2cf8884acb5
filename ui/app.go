//go:build js
// +build js

package ui

import (
	"strconv"

	"github.com/gopherjs/gopherjs/js"

	"drumgrid/audio"
	"drumgrid/event"
	"drumgrid/pattern"
)

// Grid layout in canvas pixels.
const (
	CellSize       = 36
	CellGap        = 6
	LabelWidth     = 64
	HeaderHeight   = 48
	SpectrumHeight = 80

	// How many frames a cell stays lit after its step sounds.
	flashFrames = 8

	// Velocity step for one wheel notch or shift-click.
	velocityNotch = 5
)

// Width and Height are the fixed canvas dimensions.
const (
	Width  = LabelWidth + pattern.Steps*(CellSize+CellGap) + CellGap
	Height = HeaderHeight + len(pattern.Instruments)*(CellSize+CellGap) + CellGap + SpectrumHeight
)

// App renders the step grid, transport header and spectrum strip to a
// 2D canvas and translates pointer and keyboard input into store and
// sequencer calls. All repainting happens in a requestAnimationFrame
// loop; bus events only mark state for the next frame.
type App struct {
	canvas *js.Object
	ctx    *js.Object

	store *pattern.Store
	seq   *audio.Sequencer
	eng   audio.Engine
	bus   *event.Bus

	// Per-instrument flash state, set by hit events.
	litStep   [len(pattern.Instruments)]int
	litFrames [len(pattern.Instruments)]int

	// Set by change events, drained once per frame so a burst of
	// mutations writes the URL hash only once.
	hashDirty bool
}

// NewApp wires the app to the canvas and subscribes it to the bus.
func NewApp(canvas *js.Object, store *pattern.Store, seq *audio.Sequencer, eng audio.Engine, bus *event.Bus) *App {
	canvas.Set("width", Width)
	canvas.Set("height", Height)

	a := &App{
		canvas: canvas,
		ctx:    canvas.Call("getContext", "2d"),
		store:  store,
		seq:    seq,
		eng:    eng,
		bus:    bus,
	}
	for i := range a.litStep {
		a.litStep[i] = -1
	}

	bus.Subscribe(a.onEvent)
	a.setupInputHandlers()
	return a
}

// Run starts the render loop.
func (a *App) Run() {
	var frame func(float64)
	frame = func(t float64) {
		js.Global.Call("requestAnimationFrame", frame)
		a.draw()
	}
	js.Global.Call("requestAnimationFrame", frame)
}

func (a *App) onEvent(e event.Event) {
	switch e.Type {
	case event.Change:
		a.hashDirty = true
	case event.KickHit:
		a.flash(pattern.Kick, e.Step)
	case event.SnareHit:
		a.flash(pattern.Snare, e.Step)
	case event.HiHatHit:
		a.flash(pattern.HiHat, e.Step)
	}
}

func (a *App) flash(inst pattern.Instrument, step int) {
	a.litStep[inst] = step
	a.litFrames[inst] = flashFrames
}

// syncHash mirrors the pattern into the URL fragment so the address
// bar is always a shareable link.
func (a *App) syncHash() {
	js.Global.Get("location").Set("hash", a.store.Serialize())
}

// Drawing

func (a *App) draw() {
	if a.hashDirty {
		a.hashDirty = false
		a.syncHash()
	}

	a.ctx.Set("fillStyle", Theme.BackgroundColor)
	a.ctx.Call("fillRect", 0, 0, Width, Height)

	a.drawHeader()
	a.drawGrid()
	a.drawSpectrum()
}

func (a *App) drawHeader() {
	a.ctx.Set("font", Theme.HeaderFont)
	a.ctx.Set("textBaseline", "middle")
	a.ctx.Set("textAlign", "left")

	state := "stopped"
	color := Theme.StoppedColor
	if a.seq.Playing() {
		state = "playing"
		color = Theme.HeaderColor
	}
	a.ctx.Set("fillStyle", color)
	a.ctx.Call("fillText", state+"  "+strconv.Itoa(a.store.Tempo())+" bpm", LabelWidth, HeaderHeight/2)

	a.ctx.Set("fillStyle", Theme.LabelColor)
	a.ctx.Set("font", Theme.LabelFont)
	a.ctx.Set("textAlign", "right")
	a.ctx.Call("fillText", "space: play/stop  up/down: tempo  r: reset", Width-CellGap, HeaderHeight/2)
}

func (a *App) drawGrid() {
	playing := a.seq.Playing()
	cursor := a.seq.CurrentStep()

	for row, inst := range pattern.Instruments {
		y := HeaderHeight + CellGap + row*(CellSize+CellGap)

		a.ctx.Set("fillStyle", Theme.LabelColor)
		a.ctx.Set("font", Theme.LabelFont)
		a.ctx.Set("textAlign", "left")
		a.ctx.Set("textBaseline", "middle")
		a.ctx.Call("fillText", inst.String(), CellGap, y+CellSize/2)

		track := a.store.Track(inst)
		for step := 0; step < pattern.Steps; step++ {
			x := LabelWidth + CellGap + step*(CellSize+CellGap)

			base := Theme.CellOffColor
			if step%4 == 0 {
				base = Theme.CellAccentColor
			}
			a.ctx.Set("fillStyle", base)
			a.ctx.Call("fillRect", x, y, CellSize, CellSize)

			if v := track[step]; v > 0 {
				// Velocity sets the cell brightness.
				alpha := 0.25 + 0.75*float64(v)/pattern.MaxVelocity
				a.ctx.Set("fillStyle", "rgba("+Theme.CellOnColor+","+strconv.FormatFloat(alpha, 'f', 2, 64)+")")
				a.ctx.Call("fillRect", x, y, CellSize, CellSize)
			}

			if a.litFrames[inst] > 0 && a.litStep[inst] == step {
				a.ctx.Set("fillStyle", Theme.CellFlashColor)
				a.ctx.Call("fillRect", x, y, CellSize, CellSize)
			}

			if playing && step == cursor {
				a.ctx.Set("fillStyle", Theme.PlayheadColor)
				a.ctx.Call("fillRect", x, y, CellSize, CellSize)
			}
		}

		if a.litFrames[inst] > 0 {
			a.litFrames[inst]--
		}
	}
}

func (a *App) drawSpectrum() {
	bins := a.eng.Analyze()
	if len(bins) == 0 {
		return
	}

	top := Height - SpectrumHeight
	barW := float64(Width) / float64(len(bins))

	a.ctx.Set("fillStyle", Theme.SpectrumGlow)
	a.ctx.Call("fillRect", 0, top, Width, 1)

	a.ctx.Set("fillStyle", Theme.SpectrumColor)
	for i, b := range bins {
		h := float64(b) / 255 * (SpectrumHeight - 4)
		a.ctx.Call("fillRect", float64(i)*barW, float64(Height)-h, barW-1, h)
	}
}

// Input

// cellAt maps canvas coordinates to a grid cell.
func cellAt(x, y int) (pattern.Instrument, int, bool) {
	gx := x - (LabelWidth + CellGap)
	gy := y - (HeaderHeight + CellGap)
	if gx < 0 || gy < 0 {
		return 0, 0, false
	}
	step := gx / (CellSize + CellGap)
	row := gy / (CellSize + CellGap)
	if step >= pattern.Steps || row >= len(pattern.Instruments) {
		return 0, 0, false
	}
	// Clicks in the gap between cells do nothing.
	if gx%(CellSize+CellGap) >= CellSize || gy%(CellSize+CellGap) >= CellSize {
		return 0, 0, false
	}
	return pattern.Instruments[row], step, true
}

func (a *App) canvasCoords(e *js.Object) (int, int) {
	rect := a.canvas.Call("getBoundingClientRect")
	x := e.Get("clientX").Int() - rect.Get("left").Int()
	y := e.Get("clientY").Int() - rect.Get("top").Int()
	return x, y
}

func (a *App) setupInputHandlers() {
	a.canvas.Call("addEventListener", "click", func(e *js.Object) {
		// Browsers gate audio on a user gesture.
		a.eng.Resume()

		x, y := a.canvasCoords(e)
		if y < HeaderHeight {
			a.seq.Toggle()
			return
		}
		inst, step, ok := cellAt(x, y)
		if !ok {
			return
		}
		if e.Get("shiftKey").Bool() {
			a.store.AdjustVelocity(inst, step, velocityNotch)
			return
		}
		a.store.ToggleNote(inst, step, a.store.Velocity(inst, step) == 0)
	})

	a.canvas.Call("addEventListener", "wheel", func(e *js.Object) {
		x, y := a.canvasCoords(e)
		inst, step, ok := cellAt(x, y)
		if !ok {
			return
		}
		e.Call("preventDefault")
		delta := velocityNotch
		if e.Get("deltaY").Float() > 0 {
			delta = -velocityNotch
		}
		a.store.AdjustVelocity(inst, step, delta)
	})

	js.Global.Get("document").Call("addEventListener", "keydown", func(e *js.Object) {
		switch e.Get("key").String() {
		case " ":
			e.Call("preventDefault")
			a.seq.Toggle()
		case "ArrowUp":
			e.Call("preventDefault")
			a.store.SetTempo(a.store.Tempo() + 4)
		case "ArrowDown":
			e.Call("preventDefault")
			a.store.SetTempo(a.store.Tempo() - 4)
		case "r", "R":
			a.store.Reset()
		}
	})
}
