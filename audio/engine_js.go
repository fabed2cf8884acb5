//go:build js
// +build js

package audio

import (
	"github.com/gopherjs/gopherjs/js"

	"drumgrid/pattern"
)

// WebEngine drives the Web Audio API. Rendered voices travel to the
// context as WAV data URLs through the fetch/decodeAudioData promise
// chain, and land as immutable AudioBuffers; a trigger is then a
// createBufferSource + gain node started at an absolute context time.
type WebEngine struct {
	cfg        Config
	ctx        *js.Object
	masterGain *js.Object
	analyser   *js.Object
	buffers    map[pattern.Instrument]*js.Object
	state      State
	pending    []func()
	remaining  int
}

func NewWebEngine(cfg Config) *WebEngine {
	return &WebEngine{
		cfg:     cfg,
		buffers: make(map[pattern.Instrument]*js.Object),
	}
}

// Start creates the AudioContext on first call and begins the offline
// voice render pass. ready callbacks accumulate until every voice has
// decoded; once Ready, further callers fire immediately.
func (e *WebEngine) Start(ready func()) {
	switch e.state {
	case Ready:
		ready()
		return
	case Initializing:
		e.pending = append(e.pending, ready)
		return
	}

	audioCtx := js.Global.Get("AudioContext")
	if audioCtx == nil || audioCtx == js.Undefined {
		audioCtx = js.Global.Get("webkitAudioContext")
	}
	if audioCtx == nil || audioCtx == js.Undefined {
		return
	}

	e.state = Initializing
	e.pending = append(e.pending, ready)

	e.ctx = audioCtx.New()
	e.masterGain = e.ctx.Call("createGain")
	e.masterGain.Call("connect", e.ctx.Get("destination"))
	e.masterGain.Get("gain").Set("value", e.cfg.MasterVolume)

	// Spectrum tap: a read-only consumer of the master bus.
	e.analyser = e.ctx.Call("createAnalyser")
	e.analyser.Set("fftSize", e.cfg.FFTSize)
	e.masterGain.Call("connect", e.analyser)

	e.remaining = len(pattern.Instruments)
	for _, inst := range pattern.Instruments {
		voice := RenderVoice(inst, e.cfg)
		e.loadVoice(inst, EncodeWavDataURL(voice, e.cfg.SampleRate))
	}
}

// loadVoice fetches and decodes one rendered voice.
func (e *WebEngine) loadVoice(inst pattern.Instrument, dataURL string) {
	fetchPromise := js.Global.Call("fetch", dataURL)
	fetchPromise.Call("then", func(response *js.Object) {
		arrayBufferPromise := response.Call("arrayBuffer")
		arrayBufferPromise.Call("then", func(arrayBuffer *js.Object) {
			decodePromise := e.ctx.Call("decodeAudioData", arrayBuffer)
			decodePromise.Call("then", func(audioBuffer *js.Object) {
				e.buffers[inst] = audioBuffer
				e.remaining--
				if e.remaining == 0 {
					e.state = Ready
					pending := e.pending
					e.pending = nil
					for _, fn := range pending {
						fn()
					}
				}
			})
		})
	})
}

func (e *WebEngine) State() State {
	return e.state
}

// Now returns the context's currentTime, the hardware audio clock.
func (e *WebEngine) Now() float64 {
	if e.ctx == nil {
		return 0
	}
	return e.ctx.Get("currentTime").Float()
}

// Resume un-suspends the context; browsers suspend it until a user
// gesture.
func (e *WebEngine) Resume() {
	if e.ctx == nil {
		return
	}
	if e.ctx.Get("state").String() == "suspended" {
		e.ctx.Call("resume")
	}
}

// Trigger plays the instrument's buffer at the absolute context time
// when, scaled by gain. The hardware performs the precise timing.
func (e *WebEngine) Trigger(inst pattern.Instrument, when, gain float64) {
	if e.state != Ready {
		return
	}
	buffer, ok := e.buffers[inst]
	if !ok || buffer == nil {
		return
	}

	gainNode := e.ctx.Call("createGain")
	gainNode.Get("gain").Set("value", gain)
	gainNode.Call("connect", e.masterGain)

	source := e.ctx.Call("createBufferSource")
	source.Set("buffer", buffer)
	source.Call("connect", gainNode)
	source.Call("start", when)
}

// Analyze snapshots the analyser's byte frequency data. Returns nil
// before the context exists; safe to poll every animation frame.
func (e *WebEngine) Analyze() []byte {
	if e.analyser == nil {
		return nil
	}
	bins := e.analyser.Get("frequencyBinCount").Int()
	arr := js.Global.Get("Uint8Array").New(bins)
	e.analyser.Call("getByteFrequencyData", arr)
	out := make([]byte, bins)
	for i := 0; i < bins; i++ {
		out[i] = byte(arr.Index(i).Int())
	}
	return out
}

// IntervalDriver runs the lookahead check on a setInterval cadence.
type IntervalDriver struct {
	ms int
	id *js.Object
}

func NewIntervalDriver(ms int) *IntervalDriver {
	return &IntervalDriver{ms: ms}
}

func (d *IntervalDriver) Start(pump func()) {
	if d.id != nil {
		return
	}
	d.id = js.Global.Call("setInterval", pump, d.ms)
}

func (d *IntervalDriver) Stop() {
	if d.id == nil {
		return
	}
	js.Global.Call("clearInterval", d.id)
	d.id = nil
}
