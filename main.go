//go:build js
// +build js

package main

import (
	"strings"

	"github.com/gopherjs/gopherjs/js"

	"drumgrid/audio"
	"drumgrid/event"
	"drumgrid/pattern"
	"drumgrid/ui"
)

func main() {
	// Get the canvas element
	doc := js.Global.Get("document")
	canvas := doc.Call("getElementById", "c")
	if canvas == nil || canvas == js.Undefined {
		panic("canvas element not found")
	}

	bus := event.NewBus()
	store := pattern.NewStore(bus)

	cfg := audio.EngineConfig
	eng := audio.NewWebEngine(cfg)
	drv := audio.NewIntervalDriver(cfg.PollIntervalMs)
	seq := audio.NewSequencer(store, bus, eng, drv, cfg)

	app := ui.NewApp(canvas, store, seq, eng, bus)

	// Restore a shared pattern from the URL fragment. Malformed tokens
	// leave the default pattern in place.
	if hash := js.Global.Get("location").Get("hash").String(); hash != "" {
		store.Deserialize(strings.TrimPrefix(hash, "#"))
	}

	// Expose the transport and pattern API to JavaScript
	js.Global.Set("DrumGrid", map[string]interface{}{
		"play": func(args ...int) {
			seq.Play(args...)
		},
		"stop": func() {
			seq.Stop()
		},
		"toggle": func() {
			seq.Toggle()
		},
		"isPlaying": func() bool {
			return seq.Playing()
		},
		"currentStep": func() int {
			return seq.CurrentStep()
		},
		"setTempo": func(bpm int) {
			store.SetTempo(bpm)
		},
		"tempo": func() int {
			return store.Tempo()
		},
		"toggleNote": func(inst string, step int, on bool) {
			store.ToggleNote(instrumentByName(inst), step, on)
		},
		"adjustVelocity": func(inst string, step, delta int) {
			store.AdjustVelocity(instrumentByName(inst), step, delta)
		},
		"reset": func() {
			store.Reset()
		},
		"serialize": func() string {
			return store.Serialize()
		},
		"deserialize": func(token string) {
			store.Deserialize(token)
		},
	})

	app.Run()

	select {}
}

func instrumentByName(name string) pattern.Instrument {
	for _, inst := range pattern.Instruments {
		if inst.String() == name {
			return inst
		}
	}
	return pattern.Instrument(-1)
}
