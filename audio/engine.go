package audio

import "drumgrid/pattern"

// State tracks the asynchronous bring-up of an audio backend.
type State int

const (
	Uninitialized State = iota
	Initializing
	Ready
)

// Engine abstracts the hardware audio clock and output graph. The
// browser backend wraps the Web Audio API; the native backend mixes
// into an oto stream whose sample position is the clock. Both schedule
// triggers at absolute clock timestamps, so step timing is immune to
// the jitter of whatever cadence calls the scheduler.
type Engine interface {
	// Start begins asynchronous initialization: the offline voice
	// render pass plus output bring-up. ready fires exactly once per
	// call, when the bank is playable; if the engine is already Ready
	// it fires synchronously.
	Start(ready func())
	State() State
	// Now returns the hardware clock in seconds. 0 before Start.
	Now() float64
	// Resume un-suspends the output if the platform paused it.
	Resume()
	// Trigger schedules the instrument's rendered voice to sound at
	// the absolute clock time when, scaled by gain in (0, 1]. A no-op
	// until the engine is Ready.
	Trigger(inst pattern.Instrument, when, gain float64)
	// Analyze returns the latest frequency-bin magnitudes, one byte
	// per bin (0-255), or nil if no output graph exists yet.
	Analyze() []byte
}
