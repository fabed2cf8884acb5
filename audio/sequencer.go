package audio

import (
	"sync"

	"drumgrid/event"
	"drumgrid/pattern"
)

// Driver owns the periodic lookahead check. It is a polling cadence
// only, never the timing source for notes: the browser driver uses
// setInterval, the native driver a ticker goroutine, tests call Pump
// by hand.
type Driver interface {
	Start(pump func())
	Stop()
}

// Sequencer converts tempo plus pattern into precisely timed trigger
// events against the engine's hardware clock. On every pump it
// schedules all steps falling inside the lookahead window at absolute
// timestamps, advancing a drift-free cursor; a late pump batches the
// catch-up scheduling instead of losing beats.
type Sequencer struct {
	store *pattern.Store
	bus   *event.Bus
	eng   Engine
	drv   Driver
	cfg   Config

	mu      sync.Mutex
	playing bool
	step    int
	next    float64
}

func NewSequencer(store *pattern.Store, bus *event.Bus, eng Engine, drv Driver, cfg Config) *Sequencer {
	return &Sequencer{store: store, bus: bus, eng: eng, drv: drv, cfg: cfg}
}

// Play starts playback, lazily bringing the engine up on first use.
// An optional bpm applies as a live tempo change whether or not the
// transport was already running; a second Play while running is
// otherwise a no-op. The step cursor is NOT reset, so restarting
// mid-groove keeps the groove position.
func (s *Sequencer) Play(bpm ...int) {
	if len(bpm) > 0 {
		s.store.SetTempo(bpm[0])
	}

	s.mu.Lock()
	if s.playing {
		s.mu.Unlock()
		return
	}
	s.playing = true
	s.mu.Unlock()

	s.bus.Emit(event.Event{Type: event.Play})
	s.bus.Emit(event.Event{Type: event.Change})

	// Playback is gated on the offline render pass: the first triggers
	// are only scheduled once every voice is ready.
	s.eng.Start(s.begin)
}

func (s *Sequencer) begin() {
	s.mu.Lock()
	if !s.playing {
		// Stopped again before the voices finished rendering.
		s.mu.Unlock()
		return
	}
	s.eng.Resume()
	s.next = s.eng.Now()
	s.mu.Unlock()

	s.drv.Start(s.Pump)
}

// Stop cancels the periodic check and resets the cursor to step zero.
// Triggers already handed to the hardware will still sound; Stop only
// prevents new scheduling.
func (s *Sequencer) Stop() {
	s.mu.Lock()
	if !s.playing {
		s.mu.Unlock()
		return
	}
	s.playing = false
	s.step = 0
	s.next = s.eng.Now()
	s.mu.Unlock()

	s.drv.Stop()
	s.bus.Emit(event.Event{Type: event.Stop})
	s.bus.Emit(event.Event{Type: event.Change})
}

// Toggle stops when playing, plays when stopped.
func (s *Sequencer) Toggle() {
	if s.Playing() {
		s.Stop()
	} else {
		s.Play()
	}
}

// Playing reports whether the transport is running.
func (s *Sequencer) Playing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.playing
}

// CurrentStep returns the cursor position, [0, 16).
func (s *Sequencer) CurrentStep() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.step
}

// Pump is the lookahead check. While the next step falls inside the
// schedule-ahead window it schedules that step's triggers at the
// step's absolute timestamp, then advances the cursor. The step
// duration is re-read from the store each iteration, so a tempo
// change lands on the very next step boundary.
func (s *Sequencer) Pump() {
	s.mu.Lock()
	if !s.playing {
		s.mu.Unlock()
		return
	}
	horizon := s.eng.Now() + s.cfg.ScheduleAheadSec
	type hit struct {
		inst pattern.Instrument
		when float64
		gain float64
		step int
	}
	var hits []hit
	for s.next < horizon {
		for _, inst := range pattern.Instruments {
			v := s.store.Velocity(inst, s.step)
			if v == 0 {
				continue
			}
			hits = append(hits, hit{inst, s.next, float64(v) / 100, s.step})
		}
		s.next += s.store.StepSeconds()
		s.step = (s.step + 1) % pattern.Steps
	}
	s.mu.Unlock()

	for _, h := range hits {
		s.eng.Trigger(h.inst, h.when, h.gain)
		s.bus.Emit(event.Event{Type: hitType(h.inst), Step: h.step})
	}
}

func hitType(inst pattern.Instrument) event.Type {
	switch inst {
	case pattern.Kick:
		return event.KickHit
	case pattern.Snare:
		return event.SnareHit
	default:
		return event.HiHatHit
	}
}
