package pattern

import "drumgrid/event"

// Instrument is one of the three fixed drum voices. The numeric order
// (HiHat, Snare, Kick) is the canonical enumeration order used for
// step scheduling and for the share token layout.
type Instrument int

const (
	HiHat Instrument = iota
	Snare
	Kick
)

// Instruments lists the voices in canonical order.
var Instruments = [...]Instrument{HiHat, Snare, Kick}

func (i Instrument) String() string {
	switch i {
	case HiHat:
		return "hihat"
	case Snare:
		return "snare"
	case Kick:
		return "kick"
	default:
		return "unknown"
	}
}

const (
	// Steps is the fixed pattern length in sixteenth notes.
	Steps = 16

	// MaxVelocity bounds per-step loudness; 0 means silent.
	MaxVelocity = 100
	// OnVelocity is the velocity given to a freshly enabled step.
	OnVelocity = 80

	// MinTempo and MaxTempo bound the BPM range.
	MinTempo     = 30
	MaxTempo     = 300
	DefaultTempo = 120
)

// Store owns the pattern and tempo: one 16-step velocity row per
// instrument. All mutation goes through its methods, and every
// mutation emits exactly one generic change notification (plus a typed
// tempo event for tempo changes) before the method returns.
type Store struct {
	bus    *event.Bus
	tracks [len(Instruments)][Steps]int
	bpm    int
}

// NewStore creates a store holding the built-in default pattern at the
// default tempo.
func NewStore(bus *event.Bus) *Store {
	s := &Store{bus: bus}
	s.applyDefaults()
	return s
}

// defaultSteps holds the built-in template: a basic rock groove with
// the backbeat on the snare. Velocity OnVelocity on every listed step.
var defaultSteps = map[Instrument][]int{
	Kick:  {0, 8},
	Snare: {4, 12},
	HiHat: {0, 2, 6, 8, 10, 14},
}

func (s *Store) applyDefaults() {
	for i := range s.tracks {
		s.tracks[i] = [Steps]int{}
	}
	for inst, steps := range defaultSteps {
		for _, step := range steps {
			s.tracks[inst][step] = OnVelocity
		}
	}
	s.bpm = DefaultTempo
}

// Track returns a copy of the instrument's 16 velocities.
func (s *Store) Track(inst Instrument) []int {
	if !valid(inst, 0) {
		return nil
	}
	out := make([]int, Steps)
	copy(out, s.tracks[inst][:])
	return out
}

// Velocity returns the velocity at (inst, step), 0 for out-of-range
// arguments.
func (s *Store) Velocity(inst Instrument, step int) int {
	if !valid(inst, step) {
		return 0
	}
	return s.tracks[inst][step]
}

// ToggleNote enables or disables a step. Enabling sets OnVelocity,
// disabling sets 0. Idempotent.
func (s *Store) ToggleNote(inst Instrument, step int, on bool) {
	if !valid(inst, step) {
		return
	}
	if on {
		s.tracks[inst][step] = OnVelocity
	} else {
		s.tracks[inst][step] = 0
	}
	s.bus.Emit(event.Event{Type: event.Change})
}

// AdjustVelocity adds delta to a step's velocity, saturating at the
// [0, MaxVelocity] bounds.
func (s *Store) AdjustVelocity(inst Instrument, step, delta int) {
	if !valid(inst, step) {
		return
	}
	v := s.tracks[inst][step] + delta
	if v < 0 {
		v = 0
	}
	if v > MaxVelocity {
		v = MaxVelocity
	}
	s.tracks[inst][step] = v
	s.bus.Emit(event.Event{Type: event.Change})
}

// Reset restores the built-in default pattern and tempo.
func (s *Store) Reset() {
	s.applyDefaults()
	s.bus.Emit(event.Event{Type: event.Tempo, BPM: s.bpm})
	s.bus.Emit(event.Event{Type: event.Change})
}

// SetTempo stores bpm clamped to [MinTempo, MaxTempo]. A zero or
// negative value leaves the tempo unchanged.
func (s *Store) SetTempo(bpm int) {
	if bpm <= 0 {
		return
	}
	if bpm < MinTempo {
		bpm = MinTempo
	}
	if bpm > MaxTempo {
		bpm = MaxTempo
	}
	s.bpm = bpm
	s.bus.Emit(event.Event{Type: event.Tempo, BPM: bpm})
	s.bus.Emit(event.Event{Type: event.Change})
}

// Tempo returns the current BPM.
func (s *Store) Tempo() int {
	return s.bpm
}

// StepSeconds returns the duration of one sixteenth note at the
// current tempo.
func (s *Store) StepSeconds() float64 {
	return 60.0 / float64(s.bpm) / 4.0
}

func valid(inst Instrument, step int) bool {
	return inst >= 0 && int(inst) < len(Instruments) && step >= 0 && step < Steps
}
