package audio

import (
	"math"
	"testing"

	"drumgrid/event"
	"drumgrid/pattern"
)

type trigger struct {
	inst pattern.Instrument
	when float64
	gain float64
}

// fakeEngine is a hand-cranked clock. With ready=true it behaves like
// an engine whose voices are already rendered; otherwise Start defers
// its callbacks until finishInit.
type fakeEngine struct {
	ready    bool
	now      float64
	pending  []func()
	triggers []trigger
	resumed  int
}

func (f *fakeEngine) Start(ready func()) {
	if f.ready {
		ready()
		return
	}
	f.pending = append(f.pending, ready)
}

func (f *fakeEngine) finishInit() {
	f.ready = true
	for _, fn := range f.pending {
		fn()
	}
	f.pending = nil
}

func (f *fakeEngine) State() State {
	if f.ready {
		return Ready
	}
	return Uninitialized
}

func (f *fakeEngine) Now() float64 { return f.now }
func (f *fakeEngine) Resume()      { f.resumed++ }

func (f *fakeEngine) Trigger(inst pattern.Instrument, when, gain float64) {
	f.triggers = append(f.triggers, trigger{inst, when, gain})
}

func (f *fakeEngine) Analyze() []byte { return nil }

type fakeDriver struct {
	running bool
	starts  int
}

func (d *fakeDriver) Start(pump func()) {
	d.running = true
	d.starts++
}

func (d *fakeDriver) Stop() { d.running = false }

func newTestSequencer(ready bool) (*Sequencer, *pattern.Store, *fakeEngine, *fakeDriver, *event.Bus) {
	bus := event.NewBus()
	store := pattern.NewStore(bus)
	eng := &fakeEngine{ready: ready}
	drv := &fakeDriver{}
	seq := NewSequencer(store, bus, eng, drv, EngineConfig)
	return seq, store, eng, drv, bus
}

// stepTimes groups the scheduled triggers into distinct ascending
// timestamps.
func stepTimes(triggers []trigger) []float64 {
	var times []float64
	for _, tr := range triggers {
		if len(times) == 0 || tr.when != times[len(times)-1] {
			times = append(times, tr.when)
		}
	}
	return times
}

func instrumentsAt(triggers []trigger, when float64) map[pattern.Instrument]bool {
	set := map[pattern.Instrument]bool{}
	for _, tr := range triggers {
		if tr.when == when {
			set[tr.inst] = true
		}
	}
	return set
}

func TestDefaultGrooveAtNinety(t *testing.T) {
	seq, _, eng, _, _ := newTestSequencer(true)

	seq.Play(90)
	// Crank the clock through a full bar.
	for eng.now = 0; eng.now < 3.0; eng.now += 0.025 {
		seq.Pump()
	}

	want := 60.0 / 90.0 / 4.0
	times := stepTimes(eng.triggers)
	if len(times) < 8 {
		t.Fatalf("expected at least 8 distinct step times, got %d", len(times))
	}
	if times[0] != 0 {
		t.Errorf("first step: expected timestamp 0, got %f", times[0])
	}

	// Step 0 sounds kick and hihat together, never the snare.
	at0 := instrumentsAt(eng.triggers, times[0])
	if !at0[pattern.Kick] || !at0[pattern.HiHat] || at0[pattern.Snare] {
		t.Errorf("step 0 instruments: expected kick+hihat, got %v", at0)
	}

	// The snare lands on its own at step 4 (default pattern).
	at4 := instrumentsAt(eng.triggers, times[0]+4*want)
	if !at4[pattern.Snare] || at4[pattern.Kick] || at4[pattern.HiHat] {
		t.Errorf("step 4 instruments: expected snare only, got %v", at4)
	}

	for _, tr := range eng.triggers {
		if !floatNear(tr.gain, 0.8, 1e-12) {
			t.Errorf("default velocity gain: expected 0.8, got %f", tr.gain)
		}
	}
}

// The cursor is drift-free: every gap between consecutive sounding
// steps of the default groove is an exact multiple of the sixteenth,
// regardless of how unevenly Pump is called.
func TestCadenceIsDriftFree(t *testing.T) {
	seq, store, eng, _, _ := newTestSequencer(true)
	// Put a hit on every step so each sixteenth is observable.
	for step := 0; step < pattern.Steps; step++ {
		store.ToggleNote(pattern.HiHat, step, true)
	}

	seq.Play(90)
	// Deliberately ragged pump cadence.
	for _, now := range []float64{0, 0.013, 0.2, 0.21, 0.9, 0.95, 1.7} {
		eng.now = now
		seq.Pump()
	}

	want := 60.0 / 90.0 / 4.0
	times := stepTimes(eng.triggers)
	if len(times) < 10 {
		t.Fatalf("expected at least 10 step times, got %d", len(times))
	}
	for i := 1; i < len(times); i++ {
		gap := times[i] - times[i-1]
		if math.Abs(gap-want) > 1e-9 {
			t.Errorf("gap %d: expected %f, got %f", i, want, gap)
		}
	}
}

func TestLatePumpBatchesCatchUp(t *testing.T) {
	seq, store, eng, _, _ := newTestSequencer(true)
	for step := 0; step < pattern.Steps; step++ {
		store.ToggleNote(pattern.HiHat, step, true)
	}

	seq.Play(120)
	seq.Pump()
	// The driver stalls for a full second, then fires once.
	eng.now = 1.0
	seq.Pump()

	times := stepTimes(eng.triggers)
	// 0.125s per step: everything up to now+lookahead must be covered,
	// each step exactly once.
	for i, when := range times {
		want := float64(i) * 0.125
		if math.Abs(when-want) > 1e-9 {
			t.Errorf("step %d: expected %f, got %f", i, want, when)
		}
	}
	if last := times[len(times)-1]; last < 1.0 {
		t.Errorf("catch-up did not reach the clock: last step at %f", last)
	}
	seen := map[float64]int{}
	for _, tr := range eng.triggers {
		seen[tr.when]++
	}
	for when, n := range seen {
		if n != 1 {
			t.Errorf("step at %f scheduled %d times", when, n)
		}
	}
}

func TestTempoChangeLandsOnNextStep(t *testing.T) {
	seq, store, eng, _, _ := newTestSequencer(true)
	for step := 0; step < pattern.Steps; step++ {
		store.ToggleNote(pattern.HiHat, step, true)
	}

	seq.Play(120)
	seq.Pump() // schedules step 0, next = 0.125

	store.SetTempo(240)
	eng.now = 0.3
	seq.Pump()

	times := stepTimes(eng.triggers)
	if len(times) < 3 {
		t.Fatalf("expected at least 3 step times, got %d", len(times))
	}
	if gap := times[1] - times[0]; math.Abs(gap-0.125) > 1e-9 {
		t.Errorf("gap before tempo change: expected 0.125, got %f", gap)
	}
	for i := 2; i < len(times); i++ {
		if gap := times[i] - times[i-1]; math.Abs(gap-0.0625) > 1e-9 {
			t.Errorf("gap %d after tempo change: expected 0.0625, got %f", i, gap)
		}
	}
}

func TestPlayAppliesOptionalTempo(t *testing.T) {
	seq, store, _, drv, _ := newTestSequencer(true)

	seq.Play(90)
	if got := store.Tempo(); got != 90 {
		t.Errorf("expected tempo 90, got %d", got)
	}

	// Play while already playing: live tempo change, no restart.
	seq.Play(150)
	if got := store.Tempo(); got != 150 {
		t.Errorf("expected tempo 150, got %d", got)
	}
	if drv.starts != 1 {
		t.Errorf("expected a single driver start, got %d", drv.starts)
	}

	// Bare Play leaves the tempo alone.
	seq.Stop()
	seq.Play()
	if got := store.Tempo(); got != 150 {
		t.Errorf("expected tempo unchanged at 150, got %d", got)
	}
}

func TestStopResetsCursor(t *testing.T) {
	seq, _, eng, drv, _ := newTestSequencer(true)

	seq.Play()
	eng.now = 0.4
	seq.Pump()
	if seq.CurrentStep() == 0 {
		t.Fatal("cursor should have advanced past step 0")
	}

	seq.Stop()
	if seq.Playing() {
		t.Error("expected stopped transport")
	}
	if drv.running {
		t.Error("expected driver stopped")
	}
	if got := seq.CurrentStep(); got != 0 {
		t.Errorf("stop must reset the cursor: got step %d", got)
	}

	// Restarting begins the bar from step 0: the first scheduled step
	// carries kick and hihat (default pattern step 0).
	eng.triggers = nil
	eng.now = 5.0
	seq.Play()
	seq.Pump()
	times := stepTimes(eng.triggers)
	if len(times) == 0 {
		t.Fatal("expected triggers after restart")
	}
	at := instrumentsAt(eng.triggers, times[0])
	if !at[pattern.Kick] || !at[pattern.HiHat] {
		t.Errorf("restart first step: expected kick+hihat, got %v", at)
	}
	if times[0] < 5.0 {
		t.Errorf("restart must anchor on the current clock, got %f", times[0])
	}
}

func TestPumpIgnoredWhileStopped(t *testing.T) {
	seq, _, eng, _, _ := newTestSequencer(true)
	seq.Pump()
	if len(eng.triggers) != 0 {
		t.Errorf("expected no triggers while stopped, got %d", len(eng.triggers))
	}
}

func TestPlayWaitsForEngineReady(t *testing.T) {
	seq, _, eng, drv, _ := newTestSequencer(false)

	seq.Play()
	if drv.running {
		t.Fatal("driver must not start before the voices are rendered")
	}
	if !seq.Playing() {
		t.Fatal("transport should report playing while initializing")
	}

	eng.now = 2.5
	eng.finishInit()
	if !drv.running {
		t.Fatal("driver must start once the engine is ready")
	}
	if eng.resumed == 0 {
		t.Error("engine must be resumed before scheduling")
	}

	seq.Pump()
	times := stepTimes(eng.triggers)
	if len(times) == 0 {
		t.Fatal("expected triggers after init")
	}
	if times[0] < 2.5 {
		t.Errorf("first step must anchor on the clock at init time, got %f", times[0])
	}
}

func TestStopDuringInitCancelsStart(t *testing.T) {
	seq, _, eng, drv, _ := newTestSequencer(false)

	seq.Play()
	seq.Stop()
	eng.finishInit()

	if drv.running {
		t.Error("driver must not start after a stop raced the init")
	}
	if len(eng.triggers) != 0 {
		t.Errorf("expected no triggers, got %d", len(eng.triggers))
	}
}

func TestToggleTransport(t *testing.T) {
	seq, _, _, _, bus := newTestSequencer(true)
	var events []event.Type
	bus.Subscribe(func(e event.Event) {
		if e.Type == event.Play || e.Type == event.Stop {
			events = append(events, e.Type)
		}
	})

	seq.Toggle()
	if !seq.Playing() {
		t.Fatal("first toggle should start playback")
	}
	seq.Toggle()
	if seq.Playing() {
		t.Fatal("second toggle should stop playback")
	}

	if len(events) != 2 || events[0] != event.Play || events[1] != event.Stop {
		t.Errorf("expected play then stop events, got %v", events)
	}
}

func TestVelocityScalesGain(t *testing.T) {
	seq, store, eng, _, _ := newTestSequencer(true)
	store.Reset()
	store.ToggleNote(pattern.Kick, 0, true)
	store.AdjustVelocity(pattern.Kick, 0, -30) // 50
	store.ToggleNote(pattern.HiHat, 0, false)

	seq.Play()
	seq.Pump()

	var kick *trigger
	for i := range eng.triggers {
		if eng.triggers[i].inst == pattern.Kick && eng.triggers[i].when == 0 {
			kick = &eng.triggers[i]
		}
	}
	if kick == nil {
		t.Fatal("expected a kick trigger at step 0")
	}
	if !floatNear(kick.gain, 0.5, 1e-12) {
		t.Errorf("velocity 50 gain: expected 0.5, got %f", kick.gain)
	}
}

func TestSilentStepSchedulesNothing(t *testing.T) {
	seq, store, eng, _, _ := newTestSequencer(true)
	for _, inst := range pattern.Instruments {
		for step := 0; step < pattern.Steps; step++ {
			store.ToggleNote(inst, step, false)
		}
	}

	seq.Play()
	eng.now = 4.0
	seq.Pump()

	if len(eng.triggers) != 0 {
		t.Errorf("expected no triggers on a silent pattern, got %d", len(eng.triggers))
	}
	if seq.CurrentStep() == 0 {
		t.Error("cursor must keep advancing through silent steps")
	}
}

func TestHitEventsCarryStep(t *testing.T) {
	seq, _, eng, _, bus := newTestSequencer(true)
	var snareSteps []int
	bus.Subscribe(func(e event.Event) {
		if e.Type == event.SnareHit {
			snareSteps = append(snareSteps, e.Step)
		}
	})

	seq.Play(120)
	eng.now = 2.0
	seq.Pump()

	if len(snareSteps) < 2 {
		t.Fatalf("expected at least 2 snare hits, got %d", len(snareSteps))
	}
	if snareSteps[0] != 4 || snareSteps[1] != 12 {
		t.Errorf("snare steps: expected 4 then 12, got %v", snareSteps[:2])
	}
}

func floatNear(a, b, eps float64) bool {
	return math.Abs(a-b) < eps
}
