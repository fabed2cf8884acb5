//go:build !js
// +build !js

package audio

import (
	"math"
	"sync"
	"time"

	"github.com/ebitengine/oto/v3"

	"drumgrid/pattern"
)

// NativeEngine mixes rendered voices into an oto output stream. The
// mixer's sample position is the hardware clock: a trigger at time
// when becomes a start offset in samples, so scheduling stays
// sample-accurate no matter when the poll fires.
type NativeEngine struct {
	cfg    Config
	otoCtx *oto.Context

	mu      sync.Mutex
	state   State
	bank    *SoundBank
	mix     *mixer
	pending []func()
}

func NewNativeEngine(cfg Config) *NativeEngine {
	return &NativeEngine{cfg: cfg}
}

// Start opens the oto context and renders the voice bank once the
// device is ready. ready callbacks accumulate during bring-up.
func (e *NativeEngine) Start(ready func()) {
	e.mu.Lock()
	switch e.state {
	case Ready:
		e.mu.Unlock()
		ready()
		return
	case Initializing:
		e.pending = append(e.pending, ready)
		e.mu.Unlock()
		return
	}
	e.state = Initializing
	e.pending = append(e.pending, ready)
	e.mu.Unlock()

	ctx, readyCh, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   e.cfg.SampleRate,
		ChannelCount: 1,
		Format:       oto.FormatSignedInt16LE,
	})
	if err != nil {
		e.mu.Lock()
		e.state = Uninitialized
		e.pending = nil
		e.mu.Unlock()
		return
	}
	e.otoCtx = ctx

	go func() {
		<-readyCh
		bank := RenderBank(e.cfg)
		m := newMixer(ctx, e.cfg)

		e.mu.Lock()
		e.bank = bank
		e.mix = m
		e.state = Ready
		pending := e.pending
		e.pending = nil
		e.mu.Unlock()

		for _, fn := range pending {
			fn()
		}
	}()
}

func (e *NativeEngine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

func (e *NativeEngine) Now() float64 {
	e.mu.Lock()
	m := e.mix
	e.mu.Unlock()
	if m == nil {
		return 0
	}
	return m.Seconds()
}

func (e *NativeEngine) Resume() {
	if e.otoCtx != nil {
		_ = e.otoCtx.Resume()
	}
}

func (e *NativeEngine) Trigger(inst pattern.Instrument, when, gain float64) {
	e.mu.Lock()
	m, bank := e.mix, e.bank
	e.mu.Unlock()
	if m == nil || bank == nil {
		return
	}
	delay := int((when - m.Seconds()) * float64(e.cfg.SampleRate))
	if delay < 0 {
		delay = 0
	}
	m.Schedule(bank.Voice(inst), gain, delay)
}

func (e *NativeEngine) Analyze() []byte {
	e.mu.Lock()
	m := e.mix
	e.mu.Unlock()
	if m == nil {
		return nil
	}
	return m.Analyze()
}

// mixer sums scheduled voices into a single PCM stream for oto.
type mixer struct {
	mu      sync.Mutex
	cfg     Config
	voices  []*playingVoice
	pos     int64
	tail    []float32 // ring of the most recent output samples
	tailPos int
	player  *oto.Player
}

type playingVoice struct {
	start   int64
	samples []float32
	gain    float64
	i       int
}

func newMixer(c *oto.Context, cfg Config) *mixer {
	m := &mixer{
		cfg:  cfg,
		tail: make([]float32, cfg.FFTSize*4),
	}
	p := c.NewPlayer(m)
	p.SetBufferSize(cfg.SampleRate / 100 * 2) // 10ms of 16-bit mono audio
	p.Play()
	m.player = p
	return m
}

// Schedule adds a voice starting after delaySamples have elapsed.
func (m *mixer) Schedule(samples []float32, gain float64, delaySamples int) {
	if len(samples) == 0 {
		return
	}
	m.mu.Lock()
	m.voices = append(m.voices, &playingVoice{
		start:   m.pos + int64(delaySamples),
		samples: samples,
		gain:    gain,
	})
	m.mu.Unlock()
}

// Seconds returns the stream position as the engine clock.
func (m *mixer) Seconds() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return float64(m.pos) / float64(m.cfg.SampleRate)
}

// Read implements io.Reader for oto.Player.
func (m *mixer) Read(p []byte) (int, error) {
	samples := len(p) / 2
	m.mu.Lock()
	for i := 0; i < samples; i++ {
		var sum float64
		for idx := 0; idx < len(m.voices); idx++ {
			vs := m.voices[idx]
			if m.pos < vs.start {
				continue
			}
			sum += float64(vs.samples[vs.i]) * vs.gain
			vs.i++
			if vs.i >= len(vs.samples) {
				m.voices = append(m.voices[:idx], m.voices[idx+1:]...)
				idx--
			}
		}
		sum *= m.cfg.MasterVolume
		if sum > 1 {
			sum = 1
		} else if sum < -1 {
			sum = -1
		}
		m.tail[m.tailPos] = float32(sum)
		m.tailPos = (m.tailPos + 1) % len(m.tail)
		v := int16(sum * 32767)
		p[2*i] = byte(v)
		p[2*i+1] = byte(v >> 8)
		m.pos++
	}
	m.mu.Unlock()
	return len(p), nil
}

// Analyze computes coarse frequency-bin magnitudes over the most
// recent output window with the Goertzel algorithm, on the same byte
// scale the browser AnalyserNode reports.
func (m *mixer) Analyze() []byte {
	window := make([]float64, len(m.tail))
	m.mu.Lock()
	for i := range window {
		window[i] = float64(m.tail[(m.tailPos+i)%len(m.tail)])
	}
	m.mu.Unlock()

	bins := m.cfg.FFTSize / 2
	out := make([]byte, bins)
	n := float64(len(window))
	for b := 0; b < bins; b++ {
		// Bin center in cycles per sample, spanning DC to Nyquist.
		w := math.Pi * float64(b) / float64(bins)
		coeff := 2 * math.Cos(w)
		var s1, s2 float64
		for _, x := range window {
			s0 := x + coeff*s1 - s2
			s2 = s1
			s1 = s0
		}
		power := s1*s1 + s2*s2 - coeff*s1*s2
		if power < 0 {
			power = 0
		}
		mag := math.Sqrt(power) / (n / 2)
		v := int(mag * 1020)
		if v > 255 {
			v = 255
		}
		out[b] = byte(v)
	}
	return out
}

// TickerDriver runs the lookahead check from a background ticker.
type TickerDriver struct {
	interval time.Duration

	mu   sync.Mutex
	quit chan struct{}
}

func NewTickerDriver(ms int) *TickerDriver {
	return &TickerDriver{interval: time.Duration(ms) * time.Millisecond}
}

func (d *TickerDriver) Start(pump func()) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.quit != nil {
		return
	}
	quit := make(chan struct{})
	d.quit = quit
	go func() {
		t := time.NewTicker(d.interval)
		defer t.Stop()
		for {
			select {
			case <-t.C:
				pump()
			case <-quit:
				return
			}
		}
	}()
}

func (d *TickerDriver) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.quit == nil {
		return
	}
	close(d.quit)
	d.quit = nil
}
