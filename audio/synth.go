package audio

import (
	"math"

	"drumgrid/common"
	"drumgrid/pattern"
)

// SoundBank holds one offline-rendered waveform per instrument. The
// buffers are synthesized exactly once, ahead of real time, so a step
// trigger at performance time is a plain buffer playback with a gain
// stage: no oscillator state survives across hits.
type SoundBank struct {
	voices [len(pattern.Instruments)][]float32
}

// RenderBank runs the offline render pass for all instruments.
func RenderBank(cfg Config) *SoundBank {
	b := &SoundBank{}
	for _, inst := range pattern.Instruments {
		b.voices[inst] = RenderVoice(inst, cfg)
	}
	return b
}

// Voice returns the rendered waveform for an instrument. Callers
// borrow the buffer; they must not write to it.
func (b *SoundBank) Voice(inst pattern.Instrument) []float32 {
	if inst < 0 || int(inst) >= len(b.voices) {
		return nil
	}
	return b.voices[inst]
}

// RenderVoice synthesizes one instrument into a fixed-length mono
// buffer at cfg.SampleRate. Deterministic: the noise voices draw from
// a seeded generator, so the same config renders identical samples.
func RenderVoice(inst pattern.Instrument, cfg Config) []float32 {
	switch inst {
	case pattern.Kick:
		return renderKick(cfg)
	case pattern.Snare:
		return renderSnare(cfg)
	case pattern.HiHat:
		return renderHiHat(cfg)
	default:
		return nil
	}
}

// renderKick sweeps a sine from KickStartHz toward zero while the
// amplitude ramps linearly from 1 down to KickFloor.
func renderKick(cfg Config) []float32 {
	sr := float64(cfg.SampleRate)
	n := int(cfg.KickDecaySec * sr)
	buf := make([]float32, n)

	phase := 0.0
	for i := 0; i < n; i++ {
		t := float64(i) / float64(n)
		freq := cfg.KickStartHz * (1 - t)
		phase += 2 * math.Pi * freq / sr
		env := 1 + (cfg.KickFloor-1)*t
		buf[i] = clip(math.Sin(phase) * env)
	}
	return buf
}

// renderSnare sums a band-pass noise burst with a triangle tonal body.
// The two components carry separate exponential envelopes; the buffer
// is sized by the longer (noise) decay.
func renderSnare(cfg Config) []float32 {
	sr := float64(cfg.SampleRate)
	n := int(cfg.SnareNoiseDecaySec * sr)
	bodyN := int(cfg.SnareBodyDecaySec * sr)
	buf := make([]float32, n)

	rng := common.NewSeededRNG(cfg.NoiseSeed)

	// Two-pole resonator centered on SnareNoiseHz.
	w := 2 * math.Pi * cfg.SnareNoiseHz / sr
	r := 1 - w/(2*cfg.SnareNoiseQ)
	if r < 0 {
		r = 0
	}
	a1 := 2 * r * math.Cos(w)
	a2 := -r * r
	in := 1 - r
	var y1, y2 float64

	phase := 0.0
	for i := 0; i < n; i++ {
		t := float64(i) / float64(n)

		y := in*rng.Bipolar() + a1*y1 + a2*y2
		y2, y1 = y1, y
		noise := y * math.Pow(cfg.SnareNoiseFloor, t)

		var body float64
		if i < bodyN {
			phase += cfg.SnareBodyHz / sr
			p := phase - math.Floor(phase)
			tri := 1 - 4*math.Abs(p-0.5)
			body = tri * math.Pow(cfg.SnareBodyFloor, float64(i)/float64(bodyN))
		}

		buf[i] = clip(0.6*noise + 0.5*body)
	}
	return buf
}

// renderHiHat high-passes white noise and decays it exponentially to
// HatFloor over a very short window.
func renderHiHat(cfg Config) []float32 {
	sr := float64(cfg.SampleRate)
	n := int(cfg.HatDecaySec * sr)
	buf := make([]float32, n)

	rng := common.NewSeededRNG(cfg.NoiseSeed)

	// One-pole high-pass at HatCutoffHz.
	rc := 1 / (2 * math.Pi * cfg.HatCutoffHz)
	alpha := rc / (rc + 1/sr)
	var hp, prev float64

	for i := 0; i < n; i++ {
		t := float64(i) / float64(n)
		x := rng.Bipolar()
		hp = alpha * (hp + x - prev)
		prev = x
		buf[i] = clip(hp * math.Pow(cfg.HatFloor, t))
	}
	return buf
}

func clip(v float64) float32 {
	if v > 1 {
		return 1
	}
	if v < -1 {
		return -1
	}
	return float32(v)
}
