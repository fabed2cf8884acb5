package audio

type Config struct {
	// Output settings
	SampleRate   int     // Offline render / native output rate
	MasterVolume float64 // 0.0 - 1.0
	NoiseSeed    uint32  // Seed for deterministic noise voices

	// Scheduler settings
	ScheduleAheadSec float64 // Lookahead window for trigger scheduling
	PollIntervalMs   int     // Cadence of the lookahead check

	// Analyzer settings
	FFTSize int // AnalyserNode fftSize; bins = FFTSize/2

	// Kick voice: sine swept down from KickStartHz, linear amplitude
	// envelope to KickFloor over KickDecaySec.
	KickStartHz  float64
	KickDecaySec float64
	KickFloor    float64

	// Snare voice: band-pass noise burst plus a triangle tonal body,
	// each with its own exponential decay.
	SnareNoiseHz       float64 // Band-pass center frequency
	SnareNoiseQ        float64 // Band-pass resonance
	SnareNoiseDecaySec float64
	SnareNoiseFloor    float64
	SnareBodyHz        float64 // Triangle body frequency
	SnareBodyDecaySec  float64
	SnareBodyFloor     float64

	// HiHat voice: high-pass noise, exponential decay.
	HatCutoffHz float64
	HatDecaySec float64
	HatFloor    float64
}

var EngineConfig = Config{
	SampleRate:   44100,
	MasterVolume: 0.7,
	NoiseSeed:    12345,

	ScheduleAheadSec: 0.1,
	PollIntervalMs:   25,

	FFTSize: 256,

	KickStartHz:  150,
	KickDecaySec: 0.15,
	KickFloor:    0.001,

	SnareNoiseHz:       1800,
	SnareNoiseQ:        1.5,
	SnareNoiseDecaySec: 0.2,
	SnareNoiseFloor:    0.01,
	SnareBodyHz:        200,
	SnareBodyDecaySec:  0.12,
	SnareBodyFloor:     0.01,

	HatCutoffHz: 7500,
	HatDecaySec: 0.04,
	HatFloor:    0.001,
}
