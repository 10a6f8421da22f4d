package audio

import (
	"context"
	"errors"
	"strconv"
	"time"
)

// WindowSize is the number of recent samples analysed per update.
const WindowSize = 2048

// Poster receives control changes from a goroutine other than the
// rendering thread.
type Poster interface {
	Post(id, raw string)
}

// ModulatorConfig selects the control driven by the audio level.
type ModulatorConfig struct {
	ID       string
	Min, Max float64
	// Band is the frequency range in Hz whose loudness is measured.
	Band [2]float64
	// Interval between updates. Defaults to 1/30 s.
	Interval time.Duration
	// Smoothing is the weight of the previous level, in [0, 1). Defaults to 0.8.
	Smoothing float32
}

// Modulator maps the loudness of an audio band onto one scalar control.
// Feed and Update are not safe for concurrent use; Run calls both from a
// single goroutine.
type Modulator struct {
	cfg    ModulatorConfig
	dev    AudioDevice
	target Poster

	history  []float32
	pos      int
	level    float32
	last     float64
	hasValue bool
}

func NewModulator(dev AudioDevice, target Poster, cfg ModulatorConfig) (*Modulator, error) {
	if cfg.ID == "" {
		return nil, errors.New("modulator needs a control id")
	}
	if cfg.Band[1] <= cfg.Band[0] {
		return nil, errors.New("modulator band must be increasing")
	}
	if cfg.Interval <= 0 {
		cfg.Interval = time.Second / 30
	}
	if cfg.Smoothing <= 0 || cfg.Smoothing >= 1 {
		cfg.Smoothing = 0.8
	}
	return &Modulator{
		cfg:     cfg,
		dev:     dev,
		target:  target,
		history: make([]float32, WindowSize),
	}, nil
}

// Feed appends samples to the analysis window.
func (m *Modulator) Feed(samples []float32) {
	for _, s := range samples {
		m.history[m.pos] = s
		m.pos = (m.pos + 1) % len(m.history)
	}
}

// window returns the history oldest sample first.
func (m *Modulator) window() []float32 {
	out := make([]float32, len(m.history))
	n := copy(out, m.history[m.pos:])
	copy(out[n:], m.history[:m.pos])
	return out
}

// Level returns the current smoothed level in [0, 1].
func (m *Modulator) Level() float32 { return m.level }

// Update measures the window, smooths the level and posts the mapped
// control value. Values closer than 1/256 of the range to the last posted
// value are not posted again. It reports the value and whether it was posted.
func (m *Modulator) Update() (float64, bool) {
	raw := BandLevel(m.window(), m.dev.SampleRate(), m.cfg.Band[0], m.cfg.Band[1])
	a := m.cfg.Smoothing
	m.level = a*m.level + (1-a)*raw
	v := m.cfg.Min + float64(m.level)*(m.cfg.Max-m.cfg.Min)

	epsilon := (m.cfg.Max - m.cfg.Min) / 256
	if epsilon < 0 {
		epsilon = -epsilon
	}
	if m.hasValue && abs(v-m.last) < epsilon {
		return v, false
	}
	m.last, m.hasValue = v, true
	m.target.Post(m.cfg.ID, strconv.FormatFloat(v, 'f', -1, 64))
	return v, true
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}

// Run starts the device and updates the target until ctx is done or the
// device stops delivering audio.
func (m *Modulator) Run(ctx context.Context) error {
	ch, err := m.dev.Start()
	if err != nil {
		return err
	}
	defer m.dev.Stop()

	ticker := time.NewTicker(m.cfg.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case samples, ok := <-ch:
			if !ok {
				Logger().Info("audio stream ended", "id", m.cfg.ID)
				return nil
			}
			m.Feed(samples)
		case <-ticker.C:
			m.Update()
		}
	}
}
