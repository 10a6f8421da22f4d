package audio_test

import (
	"context"
	"math"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/richinsley/hexwater/audio"
)

const rate = 44100

func sine(freq, amp float64, n int) []float32 {
	out := make([]float32, n)
	for i := range out {
		out[i] = float32(amp * math.Sin(2*math.Pi*freq*float64(i)/rate))
	}
	return out
}

func TestBandLevelSilence(t *testing.T) {
	if l := audio.BandLevel(make([]float32, 2048), rate, 200, 2000); l != 0 {
		t.Errorf("silence level %v", l)
	}
	if l := audio.BandLevel(nil, rate, 200, 2000); l != 0 {
		t.Errorf("empty level %v", l)
	}
}

func TestBandLevelMonotone(t *testing.T) {
	prev := float32(-1)
	for _, amp := range []float64{0.001, 0.01, 0.1} {
		l := audio.BandLevel(sine(440, amp, 2048), rate, 200, 2000)
		if l < 0 || l > 1 {
			t.Fatalf("amplitude %v: level %v out of range", amp, l)
		}
		if l <= prev {
			t.Errorf("amplitude %v: level %v not above %v", amp, l, prev)
		}
		prev = l
	}
}

func TestBandLevelSelectsBand(t *testing.T) {
	in := audio.BandLevel(sine(440, 0.1, 2048), rate, 200, 2000)
	out := audio.BandLevel(sine(8000, 0.1, 2048), rate, 200, 2000)
	if out >= in {
		t.Errorf("out of band tone level %v not below in band %v", out, in)
	}
}

func TestDownmixStereoToMono(t *testing.T) {
	got := audio.DownmixStereoToMono([]float32{1, 0, 0.5, 0.5, -1, 1, 7})
	want := []float32{0.5, 0.5, 0}
	if len(got) != len(want) {
		t.Fatalf("got %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("sample %d: got %v, want %v", i, got[i], want[i])
		}
	}
}

type posts struct {
	mu     sync.Mutex
	values []float64
}

func (p *posts) Post(id, raw string) {
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || id != "foam_level" {
		panic("bad post " + id + "=" + raw)
	}
	p.mu.Lock()
	p.values = append(p.values, v)
	p.mu.Unlock()
}

func (p *posts) snapshot() []float64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]float64(nil), p.values...)
}

func TestModulatorFollowsLoudness(t *testing.T) {
	var p posts
	m, err := audio.NewModulator(audio.NewNullDevice(rate), &p, audio.ModulatorConfig{
		ID: "foam_level", Min: 10, Max: 90, Band: [2]float64{200, 2000},
	})
	if err != nil {
		t.Fatal(err)
	}
	v, posted := m.Update()
	if !posted || v != 10 {
		t.Fatalf("silent update: %v %v", v, posted)
	}
	if _, posted := m.Update(); posted {
		t.Error("unchanged value posted twice")
	}
	for i := 0; i < 20; i++ {
		m.Feed(sine(440, 0.1, 512))
		m.Update()
	}
	got := p.snapshot()
	if len(got) < 2 {
		t.Fatalf("only %d posts", len(got))
	}
	for i := 1; i < len(got); i++ {
		if got[i] < got[i-1] {
			t.Errorf("value fell from %v to %v under constant tone", got[i-1], got[i])
		}
	}
	if last := got[len(got)-1]; last <= 10 || last > 90 {
		t.Errorf("final value %v outside (10, 90]", last)
	}
}

func TestModulatorConfigErrors(t *testing.T) {
	var p posts
	dev := audio.NewNullDevice(rate)
	if _, err := audio.NewModulator(dev, &p, audio.ModulatorConfig{Band: [2]float64{1, 2}}); err == nil {
		t.Error("missing id accepted")
	}
	if _, err := audio.NewModulator(dev, &p, audio.ModulatorConfig{ID: "x", Band: [2]float64{2, 1}}); err == nil {
		t.Error("inverted band accepted")
	}
}

type chunkDevice struct {
	ch chan []float32
}

func (d *chunkDevice) Start() (<-chan []float32, error) { return d.ch, nil }
func (d *chunkDevice) Stop() error                      { return nil }
func (d *chunkDevice) SampleRate() int                  { return rate }

func TestModulatorRun(t *testing.T) {
	dev := &chunkDevice{ch: make(chan []float32)}
	var p posts
	m, err := audio.NewModulator(dev, &p, audio.ModulatorConfig{
		ID: "foam_level", Min: 0, Max: 100, Band: [2]float64{200, 2000}, Interval: time.Millisecond,
	})
	if err != nil {
		t.Fatal(err)
	}
	done := make(chan error, 1)
	go func() { done <- m.Run(context.Background()) }()
	for i := 0; i < 8; i++ {
		dev.ch <- sine(440, 0.1, 512)
		time.Sleep(2 * time.Millisecond)
	}
	close(dev.ch)
	select {
	case err := <-done:
		if err != nil {
			t.Fatal(err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after the device closed")
	}
	if len(p.snapshot()) == 0 {
		t.Error("no values posted")
	}
}
