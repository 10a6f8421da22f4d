package audio

import (
	"math"
	"math/cmplx"

	"github.com/chewxy/math32"
	fft "github.com/mjibson/go-dsp/fft"
)

// Decibel range mapped onto levels 0 to 1.
const (
	minDecibels = -100.0
	maxDecibels = -30.0
)

// BandLevel returns the loudness of samples between lo and hi Hz as a level
// in [0, 1]. The samples are Blackman windowed before the FFT, and the RMS
// magnitude of the bins in the band is mapped from [-100, -30] dB.
func BandLevel(samples []float32, sampleRate int, lo, hi float64) float32 {
	n := len(samples)
	if n < 2 || sampleRate <= 0 {
		return 0
	}
	window := blackmanWindow(n)
	x := make([]float64, n)
	for i, s := range samples {
		x[i] = float64(s) * window[i]
	}
	spectrum := fft.FFTReal(x)

	binHz := float64(sampleRate) / float64(n)
	var power float64
	bins := 0
	for i := 1; i < n/2; i++ {
		if f := float64(i) * binHz; f < lo || f > hi {
			continue
		}
		// Normalize by 2/N for all non-DC bins.
		mag := cmplx.Abs(spectrum[i]) * 2 / float64(n)
		power += mag * mag
		bins++
	}
	if bins == 0 {
		return 0
	}
	rms := math32.Sqrt(float32(power / float64(bins)))
	return scaleDecibels(20 * math32.Log10(rms+1e-9))
}

func scaleDecibels(db float32) float32 {
	switch {
	case db <= minDecibels:
		return 0
	case db >= maxDecibels:
		return 1
	}
	return (db - minDecibels) / (maxDecibels - minDecibels)
}

// blackmanWindow generates a Blackman window of size n.
func blackmanWindow(n int) []float64 {
	const a0, a1, a2 = 0.42, 0.5, 0.08
	w := make([]float64, n)
	for i := range w {
		t := 2 * math.Pi * float64(i) / float64(n-1)
		w[i] = a0 - a1*math.Cos(t) + a2*math.Cos(2*t)
	}
	return w
}
