package audio

// DownmixStereoToMono converts an interleaved stereo buffer to mono by
// averaging the left and right channels. A trailing odd sample is dropped.
func DownmixStereoToMono(stereo []float32) []float32 {
	mono := make([]float32, len(stereo)/2)
	for i := range mono {
		mono[i] = (stereo[i*2] + stereo[i*2+1]) * 0.5
	}
	return mono
}
