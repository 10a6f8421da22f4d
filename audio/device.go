package audio

// Audio input uses portaudio.
// macos:	brew install portaudio
// debian:	sudo apt-get install portaudio19-dev
// windows:	pacman -S mingw-w64-x86_64-portaudio

// AudioDevice produces a stream of mono sample chunks.
type AudioDevice interface {
	// Start begins audio processing and returns a receive-only channel of audio chunks.
	Start() (<-chan []float32, error)
	// Stop terminates the audio stream and closes the channel.
	Stop() error
	// SampleRate returns the sample rate of the device.
	SampleRate() int
}

// NullDevice is a silent AudioDevice.
type NullDevice struct {
	rate int
}

func NewNullDevice(sampleRate int) *NullDevice {
	return &NullDevice{rate: sampleRate}
}

// Start returns a nil channel, which never delivers a chunk.
func (d *NullDevice) Start() (<-chan []float32, error) {
	return nil, nil
}

func (d *NullDevice) Stop() error { return nil }

func (d *NullDevice) SampleRate() int { return d.rate }
