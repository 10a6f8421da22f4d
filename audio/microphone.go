package audio

import (
	"fmt"

	"github.com/gordonklaus/portaudio"
)

// Microphone captures mono audio from the default input device.
type Microphone struct {
	sampleRate  int
	stream      *portaudio.Stream
	audioChan   chan []float32
	isStreaming bool
}

func NewMicrophone(sampleRate int) (*Microphone, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("failed to initialize portaudio: %w", err)
	}
	return &Microphone{sampleRate: sampleRate}, nil
}

func (m *Microphone) audioCallback(in []float32) {
	// PortAudio reuses its buffer.
	dataCopy := make([]float32, len(in))
	copy(dataCopy, in)

	// Never block the audio callback thread.
	select {
	case m.audioChan <- dataCopy:
	default:
		Logger().Warn("audio channel full, dropping chunk", "samples", len(in))
	}
}

func (m *Microphone) Start() (<-chan []float32, error) {
	m.audioChan = make(chan []float32, 16)

	host, err := portaudio.DefaultHostApi()
	if err != nil {
		close(m.audioChan)
		return nil, err
	}
	if host.DefaultInputDevice == nil {
		close(m.audioChan)
		return nil, fmt.Errorf("no default audio input device on %s", host.Name)
	}

	params := portaudio.HighLatencyParameters(host.DefaultInputDevice, nil)
	params.Input.Channels = 1
	params.SampleRate = float64(m.sampleRate)

	stream, err := portaudio.OpenStream(params, m.audioCallback)
	if err != nil {
		close(m.audioChan)
		return nil, fmt.Errorf("failed to open audio stream: %w", err)
	}
	if err := stream.Start(); err != nil {
		stream.Close()
		close(m.audioChan)
		return nil, fmt.Errorf("failed to start audio stream: %w", err)
	}
	m.stream = stream
	m.isStreaming = true
	Logger().Info("microphone started", "device", host.DefaultInputDevice.Name, "rate", m.sampleRate)
	return m.audioChan, nil
}

func (m *Microphone) Stop() error {
	if !m.isStreaming {
		return portaudio.Terminate()
	}
	m.isStreaming = false
	if err := m.stream.Close(); err != nil {
		portaudio.Terminate()
		return err
	}
	close(m.audioChan)
	return portaudio.Terminate()
}

func (m *Microphone) SampleRate() int {
	return m.sampleRate
}
