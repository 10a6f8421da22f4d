package audio

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"os/exec"

	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// chunkFrames is the number of stereo frames decoded per chunk.
const chunkFrames = 1024

// FileDevice decodes an audio file with ffmpeg and delivers it as mono
// chunks, paced at playback speed.
type FileDevice struct {
	path       string
	ffmpegPath string
	sampleRate int
	loop       bool

	cmd       *exec.Cmd
	audioChan chan []float32
	stopChan  chan struct{}
}

// NewFileDevice returns a device for the audio file at path. An empty
// ffmpegPath uses ffmpeg from PATH.
func NewFileDevice(path, ffmpegPath string, sampleRate int, loop bool) *FileDevice {
	return &FileDevice{path: path, ffmpegPath: ffmpegPath, sampleRate: sampleRate, loop: loop}
}

func (d *FileDevice) inputArgs() ffmpeg.KwArgs {
	args := ffmpeg.KwArgs{"re": ""}
	if d.loop {
		args["stream_loop"] = -1
	}
	return args
}

func (d *FileDevice) outputArgs() ffmpeg.KwArgs {
	return ffmpeg.KwArgs{
		"f":  "f32le",
		"ac": 2,
		"ar": d.sampleRate,
	}
}

func (d *FileDevice) Start() (<-chan []float32, error) {
	pipeReader, pipeWriter := io.Pipe()
	stream := ffmpeg.Input(d.path, d.inputArgs()).
		Output("pipe:", d.outputArgs()).
		WithOutput(pipeWriter).ErrorToStdOut()
	if d.ffmpegPath != "" {
		stream = stream.SetFfmpegPath(d.ffmpegPath)
	}
	cmd := stream.Compile()
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start ffmpeg for %s: %w", d.path, err)
	}
	d.cmd = cmd
	d.audioChan = make(chan []float32, 16)
	d.stopChan = make(chan struct{})

	go func() {
		pipeWriter.CloseWithError(cmd.Wait())
	}()
	go d.readLoop(pipeReader)
	Logger().Info("audio file started", "path", d.path, "rate", d.sampleRate)
	return d.audioChan, nil
}

func (d *FileDevice) readLoop(r io.ReadCloser) {
	defer close(d.audioChan)
	defer r.Close()
	buf := make([]byte, chunkFrames*2*4)
	for {
		n, err := io.ReadFull(r, buf)
		if n >= 8 {
			chunk := DownmixStereoToMono(decodeFloat32LE(buf[:n-n%8]))
			select {
			case d.audioChan <- chunk:
			case <-d.stopChan:
				return
			}
		}
		if err != nil {
			if !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
				Logger().Warn("audio file decode stopped", "path", d.path, "err", err)
			}
			return
		}
	}
}

func decodeFloat32LE(b []byte) []float32 {
	out := make([]float32, len(b)/4)
	for i := range out {
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32(b[i*4:]))
	}
	return out
}

func (d *FileDevice) Stop() error {
	if d.cmd == nil {
		return nil
	}
	close(d.stopChan)
	err := d.cmd.Process.Kill()
	d.cmd = nil
	if errors.Is(err, os.ErrProcessDone) {
		return nil
	}
	return err
}

func (d *FileDevice) SampleRate() int { return d.sampleRate }
