// Package encoder records rendered canvases to a video file by piping raw
// RGBA frames into an ffmpeg process.
package encoder

import (
	"errors"
	"fmt"
	"image"
	"io"
	"log"
	"path/filepath"
	"strings"
	"sync"

	ffmpeg "github.com/u2takey/ffmpeg-go"
	"golang.org/x/image/draw"
)

// queueDepth is the number of frames buffered between the render thread and
// the ffmpeg writer.
const queueDepth = 4

var ErrClosed = errors.New("recorder is closed")

type Config struct {
	Output     string
	Width      int
	Height     int
	FPS        int
	Codec      string // h264 or hevc
	HWAccel    bool
	FFmpegPath string
}

// Args returns the ffmpeg input and output arguments for cfg on the
// operating system goos.
func Args(cfg Config, goos string) (inputArgs, outputArgs ffmpeg.KwArgs) {
	w, h := evenSize(cfg.Width, cfg.Height)
	inputArgs = ffmpeg.KwArgs{
		"f":       "rawvideo",
		"pix_fmt": "rgba",
		"s":       fmt.Sprintf("%dx%d", w, h),
		"r":       cfg.FPS,
	}

	hevc := cfg.Codec == "hevc"
	outputArgs = ffmpeg.KwArgs{"pix_fmt": "yuv420p"}
	switch {
	case cfg.HWAccel && goos == "darwin":
		if hevc {
			outputArgs["c:v"] = "hevc_videotoolbox"
		} else {
			outputArgs["c:v"] = "h264_videotoolbox"
		}
		outputArgs["b:v"] = "25M"
	case cfg.HWAccel && (goos == "linux" || goos == "windows"):
		if hevc {
			outputArgs["c:v"] = "hevc_nvenc"
		} else {
			outputArgs["c:v"] = "h264_nvenc"
		}
		outputArgs["preset"] = "p2"
		outputArgs["b:v"] = "25M"
	default:
		if hevc {
			outputArgs["c:v"] = "libx265"
		} else {
			outputArgs["c:v"] = "libx264"
		}
		outputArgs["crf"] = 18
	}

	ext := strings.ToLower(filepath.Ext(cfg.Output))
	if hevc && (ext == ".mp4" || ext == ".mov") {
		outputArgs["tag:v"] = "hvc1"
	}
	return inputArgs, outputArgs
}

// evenSize rounds both dimensions up to even numbers, which yuv420p needs.
func evenSize(w, h int) (int, int) {
	return w + w&1, h + h&1
}

// Recorder accepts frames on the render thread and streams them to ffmpeg
// from a separate goroutine.
type Recorder struct {
	width, height int
	frames        chan []byte
	done          chan error

	mu     sync.Mutex
	closed bool
	count  int
}

// NewRecorder starts ffmpeg writing to cfg.Output.
func NewRecorder(cfg Config, goos string) (*Recorder, error) {
	if cfg.Width < 1 || cfg.Height < 1 {
		return nil, fmt.Errorf("invalid frame size %dx%d", cfg.Width, cfg.Height)
	}
	if cfg.FPS < 1 {
		return nil, fmt.Errorf("invalid frame rate %d", cfg.FPS)
	}
	if cfg.Output == "" {
		return nil, errors.New("no output file")
	}
	w, h := evenSize(cfg.Width, cfg.Height)
	r := &Recorder{
		width:  w,
		height: h,
		frames: make(chan []byte, queueDepth),
		done:   make(chan error, 1),
	}

	pipeReader, pipeWriter := io.Pipe()
	inputArgs, outputArgs := Args(cfg, goos)
	stream := ffmpeg.Input("pipe:", inputArgs).
		Output(cfg.Output, outputArgs).
		OverWriteOutput().WithInput(pipeReader).ErrorToStdOut()
	if cfg.FFmpegPath != "" {
		stream = stream.SetFfmpegPath(cfg.FFmpegPath)
	}
	log.Printf("Recording %dx%d at %d fps to %s (%v)", w, h, cfg.FPS, cfg.Output, outputArgs["c:v"])

	errc := make(chan error, 1)
	go func() {
		err := stream.Run()
		// Unblock the writer if ffmpeg exits early.
		pipeReader.CloseWithError(io.ErrClosedPipe)
		errc <- err
	}()
	go r.run(pipeWriter, errc)
	return r, nil
}

func (r *Recorder) run(w *io.PipeWriter, errc <-chan error) {
	var writeErr error
	for pix := range r.frames {
		if writeErr != nil {
			continue
		}
		if _, err := w.Write(pix); err != nil {
			writeErr = fmt.Errorf("failed to write frame to ffmpeg: %w", err)
		}
	}
	w.Close()
	if err := <-errc; err != nil {
		r.done <- fmt.Errorf("ffmpeg: %w", err)
		return
	}
	r.done <- writeErr
}

// WriteFrame queues img for encoding. Frames of another size are scaled to
// the recorder size.
func (r *Recorder) WriteFrame(img *image.RGBA) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return ErrClosed
	}
	r.frames <- r.pixels(img)
	r.count++
	return nil
}

func (r *Recorder) pixels(img *image.RGBA) []byte {
	b := img.Bounds()
	if b.Dx() == r.width && b.Dy() == r.height && img.Stride == 4*r.width {
		return append([]byte(nil), img.Pix[:4*r.width*r.height]...)
	}
	dst := image.NewRGBA(image.Rect(0, 0, r.width, r.height))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst.Pix
}

// Frames returns the number of frames written so far.
func (r *Recorder) Frames() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.count
}

// Close flushes queued frames and waits for ffmpeg to finish the file.
func (r *Recorder) Close() error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return ErrClosed
	}
	r.closed = true
	close(r.frames)
	r.mu.Unlock()

	err := <-r.done
	log.Printf("Recorder finished after %d frames", r.count)
	return err
}
