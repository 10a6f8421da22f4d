package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image/png"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"runtime"

	"github.com/richinsley/hexwater/audio"
	"github.com/richinsley/hexwater/controls"
	"github.com/richinsley/hexwater/encoder"
	"github.com/richinsley/hexwater/gldevice"
	"github.com/richinsley/hexwater/glfwcontext"
	"github.com/richinsley/hexwater/graphics"
	"github.com/richinsley/hexwater/headless"
	"github.com/richinsley/hexwater/options"
	"github.com/richinsley/hexwater/renderer"
	"github.com/richinsley/hexwater/translator"
)

// audioRate is the sample rate requested from the audio input.
const audioRate = 44100

func init() {
	// GLFW and the GL context must stay on the main thread.
	runtime.LockOSThread()
}

func main() {
	opts := options.Register(flag.CommandLine)
	flag.Parse()
	if err := opts.Validate(); err != nil {
		log.Fatalf("%v", err)
	}
	if *opts.Verbose {
		l := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
		renderer.SetLogger(l)
		audio.SetLogger(l)
	}

	reg, err := loadControls(opts)
	if err != nil {
		log.Fatalf("Failed to load controls: %v", err)
	}

	switch *opts.Mode {
	case options.ModeInteractive:
		err = runInteractive(opts, reg)
	case options.ModeSnapshot:
		err = runSnapshot(opts, reg)
	case options.ModeSweep:
		err = runSweep(opts, reg)
	}
	if err != nil {
		log.Fatalf("%v", err)
	}
}

// loadControls builds the registry from -controls, or the built-in water
// controls, and applies the -set overrides.
func loadControls(opts *options.Options) (*controls.Registry, error) {
	descs := controls.Water()
	if *opts.ControlsFile != "" {
		var err error
		if descs, err = controls.LoadFile(*opts.ControlsFile); err != nil {
			return nil, err
		}
	}
	reg, err := controls.NewRegistry(descs...)
	if err != nil {
		return nil, err
	}
	for _, a := range *opts.Set {
		if err := reg.Set(a.ID, a.Value); err != nil {
			return nil, fmt.Errorf("-set %s=%s: %w", a.ID, a.Value, err)
		}
	}
	return reg, nil
}

// pipeline is everything that draws: the GL device, the renderer and the
// scheduler that re-renders on every control change.
type pipeline struct {
	dev   *gldevice.Device
	r     *renderer.Renderer
	sched *renderer.Scheduler
}

func newPipeline(ctx graphics.Context, reg *controls.Registry) (*pipeline, error) {
	dev, err := gldevice.New(ctx.IsGLES())
	if err != nil {
		return nil, err
	}
	log.Printf("OpenGL %s", gldevice.Version())

	xl, err := translator.New(ctx.IsGLES())
	if err != nil {
		dev.Destroy()
		return nil, fmt.Errorf("failed to create shader translator: %w", err)
	}
	r, err := renderer.NewRenderer(dev, reg, renderer.Config{Translator: xl})
	if err != nil {
		dev.Destroy()
		return nil, err
	}
	return &pipeline{dev: dev, r: r, sched: renderer.NewScheduler(r, reg)}, nil
}

func (p *pipeline) close() {
	p.sched.Close()
	p.r.Shutdown()
	p.dev.Destroy()
}

// openContext returns an offscreen context for snapshot and sweep renders:
// EGL with -headless, otherwise a hidden GLFW window.
func openContext(opts *options.Options) (graphics.Context, func(), error) {
	if *opts.Headless {
		ctx, err := headless.New(16, 16)
		if err != nil {
			return nil, nil, err
		}
		return ctx, ctx.Shutdown, nil
	}
	if err := glfwcontext.InitGraphics(); err != nil {
		return nil, nil, err
	}
	win, err := glfwcontext.New(opts, false)
	if err != nil {
		glfwcontext.TerminateGraphics()
		return nil, nil, err
	}
	return win, func() {
		win.Shutdown()
		glfwcontext.TerminateGraphics()
	}, nil
}

func runSnapshot(opts *options.Options, reg *controls.Registry) error {
	ctx, release, err := openContext(opts)
	if err != nil {
		return err
	}
	defer release()
	p, err := newPipeline(ctx, reg)
	if err != nil {
		return err
	}
	defer p.close()

	if err := p.sched.Start(); err != nil {
		return err
	}
	img, err := p.dev.ReadCanvas()
	if err != nil {
		return err
	}
	f, err := os.Create(*opts.OutputFile)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("failed to encode %s: %w", *opts.OutputFile, err)
	}
	if err := f.Close(); err != nil {
		return err
	}
	s := p.r.Surface()
	log.Printf("Wrote %dx%d snapshot to %s", s.Width, s.Height, *opts.OutputFile)
	return nil
}

func runSweep(opts *options.Options, reg *controls.Registry) error {
	rng, err := options.ParseSweep(*opts.Sweep)
	if err != nil {
		return err
	}
	ctx, release, err := openContext(opts)
	if err != nil {
		return err
	}
	defer release()
	p, err := newPipeline(ctx, reg)
	if err != nil {
		return err
	}
	defer p.close()

	if err := p.sched.Start(); err != nil {
		return err
	}
	s := p.r.Surface()
	rec, err := encoder.NewRecorder(encoder.Config{
		Output:     *opts.OutputFile,
		Width:      s.Width,
		Height:     s.Height,
		FPS:        *opts.FPS,
		Codec:      *opts.Codec,
		HWAccel:    *opts.HWAccel,
		FFmpegPath: *opts.FFmpegPath,
	}, runtime.GOOS)
	if err != nil {
		return err
	}

	var frameErr error
	p.sched.OnRender(func(_ renderer.Surface, err error) {
		if frameErr != nil {
			return
		}
		if err != nil {
			frameErr = err
			return
		}
		img, err := p.dev.ReadCanvas()
		if err != nil {
			frameErr = err
			return
		}
		frameErr = rec.WriteFrame(img)
	})

	sigctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	sweepErr := renderer.Sweep(sigctx, reg, rng.ID, rng.From, rng.To, *opts.Frames)
	return errors.Join(sweepErr, frameErr, rec.Close())
}
