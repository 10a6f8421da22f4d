package main

import (
	"context"
	"image"
	"log"

	"github.com/richinsley/hexwater/audio"
	"github.com/richinsley/hexwater/controls"
	"github.com/richinsley/hexwater/glfwcontext"
	"github.com/richinsley/hexwater/graphics"
	"github.com/richinsley/hexwater/options"
	"github.com/richinsley/hexwater/renderer"
)

// wakingPoster posts to the scheduler and wakes the event loop so the change
// is drained without waiting for the next event timeout.
type wakingPoster struct {
	sched *renderer.Scheduler
}

func (w wakingPoster) Post(id, raw string) {
	w.sched.Post(id, raw)
	glfwcontext.Wake()
}

func runInteractive(opts *options.Options, reg *controls.Registry) error {
	if err := glfwcontext.InitGraphics(); err != nil {
		return err
	}
	defer glfwcontext.TerminateGraphics()

	win, err := glfwcontext.New(opts, true)
	if err != nil {
		return err
	}
	defer win.Shutdown()
	log.Printf("Window content scale %.2f", win.ContentScale())

	p, err := newPipeline(win, reg)
	if err != nil {
		return err
	}
	defer p.close()

	cur := controls.NewCursor(reg)
	glfwcontext.BindControlKeys(win, cur, func() error {
		if *opts.ControlsFile == "" {
			return reg.Apply(controls.Water())
		}
		descs, err := controls.LoadFile(*opts.ControlsFile)
		if err != nil {
			return err
		}
		return reg.Apply(descs)
	})

	if *opts.Audio != "" {
		cancel, err := startModulator(opts, p.sched)
		if err != nil {
			return err
		}
		defer cancel()
	}

	if err := p.sched.Start(); err != nil {
		log.Printf("Render failed: %v", err)
	}

	var failure failureScreen
	for !win.ShouldClose() {
		if _, err := p.sched.Drain(); err != nil {
			log.Printf("Rejected control change: %v", err)
		}
		w, h := win.GetFramebufferSize()
		if f := p.r.Failure(); f != nil {
			p.dev.PresentImage(failure.image(f, w, h), w, h)
		} else {
			p.dev.Present(w, h)
		}
		win.EndFrame()
	}
	return nil
}

// startModulator drives the -audio control from the microphone, or from
// -audio-file when given. A device that cannot start is replaced by silence.
func startModulator(opts *options.Options, sched *renderer.Scheduler) (context.CancelFunc, error) {
	rng, err := options.ParseAudio(*opts.Audio)
	if err != nil {
		return nil, err
	}
	lo, hi, err := options.ParseBand(*opts.AudioBand)
	if err != nil {
		return nil, err
	}

	var dev audio.AudioDevice
	if *opts.AudioFile != "" {
		dev = audio.NewFileDevice(*opts.AudioFile, *opts.FFmpegPath, audioRate, true)
	} else if mic, err := audio.NewMicrophone(audioRate); err != nil {
		log.Printf("Could not initialize microphone: %v. Using silent fallback.", err)
		dev = audio.NewNullDevice(audioRate)
	} else {
		dev = mic
	}

	mod, err := audio.NewModulator(dev, wakingPoster{sched}, audio.ModulatorConfig{
		ID:   rng.ID,
		Min:  rng.From,
		Max:  rng.To,
		Band: [2]float64{lo, hi},
	})
	if err != nil {
		return nil, err
	}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		if err := mod.Run(ctx); err != nil {
			log.Printf("Audio modulation stopped: %v", err)
		}
	}()
	return func() {
		cancel()
		<-done
	}, nil
}

// failureScreen caches the diagnostic image for the current window size.
type failureScreen struct {
	img  *image.RGBA
	size image.Point
	err  error
}

func (f *failureScreen) image(err error, w, h int) *image.RGBA {
	if f.img == nil || f.err != err || f.size != image.Pt(w, h) {
		f.img = graphics.RenderText("shader build failed:\n\n"+err.Error(), w, h)
		f.size, f.err = image.Pt(w, h), err
	}
	return f.img
}
