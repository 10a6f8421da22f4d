// Package options holds the command line configuration of hexwater.
package options

import (
	"errors"
	"flag"
	"fmt"
	"strconv"
	"strings"
)

// Run modes.
const (
	ModeInteractive = "interactive"
	ModeSnapshot    = "snapshot"
	ModeSweep       = "sweep"
)

type Options struct {
	Mode         *string
	ControlsFile *string
	Set          *Assignments
	OutputFile   *string
	Headless     *bool
	Sweep        *string
	Frames       *int
	FPS          *int
	Codec        *string
	HWAccel      *bool
	FFmpegPath   *string
	Audio        *string // id:min:max of the control driven by the microphone
	AudioBand    *string // lo:hi in Hz
	AudioFile    *string // decode this file with ffmpeg instead of opening the microphone
	Width        *int
	Height       *int
	Verbose      *bool
}

// Register defines the hexwater flags on fs and returns the options they fill.
func Register(fs *flag.FlagSet) *Options {
	o := &Options{Set: &Assignments{}}
	o.Mode = fs.String("mode", ModeInteractive, "Run mode: interactive, snapshot or sweep")
	o.ControlsFile = fs.String("controls", "", "JSON file with control definitions (default: built-in water controls)")
	fs.Var(o.Set, "set", "Override a control value, id=value (repeatable)")
	o.OutputFile = fs.String("output", "", "Output file for snapshot (.png) or sweep (video) modes")
	o.Headless = fs.Bool("headless", false, "Render offscreen through EGL instead of a hidden window")
	o.Sweep = fs.String("sweep", "", "Sweep a scalar control, id:from:to")
	o.Frames = fs.Int("frames", 120, "Number of frames in a sweep")
	o.FPS = fs.Int("fps", 30, "Frame rate of the sweep video")
	o.Codec = fs.String("codec", "h264", "Video codec for sweeps: h264 or hevc")
	o.HWAccel = fs.Bool("hwaccel", false, "Use the platform hardware encoder when available")
	o.FFmpegPath = fs.String("ffmpeg", "", "Path to the ffmpeg binary (default: ffmpeg on PATH)")
	o.Audio = fs.String("audio", "", "Drive a scalar control from audio input, id:min:max")
	o.AudioBand = fs.String("audio-band", "20:250", "Frequency band measured for -audio, lo:hi in Hz")
	o.AudioFile = fs.String("audio-file", "", "Audio file decoded with ffmpeg for -audio instead of the microphone")
	o.Width = fs.Int("width", 1024, "Window width")
	o.Height = fs.Int("height", 768, "Window height")
	o.Verbose = fs.Bool("verbose", false, "Enable debug logging")
	return o
}

// Validate checks the combination of flags.
func (o *Options) Validate() error {
	switch *o.Mode {
	case ModeInteractive:
		if *o.Headless {
			return errors.New("interactive mode needs a window, -headless applies to snapshot and sweep")
		}
	case ModeSnapshot:
		if *o.OutputFile == "" {
			return errors.New("snapshot mode requires -output")
		}
	case ModeSweep:
		if *o.OutputFile == "" {
			return errors.New("sweep mode requires -output")
		}
		if _, err := ParseSweep(*o.Sweep); err != nil {
			return err
		}
		if *o.Frames < 1 {
			return fmt.Errorf("invalid -frames %d", *o.Frames)
		}
		if *o.FPS < 1 {
			return fmt.Errorf("invalid -fps %d", *o.FPS)
		}
	default:
		return fmt.Errorf("unknown mode %q", *o.Mode)
	}
	if *o.Audio != "" {
		if _, err := ParseAudio(*o.Audio); err != nil {
			return err
		}
		if _, _, err := ParseBand(*o.AudioBand); err != nil {
			return err
		}
	}
	if *o.Width < 1 || *o.Height < 1 {
		return fmt.Errorf("invalid window size %dx%d", *o.Width, *o.Height)
	}
	return nil
}

// Assignment is one id=value override.
type Assignment struct {
	ID    string
	Value string
}

// Assignments collects repeated -set flags in order.
type Assignments []Assignment

func (a *Assignments) String() string {
	if a == nil {
		return ""
	}
	parts := make([]string, len(*a))
	for i, s := range *a {
		parts[i] = s.ID + "=" + s.Value
	}
	return strings.Join(parts, ",")
}

func (a *Assignments) Set(s string) error {
	id, value, ok := strings.Cut(s, "=")
	id = strings.TrimSpace(id)
	if !ok || id == "" {
		return fmt.Errorf("expected id=value, got %q", s)
	}
	*a = append(*a, Assignment{ID: id, Value: strings.TrimSpace(value)})
	return nil
}

// Range is a control id with a numeric interval.
type Range struct {
	ID       string
	From, To float64
}

// ParseSweep parses id:from:to.
func ParseSweep(s string) (Range, error) {
	r, err := parseRange(s)
	if err != nil {
		return Range{}, fmt.Errorf("invalid -sweep: %w", err)
	}
	return r, nil
}

// ParseAudio parses id:min:max.
func ParseAudio(s string) (Range, error) {
	r, err := parseRange(s)
	if err != nil {
		return Range{}, fmt.Errorf("invalid -audio: %w", err)
	}
	return r, nil
}

func parseRange(s string) (Range, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 3 || parts[0] == "" {
		return Range{}, fmt.Errorf("expected id:from:to, got %q", s)
	}
	from, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return Range{}, err
	}
	to, err := strconv.ParseFloat(parts[2], 64)
	if err != nil {
		return Range{}, err
	}
	return Range{ID: parts[0], From: from, To: to}, nil
}

// ParseBand parses lo:hi in Hz.
func ParseBand(s string) (lo, hi float64, err error) {
	l, h, ok := strings.Cut(s, ":")
	if !ok {
		return 0, 0, fmt.Errorf("invalid -audio-band %q: expected lo:hi", s)
	}
	if lo, err = strconv.ParseFloat(l, 64); err != nil {
		return 0, 0, fmt.Errorf("invalid -audio-band: %w", err)
	}
	if hi, err = strconv.ParseFloat(h, 64); err != nil {
		return 0, 0, fmt.Errorf("invalid -audio-band: %w", err)
	}
	if lo < 0 || hi <= lo {
		return 0, 0, fmt.Errorf("invalid -audio-band %q: need 0 <= lo < hi", s)
	}
	return lo, hi, nil
}
