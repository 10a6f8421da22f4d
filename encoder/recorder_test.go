package encoder_test

import (
	"testing"

	"github.com/richinsley/hexwater/encoder"
)

func TestArgsSoftware(t *testing.T) {
	in, out := encoder.Args(encoder.Config{Output: "sweep.mp4", Width: 767, Height: 512, FPS: 30, Codec: "h264"}, "linux")
	if in["f"] != "rawvideo" || in["pix_fmt"] != "rgba" {
		t.Errorf("input args %v", in)
	}
	if in["s"] != "768x512" {
		t.Errorf("input size %v, want even dimensions", in["s"])
	}
	if in["r"] != 30 {
		t.Errorf("rate %v", in["r"])
	}
	if out["c:v"] != "libx264" || out["pix_fmt"] != "yuv420p" {
		t.Errorf("output args %v", out)
	}
	if _, ok := out["tag:v"]; ok {
		t.Error("h264 must not carry the hvc1 tag")
	}
}

func TestArgsHEVC(t *testing.T) {
	_, out := encoder.Args(encoder.Config{Output: "sweep.MOV", Width: 2, Height: 2, FPS: 1, Codec: "hevc"}, "linux")
	if out["c:v"] != "libx265" {
		t.Errorf("codec %v", out["c:v"])
	}
	if out["tag:v"] != "hvc1" {
		t.Errorf("tag %v", out["tag:v"])
	}
	_, out = encoder.Args(encoder.Config{Output: "sweep.mkv", Width: 2, Height: 2, FPS: 1, Codec: "hevc"}, "linux")
	if _, ok := out["tag:v"]; ok {
		t.Error("hvc1 tag only applies to mp4 and mov")
	}
}

func TestArgsHWAccel(t *testing.T) {
	tests := []struct {
		goos, codec, want string
	}{
		{"darwin", "h264", "h264_videotoolbox"},
		{"darwin", "hevc", "hevc_videotoolbox"},
		{"linux", "h264", "h264_nvenc"},
		{"windows", "hevc", "hevc_nvenc"},
		{"freebsd", "h264", "libx264"},
	}
	for _, tt := range tests {
		_, out := encoder.Args(encoder.Config{Output: "a.mp4", Width: 2, Height: 2, FPS: 1, Codec: tt.codec, HWAccel: true}, tt.goos)
		if out["c:v"] != tt.want {
			t.Errorf("%s/%s: codec %v, want %s", tt.goos, tt.codec, out["c:v"], tt.want)
		}
	}
}

func TestNewRecorderValidates(t *testing.T) {
	bad := []encoder.Config{
		{Output: "a.mp4", Width: 0, Height: 2, FPS: 30},
		{Output: "a.mp4", Width: 2, Height: 2, FPS: 0},
		{Output: "", Width: 2, Height: 2, FPS: 30},
	}
	for _, cfg := range bad {
		if _, err := encoder.NewRecorder(cfg, "linux"); err == nil {
			t.Errorf("NewRecorder(%+v) accepted", cfg)
		}
	}
}
