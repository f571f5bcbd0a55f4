package convert

import (
	"errors"
	"strings"
	"testing"

	"vidgrab/internal/media"
)

func TestNewPlan(t *testing.T) {
	tests := []struct {
		name        string
		format      string
		quality     string
		wantFormat  string
		wantCodec   string
		wantType    media.Kind
		wantQuality string
		wantVideo   string
		wantAudio   string
	}{
		{"defaults", "", "", "mp4", "libx264", media.KindVideo, "medium", "1000k", "192k"},
		{"mp3 high", "mp3", "high", "mp3", "libmp3lame", media.KindAudio, "high", "1500k", "320k"},
		{"webm low", "WEBM", "low", "webm", "libvpx", media.KindVideo, "low", "500k", "128k"},
		{"unknown quality", "ogg", "ultra", "ogg", "libvorbis", media.KindAudio, "ultra", "1000k", "192k"},
		{"3gp", " 3gp ", "medium", "3gp", "h263", media.KindVideo, "medium", "1000k", "192k"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewPlan(tt.format, tt.quality)
			if err != nil {
				t.Fatalf("NewPlan error: %v", err)
			}
			if p.Format != tt.wantFormat || p.Codec != tt.wantCodec || p.FormatType != tt.wantType {
				t.Errorf("plan = %+v", p)
			}
			if p.Quality != tt.wantQuality {
				t.Errorf("Quality = %q, want %q", p.Quality, tt.wantQuality)
			}
			if p.Settings.VideoBitrate != tt.wantVideo || p.Settings.AudioBitrate != tt.wantAudio {
				t.Errorf("Settings = %+v", p.Settings)
			}
			if p.Message != "Ready to convert to "+strings.ToUpper(tt.wantFormat) {
				t.Errorf("Message = %q", p.Message)
			}
		})
	}
}

func TestNewPlanUnsupported(t *testing.T) {
	_, err := NewPlan("avi", "")
	if !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("err = %v, want ErrUnsupportedFormat", err)
	}
	if !strings.Contains(err.Error(), "mp3, mp4, webm, aac, ogg, m4a, 3gp") {
		t.Errorf("error should list supported formats: %v", err)
	}
}

func TestSupported(t *testing.T) {
	c := Supported()
	if len(c.Formats) != 7 {
		t.Errorf("got %d formats, want 7", len(c.Formats))
	}
	if got := strings.Join(c.AudioFormats, ","); got != "mp3,aac,ogg,m4a" {
		t.Errorf("AudioFormats = %s", got)
	}
	if got := strings.Join(c.VideoFormats, ","); got != "mp4,webm,3gp" {
		t.Errorf("VideoFormats = %s", got)
	}
	if c.Formats["m4a"].Codec != "aac" {
		t.Errorf("m4a codec = %q", c.Formats["m4a"].Codec)
	}
}

func TestLookup(t *testing.T) {
	if _, ok := Lookup("MP3"); !ok {
		t.Error("Lookup should be case-insensitive")
	}
	if _, ok := Lookup("flac"); ok {
		t.Error("flac is not a target")
	}
	if len(Names()) != 7 {
		t.Errorf("Names = %v", Names())
	}
}
