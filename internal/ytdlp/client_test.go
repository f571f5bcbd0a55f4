package ytdlp

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"
)

type fakeRunner struct {
	out  string
	err  error
	name string
	args []string
}

func (f *fakeRunner) Run(_ context.Context, name string, args ...string) ([]byte, error) {
	f.name = name
	f.args = args
	if f.err != nil {
		return nil, f.err
	}
	return []byte(f.out), nil
}

const sampleInfo = `{
  "id": "abc",
  "title": "Sample Clip",
  "duration": 61.4,
  "uploader": "someone",
  "extractor_key": "Youtube",
  "webpage_url": "https://www.youtube.com/watch?v=abc",
  "formats": [
    {"format_id": "18", "url": "https://cdn/18", "ext": "mp4", "width": 640, "height": 360, "vcodec": "avc1", "acodec": "mp4a", "filesize": 1234},
    {"format_id": "140", "url": "https://cdn/140", "ext": "m4a", "vcodec": "none", "acodec": "mp4a", "abr": 129.4, "filesize_approx": 900.0}
  ],
  "subtitles": {"en": [{"ext": "vtt", "url": "https://cdn/en.vtt"}]},
  "automatic_captions": {"de": [{"ext": "srv1", "url": "https://cdn/de.srv1"}]}
}`

func TestInfo(t *testing.T) {
	runner := &fakeRunner{out: sampleInfo}
	c := New("/opt/yt-dlp", 30*time.Second, WithRunner(runner))

	info, err := c.Info(context.Background(), "https://www.youtube.com/watch?v=abc")
	if err != nil {
		t.Fatalf("Info() error: %v", err)
	}

	if runner.name != "/opt/yt-dlp" {
		t.Errorf("binary = %q, want /opt/yt-dlp", runner.name)
	}
	joined := strings.Join(runner.args, " ")
	for _, want := range []string{"-J", "--no-playlist", "--socket-timeout 30", "-- https://www.youtube.com/watch?v=abc"} {
		if !strings.Contains(joined, want) {
			t.Errorf("args %q missing %q", joined, want)
		}
	}

	if info.Title != "Sample Clip" || info.ExtractorKey != "Youtube" {
		t.Errorf("info = %+v", info)
	}
	if len(info.Formats) != 2 {
		t.Fatalf("expected 2 formats, got %d", len(info.Formats))
	}
	if info.Formats[1].FileSizeApprox != 900 || info.Formats[1].ABR != 129.4 {
		t.Errorf("audio format = %+v", info.Formats[1])
	}
}

func TestInfoRunnerError(t *testing.T) {
	runner := &fakeRunner{err: &ExitError{Stderr: "ERROR: Unsupported URL", Err: errors.New("exit status 1")}}
	c := New("", 0, WithRunner(runner))

	_, err := c.Info(context.Background(), "https://example.com")
	if err == nil {
		t.Fatal("expected error")
	}
	var exitErr *ExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("error %v is not an ExitError", err)
	}
	if !strings.Contains(err.Error(), "Unsupported URL") {
		t.Errorf("error %q should carry stderr", err)
	}
	if runner.name != "yt-dlp" {
		t.Errorf("default binary = %q, want yt-dlp", runner.name)
	}
}

func TestInfoBadJSON(t *testing.T) {
	c := New("", 0, WithRunner(&fakeRunner{out: "not json"}))
	if _, err := c.Info(context.Background(), "https://example.com"); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestCaptions(t *testing.T) {
	runner := &fakeRunner{out: sampleInfo}
	c := New("", 0, WithRunner(runner))

	caps, err := c.Captions(context.Background(), "https://www.youtube.com/watch?v=abc")
	if err != nil {
		t.Fatalf("Captions() error: %v", err)
	}
	if !strings.Contains(strings.Join(runner.args, " "), "--skip-download") {
		t.Errorf("args %v missing --skip-download", runner.args)
	}
	if len(caps.Manual["en"]) != 1 || caps.Manual["en"][0].Ext != "vtt" {
		t.Errorf("manual = %+v", caps.Manual)
	}
	if len(caps.Automatic["de"]) != 1 {
		t.Errorf("automatic = %+v", caps.Automatic)
	}
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name     string
		out      string
		formatID string
		wantURL  string
		wantExt  string
		wantSize int64
		wantErr  bool
	}{
		{
			name:     "single format",
			out:      `{"title":"T","url":"https://cdn/22","ext":"webm","filesize":99}`,
			formatID: "22",
			wantURL:  "https://cdn/22",
			wantExt:  "webm",
			wantSize: 99,
		},
		{
			name:     "merged formats",
			out:      `{"title":"T","requested_formats":[{"url":"https://cdn/v","filesize":5},{"url":"https://cdn/a"}]}`,
			formatID: "",
			wantURL:  "https://cdn/v",
			wantExt:  "mp4",
			wantSize: 5,
		},
		{
			name:    "no url",
			out:     `{"title":"T"}`,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			runner := &fakeRunner{out: tt.out}
			c := New("", 0, WithRunner(runner))

			link, err := c.Resolve(context.Background(), "https://example.com/v", tt.formatID)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Resolve() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			want := tt.formatID
			if want == "" {
				want = "best"
			}
			if !strings.Contains(strings.Join(runner.args, " "), "-f "+want) {
				t.Errorf("args %v missing -f %s", runner.args, want)
			}
			if link.URL != tt.wantURL || link.Ext != tt.wantExt || link.FileSize != tt.wantSize {
				t.Errorf("link = %+v", link)
			}
		})
	}
}

func TestLastLine(t *testing.T) {
	if got := lastLine("WARNING: x\nERROR: boom\n"); got != "ERROR: boom" {
		t.Errorf("lastLine() = %q", got)
	}
}
