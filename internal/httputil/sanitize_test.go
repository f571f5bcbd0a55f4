package httputil

import (
	"net/url"
	"path/filepath"
	"strings"
	"testing"
)

func TestValidateURL(t *testing.T) {
	tests := []struct {
		name    string
		url     string
		wantErr bool
	}{
		{"valid HTTPS", "https://example.com/path", false},
		{"valid HTTP", "http://example.com/path", false},
		{"surrounding spaces", "  https://example.com  ", false},
		{"javascript scheme rejected", "javascript:alert(1)", true},
		{"data scheme rejected", "data:text/html,<h1>Hi</h1>", true},
		{"FTP rejected", "ftp://example.com/file", true},
		{"file rejected", "file:///etc/passwd", true},
		{"empty string", "", true},
		{"no host", "https://", true},
		{"valid with port", "https://example.com:8080/path", false},
		{"valid with query", "https://example.com/path?q=test&a=b", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateURL(tt.url)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateURL(%q) error = %v, wantErr %v", tt.url, err, tt.wantErr)
			}
		})
	}
}

func TestResolve(t *testing.T) {
	base, _ := url.Parse("https://example.com/videos/page.html")

	tests := []struct {
		name   string
		ref    string
		want   string
		wantOK bool
	}{
		{"absolute", "https://cdn.example.com/a.mp4", "https://cdn.example.com/a.mp4", true},
		{"root relative", "/media/a.mp4", "https://example.com/media/a.mp4", true},
		{"relative", "clip.webm", "https://example.com/videos/clip.webm", true},
		{"protocol relative", "//cdn.example.com/b.mp4", "https://cdn.example.com/b.mp4", true},
		{"blob", "blob:https://example.com/1234", "", false},
		{"data", "data:video/mp4;base64,AAAA", "", false},
		{"empty", "   ", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Resolve(base, tt.ref)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("Resolve(%q) = %q, %v; want %q, %v", tt.ref, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestValidateFormatID(t *testing.T) {
	tests := []struct {
		name    string
		id      string
		wantErr bool
	}{
		{"plain", "137", false},
		{"best", "best", false},
		{"selector", "bestvideo[height<=1080]+bestaudio/best", false},
		{"empty", "", true},
		{"leading dash", "--exec", true},
		{"space", "best --exec", true},
		{"newline", "18\n22", true},
		{"too long", strings.Repeat("a", 300), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateFormatID(tt.id)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateFormatID(%q) error = %v, wantErr %v", tt.id, err, tt.wantErr)
			}
		})
	}
}

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"normal title", "My Holiday.mp4", "My Holiday.mp4"},
		{"slash in title", "AC/DC Live.mp4", "AC_DC Live.mp4"},
		{"path traversal", "../../etc/passwd", "_._etc_passwd"},
		{"null bytes", "clip\x00.mp4", "clip.mp4"},
		{"Windows special chars", "clip<>:\"|?*.mp4", "clip_______.mp4"},
		{"double dots", "clip..mp4", "clip.mp4"},
		{"control chars", "line\nbreak\t.mp4", "linebreak.mp4"},
		{"empty string", "", "untitled"},
		{"just dots", "..", "untitled"},
		{"just dot", ".", "untitled"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SanitizeFilename(tt.input)
			if got != tt.expected {
				t.Errorf("SanitizeFilename(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestSanitizeFilenameLength(t *testing.T) {
	got := SanitizeFilename(strings.Repeat("é", 300))
	if len(got) > maxFilenameBytes {
		t.Errorf("length = %d, want <= %d", len(got), maxFilenameBytes)
	}
	if !strings.HasPrefix(got, "é") || strings.ContainsRune(got, '�') {
		t.Errorf("truncation split a rune: %q", got[len(got)-4:])
	}
}

func TestSafeDownloadPath(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name     string
		filename string
	}{
		{"normal", "clip.mp4"},
		{"path traversal attempt", "../../etc/passwd"},
		{"shell injection", "$(whoami).mp4"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path, err := SafeDownloadPath(dir, tt.filename)
			if err != nil {
				t.Fatalf("SafeDownloadPath(%q) error: %v", tt.filename, err)
			}
			if filepath.Dir(path) != dir {
				t.Errorf("path %q escapes %q", path, dir)
			}
		})
	}
}
