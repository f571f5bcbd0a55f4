package extract

import (
	"os"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

func loadTestDoc(t *testing.T, filename string) *goquery.Document {
	t.Helper()
	data, err := os.ReadFile("testdata/" + filename)
	if err != nil {
		t.Fatalf("reading test fixture %s: %v", filename, err)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(data)))
	if err != nil {
		t.Fatalf("parsing test fixture %s: %v", filename, err)
	}
	return doc
}

func equalLinks(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestScanRendered(t *testing.T) {
	doc := loadTestDoc(t, "rendered.html")
	got := scanRendered(doc, "https://example.com/watch/page")

	want := []string{
		"https://example.com/media/main.mp4",
		"https://example.com/watch/alt.webm",
		"https://cdn.example.com/og.mp4",
	}
	if !equalLinks(got, want) {
		t.Errorf("scanRendered = %v, want %v", got, want)
	}
}

func TestScanStatic(t *testing.T) {
	doc := loadTestDoc(t, "static.html")
	got := scanStatic(doc, "https://example.com/dir/page.html")

	want := []string{
		"https://cdn.example.com/a.mp4",
		"https://example.com/clips/b.WEBM?sig=1",
		"https://example.com/dir/c.mov",
	}
	if !equalLinks(got, want) {
		t.Errorf("scanStatic = %v, want %v", got, want)
	}
}

func TestScanEmpty(t *testing.T) {
	doc := loadTestDoc(t, "empty.html")
	if links := scanRendered(doc, "https://example.com/"); len(links) != 0 {
		t.Errorf("scanRendered = %v, want none", links)
	}
	if links := scanStatic(doc, "https://example.com/"); len(links) != 0 {
		t.Errorf("scanStatic = %v, want none", links)
	}
}

func TestPageTitle(t *testing.T) {
	tests := []struct {
		fixture string
		want    string
	}{
		{"rendered.html", "Demo Clip"},
		{"static.html", "Static Page"},
		{"empty.html", UnknownTitle},
	}

	for _, tt := range tests {
		t.Run(tt.fixture, func(t *testing.T) {
			if got := pageTitle(loadTestDoc(t, tt.fixture)); got != tt.want {
				t.Errorf("pageTitle = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestHasVideoExt(t *testing.T) {
	tests := []struct {
		ref  string
		want bool
	}{
		{"/a.mp4", true},
		{"/a.MOV", true},
		{"/a.webm?x=.png", true},
		{"/a.png?next=.mp4", false},
		{"/a.gif", false},
	}

	for _, tt := range tests {
		if got := hasVideoExt(tt.ref); got != tt.want {
			t.Errorf("hasVideoExt(%q) = %v, want %v", tt.ref, got, tt.want)
		}
	}
}
