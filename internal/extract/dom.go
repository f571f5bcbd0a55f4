package extract

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"vidgrab/internal/httputil"
)

// staticVideoExts marks <img src> values that actually point at video files.
var staticVideoExts = []string{".mp4", ".webm", ".mov"}

// linkSet collects absolute media URLs in discovery order, without repeats.
type linkSet struct {
	base  *url.URL
	seen  map[string]bool
	links []string
}

func newLinkSet(pageURL string) *linkSet {
	base, _ := url.Parse(pageURL)
	return &linkSet{base: base, seen: map[string]bool{}}
}

func (l *linkSet) add(ref string) {
	abs, ok := httputil.Resolve(l.base, ref)
	if !ok || l.seen[abs] {
		return
	}
	l.seen[abs] = true
	l.links = append(l.links, abs)
}

// addAbsolute accepts only references that are already absolute, which
// keeps values such as og:video:width out of the list.
func (l *linkSet) addAbsolute(ref string) {
	u, err := url.Parse(strings.TrimSpace(ref))
	if err != nil || !u.IsAbs() {
		return
	}
	l.add(ref)
}

// scanRendered collects <video src>, nested <source src> and video-related
// <meta property> values from a rendered document.
func scanRendered(doc *goquery.Document, pageURL string) []string {
	links := newLinkSet(pageURL)

	doc.Find("video").Each(func(_ int, v *goquery.Selection) {
		if src, ok := v.Attr("src"); ok {
			links.add(src)
		}
		v.Find("source").Each(func(_ int, s *goquery.Selection) {
			if src, ok := s.Attr("src"); ok {
				links.add(src)
			}
		})
	})

	doc.Find("meta").Each(func(_ int, m *goquery.Selection) {
		property := strings.ToLower(m.AttrOr("property", ""))
		if !strings.Contains(property, "video") {
			return
		}
		if content, ok := m.Attr("content"); ok {
			links.addAbsolute(content)
		}
	})

	return links.links
}

// scanStatic collects <video src> and <img src> values whose path names a
// video file.
func scanStatic(doc *goquery.Document, pageURL string) []string {
	links := newLinkSet(pageURL)

	doc.Find("video[src]").Each(func(_ int, v *goquery.Selection) {
		links.add(v.AttrOr("src", ""))
	})

	doc.Find("img[src]").Each(func(_ int, img *goquery.Selection) {
		src := img.AttrOr("src", "")
		if hasVideoExt(src) {
			links.add(src)
		}
	})

	return links.links
}

func hasVideoExt(ref string) bool {
	path := ref
	if u, err := url.Parse(strings.TrimSpace(ref)); err == nil {
		path = u.Path
	}
	path = strings.ToLower(path)
	for _, ext := range staticVideoExts {
		if strings.Contains(path, ext) {
			return true
		}
	}
	return false
}

// pageTitle returns the trimmed <title> text or UnknownTitle.
func pageTitle(doc *goquery.Document) string {
	title := strings.Join(strings.Fields(doc.Find("title").First().Text()), " ")
	return orDefault(title, UnknownTitle)
}
