package extract

import (
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"vidgrab/internal/format"
	"vidgrab/internal/media"
)

// Renderer loads a page in a scripted browser and returns the final DOM.
type Renderer interface {
	Render(ctx context.Context, pageURL string) (string, error)
}

// RenderedDOM scans a browser-rendered document for media links.
type RenderedDOM struct {
	renderer Renderer
}

func NewRenderedDOM(renderer Renderer) *RenderedDOM {
	return &RenderedDOM{renderer: renderer}
}

func (s *RenderedDOM) Method() media.Method { return media.MethodRenderedDOM }

func (s *RenderedDOM) Attempt(ctx context.Context, pageURL string) Outcome {
	html, err := s.renderer.Render(ctx, pageURL)
	if err != nil {
		return Failure(s.Method(), classify(ctx, err, ErrUnsupported, s.Method(), "render page"))
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return Failure(s.Method(), Wrap(ErrUnsupported, s.Method(), "parse rendered DOM", err))
	}

	links := scanRendered(doc, pageURL)
	if len(links) == 0 {
		return Failure(s.Method(), Wrap(ErrNoMediaFound, s.Method(), "no video elements", nil))
	}

	return Success(s.Method(), &media.ExtractionResult{
		Title:      pageTitle(doc),
		Platform:   "Browser Extraction",
		WebpageURL: pageURL,
		Uploader:   "Unknown",
		Formats:    format.FromLinks("browser", "Best Available", links),
	})
}
