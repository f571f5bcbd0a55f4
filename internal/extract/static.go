package extract

import (
	"bytes"
	"context"

	"github.com/PuerkitoBio/goquery"

	"vidgrab/internal/format"
	"vidgrab/internal/media"
)

// PageFetcher returns the raw HTML of a page, satisfied by *httputil.Fetcher.
type PageFetcher interface {
	Fetch(ctx context.Context, pageURL string) ([]byte, error)
}

// StaticHTML scans the unrendered page source for media links.
type StaticHTML struct {
	fetcher PageFetcher
}

func NewStaticHTML(fetcher PageFetcher) *StaticHTML {
	return &StaticHTML{fetcher: fetcher}
}

func (s *StaticHTML) Method() media.Method { return media.MethodStaticHTML }

func (s *StaticHTML) Attempt(ctx context.Context, pageURL string) Outcome {
	body, err := s.fetcher.Fetch(ctx, pageURL)
	if err != nil {
		return Failure(s.Method(), classify(ctx, err, ErrUnsupported, s.Method(), "fetch page"))
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return Failure(s.Method(), Wrap(ErrUnsupported, s.Method(), "parse HTML", err))
	}

	links := scanStatic(doc, pageURL)
	if len(links) == 0 {
		return Failure(s.Method(), Wrap(ErrNoMediaFound, s.Method(), "no video links", nil))
	}

	return Success(s.Method(), &media.ExtractionResult{
		Title:      pageTitle(doc),
		Platform:   "HTML Scraping",
		WebpageURL: pageURL,
		Uploader:   "Unknown",
		Formats:    format.FromLinks("html", "Available", links),
	})
}
