// Package media defines shared types for the vidgrab application.
package media

import "time"

// Kind classifies a stream by the tracks it carries.
type Kind string

const (
	KindVideo     Kind = "video"
	KindVideoOnly Kind = "video-only"
	KindAudio     Kind = "audio"
)

// Method identifies the extraction strategy that produced a result.
type Method string

const (
	MethodRichMetadata Method = "rich-metadata"
	MethodRenderedDOM  Method = "rendered-dom"
	MethodStaticHTML   Method = "static-html"
)

func (m Method) String() string {
	return string(m)
}

// MediaFormat is a source-independent descriptor of one downloadable stream.
type MediaFormat struct {
	FormatID     string  `json:"format_id"`
	Quality      string  `json:"quality"`
	Container    string  `json:"ext"`
	SizeBytes    *int64  `json:"filesize"`
	SizeHuman    string  `json:"filesize_readable"`
	SourceURL    string  `json:"url"`
	HasVideo     bool    `json:"has_video"`
	HasAudio     bool    `json:"has_audio"`
	Kind         Kind    `json:"type"`
	Resolution   string  `json:"resolution,omitempty"`
	FrameRate    float64 `json:"fps,omitempty"`
	VideoCodec   string  `json:"vcodec,omitempty"`
	AudioCodec   string  `json:"acodec,omitempty"`
	AudioBitrate float64 `json:"abr,omitempty"`
}

// ExtractionResult is the metadata and format catalogue for one page.
type ExtractionResult struct {
	Title       string        `json:"title"`
	Description string        `json:"description,omitempty"`
	Platform    string        `json:"platform"`
	WebpageURL  string        `json:"webpage_url"`
	Duration    int           `json:"duration"`
	Thumbnail   string        `json:"thumbnail"`
	Uploader    string        `json:"uploader"`
	ViewCount   int64         `json:"view_count,omitempty"`
	LikeCount   int64         `json:"like_count,omitempty"`
	UploadDate  string        `json:"upload_date,omitempty"`
	Formats     []MediaFormat `json:"formats"`
}

// SubtitleType distinguishes uploaded tracks from generated captions.
type SubtitleType string

const (
	SubtitleManual    SubtitleType = "manual"
	SubtitleAutomatic SubtitleType = "automatic"
)

// SubtitleTrack is one caption file in one format.
type SubtitleTrack struct {
	Language     string       `json:"language"`
	LanguageName string       `json:"language_name"`
	Type         SubtitleType `json:"type"`
	Format       string       `json:"format"`
	URL          string       `json:"url"`
}

// SubtitleReport summarizes the caption tracks available for a page.
type SubtitleReport struct {
	Available          bool            `json:"available"`
	ManualLanguages    []string        `json:"manual_subtitles"`
	AutomaticLanguages []string        `json:"automatic_captions"`
	Tracks             []SubtitleTrack `json:"subtitle_data"`
	Message            string          `json:"message"`
}

// DirectLink is the resolved byte-stream location for one format.
type DirectLink struct {
	URL      string `json:"url"`
	Title    string `json:"title"`
	Ext      string `json:"ext"`
	FileSize int64  `json:"filesize"`
}

// HistoryEntry is one row of the extraction log.
type HistoryEntry struct {
	ID          string    `json:"id"`
	URL         string    `json:"url"`
	Title       string    `json:"title"`
	Method      Method    `json:"method,omitempty"`
	FormatCount int       `json:"format_count"`
	Succeeded   bool      `json:"succeeded"`
	CreatedAt   time.Time `json:"created_at"`
}
