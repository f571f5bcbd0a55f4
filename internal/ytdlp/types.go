package ytdlp

// Info mirrors the subset of the yt-dlp info JSON this service reads.
type Info struct {
	ID                string                    `json:"id"`
	Title             string                    `json:"title"`
	Description       string                    `json:"description"`
	Duration          float64                   `json:"duration"`
	Thumbnail         string                    `json:"thumbnail"`
	Uploader          string                    `json:"uploader"`
	ViewCount         int64                     `json:"view_count"`
	LikeCount         int64                     `json:"like_count"`
	UploadDate        string                    `json:"upload_date"`
	ExtractorKey      string                    `json:"extractor_key"`
	WebpageURL        string                    `json:"webpage_url"`
	URL               string                    `json:"url"`
	Ext               string                    `json:"ext"`
	FileSize          int64                     `json:"filesize"`
	Formats           []Format                  `json:"formats"`
	RequestedFormats  []Format                  `json:"requested_formats"`
	Subtitles         map[string][]SubtitleFile `json:"subtitles"`
	AutomaticCaptions map[string][]SubtitleFile `json:"automatic_captions"`
}

// Format is one entry of Info.Formats.
type Format struct {
	FormatID       string  `json:"format_id"`
	URL            string  `json:"url"`
	Ext            string  `json:"ext"`
	Width          int     `json:"width"`
	Height         int     `json:"height"`
	FPS            float64 `json:"fps"`
	VCodec         string  `json:"vcodec"`
	ACodec         string  `json:"acodec"`
	ABR            float64 `json:"abr"`
	FileSize       int64   `json:"filesize"`
	FileSizeApprox float64 `json:"filesize_approx"`
}

// SubtitleFile is one format variant of a caption track.
type SubtitleFile struct {
	Ext  string `json:"ext"`
	URL  string `json:"url"`
	Name string `json:"name"`
}

// Captions holds the caption maps keyed by language code.
type Captions struct {
	Manual    map[string][]SubtitleFile
	Automatic map[string][]SubtitleFile
}
