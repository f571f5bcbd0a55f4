package extract

import (
	"context"

	"vidgrab/internal/format"
	"vidgrab/internal/media"
	"vidgrab/internal/ytdlp"
)

// InfoFetcher is the rich-metadata capability, satisfied by *ytdlp.Client.
type InfoFetcher interface {
	Info(ctx context.Context, pageURL string) (*ytdlp.Info, error)
}

// RichMetadata asks an external metadata tool for the full format list.
type RichMetadata struct {
	fetcher InfoFetcher
}

func NewRichMetadata(fetcher InfoFetcher) *RichMetadata {
	return &RichMetadata{fetcher: fetcher}
}

func (s *RichMetadata) Method() media.Method { return media.MethodRichMetadata }

func (s *RichMetadata) Attempt(ctx context.Context, pageURL string) Outcome {
	info, err := s.fetcher.Info(ctx, pageURL)
	if err != nil {
		return Failure(s.Method(), classify(ctx, err, ErrUnsupported, s.Method(), "metadata lookup"))
	}

	formats := format.Normalize(toRaws(info.Formats), format.Parent{
		URL:      info.URL,
		Ext:      info.Ext,
		FileSize: info.FileSize,
	})

	return Success(s.Method(), &media.ExtractionResult{
		Title:       orDefault(info.Title, UnknownTitle),
		Description: info.Description,
		Platform:    orDefault(info.ExtractorKey, "Unknown"),
		WebpageURL:  orDefault(info.WebpageURL, pageURL),
		Duration:    int(info.Duration),
		Thumbnail:   info.Thumbnail,
		Uploader:    orDefault(info.Uploader, "Unknown"),
		ViewCount:   info.ViewCount,
		LikeCount:   info.LikeCount,
		UploadDate:  info.UploadDate,
		Formats:     formats,
	})
}

func toRaws(formats []ytdlp.Format) []format.Raw {
	raws := make([]format.Raw, 0, len(formats))
	for _, f := range formats {
		raws = append(raws, format.Raw{
			FormatID:       f.FormatID,
			URL:            f.URL,
			Ext:            f.Ext,
			Width:          f.Width,
			Height:         f.Height,
			FPS:            f.FPS,
			VCodec:         f.VCodec,
			ACodec:         f.ACodec,
			ABR:            f.ABR,
			FileSize:       f.FileSize,
			FileSizeApprox: int64(f.FileSizeApprox),
		})
	}
	return raws
}
