// Package format reconciles source-specific stream descriptors into the
// canonical media.MediaFormat catalogue.
package format

import (
	"fmt"
	"sort"
	"strings"

	"vidgrab/internal/media"
)

// minVideoOnlyHeight suppresses video-only streams below 720p; without an
// audio track they are rarely worth offering.
const minVideoOnlyHeight = 720

// Raw is one stream descriptor as reported by a metadata source.
// Zero values mean "not reported".
type Raw struct {
	FormatID       string
	URL            string
	Ext            string
	Width          int
	Height         int
	FPS            float64
	VCodec         string
	ACodec         string
	ABR            float64
	FileSize       int64
	FileSizeApprox int64
}

// Parent carries page-level values used when no individual format survives.
type Parent struct {
	URL      string
	Ext      string
	FileSize int64
}

var audioContainers = map[string]bool{
	"mp3": true, "m4a": true, "opus": true, "wav": true,
}

// Normalize filters, orders, classifies and deduplicates raw descriptors.
func Normalize(raws []Raw, parent Parent) []media.MediaFormat {
	candidates := make([]Raw, 0, len(raws))
	for _, r := range raws {
		if strings.TrimSpace(r.URL) == "" {
			continue
		}
		candidates = append(candidates, r)
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.Height != b.Height {
			return a.Height > b.Height
		}
		return a.size() > b.size()
	})

	var (
		out       []media.MediaFormat
		combined  = map[string]int{} // quality label -> index into out
		videoOnly = map[string]bool{}
		seenAudio bool
	)
	for _, r := range candidates {
		hasVideo := present(r.VCodec)
		hasAudio := present(r.ACodec)
		ext := r.Ext
		if ext == "" {
			ext = "mp4"
		}

		switch {
		case hasVideo && hasAudio:
			quality := "Best Quality"
			if r.Height > 0 {
				quality = fmt.Sprintf("%dp", r.Height)
			}
			f := r.base(quality, ext, media.KindVideo)
			f.HasVideo, f.HasAudio = true, true
			f.VideoCodec, f.AudioCodec = r.VCodec, r.ACodec

			// First entry per label wins, except mp4 which plays everywhere:
			// it displaces a non-mp4 holder and is never dropped.
			idx, taken := combined[quality]
			switch {
			case !taken:
				combined[quality] = len(out)
				out = append(out, f)
			case ext != "mp4":
				continue
			case out[idx].Container != "mp4":
				out[idx] = f
			default:
				out = append(out, f)
			}

		case hasVideo:
			if r.Height < minVideoOnlyHeight {
				continue
			}
			quality := fmt.Sprintf("%dp (Video Only)", r.Height)
			if videoOnly[quality] {
				continue
			}
			videoOnly[quality] = true
			f := r.base(quality, ext, media.KindVideoOnly)
			f.HasVideo = true
			f.VideoCodec = r.VCodec
			out = append(out, f)

		case hasAudio:
			if seenAudio {
				continue
			}
			seenAudio = true
			quality := "Audio Only"
			if r.ABR > 0 {
				quality = fmt.Sprintf("Audio Only (%dkbps)", int(r.ABR))
			}
			if !audioContainers[ext] {
				ext = "mp3"
			}
			f := r.base(quality, ext, media.KindAudio)
			f.HasAudio = true
			f.AudioCodec = r.ACodec
			f.AudioBitrate = r.ABR
			f.Resolution = ""
			f.FrameRate = 0
			out = append(out, f)
		}
	}

	if len(out) == 0 && strings.TrimSpace(parent.URL) != "" {
		ext := parent.Ext
		if ext == "" {
			ext = "mp4"
		}
		out = append(out, media.MediaFormat{
			FormatID:  "best",
			Quality:   "Best Available",
			Container: ext,
			SizeBytes: knownSize(parent.FileSize),
			SourceURL: parent.URL,
			HasVideo:  true,
			HasAudio:  true,
			Kind:      media.KindVideo,
		})
	}

	for i := range out {
		out[i].SizeHuman = HumanSize(out[i].SizeBytes)
	}
	return out
}

func (r Raw) size() int64 {
	if r.FileSize > 0 {
		return r.FileSize
	}
	if r.FileSizeApprox > 0 {
		return r.FileSizeApprox
	}
	return 0
}

func (r Raw) base(quality, ext string, kind media.Kind) media.MediaFormat {
	f := media.MediaFormat{
		FormatID:  r.FormatID,
		Quality:   quality,
		Container: ext,
		SizeBytes: knownSize(r.size()),
		SourceURL: r.URL,
		Kind:      kind,
		FrameRate: r.FPS,
	}
	if r.Width > 0 && r.Height > 0 {
		f.Resolution = fmt.Sprintf("%dx%d", r.Width, r.Height)
	}
	return f
}

// present reports whether a codec field names an actual track.
func present(codec string) bool {
	c := strings.TrimSpace(codec)
	return c != "" && !strings.EqualFold(c, "none")
}

func knownSize(n int64) *int64 {
	if n <= 0 {
		return nil
	}
	return &n
}
