package format

import (
	"fmt"
	"strings"

	"vidgrab/internal/media"
)

// FromLinks maps a bare list of media URLs onto canonical formats. Every link
// is assumed to be a combined mp4 stream of unknown size; ids are
// "{prefix}_{n}" in discovery order.
func FromLinks(prefix, quality string, links []string) []media.MediaFormat {
	out := make([]media.MediaFormat, 0, len(links))
	for _, link := range links {
		link = strings.TrimSpace(link)
		if link == "" {
			continue
		}
		out = append(out, media.MediaFormat{
			FormatID:  fmt.Sprintf("%s_%d", prefix, len(out)),
			Quality:   quality,
			Container: "mp4",
			SizeHuman: HumanSize(nil),
			SourceURL: link,
			HasVideo:  true,
			HasAudio:  true,
			Kind:      media.KindVideo,
		})
	}
	return out
}
