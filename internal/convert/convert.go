// Package convert describes the conversion targets the service advertises
// and builds conversion plans. It never transcodes.
package convert

import (
	"errors"
	"fmt"
	"strings"

	"vidgrab/internal/media"
)

// ErrUnsupportedFormat is returned by NewPlan for unknown targets.
var ErrUnsupportedFormat = errors.New("unsupported format")

const (
	DefaultFormat  = "mp4"
	DefaultQuality = "medium"
)

// Target is one output container and the encoder used for it.
type Target struct {
	Ext   string     `json:"ext"`
	Codec string     `json:"codec"`
	Type  media.Kind `json:"type"`
}

// Settings are the bitrates for one quality tier.
type Settings struct {
	VideoBitrate string `json:"video_bitrate"`
	AudioBitrate string `json:"audio_bitrate"`
}

// order fixes listing order for Names and Supported.
var order = []string{"mp3", "mp4", "webm", "aac", "ogg", "m4a", "3gp"}

var targets = map[string]Target{
	"mp3":  {Ext: "mp3", Codec: "libmp3lame", Type: media.KindAudio},
	"mp4":  {Ext: "mp4", Codec: "libx264", Type: media.KindVideo},
	"webm": {Ext: "webm", Codec: "libvpx", Type: media.KindVideo},
	"aac":  {Ext: "aac", Codec: "aac", Type: media.KindAudio},
	"ogg":  {Ext: "ogg", Codec: "libvorbis", Type: media.KindAudio},
	"m4a":  {Ext: "m4a", Codec: "aac", Type: media.KindAudio},
	"3gp":  {Ext: "3gp", Codec: "h263", Type: media.KindVideo},
}

var qualities = map[string]Settings{
	"high":   {VideoBitrate: "1500k", AudioBitrate: "320k"},
	"medium": {VideoBitrate: "1000k", AudioBitrate: "192k"},
	"low":    {VideoBitrate: "500k", AudioBitrate: "128k"},
}

// Plan is what a client needs to perform a conversion itself.
type Plan struct {
	Format     string     `json:"format"`
	FormatType media.Kind `json:"format_type"`
	Codec      string     `json:"codec"`
	Quality    string     `json:"quality"`
	Settings   Settings   `json:"settings"`
	Message    string     `json:"message"`
}

// Catalogue lists every target grouped by type.
type Catalogue struct {
	Formats      map[string]Target `json:"formats"`
	AudioFormats []string          `json:"audio_formats"`
	VideoFormats []string          `json:"video_formats"`
}

// Names returns the target names in listing order.
func Names() []string {
	return append([]string(nil), order...)
}

// Lookup returns the target for name.
func Lookup(name string) (Target, bool) {
	t, ok := targets[strings.ToLower(strings.TrimSpace(name))]
	return t, ok
}

// SettingsFor returns the bitrates for quality; unknown tiers get medium.
func SettingsFor(quality string) Settings {
	if s, ok := qualities[strings.ToLower(strings.TrimSpace(quality))]; ok {
		return s
	}
	return qualities[DefaultQuality]
}

// NewPlan validates format and resolves quality. Empty values take the
// defaults; the quality label is echoed even when it fell back to medium.
func NewPlan(format, quality string) (*Plan, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = DefaultFormat
	}
	if strings.TrimSpace(quality) == "" {
		quality = DefaultQuality
	}

	t, ok := targets[format]
	if !ok {
		return nil, fmt.Errorf("%w: %s. Supported: %s", ErrUnsupportedFormat, format, strings.Join(order, ", "))
	}

	return &Plan{
		Format:     format,
		FormatType: t.Type,
		Codec:      t.Codec,
		Quality:    quality,
		Settings:   SettingsFor(quality),
		Message:    fmt.Sprintf("Ready to convert to %s", strings.ToUpper(format)),
	}, nil
}

// Supported returns the full catalogue.
func Supported() Catalogue {
	c := Catalogue{
		Formats:      make(map[string]Target, len(targets)),
		AudioFormats: []string{},
		VideoFormats: []string{},
	}
	for _, name := range order {
		t := targets[name]
		c.Formats[name] = t
		if t.Type == media.KindAudio {
			c.AudioFormats = append(c.AudioFormats, name)
		} else {
			c.VideoFormats = append(c.VideoFormats, name)
		}
	}
	return c
}
