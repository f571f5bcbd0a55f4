package format

import (
	"testing"

	"vidgrab/internal/media"
)

func TestNormalizeMP4WinsQualityCollision(t *testing.T) {
	raws := []Raw{
		{FormatID: "webm-1080", URL: "https://cdn.example.com/a.webm", Ext: "webm", Width: 1920, Height: 1080, VCodec: "vp9", ACodec: "opus", FileSize: 2000},
		{FormatID: "mp4-1080", URL: "https://cdn.example.com/a.mp4", Ext: "mp4", Width: 1920, Height: 1080, VCodec: "avc1", ACodec: "mp4a", FileSize: 1000},
		{FormatID: "mp4-720", URL: "https://cdn.example.com/b.mp4", Ext: "mp4", Width: 1280, Height: 720, VCodec: "avc1", ACodec: "mp4a"},
	}

	got := Normalize(raws, Parent{})
	if len(got) != 2 {
		t.Fatalf("expected 2 formats, got %d: %+v", len(got), got)
	}
	if got[0].FormatID != "mp4-1080" || got[0].Container != "mp4" {
		t.Errorf("1080p survivor = %s/%s, want mp4-1080/mp4", got[0].FormatID, got[0].Container)
	}
	if got[0].Resolution != "1920x1080" {
		t.Errorf("resolution = %q, want 1920x1080", got[0].Resolution)
	}
	if got[1].Quality != "720p" {
		t.Errorf("got[1].Quality = %q, want 720p", got[1].Quality)
	}
}

func TestNormalizeKeepsEveryMP4(t *testing.T) {
	raws := []Raw{
		{FormatID: "a", URL: "https://x/a", Ext: "mp4", Height: 1080, VCodec: "avc1", ACodec: "mp4a", FileSize: 20},
		{FormatID: "b", URL: "https://x/b", Ext: "mp4", Height: 1080, VCodec: "avc1", ACodec: "mp4a", FileSize: 10},
	}

	got := Normalize(raws, Parent{})
	if len(got) != 2 {
		t.Fatalf("expected both mp4 entries, got %d", len(got))
	}
	if got[0].FormatID != "a" || got[1].FormatID != "b" {
		t.Errorf("order = %s,%s, want a,b", got[0].FormatID, got[1].FormatID)
	}
}

func TestNormalizeMP4FirstDropsLaterWebm(t *testing.T) {
	raws := []Raw{
		{FormatID: "mp4-1080", URL: "https://cdn.example.com/a.mp4", Ext: "mp4", Height: 1080, VCodec: "avc1", ACodec: "mp4a", FileSize: 3000},
		{FormatID: "webm-1080", URL: "https://cdn.example.com/a.webm", Ext: "webm", Height: 1080, VCodec: "vp9", ACodec: "opus", FileSize: 2000},
	}

	got := Normalize(raws, Parent{})
	if len(got) != 1 {
		t.Fatalf("expected 1 format, got %d: %+v", len(got), got)
	}
	if got[0].FormatID != "mp4-1080" || got[0].Container != "mp4" {
		t.Errorf("surviving format = %s/%s, want mp4-1080/mp4", got[0].FormatID, got[0].Container)
	}
	if got[0].Quality != "1080p" {
		t.Errorf("quality = %q, want 1080p", got[0].Quality)
	}
}

func TestNormalizeFirstWinsForNonMP4(t *testing.T) {
	raws := []Raw{
		{FormatID: "a", URL: "https://x/a", Ext: "webm", Height: 720, VCodec: "vp9", ACodec: "opus", FileSize: 50},
		{FormatID: "b", URL: "https://x/b", Ext: "webm", Height: 720, VCodec: "vp8", ACodec: "vorbis", FileSize: 10},
	}

	got := Normalize(raws, Parent{})
	if len(got) != 1 || got[0].FormatID != "a" {
		t.Fatalf("got %+v, want only format a", got)
	}
}

func TestNormalizeVideoOnlyThreshold(t *testing.T) {
	raws := []Raw{
		{FormatID: "v480", URL: "https://x/480", Ext: "mp4", Height: 480, VCodec: "avc1", ACodec: "none"},
		{FormatID: "v720", URL: "https://x/720", Ext: "mp4", Width: 1280, Height: 720, VCodec: "avc1", ACodec: "none"},
		{FormatID: "v2160", URL: "https://x/2160", Ext: "webm", Width: 3840, Height: 2160, VCodec: "vp9"},
		{FormatID: "v2160b", URL: "https://x/2160b", Ext: "mp4", Width: 3840, Height: 2160, VCodec: "av01"},
	}

	got := Normalize(raws, Parent{})
	if len(got) != 2 {
		t.Fatalf("expected 2 video-only formats, got %d: %+v", len(got), got)
	}
	for _, f := range got {
		if f.Kind != media.KindVideoOnly {
			t.Errorf("%s kind = %q, want video-only", f.FormatID, f.Kind)
		}
		if f.HasAudio || !f.HasVideo {
			t.Errorf("%s tracks = video:%v audio:%v", f.FormatID, f.HasVideo, f.HasAudio)
		}
	}
	if got[0].Quality != "2160p (Video Only)" {
		t.Errorf("got[0].Quality = %q, want '2160p (Video Only)'", got[0].Quality)
	}
	if got[1].Quality != "720p (Video Only)" || got[1].Resolution != "1280x720" {
		t.Errorf("got[1] = %q %q, want '720p (Video Only)' 1280x720", got[1].Quality, got[1].Resolution)
	}
}

func TestNormalizeAudio(t *testing.T) {
	tests := []struct {
		name        string
		raws        []Raw
		wantQuality string
		wantExt     string
	}{
		{
			"bitrate and m4a",
			[]Raw{{FormatID: "140", URL: "https://x/a", Ext: "m4a", ACodec: "mp4a.40.2", ABR: 129.5}},
			"Audio Only (129kbps)", "m4a",
		},
		{
			"webm coerced to mp3",
			[]Raw{{FormatID: "251", URL: "https://x/a", Ext: "webm", VCodec: "none", ACodec: "opus", ABR: 160}},
			"Audio Only (160kbps)", "mp3",
		},
		{
			"no bitrate",
			[]Raw{{FormatID: "a", URL: "https://x/a", Ext: "opus", ACodec: "opus"}},
			"Audio Only", "opus",
		},
		{
			"only first kept",
			[]Raw{
				{FormatID: "a", URL: "https://x/a", Ext: "m4a", ACodec: "mp4a", ABR: 128, FileSize: 900},
				{FormatID: "b", URL: "https://x/b", Ext: "m4a", ACodec: "mp4a", ABR: 48, FileSize: 300},
			},
			"Audio Only (128kbps)", "m4a",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.raws, Parent{})
			if len(got) != 1 {
				t.Fatalf("expected 1 audio format, got %d", len(got))
			}
			if got[0].Kind != media.KindAudio {
				t.Errorf("kind = %q, want audio", got[0].Kind)
			}
			if got[0].Quality != tt.wantQuality {
				t.Errorf("quality = %q, want %q", got[0].Quality, tt.wantQuality)
			}
			if got[0].Container != tt.wantExt {
				t.Errorf("ext = %q, want %q", got[0].Container, tt.wantExt)
			}
		})
	}
}

func TestNormalizeDropsUnusable(t *testing.T) {
	raws := []Raw{
		{FormatID: "nourl", Ext: "mp4", Height: 1080, VCodec: "avc1", ACodec: "mp4a"},
		{FormatID: "storyboard", URL: "https://x/sb", Ext: "mhtml", VCodec: "none", ACodec: "none"},
	}

	if got := Normalize(raws, Parent{}); len(got) != 0 {
		t.Errorf("expected no formats, got %+v", got)
	}
}

func TestNormalizeSortOrder(t *testing.T) {
	raws := []Raw{
		{FormatID: "360", URL: "https://x/360", Ext: "mp4", Height: 360, VCodec: "avc1", ACodec: "mp4a"},
		{FormatID: "nh", URL: "https://x/nh", Ext: "mp4", VCodec: "avc1", ACodec: "mp4a"},
		{FormatID: "720", URL: "https://x/720", Ext: "mp4", Height: 720, VCodec: "avc1", ACodec: "mp4a", FileSizeApprox: 10},
	}

	got := Normalize(raws, Parent{})
	want := []string{"720p", "360p", "Best Quality"}
	if len(got) != len(want) {
		t.Fatalf("expected %d formats, got %d", len(want), len(got))
	}
	for i, q := range want {
		if got[i].Quality != q {
			t.Errorf("got[%d].Quality = %q, want %q", i, got[i].Quality, q)
		}
	}
	if got[0].SizeBytes == nil || *got[0].SizeBytes != 10 {
		t.Errorf("approximate size not used: %v", got[0].SizeBytes)
	}
}

func TestNormalizeParentFallback(t *testing.T) {
	got := Normalize(nil, Parent{URL: "https://x/direct.webm", Ext: "webm", FileSize: 1536})
	if len(got) != 1 {
		t.Fatalf("expected fallback format, got %d", len(got))
	}
	f := got[0]
	if f.FormatID != "best" || f.Quality != "Best Available" || f.Kind != media.KindVideo {
		t.Errorf("fallback = %+v", f)
	}
	if !f.HasVideo || !f.HasAudio {
		t.Error("fallback should carry both tracks")
	}
	if f.Container != "webm" || f.SizeHuman != "1.5 KB" {
		t.Errorf("fallback container/size = %q/%q", f.Container, f.SizeHuman)
	}

	if got := Normalize(nil, Parent{}); len(got) != 0 {
		t.Errorf("no parent URL should yield nothing, got %+v", got)
	}
}

func TestNormalizeUniqueKindQuality(t *testing.T) {
	raws := []Raw{
		{FormatID: "1", URL: "https://x/1", Ext: "webm", Height: 1080, VCodec: "vp9"},
		{FormatID: "2", URL: "https://x/2", Ext: "webm", Height: 1080, VCodec: "vp9"},
		{FormatID: "3", URL: "https://x/3", Ext: "webm", Height: 480, VCodec: "vp9", ACodec: "opus"},
		{FormatID: "4", URL: "https://x/4", Ext: "3gp", Height: 480, VCodec: "h263", ACodec: "amr"},
		{FormatID: "5", URL: "https://x/5", Ext: "m4a", ACodec: "mp4a"},
		{FormatID: "6", URL: "https://x/6", Ext: "webm", ACodec: "opus"},
		{FormatID: "7", URL: "https://x/7", Ext: "mp4", Height: 360, VCodec: "avc1"},
	}

	got := Normalize(raws, Parent{})
	if len(got) != 3 {
		t.Fatalf("expected 3 formats, got %d: %+v", len(got), got)
	}

	seen := map[string]bool{}
	for _, f := range got {
		key := string(f.Kind) + "|" + f.Quality
		if seen[key] {
			t.Errorf("duplicate %s", key)
		}
		seen[key] = true
		if f.SizeHuman != "Unknown" {
			t.Errorf("%s size = %q, want Unknown", f.FormatID, f.SizeHuman)
		}
	}
	for _, id := range []string{"1", "3", "5"} {
		found := false
		for _, f := range got {
			if f.FormatID == id {
				found = true
			}
		}
		if !found {
			t.Errorf("format %s missing from %+v", id, got)
		}
	}
}

func TestFromLinks(t *testing.T) {
	got := FromLinks("browser", "Best Available", []string{"https://x/a.mp4", " ", "https://x/b.m3u8"})
	if len(got) != 2 {
		t.Fatalf("expected 2 formats, got %d", len(got))
	}
	for i, id := range []string{"browser_0", "browser_1"} {
		f := got[i]
		if f.FormatID != id {
			t.Errorf("got[%d].FormatID = %q, want %q", i, f.FormatID, id)
		}
		if f.Quality != "Best Available" || f.Container != "mp4" || f.Kind != media.KindVideo {
			t.Errorf("got[%d] = %+v", i, f)
		}
		if !f.HasVideo || !f.HasAudio || f.SizeBytes != nil || f.SizeHuman != "Unknown" {
			t.Errorf("got[%d] tracks/size = %+v", i, f)
		}
	}
}
