package data

import "testing"

func TestParseTrack(t *testing.T) {
	cases := map[string]Track{
		"dub":   TrackDub,
		" DUB ": TrackDub,
		"sub":   TrackSub,
		"":      TrackSub,
		"raw":   TrackSub,
	}
	for in, want := range cases {
		if got := ParseTrack(in); got != want {
			t.Errorf("ParseTrack(%q) = %s, want %s", in, got, want)
		}
	}
}

func TestShowEpisodeCount(t *testing.T) {
	show := Show{ID: "x", Episodes: map[Track]int{TrackSub: 24}}

	if show.EpisodeCount(TrackSub) != 24 {
		t.Errorf("Expected 24 sub episodes, got %d", show.EpisodeCount(TrackSub))
	}
	if show.EpisodeCount(TrackDub) != 0 {
		t.Errorf("Expected 0 dub episodes, got %d", show.EpisodeCount(TrackDub))
	}

	var empty Show
	if empty.EpisodeCount(TrackSub) != 0 {
		t.Error("Expected 0 for show without counts")
	}
}

func TestStreamModel(t *testing.T) {
	s := Stream{URL: "https://cdn/x/master.m3u8", Quality: "720p", Format: ContainerSegmented}
	if !s.IsSegmented() {
		t.Error("Expected stream to be segmented")
	}

	s.Format = ContainerProgressive
	if s.IsSegmented() {
		t.Error("Expected stream to be progressive")
	}
}

func TestPreferenceString(t *testing.T) {
	if PreferBest.String() != "best" {
		t.Errorf("Expected best, got %s", PreferBest.String())
	}
	if PreferWorst.String() != "worst" {
		t.Errorf("Expected worst, got %s", PreferWorst.String())
	}
	if PreferLabel("720").String() != "720" {
		t.Errorf("Expected 720, got %s", PreferLabel("720").String())
	}
}
