package ffprobe

import "testing"

func TestResultHelpers(t *testing.T) {
	result := Result{
		Streams: []Stream{
			{CodecType: "video", Width: 1280, Height: 720},
			{CodecType: "audio"},
		},
		Format: Format{Duration: "63.5"},
	}
	if !result.HasVideoStream() {
		t.Fatalf("expected a video stream")
	}
	if result.DurationSeconds() != 63.5 {
		t.Fatalf("unexpected duration: %v", result.DurationSeconds())
	}
	w, h := result.VideoDimensions()
	if w != 1280 || h != 720 {
		t.Fatalf("unexpected dimensions: %dx%d", w, h)
	}
}

func TestDurationFallsBackToStream(t *testing.T) {
	result := Result{
		Streams: []Stream{{CodecType: "video", Duration: "12.25"}},
		Format:  Format{Duration: "bad"},
	}
	if result.DurationSeconds() != 12.25 {
		t.Fatalf("unexpected duration: %v", result.DurationSeconds())
	}
}

func TestResultHelpersOnEmptyContainer(t *testing.T) {
	var result Result
	if result.HasVideoStream() {
		t.Fatalf("expected no video stream")
	}
	if result.DurationSeconds() != 0 {
		t.Fatalf("expected zero duration, got %v", result.DurationSeconds())
	}
}
