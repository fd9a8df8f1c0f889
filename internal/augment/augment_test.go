package augment

import (
	"context"
	"encoding/json"
	"errors"
	"math/rand"
	"strings"
	"testing"

	"gymforge/internal/events"
	"gymforge/internal/services/tesseract"
	"gymforge/internal/services/vlm"
)

type fakeModel struct {
	response string
	err      error
	requests []vlm.Request
}

func (m *fakeModel) Complete(_ context.Context, req vlm.Request) (string, error) {
	m.requests = append(m.requests, req)
	if m.err != nil {
		return "", m.err
	}
	return m.response, nil
}

type fakeOCR struct {
	words []tesseract.Word
	err   error
}

func (o *fakeOCR) Recognize(context.Context, []byte) ([]tesseract.Word, error) {
	return o.words, o.err
}

func frameTimeline(timestamps ...int64) []events.Event {
	var timeline []events.Event
	for _, ts := range timestamps {
		timeline = append(timeline, events.Frame{Timestamp: ts, Image: []byte("jpeg")})
	}
	return timeline
}

func fixedRand() Option {
	return WithRand(rand.New(rand.NewSource(1)))
}

func TestDenseCaptionAppendsSampledCaptions(t *testing.T) {
	model := &fakeModel{response: "a window with a toolbar"}
	augmenter := NewDenseCaptionAugmenter(model, 2, nil, fixedRand())

	out, err := augmenter.Augment(context.Background(), frameTimeline(0, 1000, 2000, 3000))
	if err != nil {
		t.Fatalf("Augment: %v", err)
	}

	if len(out) != 6 {
		t.Fatalf("expected 4 frames + 2 captions, got %d events", len(out))
	}
	captions := 0
	for _, e := range out {
		if caption, ok := e.(events.DenseCaption); ok {
			captions++
			if caption.Text != "a window with a toolbar" {
				t.Errorf("caption text = %q", caption.Text)
			}
			if len(caption.Image) == 0 {
				t.Error("caption should carry the source frame")
			}
		}
	}
	if captions != 2 {
		t.Errorf("captions = %d, want sample cap 2", captions)
	}
	if len(model.requests) != 2 || len(model.requests[0].Images) != 1 {
		t.Errorf("model requests = %+v, want 2 single-image calls", len(model.requests))
	}
}

func TestDenseCaptionSkipsFailedFrames(t *testing.T) {
	model := &fakeModel{err: errors.New("rate limited")}
	augmenter := NewDenseCaptionAugmenter(model, 3, nil, fixedRand())

	out, err := augmenter.Augment(context.Background(), frameTimeline(0, 1000))
	if err != nil {
		t.Fatalf("Augment: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("failed captions must not append events, got %d", len(out))
	}
}

func TestStateTransitionFindsActionBoundedPairs(t *testing.T) {
	timeline := []events.Event{
		events.Frame{Timestamp: 0, Image: []byte("f0")},
		events.MouseClick{Timestamp: 500, X: 10, Y: 10},
		events.Frame{Timestamp: 1000, Image: []byte("f1")},
		events.Frame{Timestamp: 2000, Image: []byte("f2")}, // no actions before it
		events.TypeText{Timestamp: 2500, Text: "hi"},
		events.Frame{Timestamp: 3000, Image: []byte("f3")},
	}

	candidates := findTransitions(timeline)
	if len(candidates) != 2 {
		t.Fatalf("expected 2 candidates, got %d", len(candidates))
	}
	if candidates[0].after.Timestamp != 1000 || candidates[1].after.Timestamp != 3000 {
		t.Errorf("candidate after-frames = %d, %d",
			candidates[0].after.Timestamp, candidates[1].after.Timestamp)
	}
}

func TestStateTransitionPromptCarriesEventJSON(t *testing.T) {
	model := &fakeModel{response: "the menu opened"}
	augmenter := NewStateTransitionAugmenter(model, 5, nil, fixedRand())

	timeline := []events.Event{
		events.Frame{Timestamp: 0, Image: []byte("f0")},
		events.MouseClick{Timestamp: 400, X: 15, Y: 30},
		events.Hotkey{Timestamp: 600, Combo: "ctrl-s"},
		events.Frame{Timestamp: 1000, Image: []byte("f1")},
	}

	out, err := augmenter.Augment(context.Background(), timeline)
	if err != nil {
		t.Fatalf("Augment: %v", err)
	}

	last, ok := out[len(out)-1].(events.StateTransition)
	if !ok {
		t.Fatalf("expected trailing StateTransition, got %T", out[len(out)-1])
	}
	if last.Timestamp != 1000 {
		t.Errorf("timestamp = %d, want after-frame time", last.Timestamp)
	}
	if string(last.Before) != "f0" || string(last.After) != "f1" {
		t.Error("transition should carry both frames")
	}

	prompt := model.requests[0].Prompt
	if !strings.Contains(prompt, `"type": "click"`) || !strings.Contains(prompt, `"type": "hotkey"`) {
		t.Errorf("prompt missing serialized actions:\n%s", prompt)
	}
	if !strings.Contains(prompt, `"x": 15`) {
		t.Errorf("prompt missing click coordinates:\n%s", prompt)
	}
	if len(model.requests[0].Images) != 2 {
		t.Errorf("request images = %d, want before and after", len(model.requests[0].Images))
	}
}

func TestStructuredDataBuildsPayload(t *testing.T) {
	model := &fakeModel{response: `[
		{"query":"What menu items are at the top?","response":{"items":["File","Edit"]}},
		{"query":"Where is the File menu?","response":{"x":100,"y":50}},
		{"query":"How many words are visible?","response":{"count":2}}
	]`}
	ocr := &fakeOCR{words: []tesseract.Word{
		{Text: "File", X: 100, Y: 50, Width: 64, Height: 24},
		{Text: "Edit", X: 180, Y: 50, Width: 64, Height: 24},
	}}
	augmenter := NewStructuredDataAugmenter(model, ocr, 1, nil, fixedRand())

	out, err := augmenter.Augment(context.Background(), frameTimeline(5000))
	if err != nil {
		t.Fatalf("Augment: %v", err)
	}

	structured, ok := out[len(out)-1].(events.StructuredData)
	if !ok {
		t.Fatalf("expected StructuredData, got %T", out[len(out)-1])
	}
	if structured.Timestamp != 5000 {
		t.Errorf("timestamp = %d, want source frame time", structured.Timestamp)
	}

	var payload struct {
		Elements []tesseract.Word  `json:"elements"`
		Queries  []StructuredQuery `json:"queries"`
	}
	if err := json.Unmarshal([]byte(structured.Payload), &payload); err != nil {
		t.Fatalf("payload is not valid JSON: %v", err)
	}
	if len(payload.Elements) != 2 || len(payload.Queries) != 3 {
		t.Errorf("payload = %d elements, %d queries", len(payload.Elements), len(payload.Queries))
	}

	prompt := model.requests[0].Prompt
	if !strings.Contains(prompt, `"File" at (100,50)`) {
		t.Errorf("prompt missing element listing:\n%s", prompt)
	}
	if model.requests[0].Temperature == nil || *model.requests[0].Temperature != 0.7 {
		t.Error("structured generation should request temperature 0.7")
	}
}

func TestStructuredDataStripsMarkdownFences(t *testing.T) {
	model := &fakeModel{response: "```json\n[{\"query\":\"q\",\"response\":{}}]\n```"}
	ocr := &fakeOCR{}
	augmenter := NewStructuredDataAugmenter(model, ocr, 1, nil, fixedRand())

	out, err := augmenter.Augment(context.Background(), frameTimeline(0))
	if err != nil {
		t.Fatalf("Augment: %v", err)
	}
	if _, ok := out[len(out)-1].(events.StructuredData); !ok {
		t.Fatalf("fenced response should still parse, got %T", out[len(out)-1])
	}
}

func TestStructuredDataSkipsOCRFailures(t *testing.T) {
	model := &fakeModel{response: "[]"}
	ocr := &fakeOCR{err: errors.New("binary missing")}
	augmenter := NewStructuredDataAugmenter(model, ocr, 2, nil, fixedRand())

	out, err := augmenter.Augment(context.Background(), frameTimeline(0, 1000))
	if err != nil {
		t.Fatalf("Augment: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("OCR failures must not append events, got %d", len(out))
	}
	if len(model.requests) != 0 {
		t.Errorf("model should not be called after OCR failure, got %d calls", len(model.requests))
	}
}

func TestSampleIndicesBounds(t *testing.T) {
	rng := rand.New(rand.NewSource(7))

	if got := sampleIndices(rng, 0, 3); got != nil {
		t.Errorf("sampling empty population = %v", got)
	}
	if got := sampleIndices(rng, 10, 3); len(got) != 3 {
		t.Errorf("len = %d, want cap 3", len(got))
	}
	got := sampleIndices(rng, 2, 5)
	if len(got) != 2 {
		t.Fatalf("len = %d, want population size 2", len(got))
	}
	seen := map[int]bool{}
	for _, i := range got {
		if i < 0 || i >= 2 || seen[i] {
			t.Fatalf("indices = %v, want distinct members of [0,2)", got)
		}
		seen[i] = true
	}
}
