package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"

	"gymforge/internal/events"
	"gymforge/internal/format"
	"gymforge/internal/logging"
	"gymforge/internal/sessions"
	"gymforge/internal/testsupport"
)

type stubExtractor struct {
	name   string
	events []events.Event
	err    error
}

func (s stubExtractor) Name() string { return s.name }

func (s stubExtractor) Extract(context.Context, *sessions.Session) ([]events.Event, error) {
	return s.events, s.err
}

type stubAugmenter struct {
	name  string
	added []events.Event
	err   error
	seen  []events.Event
}

func (s *stubAugmenter) Name() string { return s.name }

func (s *stubAugmenter) Augment(_ context.Context, timeline []events.Event) ([]events.Event, error) {
	s.seen = append([]events.Event(nil), timeline...)
	if s.err != nil {
		return nil, s.err
	}
	return append(timeline, s.added...), nil
}

func TestProcessMergesAndSortsExtractorOutput(t *testing.T) {
	first := stubExtractor{name: "a", events: []events.Event{
		events.MouseClick{Timestamp: 3000, X: 1, Y: 1},
		events.TypeText{Timestamp: 1000, Text: "hi"},
	}}
	second := stubExtractor{name: "b", events: []events.Event{
		events.Quest{Timestamp: 2000, Message: "draw"},
	}}

	p := New([]Extractor{first, second}, nil, logging.NewNop())
	timeline, err := p.Process(context.Background(), &sessions.Session{ID: "s1"})
	if err != nil {
		t.Fatalf("Process: %v", err)
	}

	want := []int64{1000, 2000, 3000}
	if len(timeline) != len(want) {
		t.Fatalf("got %d events, want %d", len(timeline), len(want))
	}
	for i, ts := range want {
		if timeline[i].Time() != ts {
			t.Errorf("event %d at %d, want %d", i, timeline[i].Time(), ts)
		}
	}
}

func TestProcessAugmentersSeeSortedTimeline(t *testing.T) {
	ex := stubExtractor{name: "a", events: []events.Event{
		events.Frame{Timestamp: 5000},
		events.Frame{Timestamp: 1000},
	}}
	aug := &stubAugmenter{name: "caption", added: []events.Event{
		events.DenseCaption{Timestamp: 1000, Text: "desk"},
	}}

	p := New([]Extractor{ex}, []Augmenter{aug}, logging.NewNop())
	timeline, err := p.Process(context.Background(), &sessions.Session{ID: "s1"})
	if err != nil {
		t.Fatalf("Process: %v", err)
	}

	if len(aug.seen) != 2 || aug.seen[0].Time() != 1000 || aug.seen[1].Time() != 5000 {
		t.Fatalf("augmenter saw unsorted timeline: %+v", aug.seen)
	}
	// The annotation shares the first frame's timestamp and sorts after
	// it, so both frames survive the collapse pass.
	if len(timeline) != 3 {
		t.Fatalf("got %d events, want 3", len(timeline))
	}
	if timeline[1].Kind() != events.KindDenseCaption {
		t.Errorf("event 1 kind = %s, want dense_caption", timeline[1].Kind())
	}
}

func TestProcessCollapsesConsecutiveFrames(t *testing.T) {
	ex := stubExtractor{name: "video", events: []events.Event{
		events.Frame{Timestamp: 1000, Image: []byte("f1")},
		events.Frame{Timestamp: 2000, Image: []byte("f2")},
		events.Frame{Timestamp: 3000, Image: []byte("f3")},
		events.MouseClick{Timestamp: 4000, X: 5, Y: 5},
		events.Frame{Timestamp: 5000, Image: []byte("f4")},
		events.Frame{Timestamp: 6000, Image: []byte("f5")},
	}}

	p := New([]Extractor{ex}, nil, logging.NewNop())
	timeline, err := p.Process(context.Background(), &sessions.Session{ID: "s1"})
	if err != nil {
		t.Fatalf("Process: %v", err)
	}

	if len(timeline) != 3 {
		t.Fatalf("got %d events, want 3: %+v", len(timeline), timeline)
	}
	first, ok := timeline[0].(events.Frame)
	if !ok || string(first.Image) != "f3" {
		t.Errorf("first event = %+v, want frame f3", timeline[0])
	}
	if timeline[1].Kind() != events.KindMouseClick {
		t.Errorf("second event kind = %s, want mouseclick", timeline[1].Kind())
	}
	last, ok := timeline[2].(events.Frame)
	if !ok || string(last.Image) != "f5" {
		t.Errorf("last event = %+v, want frame f5", timeline[2])
	}
}

func TestProcessFailsFastOnExtractorError(t *testing.T) {
	boom := errors.New("no protocol log")
	ex := stubExtractor{name: "protocol", err: boom}
	aug := &stubAugmenter{name: "caption"}

	p := New([]Extractor{ex}, []Augmenter{aug}, logging.NewNop())
	_, err := p.Process(context.Background(), &sessions.Session{ID: "s1"})
	if !errors.Is(err, boom) {
		t.Fatalf("Process error = %v, want wrapped %v", err, boom)
	}
	if !strings.Contains(err.Error(), "protocol") {
		t.Errorf("error %q does not name the stage", err)
	}
	if aug.seen != nil {
		t.Error("augmenter ran after extraction failure")
	}
}

func TestProcessFailsFastOnAugmenterError(t *testing.T) {
	boom := errors.New("model unavailable")
	ex := stubExtractor{name: "video", events: []events.Event{events.Frame{Timestamp: 0}}}
	failing := &stubAugmenter{name: "caption", err: boom}
	after := &stubAugmenter{name: "transition"}

	p := New([]Extractor{ex}, []Augmenter{failing, after}, logging.NewNop())
	_, err := p.Process(context.Background(), &sessions.Session{ID: "s1"})
	if !errors.Is(err, boom) {
		t.Fatalf("Process error = %v, want wrapped %v", err, boom)
	}
	if after.seen != nil {
		t.Error("later augmenter ran after failure")
	}
}

func TestCollapseFramesEmptyAndSingle(t *testing.T) {
	if got := collapseFrames(nil); len(got) != 0 {
		t.Errorf("collapse of empty timeline = %+v", got)
	}
	single := []events.Event{events.Frame{Timestamp: 100}}
	if got := collapseFrames(single); len(got) != 1 {
		t.Errorf("single frame collapsed away: %+v", got)
	}
}

func TestFormatTimestamp(t *testing.T) {
	cases := map[int64]string{
		0:        "00:00:00.000",
		1234:     "00:00:01.234",
		61000:    "00:01:01.000",
		3723456:  "01:02:03.456",
		-5:       "00:00:00.000",
		86399999: "23:59:59.999",
	}
	for ms, want := range cases {
		if got := formatTimestamp(ms); got != want {
			t.Errorf("formatTimestamp(%d) = %q, want %q", ms, got, want)
		}
	}
}

func TestTimelineHTMLRendersEvents(t *testing.T) {
	timeline := []events.Event{
		events.Frame{Timestamp: 1000, Image: []byte("jpegbytes")},
		events.MouseDrag{Timestamp: 2000, Points: []events.TrajectoryPoint{
			{Time: 0, X: 10, Y: 20},
			{Time: 40, X: 30, Y: 40},
		}},
		events.TypeText{Timestamp: 3000, Text: "<hello>"},
	}

	html := string(TimelineHTML("session one", timeline))
	if !strings.Contains(html, "data:image/jpeg;base64,") {
		t.Error("frame image not rendered as data URI")
	}
	if !strings.Contains(html, "[0ms: (10, 20)] [40ms: (30, 40)]") {
		t.Error("drag trajectory not rendered")
	}
	if !strings.Contains(html, "&lt;hello&gt;") {
		t.Error("typed text not escaped")
	}
	if strings.Contains(html, "<hello>") {
		t.Error("unescaped text leaked into document")
	}
}

func TestMessagesHTMLRendersRoles(t *testing.T) {
	messages := []format.Message{
		{Role: format.RoleUser, Image: []byte("img"), Timestamp: 1000},
		{Role: format.RoleAssistant, Text: "click(5, 5)", Timestamp: 2000},
	}

	html := string(MessagesHTML("session one", messages))
	if !strings.Contains(html, `class="message user"`) {
		t.Error("user message class missing")
	}
	if !strings.Contains(html, `class="message assistant"`) {
		t.Error("assistant message class missing")
	}
	if !strings.Contains(html, "click(5, 5)") {
		t.Error("assistant text missing")
	}
}

func TestRunWithNoPendingSessions(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	runner, err := NewRunner(cfg, store, logging.NewNop())
	if err != nil {
		t.Fatalf("NewRunner: %v", err)
	}
	results, err := runner.Run(context.Background(), nil)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(results) != 0 {
		t.Fatalf("got %d results, want none", len(results))
	}
}

func TestRunUnknownSessionFails(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)

	runner, err := NewRunner(cfg, store, logging.NewNop())
	if err != nil {
		t.Fatalf("NewRunner: %v", err)
	}
	if _, err := runner.Run(context.Background(), []string{"missing"}); err == nil {
		t.Fatal("expected error for unknown session id")
	}
}
