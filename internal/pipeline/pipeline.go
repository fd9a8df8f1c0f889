// Package pipeline assembles session timelines from the extraction and
// augmentation stages and drives dataset production per session.
package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"gymforge/internal/events"
	"gymforge/internal/logging"
	"gymforge/internal/sessions"
)

// Extractor produces timeline events from one of a session's recorded
// artifacts.
type Extractor interface {
	Name() string
	Extract(ctx context.Context, sess *sessions.Session) ([]events.Event, error)
}

// Augmenter derives additional annotation events from an assembled
// timeline. It receives the timeline sorted by timestamp and returns the
// timeline with any new events appended.
type Augmenter interface {
	Name() string
	Augment(ctx context.Context, timeline []events.Event) ([]events.Event, error)
}

// Pipeline runs extractors and augmenters in order and normalizes the
// resulting timeline.
type Pipeline struct {
	extractors []Extractor
	augmenters []Augmenter
	logger     *slog.Logger
}

// New constructs a pipeline. Extractors and augmenters run in the order
// given.
func New(extractors []Extractor, augmenters []Augmenter, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Pipeline{
		extractors: extractors,
		augmenters: augmenters,
		logger:     logger,
	}
}

// Process builds the annotated timeline for one session. Any stage
// returning an error fails the whole session; the error is wrapped with
// the stage name. The returned timeline is sorted by timestamp with
// consecutive frame runs collapsed to their final frame.
func (p *Pipeline) Process(ctx context.Context, sess *sessions.Session) ([]events.Event, error) {
	var timeline []events.Event
	for _, ex := range p.extractors {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		extracted, err := ex.Extract(ctx, sess)
		if err != nil {
			return nil, fmt.Errorf("extract %s: %w", ex.Name(), err)
		}
		p.logger.Debug("extraction stage complete",
			logging.String(logging.FieldStage, ex.Name()),
			logging.Int("events", len(extracted)))
		timeline = append(timeline, extracted...)
	}

	sortTimeline(timeline)

	for _, aug := range p.augmenters {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		before := len(timeline)
		augmented, err := aug.Augment(ctx, timeline)
		if err != nil {
			return nil, fmt.Errorf("augment %s: %w", aug.Name(), err)
		}
		timeline = augmented
		p.logger.Debug("augmentation stage complete",
			logging.String(logging.FieldStage, aug.Name()),
			logging.Int("added", len(timeline)-before))
	}

	// Augmenters append out of order and annotations may share a frame's
	// timestamp, so re-sort stably before collapsing.
	sortTimeline(timeline)
	return collapseFrames(timeline), nil
}

func sortTimeline(timeline []events.Event) {
	sort.SliceStable(timeline, func(i, j int) bool {
		return timeline[i].Time() < timeline[j].Time()
	})
}

// collapseFrames drops all but the last frame of every consecutive frame
// run. Frames separated by any other event are all retained.
func collapseFrames(timeline []events.Event) []events.Event {
	if len(timeline) == 0 {
		return timeline
	}
	collapsed := make([]events.Event, 0, len(timeline))
	for i, ev := range timeline {
		if ev.Kind() == events.KindFrame && i+1 < len(timeline) && timeline[i+1].Kind() == events.KindFrame {
			continue
		}
		collapsed = append(collapsed, ev)
	}
	return collapsed
}
