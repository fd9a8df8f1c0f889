package paint

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"path/filepath"
	"time"

	"gymforge/internal/config"
	"gymforge/internal/curve"
	"gymforge/internal/events"
	"gymforge/internal/logging"
)

// Attempts abandoned in a row before the generator gives up. The
// source dataset occasionally contains corrupt drawings; this bounds
// how long a run spins on a bad doodle pool.
const maxConsecutiveFailures = 20

// Generator produces synthetic drawing-session timelines.
type Generator struct {
	doodleDir     string
	metadata      Metadata
	controlPoints int
	comp          *compositor
	rng           *rand.Rand
	logger        *slog.Logger
	startTime     int64
}

// Option adjusts generator construction.
type Option func(*Generator)

// WithRand fixes the random source, pinning doodle and template
// selection in tests.
func WithRand(rng *rand.Rand) Option {
	return func(g *Generator) {
		if rng != nil {
			g.rng = rng
		}
	}
}

// WithStartTime sets the timestamp of the first generated event.
func WithStartTime(startTime int64) Option {
	return func(g *Generator) {
		g.startTime = startTime
	}
}

// NewGenerator loads the UI metadata and prepares a generator.
func NewGenerator(cfg *config.Config, logger *slog.Logger, opts ...Option) (*Generator, error) {
	metadata, err := LoadMetadata(cfg.Paint.MetadataPath)
	if err != nil {
		return nil, err
	}

	var smooth *curve.BSpline
	if cfg.Paint.SmoothStrokes {
		smooth = curve.NewBSpline(cfg.Paint.SplineDegree)
	}

	controlPoints := cfg.Paint.StrokeControlPoints
	if controlPoints <= 0 {
		controlPoints = 32
	}

	g := &Generator{
		doodleDir:     cfg.Paint.DoodleDir,
		metadata:      metadata,
		controlPoints: controlPoints,
		comp:          newCompositor(cfg.Paths.DataDir, smooth, controlPoints),
		rng:           rand.New(rand.NewSource(time.Now().UnixNano())),
		logger:        logging.NewComponentLogger(logger, "paint"),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// Generate produces a timeline containing numDoodles drawn quests. A
// doodle that fails to load or carries corrupt stroke data is
// discarded and redrawn from the pool; the timeline always holds
// exactly numDoodles quest events on success.
func (g *Generator) Generate(ctx context.Context, doodleNames []string, numDoodles int) ([]events.Event, error) {
	if len(doodleNames) == 0 {
		return nil, errors.New("paint generate: no doodle files given")
	}
	if numDoodles <= 0 {
		return nil, errors.New("paint generate: doodle count must be positive")
	}

	var timeline []events.Event
	currentTime := g.startTime
	processed := 0
	failures := 0

	for processed < numDoodles {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if failures >= maxConsecutiveFailures {
			return nil, fmt.Errorf("paint generate: %d doodle attempts failed in a row", failures)
		}

		name := doodleNames[g.rng.Intn(len(doodleNames))]
		questIdx := len(timeline)

		extended, nextTime, err := g.generateDoodle(timeline, currentTime, name, processed > 0)
		if err != nil {
			g.logger.Warn("doodle attempt discarded",
				logging.String("doodle", name),
				logging.Error(err))
			failures++
			// Rewind to the last event kept before this attempt.
			currentTime = g.startTime
			if questIdx > 0 {
				currentTime = timeline[questIdx-1].Time()
			}
			continue
		}

		timeline = extended
		currentTime = nextTime + 2000
		processed++
		failures = 0
	}

	return timeline, nil
}

// generateDoodle appends one quest's full event sequence to timeline
// and returns the extended slice with the timestamp of its last event.
// On error the input timeline is returned unchanged in the caller via
// the rewind.
func (g *Generator) generateDoodle(timeline []events.Event, currentTime int64, name string, clearFirst bool) ([]events.Event, int64, error) {
	drawings, err := loadRecognizedDrawings(filepath.Join(g.doodleDir, name+".ndjson"))
	if err != nil {
		return nil, 0, err
	}
	selected := drawings[g.rng.Intn(len(drawings))]

	questIdx := len(timeline)
	out := append(timeline, events.Quest{Timestamp: currentTime})
	currentTime += 500

	if clearFirst {
		out, currentTime, err = g.clearCanvasSequence(out, currentTime)
		if err != nil {
			return nil, 0, err
		}
	}

	if err := g.comp.setBase(g.metadata["init"].Frame); err != nil {
		return nil, 0, err
	}
	frame, err := g.comp.compose()
	if err != nil {
		return nil, 0, err
	}
	out = append(out, events.Frame{Timestamp: currentTime, Image: frame})
	currentTime += 1000

	canvas := g.metadata["init"].Elements["canvas"]
	doodleEvents, err := drawingEvents(selected, canvasBox{
		X:      canvas.X1,
		Y:      canvas.Y1,
		Width:  canvas.Width(),
		Height: canvas.Height(),
	}, currentTime, g.rng, g.controlPoints)
	if err != nil {
		return nil, 0, err
	}

	quest, ok := doodleEvents[0].(events.Quest)
	if !ok {
		return nil, 0, errors.New("doodle sequence must open with a quest")
	}
	out[questIdx] = events.Quest{Timestamp: out[questIdx].Time(), Message: quest.Message}
	doodleEvents = doodleEvents[1:]

	totalStrokes := 0
	for _, e := range doodleEvents {
		if _, ok := e.(events.MouseDrag); ok {
			totalStrokes++
		}
	}

	strokeNum := 0
	for _, e := range doodleEvents {
		drag, isDrag := e.(events.MouseDrag)
		if isDrag {
			strokeNum++
			out = append(out, events.Reasoning{
				Timestamp: drag.Timestamp - 1,
				Text:      strokeTemplate(g.rng, strokeNum, totalStrokes, strokeDirection(drag.Points)),
			})
		}
		out = append(out, e)
		if isDrag {
			if err := g.comp.setBase(g.metadata["init"].Frame); err != nil {
				return nil, 0, err
			}
			g.comp.drawStroke(drag.Points)
			frame, err := g.comp.compose()
			if err != nil {
				return nil, 0, err
			}
			out = append(out, events.Frame{Timestamp: drag.Timestamp + 1, Image: frame})
		}
		currentTime = e.Time()
	}

	return out, currentTime, nil
}

// clearCanvasSequence replays File > New > No with narration, showing
// the menu and prompt frames, then wipes the stroke overlay.
func (g *Generator) clearCanvasSequence(out []events.Event, currentTime int64) ([]events.Event, int64, error) {
	out = append(out, events.Reasoning{Timestamp: currentTime, Text: pickTemplate(g.rng, reasoningTemplates.newDrawing)})
	currentTime += 1000

	out = append(out, events.Reasoning{Timestamp: currentTime, Text: pickTemplate(g.rng, reasoningTemplates.clickFile)})
	currentTime += 500
	fileX, fileY := g.metadata["init"].Elements["File"].Center()
	out = append(out, events.MouseClick{Timestamp: currentTime, X: fileX, Y: fileY})
	currentTime += 500

	if err := g.comp.setBase(g.metadata["file"].Frame); err != nil {
		return nil, 0, err
	}
	frame, err := g.comp.compose()
	if err != nil {
		return nil, 0, err
	}
	out = append(out, events.Frame{Timestamp: currentTime, Image: frame})
	currentTime += 500

	out = append(out, events.Reasoning{Timestamp: currentTime, Text: pickTemplate(g.rng, reasoningTemplates.clickNew)})
	currentTime += 500
	newX, newY := g.metadata["file"].Elements["New"].Center()
	out = append(out, events.MouseClick{Timestamp: currentTime, X: newX, Y: newY})
	currentTime += 500

	if err := g.comp.setBase(g.metadata["save"].Frame); err != nil {
		return nil, 0, err
	}
	frame, err = g.comp.compose()
	if err != nil {
		return nil, 0, err
	}
	out = append(out, events.Frame{Timestamp: currentTime, Image: frame})
	currentTime += 500

	out = append(out, events.Reasoning{Timestamp: currentTime, Text: pickTemplate(g.rng, reasoningTemplates.savePrompt)})
	currentTime += 500
	noX, noY := g.metadata["save"].Elements["No"].Center()
	out = append(out, events.MouseClick{Timestamp: currentTime, X: noX, Y: noY})
	currentTime += 500

	g.comp.clear()
	return out, currentTime, nil
}
