package paint

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"os"
	"strings"

	"gymforge/internal/curve"
	"gymforge/internal/events"
)

// ErrNoDrawings reports a doodle file with no usable entries.
var ErrNoDrawings = errors.New("no recognized drawings found")

var drawingPrompts = []string{
	"Could you draw a {word} for me?",
	"Show me your best {word}!",
	"Let's see your artistic take on a {word}",
	"Draw a {word} in your own style",
	"Time to sketch a {word}!",
	"Can you illustrate a {word} for me?",
	"Your mission: draw a {word}",
	"Let's get creative - draw a {word}",
}

const (
	// Raw doodle coordinates live on a 0-255 grid.
	doodleGridMax = 255
	// Spacing assumed between captured doodle samples.
	msPerPoint = 20
	// Pause inserted between strokes of one doodle.
	strokeGapMs = 500
	// Pause after the quest prompt before the first stroke.
	questPauseMs = 1000
)

// drawing is one line of a doodle dataset file. Drawing holds strokes
// as [xs, ys] parallel arrays.
type drawing struct {
	Word       string        `json:"word"`
	Recognized bool          `json:"recognized"`
	Drawing    [][][]float64 `json:"drawing"`
}

// canvasBox is the drawable region in frame pixels.
type canvasBox struct {
	X      float64
	Y      float64
	Width  float64
	Height float64
}

// loadRecognizedDrawings reads a newline-delimited doodle file and
// keeps the entries flagged as recognized. Malformed lines are
// skipped.
func loadRecognizedDrawings(path string) ([]drawing, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open doodle file: %w", err)
	}
	defer file.Close()

	var drawings []drawing
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 1024*1024), 16*1024*1024)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var d drawing
		if err := json.Unmarshal([]byte(line), &d); err != nil {
			continue
		}
		if d.Recognized {
			drawings = append(drawings, d)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read doodle file: %w", err)
	}
	if len(drawings) == 0 {
		return nil, ErrNoDrawings
	}
	return drawings, nil
}

func questMessage(rng *rand.Rand, word string) string {
	template := drawingPrompts[rng.Intn(len(drawingPrompts))]
	return strings.ReplaceAll(template, "{word}", word)
}

// drawingEvents converts one doodle into a quest followed by
// mousedrag strokes scaled into the canvas box. Strokes with
// non-finite coordinates invalidate the whole drawing; the caller
// discards the attempt. Strokes with mismatched or short coordinate
// arrays are skipped individually.
func drawingEvents(d drawing, box canvasBox, startTime int64, rng *rand.Rand, controlPoints int) ([]events.Event, error) {
	currentTime := startTime

	out := []events.Event{
		events.Quest{Timestamp: currentTime, Message: questMessage(rng, d.Word)},
	}
	currentTime += questPauseMs

	for _, stroke := range d.Drawing {
		if len(stroke) != 2 || len(stroke[0]) != len(stroke[1]) || len(stroke[0]) < 2 {
			continue
		}
		xs, ys := stroke[0], stroke[1]

		points := make([]events.TrajectoryPoint, 0, len(xs))
		for i := range xs {
			if !isFinite(xs[i]) || !isFinite(ys[i]) {
				return nil, fmt.Errorf("drawing %q: non-finite stroke coordinate", d.Word)
			}
			points = append(points, events.TrajectoryPoint{
				Time: currentTime + int64(i*msPerPoint),
				X:    int(math.Floor(box.X + xs[i]/doodleGridMax*box.Width)),
				Y:    int(math.Floor(box.Y + ys[i]/doodleGridMax*box.Height)),
			})
		}

		resampled := curve.Resample(points, controlPoints)
		strokeStart := currentTime
		relative := make([]events.TrajectoryPoint, 0, len(resampled))
		for _, p := range resampled {
			relative = append(relative, events.TrajectoryPoint{
				Time: p.Time - strokeStart,
				X:    p.X,
				Y:    p.Y,
			})
		}
		out = append(out, events.MouseDrag{Timestamp: strokeStart, Points: relative})

		currentTime = points[len(points)-1].Time + strokeGapMs
	}

	return out, nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
