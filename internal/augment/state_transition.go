package augment

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math/rand"

	"gymforge/internal/events"
	"gymforge/internal/logging"
	"gymforge/internal/services/vlm"
)

const stateTransitionPrompt = `Given two consecutive GUI screenshots and a JSON array of user interactions that occurred between them, describe what has changed and what user interaction occurred, as if you were describing a scene transition in a movie.

The events array contains the actual user interactions that occurred, with timestamps and coordinates where applicable. Use this information to provide an accurate description of what the user did.

Events: %s

Requirements:
1. Describe what was shown in the first screenshot
2. Describe what changed in the second screenshot
3. Use the provided events data to explain exactly what user actions occurred in between
4. If you see text that seems incorrect (like "Fie" instead of "File"), use your vision & language capabilities to infer the correct text while maintaining the provided coordinates`

// transition is one candidate frame pair with the actions between.
type transition struct {
	before  events.Frame
	after   events.Frame
	actions []events.Event
}

// StateTransitionAugmenter narrates the change between consecutive
// frame pairs that have user actions strictly between them.
type StateTransitionAugmenter struct {
	model      Completer
	maxSamples int
	rng        *rand.Rand
	logger     *slog.Logger
}

// NewStateTransitionAugmenter creates a transition augmenter capped at
// maxSamples pairs per session.
func NewStateTransitionAugmenter(model Completer, maxSamples int, logger *slog.Logger, opts ...Option) *StateTransitionAugmenter {
	o := buildOptions(opts)
	return &StateTransitionAugmenter{
		model:      model,
		maxSamples: maxSamples,
		rng:        o.rng,
		logger:     logging.NewComponentLogger(logger, "augment.state_transition"),
	}
}

// Name identifies the augmenter in logs and errors.
func (a *StateTransitionAugmenter) Name() string { return "state_transition" }

// promptEvent is the JSON shape actions take inside the model prompt.
type promptEvent struct {
	Type        string                   `json:"type"`
	X           *int                     `json:"x,omitempty"`
	Y           *int                     `json:"y,omitempty"`
	Text        string                   `json:"text,omitempty"`
	Coordinates []events.TrajectoryPoint `json:"coordinates,omitempty"`
	Timestamp   int64                    `json:"timestamp"`
}

func formatActionsForPrompt(actions []events.Event) ([]byte, error) {
	formatted := make([]promptEvent, 0, len(actions))
	for _, action := range actions {
		switch e := action.(type) {
		case events.MouseClick:
			x, y := e.X, e.Y
			formatted = append(formatted, promptEvent{Type: "click", X: &x, Y: &y, Timestamp: e.Timestamp})
		case events.TypeText:
			formatted = append(formatted, promptEvent{Type: "keyboard", Text: e.Text, Timestamp: e.Timestamp})
		case events.MouseDrag:
			formatted = append(formatted, promptEvent{Type: "drag", Coordinates: e.Points, Timestamp: e.Timestamp})
		case events.Hotkey:
			formatted = append(formatted, promptEvent{Type: "hotkey", Text: e.Combo, Timestamp: e.Timestamp})
		}
	}
	return json.MarshalIndent(formatted, "", "  ")
}

// findTransitions walks consecutive frames and keeps pairs with at
// least one action strictly between their timestamps.
func findTransitions(timeline []events.Event) []transition {
	var frames []events.Frame
	for _, e := range timeline {
		if frame, ok := e.(events.Frame); ok && len(frame.Image) > 0 {
			frames = append(frames, frame)
		}
	}

	var candidates []transition
	for i := 0; i+1 < len(frames); i++ {
		before, after := frames[i], frames[i+1]
		var actions []events.Event
		for _, e := range timeline {
			if events.IsAction(e) && e.Time() > before.Timestamp && e.Time() < after.Timestamp {
				actions = append(actions, e)
			}
		}
		if len(actions) > 0 {
			candidates = append(candidates, transition{before: before, after: after, actions: actions})
		}
	}
	return candidates
}

// Augment appends a state_transition event, stamped with the after
// frame's timestamp, for each sampled pair. A pair whose narration
// call fails is skipped.
func (a *StateTransitionAugmenter) Augment(ctx context.Context, timeline []events.Event) ([]events.Event, error) {
	candidates := findTransitions(timeline)
	sampled := sampleIndices(a.rng, len(candidates), a.maxSamples)
	a.logger.Debug("narrating transitions",
		logging.Int("candidates", len(candidates)),
		logging.Int("sampled", len(sampled)))

	for _, i := range sampled {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		candidate := candidates[i]
		actions, err := formatActionsForPrompt(candidate.actions)
		if err != nil {
			return nil, fmt.Errorf("format transition events: %w", err)
		}
		text, err := a.model.Complete(ctx, vlm.Request{
			Prompt: fmt.Sprintf(stateTransitionPrompt, actions),
			Images: [][]byte{candidate.before.Image, candidate.after.Image},
		})
		if err != nil {
			a.logger.Warn("transition narration failed",
				logging.Int64(logging.FieldTimestamp, candidate.after.Timestamp),
				logging.Error(err))
			continue
		}
		timeline = append(timeline, events.StateTransition{
			Timestamp: candidate.after.Timestamp,
			Before:    candidate.before.Image,
			After:     candidate.after.Image,
			Text:      text,
		})
	}

	return timeline, nil
}
