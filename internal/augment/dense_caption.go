package augment

import (
	"context"
	"log/slog"
	"math/rand"

	"gymforge/internal/events"
	"gymforge/internal/logging"
	"gymforge/internal/services/vlm"
)

const denseCaptionPrompt = `Provide a detailed description of the GUI screenshot, including all visible elements, layout, and styling. Focus on:
1. Layout structure and organization
2. Interactive elements (buttons, forms, etc.)
3. Visual styling and design elements
4. Content and text elements
5. Navigation elements if present`

// DenseCaptionAugmenter captions randomly sampled frames.
type DenseCaptionAugmenter struct {
	model      Completer
	maxSamples int
	rng        *rand.Rand
	logger     *slog.Logger
}

// NewDenseCaptionAugmenter creates a caption augmenter capped at
// maxSamples frames per session.
func NewDenseCaptionAugmenter(model Completer, maxSamples int, logger *slog.Logger, opts ...Option) *DenseCaptionAugmenter {
	o := buildOptions(opts)
	return &DenseCaptionAugmenter{
		model:      model,
		maxSamples: maxSamples,
		rng:        o.rng,
		logger:     logging.NewComponentLogger(logger, "augment.dense_caption"),
	}
}

// Name identifies the augmenter in logs and errors.
func (a *DenseCaptionAugmenter) Name() string { return "dense_caption" }

// Augment appends a dense_caption event for each sampled frame. A
// frame whose caption call fails is skipped.
func (a *DenseCaptionAugmenter) Augment(ctx context.Context, timeline []events.Event) ([]events.Event, error) {
	var frames []events.Frame
	for _, e := range timeline {
		if frame, ok := e.(events.Frame); ok && len(frame.Image) > 0 {
			frames = append(frames, frame)
		}
	}

	sampled := sampleIndices(a.rng, len(frames), a.maxSamples)
	a.logger.Debug("captioning frames",
		logging.Int("total", len(frames)),
		logging.Int("sampled", len(sampled)))

	for _, i := range sampled {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		frame := frames[i]
		caption, err := a.model.Complete(ctx, vlm.Request{
			Prompt: denseCaptionPrompt,
			Images: [][]byte{frame.Image},
		})
		if err != nil {
			a.logger.Warn("caption generation failed",
				logging.Int64(logging.FieldTimestamp, frame.Timestamp),
				logging.Error(err))
			continue
		}
		timeline = append(timeline, events.DenseCaption{
			Timestamp: frame.Timestamp,
			Image:     frame.Image,
			Text:      caption,
		})
	}

	return timeline, nil
}
