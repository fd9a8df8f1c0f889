package augment

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math/rand"
	"regexp"
	"strings"

	"gymforge/internal/events"
	"gymforge/internal/logging"
	"gymforge/internal/services/tesseract"
	"gymforge/internal/services/vlm"
)

const structuredDataPrompt = `You are a structured data analyzer. Given text elements and their coordinates from a GUI screenshot, generate 3 queries about the interface layout and their responses.

The text elements are:
%s

Respond with a JSON array containing exactly 3 objects. Each object should have a "query" field asking about some aspect of the interface (buttons, text fields, navigation, etc) and a "response" field with the structured answer.

Example response format (do not use markdown):
[{"query":"What buttons appear in the bottom-left corner?","response":{"buttons":[{"text":"Cancel","position":{"x":10,"y":450}},{"text":"Back","position":{"x":80,"y":450}}]}}]`

var markdownFence = regexp.MustCompile("```[a-z]*\n?|\n?```")

// StructuredQuery pairs a layout question with its structured answer.
type StructuredQuery struct {
	Query    string          `json:"query"`
	Response json.RawMessage `json:"response"`
}

// structuredPayload is the document stored on the resulting event.
type structuredPayload struct {
	Elements []tesseract.Word  `json:"elements"`
	Queries  []StructuredQuery `json:"queries"`
}

// StructuredDataAugmenter grounds layout question/answer pairs in OCR
// output from randomly sampled frames.
type StructuredDataAugmenter struct {
	model      Completer
	ocr        Recognizer
	maxSamples int
	rng        *rand.Rand
	logger     *slog.Logger
}

// NewStructuredDataAugmenter creates a structured-data augmenter
// capped at maxSamples frames per session.
func NewStructuredDataAugmenter(model Completer, ocr Recognizer, maxSamples int, logger *slog.Logger, opts ...Option) *StructuredDataAugmenter {
	o := buildOptions(opts)
	return &StructuredDataAugmenter{
		model:      model,
		ocr:        ocr,
		maxSamples: maxSamples,
		rng:        o.rng,
		logger:     logging.NewComponentLogger(logger, "augment.structured_data"),
	}
}

// Name identifies the augmenter in logs and errors.
func (a *StructuredDataAugmenter) Name() string { return "structured_data" }

// Augment appends a structured_data event for each sampled frame,
// carrying the OCR elements and generated queries as one JSON
// document. A frame whose OCR or generation call fails is skipped.
func (a *StructuredDataAugmenter) Augment(ctx context.Context, timeline []events.Event) ([]events.Event, error) {
	var frames []events.Frame
	for _, e := range timeline {
		if frame, ok := e.(events.Frame); ok && len(frame.Image) > 0 {
			frames = append(frames, frame)
		}
	}

	sampled := sampleIndices(a.rng, len(frames), a.maxSamples)
	a.logger.Debug("analyzing frames",
		logging.Int("total", len(frames)),
		logging.Int("sampled", len(sampled)))

	for _, i := range sampled {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		frame := frames[i]
		payload, err := a.analyzeFrame(ctx, frame)
		if err != nil {
			a.logger.Warn("structured analysis failed",
				logging.Int64(logging.FieldTimestamp, frame.Timestamp),
				logging.Error(err))
			continue
		}
		timeline = append(timeline, events.StructuredData{
			Timestamp: frame.Timestamp,
			Image:     frame.Image,
			Payload:   payload,
		})
	}

	return timeline, nil
}

func (a *StructuredDataAugmenter) analyzeFrame(ctx context.Context, frame events.Frame) (string, error) {
	words, err := a.ocr.Recognize(ctx, frame.Image)
	if err != nil {
		return "", fmt.Errorf("ocr: %w", err)
	}

	var listing strings.Builder
	for i, word := range words {
		if i > 0 {
			listing.WriteByte('\n')
		}
		fmt.Fprintf(&listing, "%q at (%d,%d)", word.Text, word.X, word.Y)
	}

	temperature := 0.7
	response, err := a.model.Complete(ctx, vlm.Request{
		Prompt:      fmt.Sprintf(structuredDataPrompt, listing.String()),
		MaxTokens:   1000,
		Temperature: &temperature,
	})
	if err != nil {
		return "", fmt.Errorf("generate queries: %w", err)
	}

	cleaned := markdownFence.ReplaceAllString(response, "")
	var queries []StructuredQuery
	if err := json.Unmarshal([]byte(cleaned), &queries); err != nil {
		return "", fmt.Errorf("parse query response: %w", err)
	}

	encoded, err := json.MarshalIndent(structuredPayload{Elements: words, Queries: queries}, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode payload: %w", err)
	}
	return string(encoded), nil
}
