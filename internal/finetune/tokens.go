package finetune

import (
	"bytes"
	"fmt"
	"image"

	_ "image/jpeg"
	_ "image/png"

	"github.com/pkoukk/tiktoken-go"
)

const (
	baseImageCost = 85
	tileCost      = 170
	maxImageSide  = 2048
	targetSide    = 768
	tileSide      = 512

	// Dimension assumed for images that fail to decode.
	fallbackImageSide = 1024
)

// Counter measures conversation token usage for a given tokenizer
// model.
type Counter struct {
	encoding *tiktoken.Tiktoken
}

// NewCounter loads the tokenizer vocabulary for model.
func NewCounter(model string) (*Counter, error) {
	encoding, err := tiktoken.EncodingForModel(model)
	if err != nil {
		return nil, fmt.Errorf("load tokenizer for %s: %w", model, err)
	}
	return &Counter{encoding: encoding}, nil
}

// TextTokens counts tokens in a text string.
func (c *Counter) TextTokens(text string) int {
	return len(c.encoding.Encode(text, nil, nil))
}

// ImageTokens computes the cost of one image at the given pixel
// dimensions: a base cost plus a per-tile cost after the provider's
// two resize steps (fit within 2048, then shortest side to 768).
func ImageTokens(width, height int) int {
	if width <= 0 || height <= 0 {
		width, height = fallbackImageSide, fallbackImageSide
	}

	if width > maxImageSide || height > maxImageSide {
		longest := width
		if height > longest {
			longest = height
		}
		scale := float64(maxImageSide) / float64(longest)
		width = int(float64(width) * scale)
		height = int(float64(height) * scale)
	}

	shortest := width
	if height < shortest {
		shortest = height
	}
	if shortest > targetSide {
		scale := float64(targetSide) / float64(shortest)
		width = int(float64(width) * scale)
		height = int(float64(height) * scale)
	}

	tilesX := (width + tileSide - 1) / tileSide
	tilesY := (height + tileSide - 1) / tileSide
	return baseImageCost + tileCost*tilesX*tilesY
}

// imageDimensions reads the pixel size from encoded image bytes.
// Undecodable data falls back to a square default so accounting stays
// conservative rather than failing the dataset.
func imageDimensions(data []byte) (int, int) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil || cfg.Width <= 0 || cfg.Height <= 0 {
		return fallbackImageSide, fallbackImageSide
	}
	return cfg.Width, cfg.Height
}

// ConversationTokens totals role, text, and image costs across a
// converted conversation.
func (c *Counter) ConversationTokens(conversation []ChatMessage) int {
	total := 0
	for _, msg := range conversation {
		total += c.TextTokens(msg.Role)
		if len(msg.Image) > 0 {
			total += ImageTokens(imageDimensions(msg.Image))
			continue
		}
		total += c.TextTokens(msg.Text)
	}
	return total
}
