// Package tesseract wraps the tesseract binary for word-level OCR of
// session frames.
package tesseract

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

const defaultLanguage = "eng"

// Word is one recognized token with its bounding box in frame pixels.
type Word struct {
	Text       string  `json:"text"`
	X          int     `json:"x"`
	Y          int     `json:"y"`
	Width      int     `json:"width"`
	Height     int     `json:"height"`
	Confidence float64 `json:"-"`
}

// Client invokes tesseract as a subprocess.
type Client struct {
	binary   string
	language string
}

// NewClient constructs an OCR client. Empty settings fall back to the
// tesseract binary on PATH and English.
func NewClient(binary, language string) *Client {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = "tesseract"
	}
	language = strings.TrimSpace(language)
	if language == "" {
		language = defaultLanguage
	}
	return &Client{binary: binary, language: language}
}

// Recognize runs OCR over an image and returns its words with
// coordinates. The image is streamed over stdin; output is requested
// in TSV form and filtered to word-level rows.
func (c *Client) Recognize(ctx context.Context, image []byte) ([]Word, error) {
	if len(image) == 0 {
		return nil, errors.New("tesseract recognize: empty image")
	}

	cmd := exec.CommandContext(ctx, c.binary, "-", "stdout", "-l", c.language, "tsv")
	cmd.Stdin = bytes.NewReader(image)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("tesseract recognize: %w: %s", err, strings.TrimSpace(stderr.String()))
	}

	return parseTSV(stdout.String()), nil
}

// parseTSV extracts word rows (level 5) from tesseract's TSV output.
// Rows with empty text or a malformed column count are dropped.
func parseTSV(output string) []Word {
	var words []Word
	lines := strings.Split(output, "\n")
	for i, line := range lines {
		if i == 0 || strings.TrimSpace(line) == "" {
			continue // header
		}
		columns := strings.Split(line, "\t")
		if len(columns) < 12 {
			continue
		}
		level, err := strconv.Atoi(columns[0])
		if err != nil || level != 5 {
			continue
		}
		text := strings.TrimSpace(columns[11])
		if text == "" {
			continue
		}
		left, errL := strconv.Atoi(columns[6])
		top, errT := strconv.Atoi(columns[7])
		width, errW := strconv.Atoi(columns[8])
		height, errH := strconv.Atoi(columns[9])
		if errL != nil || errT != nil || errW != nil || errH != nil {
			continue
		}
		confidence, err := strconv.ParseFloat(columns[10], 64)
		if err != nil {
			confidence = 0
		}
		words = append(words, Word{
			Text:       text,
			X:          left,
			Y:          top,
			Width:      width,
			Height:     height,
			Confidence: confidence,
		})
	}
	return words
}
