package paint

import (
	"encoding/json"
	"fmt"
	"os"
)

// BBox is an element bounding box in full-resolution frame pixels.
type BBox struct {
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
	X2 float64 `json:"x2"`
	Y2 float64 `json:"y2"`
}

// Center returns the box midpoint, the click target for the element.
func (b BBox) Center() (int, int) {
	return int(b.X1 + (b.X2-b.X1)/2), int(b.Y1 + (b.Y2-b.Y1)/2)
}

// Width returns the box width in pixels.
func (b BBox) Width() float64 { return b.X2 - b.X1 }

// Height returns the box height in pixels.
func (b BBox) Height() float64 { return b.Y2 - b.Y1 }

// State is one captured application state: a reference frame image and
// the elements visible in it.
type State struct {
	Frame    string          `json:"frame"`
	Elements map[string]BBox `json:"elements"`
}

// Metadata maps state names to captured states. The generator relies
// on three states: "init" (blank canvas, with "File" and "canvas"
// elements), "file" (open File menu, with "New"), and "save" (discard
// prompt, with "No").
type Metadata map[string]State

// LoadMetadata reads and validates the UI fixture document.
func LoadMetadata(path string) (Metadata, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read paint metadata: %w", err)
	}
	var metadata Metadata
	if err := json.Unmarshal(content, &metadata); err != nil {
		return nil, fmt.Errorf("parse paint metadata: %w", err)
	}
	if err := metadata.validate(); err != nil {
		return nil, err
	}
	return metadata, nil
}

func (m Metadata) validate() error {
	required := map[string][]string{
		"init": {"File", "canvas"},
		"file": {"New"},
		"save": {"No"},
	}
	for state, elements := range required {
		captured, ok := m[state]
		if !ok {
			return fmt.Errorf("paint metadata: missing state %q", state)
		}
		if captured.Frame == "" {
			return fmt.Errorf("paint metadata: state %q has no frame", state)
		}
		for _, element := range elements {
			if _, ok := captured.Elements[element]; !ok {
				return fmt.Errorf("paint metadata: state %q missing element %q", state, element)
			}
		}
	}
	return nil
}
