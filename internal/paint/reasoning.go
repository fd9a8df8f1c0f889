package paint

import (
	"math"
	"math/rand"
	"strconv"
	"strings"

	"gymforge/internal/events"
)

var reasoningTemplates = struct {
	newDrawing  []string
	clickFile   []string
	clickNew    []string
	savePrompt  []string
	drawSegment []string
}{
	newDrawing: []string{
		"I need to clear the canvas for a new drawing",
		"Let me start fresh by clearing the current canvas",
		"I'll clear this to make space for the next drawing",
		"Time to clear the canvas for a fresh start",
	},
	clickFile: []string{
		"I'll click the File menu to find the clear option",
		"Opening the File menu to access canvas options",
		"Going to the File menu to start over",
		"Let me access the File menu first",
	},
	clickNew: []string{
		"Selecting New to reset the canvas",
		"Clicking New to start fresh",
		"Creating a new canvas",
		"Going to create a new drawing space",
	},
	savePrompt: []string{
		"I don't need to save the current drawing",
		"No need to save this since we're starting fresh",
		"I'll click No to discard the current drawing",
		"Clicking No to proceed with clearing",
	},
	drawSegment: []string{
		"Drawing stroke {n} of {total}, starting {direction}",
		"Adding stroke {n}/{total} going {direction}",
		"Making stroke {n} of {total} {direction}",
		"For stroke {n}/{total}, drawing {direction}",
	},
}

func pickTemplate(rng *rand.Rand, templates []string) string {
	return templates[rng.Intn(len(templates))]
}

func strokeTemplate(rng *rand.Rand, n, total int, direction string) string {
	text := pickTemplate(rng, reasoningTemplates.drawSegment)
	text = strings.ReplaceAll(text, "{n}", strconv.Itoa(n))
	text = strings.ReplaceAll(text, "{total}", strconv.Itoa(total))
	return strings.ReplaceAll(text, "{direction}", direction)
}

// compassDirections maps a stroke's initial heading, snapped to 8
// compass sectors, to narration text. Angles follow screen
// coordinates (y grows downward).
var compassDirections = []struct {
	min, max float64
	name     string
}{
	{-22.5, 22.5, "rightward"},
	{22.5, 67.5, "down and right"},
	{67.5, 112.5, "downward"},
	{112.5, 157.5, "down and left"},
	{157.5, 180.01, "leftward"},
	{-180.01, -157.5, "leftward"},
	{-157.5, -112.5, "up and left"},
	{-112.5, -67.5, "upward"},
	{-67.5, -22.5, "up and right"},
}

// strokeDirection names the initial direction of a stroke.
func strokeDirection(points []events.TrajectoryPoint) string {
	if len(points) < 2 {
		return "forward"
	}
	dx := float64(points[1].X - points[0].X)
	dy := float64(points[1].Y - points[0].Y)
	angle := math.Atan2(dy, dx) * 180 / math.Pi

	for _, dir := range compassDirections {
		if angle >= dir.min && angle < dir.max {
			return dir.name
		}
	}
	return "forward"
}
