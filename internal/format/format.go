// Package format lowers an annotated timeline into conversation turns.
//
// Ordering follows the timeline. User turns carry observations
// (frames, quests, hints, annotation prompts); assistant turns carry
// actions and model-generated annotation text. Actions render as
// python-style tool calls so a tuned model reproduces them verbatim.
package format

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"gymforge/internal/events"
)

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

const (
	captionPrompt    = "Provide a detailed description of the GUI screenshot, including all visible elements, layout, and styling."
	transitionPrompt = "Describe what has changed and what user interaction likely occurred between these screenshots."
)

// Message is one conversation turn. Image and Text are mutually
// exclusive; a non-empty Image marks an image turn.
type Message struct {
	Role      string
	Text      string
	Image     []byte
	Timestamp int64
}

func userImage(image []byte, ts int64) Message {
	return Message{Role: RoleUser, Image: image, Timestamp: ts}
}

func userText(text string, ts int64) Message {
	return Message{Role: RoleUser, Text: text, Timestamp: ts}
}

func assistantText(text string, ts int64) Message {
	return Message{Role: RoleAssistant, Text: text, Timestamp: ts}
}

// Messages converts an ordered timeline into conversation turns. Event
// kinds without a conversational rendering (raw sync noise never
// reaches here) are dropped silently; a structured_data event with an
// unparseable payload fails the stage.
func Messages(timeline []events.Event) ([]Message, error) {
	var messages []Message

	for _, event := range timeline {
		switch e := event.(type) {
		case events.Frame:
			messages = append(messages, userImage(e.Image, e.Timestamp))

		case events.Quest:
			messages = append(messages, userText(e.Message, e.Timestamp))

		case events.Hint:
			messages = append(messages, userText(e.Message, e.Timestamp))

		case events.Reasoning:
			messages = append(messages, assistantText(e.Text, e.Timestamp))

		case events.DenseCaption:
			messages = append(messages,
				userImage(e.Image, e.Timestamp),
				userText(captionPrompt, e.Timestamp),
				assistantText(e.Text, e.Timestamp))

		case events.StateTransition:
			messages = append(messages,
				userImage(e.Before, e.Timestamp),
				userImage(e.After, e.Timestamp),
				userText(transitionPrompt, e.Timestamp),
				assistantText(e.Text, e.Timestamp))

		case events.StructuredData:
			expanded, err := structuredMessages(e)
			if err != nil {
				return nil, err
			}
			messages = append(messages, expanded...)

		case events.MouseClick:
			messages = append(messages, assistantText(actionBlock(fmt.Sprintf("click(%d, %d)", e.X, e.Y)), e.Timestamp))

		case events.MouseDrag:
			if action := dragAction(e.Points); action != "" {
				messages = append(messages, assistantText(actionBlock(action), e.Timestamp))
			}

		case events.TypeText:
			messages = append(messages, assistantText(actionBlock(fmt.Sprintf("type(%q)", e.Text)), e.Timestamp))

		case events.Hotkey:
			messages = append(messages, assistantText(actionBlock(fmt.Sprintf("hotkey(%q)", e.Combo)), e.Timestamp))
		}
	}

	return messages, nil
}

func actionBlock(action string) string {
	return "```python\n" + action + "\n```"
}

// dragAction renders a drag as a flat x,y coordinate list. Paths with
// fewer than two points carry no drawable motion and render nothing.
func dragAction(points []events.TrajectoryPoint) string {
	if len(points) < 2 {
		return ""
	}
	flat := make([]string, 0, len(points)*2)
	for _, p := range points {
		flat = append(flat, strconv.Itoa(p.X), strconv.Itoa(p.Y))
	}
	return "drag([" + strings.Join(flat, ", ") + "])"
}

func structuredMessages(e events.StructuredData) ([]Message, error) {
	var payload struct {
		Queries []struct {
			Query    string          `json:"query"`
			Response json.RawMessage `json:"response"`
		} `json:"queries"`
	}
	if err := json.Unmarshal([]byte(e.Payload), &payload); err != nil {
		return nil, fmt.Errorf("parse structured payload: %w", err)
	}

	var messages []Message
	for _, query := range payload.Queries {
		response, err := json.MarshalIndent(query.Response, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("render structured response: %w", err)
		}
		messages = append(messages,
			userImage(e.Image, e.Timestamp),
			userText("Analyze the interface and provide a structured JSON response to: "+query.Query, e.Timestamp),
			assistantText(string(response), e.Timestamp))
	}
	return messages, nil
}
