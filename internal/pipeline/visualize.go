package pipeline

import (
	"encoding/base64"
	"fmt"
	"html"
	"os"
	"strings"

	"gymforge/internal/events"
	"gymforge/internal/format"
)

const visualizeStyle = `<style>
body { font-family: monospace; background: #1e1e1e; color: #d4d4d4; margin: 16px; }
.event { border-left: 3px solid #444; margin: 8px 0; padding: 4px 8px; }
.event .ts { color: #888; margin-right: 8px; }
.event .kind { color: #569cd6; margin-right: 8px; }
.event img { max-width: 480px; display: block; margin-top: 4px; border: 1px solid #444; }
.message { border-left: 3px solid #444; margin: 8px 0; padding: 4px 8px; white-space: pre-wrap; }
.message.user { border-color: #569cd6; }
.message.assistant { border-color: #4ec9b0; }
.message .role { font-weight: bold; margin-right: 8px; }
</style>`

// formatTimestamp renders a millisecond offset as HH:MM:SS.mmm.
func formatTimestamp(ms int64) string {
	if ms < 0 {
		ms = 0
	}
	millis := ms % 1000
	seconds := ms / 1000 % 60
	minutes := ms / 60000 % 60
	hours := ms / 3600000
	return fmt.Sprintf("%02d:%02d:%02d.%03d", hours, minutes, seconds, millis)
}

func imageTag(image []byte) string {
	if len(image) == 0 {
		return "<em>missing image</em>"
	}
	return fmt.Sprintf(`<img src="data:image/jpeg;base64,%s">`,
		base64.StdEncoding.EncodeToString(image))
}

func writeEvent(b *strings.Builder, ev events.Event, body string) {
	fmt.Fprintf(b, `<div class="event"><span class="ts">%s</span><span class="kind">%s</span>%s</div>`,
		formatTimestamp(ev.Time()), html.EscapeString(string(ev.Kind())), body)
	b.WriteString("\n")
}

// TimelineHTML renders an annotated timeline as a standalone HTML
// document for manual inspection.
func TimelineHTML(title string, timeline []events.Event) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "<!DOCTYPE html>\n<html><head><title>%s</title>%s</head><body>\n",
		html.EscapeString(title), visualizeStyle)
	fmt.Fprintf(&b, "<h1>%s</h1>\n<p>%d events</p>\n", html.EscapeString(title), len(timeline))

	for _, ev := range timeline {
		switch e := ev.(type) {
		case events.Frame:
			writeEvent(&b, ev, imageTag(e.Image))
		case events.MouseClick:
			writeEvent(&b, ev, fmt.Sprintf("(%d, %d)", e.X, e.Y))
		case events.MouseDrag:
			parts := make([]string, 0, len(e.Points))
			for _, pt := range e.Points {
				parts = append(parts, fmt.Sprintf("[%dms: (%d, %d)]", pt.Time, pt.X, pt.Y))
			}
			writeEvent(&b, ev, html.EscapeString(strings.Join(parts, " ")))
		case events.TypeText:
			writeEvent(&b, ev, html.EscapeString(e.Text))
		case events.Hotkey:
			writeEvent(&b, ev, html.EscapeString(e.Combo))
		case events.Quest:
			writeEvent(&b, ev, html.EscapeString(e.Message))
		case events.Hint:
			writeEvent(&b, ev, html.EscapeString(e.Message))
		case events.DenseCaption:
			writeEvent(&b, ev, imageTag(e.Image)+html.EscapeString(e.Text))
		case events.StateTransition:
			writeEvent(&b, ev, imageTag(e.Before)+imageTag(e.After)+html.EscapeString(e.Text))
		case events.StructuredData:
			writeEvent(&b, ev, imageTag(e.Image)+"<pre>"+html.EscapeString(e.Payload)+"</pre>")
		case events.Reasoning:
			writeEvent(&b, ev, html.EscapeString(e.Text))
		default:
			writeEvent(&b, ev, "")
		}
	}

	b.WriteString("</body></html>\n")
	return []byte(b.String())
}

// MessagesHTML renders formatted conversation messages as a standalone
// HTML document for manual inspection.
func MessagesHTML(title string, messages []format.Message) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "<!DOCTYPE html>\n<html><head><title>%s</title>%s</head><body>\n",
		html.EscapeString(title), visualizeStyle)
	fmt.Fprintf(&b, "<h1>%s</h1>\n<p>%d messages</p>\n", html.EscapeString(title), len(messages))

	for _, msg := range messages {
		body := html.EscapeString(msg.Text)
		if len(msg.Image) > 0 {
			body = imageTag(msg.Image)
		}
		fmt.Fprintf(&b, `<div class="message %s"><span class="role">%s</span><span class="ts">%s</span>%s</div>`,
			html.EscapeString(msg.Role), html.EscapeString(msg.Role),
			formatTimestamp(msg.Timestamp), body)
		b.WriteString("\n")
	}

	b.WriteString("</body></html>\n")
	return []byte(b.String())
}

// WriteDebugHTML writes the timeline and message visualizations next to
// the dataset output.
func WriteDebugHTML(eventsPath, messagesPath, title string, timeline []events.Event, messages []format.Message) error {
	if err := os.WriteFile(eventsPath, TimelineHTML(title, timeline), 0o644); err != nil {
		return fmt.Errorf("write timeline visualization: %w", err)
	}
	if err := os.WriteFile(messagesPath, MessagesHTML(title, messages), 0o644); err != nil {
		return fmt.Errorf("write message visualization: %w", err)
	}
	return nil
}
