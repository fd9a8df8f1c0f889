package extract

import (
	"fmt"
	"testing"

	"gymforge/internal/events"
	"gymforge/internal/guac"
)

func mouseAt(x, y int, button string, at int64) string {
	return encodeInstruction("mouse", fmt.Sprint(x), fmt.Sprint(y), button, fmt.Sprint(at))
}

func TestMouseClickWithinThresholds(t *testing.T) {
	content := buildLog(
		encodeInstruction("sync", "1000"),
		mouseAt(100, 100, "1", 1100),
		mouseAt(102, 101, "0", 1150),
	)
	out := mouseEvents(guac.Parse(content), 5, 500, 8)

	if len(out) != 1 {
		t.Fatalf("expected 1 event, got %d", len(out))
	}
	click, ok := out[0].(events.MouseClick)
	if !ok {
		t.Fatalf("expected MouseClick, got %T", out[0])
	}
	if click.X != 100 || click.Y != 100 {
		t.Errorf("click at (%d,%d), want press position (100,100)", click.X, click.Y)
	}
	if click.Timestamp != 100 {
		t.Errorf("timestamp = %d, want press time 100", click.Timestamp)
	}
}

func TestMouseSlowPressBecomesDrag(t *testing.T) {
	// Within the distance threshold but over the duration threshold.
	content := buildLog(
		encodeInstruction("sync", "1000"),
		mouseAt(100, 100, "1", 1100),
		mouseAt(101, 100, "0", 1900),
	)
	out := mouseEvents(guac.Parse(content), 5, 500, 8)

	if len(out) != 1 {
		t.Fatalf("expected 1 event, got %d", len(out))
	}
	if _, ok := out[0].(events.MouseDrag); !ok {
		t.Fatalf("expected MouseDrag, got %T", out[0])
	}
}

func TestMouseDragResampledToControlPoints(t *testing.T) {
	instructions := []string{
		encodeInstruction("sync", "1000"),
		mouseAt(0, 0, "1", 1000),
	}
	for i := 1; i <= 20; i++ {
		instructions = append(instructions, mouseAt(i*10, 0, "1", 1000+int64(i*40)))
	}
	instructions = append(instructions, mouseAt(200, 0, "0", 1800))
	out := mouseEvents(guac.Parse(buildLog(instructions...)), 5, 500, 8)

	if len(out) != 1 {
		t.Fatalf("expected 1 event, got %d", len(out))
	}
	drag := out[0].(events.MouseDrag)
	if drag.Timestamp != 0 {
		t.Errorf("timestamp = %d, want press time 0", drag.Timestamp)
	}
	if len(drag.Points) != 8 {
		t.Fatalf("expected 8 control points, got %d", len(drag.Points))
	}
	first, last := drag.Points[0], drag.Points[len(drag.Points)-1]
	if first.X != 0 || first.Y != 0 || first.Time != 0 {
		t.Errorf("first point = %+v, want origin at time 0", first)
	}
	if last.X != 200 || last.Y != 0 {
		t.Errorf("last point = %+v, want path end (200,0)", last)
	}
}

func TestMouseMovementWithoutPressIsIgnored(t *testing.T) {
	content := buildLog(
		encodeInstruction("sync", "1000"),
		mouseAt(10, 10, "0", 1100),
		mouseAt(50, 50, "0", 1200),
		mouseAt(90, 90, "0", 1300),
	)
	out := mouseEvents(guac.Parse(content), 5, 500, 8)

	if len(out) != 0 {
		t.Fatalf("expected no events, got %d", len(out))
	}
}

func TestMouseUnterminatedPressEmitsNothing(t *testing.T) {
	content := buildLog(
		encodeInstruction("sync", "1000"),
		mouseAt(10, 10, "1", 1100),
		mouseAt(50, 50, "1", 1200),
	)
	out := mouseEvents(guac.Parse(content), 5, 500, 8)

	if len(out) != 0 {
		t.Fatalf("expected no events for unterminated press, got %d", len(out))
	}
}

func TestMouseSequentialGestures(t *testing.T) {
	content := buildLog(
		encodeInstruction("sync", "1000"),
		mouseAt(10, 10, "1", 1100),
		mouseAt(11, 10, "0", 1150),
		mouseAt(300, 300, "1", 2000),
		mouseAt(500, 500, "1", 2400),
		mouseAt(600, 600, "0", 2900),
	)
	out := mouseEvents(guac.Parse(content), 5, 500, 8)

	if len(out) != 2 {
		t.Fatalf("expected 2 events, got %d", len(out))
	}
	if _, ok := out[0].(events.MouseClick); !ok {
		t.Errorf("first gesture = %T, want MouseClick", out[0])
	}
	if _, ok := out[1].(events.MouseDrag); !ok {
		t.Errorf("second gesture = %T, want MouseDrag", out[1])
	}
}
