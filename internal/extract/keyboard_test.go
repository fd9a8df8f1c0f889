package extract

import (
	"fmt"
	"strings"
	"testing"

	"gymforge/internal/events"
	"gymforge/internal/guac"
)

func encodeInstruction(opcode string, args ...string) string {
	parts := make([]string, 0, len(args)+1)
	parts = append(parts, fmt.Sprintf("%d.%s", len(opcode), opcode))
	for _, arg := range args {
		parts = append(parts, fmt.Sprintf("%d.%s", len(arg), arg))
	}
	return strings.Join(parts, ",") + ";"
}

func buildLog(instructions ...string) string {
	return strings.Join(instructions, "")
}

func keyPress(keysym int, downAt, upAt int64) string {
	return encodeInstruction("key", fmt.Sprint(keysym), "1", fmt.Sprint(downAt)) +
		encodeInstruction("key", fmt.Sprint(keysym), "0", fmt.Sprint(upAt))
}

func TestKeyboardSingleCharacter(t *testing.T) {
	content := buildLog(
		encodeInstruction("sync", "1000"),
		keyPress('A', 1000, 1050),
	)
	out := keyboardEvents(guac.Parse(content))

	if len(out) != 1 {
		t.Fatalf("expected 1 event, got %d", len(out))
	}
	typed, ok := out[0].(events.TypeText)
	if !ok {
		t.Fatalf("expected TypeText, got %T", out[0])
	}
	if typed.Text != "A" {
		t.Errorf("text = %q, want %q", typed.Text, "A")
	}
	if typed.Timestamp != 0 {
		t.Errorf("timestamp = %d, want 0", typed.Timestamp)
	}
}

func TestKeyboardAccumulatesRun(t *testing.T) {
	content := buildLog(
		encodeInstruction("sync", "1000"),
		keyPress('H', 1100, 1110),
		keyPress('i', 1200, 1210),
		keyPress('!', 1300, 1310),
	)
	out := keyboardEvents(guac.Parse(content))

	if len(out) != 1 {
		t.Fatalf("expected 1 event, got %d", len(out))
	}
	typed := out[0].(events.TypeText)
	if typed.Text != "Hi!" {
		t.Errorf("text = %q, want %q", typed.Text, "Hi!")
	}
	if typed.Timestamp != 100 {
		t.Errorf("timestamp = %d, want timestamp of first character", typed.Timestamp)
	}
}

func TestKeyboardSpecialKeyFlushesRun(t *testing.T) {
	content := buildLog(
		encodeInstruction("sync", "1000"),
		keyPress('o', 1100, 1110),
		keyPress('k', 1150, 1160),
		keyPress(0xFF0D, 1200, 1210), // Enter
		keyPress('x', 1300, 1310),
	)
	out := keyboardEvents(guac.Parse(content))

	if len(out) != 3 {
		t.Fatalf("expected 3 events, got %d", len(out))
	}
	if typed := out[0].(events.TypeText); typed.Text != "ok" || typed.Timestamp != 100 {
		t.Errorf("first run = %+v", typed)
	}
	if hotkey := out[1].(events.Hotkey); hotkey.Combo != "enter" || hotkey.Timestamp != 200 {
		t.Errorf("hotkey = %+v", hotkey)
	}
	if typed := out[2].(events.TypeText); typed.Text != "x" || typed.Timestamp != 300 {
		t.Errorf("second run = %+v", typed)
	}
}

func TestKeyboardModifierCombo(t *testing.T) {
	content := buildLog(
		encodeInstruction("sync", "1000"),
		encodeInstruction("key", "65507", "1", "1100"), // Ctrl down
		encodeInstruction("key", "65513", "1", "1120"), // Alt down
		keyPress(0xFFFF, 1150, 1160),                   // Delete
		encodeInstruction("key", "65513", "0", "1180"),
		encodeInstruction("key", "65507", "0", "1200"),
	)
	out := keyboardEvents(guac.Parse(content))

	if len(out) != 1 {
		t.Fatalf("expected 1 event, got %d", len(out))
	}
	hotkey := out[0].(events.Hotkey)
	if hotkey.Combo != "ctrl-alt-delete" {
		t.Errorf("combo = %q, want %q", hotkey.Combo, "ctrl-alt-delete")
	}
}

func TestKeyboardModifierSuppressesText(t *testing.T) {
	// Printable keysyms pressed while a modifier is held do not join a
	// text run.
	content := buildLog(
		encodeInstruction("sync", "1000"),
		encodeInstruction("key", "65507", "1", "1100"), // Ctrl down
		keyPress('c', 1150, 1160),
		encodeInstruction("key", "65507", "0", "1200"),
		keyPress('c', 1300, 1310),
	)
	out := keyboardEvents(guac.Parse(content))

	if len(out) != 1 {
		t.Fatalf("expected 1 event, got %d", len(out))
	}
	typed := out[0].(events.TypeText)
	if typed.Text != "c" || typed.Timestamp != 300 {
		t.Errorf("typed = %+v, want unmodified press only", typed)
	}
}

func TestKeyboardDuplicateModifiersCollapse(t *testing.T) {
	content := buildLog(
		encodeInstruction("sync", "1000"),
		encodeInstruction("key", "65505", "1", "1100"), // left Shift
		encodeInstruction("key", "65506", "1", "1110"), // right Shift
		keyPress(0xFF09, 1150, 1160),                   // Tab
	)
	out := keyboardEvents(guac.Parse(content))

	if len(out) != 1 {
		t.Fatalf("expected 1 event, got %d", len(out))
	}
	if combo := out[0].(events.Hotkey).Combo; combo != "shift-tab" {
		t.Errorf("combo = %q, want %q", combo, "shift-tab")
	}
}

func TestKeyboardFunctionKeys(t *testing.T) {
	content := buildLog(
		encodeInstruction("sync", "1000"),
		keyPress(0xFFBE, 1100, 1110), // F1
		keyPress(0xFFD5, 1200, 1210), // F24
	)
	out := keyboardEvents(guac.Parse(content))

	if len(out) != 2 {
		t.Fatalf("expected 2 events, got %d", len(out))
	}
	if combo := out[0].(events.Hotkey).Combo; combo != "f1" {
		t.Errorf("first combo = %q, want f1", combo)
	}
	if combo := out[1].(events.Hotkey).Combo; combo != "f24" {
		t.Errorf("second combo = %q, want f24", combo)
	}
}

func TestKeyboardTrailingRunIsFlushed(t *testing.T) {
	content := buildLog(
		encodeInstruction("sync", "1000"),
		keyPress('e', 1100, 1110),
		keyPress('n', 1150, 1160),
		keyPress('d', 1200, 1210),
	)
	out := keyboardEvents(guac.Parse(content))

	if len(out) != 1 {
		t.Fatalf("expected trailing run to flush, got %d events", len(out))
	}
	if typed := out[0].(events.TypeText); typed.Text != "end" {
		t.Errorf("text = %q, want %q", typed.Text, "end")
	}
}
