package extract

import (
	"strconv"
	"strings"

	"gymforge/internal/events"
	"gymforge/internal/guac"
)

// modifierSet tracks held modifier keys in press order so hotkey
// strings come out deterministic ("ctrl-shift-..." if ctrl went down
// first). Duplicate names (left and right shift both map to "shift")
// collapse into one entry.
type modifierSet struct {
	names []string
}

func (m *modifierSet) add(name string) {
	for _, held := range m.names {
		if held == name {
			return
		}
	}
	m.names = append(m.names, name)
}

func (m *modifierSet) remove(name string) {
	for i, held := range m.names {
		if held == name {
			m.names = append(m.names[:i], m.names[i+1:]...)
			return
		}
	}
}

// keyboardEvents folds key instructions into type and hotkey events.
// Consecutive unmodified printable keysyms accumulate into a single
// type event stamped with the first character's timestamp; special
// keys flush the run and emit a hotkey carrying any held modifiers.
func keyboardEvents(instructions []guac.Instruction) []events.Event {
	var out []events.Event
	var text strings.Builder
	var textStart int64
	var modifiers modifierSet

	flush := func() {
		if text.Len() == 0 {
			return
		}
		out = append(out, events.TypeText{Timestamp: textStart, Text: text.String()})
		text.Reset()
	}

	for _, inst := range instructions {
		if inst.Opcode != guac.OpcodeKey || len(inst.Args) < 2 {
			continue
		}
		keysym, err := strconv.Atoi(inst.Args[0])
		if err != nil {
			continue
		}
		pressed := inst.Args[1] == "1"

		if !pressed {
			if isModifier(keysym) {
				modifiers.remove(keyName(keysym))
			}
			continue
		}

		switch {
		case isModifier(keysym):
			modifiers.add(keyName(keysym))
		case isSpecialKey(keysym):
			flush()
			combo := keyName(keysym)
			if len(modifiers.names) > 0 {
				combo = strings.Join(modifiers.names, "-") + "-" + combo
			}
			out = append(out, events.Hotkey{Timestamp: inst.Timestamp, Combo: combo})
		case keysym >= 32 && keysym <= 126 && len(modifiers.names) == 0:
			if text.Len() == 0 {
				textStart = inst.Timestamp
			}
			text.WriteByte(byte(keysym))
		}
	}

	flush()
	return out
}
