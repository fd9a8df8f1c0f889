package extract

import "fmt"

// X11 keysym ranges used by the wire protocol. Modifiers occupy
// 0xFFE1-0xFFEE; function keys F1-F24 occupy 0xFFBE-0xFFD5.
const (
	keysymModifierFirst = 0xFFE1
	keysymModifierLast  = 0xFFEE
	keysymFunctionFirst = 0xFFBE
	keysymFunctionLast  = 0xFFD5
)

// specialKeysyms are the non-printable keys that terminate a text run
// and emit a hotkey event when pressed outside the modifier range.
var specialKeysyms = map[int]struct{}{
	0xFE03: {}, // AltGr
	0xFF08: {}, // Backspace
	0xFF09: {}, // Tab
	0xFF0D: {}, // Return
	0xFF1B: {}, // Escape
	0xFF50: {}, // Home
	0xFF51: {}, // Left
	0xFF52: {}, // Up
	0xFF53: {}, // Right
	0xFF54: {}, // Down
	0xFF55: {}, // Page Up
	0xFF56: {}, // Page Down
	0xFF57: {}, // End
	0xFF63: {}, // Insert
	0xFFE1: {}, // Shift
	0xFFE2: {},
	0xFFE3: {}, // Ctrl
	0xFFE4: {},
	0xFFE5: {}, // Caps Lock
	0xFFE7: {}, // Meta
	0xFFE8: {},
	0xFFE9: {}, // Alt
	0xFFEA: {},
	0xFFEB: {}, // Super
	0xFFEC: {},
	0xFFFF: {}, // Delete
}

var keysymNames = map[int]string{
	0xFF08: "backspace",
	0xFF09: "tab",
	0xFF0D: "enter",
	0xFF1B: "escape",
	0xFF50: "home",
	0xFF51: "left",
	0xFF52: "up",
	0xFF53: "right",
	0xFF54: "down",
	0xFF55: "pageup",
	0xFF56: "pagedown",
	0xFF57: "end",
	0xFF63: "insert",
	0xFFFF: "delete",
	0xFFE1: "shift",
	0xFFE2: "shift",
	0xFFE3: "ctrl",
	0xFFE4: "ctrl",
	0xFFE9: "alt",
	0xFFEA: "alt",
}

func isModifier(keysym int) bool {
	return keysym >= keysymModifierFirst && keysym <= keysymModifierLast
}

func isSpecialKey(keysym int) bool {
	if keysym >= keysymFunctionFirst && keysym <= keysymFunctionLast {
		return true
	}
	_, ok := specialKeysyms[keysym]
	return ok
}

// keyName maps a keysym to its hotkey-string token. Unknown keysyms
// fall back to a hex-tagged placeholder rather than being dropped.
func keyName(keysym int) string {
	if keysym >= keysymFunctionFirst && keysym <= keysymFunctionLast {
		return fmt.Sprintf("f%d", keysym-keysymFunctionFirst+1)
	}
	if name, ok := keysymNames[keysym]; ok {
		return name
	}
	return fmt.Sprintf("key-%x", keysym)
}
