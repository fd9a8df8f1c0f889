package guac

import (
	"math"
	"strconv"
	"strings"
)

// Opcodes the extractors care about. Instructions with other opcodes are
// preserved with their raw arguments and a zero timestamp.
const (
	OpcodeSync  = "sync"
	OpcodeMouse = "mouse"
	OpcodeKey   = "key"
)

// Instruction is one decoded wire-protocol unit. Timestamp is
// milliseconds relative to the first sync instruction in the log.
type Instruction struct {
	Opcode    string
	Args      []string
	Timestamp int64
}

// decodeElement splits a "<length>.<payload>" element into its payload.
// It returns false for elements with no length prefix or with fewer
// payload bytes than the prefix promises.
func decodeElement(element string) (string, bool) {
	dot := strings.IndexByte(element, '.')
	if dot <= 0 {
		return "", false
	}
	length, err := strconv.Atoi(element[:dot])
	if err != nil || length < 0 {
		return "", false
	}
	payload := element[dot+1:]
	if len(payload) < length {
		return "", false
	}
	return payload[:length], true
}

// Parse decodes the full textual content of a protocol log. The first
// sync instruction anchors the wall-clock base; every following sync,
// mouse, and key timestamp is normalized relative to it. A log with no
// sync yields timestamps relative to zero. Subsequent sync values are
// not validated against the first; clock drift in long sessions is
// silently absorbed.
func Parse(content string) []Instruction {
	var instructions []Instruction
	var syncBase float64
	haveSync := false

	for _, chunk := range strings.Split(content, ";") {
		chunk = strings.TrimSpace(chunk)
		if chunk == "" {
			continue
		}

		parts := strings.Split(chunk, ",")
		opcode, ok := decodeElement(parts[0])
		if !ok || opcode == "" {
			continue
		}

		args := make([]string, 0, len(parts)-1)
		for _, part := range parts[1:] {
			value, ok := decodeElement(part)
			if !ok || value == "" {
				continue
			}
			args = append(args, value)
		}
		if len(args) == 0 {
			continue
		}

		inst := Instruction{Opcode: opcode, Args: args}
		switch opcode {
		case OpcodeSync:
			raw, err := strconv.ParseFloat(args[0], 64)
			if err != nil {
				continue
			}
			if !haveSync {
				syncBase = raw
				haveSync = true
			}
			inst.Timestamp = int64(math.Round(raw - syncBase))
			inst.Args = []string{args[0]}
		case OpcodeMouse:
			if len(args) < 4 {
				continue
			}
			raw, err := strconv.ParseFloat(args[3], 64)
			if err != nil {
				continue
			}
			inst.Timestamp = int64(math.Round(raw - syncBase))
			inst.Args = args[:3]
		case OpcodeKey:
			if len(args) < 3 {
				continue
			}
			raw, err := strconv.ParseFloat(args[2], 64)
			if err != nil {
				continue
			}
			inst.Timestamp = int64(math.Round(raw - syncBase))
			inst.Args = args[:2]
		}
		instructions = append(instructions, inst)
	}

	return instructions
}
