// Package guac decodes the remote-display wire protocol used by session
// recordings. A log is a semicolon-terminated sequence of instructions;
// each instruction is a comma-separated list of length-prefixed elements
// ("<decimal-length>.<payload>") whose first element names the opcode.
//
// The parser is fault tolerant rather than fault reporting: recordings
// are frequently truncated by session crashes, so malformed or short
// elements are skipped and parsing continues with the next unit.
package guac
