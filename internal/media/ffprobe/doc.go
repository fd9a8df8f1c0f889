// Package ffprobe wraps the ffprobe binary for inspecting session
// screen recordings.
package ffprobe
