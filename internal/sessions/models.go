package sessions

import (
	"path/filepath"
	"time"
)

// Status tracks a session's progress through the pipeline.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// Kind distinguishes recorded sessions from synthetically generated ones.
type Kind string

const (
	KindRecorded  Kind = "recorded"
	KindSynthetic Kind = "synthetic"
)

// Session is one row of the registry.
type Session struct {
	ID           string
	Title        string
	Kind         Kind
	Status       Status
	CreatedAt    time.Time
	UpdatedAt    time.Time
	DatasetPath  string
	EventCount   int
	MessageCount int
	TokenCount   int
	ErrorMessage string
}

// ProtocolLogPath returns the expected protocol log location under the
// data directory.
func (s Session) ProtocolLogPath(dataDir string) string {
	return filepath.Join(dataDir, s.ID+".guac")
}

// VideoPath returns the expected screen-recording location under the
// data directory.
func (s Session) VideoPath(dataDir string) string {
	return filepath.Join(dataDir, s.ID+".guac.m4v")
}

// EventLogPath returns the expected application event log location
// under the data directory.
func (s Session) EventLogPath(dataDir string) string {
	return filepath.Join(dataDir, s.ID+".events.json")
}
