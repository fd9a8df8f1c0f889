package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"gymforge/internal/config"
	"gymforge/internal/events"
	"gymforge/internal/logging"
	"gymforge/internal/sessions"
)

// AnchorSource supplies the session creation time used to rebase
// application-log timestamps when the log itself carries no anchor.
type AnchorSource interface {
	CreatedAtMillis(ctx context.Context, id string) (int64, error)
}

// eventLog mirrors the on-disk <id>.events.json document. Entry
// timestamps are absolute Unix milliseconds; Timestamp, when present,
// is the recording start used to rebase them.
type eventLog struct {
	Timestamp int64           `json:"timestamp"`
	Events    []eventLogEntry `json:"events"`
}

type eventLogEntry struct {
	Type      string `json:"type"`
	Timestamp int64  `json:"timestamp"`
	Message   string `json:"message"`
}

// AppLogExtractor derives quest and hint events from a session's
// application event log.
type AppLogExtractor struct {
	dataDir string
	anchors AnchorSource
	logger  *slog.Logger
}

// NewAppLogExtractor creates the application-log extractor. anchors
// resolves the fallback base timestamp for logs without one.
func NewAppLogExtractor(cfg *config.Config, anchors AnchorSource, logger *slog.Logger) *AppLogExtractor {
	return &AppLogExtractor{
		dataDir: cfg.Paths.DataDir,
		anchors: anchors,
		logger:  logging.NewComponentLogger(logger, "extract.applog"),
	}
}

// Name identifies the extractor in logs and errors.
func (e *AppLogExtractor) Name() string { return "applog" }

// Extract reads the session's event log and rebases each entry to
// milliseconds relative to session start. Entries with an empty
// message are dropped. Unknown entry types pass through unchanged in
// time but are skipped in output.
func (e *AppLogExtractor) Extract(ctx context.Context, sess *sessions.Session) ([]events.Event, error) {
	content, err := os.ReadFile(sess.EventLogPath(e.dataDir))
	if err != nil {
		return nil, fmt.Errorf("read event log: %w", err)
	}

	var log eventLog
	if err := json.Unmarshal(content, &log); err != nil {
		return nil, fmt.Errorf("parse event log: %w", err)
	}

	base := log.Timestamp
	if base == 0 {
		base, err = e.anchors.CreatedAtMillis(ctx, sess.ID)
		if err != nil {
			return nil, fmt.Errorf("resolve timestamp anchor: %w", err)
		}
	}

	var out []events.Event
	skipped := 0
	for _, entry := range log.Events {
		if entry.Message == "" {
			continue
		}
		relative := entry.Timestamp - base
		switch entry.Type {
		case "quest":
			out = append(out, events.Quest{Timestamp: relative, Message: entry.Message})
		case "hint":
			out = append(out, events.Hint{Timestamp: relative, Message: entry.Message})
		default:
			skipped++
		}
	}

	if skipped > 0 {
		e.logger.Debug("skipped unrecognized log entries",
			logging.String(logging.FieldSessionID, sess.ID),
			logging.Int("skipped", skipped))
	}
	return out, nil
}
