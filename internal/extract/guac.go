package extract

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"gymforge/internal/config"
	"gymforge/internal/events"
	"gymforge/internal/guac"
	"gymforge/internal/logging"
	"gymforge/internal/sessions"
)

// GuacExtractor derives input events from a session's protocol log.
type GuacExtractor struct {
	dataDir       string
	clickPx       float64
	clickMs       int64
	controlPoints int
	logger        *slog.Logger
}

// NewGuacExtractor creates the protocol-log extractor.
func NewGuacExtractor(cfg *config.Config, logger *slog.Logger) *GuacExtractor {
	return &GuacExtractor{
		dataDir:       cfg.Paths.DataDir,
		clickPx:       cfg.Pipeline.ClickThresholdPx,
		clickMs:       cfg.Pipeline.ClickThresholdMs,
		controlPoints: cfg.Pipeline.DragControlPoints,
		logger:        logging.NewComponentLogger(logger, "extract.protocol"),
	}
}

// Name identifies the extractor in logs and errors.
func (e *GuacExtractor) Name() string { return "protocol" }

// Extract parses the session's protocol log and returns its keyboard
// and mouse events. A missing or unreadable log fails the session.
func (e *GuacExtractor) Extract(ctx context.Context, sess *sessions.Session) ([]events.Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	logPath := sess.ProtocolLogPath(e.dataDir)
	content, err := os.ReadFile(logPath)
	if err != nil {
		return nil, fmt.Errorf("read protocol log: %w", err)
	}

	instructions := guac.Parse(string(content))
	out := keyboardEvents(instructions)
	out = append(out, mouseEvents(instructions, e.clickPx, e.clickMs, e.controlPoints)...)

	e.logger.Debug("protocol log extracted",
		logging.String(logging.FieldSessionID, sess.ID),
		logging.Int("instructions", len(instructions)),
		logging.Int("events", len(out)))
	return out, nil
}
