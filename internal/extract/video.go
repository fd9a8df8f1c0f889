package extract

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"

	"gymforge/internal/config"
	"gymforge/internal/events"
	"gymforge/internal/logging"
	"gymforge/internal/media/ffmpeg"
	"gymforge/internal/media/ffprobe"
	"gymforge/internal/sessions"
)

// VideoExtractor derives frame events from a session's screen
// recording.
type VideoExtractor struct {
	dataDir       string
	ffmpegBinary  string
	ffprobeBinary string
	intervalMs    int64
	logger        *slog.Logger
}

// NewVideoExtractor creates the recording extractor.
func NewVideoExtractor(cfg *config.Config, logger *slog.Logger) *VideoExtractor {
	return &VideoExtractor{
		dataDir:       cfg.Paths.DataDir,
		ffmpegBinary:  cfg.Video.FFmpegBinary,
		ffprobeBinary: cfg.Video.FFprobeBinary,
		intervalMs:    cfg.Video.FrameIntervalMs,
		logger:        logging.NewComponentLogger(logger, "extract.video"),
	}
}

// Name identifies the extractor in logs and errors.
func (e *VideoExtractor) Name() string { return "video" }

// Extract decodes one frame per configured interval across the length
// of the recording. A session without a recording yields no frames
// rather than failing, so protocol-only sessions still process. A
// frame that fails to decode is skipped.
func (e *VideoExtractor) Extract(ctx context.Context, sess *sessions.Session) ([]events.Event, error) {
	videoPath := sess.VideoPath(e.dataDir)
	if _, err := os.Stat(videoPath); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			e.logger.Warn("recording not found, skipping frame extraction",
				logging.String(logging.FieldSessionID, sess.ID),
				logging.String("path", videoPath))
			return nil, nil
		}
		return nil, err
	}

	probe, err := ffprobe.Inspect(ctx, e.ffprobeBinary, videoPath)
	if err != nil {
		return nil, err
	}
	durationMs := int64(probe.DurationSeconds() * 1000)
	if durationMs <= 0 {
		e.logger.Warn("recording has no reported duration",
			logging.String(logging.FieldSessionID, sess.ID))
		return nil, nil
	}

	interval := e.intervalMs
	if interval <= 0 {
		interval = 1000
	}

	var out []events.Event
	for offset := int64(0); offset < durationMs; offset += interval {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		frame, err := ffmpeg.ExtractFrame(ctx, e.ffmpegBinary, videoPath, offset)
		if err != nil {
			e.logger.Debug("frame decode failed",
				logging.String(logging.FieldSessionID, sess.ID),
				logging.Int64(logging.FieldTimestamp, offset),
				logging.Error(err))
			continue
		}
		out = append(out, events.Frame{Timestamp: offset, Image: frame})
	}

	e.logger.Debug("frames extracted",
		logging.String(logging.FieldSessionID, sess.ID),
		logging.Int("frames", len(out)))
	return out, nil
}
