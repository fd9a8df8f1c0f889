package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"gymforge/internal/augment"
	"gymforge/internal/config"
	"gymforge/internal/events"
	"gymforge/internal/extract"
	"gymforge/internal/finetune"
	"gymforge/internal/format"
	"gymforge/internal/logging"
	"gymforge/internal/paint"
	"gymforge/internal/services/tesseract"
	"gymforge/internal/services/vlm"
	"gymforge/internal/sessions"
)

// Result records the outcome of one session run.
type Result struct {
	SessionID    string
	Title        string
	DatasetPath  string
	EventCount   int
	MessageCount int
	TokenCount   int
	Err          error
}

// Runner drives the full per-session flow: extraction and augmentation,
// conversation formatting, token accounting, and dataset output. A file
// lock prevents concurrent runs against the same registry.
type Runner struct {
	cfg    *config.Config
	store  *sessions.Store
	logger *slog.Logger
	lock   *flock.Flock
}

// NewRunner constructs a runner backed by the given registry.
func NewRunner(cfg *config.Config, store *sessions.Store, logger *slog.Logger) (*Runner, error) {
	if cfg == nil || store == nil {
		return nil, errors.New("runner requires config and store")
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Runner{
		cfg:    cfg,
		store:  store,
		logger: logger,
		lock:   flock.New(filepath.Join(cfg.Paths.LogDir, "gymforge.lock")),
	}, nil
}

// Run processes the named sessions, or every pending session when ids is
// empty. Sessions run concurrently up to the configured limit; a failed
// session is marked failed in the registry and does not stop the others.
func (r *Runner) Run(ctx context.Context, ids []string) ([]Result, error) {
	locked, err := r.lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire run lock: %w", err)
	}
	if !locked {
		return nil, errors.New("another gymforge run is already in progress")
	}
	defer func() {
		if unlockErr := r.lock.Unlock(); unlockErr != nil {
			r.logger.Warn("failed to release run lock", logging.Error(unlockErr))
		}
	}()

	targets, err := r.resolveSessions(ctx, ids)
	if err != nil {
		return nil, err
	}
	if len(targets) == 0 {
		return nil, nil
	}

	builder, err := finetune.NewBuilder(r.cfg.Finetune.TokenizerModel, r.cfg.Finetune.MaxConversationTokens)
	if err != nil {
		return nil, fmt.Errorf("initialize tokenizer: %w", err)
	}

	limit := r.cfg.Pipeline.MaxConcurrentRuns
	if limit < 1 {
		limit = 1
	}

	results := make([]Result, len(targets))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, sess := range targets {
		g.Go(func() error {
			res := r.processSession(gctx, builder, sess)
			results[i] = res
			// Only context cancellation aborts the batch.
			if res.Err != nil && errors.Is(res.Err, context.Canceled) {
				return res.Err
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}

func (r *Runner) resolveSessions(ctx context.Context, ids []string) ([]*sessions.Session, error) {
	if len(ids) == 0 {
		return r.store.List(ctx, sessions.StatusPending)
	}
	targets := make([]*sessions.Session, 0, len(ids))
	for _, id := range ids {
		sess, err := r.store.Get(ctx, id)
		if err != nil {
			return nil, err
		}
		targets = append(targets, sess)
	}
	return targets, nil
}

func (r *Runner) processSession(ctx context.Context, builder *finetune.Builder, sess *sessions.Session) Result {
	logger := logging.WithSessionID(r.logger, sess.ID)
	logger.Info("processing session", logging.String("title", sess.Title))

	res := Result{SessionID: sess.ID, Title: sess.Title}
	if err := r.store.MarkProcessing(ctx, sess.ID); err != nil {
		res.Err = err
		return res
	}

	timeline, err := r.buildPipeline(logger).Process(ctx, sess)
	if err != nil {
		return r.fail(ctx, logger, res, err)
	}
	return r.finish(ctx, logger, builder, res, sess.Title, timeline)
}

// GenerateSynthetic registers a synthetic paint session, generates its
// timeline, and runs it through the same dataset flow as a recorded one.
func (r *Runner) GenerateSynthetic(ctx context.Context, title string, doodleNames []string, numDoodles int, opts ...paint.Option) (Result, error) {
	locked, err := r.lock.TryLock()
	if err != nil {
		return Result{}, fmt.Errorf("acquire run lock: %w", err)
	}
	if !locked {
		return Result{}, errors.New("another gymforge run is already in progress")
	}
	defer func() {
		if unlockErr := r.lock.Unlock(); unlockErr != nil {
			r.logger.Warn("failed to release run lock", logging.Error(unlockErr))
		}
	}()

	builder, err := finetune.NewBuilder(r.cfg.Finetune.TokenizerModel, r.cfg.Finetune.MaxConversationTokens)
	if err != nil {
		return Result{}, fmt.Errorf("initialize tokenizer: %w", err)
	}

	sess, err := r.store.Add(ctx, uuid.NewString(), title, sessions.KindSynthetic)
	if err != nil {
		return Result{}, fmt.Errorf("register synthetic session: %w", err)
	}

	logger := logging.WithSessionID(r.logger, sess.ID)
	res := Result{SessionID: sess.ID, Title: sess.Title}
	if err := r.store.MarkProcessing(ctx, sess.ID); err != nil {
		res.Err = err
		return res, nil
	}

	gen, err := paint.NewGenerator(r.cfg, logger, opts...)
	if err != nil {
		return r.fail(ctx, logger, res, err), nil
	}
	timeline, err := gen.Generate(ctx, doodleNames, numDoodles)
	if err != nil {
		return r.fail(ctx, logger, res, err), nil
	}
	return r.finish(ctx, logger, builder, res, sess.Title, timeline), nil
}

func (r *Runner) fail(ctx context.Context, logger *slog.Logger, res Result, err error) Result {
	logger.Error("session failed", logging.Error(err))
	if markErr := r.store.MarkFailed(ctx, res.SessionID, err); markErr != nil {
		logger.Warn("failed to record session failure", logging.Error(markErr))
	}
	res.Err = err
	return res
}

func (r *Runner) finish(ctx context.Context, logger *slog.Logger, builder *finetune.Builder, res Result, title string, timeline []events.Event) Result {
	messages, err := format.Messages(timeline)
	if err != nil {
		return r.fail(ctx, logger, res, err)
	}

	conversation, tokens, err := builder.Build(messages)
	if err != nil {
		return r.fail(ctx, logger, res, err)
	}

	datasetPath := filepath.Join(r.cfg.Paths.OutputDir, res.SessionID+".jsonl")
	if err := finetune.WriteJSONL(datasetPath, conversation); err != nil {
		return r.fail(ctx, logger, res, err)
	}

	if r.cfg.Pipeline.WriteDebugHTML {
		eventsPath := filepath.Join(r.cfg.Paths.OutputDir, res.SessionID+".events.html")
		messagesPath := filepath.Join(r.cfg.Paths.OutputDir, res.SessionID+".messages.html")
		if err := WriteDebugHTML(eventsPath, messagesPath, title, timeline, messages); err != nil {
			logger.Warn("debug visualization failed", logging.Error(err))
		}
	}

	if err := r.store.MarkCompleted(ctx, res.SessionID, datasetPath, len(timeline), len(messages), tokens); err != nil {
		return r.fail(ctx, logger, res, err)
	}

	res.DatasetPath = datasetPath
	res.EventCount = len(timeline)
	res.MessageCount = len(messages)
	res.TokenCount = tokens
	logger.Info("session complete",
		logging.String("dataset", datasetPath),
		logging.Int("events", len(timeline)),
		logging.Int("messages", len(messages)),
		logging.Int("tokens", tokens))
	return res
}

// buildPipeline wires the configured extraction and augmentation stages.
func (r *Runner) buildPipeline(logger *slog.Logger) *Pipeline {
	extractors := []Extractor{
		extract.NewGuacExtractor(r.cfg, logger),
		extract.NewVideoExtractor(r.cfg, logger),
		extract.NewAppLogExtractor(r.cfg, r.store, logger),
	}

	var augmenters []Augmenter
	if r.cfg.Augment.Enabled {
		model := vlm.NewClient(vlm.Config{
			APIKey:         r.cfg.VLM.APIKey,
			BaseURL:        r.cfg.VLM.BaseURL,
			Model:          r.cfg.VLM.Model,
			MaxTokens:      r.cfg.VLM.MaxTokens,
			TimeoutSeconds: r.cfg.VLM.TimeoutSeconds,
		})
		ocr := tesseract.NewClient(r.cfg.OCR.TesseractBinary, r.cfg.OCR.Language)
		augmenters = []Augmenter{
			augment.NewDenseCaptionAugmenter(model, r.cfg.Augment.MaxCaptionSamples, logger),
			augment.NewStateTransitionAugmenter(model, r.cfg.Augment.MaxTransitionSamples, logger),
			augment.NewStructuredDataAugmenter(model, ocr, r.cfg.Augment.MaxStructuredSamples, logger),
		}
	}

	return New(extractors, augmenters, logger)
}
