package processor

import (
	"context"
	stderrors "errors"
	"net/http"
	"time"

	"aith/internal/models"
	"aith/internal/pkg/errors"
	"aith/internal/pkg/logger"
	"aith/internal/ports"
	"aith/internal/worker/renderer"
)

// bounds status writes that must outlive a canceled request
const detachedTimeout = 10 * time.Second

type Deps struct {
	Scripts   ports.ScriptStore
	Storage   ports.StorageProvider
	Publisher ports.Publisher // nil renders without publishing
	Composer  renderer.Composer

	HTTPClient      *http.Client
	AssetBaseURL    string
	ThumbnailPrefix string
	AudioPrefix     string
	WorkDir         string
	CleanupLocal    bool
	Privacy         ports.Privacy

	Log *logger.Logger
}

// Processor runs the render pipeline: claim the newest thumbed script, fetch
// its assets, compose, upload, optionally publish, then record the new status.
type Processor struct {
	scripts ports.ScriptStore
	workDir string
	log     *logger.Logger

	inputHandler    *InputHandler
	rendererAdapter *RendererAdapter
	outputHandler   *OutputHandler
	cleanup         *Cleanup
}

func New(d Deps) *Processor {
	log := d.Log
	if log == nil {
		log = logger.NewDefault()
	}
	log = log.WithComponent("processor")

	client := d.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 2 * time.Minute}
	}

	return &Processor{
		scripts: d.Scripts,
		workDir: d.WorkDir,
		log:     log,

		inputHandler:    NewInputHandler(client, d.AssetBaseURL, d.ThumbnailPrefix, d.AudioPrefix, d.WorkDir),
		rendererAdapter: NewRendererAdapter(d.Composer, log),
		outputHandler:   NewOutputHandler(d.Storage, d.Publisher, d.Privacy),
		cleanup:         NewCleanup(d.CleanupLocal, log),
	}
}

// Render processes at most one script. With nothing to do it returns a
// CodeNoWork error and has no side effects.
func (p *Processor) Render(ctx context.Context) (*Result, error) {
	start := time.Now()

	script, err := p.scripts.ClaimLatest(ctx, models.StatusThumbed, models.StatusRendering)
	if stderrors.Is(err, ports.ErrNoScript) {
		return nil, errors.New(errors.CodeNoWork, "no thumbed script")
	}
	if err != nil {
		return nil, errors.Wrap(err, "render.select", "failed to select script")
	}

	ctx = logger.ContextWithScriptID(ctx, script.ID)
	log := p.log.FromContext(ctx)
	log.Info("script claimed", "topic", script.Topic)

	paths := LocalPathsFor(p.workDir, script.ID)
	defer p.cleanup.Files(paths)

	res, err := p.run(ctx, script, paths)
	if err != nil {
		if res != nil && res.Published != nil {
			// The video is already public. Releasing would publish it again on
			// the next trigger, so the script stays in rendering for repair.
			log.WithError(err).Error("video published but status not recorded, script left in rendering",
				"publish_id", res.Published.ID,
				"publish_url", res.Published.URL,
			)
			return nil, err
		}
		p.release(ctx, script.ID)
		return nil, err
	}

	log.Info("render completed",
		"status", string(res.Status),
		"video", res.VideoKey,
		"duration_seconds", res.DurationSeconds,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return res, nil
}

// run executes the steps after the claim. On a failed status write after a
// successful publish it returns the partial result together with the error.
func (p *Processor) run(ctx context.Context, script *models.Script, paths LocalPaths) (*Result, error) {
	log := p.log.FromContext(ctx)

	inputs, err := p.inputHandler.Materialize(ctx, script.ID)
	if err != nil {
		return nil, err
	}
	log.Debug("assets persisted", "image", inputs.ImagePath, "audio", inputs.AudioPath)

	duration, err := p.rendererAdapter.Render(ctx, inputs, paths.Video)
	if err != nil {
		return nil, err
	}

	video, err := p.outputHandler.ReadVideo(paths.Video)
	if err != nil {
		return nil, err
	}

	key, err := p.outputHandler.Upload(ctx, script.ID, video)
	if err != nil {
		return nil, err
	}
	log.Debug("video uploaded", "key", key, "bytes", len(video))

	res := &Result{
		ScriptID:        script.ID,
		Status:          models.StatusReady,
		VideoKey:        key,
		DurationSeconds: duration,
	}

	if p.outputHandler.PublishEnabled() {
		out, err := p.outputHandler.Publish(ctx, script, video)
		if err != nil {
			return nil, err
		}
		log.Info("video published", "publish_id", out.ID, "url", out.URL)
		res.Published = out
		res.Status = models.StatusPublished
	}

	if err := p.recordStatus(ctx, script.ID, res.Status); err != nil {
		werr := errors.WrapWithCode(err, errors.CodeStatusUpdate, "render.status", "failed to update script status").
			WithField("status", string(res.Status))
		if res.Published != nil {
			werr = werr.WithField("publish_id", res.Published.ID)
			return res, werr
		}
		return nil, werr
	}
	return res, nil
}

// recordStatus writes the final status. The work it records is already done,
// so a canceled caller does not abort the write.
func (p *Processor) recordStatus(ctx context.Context, scriptID string, to models.ScriptStatus) error {
	sctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), detachedTimeout)
	defer cancel()
	return p.scripts.SetStatus(sctx, scriptID, models.StatusRendering, to)
}

// release hands a claimed script back to thumbed so a later trigger retries it.
// It runs even when ctx is already canceled.
func (p *Processor) release(ctx context.Context, scriptID string) {
	rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), detachedTimeout)
	defer cancel()

	if err := p.scripts.SetStatus(rctx, scriptID, models.StatusRendering, models.StatusThumbed); err != nil {
		p.log.FromContext(ctx).WithError(err).Error("failed to release script")
		return
	}
	p.log.FromContext(ctx).Info("script released")
}
