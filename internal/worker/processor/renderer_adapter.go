package processor

import (
	"context"

	"aith/internal/pkg/errors"
	"aith/internal/pkg/logger"
	"aith/internal/worker/renderer"
)

type RendererAdapter struct {
	composer renderer.Composer
	log      *logger.Logger
}

func NewRendererAdapter(composer renderer.Composer, log *logger.Logger) *RendererAdapter {
	return &RendererAdapter{composer: composer, log: log}
}

// Render composes the video and reports its duration. A failed probe only
// costs the duration; the video itself is fine.
func (ra *RendererAdapter) Render(ctx context.Context, in *LocalInputs, outputPath string) (float64, error) {
	err := ra.composer.Compose(ctx, renderer.ComposeRequest{
		ImagePath:  in.ImagePath,
		AudioPath:  in.AudioPath,
		OutputPath: outputPath,
		Width:      renderer.Width,
		Height:     renderer.Height,
	})
	if err != nil {
		return 0, errors.WrapWithCode(err, errors.CodeComposition, "render.compose", "video composition failed")
	}

	d, err := ra.composer.Probe(ctx, outputPath)
	if err != nil {
		ra.log.FromContext(ctx).WithError(err).Warn("could not probe video duration")
		return 0, nil
	}
	return d, nil
}
