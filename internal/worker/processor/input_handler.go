package processor

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"aith/internal/pkg/errors"
)

// assets above this size are rejected
const maxAssetBytes = 512 << 20

type InputHandler struct {
	client          *http.Client
	baseURL         string
	thumbnailPrefix string
	audioPrefix     string
	workDir         string
}

func NewInputHandler(client *http.Client, baseURL, thumbnailPrefix, audioPrefix, workDir string) *InputHandler {
	return &InputHandler{
		client:          client,
		baseURL:         baseURL,
		thumbnailPrefix: thumbnailPrefix,
		audioPrefix:     audioPrefix,
		workDir:         workDir,
	}
}

// Materialize downloads the thumbnail and audio of scriptID concurrently and
// writes both to the work dir. Nothing is written unless both downloads succeed.
func (ih *InputHandler) Materialize(ctx context.Context, scriptID string) (*LocalInputs, error) {
	imageURL := AssetURL(ih.baseURL, ih.thumbnailPrefix, scriptID, imageExt)
	audioURL := AssetURL(ih.baseURL, ih.audioPrefix, scriptID, audioExt)

	var image, audio []byte
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		image, err = ih.fetch(gctx, imageURL)
		return err
	})
	g.Go(func() error {
		var err error
		audio, err = ih.fetch(gctx, audioURL)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	paths := LocalPathsFor(ih.workDir, scriptID)
	if err := os.MkdirAll(filepath.Dir(paths.Image), 0o755); err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeLocalWrite, "render.persist", "failed to create work dir")
	}
	if err := os.WriteFile(paths.Image, image, 0o644); err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeLocalWrite, "render.persist", "failed to write thumbnail").
			WithField("path", paths.Image)
	}
	if err := os.WriteFile(paths.Audio, audio, 0o644); err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeLocalWrite, "render.persist", "failed to write audio").
			WithField("path", paths.Audio)
	}

	return &LocalInputs{ImagePath: paths.Image, AudioPath: paths.Audio}, nil
}

func (ih *InputHandler) fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeAssetFetch, "render.fetch", "invalid asset url").
			WithField("url", url)
	}

	resp, err := ih.client.Do(req)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeAssetFetch, "render.fetch", "asset request failed").
			WithField("url", url)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, errors.Newf(errors.CodeAssetFetch, "asset %s returned http %d", url, resp.StatusCode).
			WithField("url", url).
			WithField("status", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxAssetBytes+1))
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeAssetFetch, "render.fetch", "failed to read asset body").
			WithField("url", url)
	}
	if len(body) > maxAssetBytes {
		return nil, errors.New(errors.CodeAssetFetch, fmt.Sprintf("asset %s exceeds %d bytes", url, maxAssetBytes)).
			WithField("url", url)
	}
	return body, nil
}
