package processor

import (
	"bytes"
	"context"
	"os"

	"aith/internal/models"
	"aith/internal/pkg/errors"
	"aith/internal/ports"
)

type OutputHandler struct {
	sp        ports.StorageProvider
	publisher ports.Publisher
	privacy   ports.Privacy
}

func NewOutputHandler(sp ports.StorageProvider, publisher ports.Publisher, privacy ports.Privacy) *OutputHandler {
	return &OutputHandler{sp: sp, publisher: publisher, privacy: privacy}
}

// ReadVideo loads the composed file. Called only after the composer exited.
func (oh *OutputHandler) ReadVideo(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.CodeLocalWrite, "render.read", "failed to read composed video").
			WithField("path", path)
	}
	return data, nil
}

// Upload stores the video under {id}.mp4, replacing any previous upload.
func (oh *OutputHandler) Upload(ctx context.Context, scriptID string, video []byte) (string, error) {
	key := VideoKey(scriptID)
	_, err := oh.sp.PutObject(ctx, ports.PutObjectInput{
		ObjectKey:   key,
		ContentType: VideoContentType,
		Reader:      bytes.NewReader(video),
		Size:        int64(len(video)),
	})
	if err != nil {
		return "", errors.WrapWithCode(err, errors.CodeUpload, "render.upload", "failed to upload video").
			WithField("provider", oh.sp.Provider()).
			WithField("key", key)
	}
	return key, nil
}

func (oh *OutputHandler) PublishEnabled() bool {
	return oh.publisher != nil
}

func (oh *OutputHandler) Publish(ctx context.Context, s *models.Script, video []byte) (*ports.PublishOutput, error) {
	in := NewPublishInput(s, oh.privacy)
	in.Video = bytes.NewReader(video)

	out, err := oh.publisher.Publish(ctx, in)
	if err != nil {
		return nil, errors.WrapWithCode(err, errors.CodePublish, "render.publish", "failed to publish video").
			WithField("provider", oh.publisher.Provider())
	}
	return &out, nil
}
