// Package renderer composes the still-image video with the ffmpeg command line tools.
package renderer

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"aith/internal/pkg/logger"
)

const (
	Width  = 720
	Height = 1280

	// bytes of tool output kept in errors
	outputTail = 2048
)

type ComposeRequest struct {
	ImagePath  string
	AudioPath  string
	OutputPath string
	Width      int
	Height     int
}

// Composer turns a still image and an audio track into a video file.
type Composer interface {
	Compose(ctx context.Context, req ComposeRequest) error
	Probe(ctx context.Context, path string) (float64, error)
}

type FFmpeg struct {
	ffmpegPath  string
	ffprobePath string
	log         *logger.Logger
}

func NewFFmpeg(ffmpegPath, ffprobePath string, log *logger.Logger) *FFmpeg {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	if ffprobePath == "" {
		ffprobePath = "ffprobe"
	}
	if log == nil {
		log = logger.NewDefault()
	}
	return &FFmpeg{ffmpegPath: ffmpegPath, ffprobePath: ffprobePath, log: log.WithComponent("ffmpeg")}
}

// Compose loops the image over the audio, stops at the shorter input and
// scales to the requested size. It returns after the process has exited.
func (f *FFmpeg) Compose(ctx context.Context, req ComposeRequest) error {
	args := ComposeArgs(req)
	f.log.FromContext(ctx).Debug("running ffmpeg", "args", strings.Join(args, " "))

	start := time.Now()
	out, err := exec.CommandContext(ctx, f.ffmpegPath, args...).CombinedOutput()
	if err != nil {
		return fmt.Errorf("ffmpeg: %w, output: %s", err, tail(out))
	}

	f.log.FromContext(ctx).Info("ffmpeg finished",
		"output", req.OutputPath,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

// Probe returns the container duration in seconds.
func (f *FFmpeg) Probe(ctx context.Context, path string) (float64, error) {
	cmd := exec.CommandContext(ctx, f.ffprobePath,
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path,
	)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	out, err := cmd.Output()
	if err != nil {
		return 0, fmt.Errorf("ffprobe: %w, output: %s", err, tail(stderr.Bytes()))
	}

	d, err := strconv.ParseFloat(strings.TrimSpace(string(out)), 64)
	if err != nil {
		return 0, fmt.Errorf("ffprobe: parse duration %q: %w", strings.TrimSpace(string(out)), err)
	}
	return d, nil
}

func ComposeArgs(req ComposeRequest) []string {
	w, h := req.Width, req.Height
	if w <= 0 || h <= 0 {
		w, h = Width, Height
	}
	return []string{
		"-y",
		"-loop", "1",
		"-i", req.ImagePath,
		"-i", req.AudioPath,
		"-c:v", "libx264",
		"-tune", "stillimage",
		"-c:a", "aac",
		"-b:a", "192k",
		"-pix_fmt", "yuv420p",
		"-s", fmt.Sprintf("%dx%d", w, h),
		"-shortest",
		req.OutputPath,
	}
}

func tail(b []byte) string {
	s := strings.TrimSpace(string(b))
	if len(s) > outputTail {
		s = "..." + s[len(s)-outputTail:]
	}
	return s
}
