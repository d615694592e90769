package renderer

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"aith/internal/pkg/logger"
)

func TestComposeArgs(t *testing.T) {
	args := ComposeArgs(ComposeRequest{
		ImagePath:  "/w/abc.jpg",
		AudioPath:  "/w/abc.mp3",
		OutputPath: "/w/abc.mp4",
	})

	want := "-y -loop 1 -i /w/abc.jpg -i /w/abc.mp3 -c:v libx264 -tune stillimage -c:a aac -b:a 192k -pix_fmt yuv420p -s 720x1280 -shortest /w/abc.mp4"
	assert.Equal(t, want, strings.Join(args, " "))
}

func TestComposeArgsCustomSize(t *testing.T) {
	args := ComposeArgs(ComposeRequest{Width: 1080, Height: 1920, OutputPath: "o.mp4"})
	assert.Contains(t, args, "1080x1920")
}

// fakeTool writes an executable shell script standing in for ffmpeg/ffprobe.
func fakeTool(t *testing.T, script string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "tool")
	require.NoError(t, os.WriteFile(p, []byte("#!/bin/sh\n"+script+"\n"), 0o755))
	return p
}

func TestComposeFailureIncludesOutput(t *testing.T) {
	bin := fakeTool(t, `echo "abc.jpg: No such file or directory" >&2; exit 1`)
	f := NewFFmpeg(bin, "", logger.Discard())

	err := f.Compose(context.Background(), ComposeRequest{OutputPath: "x.mp4"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "No such file or directory")
}

func TestComposeSuccess(t *testing.T) {
	bin := fakeTool(t, `exit 0`)
	f := NewFFmpeg(bin, "", logger.Discard())

	assert.NoError(t, f.Compose(context.Background(), ComposeRequest{OutputPath: "x.mp4"}))
}

func TestProbe(t *testing.T) {
	bin := fakeTool(t, `echo "12.480000"`)
	f := NewFFmpeg("", bin, logger.Discard())

	d, err := f.Probe(context.Background(), "x.mp4")
	require.NoError(t, err)
	assert.InDelta(t, 12.48, d, 0.0001)
}

func TestProbeBadOutput(t *testing.T) {
	bin := fakeTool(t, `echo "N/A"`)
	f := NewFFmpeg("", bin, logger.Discard())

	_, err := f.Probe(context.Background(), "x.mp4")
	assert.Error(t, err)
}

func TestTail(t *testing.T) {
	long := strings.Repeat("a", outputTail+10)
	got := tail([]byte(long))
	assert.True(t, strings.HasPrefix(got, "..."))
	assert.Len(t, got, outputTail+3)
}
