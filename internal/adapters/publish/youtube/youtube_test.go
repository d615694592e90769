package youtube

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
	yt "google.golang.org/api/youtube/v3"

	"aith/internal/ports"
)

func newTestPublisher(t *testing.T, h http.HandlerFunc) *Publisher {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	svc, err := yt.NewService(context.Background(),
		option.WithEndpoint(srv.URL+"/"),
		option.WithHTTPClient(srv.Client()),
	)
	require.NoError(t, err)
	return NewPublisher(svc, "")
}

func TestPublish(t *testing.T) {
	var body string
	p := newTestPublisher(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.True(t, strings.HasSuffix(r.URL.Path, "/videos"), r.URL.Path)
		assert.Contains(t, r.URL.RawQuery, "part=snippet%2Cstatus")

		b, _ := io.ReadAll(r.Body)
		body = string(b)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"vid123"}`))
	})

	out, err := p.Publish(context.Background(), ports.PublishInput{
		Title:       "Octopus facts",
		Description: "Octopus facts\n\n#shorts",
		Privacy:     ports.PrivacyPublic,
		ContentType: "video/mp4",
		Video:       strings.NewReader("mp4-bytes"),
	})

	require.NoError(t, err)
	assert.Equal(t, "vid123", out.ID)
	assert.Equal(t, "https://www.youtube.com/watch?v=vid123", out.URL)
	assert.Contains(t, body, `"title":"Octopus facts"`)
	assert.Contains(t, body, `"privacyStatus":"public"`)
	assert.Contains(t, body, `"categoryId":"22"`)
	assert.Contains(t, body, "mp4-bytes")
}

func TestPublishError(t *testing.T) {
	p := newTestPublisher(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error":{"code":403,"message":"quotaExceeded"}}`))
	})

	_, err := p.Publish(context.Background(), ports.PublishInput{Title: "t", Video: strings.NewReader("x")})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "quotaExceeded")
}

func TestPublishRequiresVideo(t *testing.T) {
	p := NewPublisher(nil, "")
	_, err := p.Publish(context.Background(), ports.PublishInput{Title: "t"})
	assert.Error(t, err)
}
