// Package supabase is a StorageProvider backed by the Supabase Storage REST API.
package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"aith/internal/ports"
)

type Client struct {
	baseURL string
	key     string
	bucket  string
	http    *http.Client
}

// New returns a client for bucket on the project at projectURL
// (https://{ref}.supabase.co). key is the service role key.
func New(projectURL, key, bucket string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 5 * time.Minute}
	}
	return &Client{
		baseURL: strings.TrimRight(projectURL, "/") + "/storage/v1",
		key:     key,
		bucket:  bucket,
		http:    httpClient,
	}
}

func (c *Client) Provider() string { return "supabase" }

// PutObject uploads with x-upsert so an existing object is replaced.
func (c *Client) PutObject(ctx context.Context, in ports.PutObjectInput) (ports.PutObjectOutput, error) {
	if in.ObjectKey == "" {
		return ports.PutObjectOutput{}, fmt.Errorf("object_key is required")
	}

	req, err := c.newRequest(ctx, http.MethodPost, "/object/"+c.bucket+"/"+escapeKey(in.ObjectKey), in.Reader)
	if err != nil {
		return ports.PutObjectOutput{}, err
	}
	if in.ContentType != "" {
		req.Header.Set("Content-Type", in.ContentType)
	}
	if in.Size > 0 {
		req.ContentLength = in.Size
	}
	req.Header.Set("x-upsert", "true")
	req.Header.Set("Cache-Control", "max-age=3600")

	resp, err := c.http.Do(req)
	if err != nil {
		return ports.PutObjectOutput{}, fmt.Errorf("supabase upload: %w", err)
	}
	defer resp.Body.Close()
	if err := checkResponse(resp); err != nil {
		return ports.PutObjectOutput{}, fmt.Errorf("supabase upload: %w", err)
	}

	var body struct {
		Key string `json:"Key"`
	}
	_ = json.NewDecoder(resp.Body).Decode(&body)

	return ports.PutObjectOutput{ObjectKey: in.ObjectKey, Location: body.Key, Size: in.Size}, nil
}

func (c *Client) GetObject(ctx context.Context, objectKey string) (rc io.ReadCloser, contentType string, size int64, err error) {
	req, err := c.newRequest(ctx, http.MethodGet, "/object/authenticated/"+c.bucket+"/"+escapeKey(objectKey), nil)
	if err != nil {
		return nil, "", 0, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, "", 0, fmt.Errorf("supabase download: %w", err)
	}
	if err := checkResponse(resp); err != nil {
		resp.Body.Close()
		return nil, "", 0, err
	}
	return resp.Body, resp.Header.Get("Content-Type"), resp.ContentLength, nil
}

func (c *Client) GetSignedURL(ctx context.Context, objectKey string, expiresIn time.Duration) (ports.SignedURLOutput, error) {
	payload, _ := json.Marshal(map[string]int{"expiresIn": int(expiresIn.Seconds())})

	req, err := c.newRequest(ctx, http.MethodPost, "/object/sign/"+c.bucket+"/"+escapeKey(objectKey), bytes.NewReader(payload))
	if err != nil {
		return ports.SignedURLOutput{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return ports.SignedURLOutput{}, fmt.Errorf("supabase sign: %w", err)
	}
	defer resp.Body.Close()
	if err := checkResponse(resp); err != nil {
		return ports.SignedURLOutput{}, fmt.Errorf("supabase sign: %w", err)
	}

	var body struct {
		SignedURL string `json:"signedURL"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return ports.SignedURLOutput{}, fmt.Errorf("supabase sign: decode: %w", err)
	}

	return ports.SignedURLOutput{
		URL:       c.baseURL + body.SignedURL,
		ExpiresAt: time.Now().UTC().Add(expiresIn),
	}, nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+c.key)
	req.Header.Set("apikey", c.key)
	return req, nil
}

// Error is a non-2xx answer from the storage API.
type Error struct {
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	return fmt.Sprintf("storage api status %d: %s", e.StatusCode, e.Message)
}

func checkResponse(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	var body struct {
		StatusCode string `json:"statusCode"`
		Error      string `json:"error"`
		Message    string `json:"message"`
	}
	msg := strings.TrimSpace(string(raw))
	if json.Unmarshal(raw, &body) == nil && body.Message != "" {
		msg = body.Message
	}

	// The API answers 400 with statusCode "404" for missing objects.
	if resp.StatusCode == http.StatusNotFound || body.StatusCode == "404" || body.Error == "not_found" {
		return fmt.Errorf("%w: %s", ports.ErrObjectNotFound, msg)
	}
	return &Error{StatusCode: resp.StatusCode, Message: msg}
}

func escapeKey(key string) string {
	parts := strings.Split(strings.TrimLeft(key, "/"), "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return strings.Join(parts, "/")
}
