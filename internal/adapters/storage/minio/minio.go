package minio

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"aith/internal/ports"
)

type Options struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// Client stores objects in an S3-compatible bucket.
type Client struct {
	mc     *minio.Client
	bucket string
}

// New connects to the endpoint and creates the bucket when missing.
func New(ctx context.Context, opt Options) (*Client, error) {
	mc, err := minio.New(opt.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(opt.AccessKey, opt.SecretKey, ""),
		Secure: opt.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("minio init: %w", err)
	}

	exists, err := mc.BucketExists(ctx, opt.Bucket)
	if err != nil {
		return nil, fmt.Errorf("minio check bucket %q: %w", opt.Bucket, err)
	}
	if !exists {
		if err := mc.MakeBucket(ctx, opt.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("minio create bucket %q: %w", opt.Bucket, err)
		}
	}

	return &Client{mc: mc, bucket: opt.Bucket}, nil
}

func (c *Client) Provider() string { return "minio" }

// PutObject overwrites; S3 puts replace an existing key.
func (c *Client) PutObject(ctx context.Context, in ports.PutObjectInput) (ports.PutObjectOutput, error) {
	if in.ObjectKey == "" {
		return ports.PutObjectOutput{}, fmt.Errorf("object_key is required")
	}

	size := in.Size
	if size <= 0 {
		size = -1
	}

	info, err := c.mc.PutObject(ctx, c.bucket, in.ObjectKey, in.Reader, size, minio.PutObjectOptions{
		ContentType: in.ContentType,
	})
	if err != nil {
		return ports.PutObjectOutput{}, fmt.Errorf("minio upload failed: %w", err)
	}

	return ports.PutObjectOutput{
		ObjectKey: in.ObjectKey,
		Location:  c.bucket + "/" + info.Key,
		Size:      info.Size,
	}, nil
}

func (c *Client) GetObject(ctx context.Context, objectKey string) (rc io.ReadCloser, contentType string, size int64, err error) {
	obj, err := c.mc.GetObject(ctx, c.bucket, objectKey, minio.GetObjectOptions{})
	if err != nil {
		return nil, "", 0, mapErr(err)
	}

	st, err := obj.Stat()
	if err != nil {
		_ = obj.Close()
		return nil, "", 0, mapErr(err)
	}
	return obj, st.ContentType, st.Size, nil
}

func (c *Client) GetSignedURL(ctx context.Context, objectKey string, expiresIn time.Duration) (ports.SignedURLOutput, error) {
	u, err := c.mc.PresignedGetObject(ctx, c.bucket, objectKey, expiresIn, make(url.Values))
	if err != nil {
		return ports.SignedURLOutput{}, fmt.Errorf("minio presign: %w", err)
	}
	return ports.SignedURLOutput{URL: u.String(), ExpiresAt: time.Now().UTC().Add(expiresIn)}, nil
}

func mapErr(err error) error {
	switch minio.ToErrorResponse(err).Code {
	case "NoSuchKey", "NoSuchObject":
		return ports.ErrObjectNotFound
	}
	return err
}
