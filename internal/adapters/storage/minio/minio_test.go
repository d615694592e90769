package minio

import (
	"errors"
	"testing"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"

	"aith/internal/ports"
)

func TestMapErr(t *testing.T) {
	notFound := minio.ErrorResponse{Code: "NoSuchKey", StatusCode: 404}
	assert.ErrorIs(t, mapErr(notFound), ports.ErrObjectNotFound)

	other := errors.New("connection refused")
	assert.Equal(t, other, mapErr(other))
}
