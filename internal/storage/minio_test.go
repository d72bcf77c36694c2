package storage

import (
	"errors"
	"net/http"
	"testing"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
)

func minioNoSuchKey() error {
	return minio.ErrorResponse{Code: "NoSuchKey", Key: "documents/x.pdf", StatusCode: http.StatusNotFound}
}

func TestMapMinIOError_Passthrough(t *testing.T) {
	boom := errors.New("connection refused")
	assert.Equal(t, boom, mapMinIOError(boom))

	denied := minio.ErrorResponse{Code: "AccessDenied", StatusCode: http.StatusForbidden}
	assert.NotErrorIs(t, mapMinIOError(denied), ErrObjectNotFound)
}
