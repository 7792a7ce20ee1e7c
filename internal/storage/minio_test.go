package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"crudapi/internal/config"
)

func TestNewMinIO_Validation(t *testing.T) {
	tests := []struct {
		name    string
		cfg     config.MinIOConfig
		wantErr string
	}{
		{name: "missing endpoint", cfg: config.MinIOConfig{AccessKey: "a", SecretKey: "s", Bucket: "b"}, wantErr: "endpoint"},
		{name: "missing credentials", cfg: config.MinIOConfig{Endpoint: "localhost:9000", Bucket: "b"}, wantErr: "credentials"},
		{name: "missing bucket", cfg: config.MinIOConfig{Endpoint: "localhost:9000", AccessKey: "a", SecretKey: "s"}, wantErr: "bucket"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := NewMinIO(context.Background(), tt.cfg)
			assert.Nil(t, s)
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestPutOptions(t *testing.T) {
	meta := map[string]string{"count": "2"}

	t.Run("stream gets a bounded part size", func(t *testing.T) {
		po := putOptions(PutObjectOptions{Size: UnknownSize, ContentType: "application/x-ndjson", Metadata: meta})

		assert.EqualValues(t, streamPartSize, po.PartSize)
		assert.Equal(t, "application/x-ndjson", po.ContentType)
		assert.Equal(t, meta, po.UserMetadata)
	})

	t.Run("known size leaves part sizing to the client", func(t *testing.T) {
		po := putOptions(PutObjectOptions{Size: 42})

		assert.Zero(t, po.PartSize)
	})
}

func TestNewMinIO_UnreachableEndpoint(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	s, err := NewMinIO(ctx, config.MinIOConfig{Endpoint: "127.0.0.1:1", AccessKey: "a", SecretKey: "s", Bucket: "exports"})

	assert.Nil(t, s)
	assert.ErrorContains(t, err, `check bucket "exports"`)
}
