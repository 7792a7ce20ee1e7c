package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"path"
	"strconv"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"crudapi/internal/errs"
	"crudapi/internal/model"
	"crudapi/internal/repository"
	"crudapi/internal/storage"
)

const ndjsonContentType = "application/x-ndjson"

// ExportResult describes an export written to object storage.
type ExportResult struct {
	Key       string    `json:"key"`
	Count     int       `json:"count"`
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Exporter writes every document matching a query to object storage.
type Exporter interface {
	Export(ctx context.Context, q repository.Query) (*ExportResult, error)
}

type exporter[T model.Entity[T]] struct {
	repo       repository.Repository[T]
	store      storage.Storage
	collection string
	expiry     time.Duration
	now        func() time.Time
}

// NewExporter constructs an Exporter that stores NDJSON files under
// exports/<collection>/ and hands out presigned links valid for expiry.
func NewExporter[T model.Entity[T]](repo repository.Repository[T], store storage.Storage, collection string, expiry time.Duration) Exporter {
	return &exporter[T]{
		repo:       repo,
		store:      store,
		collection: collection,
		expiry:     expiry,
		now:        time.Now,
	}
}

func (e *exporter[T]) Export(ctx context.Context, q repository.Query) (*ExportResult, error) {
	items, err := e.repo.FindAll(ctx, q)
	if err != nil {
		return nil, errs.From(err)
	}

	key := path.Join("exports", e.collection, uuid.NewString()+".ndjson")
	pr, pw := io.Pipe()

	var g errgroup.Group
	g.Go(func() error {
		err := writeNDJSON(pw, items)
		pw.CloseWithError(err)
		return err
	})

	info, putErr := e.store.Put(ctx, key, pr, storage.PutObjectOptions{
		Size:        storage.UnknownSize,
		ContentType: ndjsonContentType,
		Metadata: map[string]string{
			"collection": e.collection,
			"count":      strconv.Itoa(len(items)),
		},
	})
	// unblocks the encoder when Put returned without draining the pipe
	pr.Close()
	encErr := g.Wait()

	if putErr != nil {
		return nil, errs.Wrap(http.StatusBadGateway, fmt.Errorf("upload export: %w", putErr))
	}
	if encErr != nil {
		_ = e.store.Delete(ctx, info.Key)
		return nil, errs.Wrap(http.StatusInternalServerError, fmt.Errorf("encode export: %w", encErr))
	}

	url, err := e.store.PresignGet(ctx, info.Key, e.expiry)
	if err != nil {
		if delErr := e.store.Delete(ctx, info.Key); delErr != nil {
			return nil, errs.Wrap(http.StatusBadGateway, fmt.Errorf("presign export: %v; cleanup failed: %v", err, delErr))
		}
		return nil, errs.Wrap(http.StatusBadGateway, fmt.Errorf("presign export: %w", err))
	}

	return &ExportResult{
		Key:       info.Key,
		Count:     len(items),
		URL:       url,
		ExpiresAt: e.now().Add(e.expiry).UTC(),
	}, nil
}

// writeNDJSON encodes one document per line.
func writeNDJSON[T any](w io.Writer, items []T) error {
	enc := json.NewEncoder(w)
	for _, item := range items {
		if err := enc.Encode(item); err != nil {
			return err
		}
	}
	return nil
}
