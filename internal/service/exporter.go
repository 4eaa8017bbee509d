package service

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/jonno85/graphile-server/internal/adapter"
	"github.com/jonno85/graphile-server/internal/metrics"
)

const (
	SchemaObjectName  = "schema.json"
	schemaContentType = "application/json"
)

type IntrospectionSource interface {
	IntrospectionJSON(ctx context.Context) ([]byte, error)
}

// SchemaExporter writes the introspection result to a local file, an object
// store bucket, or both.
type SchemaExporter struct {
	source IntrospectionSource
	path   string
	bucket string
	store  adapter.ObjectStore
}

// NewSchemaExporter returns an exporter; an empty path or bucket (or nil
// store) disables that target.
func NewSchemaExporter(source IntrospectionSource, path, bucket string, store adapter.ObjectStore) *SchemaExporter {
	if store == nil {
		bucket = ""
	}
	return &SchemaExporter{
		source: source,
		path:   path,
		bucket: bucket,
		store:  store,
	}
}

func (e *SchemaExporter) Enabled() bool {
	return e.path != "" || e.bucket != ""
}

// Export runs introspection once and sends the document to every enabled
// target. Errors from each target are joined.
func (e *SchemaExporter) Export(ctx context.Context) error {
	if !e.Enabled() {
		return nil
	}
	doc, err := e.source.IntrospectionJSON(ctx)
	if err != nil {
		return err
	}

	var errs []error
	if e.path != "" {
		err := writeSchemaFile(e.path, doc)
		metrics.SchemaExports.WithLabelValues("file", metrics.Result(err)).Inc()
		if err != nil {
			slog.Error("Failed to export schema", "path", e.path, "err", err)
			errs = append(errs, err)
		} else {
			slog.Info("Schema exported", "path", e.path, "bytes", len(doc))
		}
	}
	if e.bucket != "" {
		uploaded, err := e.upload(ctx, doc)
		metrics.SchemaExports.WithLabelValues("s3", metrics.Result(err)).Inc()
		if err != nil {
			slog.Error("Failed to upload schema", "bucket", e.bucket, "err", err)
			errs = append(errs, err)
		} else {
			slog.Info("Schema uploaded", "bucket", e.bucket, "object", SchemaObjectName, "changed", uploaded)
		}
	}
	return errors.Join(errs...)
}

func (e *SchemaExporter) upload(ctx context.Context, doc []byte) (bool, error) {
	if err := e.store.EnsureBucket(ctx, e.bucket); err != nil {
		return false, err
	}
	return e.store.PutObjectWithIdempotency(ctx, e.bucket, SchemaObjectName, doc, schemaContentType)
}

func writeSchemaFile(path string, doc []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, doc, 0o644)
}
