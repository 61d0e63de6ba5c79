package services

import (
	"context"
	"errors"
)

// ErrDocumentNotFound marks a patch or fetch against a document that does not
// exist. For a media task this is fatal; the task is logged and dropped.
var ErrDocumentNotFound = errors.New("document not found")

// DocumentStore is the narrow surface the submission pipeline needs from the
// document database. The production implementation is Firestore
// (internal/gcp); tests use an in-memory fake.
type DocumentStore interface {
	// Create writes a new document and returns its generated id.
	Create(ctx context.Context, collection string, doc any) (string, error)
	// Get fetches a document's fields, or ErrDocumentNotFound.
	Get(ctx context.Context, collection, id string) (map[string]any, error)
	// SetField unconditionally overwrites one field path.
	SetField(ctx context.Context, collection, id, fieldPath string, value any) error
	// AppendToArray atomically appends one item to an array field,
	// treating a missing field as empty.
	AppendToArray(ctx context.Context, collection, id, fieldPath string, item any) error
}

// AssetStore is the binary content store. Put must either commit the object
// under key or return an error; it is not required to be idempotent.
type AssetStore interface {
	Put(ctx context.Context, key, contentType string, data []byte) error
}
