package gcp

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/openlancer/openlancer-backend/internal/services"
)

// NewFirestoreClient creates and returns a new Firestore client for the given project ID.
// It centralizes client creation for all services.
func NewFirestoreClient(ctx context.Context, projectID string) (*firestore.Client, error) {
	if projectID == "" {
		return nil, fmt.Errorf("projectID must be provided to create a firestore client")
	}

	client, err := firestore.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to create Firestore client: %w", err)
	}

	return client, nil
}

// FirestoreDocuments implements services.DocumentStore on top of a Firestore
// client. Collections are addressed by name on every call so one store serves
// profiles, projects and companies alike.
type FirestoreDocuments struct {
	client *firestore.Client
}

func NewFirestoreDocuments(client *firestore.Client) *FirestoreDocuments {
	return &FirestoreDocuments{client: client}
}

func (s *FirestoreDocuments) Create(ctx context.Context, collection string, doc any) (string, error) {
	ref, _, err := s.client.Collection(collection).Add(ctx, doc)
	if err != nil {
		return "", fmt.Errorf("failed to create document in %s: %w", collection, err)
	}
	return ref.ID, nil
}

func (s *FirestoreDocuments) Get(ctx context.Context, collection, id string) (map[string]any, error) {
	snap, err := s.client.Collection(collection).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return nil, fmt.Errorf("%s/%s: %w", collection, id, services.ErrDocumentNotFound)
		}
		return nil, fmt.Errorf("failed to fetch %s/%s: %w", collection, id, err)
	}
	return snap.Data(), nil
}

func (s *FirestoreDocuments) SetField(ctx context.Context, collection, id, fieldPath string, value any) error {
	_, err := s.client.Collection(collection).Doc(id).Update(ctx, []firestore.Update{
		{Path: fieldPath, Value: value},
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return fmt.Errorf("%s/%s: %w", collection, id, services.ErrDocumentNotFound)
		}
		return fmt.Errorf("failed to set %s on %s/%s: %w", fieldPath, collection, id, err)
	}
	return nil
}

// AppendToArray appends one item to an array field inside a transaction, so
// concurrent appends to the same field cannot drop one another's write. The
// field defaults to empty when missing from the document.
func (s *FirestoreDocuments) AppendToArray(ctx context.Context, collection, id, fieldPath string, item any) error {
	ref := s.client.Collection(collection).Doc(id)
	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(ref)
		if err != nil {
			return err
		}
		var current []any
		if raw, err := snap.DataAt(fieldPath); err == nil {
			if arr, ok := raw.([]any); ok {
				current = arr
			}
		}
		current = append(current, item)
		return tx.Update(ref, []firestore.Update{{Path: fieldPath, Value: current}})
	})
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return fmt.Errorf("%s/%s: %w", collection, id, services.ErrDocumentNotFound)
		}
		return fmt.Errorf("failed to append to %s on %s/%s: %w", fieldPath, collection, id, err)
	}
	return nil
}
