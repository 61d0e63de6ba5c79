package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/openlancer/openlancer-backend/internal/models"
)

// Patcher writes asset references onto already-committed documents.
type Patcher struct {
	docs DocumentStore
}

func NewPatcher(docs DocumentStore) *Patcher {
	return &Patcher{docs: docs}
}

// Attach writes ref into fieldPath on collection/targetID. Scalar fields are
// overwritten unconditionally. Array fields receive one appended element:
// extra merged into the reference, or the typed projectImage sub-object when
// extra carries _type "projectImage". The append is atomic at the store
// level, so concurrent attaches to the same array cannot drop each other.
func (p *Patcher) Attach(ctx context.Context, collection, targetID, fieldPath string, ref models.Reference, arrayAppend bool, extra map[string]any) error {
	if !arrayAppend {
		if err := p.docs.SetField(ctx, collection, targetID, fieldPath, ref); err != nil {
			return fmt.Errorf("attach %s: %w", fieldPath, err)
		}
		return nil
	}

	if err := p.docs.AppendToArray(ctx, collection, targetID, fieldPath, buildArrayItem(ref, extra)); err != nil {
		return fmt.Errorf("attach %s: %w", fieldPath, err)
	}
	return nil
}

// buildArrayItem shapes one array element from the reference and extra
// fields. Project gallery entries get the nested keyed shape the frontend
// expects; anything else is a flat merge over the reference.
func buildArrayItem(ref models.Reference, extra map[string]any) map[string]any {
	if extra["_type"] == "projectImage" {
		item := map[string]any{
			"_type": "projectImage",
			"_key":  uuid.NewString(),
			"image": ref,
		}
		if alt, ok := extra["alt"]; ok {
			item["alt"] = alt
		}
		return item
	}

	item := map[string]any{
		"type": ref.Type,
		"id":   ref.ID,
	}
	for k, v := range extra {
		item[k] = v
	}
	return item
}
