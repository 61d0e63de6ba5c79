package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openlancer/openlancer-backend/internal/models"
)

func TestPatcherAttach(t *testing.T) {
	ctx := context.Background()

	t.Run("scalar field is overwritten unconditionally", func(t *testing.T) {
		docs := newFakeDocStore()
		id, err := docs.Create(ctx, "profiles", map[string]any{})
		require.NoError(t, err)
		p := NewPatcher(docs)

		first := models.NewAssetReference("asset-1")
		require.NoError(t, p.Attach(ctx, "profiles", id, "profileImage", first, false, nil))
		second := models.NewAssetReference("asset-2")
		require.NoError(t, p.Attach(ctx, "profiles", id, "profileImage", second, false, nil))

		assert.Equal(t, second, docs.fieldsOf("profiles", id)["profileImage"])
	})

	t.Run("array append grows length by one with the reference last", func(t *testing.T) {
		docs := newFakeDocStore()
		id, err := docs.Create(ctx, "projects", map[string]any{})
		require.NoError(t, err)
		p := NewPatcher(docs)

		for i, assetID := range []string{"asset-1", "asset-2", "asset-3"} {
			ref := models.NewAssetReference(assetID)
			require.NoError(t, p.Attach(ctx, "projects", id, "gallery", ref, true, map[string]any{"caption": "shot"}))

			arr, ok := docs.fieldsOf("projects", id)["gallery"].([]any)
			require.True(t, ok)
			require.Len(t, arr, i+1)
			last, ok := arr[len(arr)-1].(map[string]any)
			require.True(t, ok)
			assert.Equal(t, assetID, last["id"])
			assert.Equal(t, "reference", last["type"])
			assert.Equal(t, "shot", last["caption"], "extra fields merge flat into the reference")
		}
	})

	t.Run("projectImage extra produces the nested keyed shape", func(t *testing.T) {
		docs := newFakeDocStore()
		id, err := docs.Create(ctx, "projects", map[string]any{})
		require.NoError(t, err)
		p := NewPatcher(docs)

		ref := models.NewAssetReference("asset-9")
		extra := map[string]any{"_type": "projectImage", "alt": "Storefront redesign"}
		require.NoError(t, p.Attach(ctx, "projects", id, "images", ref, true, extra))

		arr, ok := docs.fieldsOf("projects", id)["images"].([]any)
		require.True(t, ok)
		require.Len(t, arr, 1)
		item, ok := arr[0].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "projectImage", item["_type"])
		assert.NotEmpty(t, item["_key"])
		assert.Equal(t, "Storefront redesign", item["alt"])
		assert.Equal(t, ref, item["image"], "reference nests under image, not merged flat")
	})

	t.Run("missing target document is fatal for the task", func(t *testing.T) {
		docs := newFakeDocStore()
		p := NewPatcher(docs)

		err := p.Attach(ctx, "projects", "no-such-doc", "images", models.NewAssetReference("a"), true, nil)
		require.ErrorIs(t, err, ErrDocumentNotFound)

		err = p.Attach(ctx, "profiles", "no-such-doc", "profileImage", models.NewAssetReference("a"), false, nil)
		require.ErrorIs(t, err, ErrDocumentNotFound)
	})
}
