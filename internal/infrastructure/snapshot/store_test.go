package snapshot

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/marketlens/backend/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveAndLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data", "output.json")
	store := NewStore(path)

	batch := []domain.RawRecord{
		{
			"product_id": "123",
			"name":       "Logitech M331",
			"real_price": float64(150000),
			"rating":     4.8,
			"shop": map[string]any{
				"name":        "Toko Jaya",
				"city":        "Jakarta",
				"is_official": true,
			},
			"product_reviews": []any{
				map[string]any{"message": "mantap, pengiriman cepat"},
			},
		},
		{
			"product_id": "456",
			"real_price": "not a number",
		},
	}

	require.NoError(t, store.Save(batch))

	loaded, err := store.Load()
	require.NoError(t, err)
	require.Len(t, loaded, 2)

	// The loaded batch must be structurally identical to the saved one.
	assert.Equal(t, batch, loaded)

	// And round-trip through the nested accessors the pipeline uses.
	shopName, ok := loaded[0].Lookup("shop", "name")
	require.True(t, ok)
	assert.Equal(t, "Toko Jaya", shopName)
	reviews := loaded[0].Reviews()
	require.Len(t, reviews, 1)
	assert.Equal(t, "mantap, pengiriman cepat", reviews[0].Message)
}

func TestLoadMissingFile(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "missing.json"))
	_, err := store.Load()
	assert.ErrorIs(t, err, domain.ErrNoSnapshot)
}

func TestLoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"not": "an array"}`), 0o644))

	store := NewStore(path)
	_, err := store.Load()
	assert.ErrorIs(t, err, domain.ErrMalformedBatch)
}

func TestDecodeBatch(t *testing.T) {
	t.Run("array of objects decodes", func(t *testing.T) {
		batch, err := DecodeBatch([]byte(`[{"real_price": 10000}, {"rating": 4.5}]`))
		require.NoError(t, err)
		assert.Len(t, batch, 2)
	})

	t.Run("empty array is valid", func(t *testing.T) {
		batch, err := DecodeBatch([]byte(`[]`))
		require.NoError(t, err)
		assert.Empty(t, batch)
	})

	t.Run("array with non-object element is malformed", func(t *testing.T) {
		_, err := DecodeBatch([]byte(`[{"a": 1}, 42]`))
		assert.ErrorIs(t, err, domain.ErrMalformedBatch)
	})

	t.Run("top-level object is malformed", func(t *testing.T) {
		_, err := DecodeBatch([]byte(`{"a": 1}`))
		assert.ErrorIs(t, err, domain.ErrMalformedBatch)
	})

	t.Run("top-level null is malformed", func(t *testing.T) {
		_, err := DecodeBatch([]byte(`null`))
		assert.ErrorIs(t, err, domain.ErrMalformedBatch)
	})

	t.Run("top-level string is malformed", func(t *testing.T) {
		_, err := DecodeBatch([]byte(`"[]"`))
		assert.ErrorIs(t, err, domain.ErrMalformedBatch)
	})
}

func TestSaveOverwritesPreviousSnapshot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "output.json")
	store := NewStore(path)

	require.NoError(t, store.Save([]domain.RawRecord{{"name": "first"}}))
	require.NoError(t, store.Save([]domain.RawRecord{{"name": "second"}, {"name": "third"}}))

	loaded, err := store.Load()
	require.NoError(t, err)
	require.Len(t, loaded, 2)
	name, _ := loaded[0].Lookup("name")
	assert.Equal(t, "second", name)
}
