package profile

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testProfile() Profile {
	p := Empty()
	p.Fields[CategoryBasic] = Record(map[string]Value{"name": String("陳大大"), "age": Number(17)})
	p.Fields[CategoryInterests] = List("打球", "游泳")
	p.Fields["nickname"] = String("大大")
	p.Meta.TotalInteractions = 3
	p.Meta.Confidence = Confidence(p)
	return p
}

func TestMemoryStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	_, _, err := store.Get(ctx, "u1")
	assert.ErrorIs(t, err, ErrNotFound)

	p := testProfile()
	require.NoError(t, store.Save(ctx, "u1", p, 0))

	got, version, err := store.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), version)
	for name, val := range p.Fields {
		assert.True(t, val.Equal(got.Fields[name]), "field %q", name)
	}
}

func TestMemoryStoreVersionConflict(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	require.NoError(t, store.Save(ctx, "u1", testProfile(), 0))

	// Stale writer loses.
	err := store.Save(ctx, "u1", testProfile(), 0)
	assert.ErrorIs(t, err, ErrVersionConflict)

	// Current writer wins and bumps the version.
	require.NoError(t, store.Save(ctx, "u1", testProfile(), 1))
	_, version, err := store.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), version)
}

func TestMemoryStoreGetReturnsCopy(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	require.NoError(t, store.Save(ctx, "u1", testProfile(), 0))

	got, _, err := store.Get(ctx, "u1")
	require.NoError(t, err)
	got.Fields["mutated"] = String("x")

	again, _, err := store.Get(ctx, "u1")
	require.NoError(t, err)
	assert.NotContains(t, again.Fields, "mutated")
}

func TestSQLiteStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store, err := NewSQLiteStore(t.TempDir() + "/profiles.db")
	require.NoError(t, err)
	defer store.Close()

	_, _, err = store.Get(ctx, "u1")
	assert.ErrorIs(t, err, ErrNotFound)

	p := testProfile()
	require.NoError(t, store.Save(ctx, "u1", p, 0))

	got, version, err := store.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), version)
	for name, val := range p.Fields {
		assert.True(t, val.Equal(got.Fields[name]), "field %q", name)
	}
	assert.Equal(t, 3, got.Meta.TotalInteractions)
}

func TestSQLiteStoreVersionConflict(t *testing.T) {
	ctx := context.Background()
	store, err := NewSQLiteStore(t.TempDir() + "/profiles.db")
	require.NoError(t, err)
	defer store.Close()

	require.NoError(t, store.Save(ctx, "u1", testProfile(), 0))

	assert.ErrorIs(t, store.Save(ctx, "u1", testProfile(), 0), ErrVersionConflict)
	assert.ErrorIs(t, store.Save(ctx, "u1", testProfile(), 7), ErrVersionConflict)
	assert.NoError(t, store.Save(ctx, "u1", testProfile(), 1))
}

func TestProfileJSONDocumentShape(t *testing.T) {
	p := testProfile()

	data, err := json.Marshal(p)
	require.NoError(t, err)

	// Fields sit at the top level with metadata under the reserved key.
	var doc map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Contains(t, doc, "nickname")
	assert.Contains(t, doc, CategoryBasic)
	assert.Contains(t, doc, "metadata")

	var back Profile
	require.NoError(t, json.Unmarshal(data, &back))
	for name, val := range p.Fields {
		assert.True(t, val.Equal(back.Fields[name]), "field %q", name)
	}
	assert.Equal(t, p.Meta.TotalInteractions, back.Meta.TotalInteractions)
}
