package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"video_syncer/internal/domain"
	"video_syncer/internal/storage/memory"
)

func TestFieldMapper_NewTableRenamesPrimary(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	tableID, err := store.CreateTable(ctx, "alice")
	require.NoError(t, err)

	fm, err := NewFieldMapper(store, discardLogger()).Resolve(ctx, tableID, true)
	require.NoError(t, err)

	assert.Len(t, fm, len(domain.Schema))

	fields, err := store.ListFields(ctx, tableID)
	require.NoError(t, err)
	require.Len(t, fields, len(domain.Schema))
	assert.Equal(t, "aweme_id", fields[0].Name)
	assert.True(t, fields[0].IsPrimary)
	assert.Equal(t, fields[0].ID, fm[domain.ColAwemeID])
}

func TestFieldMapper_ExistingTableKeepsPrimary(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	tableID, err := store.CreateTable(ctx, "alice")
	require.NoError(t, err)
	descID, err := store.AddField(ctx, tableID, "description", domain.FieldText)
	require.NoError(t, err)

	fm, err := NewFieldMapper(store, discardLogger()).Resolve(ctx, tableID, false)
	require.NoError(t, err)

	assert.Equal(t, descID, fm[domain.ColDescription])

	fields, err := store.ListFields(ctx, tableID)
	require.NoError(t, err)
	assert.Equal(t, memory.DefaultPrimaryField, fields[0].Name)
	// aweme_id is added as a regular column
	assert.Len(t, fields, len(domain.Schema)+1)
	_, ok := fm.ID(domain.ColAwemeID)
	assert.True(t, ok)
}

func TestFieldMapper_FailedRenameOmitsCanonicalColumn(t *testing.T) {
	ctx := context.Background()
	store := newFlakyStore()
	store.failRename = true
	tableID, err := store.CreateTable(ctx, "alice")
	require.NoError(t, err)

	fm, err := NewFieldMapper(store, discardLogger()).Resolve(ctx, tableID, true)
	require.NoError(t, err)

	_, ok := fm.ID(domain.ColAwemeID)
	assert.False(t, ok)
	assert.Len(t, fm, len(domain.Schema)-1)
}

func TestFieldMapper_ListFailureIsReturned(t *testing.T) {
	store := memory.NewStore()

	_, err := NewFieldMapper(store, discardLogger()).Resolve(context.Background(), "missing", false)

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestFieldMapper_LookupDoesNotAddColumns(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	tableID, err := store.CreateTable(ctx, "alice")
	require.NoError(t, err)
	transcriptID, err := store.AddField(ctx, tableID, "transcript", domain.FieldText)
	require.NoError(t, err)

	fm, err := NewFieldMapper(store, discardLogger()).Lookup(ctx, tableID)
	require.NoError(t, err)

	assert.Equal(t, domain.FieldMap{domain.ColTranscript: transcriptID}, fm)
	fields, err := store.ListFields(ctx, tableID)
	require.NoError(t, err)
	assert.Len(t, fields, 2)
}
