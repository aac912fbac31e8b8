package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"video_syncer/internal/domain"
)

func TestStore_TablesAndFields(t *testing.T) {
	ctx := context.Background()
	s := NewStore()

	id, err := s.CreateTable(ctx, "alice")
	require.NoError(t, err)

	_, err = s.CreateTable(ctx, "alice")
	assert.Error(t, err)

	tables, err := s.ListTables(ctx)
	require.NoError(t, err)
	assert.Equal(t, []domain.Table{{ID: id, Name: "alice"}}, tables)

	fields, err := s.ListFields(ctx, id)
	require.NoError(t, err)
	require.Len(t, fields, 1)
	assert.True(t, fields[0].IsPrimary)
	assert.Equal(t, DefaultPrimaryField, fields[0].Name)

	require.NoError(t, s.RenameField(ctx, id, fields[0].ID, "aweme_id"))
	fid, err := s.AddField(ctx, id, "nickname", domain.FieldText)
	require.NoError(t, err)
	assert.NotEmpty(t, fid)

	_, err = s.AddField(ctx, id, "nickname", domain.FieldText)
	assert.Error(t, err)
	assert.Error(t, s.RenameField(ctx, id, fid, "aweme_id"))

	_, err = s.ListFields(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStore_RecordsPagination(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	id, err := s.CreateTable(ctx, "t")
	require.NoError(t, err)
	fields, err := s.ListFields(ctx, id)
	require.NoError(t, err)
	pk := fields[0].ID

	rows := make([]domain.Cells, 5)
	for i := range rows {
		rows[i] = domain.Cells{pk: string(rune('a' + i))}
	}
	ids, err := s.InsertRecords(ctx, id, rows)
	require.NoError(t, err)
	require.Len(t, ids, 5)

	var seen []string
	cursor := ""
	for {
		page, err := s.ListRecordIDs(ctx, id, cursor, 2)
		require.NoError(t, err)
		assert.Equal(t, 5, page.Total)
		seen = append(seen, page.RecordIDs...)
		if !page.HasMore {
			break
		}
		cursor = page.Cursor
	}
	assert.Equal(t, ids, seen)

	v, err := s.GetCellString(ctx, id, pk, ids[2])
	require.NoError(t, err)
	assert.Equal(t, "c", v)
}

func TestStore_WritesAreAtomic(t *testing.T) {
	ctx := context.Background()
	s := NewStore()
	id, err := s.CreateTable(ctx, "t")
	require.NoError(t, err)
	fields, err := s.ListFields(ctx, id)
	require.NoError(t, err)
	pk := fields[0].ID

	_, err = s.InsertRecords(ctx, id, []domain.Cells{{pk: "a"}, {"nope": 1}})
	assert.Error(t, err)
	page, err := s.ListRecordIDs(ctx, id, "", 10)
	require.NoError(t, err)
	assert.Equal(t, 0, page.Total)

	ids, err := s.InsertRecords(ctx, id, []domain.Cells{{pk: "a"}})
	require.NoError(t, err)

	err = s.UpdateRecords(ctx, id, []domain.RecordUpdate{
		{RecordID: ids[0], Cells: domain.Cells{pk: "b"}},
		{RecordID: "rec-missing", Cells: domain.Cells{pk: "c"}},
	})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	v, err := s.GetCellValue(ctx, id, pk, ids[0])
	require.NoError(t, err)
	assert.Equal(t, "a", v)
}
