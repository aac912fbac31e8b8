//go:build integration

package postgres

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"video_syncer/internal/config"
	"video_syncer/internal/domain"
	"video_syncer/internal/service"
)

type PostgresIntegrationSuite struct {
	suite.Suite
	ctx       context.Context
	container *postgres.PostgresContainer
	connStr   string
	db        *sqlx.DB
}

func (s *PostgresIntegrationSuite) SetupSuite() {
	s.ctx = context.Background()

	migrationsPath, err := filepath.Abs("../../../migrations")
	s.Require().NoError(err)

	container, err := postgres.Run(s.ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("test_db"),
		postgres.WithUsername("test"),
		postgres.WithPassword("test"),
		postgres.WithInitScripts(
			filepath.Join(migrationsPath, "001_create_datastore.up.sql"),
		),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	s.Require().NoError(err)
	s.container = container

	s.connStr, err = container.ConnectionString(s.ctx, "sslmode=disable")
	s.Require().NoError(err)

	s.db, err = Connect(s.ctx, "postgres", s.connStr)
	s.Require().NoError(err)
}

func (s *PostgresIntegrationSuite) TearDownSuite() {
	if s.db != nil {
		s.db.Close()
	}
	if s.container != nil {
		_ = s.container.Terminate(s.ctx)
	}
}

func (s *PostgresIntegrationSuite) SetupTest() {
	_, _ = s.db.ExecContext(s.ctx, "DELETE FROM ds_records")
	_, _ = s.db.ExecContext(s.ctx, "DELETE FROM ds_fields")
	_, _ = s.db.ExecContext(s.ctx, "DELETE FROM ds_tables")
}

func TestPostgresIntegrationSuite(t *testing.T) {
	suite.Run(t, new(PostgresIntegrationSuite))
}

func (s *PostgresIntegrationSuite) TestDatastore_TableLifecycle() {
	store := NewDatastore(s.db)

	id, err := store.CreateTable(s.ctx, "alice")
	s.Require().NoError(err)

	tables, err := store.ListTables(s.ctx)
	s.Require().NoError(err)
	s.Equal([]domain.Table{{ID: id, Name: "alice"}}, tables)

	fields, err := store.ListFields(s.ctx, id)
	s.Require().NoError(err)
	s.Require().Len(fields, 1)
	s.True(fields[0].IsPrimary)
	s.Equal(DefaultPrimaryField, fields[0].Name)

	s.Require().NoError(store.RenameField(s.ctx, id, fields[0].ID, "aweme_id"))
	fid, err := store.AddField(s.ctx, id, "digg_count", domain.FieldNumber)
	s.Require().NoError(err)

	_, err = store.AddField(s.ctx, id, "digg_count", domain.FieldNumber)
	s.Error(err)

	fields, err = store.ListFields(s.ctx, id)
	s.Require().NoError(err)
	s.Equal("aweme_id", fields[0].Name)
	s.Equal(fid, fields[1].ID)
}

func (s *PostgresIntegrationSuite) TestDatastore_RecordsMergeAndPage() {
	store := NewDatastore(s.db)

	tableID, err := store.CreateTable(s.ctx, "bob")
	s.Require().NoError(err)
	fields, err := store.ListFields(s.ctx, tableID)
	s.Require().NoError(err)
	pk := fields[0].ID
	count, err := store.AddField(s.ctx, tableID, "digg_count", domain.FieldNumber)
	s.Require().NoError(err)

	ids, err := store.InsertRecords(s.ctx, tableID, []domain.Cells{
		{pk: "v1", count: int64(3)},
		{pk: "v2"},
		{pk: "v3"},
	})
	s.Require().NoError(err)
	s.Len(ids, 3)

	s.Require().NoError(store.UpdateRecords(s.ctx, tableID, []domain.RecordUpdate{
		{RecordID: ids[0], Cells: domain.Cells{count: int64(1696464000000)}},
	}))

	pkVal, err := store.GetCellString(s.ctx, tableID, pk, ids[0])
	s.Require().NoError(err)
	s.Equal("v1", pkVal)

	countVal, err := store.GetCellString(s.ctx, tableID, count, ids[0])
	s.Require().NoError(err)
	s.Equal("1696464000000", countVal)

	err = store.UpdateRecords(s.ctx, tableID, []domain.RecordUpdate{
		{RecordID: ids[1], Cells: domain.Cells{pk: "changed"}},
		{RecordID: "missing", Cells: domain.Cells{pk: "x"}},
	})
	s.ErrorIs(err, domain.ErrNotFound)

	unchanged, err := store.GetCellString(s.ctx, tableID, pk, ids[1])
	s.Require().NoError(err)
	s.Equal("v2", unchanged)

	page, err := store.ListRecordIDs(s.ctx, tableID, "", 2)
	s.Require().NoError(err)
	s.Equal(ids[:2], page.RecordIDs)
	s.True(page.HasMore)
	s.Equal(3, page.Total)

	page, err = store.ListRecordIDs(s.ctx, tableID, page.Cursor, 2)
	s.Require().NoError(err)
	s.Equal(ids[2:], page.RecordIDs)
	s.False(page.HasMore)
}

func (s *PostgresIntegrationSuite) TestSyncService_Idempotent() {
	db, err := Connect(s.ctx, "pgx", s.connStr)
	s.Require().NoError(err)
	defer db.Close()

	store := NewDatastore(db)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := config.SyncConfig{DefaultTable: "videos", PageSize: 50, ChunkSize: 50}

	videos := []domain.Video{
		{Nickname: "alice", AwemeID: "7301", DiggCount: 5},
		{Nickname: "alice", AwemeID: "7302"},
	}

	for range 2 {
		stats, err := service.NewSyncService(nil, store, service.Params{}, cfg, logger).
			SyncTable(s.ctx, "alice", videos)
		s.Require().NoError(err)
		s.Equal(0, stats.Failed)
	}

	tables, err := store.ListTables(s.ctx)
	s.Require().NoError(err)
	s.Require().Len(tables, 1)

	page, err := store.ListRecordIDs(s.ctx, tables[0].ID, "", 50)
	s.Require().NoError(err)
	s.Equal(2, page.Total)
}
