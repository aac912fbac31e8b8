package postgres

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"slices"
	"strconv"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"video_syncer/internal/domain"
)

// DefaultPrimaryField is the name given to the primary column of a new table.
const DefaultPrimaryField = "Name"

const defaultPageSize = 100

type tableRow struct {
	ID   string `db:"id"`
	Name string `db:"name"`
}

type fieldRow struct {
	ID        string `db:"id"`
	Name      string `db:"name"`
	Type      string `db:"type"`
	IsPrimary bool   `db:"is_primary"`
}

type recordRow struct {
	Seq int64  `db:"seq"`
	ID  string `db:"id"`
}

type Datastore struct {
	db *sqlx.DB
	tm *TransactionManager
}

func NewDatastore(db *sqlx.DB) *Datastore {
	return &Datastore{db: db, tm: NewTransactionManager(db)}
}

func (s *Datastore) ListTables(ctx context.Context) ([]domain.Table, error) {
	var rows []tableRow
	err := sqlx.SelectContext(ctx, GetExecutor(ctx, s.db), &rows,
		`SELECT id, name FROM ds_tables ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}

	out := make([]domain.Table, 0, len(rows))
	for _, r := range rows {
		out = append(out, domain.Table{ID: r.ID, Name: r.Name})
	}
	return out, nil
}

// CreateTable creates a table holding a single primary text field.
func (s *Datastore) CreateTable(ctx context.Context, name string) (string, error) {
	id := uuid.NewString()

	err := s.tm.WithTransaction(ctx, func(ctx context.Context) error {
		exec := GetExecutor(ctx, s.db)

		if _, err := exec.ExecContext(ctx,
			`INSERT INTO ds_tables (id, name) VALUES ($1, $2)`, id, name); err != nil {
			return fmt.Errorf("insert table: %w", err)
		}

		if _, err := exec.ExecContext(ctx,
			`INSERT INTO ds_fields (id, table_id, name, type, is_primary) VALUES ($1, $2, $3, $4, TRUE)`,
			uuid.NewString(), id, DefaultPrimaryField, string(domain.FieldText)); err != nil {
			return fmt.Errorf("insert primary field: %w", err)
		}
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("create table %q: %w", name, err)
	}
	return id, nil
}

func (s *Datastore) GetTable(ctx context.Context, tableID string) (*domain.Table, error) {
	var row tableRow
	err := sqlx.GetContext(ctx, GetExecutor(ctx, s.db), &row,
		`SELECT id, name FROM ds_tables WHERE id = $1`, tableID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("table %s: %w", tableID, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get table: %w", err)
	}
	return &domain.Table{ID: row.ID, Name: row.Name}, nil
}

func (s *Datastore) ListFields(ctx context.Context, tableID string) ([]domain.Field, error) {
	exec := GetExecutor(ctx, s.db)
	if err := s.ensureTable(ctx, exec, tableID); err != nil {
		return nil, err
	}

	var rows []fieldRow
	err := sqlx.SelectContext(ctx, exec, &rows,
		`SELECT id, name, type, is_primary FROM ds_fields WHERE table_id = $1 ORDER BY position`, tableID)
	if err != nil {
		return nil, fmt.Errorf("list fields: %w", err)
	}

	out := make([]domain.Field, 0, len(rows))
	for _, r := range rows {
		out = append(out, domain.Field{
			ID:        r.ID,
			Name:      r.Name,
			Type:      domain.FieldType(r.Type),
			IsPrimary: r.IsPrimary,
		})
	}
	return out, nil
}

func (s *Datastore) AddField(ctx context.Context, tableID, name string, typ domain.FieldType) (string, error) {
	exec := GetExecutor(ctx, s.db)
	if err := s.ensureTable(ctx, exec, tableID); err != nil {
		return "", err
	}

	id := uuid.NewString()
	if _, err := exec.ExecContext(ctx,
		`INSERT INTO ds_fields (id, table_id, name, type) VALUES ($1, $2, $3, $4)`,
		id, tableID, name, string(typ)); err != nil {
		return "", fmt.Errorf("add field %q: %w", name, err)
	}
	return id, nil
}

func (s *Datastore) RenameField(ctx context.Context, tableID, fieldID, name string) error {
	res, err := GetExecutor(ctx, s.db).ExecContext(ctx,
		`UPDATE ds_fields SET name = $1 WHERE table_id = $2 AND id = $3`, name, tableID, fieldID)
	if err != nil {
		return fmt.Errorf("rename field: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rename field: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("field %s: %w", fieldID, domain.ErrNotFound)
	}
	return nil
}

// ListRecordIDs pages through a table in insertion order. The cursor is the
// sequence number of the last record returned.
func (s *Datastore) ListRecordIDs(ctx context.Context, tableID, cursor string, pageSize int) (*domain.RecordPage, error) {
	exec := GetExecutor(ctx, s.db)
	if err := s.ensureTable(ctx, exec, tableID); err != nil {
		return nil, err
	}

	var after int64
	if cursor != "" {
		var err error
		after, err = strconv.ParseInt(cursor, 10, 64)
		if err != nil || after < 0 {
			return nil, fmt.Errorf("invalid cursor %q", cursor)
		}
	}
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}

	var total int
	if err := sqlx.GetContext(ctx, exec, &total,
		`SELECT COUNT(*) FROM ds_records WHERE table_id = $1`, tableID); err != nil {
		return nil, fmt.Errorf("count records: %w", err)
	}

	var rows []recordRow
	err := sqlx.SelectContext(ctx, exec, &rows,
		`SELECT seq, id FROM ds_records WHERE table_id = $1 AND seq > $2 ORDER BY seq LIMIT $3`,
		tableID, after, pageSize+1)
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}

	page := &domain.RecordPage{Total: total}
	if len(rows) > pageSize {
		rows = rows[:pageSize]
		page.HasMore = true
		page.Cursor = strconv.FormatInt(rows[len(rows)-1].Seq, 10)
	}
	for _, r := range rows {
		page.RecordIDs = append(page.RecordIDs, r.ID)
	}
	return page, nil
}

func (s *Datastore) GetCellString(ctx context.Context, tableID, fieldID, recordID string) (string, error) {
	v, err := s.GetCellValue(ctx, tableID, fieldID, recordID)
	if err != nil {
		return "", err
	}
	return domain.CellString(v), nil
}

// GetCellValue returns a decoded cell. Numbers come back as json.Number.
func (s *Datastore) GetCellValue(ctx context.Context, tableID, fieldID, recordID string) (any, error) {
	var raw []byte
	err := GetExecutor(ctx, s.db).QueryRowxContext(ctx,
		`SELECT cells -> $1::text FROM ds_records WHERE table_id = $2 AND id = $3`,
		fieldID, tableID, recordID).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("record %s: %w", recordID, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get cell: %w", err)
	}
	return decodeCell(raw)
}

// InsertRecords inserts every row in one transaction; a failure inserts none.
func (s *Datastore) InsertRecords(ctx context.Context, tableID string, rows []domain.Cells) ([]string, error) {
	ids := make([]string, 0, len(rows))

	err := s.tm.WithTransaction(ctx, func(ctx context.Context) error {
		exec := GetExecutor(ctx, s.db)
		if err := s.ensureTable(ctx, exec, tableID); err != nil {
			return err
		}
		if err := s.checkFields(ctx, exec, tableID, rows...); err != nil {
			return err
		}

		for _, row := range rows {
			body, err := encodeCells(row)
			if err != nil {
				return err
			}
			id := uuid.NewString()
			if _, err := exec.ExecContext(ctx,
				`INSERT INTO ds_records (id, table_id, cells) VALUES ($1, $2, $3::jsonb)`,
				id, tableID, body); err != nil {
				return fmt.Errorf("insert record: %w", err)
			}
			ids = append(ids, id)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// UpdateRecords merges cells into existing records in one transaction. An
// unknown record id fails the whole batch with domain.ErrNotFound.
func (s *Datastore) UpdateRecords(ctx context.Context, tableID string, updates []domain.RecordUpdate) error {
	return s.tm.WithTransaction(ctx, func(ctx context.Context) error {
		exec := GetExecutor(ctx, s.db)
		if err := s.ensureTable(ctx, exec, tableID); err != nil {
			return err
		}

		cells := make([]domain.Cells, 0, len(updates))
		for _, u := range updates {
			cells = append(cells, u.Cells)
		}
		if err := s.checkFields(ctx, exec, tableID, cells...); err != nil {
			return err
		}

		for _, u := range updates {
			body, err := encodeCells(u.Cells)
			if err != nil {
				return err
			}
			res, err := exec.ExecContext(ctx,
				`UPDATE ds_records SET cells = cells || $1::jsonb, updated_at = NOW() WHERE table_id = $2 AND id = $3`,
				body, tableID, u.RecordID)
			if err != nil {
				return fmt.Errorf("update record: %w", err)
			}
			n, err := res.RowsAffected()
			if err != nil {
				return fmt.Errorf("update record: %w", err)
			}
			if n == 0 {
				return fmt.Errorf("record %s: %w", u.RecordID, domain.ErrNotFound)
			}
		}
		return nil
	})
}

func (s *Datastore) ensureTable(ctx context.Context, exec sqlx.ExtContext, tableID string) error {
	var exists bool
	if err := sqlx.GetContext(ctx, exec, &exists,
		`SELECT EXISTS (SELECT 1 FROM ds_tables WHERE id = $1)`, tableID); err != nil {
		return fmt.Errorf("check table: %w", err)
	}
	if !exists {
		return fmt.Errorf("table %s: %w", tableID, domain.ErrNotFound)
	}
	return nil
}

// checkFields rejects cells keyed by ids that are not fields of the table.
func (s *Datastore) checkFields(ctx context.Context, exec sqlx.ExtContext, tableID string, rows ...domain.Cells) error {
	want := make(map[string]struct{})
	for _, row := range rows {
		for id := range row {
			want[id] = struct{}{}
		}
	}
	if len(want) == 0 {
		return nil
	}

	ids := make([]string, 0, len(want))
	for id := range want {
		ids = append(ids, id)
	}

	var known []string
	if err := sqlx.SelectContext(ctx, exec, &known,
		`SELECT id FROM ds_fields WHERE table_id = $1 AND id = ANY($2)`, tableID, pq.Array(ids)); err != nil {
		return fmt.Errorf("check fields: %w", err)
	}
	for _, id := range known {
		delete(want, id)
	}
	if len(want) > 0 {
		return fmt.Errorf("unknown field %s", slices.Sorted(maps.Keys(want))[0])
	}
	return nil
}

func encodeCells(c domain.Cells) (string, error) {
	if c == nil {
		return "{}", nil
	}
	body, err := json.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("encode cells: %w", err)
	}
	return string(body), nil
}

func decodeCell(raw []byte) (any, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, fmt.Errorf("decode cell: %w", err)
	}
	return v, nil
}
