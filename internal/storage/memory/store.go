// Package memory is an in-process datastore used by tests and dry runs.
package memory

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"github.com/google/uuid"

	"video_syncer/internal/domain"
)

// DefaultPrimaryField is the name given to the primary column of a new table.
const DefaultPrimaryField = "Name"

type table struct {
	id      string
	name    string
	fields  []domain.Field
	records map[string]domain.Cells
	order   []string
}

type Store struct {
	mu     sync.RWMutex
	tables map[string]*table
	order  []string
}

func NewStore() *Store {
	return &Store{tables: make(map[string]*table)}
}

func newID(prefix string) string {
	return prefix + uuid.NewString()[:8]
}

func (s *Store) ListTables(ctx context.Context) ([]domain.Table, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Table, 0, len(s.order))
	for _, id := range s.order {
		t := s.tables[id]
		out = append(out, domain.Table{ID: t.id, Name: t.name})
	}
	return out, nil
}

func (s *Store) CreateTable(ctx context.Context, name string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, t := range s.tables {
		if t.name == name {
			return "", fmt.Errorf("table %q already exists", name)
		}
	}

	t := &table{
		id:      newID("tbl"),
		name:    name,
		records: make(map[string]domain.Cells),
		fields: []domain.Field{{
			ID:        newID("fld"),
			Name:      DefaultPrimaryField,
			Type:      domain.FieldText,
			IsPrimary: true,
		}},
	}
	s.tables[t.id] = t
	s.order = append(s.order, t.id)
	return t.id, nil
}

func (s *Store) GetTable(ctx context.Context, tableID string) (*domain.Table, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, err := s.table(tableID)
	if err != nil {
		return nil, err
	}
	return &domain.Table{ID: t.id, Name: t.name}, nil
}

func (s *Store) ListFields(ctx context.Context, tableID string) ([]domain.Field, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	t, err := s.table(tableID)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Field, len(t.fields))
	copy(out, t.fields)
	return out, nil
}

func (s *Store) AddField(ctx context.Context, tableID, name string, typ domain.FieldType) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, err := s.table(tableID)
	if err != nil {
		return "", err
	}
	for _, f := range t.fields {
		if f.Name == name {
			return "", fmt.Errorf("field %q already exists", name)
		}
	}
	f := domain.Field{ID: newID("fld"), Name: name, Type: typ}
	t.fields = append(t.fields, f)
	return f.ID, nil
}

func (s *Store) RenameField(ctx context.Context, tableID, fieldID, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, err := s.table(tableID)
	if err != nil {
		return err
	}
	idx := -1
	for i, f := range t.fields {
		if f.Name == name && f.ID != fieldID {
			return fmt.Errorf("field %q already exists", name)
		}
		if f.ID == fieldID {
			idx = i
		}
	}
	if idx < 0 {
		return fmt.Errorf("field %s: %w", fieldID, domain.ErrNotFound)
	}
	t.fields[idx].Name = name
	return nil
}

func (s *Store) ListRecordIDs(ctx context.Context, tableID, cursor string, pageSize int) (*domain.RecordPage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	t, err := s.table(tableID)
	if err != nil {
		return nil, err
	}

	offset := 0
	if cursor != "" {
		offset, err = strconv.Atoi(cursor)
		if err != nil || offset < 0 {
			return nil, fmt.Errorf("invalid cursor %q", cursor)
		}
	}
	if pageSize <= 0 {
		pageSize = 100
	}

	end := min(offset+pageSize, len(t.order))
	page := &domain.RecordPage{Total: len(t.order)}
	if offset < end {
		page.RecordIDs = append([]string(nil), t.order[offset:end]...)
	}
	if end < len(t.order) {
		page.HasMore = true
		page.Cursor = strconv.Itoa(end)
	}
	return page, nil
}

func (s *Store) GetCellString(ctx context.Context, tableID, fieldID, recordID string) (string, error) {
	v, err := s.GetCellValue(ctx, tableID, fieldID, recordID)
	if err != nil {
		return "", err
	}
	return domain.CellString(v), nil
}

func (s *Store) GetCellValue(ctx context.Context, tableID, fieldID, recordID string) (any, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, err := s.table(tableID)
	if err != nil {
		return nil, err
	}
	rec, ok := t.records[recordID]
	if !ok {
		return nil, fmt.Errorf("record %s: %w", recordID, domain.ErrNotFound)
	}
	return rec[fieldID], nil
}

func (s *Store) InsertRecords(ctx context.Context, tableID string, rows []domain.Cells) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	t, err := s.table(tableID)
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		if err := t.checkFields(row); err != nil {
			return nil, err
		}
	}

	ids := make([]string, 0, len(rows))
	for _, row := range rows {
		id := newID("rec")
		t.records[id] = copyCells(row)
		t.order = append(t.order, id)
		ids = append(ids, id)
	}
	return ids, nil
}

func (s *Store) UpdateRecords(ctx context.Context, tableID string, updates []domain.RecordUpdate) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	t, err := s.table(tableID)
	if err != nil {
		return err
	}
	for _, u := range updates {
		if _, ok := t.records[u.RecordID]; !ok {
			return fmt.Errorf("record %s: %w", u.RecordID, domain.ErrNotFound)
		}
		if err := t.checkFields(u.Cells); err != nil {
			return err
		}
	}

	for _, u := range updates {
		rec := t.records[u.RecordID]
		for k, v := range u.Cells {
			rec[k] = v
		}
	}
	return nil
}

func (s *Store) table(id string) (*table, error) {
	t, ok := s.tables[id]
	if !ok {
		return nil, fmt.Errorf("table %s: %w", id, domain.ErrNotFound)
	}
	return t, nil
}

func (t *table) checkFields(cells domain.Cells) error {
	for id := range cells {
		found := false
		for _, f := range t.fields {
			if f.ID == id {
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("unknown field %s", id)
		}
	}
	return nil
}

func copyCells(c domain.Cells) domain.Cells {
	out := make(domain.Cells, len(c))
	for k, v := range c {
		out[k] = v
	}
	return out
}
