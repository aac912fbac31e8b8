package service

import (
	"context"
	"fmt"
	"log/slog"

	"video_syncer/internal/domain"
)

// FieldMapper reconciles a table's columns against domain.Schema.
type FieldMapper struct {
	store  Datastore
	logger *slog.Logger
}

func NewFieldMapper(store Datastore, logger *slog.Logger) *FieldMapper {
	return &FieldMapper{store: store, logger: logger}
}

// Resolve returns the column map of a table, creating missing columns.
// For a table created in this run, the primary column is renamed to the
// canonical id column. Columns that cannot be created are left out of the map.
func (m *FieldMapper) Resolve(ctx context.Context, tableID string, created bool) (domain.FieldMap, error) {
	fields, err := m.store.ListFields(ctx, tableID)
	if err != nil {
		return nil, fmt.Errorf("list fields: %w", err)
	}

	byName := make(map[string]string, len(fields))
	for _, f := range fields {
		byName[f.Name] = f.ID
	}

	canonical := string(domain.Schema[0].Name)
	skipCanonical := false

	if created && len(fields) > 0 {
		primary := fields[0]
		for _, f := range fields {
			if f.IsPrimary {
				primary = f
				break
			}
		}
		if primary.Name != canonical {
			if err := m.store.RenameField(ctx, tableID, primary.ID, canonical); err != nil {
				m.logger.Warn("rename primary column failed, canonical id will not be written",
					"table", tableID,
					"field", primary.Name,
					"error", err,
				)
				skipCanonical = true
			} else {
				delete(byName, primary.Name)
				byName[canonical] = primary.ID
			}
		}
	}

	fm := make(domain.FieldMap, len(domain.Schema))

	for _, col := range domain.Schema {
		name := string(col.Name)
		if id, ok := byName[name]; ok {
			fm[col.Name] = id
			continue
		}
		if name == canonical && skipCanonical {
			continue
		}

		id, err := m.store.AddField(ctx, tableID, name, col.Type)
		if err != nil {
			m.logger.Warn("column omitted for this run",
				"table", tableID,
				"column", name,
				"error", fmt.Errorf("%w: add field: %w", domain.ErrSchema, err),
			)
			continue
		}

		if id == "" {
			// the add call did not return an id, look it up from a fresh listing
			if fresh, err := m.refresh(ctx, tableID); err != nil {
				m.logger.Warn("re-read columns failed", "table", tableID, "error", err)
			} else {
				byName = fresh
				id = byName[name]
			}
		}
		if id == "" {
			m.logger.Warn("created column not found, omitted for this run", "table", tableID, "column", name)
			continue
		}
		fm[col.Name] = id
		byName[name] = id
	}

	return fm, nil
}

func (m *FieldMapper) refresh(ctx context.Context, tableID string) (map[string]string, error) {
	fields, err := m.store.ListFields(ctx, tableID)
	if err != nil {
		return nil, err
	}
	out := make(map[string]string, len(fields))
	for _, f := range fields {
		out[f.Name] = f.ID
	}
	return out, nil
}

// Lookup maps the columns a table already has without changing its schema.
func (m *FieldMapper) Lookup(ctx context.Context, tableID string) (domain.FieldMap, error) {
	byName, err := m.refresh(ctx, tableID)
	if err != nil {
		return nil, fmt.Errorf("list fields: %w", err)
	}
	fm := make(domain.FieldMap, len(domain.Schema))
	for _, col := range domain.Schema {
		if id, ok := byName[string(col.Name)]; ok {
			fm[col.Name] = id
		}
	}
	return fm, nil
}
