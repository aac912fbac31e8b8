package service

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"video_syncer/internal/domain"
)

// Snapshot holds the canonical id set of every table, keyed by table id.
type Snapshot map[string]map[string]struct{}

// NewIDs returns the ids present in s but absent from before, sorted per table.
func (s Snapshot) NewIDs(before Snapshot) map[string][]string {
	out := make(map[string][]string)
	for tableID, ids := range s {
		prev := before[tableID]
		var added []string
		for id := range ids {
			if _, ok := prev[id]; !ok {
				added = append(added, id)
			}
		}
		if len(added) > 0 {
			sort.Strings(added)
			out[tableID] = added
		}
	}
	return out
}

type Snapshotter struct {
	store    Datastore
	fields   *FieldMapper
	pageSize int
	logger   *slog.Logger
}

func NewSnapshotter(store Datastore, pageSize int, logger *slog.Logger) *Snapshotter {
	logger = logger.With("component", "snapshot")
	return &Snapshotter{
		store:    store,
		fields:   NewFieldMapper(store, logger),
		pageSize: pageSize,
		logger:   logger,
	}
}

// Snapshot reads the canonical id set of every table. Tables without a
// canonical id column contribute an empty set.
func (s *Snapshotter) Snapshot(ctx context.Context) (Snapshot, error) {
	tables, err := s.store.ListTables(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}

	snap := make(Snapshot, len(tables))
	for _, t := range tables {
		fm, err := s.fields.Lookup(ctx, t.ID)
		if err != nil {
			s.logger.Warn("snapshot skipped table", "table", t.ID, "error", err)
			continue
		}
		fieldID, ok := fm.ID(domain.ColAwemeID)
		if !ok {
			snap[t.ID] = map[string]struct{}{}
			continue
		}
		snap[t.ID] = BuildIndex(ctx, s.store, t.ID, fieldID, s.pageSize, s.logger).IDs()
	}
	return snap, nil
}
