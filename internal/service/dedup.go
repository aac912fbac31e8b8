package service

import (
	"context"
	"log/slog"

	"video_syncer/internal/domain"
)

// DedupIndex maps canonical ids to record ids of one table.
type DedupIndex map[string]string

func (ix DedupIndex) Lookup(awemeID string) (string, bool) {
	id, ok := ix[domain.CanonicalID(awemeID)]
	return id, ok
}

// IDs returns the set of canonical ids in the index.
func (ix DedupIndex) IDs() map[string]struct{} {
	out := make(map[string]struct{}, len(ix))
	for k := range ix {
		out[k] = struct{}{}
	}
	return out
}

// BuildIndex scans every record of a table and indexes its canonical id cell.
// A failed page ends the scan with whatever was indexed so far; unreadable
// cells are skipped. When a canonical id appears twice the first record wins.
func BuildIndex(ctx context.Context, store Datastore, tableID, fieldID string, pageSize int, logger *slog.Logger) DedupIndex {
	index := make(DedupIndex)
	duplicates := 0

	scanRecords(ctx, store, tableID, pageSize, logger, func(recordID string) {
		raw, err := store.GetCellString(ctx, tableID, fieldID, recordID)
		if err != nil {
			logger.Debug("skip unreadable id cell", "table", tableID, "record", recordID, "error", err)
			return
		}
		key := domain.CanonicalID(raw)
		if key == "" {
			return
		}
		if _, exists := index[key]; exists {
			duplicates++
			return
		}
		index[key] = recordID
	})

	if duplicates > 0 {
		logger.Warn("duplicate canonical ids in table, keeping first",
			"table", tableID,
			"duplicates", duplicates,
		)
	}
	return index
}

// scanRecords pages through all record ids of a table until the datastore
// reports no more pages or a page fails.
func scanRecords(ctx context.Context, store Datastore, tableID string, pageSize int, logger *slog.Logger, visit func(recordID string)) {
	cursor := ""
	pages := 0
	seen := 0

	for {
		page, err := store.ListRecordIDs(ctx, tableID, cursor, pageSize)
		if err != nil {
			logger.Warn("record scan stopped early",
				"table", tableID,
				"page", pages,
				"scanned", seen,
				"error", err,
			)
			return
		}
		pages++

		for _, id := range page.RecordIDs {
			visit(id)
		}
		seen += len(page.RecordIDs)

		if !page.HasMore || page.Cursor == "" || page.Cursor == cursor {
			break
		}
		cursor = page.Cursor
	}

	logger.Debug("record scan finished", "table", tableID, "pages", pages, "records", seen)
}
