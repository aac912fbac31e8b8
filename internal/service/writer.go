package service

import (
	"context"
	"fmt"
	"log/slog"

	"video_syncer/internal/domain"
)

// DefaultChunkSize is the largest batch the destination accepts in one write.
const DefaultChunkSize = 500

// BatchWriter commits rows in fixed-size chunks. It never returns an error:
// failures are logged and counted in the result.
type BatchWriter struct {
	store     Datastore
	chunkSize int
	logger    *slog.Logger
}

func NewBatchWriter(store Datastore, chunkSize int, logger *slog.Logger) *BatchWriter {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	return &BatchWriter{store: store, chunkSize: chunkSize, logger: logger}
}

// Insert commits rows chunk by chunk. A failed chunk is skipped and the
// remaining chunks are still attempted.
func (w *BatchWriter) Insert(ctx context.Context, tableID string, rows []domain.Cells) domain.WriteResult {
	var res domain.WriteResult

	for i, chunk := range chunks(rows, w.chunkSize) {
		ids, err := w.store.InsertRecords(ctx, tableID, chunk)
		if err != nil {
			res.Failed += len(chunk)
			w.logger.Error("insert chunk failed",
				"table", tableID,
				"chunk", i,
				"size", len(chunk),
				"error", fmt.Errorf("%w: %w", domain.ErrBatchWrite, err),
			)
			continue
		}
		res.Succeeded += len(chunk)
		res.InsertedIDs = append(res.InsertedIDs, ids...)
	}

	if len(rows) > 0 {
		w.logger.Info("insert finished", "table", tableID, "succeeded", res.Succeeded, "failed", res.Failed)
	}
	return res
}

// Update commits updates chunk by chunk and retries a failed chunk one record
// at a time.
func (w *BatchWriter) Update(ctx context.Context, tableID string, updates []domain.RecordUpdate) domain.WriteResult {
	var res domain.WriteResult

	for i, chunk := range chunks(updates, w.chunkSize) {
		err := w.store.UpdateRecords(ctx, tableID, chunk)
		if err == nil {
			res.Succeeded += len(chunk)
			continue
		}

		w.logger.Warn("update chunk failed, retrying per record",
			"table", tableID,
			"chunk", i,
			"size", len(chunk),
			"error", err,
		)

		for _, u := range chunk {
			if err := w.store.UpdateRecords(ctx, tableID, []domain.RecordUpdate{u}); err != nil {
				res.Failed++
				res.FailedIDs = append(res.FailedIDs, u.RecordID)
				w.logger.Error("update record failed",
					"table", tableID,
					"record", u.RecordID,
					"error", fmt.Errorf("%w: %w", domain.ErrBatchWrite, err),
				)
				continue
			}
			res.Succeeded++
		}
	}

	if len(updates) > 0 {
		w.logger.Info("update finished", "table", tableID, "succeeded", res.Succeeded, "failed", res.Failed)
	}
	return res
}

func chunks[T any](items []T, size int) [][]T {
	if len(items) == 0 {
		return nil
	}
	out := make([][]T, 0, (len(items)+size-1)/size)
	for i := 0; i < len(items); i += size {
		out = append(out, items[i:min(i+size, len(items))])
	}
	return out
}
