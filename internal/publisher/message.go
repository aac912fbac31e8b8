package publisher

import (
	"time"

	"video_syncer/internal/domain"
)

const EventNewRows = "new_rows"

// NewRowsMessage is the broker payload announcing new rows.
type NewRowsMessage struct {
	Event     string              `json:"event"`
	CycleID   string              `json:"cycle_id"`
	IDs       []string            `json:"ids"`
	Tables    map[string][]string `json:"tables"`
	Timestamp time.Time           `json:"timestamp"`
}

func newRowsMessage(rows domain.NewRows) NewRowsMessage {
	ts := rows.DetectedAt
	if ts.IsZero() {
		ts = time.Now().UTC()
	}
	return NewRowsMessage{
		Event:     EventNewRows,
		CycleID:   rows.CycleID,
		IDs:       rows.IDs,
		Tables:    rows.Tables,
		Timestamp: ts,
	}
}
