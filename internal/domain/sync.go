package domain

import "time"

// SyncStats holds statistics about a sync run.
type SyncStats struct {
	URLs       int
	URLsFailed int
	Fetched    int
	Skipped    int
	Inserted   int
	Updated    int
	Failed     int
	Duration   time.Duration
}

func (s *SyncStats) Add(o SyncStats) {
	s.URLs += o.URLs
	s.URLsFailed += o.URLsFailed
	s.Fetched += o.Fetched
	s.Skipped += o.Skipped
	s.Inserted += o.Inserted
	s.Updated += o.Updated
	s.Failed += o.Failed
}

// WriteResult is the outcome of a BatchWriter call.
type WriteResult struct {
	Succeeded   int
	Failed      int
	InsertedIDs []string
	FailedIDs   []string
}

// PipelineStats is the terminal summary of a transcript pipeline run.
type PipelineStats struct {
	Total     int
	Succeeded int
	Failed    int
	Duration  time.Duration
}

// Progress reports how far the pipeline is through a stage.
type Progress struct {
	Stage   string
	Done    int
	Total   int
	Attempt int
}

// NewRows announces canonical ids that appeared in the datastore during one
// subscription cycle.
type NewRows struct {
	CycleID    string
	DetectedAt time.Time
	// Tables maps table ids to their new canonical ids.
	Tables map[string][]string
	// IDs lists every new canonical id across all tables.
	IDs []string
}
