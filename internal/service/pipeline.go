package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"video_syncer/internal/config"
	"video_syncer/internal/domain"
)

const (
	StageASRSubmit = "asr_submit"
	StageASRPoll   = "asr_poll"
	StageLLMSubmit = "llm_submit"
	StageLLMPoll   = "llm_poll"
	StageWrite     = "write"
)

// ProgressFunc receives stage progress. Calls are serialized.
type ProgressFunc func(domain.Progress)

// Pipeline fills empty transcript cells through the ASR and LLM cleanup
// services. Stages run in strict order over the whole item set; within a
// stage items run concurrently, bounded by the Limiter.
type Pipeline struct {
	store    Datastore
	api      TranscriptAPI
	limiter  *Limiter
	fields   *FieldMapper
	writer   *BatchWriter
	config   config.PipelineConfig
	pageSize int
	logger   *slog.Logger

	progressMu sync.Mutex
	progress   ProgressFunc
}

func NewPipeline(
	store Datastore,
	api TranscriptAPI,
	limiter *Limiter,
	cfg config.PipelineConfig,
	syncCfg config.SyncConfig,
	logger *slog.Logger,
) *Pipeline {
	logger = logger.With("component", "pipeline")
	if limiter == nil {
		limiter = NewLimiter(cfg.MaxConcurrency)
	}
	if cfg.MaxPollAttempts <= 0 {
		cfg.MaxPollAttempts = 1
	}
	return &Pipeline{
		store:    store,
		api:      api,
		limiter:  limiter,
		fields:   NewFieldMapper(store, logger),
		writer:   NewBatchWriter(store, syncCfg.ChunkSize, logger),
		config:   cfg,
		pageSize: syncCfg.PageSize,
		logger:   logger,
	}
}

func (p *Pipeline) WithProgress(fn ProgressFunc) *Pipeline {
	p.progress = fn
	return p
}

// Run processes every table of the datastore.
func (p *Pipeline) Run(ctx context.Context) (*domain.PipelineStats, error) {
	tables, err := p.store.ListTables(ctx)
	if err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}
	ids := make([]string, 0, len(tables))
	for _, t := range tables {
		ids = append(ids, t.ID)
	}
	return p.RunTables(ctx, ids)
}

// RunTables processes the given tables. Individual item failures are counted
// in the stats and never returned as an error.
func (p *Pipeline) RunTables(ctx context.Context, tableIDs []string) (*domain.PipelineStats, error) {
	startTime := time.Now()

	items, targets := p.collect(ctx, tableIDs)
	if len(items) == 0 {
		p.logger.Info("no rows awaiting transcripts", "tables", len(tableIDs))
		return &domain.PipelineStats{Duration: time.Since(startTime)}, nil
	}

	p.logger.Info("starting pipeline", "items", len(items), "tables", len(targets))

	items = p.runStage(ctx, StageASRSubmit, items, domain.StatusPending, p.submitASR)
	items = p.runStage(ctx, StageASRPoll, items, domain.StatusASRPolling, p.pollASR)
	items = p.runStage(ctx, StageLLMSubmit, items, domain.StatusASRDone, p.submitLLM)
	items = p.runStage(ctx, StageLLMPoll, items, domain.StatusLLMPolling, p.pollLLM)

	items = p.reconcile(ctx, items, targets)

	stats := &domain.PipelineStats{Total: len(items)}
	for _, it := range items {
		if it.Status == domain.StatusCompleted {
			stats.Succeeded++
			continue
		}
		stats.Failed++
		p.logger.Debug("item failed", "aweme_id", it.AwemeID, "error", it.Err)
	}
	stats.Duration = time.Since(startTime)

	p.logger.Info("pipeline completed",
		"total", stats.Total,
		"succeeded", stats.Succeeded,
		"failed", stats.Failed,
		"peak_in_flight", p.limiter.Peak(),
		"duration", stats.Duration,
	)

	return stats, nil
}

// collect builds one pending item per row whose transcript cell is empty.
// It returns the items and the transcript field id of each table.
func (p *Pipeline) collect(ctx context.Context, tableIDs []string) ([]domain.Item, map[string]string) {
	var items []domain.Item
	targets := make(map[string]string)

	for _, tableID := range tableIDs {
		fm, err := p.fields.Lookup(ctx, tableID)
		if err != nil {
			p.logger.Warn("skip table", "table", tableID, "error", err)
			continue
		}
		transcriptID, ok := fm.ID(domain.ColTranscript)
		if !ok {
			p.logger.Debug("table has no transcript column", "table", tableID)
			continue
		}
		awemeID, ok := fm.ID(domain.ColAwemeID)
		if !ok {
			p.logger.Debug("table has no canonical id column", "table", tableID)
			continue
		}

		before := len(items)
		scanRecords(ctx, p.store, tableID, p.pageSize, p.logger, func(recordID string) {
			text, err := p.store.GetCellString(ctx, tableID, transcriptID, recordID)
			if err != nil || strings.TrimSpace(text) != "" {
				return
			}
			id, err := p.store.GetCellString(ctx, tableID, awemeID, recordID)
			if err != nil || strings.TrimSpace(id) == "" {
				return
			}
			items = append(items, domain.Item{
				TableID:  tableID,
				RecordID: recordID,
				AwemeID:  strings.TrimSpace(id),
				AudioURL: p.cellString(ctx, tableID, fm, domain.ColAudioURL, recordID),
				PlayURL:  p.cellString(ctx, tableID, fm, domain.ColPlayURL, recordID),
				Duration: p.cellInt(ctx, tableID, fm, domain.ColDurationMs, recordID),
				Status:   domain.StatusPending,
			})
		})

		if len(items) > before {
			targets[tableID] = transcriptID
			p.logger.Info("collected rows", "table", tableID, "items", len(items)-before)
		}
	}

	return items, targets
}

func (p *Pipeline) cellString(ctx context.Context, tableID string, fm domain.FieldMap, col domain.Column, recordID string) string {
	fieldID, ok := fm.ID(col)
	if !ok {
		return ""
	}
	s, err := p.store.GetCellString(ctx, tableID, fieldID, recordID)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(s)
}

func (p *Pipeline) cellInt(ctx context.Context, tableID string, fm domain.FieldMap, col domain.Column, recordID string) int64 {
	fieldID, ok := fm.ID(col)
	if !ok {
		return 0
	}
	v, err := p.store.GetCellValue(ctx, tableID, fieldID, recordID)
	if err != nil {
		return 0
	}
	switch x := v.(type) {
	case int:
		return int64(x)
	case int64:
		return x
	case float64:
		return int64(x)
	case json.Number:
		n, _ := x.Int64()
		return n
	case string:
		n, _ := strconv.ParseInt(strings.TrimSpace(x), 10, 64)
		return n
	default:
		return 0
	}
}

// runStage applies fn to every item in status from. Workers write into their
// own result slot; items are replaced only after all workers have returned.
func (p *Pipeline) runStage(
	ctx context.Context,
	stage string,
	items []domain.Item,
	from domain.ItemStatus,
	fn func(ctx context.Context, it domain.Item, report func(attempt int)) domain.Item,
) []domain.Item {
	var selected []int
	for i, it := range items {
		if it.Status == from {
			selected = append(selected, i)
		}
	}
	if len(selected) == 0 {
		return items
	}

	total := len(selected)
	results := make([]domain.Item, total)
	var done atomic.Int64

	p.report(domain.Progress{Stage: stage, Total: total})

	var g errgroup.Group
	for slot, idx := range selected {
		it := items[idx]
		g.Go(func() error {
			report := func(attempt int) {
				p.report(domain.Progress{Stage: stage, Done: int(done.Load()), Total: total, Attempt: attempt})
			}
			results[slot] = fn(ctx, it, report)
			p.report(domain.Progress{Stage: stage, Done: int(done.Add(1)), Total: total})
			return nil
		})
	}
	_ = g.Wait()

	out := make([]domain.Item, len(items))
	copy(out, items)
	failed := 0
	for slot, idx := range selected {
		out[idx] = results[slot]
		if results[slot].Status == domain.StatusFailed {
			failed++
		}
	}

	p.logger.Info("stage finished", "stage", stage, "items", total, "failed", failed)
	return out
}

func (p *Pipeline) report(pr domain.Progress) {
	p.logger.Debug("progress", "stage", pr.Stage, "done", pr.Done, "total", pr.Total, "attempt", pr.Attempt)
	if p.progress == nil {
		return
	}
	p.progressMu.Lock()
	defer p.progressMu.Unlock()
	p.progress(pr)
}

// reconcile writes every finished transcript back and settles item status.
func (p *Pipeline) reconcile(ctx context.Context, items []domain.Item, targets map[string]string) []domain.Item {
	out := make([]domain.Item, len(items))
	copy(out, items)

	byTable := make(map[string][]domain.RecordUpdate)
	var order []string
	for i, it := range out {
		if it.Status.Terminal() {
			continue
		}
		text, ok := it.Text()
		if !ok {
			out[i] = it.Fail(fmt.Errorf("no transcript produced in status %s", it.Status))
			continue
		}
		if _, seen := byTable[it.TableID]; !seen {
			order = append(order, it.TableID)
		}
		byTable[it.TableID] = append(byTable[it.TableID], domain.RecordUpdate{
			RecordID: it.RecordID,
			Cells:    domain.Cells{targets[it.TableID]: text},
		})
	}

	failedRecords := make(map[string]struct{})
	written := 0
	for _, tableID := range order {
		res := p.writer.Update(ctx, tableID, byTable[tableID])
		written += res.Succeeded
		for _, id := range res.FailedIDs {
			failedRecords[tableID+"/"+id] = struct{}{}
		}
	}
	p.report(domain.Progress{Stage: StageWrite, Done: written, Total: written + len(failedRecords)})

	for i, it := range out {
		if it.Status.Terminal() {
			continue
		}
		if _, failed := failedRecords[it.TableID+"/"+it.RecordID]; failed {
			out[i] = it.Fail(fmt.Errorf("%w: transcript update", domain.ErrBatchWrite))
			continue
		}
		next, err := it.Transition(domain.StatusCompleted)
		if err != nil {
			out[i] = it.Fail(err)
			continue
		}
		out[i] = next
	}

	return out
}
