package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"video_syncer/internal/config"
	"video_syncer/internal/domain"
	"video_syncer/internal/pubtime"
)

// Params are the inputs of one sync run.
type Params struct {
	Token      string
	Platform   string
	LinkType   string
	UpdateMode string
	PageTurns  int
	URLs       []string
}

func ParamsFromConfig(cfg config.CollectorConfig) Params {
	return Params{
		Token:      cfg.Token,
		Platform:   cfg.Platform,
		LinkType:   cfg.LinkType,
		UpdateMode: cfg.UpdateMode,
		PageTurns:  cfg.PageTurns,
		URLs:       cfg.URLs,
	}
}

func (p Params) Validate() error {
	if strings.TrimSpace(p.Token) == "" {
		return fmt.Errorf("%w: collector token is required", domain.ErrValidation)
	}
	urls := 0
	for _, u := range p.URLs {
		if strings.TrimSpace(u) != "" {
			urls++
		}
	}
	if urls == 0 {
		return fmt.Errorf("%w: at least one input url is required", domain.ErrValidation)
	}
	return nil
}

type SyncService struct {
	source Source
	store  Datastore
	fields *FieldMapper
	writer *BatchWriter
	params Params
	config config.SyncConfig
	clock  func() time.Time
	logger *slog.Logger
}

func NewSyncService(
	source Source,
	store Datastore,
	params Params,
	cfg config.SyncConfig,
	logger *slog.Logger,
) *SyncService {
	logger = logger.With("component", "sync")
	return &SyncService{
		source: source,
		store:  store,
		fields: NewFieldMapper(store, logger),
		writer: NewBatchWriter(store, cfg.ChunkSize, logger),
		params: params,
		config: cfg,
		clock:  time.Now,
		logger: logger,
	}
}

// Sync runs with the configured parameters.
func (s *SyncService) Sync(ctx context.Context) (*domain.SyncStats, error) {
	return s.Run(ctx, s.params)
}

// Run fetches every input URL and commits the videos to their tables. Only
// parameter validation fails the run; per-URL and per-table failures are
// logged and counted.
func (s *SyncService) Run(ctx context.Context, params Params) (*domain.SyncStats, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	startTime := time.Now()
	stats := &domain.SyncStats{}

	s.logger.Info("starting sync", "urls", len(params.URLs), "platform", params.Platform)

	for _, rawURL := range params.URLs {
		rawURL = strings.TrimSpace(rawURL)
		if rawURL == "" {
			continue
		}
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		stats.URLs++

		videos, err := s.source.FetchVideos(ctx, FetchRequest{
			Token:      params.Token,
			Platform:   params.Platform,
			LinkType:   params.LinkType,
			UpdateMode: params.UpdateMode,
			PageTurns:  params.PageTurns,
			URL:        rawURL,
		})
		if err != nil {
			stats.URLsFailed++
			s.logger.Error("fetch videos failed", "url", rawURL, "error", err)
			continue
		}

		stats.Fetched += len(videos)
		s.logger.Info("fetched videos", "url", rawURL, "count", len(videos))

		names, groups := s.groupByTable(videos)
		for _, name := range names {
			tableStats, err := s.SyncTable(ctx, name, groups[name])
			if err != nil {
				stats.Failed += len(groups[name])
				s.logger.Error("sync table failed", "table", name, "url", rawURL, "error", err)
				continue
			}
			stats.Add(*tableStats)
		}
	}

	stats.Duration = time.Since(startTime)

	s.logger.Info("sync completed",
		"urls", stats.URLs,
		"urls_failed", stats.URLsFailed,
		"fetched", stats.Fetched,
		"inserted", stats.Inserted,
		"updated", stats.Updated,
		"skipped", stats.Skipped,
		"failed", stats.Failed,
		"duration", stats.Duration,
	)

	return stats, nil
}

// SyncTable commits one batch of videos into the named table, creating the
// table when it does not exist yet.
func (s *SyncService) SyncTable(ctx context.Context, name string, videos []domain.Video) (*domain.SyncStats, error) {
	tableID, created, err := s.ensureTable(ctx, name)
	if err != nil {
		return nil, fmt.Errorf("ensure table %q: %w", name, err)
	}

	fm, err := s.fields.Resolve(ctx, tableID, created)
	if err != nil {
		return nil, fmt.Errorf("resolve fields: %w", err)
	}

	index := DedupIndex{}
	if fieldID, ok := fm.ID(domain.ColAwemeID); ok {
		index = BuildIndex(ctx, s.store, tableID, fieldID, s.config.PageSize, s.logger)
	} else {
		s.logger.Warn("canonical id column missing, every video is treated as new", "table", name)
	}

	stats := &domain.SyncStats{}
	now := s.clock().UnixMilli()

	// last occurrence of an id within the batch wins
	order := make([]string, 0, len(videos))
	pending := make(map[string]domain.Cells, len(videos))

	for _, v := range videos {
		key := domain.CanonicalID(v.AwemeID)
		if key == "" {
			stats.Skipped++
			s.logger.Warn("skip video without aweme_id", "table", name, "share_url", v.ShareURL)
			continue
		}
		if _, seen := pending[key]; !seen {
			order = append(order, key)
		}
		pending[key] = s.mapVideo(v, fm, now)
	}

	var inserts []domain.Cells
	var updates []domain.RecordUpdate
	for _, key := range order {
		if recordID, ok := index[key]; ok {
			updates = append(updates, domain.RecordUpdate{RecordID: recordID, Cells: pending[key]})
		} else {
			inserts = append(inserts, pending[key])
		}
	}

	ins := s.writer.Insert(ctx, tableID, inserts)
	upd := s.writer.Update(ctx, tableID, updates)

	stats.Inserted = ins.Succeeded
	stats.Updated = upd.Succeeded
	stats.Failed = ins.Failed + upd.Failed

	s.logger.Info("table synced",
		"table", name,
		"created", created,
		"existing", len(index),
		"inserted", stats.Inserted,
		"updated", stats.Updated,
		"failed", stats.Failed,
	)

	return stats, nil
}

func (s *SyncService) ensureTable(ctx context.Context, name string) (string, bool, error) {
	tables, err := s.store.ListTables(ctx)
	if err != nil {
		return "", false, fmt.Errorf("list tables: %w", err)
	}
	for _, t := range tables {
		if t.Name == name {
			return t.ID, false, nil
		}
	}

	id, err := s.store.CreateTable(ctx, name)
	if err != nil {
		return "", false, fmt.Errorf("create table: %w", err)
	}
	s.logger.Info("created table", "table", name, "id", id)
	return id, true, nil
}

func (s *SyncService) groupByTable(videos []domain.Video) ([]string, map[string][]domain.Video) {
	var names []string
	groups := make(map[string][]domain.Video)
	for _, v := range videos {
		name := strings.TrimSpace(v.Nickname)
		if name == "" {
			name = s.config.DefaultTable
		}
		if _, ok := groups[name]; !ok {
			names = append(names, name)
		}
		groups[name] = append(groups[name], v)
	}
	return names, groups
}

func (s *SyncService) mapVideo(v domain.Video, fm domain.FieldMap, now int64) domain.Cells {
	cells := make(domain.Cells, len(fm))

	fm.Set(cells, domain.ColAwemeID, strings.TrimSpace(v.AwemeID))
	fm.Set(cells, domain.ColNickname, v.Nickname)
	fm.Set(cells, domain.ColShareURL, v.ShareURL)
	fm.Set(cells, domain.ColDescription, v.Description)
	fm.Set(cells, domain.ColDiggCount, v.DiggCount)
	fm.Set(cells, domain.ColCollectCount, v.CollectCount)
	fm.Set(cells, domain.ColCommentCount, v.CommentCount)
	fm.Set(cells, domain.ColShareCount, v.ShareCount)
	fm.Set(cells, domain.ColDurationMs, v.DurationMs)
	fm.Set(cells, domain.ColPlayURL, v.PlayURL)
	fm.Set(cells, domain.ColAudioURL, v.AudioURL)
	fm.Set(cells, domain.ColSyncedAt, now)

	if ms, err := pubtime.Parse(v.PublishTime); err == nil {
		fm.Set(cells, domain.ColPublishTime, ms)
	} else {
		s.logger.Debug("publish time left unset", "aweme_id", v.AwemeID, "raw", v.PublishTime, "error", err)
	}

	// never blank out a transcript written by the pipeline
	if t := v.BestTranscript(); t != "" {
		fm.Set(cells, domain.ColTranscript, t)
	}

	return cells
}
