package service

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"

	"video_syncer/internal/domain"
)

// Datastore is the destination tabular datastore.
type Datastore interface {
	ListTables(ctx context.Context) ([]domain.Table, error)
	CreateTable(ctx context.Context, name string) (string, error)
	GetTable(ctx context.Context, tableID string) (*domain.Table, error)
	ListFields(ctx context.Context, tableID string) ([]domain.Field, error)
	AddField(ctx context.Context, tableID, name string, typ domain.FieldType) (string, error)
	RenameField(ctx context.Context, tableID, fieldID, name string) error
	ListRecordIDs(ctx context.Context, tableID, cursor string, pageSize int) (*domain.RecordPage, error)
	GetCellString(ctx context.Context, tableID, fieldID, recordID string) (string, error)
	GetCellValue(ctx context.Context, tableID, fieldID, recordID string) (any, error)
	InsertRecords(ctx context.Context, tableID string, rows []domain.Cells) ([]string, error)
	UpdateRecords(ctx context.Context, tableID string, updates []domain.RecordUpdate) error
}

// Source fetches scraped videos for one input URL.
type Source interface {
	FetchVideos(ctx context.Context, req FetchRequest) ([]domain.Video, error)
}

type FetchRequest struct {
	Token      string
	Platform   string
	LinkType   string
	UpdateMode string
	PageTurns  int
	URL        string
}

// TranscriptAPI is the two-phase ASR + LLM cleanup service.
type TranscriptAPI interface {
	SubmitASR(ctx context.Context, req ASRRequest) (*ASRSubmission, error)
	PollASR(ctx context.Context, awemeID, taskID string) (*PollResult, error)
	SubmitLLM(ctx context.Context, awemeID, rawText string) (*LLMSubmission, error)
	PollLLM(ctx context.Context, awemeID string, ref domain.LLMTaskRef) (*PollResult, error)
}

type ASRRequest struct {
	AwemeID    string
	MediaURL   string
	DurationMs int64
}

// ASRSubmission carries a task id or domain.ExistSentinel. Text may be set
// inline when the transcript already exists remotely.
type ASRSubmission struct {
	TaskID string
	Text   string
}

// LLMSubmission carries ordered segment refs. An empty list means no cleanup is needed.
type LLMSubmission struct {
	Tasks []domain.LLMTaskRef
	Text  string
}

type PollState string

const (
	PollPending PollState = "pending"
	PollDone    PollState = "done"
	PollFailed  PollState = "failed"
)

type PollResult struct {
	State   PollState
	Text    string
	Message string
}
