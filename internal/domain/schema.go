package domain

// Column is a logical column name of the destination schema.
type Column string

const (
	ColAwemeID      Column = "aweme_id"
	ColNickname     Column = "nickname"
	ColShareURL     Column = "share_url"
	ColPublishTime  Column = "publish_time"
	ColDescription  Column = "description"
	ColDiggCount    Column = "digg_count"
	ColCollectCount Column = "collect_count"
	ColCommentCount Column = "comment_count"
	ColShareCount   Column = "share_count"
	ColDurationMs   Column = "duration_ms"
	ColPlayURL      Column = "play_url"
	ColAudioURL     Column = "audio_url"
	ColTranscript   Column = "transcript"
	ColSyncedAt     Column = "synced_at"
)

type ColumnSpec struct {
	Name Column
	Type FieldType
}

// Schema is the required logical schema. The first column is the canonical id
// and becomes the primary column of tables created by the syncer.
var Schema = []ColumnSpec{
	{ColAwemeID, FieldText},
	{ColNickname, FieldText},
	{ColShareURL, FieldURL},
	{ColPublishTime, FieldDateTime},
	{ColDescription, FieldText},
	{ColDiggCount, FieldNumber},
	{ColCollectCount, FieldNumber},
	{ColCommentCount, FieldNumber},
	{ColShareCount, FieldNumber},
	{ColDurationMs, FieldNumber},
	{ColPlayURL, FieldURL},
	{ColAudioURL, FieldURL},
	{ColTranscript, FieldText},
	{ColSyncedAt, FieldDateTime},
}

// FieldMap resolves logical columns to field ids of one table instance.
// It is rebuilt on every run; a missing entry means the column is omitted from writes.
type FieldMap map[Column]string

func (m FieldMap) ID(c Column) (string, bool) {
	id, ok := m[c]
	return id, ok && id != ""
}

// Set stores v under column c when the column is mapped.
func (m FieldMap) Set(cells Cells, c Column, v any) {
	if id, ok := m.ID(c); ok {
		cells[id] = v
	}
}
