package transcript

import (
	"bytes"
	"encoding/json"
)

// envelope is the request body shared by all four endpoints.
type envelope[T any] struct {
	Token string `json:"token"`
	Items []T    `json:"items"`
}

type response[T any] struct {
	Items   []T             `json:"items"`
	Message string          `json:"message"`
	Detail  json.RawMessage `json:"detail"`
}

type asrSubmitItem struct {
	AwemeID  string `json:"aweme_id"`
	URL      string `json:"url"`
	Duration int64  `json:"duration"`
}

type asrSubmitResult struct {
	AwemeID string `json:"aweme_id"`
	TaskID  string `json:"task_id"`
	Text    string `json:"text"`
	Error   string `json:"error"`
}

// UnmarshalJSON also accepts a bare string item, which the service sends
// as "EXIST" for media it has already transcribed.
func (r *asrSubmitResult) UnmarshalJSON(b []byte) error {
	if b = bytes.TrimSpace(b); len(b) > 0 && b[0] == '"' {
		*r = asrSubmitResult{}
		return json.Unmarshal(b, &r.TaskID)
	}
	type plain asrSubmitResult
	return json.Unmarshal(b, (*plain)(r))
}

type asrPollItem struct {
	AwemeID string `json:"aweme_id"`
	TaskID  string `json:"task_id"`
}

type pollResult struct {
	AwemeID string `json:"aweme_id"`
	Status  string `json:"status"`
	Text    string `json:"text"`
	Message string `json:"message"`
}

type llmSubmitItem struct {
	AwemeID string `json:"aweme_id"`
	Text    string `json:"text"`
}

type taskRef struct {
	ConversationID string `json:"conversation_id"`
	ChatID         string `json:"chat_id"`
}

type llmSubmitResult struct {
	AwemeID string    `json:"aweme_id"`
	Tasks   []taskRef `json:"tasks"`
	Text    string    `json:"text"`
	Error   string    `json:"error"`
}

type llmPollItem struct {
	AwemeID        string `json:"aweme_id"`
	ConversationID string `json:"conversation_id"`
	ChatID         string `json:"chat_id"`
}
