package transcript

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"video_syncer/internal/config"
	"video_syncer/internal/domain"
	"video_syncer/internal/service"
)

func newTestClient(t *testing.T, mux *http.ServeMux) *Client {
	t.Helper()
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	return New(Config{
		BaseURL: srv.URL + "/",
		Token:   "tok",
		Timeout: time.Second,
		Retry:   config.RetryConfig{MaxAttempts: 1, InitialBackoff: time.Millisecond, MaxBackoff: time.Millisecond},
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func decode[T any](t *testing.T, r *http.Request) envelope[T] {
	var env envelope[T]
	assert.NoError(t, json.NewDecoder(r.Body).Decode(&env))
	return env
}

func TestSubmitASR(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /asr/submit", func(w http.ResponseWriter, r *http.Request) {
		env := decode[asrSubmitItem](t, r)
		assert.Equal(t, "tok", env.Token)
		assert.Equal(t, []asrSubmitItem{{AwemeID: "v1", URL: "https://cdn/a.mp3", Duration: 9000}}, env.Items)
		_, _ = w.Write([]byte(`{"items":[{"aweme_id":"v1","task_id":"task-9"}]}`))
	})

	sub, err := newTestClient(t, mux).SubmitASR(context.Background(), service.ASRRequest{
		AwemeID:    "v1",
		MediaURL:   "https://cdn/a.mp3",
		DurationMs: 9000,
	})

	require.NoError(t, err)
	assert.Equal(t, &service.ASRSubmission{TaskID: "task-9"}, sub)
}

func TestSubmitASR_ExistSentinel(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /asr/submit", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"items":[{"aweme_id":"v1","task_id":"EXIST","text":"cached"}]}`))
	})

	sub, err := newTestClient(t, mux).SubmitASR(context.Background(), service.ASRRequest{AwemeID: "v1"})

	require.NoError(t, err)
	assert.Equal(t, domain.ExistSentinel, sub.TaskID)
	assert.Equal(t, "cached", sub.Text)
}

func TestSubmitASR_BareExistItem(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /asr/submit", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"items":["EXIST"]}`))
	})

	sub, err := newTestClient(t, mux).SubmitASR(context.Background(), service.ASRRequest{AwemeID: "v1"})

	require.NoError(t, err)
	assert.Equal(t, &service.ASRSubmission{TaskID: domain.ExistSentinel}, sub)
}

func TestSubmitASR_ItemError(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /asr/submit", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"items":[{"aweme_id":"v1","error":"media expired"}]}`))
	})

	_, err := newTestClient(t, mux).SubmitASR(context.Background(), service.ASRRequest{AwemeID: "v1"})

	assert.ErrorIs(t, err, domain.ErrRemoteAPI)
	assert.Contains(t, err.Error(), "media expired")
}

func TestPollASR_States(t *testing.T) {
	tests := []struct {
		status string
		want   service.PollState
	}{
		{"done", service.PollDone},
		{"completed", service.PollDone},
		{"failed", service.PollFailed},
		{"running", service.PollPending},
		{"", service.PollPending},
	}

	for _, tt := range tests {
		t.Run(tt.status, func(t *testing.T) {
			mux := http.NewServeMux()
			mux.HandleFunc("POST /asr/poll", func(w http.ResponseWriter, r *http.Request) {
				env := decode[asrPollItem](t, r)
				assert.Equal(t, []asrPollItem{{AwemeID: "v1", TaskID: "task-9"}}, env.Items)
				_ = json.NewEncoder(w).Encode(map[string]any{
					"items": []pollResult{{AwemeID: "v1", Status: tt.status, Text: "words"}},
				})
			})

			res, err := newTestClient(t, mux).PollASR(context.Background(), "v1", "task-9")

			require.NoError(t, err)
			assert.Equal(t, tt.want, res.State)
			assert.Equal(t, "words", res.Text)
		})
	}
}

func TestSubmitLLM_Segments(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /llm/submit", func(w http.ResponseWriter, r *http.Request) {
		env := decode[llmSubmitItem](t, r)
		assert.Equal(t, []llmSubmitItem{{AwemeID: "v1", Text: "raw"}}, env.Items)
		_, _ = w.Write([]byte(`{"items":[{"aweme_id":"v1","tasks":[
			{"conversation_id":"c1","chat_id":"a"},{"conversation_id":"c1","chat_id":"b"}]}]}`))
	})

	sub, err := newTestClient(t, mux).SubmitLLM(context.Background(), "v1", "raw")

	require.NoError(t, err)
	assert.Equal(t, []domain.LLMTaskRef{
		{ConversationID: "c1", ChatID: "a"},
		{ConversationID: "c1", ChatID: "b"},
	}, sub.Tasks)
}

func TestPollLLM(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /llm/poll", func(w http.ResponseWriter, r *http.Request) {
		env := decode[llmPollItem](t, r)
		assert.Equal(t, []llmPollItem{{AwemeID: "v1", ConversationID: "c1", ChatID: "b"}}, env.Items)
		_, _ = w.Write([]byte(`{"items":[{"status":"failed","message":"content filtered"}]}`))
	})

	res, err := newTestClient(t, mux).PollLLM(context.Background(), "v1", domain.LLMTaskRef{ConversationID: "c1", ChatID: "b"})

	require.NoError(t, err)
	assert.Equal(t, service.PollFailed, res.State)
	assert.Equal(t, "content filtered", res.Message)
}

func TestPost_ErrorPayload(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /asr/poll", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"detail":"token revoked"}`))
	})

	_, err := newTestClient(t, mux).PollASR(context.Background(), "v1", "t")

	assert.ErrorIs(t, err, domain.ErrRemoteAPI)
	assert.Contains(t, err.Error(), "token revoked")
}

func TestPost_ResultForOtherItem(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /asr/poll", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"items":[{"aweme_id":"v2","status":"done"}]}`))
	})

	_, err := newTestClient(t, mux).PollASR(context.Background(), "v1", "t")

	assert.ErrorIs(t, err, domain.ErrRemoteAPI)
}
