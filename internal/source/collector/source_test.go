package collector

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

func newTestSource(url string) *Source {
	return New(Config{
		BaseURL: url,
		Timeout: time.Second,
		Retry:   config.RetryConfig{MaxAttempts: 1, InitialBackoff: time.Millisecond, MaxBackoff: time.Millisecond},
	}, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestFetchVideos_DecodesVideos(t *testing.T) {
	var got APIRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"videos":[
			{"nickname":" alice ","aweme_id":7301234567890,"share_url":"https://v.douyin.com/x",
			 "publish_time":1696492800,"desc":"hello","digg_count":"12","collect_count":3,
			 "comment_count":null,"share_count":-1,"duration":15000,
			 "play_url":"https://cdn/p.mp4","audio_url":"https://cdn/a.mp3","transcript":"clean"},
			{"nickname":"bob","aweme_id":"abc","publish_time":"2023-10-05 08:00:00","description":"desc"}
		]}`))
	}))
	defer srv.Close()

	videos, err := newTestSource(srv.URL).FetchVideos(context.Background(), service.FetchRequest{
		Token:      "tok",
		Platform:   PlatformAuto,
		LinkType:   "user",
		UpdateMode: "incremental",
		PageTurns:  2,
		URL:        "https://www.douyin.com/user/alice",
	})

	require.NoError(t, err)
	assert.Equal(t, APIRequest{
		Token:      "tok",
		Platform:   "douyin",
		LinkType:   "user",
		UpdateMode: "incremental",
		PageTurns:  2,
		URL:        "https://www.douyin.com/user/alice",
	}, got)

	require.Len(t, videos, 2)
	assert.Equal(t, domain.Video{
		Nickname:     "alice",
		AwemeID:      "7301234567890",
		ShareURL:     "https://v.douyin.com/x",
		PublishTime:  json.Number("1696492800"),
		Description:  "hello",
		DiggCount:    12,
		CollectCount: 3,
		DurationMs:   15000,
		PlayURL:      "https://cdn/p.mp4",
		AudioURL:     "https://cdn/a.mp3",
		Transcript:   "clean",
	}, videos[0])
	assert.Equal(t, "abc", videos[1].AwemeID)
	assert.Equal(t, "2023-10-05 08:00:00", videos[1].PublishTime)
	assert.Equal(t, "desc", videos[1].Description)
}

func TestFetchVideos_ErrorPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"detail":"invalid token"}`))
	}))
	defer srv.Close()

	_, err := newTestSource(srv.URL).FetchVideos(context.Background(), service.FetchRequest{
		Platform: "tiktok",
		URL:      "https://www.tiktok.com/@bob",
	})

	assert.ErrorIs(t, err, domain.ErrRemoteAPI)
	assert.Contains(t, err.Error(), "invalid token")
}

func TestFetchVideos_EmptyListIsNotAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"videos":[]}`))
	}))
	defer srv.Close()

	videos, err := newTestSource(srv.URL).FetchVideos(context.Background(), service.FetchRequest{
		Platform: "bilibili",
		URL:      "https://space.bilibili.com/1",
	})

	require.NoError(t, err)
	assert.Empty(t, videos)
}

func TestFetchVideos_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"message":"plan expired"}`))
	}))
	defer srv.Close()

	_, err := newTestSource(srv.URL).FetchVideos(context.Background(), service.FetchRequest{
		Platform: "douyin",
		URL:      "https://www.douyin.com/user/alice",
	})

	assert.ErrorIs(t, err, domain.ErrRemoteAPI)
	assert.Contains(t, err.Error(), "plan expired")
}

func TestFetchVideos_UnknownPlatform(t *testing.T) {
	_, err := newTestSource("http://127.0.0.1:0").FetchVideos(context.Background(), service.FetchRequest{
		Platform: PlatformAuto,
		URL:      "https://example.com/video/1",
	})

	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestDetectPlatform(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://www.douyin.com/user/MS4wLjAB", "douyin"},
		{"https://v.douyin.com/iRNBho6u/", "douyin"},
		{"https://www.TikTok.com/@user/video/1", "tiktok"},
		{"https://www.xiaohongshu.com/user/profile/1", "xiaohongshu"},
		{"http://xhslink.com/a/b", "xiaohongshu"},
		{"https://space.bilibili.com/123", "bilibili"},
		{"https://b23.tv/abc", "bilibili"},
		{"https://youtu.be/dQw4w9WgXcQ", "youtube"},
		{"https://example.com", ""},
	}

	for _, tt := range tests {
		t.Run(tt.url, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectPlatform(tt.url))
		})
	}
}
