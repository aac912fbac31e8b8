package collector

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"video_syncer/internal/config"
	"video_syncer/internal/domain"
	"video_syncer/internal/remote"
	"video_syncer/internal/service"
)

// Config holds data-collection API configuration.
type Config struct {
	BaseURL string
	Timeout time.Duration
	Retry   config.RetryConfig
}

// Source implements service.Source for the data-collection API.
type Source struct {
	client  *remote.Client
	baseURL string
	logger  *slog.Logger
}

func New(cfg Config, logger *slog.Logger) *Source {
	logger = logger.With("source", "collector")
	return &Source{
		client:  remote.New(cfg.Timeout, cfg.Retry, logger),
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		logger:  logger,
	}
}

// FetchVideos fetches the videos behind one input URL.
func (s *Source) FetchVideos(ctx context.Context, req service.FetchRequest) ([]domain.Video, error) {
	platform := req.Platform
	if platform == "" || platform == PlatformAuto {
		platform = DetectPlatform(req.URL)
		if platform == "" {
			return nil, fmt.Errorf("%w: cannot detect platform for %s", domain.ErrValidation, req.URL)
		}
	}

	var resp APIResponse
	err := s.client.PostJSON(ctx, s.baseURL, APIRequest{
		Token:      req.Token,
		Platform:   platform,
		LinkType:   req.LinkType,
		UpdateMode: req.UpdateMode,
		PageTurns:  req.PageTurns,
		URL:        req.URL,
	}, &resp)
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", req.URL, err)
	}

	if resp.Videos == nil {
		msg := resp.Message
		if msg == "" {
			msg = remote.DetailString(resp.Detail)
		}
		if msg != "" {
			return nil, fmt.Errorf("fetch %s: %w: %s", req.URL, domain.ErrRemoteAPI, msg)
		}
	}

	s.logger.Debug("fetched videos", "url", req.URL, "platform", platform, "count", len(resp.Videos))

	return s.transform(resp.Videos), nil
}

func (s *Source) transform(dtos []VideoDTO) []domain.Video {
	videos := make([]domain.Video, 0, len(dtos))

	for _, d := range dtos {
		desc := d.Description
		if desc == "" {
			desc = d.Desc
		}

		videos = append(videos, domain.Video{
			Nickname:      strings.TrimSpace(d.Nickname),
			AwemeID:       string(d.AwemeID),
			ShareURL:      d.ShareURL,
			PublishTime:   publishTime(d.PublishTime),
			Description:   desc,
			DiggCount:     int64(d.DiggCount),
			CollectCount:  int64(d.CollectCount),
			CommentCount:  int64(d.CommentCount),
			ShareCount:    int64(d.ShareCount),
			DurationMs:    int64(d.Duration),
			PlayURL:       d.PlayURL,
			AudioURL:      d.AudioURL,
			RawTranscript: d.RawTranscript,
			Transcript:    d.Transcript,
		})
	}

	return videos
}
