// Package transcript is the client of the ASR and LLM cleanup API.
package transcript

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

const (
	pathASRSubmit = "/asr/submit"
	pathASRPoll   = "/asr/poll"
	pathLLMSubmit = "/llm/submit"
	pathLLMPoll   = "/llm/poll"
)

type Config struct {
	BaseURL string
	Token   string
	Timeout time.Duration
	Retry   config.RetryConfig
}

// Client implements service.TranscriptAPI. Each call carries a single item.
type Client struct {
	client  *remote.Client
	baseURL string
	token   string
	logger  *slog.Logger
}

func New(cfg Config, logger *slog.Logger) *Client {
	logger = logger.With("client", "transcript")
	return &Client{
		client:  remote.New(cfg.Timeout, cfg.Retry, logger),
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		token:   cfg.Token,
		logger:  logger,
	}
}

func (c *Client) SubmitASR(ctx context.Context, req service.ASRRequest) (*service.ASRSubmission, error) {
	res, err := post[asrSubmitItem, asrSubmitResult](ctx, c, pathASRSubmit, asrSubmitItem{
		AwemeID:  req.AwemeID,
		URL:      req.MediaURL,
		Duration: req.DurationMs,
	}, func(r asrSubmitResult) string { return r.AwemeID }, req.AwemeID)
	if err != nil {
		return nil, err
	}
	if res.Error != "" {
		return nil, fmt.Errorf("%w: asr submit %s: %s", domain.ErrRemoteAPI, req.AwemeID, res.Error)
	}
	return &service.ASRSubmission{TaskID: res.TaskID, Text: res.Text}, nil
}

func (c *Client) PollASR(ctx context.Context, awemeID, taskID string) (*service.PollResult, error) {
	res, err := post[asrPollItem, pollResult](ctx, c, pathASRPoll, asrPollItem{
		AwemeID: awemeID,
		TaskID:  taskID,
	}, func(r pollResult) string { return r.AwemeID }, awemeID)
	if err != nil {
		return nil, err
	}
	return toPollResult(res), nil
}

func (c *Client) SubmitLLM(ctx context.Context, awemeID, rawText string) (*service.LLMSubmission, error) {
	res, err := post[llmSubmitItem, llmSubmitResult](ctx, c, pathLLMSubmit, llmSubmitItem{
		AwemeID: awemeID,
		Text:    rawText,
	}, func(r llmSubmitResult) string { return r.AwemeID }, awemeID)
	if err != nil {
		return nil, err
	}
	if res.Error != "" {
		return nil, fmt.Errorf("%w: llm submit %s: %s", domain.ErrRemoteAPI, awemeID, res.Error)
	}

	sub := &service.LLMSubmission{Text: res.Text}
	for _, t := range res.Tasks {
		sub.Tasks = append(sub.Tasks, domain.LLMTaskRef{ConversationID: t.ConversationID, ChatID: t.ChatID})
	}
	return sub, nil
}

func (c *Client) PollLLM(ctx context.Context, awemeID string, ref domain.LLMTaskRef) (*service.PollResult, error) {
	res, err := post[llmPollItem, pollResult](ctx, c, pathLLMPoll, llmPollItem{
		AwemeID:        awemeID,
		ConversationID: ref.ConversationID,
		ChatID:         ref.ChatID,
	}, func(r pollResult) string { return r.AwemeID }, awemeID)
	if err != nil {
		return nil, err
	}
	return toPollResult(res), nil
}

// post sends one item and returns the result belonging to it. A result
// without an id is accepted when it is the only one.
func post[In, Out any](ctx context.Context, c *Client, path string, item In, idOf func(Out) string, awemeID string) (Out, error) {
	var zero Out
	var resp response[Out]

	if err := c.client.PostJSON(ctx, c.baseURL+path, envelope[In]{Token: c.token, Items: []In{item}}, &resp); err != nil {
		return zero, fmt.Errorf("%s: %w", path, err)
	}

	if len(resp.Items) == 0 {
		msg := resp.Message
		if msg == "" {
			msg = remote.DetailString(resp.Detail)
		}
		if msg == "" {
			msg = "empty result"
		}
		return zero, fmt.Errorf("%s: %w: %s", path, domain.ErrRemoteAPI, msg)
	}

	for _, r := range resp.Items {
		if idOf(r) == awemeID {
			return r, nil
		}
	}
	if len(resp.Items) == 1 && idOf(resp.Items[0]) == "" {
		return resp.Items[0], nil
	}
	return zero, fmt.Errorf("%s: %w: no result for %s", path, domain.ErrRemoteAPI, awemeID)
}

func toPollResult(r pollResult) *service.PollResult {
	out := &service.PollResult{Text: r.Text, Message: r.Message}
	switch strings.ToLower(strings.TrimSpace(r.Status)) {
	case "done", "completed", "success", "succeeded":
		out.State = service.PollDone
	case "failed", "error":
		out.State = service.PollFailed
	default:
		out.State = service.PollPending
	}
	return out
}
