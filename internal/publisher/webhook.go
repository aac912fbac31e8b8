package publisher

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"video_syncer/internal/config"
	"video_syncer/internal/domain"
	"video_syncer/internal/remote"
)

type WebhookConfig struct {
	Endpoint        string
	Token           string
	WebhookURL      string
	TemplateID      string
	TemplateVersion string
	Timeout         time.Duration
	Retry           config.RetryConfig
}

type webhookRequest struct {
	Token           string   `json:"token"`
	WebhookURL      string   `json:"webhook_url"`
	TemplateID      string   `json:"template_id"`
	TemplateVersion string   `json:"template_version"`
	IDs             []string `json:"ids"`
}

// Webhook calls the notification API, which forwards the ids to a chat
// webhook rendered with a message template.
type Webhook struct {
	client *remote.Client
	cfg    WebhookConfig
	logger *slog.Logger
}

func NewWebhook(cfg WebhookConfig, logger *slog.Logger) *Webhook {
	logger = logger.With("notifier", "webhook")
	return &Webhook{
		client: remote.New(cfg.Timeout, cfg.Retry, logger),
		cfg:    cfg,
		logger: logger,
	}
}

func (w *Webhook) Notify(ctx context.Context, rows domain.NewRows) error {
	err := w.client.PostJSON(ctx, w.cfg.Endpoint, webhookRequest{
		Token:           w.cfg.Token,
		WebhookURL:      w.cfg.WebhookURL,
		TemplateID:      w.cfg.TemplateID,
		TemplateVersion: w.cfg.TemplateVersion,
		IDs:             rows.IDs,
	}, nil)
	if err != nil {
		return fmt.Errorf("webhook notify: %w", err)
	}

	w.logger.Info("webhook notified", "cycle", rows.CycleID, "ids", len(rows.IDs))
	return nil
}
