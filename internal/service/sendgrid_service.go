package service

import (
	"context"
	"fmt"
	"net/http"

	"github.com/fadilmartias/pitch-analyzer/internal/config"
	"github.com/fadilmartias/pitch-analyzer/internal/model"
	"github.com/go-resty/resty/v2"
)

type SendGridNotifier struct {
	client *resty.Client
	from   string
}

func NewSendGridNotifier(cfg *config.EmailConfig) *SendGridNotifier {
	return &SendGridNotifier{
		client: resty.New().
			SetBaseURL(cfg.SendGridBaseURL).
			SetAuthToken(cfg.SendGridAPIKey).
			SetHeader("Content-Type", "application/json"),
		from: cfg.FromEmail,
	}
}

func (n *SendGridNotifier) Provider() string {
	return config.EmailSendGrid
}

func (n *SendGridNotifier) Send(ctx context.Context, to string, result model.EvaluationResult) error {
	html, err := renderReport(result)
	if err != nil {
		return err
	}

	resp, err := n.client.R().
		SetContext(ctx).
		SetBody(map[string]any{
			"personalizations": []map[string]any{
				{"to": []map[string]string{{"email": to}}},
			},
			"from":    map[string]string{"email": n.from},
			"subject": reportSubject(result),
			"content": []map[string]string{
				{"type": "text/html", "value": html},
			},
		}).
		Post("/v3/mail/send")
	if err != nil {
		return fmt.Errorf("sendgrid request: %w", err)
	}
	if resp.StatusCode() != http.StatusAccepted {
		return fmt.Errorf("sendgrid: unexpected status %d: %s", resp.StatusCode(), resp.String())
	}
	return nil
}
