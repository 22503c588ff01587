package config

import (
	"strings"
	"sync"
)

const (
	EmailSendGrid = "sendgrid"
	EmailSES      = "ses"
)

type EmailConfig struct {
	Provider        string
	SendGridAPIKey  string
	SendGridBaseURL string
	FromEmail       string
	AWSRegion       string
}

var (
	emailConfig *EmailConfig
	emailOnce   sync.Once
)

func LoadEmailConfig() *EmailConfig {
	emailOnce.Do(func() {
		emailConfig = newEmailConfig()
	})
	return emailConfig
}

func newEmailConfig() *EmailConfig {
	v := newEnv(map[string]any{
		"EMAIL_PROVIDER":      EmailSendGrid,
		"SENDGRID_BASE_URL":   "https://api.sendgrid.com",
		"SENDGRID_FROM_EMAIL": "noreply@pitchanalyzer.com",
	})
	from := v.GetString("EMAIL_FROM")
	if from == "" {
		from = v.GetString("SENDGRID_FROM_EMAIL")
	}
	return &EmailConfig{
		Provider:        strings.ToLower(v.GetString("EMAIL_PROVIDER")),
		SendGridAPIKey:  v.GetString("SENDGRID_API_KEY"),
		SendGridBaseURL: v.GetString("SENDGRID_BASE_URL"),
		FromEmail:       from,
		AWSRegion:       v.GetString("AWS_REGION"),
	}
}

// Enabled is true when the selected provider has what it needs to send.
func (c *EmailConfig) Enabled() bool {
	switch c.Provider {
	case EmailSES:
		return c.AWSRegion != ""
	default:
		return c.SendGridAPIKey != ""
	}
}
