// Package notify delivers password-reset links through an external mail API.
// Delivery is outside the core's contract: the auth flow only produces the
// token and the link.
package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
)

const sendTimeout = 10 * time.Second

// Mailer posts reset links to a JSON mail API. With no API URL configured it
// degrades to logging the link, which is what local development wants.
type Mailer struct {
	client *resty.Client
	from   string
	log    zerolog.Logger
}

func NewMailer(apiURL, apiKey, from string, log zerolog.Logger) *Mailer {
	m := &Mailer{from: from, log: log}
	if apiURL != "" {
		m.client = resty.New().
			SetBaseURL(apiURL).
			SetAuthToken(apiKey).
			SetTimeout(sendTimeout)
	}
	return m
}

type mailRequest struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	Text    string `json:"text"`
}

func (m *Mailer) SendResetLink(ctx context.Context, email, link string) error {
	if m.client == nil {
		m.log.Info().Str("email", email).Str("link", link).Msg("mail delivery not configured, reset link logged")
		return nil
	}

	resp, err := m.client.R().
		SetContext(ctx).
		SetBody(mailRequest{
			From:    m.from,
			To:      email,
			Subject: "Password reset",
			Text:    "You requested a password reset.\nFollow this link to set a new password: " + link,
		}).
		Post("")
	if err != nil {
		return fmt.Errorf("mail api: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("mail api: unexpected status %s", resp.Status())
	}

	m.log.Info().Str("email", email).Msg("reset link delivered")
	return nil
}
