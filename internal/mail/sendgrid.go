package mail

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/Scribax/followers-shop/internal/apperr"
	"github.com/Scribax/followers-shop/pkg/logging"
)

const sendURL = "https://api.sendgrid.com/v3/mail/send"

// Client delivers transactional mail through the SendGrid v3 API. A client
// without credentials is still usable; every send fails with
// apperr.ErrEmailDelivery instead of panicking at startup.
type Client struct {
	APIKey  string
	From    string
	BaseURL string
	HTTP    *http.Client
}

func NewClient(apiKey, from, baseURL string) *Client {
	return &Client{
		APIKey:  apiKey,
		From:    from,
		BaseURL: baseURL,
		HTTP:    &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *Client) Configured() bool {
	return c.APIKey != "" && c.From != ""
}

type personalization struct {
	To []address `json:"to"`
}

type address struct {
	Email string `json:"email"`
}

type content struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

type message struct {
	Personalizations []personalization `json:"personalizations"`
	From             address           `json:"from"`
	Subject          string            `json:"subject"`
	Content          []content         `json:"content"`
}

func (c *Client) SendPasswordResetEmail(ctx context.Context, to, resetToken string) error {
	resetLink := fmt.Sprintf("%s/auth/reset-password/%s", c.BaseURL, resetToken)
	body := fmt.Sprintf(
		"You requested a password reset.\n\n"+
			"Open the following link to choose a new password:\n%s\n\n"+
			"If you did not request this change you can ignore this email.\n"+
			"The link expires in 1 hour.\n",
		resetLink,
	)
	return c.send(ctx, to, "Password recovery - Social Boost", body)
}

func (c *Client) SendPasswordChangedEmail(ctx context.Context, to string) error {
	body := "Your password has been updated.\n\n" +
		"If you did not make this change, contact support immediately.\n"
	return c.send(ctx, to, "Your password was updated - Social Boost", body)
}

func (c *Client) send(ctx context.Context, to, subject, text string) error {
	l := logging.FromContext(ctx).With("svc", "mail.send", "to", to)

	if !c.Configured() {
		l.Warn("send_skipped", "reason", "sendgrid credentials are not configured")
		return fmt.Errorf("%w: sendgrid is not configured", apperr.ErrEmailDelivery)
	}

	msg := message{
		Personalizations: []personalization{{To: []address{{Email: to}}}},
		From:             address{Email: c.From},
		Subject:          subject,
		Content:          []content{{Type: "text/plain", Value: text}},
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("%w: %v", apperr.ErrEmailDelivery, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, sendURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("%w: %v", apperr.ErrEmailDelivery, err)
	}
	req.Header.Set("Authorization", "Bearer "+c.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTP.Do(req)
	if err != nil {
		l.Error("send_failed", "error", err)
		return fmt.Errorf("%w: %v", apperr.ErrEmailDelivery, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		l.Error("send_failed", "status", resp.StatusCode)
		return fmt.Errorf("%w: sendgrid returned %d", apperr.ErrEmailDelivery, resp.StatusCode)
	}

	l.Info("send_successful", "subject", subject)
	return nil
}
