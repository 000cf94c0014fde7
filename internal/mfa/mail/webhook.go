package mail

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const defaultTimeout = 15 * time.Second

// Templates named in webhook requests.
const (
	TemplateOTP           = "otp"
	TemplatePasswordReset = "password_reset"
)

// WebhookClient posts deliveries to a transactional mail provider's JSON endpoint.
type WebhookClient struct {
	APIKey     string
	BaseURL    string
	From       string
	HTTPClient *http.Client
}

// NewWebhookClient returns a client posting to baseURL with the given API key and sender address.
func NewWebhookClient(apiKey, baseURL, from string) *WebhookClient {
	return &WebhookClient{
		APIKey:     apiKey,
		BaseURL:    baseURL,
		From:       from,
		HTTPClient: &http.Client{Timeout: defaultTimeout},
	}
}

type webhookRequest struct {
	Template  string `json:"template"`
	To        string `json:"to"`
	From      string `json:"from,omitempty"`
	Variables string `json:"variables"`
}

// SendOTP mails the code using the otp template. Does not log the code.
func (c *WebhookClient) SendOTP(ctx context.Context, email, otp string) error {
	return c.send(ctx, TemplateOTP, email, otp)
}

// SendResetToken mails the token using the password_reset template. Does not log the token.
func (c *WebhookClient) SendResetToken(ctx context.Context, email, token string) error {
	return c.send(ctx, TemplatePasswordReset, email, token)
}

func (c *WebhookClient) send(ctx context.Context, template, to, secret string) error {
	if c.APIKey == "" {
		return fmt.Errorf("mail: API key not configured")
	}
	if c.BaseURL == "" {
		return fmt.Errorf("mail: base URL not configured")
	}
	raw, err := json.Marshal(webhookRequest{Template: template, To: to, From: c.From, Variables: secret})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL, bytes.NewReader(raw))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", c.APIKey)
	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("mail: %s request: %w", template, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// The response body may echo the request, so it is not included.
		return fmt.Errorf("mail: %s request failed status=%d", template, resp.StatusCode)
	}
	return nil
}
