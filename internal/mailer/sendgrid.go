// Package mailer sends transactional email through the SendGrid v3 REST API.
package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"
)

const sendEndpoint = "https://api.sendgrid.com/v3/mail/send"

type Client struct {
	apiKey   string
	from     string
	fromName string
	http     *http.Client
}

// NewFromEnv builds a client from SENDGRID_API_KEY, MAIL_FROM and
// MAIL_FROM_NAME. An empty API key yields a client whose Send logs and
// succeeds, so development machines work without credentials.
func NewFromEnv() *Client {
	return &Client{
		apiKey:   os.Getenv("SENDGRID_API_KEY"),
		from:     getenvDefault("MAIL_FROM", "no-reply@bistro-pos.local"),
		fromName: getenvDefault("MAIL_FROM_NAME", "Bistro POS"),
		http:     &http.Client{Timeout: 10 * time.Second},
	}
}

func getenvDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// Enabled reports whether a real API key is configured.
func (c *Client) Enabled() bool {
	return c.apiKey != ""
}

type address struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

type personalization struct {
	To []address `json:"to"`
}

type content struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

type sendRequest struct {
	Personalizations []personalization `json:"personalizations"`
	From             address           `json:"from"`
	Subject          string            `json:"subject"`
	Content          []content         `json:"content"`
}

// Send delivers a plain-text email to a single recipient.
func (c *Client) Send(ctx context.Context, to, subject, body string) error {
	if !c.Enabled() {
		fmt.Printf("📧 [dev mail] to=%s subject=%q body=%q\n", to, subject, body)
		return nil
	}

	payload := sendRequest{
		Personalizations: []personalization{{To: []address{{Email: to}}}},
		From:             address{Email: c.from, Name: c.fromName},
		Subject:          subject,
		Content:          []content{{Type: "text/plain", Value: body}},
	}
	buf, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, sendEndpoint, bytes.NewReader(buf))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("sendgrid returned status %d", resp.StatusCode)
	}
	return nil
}
