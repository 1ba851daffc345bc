// Package notify provides the outbound email gateway client.
package notify

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

// EmailGateway sends transactional email through an HTTP mail API.
// In "dev" mode messages are logged instead of sent.
type EmailGateway struct {
	mode    string
	apiURL  string
	apiKey  string
	sender  string
	client  *http.Client
	logger  *logrus.Logger
}

// Config holds the gateway settings
type Config struct {
	Mode    string
	APIURL  string
	APIKey  string
	Sender  string
	Timeout time.Duration
}

// NewEmailGateway creates a new EmailGateway
func NewEmailGateway(cfg Config, logger *logrus.Logger) *EmailGateway {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	return &EmailGateway{
		mode:   cfg.Mode,
		apiURL: cfg.APIURL,
		apiKey: cfg.APIKey,
		sender: cfg.Sender,
		client: &http.Client{Timeout: timeout},
		logger: logger,
	}
}

type sendRequest struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// Send delivers one message. Dev mode and a missing API key both fall
// back to logging so local environments never need mail credentials.
func (g *EmailGateway) Send(to, subject, body string) error {
	if g.mode == "dev" || g.apiKey == "" {
		g.logger.WithFields(logrus.Fields{
			"to":      to,
			"subject": subject,
		}).Info("Email gateway in dev mode - message logged, not sent")
		return nil
	}

	payload, err := json.Marshal(sendRequest{
		From:    g.sender,
		To:      to,
		Subject: subject,
		Body:    body,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal email request: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, g.apiURL, bytes.NewBuffer(payload))
	if err != nil {
		return fmt.Errorf("failed to build email request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.apiKey)

	resp, err := g.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call email gateway: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("email gateway returned status %d: %s", resp.StatusCode, string(respBody))
	}
	return nil
}
