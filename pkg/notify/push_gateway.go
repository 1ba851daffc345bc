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

// PushGateway sends push notifications through an HTTP push API, keyed
// by user id on the provider side. In "dev" mode messages are logged
// instead of sent.
type PushGateway struct {
	mode   string
	apiURL string
	apiKey string
	client *http.Client
	logger *logrus.Logger
}

// NewPushGateway creates a new PushGateway. Sender in cfg is unused;
// push identity comes from the API key.
func NewPushGateway(cfg Config, logger *logrus.Logger) *PushGateway {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}
	return &PushGateway{
		mode:   cfg.Mode,
		apiURL: cfg.APIURL,
		apiKey: cfg.APIKey,
		client: &http.Client{Timeout: timeout},
		logger: logger,
	}
}

type pushRequest struct {
	UserID string `json:"user_id"`
	Title  string `json:"title"`
	Body   string `json:"body"`
}

// Send delivers one push message addressed by user id. Dev mode and a
// missing API key both fall back to logging.
func (g *PushGateway) Send(userID, title, body string) error {
	if g.mode == "dev" || g.apiKey == "" {
		g.logger.WithFields(logrus.Fields{
			"user_id": userID,
			"title":   title,
		}).Info("Push gateway in dev mode - message logged, not sent")
		return nil
	}

	payload, err := json.Marshal(pushRequest{
		UserID: userID,
		Title:  title,
		Body:   body,
	})
	if err != nil {
		return fmt.Errorf("failed to marshal push request: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, g.apiURL, bytes.NewBuffer(payload))
	if err != nil {
		return fmt.Errorf("failed to build push request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+g.apiKey)

	resp, err := g.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to call push gateway: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusAccepted {
		respBody, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("push gateway returned status %d: %s", resp.StatusCode, string(respBody))
	}
	return nil
}
