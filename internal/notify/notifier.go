// Package notify implements the outbound notification pipeline: task
// events are rendered to HTML email and delivered through a mail-relay
// API, authenticated by an OAuth2 client-credential exchange against the
// identity provider. Failures are reported as a structured error and
// never retried; the record mutation that triggered the event has already
// happened and is never blocked on delivery.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/mferrell/dealflow/internal/common"
	"github.com/mferrell/dealflow/internal/service"
)

// Config holds mail pipeline configuration.
type Config struct {
	TokenURL     string
	ClientID     string
	ClientSecret string
	RelayURL     string
	From         string
}

// Validate checks that every required setting is present.
func (c Config) Validate() error {
	for name, v := range map[string]string{
		"token_url":     c.TokenURL,
		"client_id":     c.ClientID,
		"client_secret": c.ClientSecret,
		"relay_url":     c.RelayURL,
		"from":          c.From,
	} {
		if v == "" {
			return fmt.Errorf("%w: notify.%s", common.ErrMissingConfig, name)
		}
	}
	return nil
}

// SendError is the structured failure report handed back up the call
// chain. Stage identifies which leg of the pipeline failed.
type SendError struct {
	Err        error
	Stage      string // "render", "token", or "relay"
	Recipient  string
	StatusCode int
}

func (e *SendError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("notification %s failed (status %d): %v", e.Stage, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("notification %s failed: %v", e.Stage, e.Err)
}

func (e *SendError) Unwrap() error {
	return e.Err
}

// Mailer sends task-event emails through the relay.
type Mailer struct {
	tokens oauth2.TokenSource
	client *http.Client
	cfg    Config
}

// NewMailer builds a mailer from validated config. The token source
// caches and refreshes the bearer token across sends.
func NewMailer(cfg Config) (*Mailer, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	cc := &clientcredentials.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		TokenURL:     cfg.TokenURL,
	}

	return &Mailer{
		cfg:    cfg,
		tokens: cc.TokenSource(context.Background()),
		client: &http.Client{Timeout: 30 * time.Second},
	}, nil
}

// relayMessage is the mail-relay API payload.
type relayMessage struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	HTML    string `json:"html"`
}

// Send renders the event and delivers it. Every failure comes back as a
// *SendError; none are retried here.
func (m *Mailer) Send(ctx context.Context, event service.TaskEvent) error {
	subject, body, err := renderEmail(event)
	if err != nil {
		return &SendError{Stage: "render", Recipient: event.Recipient, Err: err}
	}

	token, err := m.tokens.Token()
	if err != nil {
		return &SendError{
			Stage:     "token",
			Recipient: event.Recipient,
			Err:       fmt.Errorf("%w: %v", common.ErrTokenExchange, err),
		}
	}

	payload, err := json.Marshal(relayMessage{
		From:    m.cfg.From,
		To:      event.Recipient,
		Subject: subject,
		HTML:    body,
	})
	if err != nil {
		return &SendError{Stage: "render", Recipient: event.Recipient, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		m.cfg.RelayURL+"/messages", bytes.NewReader(payload))
	if err != nil {
		return &SendError{Stage: "relay", Recipient: event.Recipient, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	token.SetAuthHeader(req)

	resp, err := m.client.Do(req)
	if err != nil {
		return &SendError{Stage: "relay", Recipient: event.Recipient, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &SendError{
			Stage:      "relay",
			Recipient:  event.Recipient,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("%w: %s", common.ErrRelayRejected, string(detail)),
		}
	}

	common.LogDebug("Notification delivered", common.Fields{
		"kind":      event.Kind,
		"deal":      event.DealID,
		"recipient": event.Recipient,
	})
	return nil
}
