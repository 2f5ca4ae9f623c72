package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/stc-ops/fieldops/internal/shared/config"
)

// Provider delivers a message on one channel.
type Provider interface {
	Send(ctx context.Context, msg *Message) error
}

// --- Email (SendGrid-compatible HTTP API) ---

// EmailProvider sends transactional email through a SendGrid-compatible
// v3 mail send endpoint.
type EmailProvider struct {
	apiKey    string
	baseURL   string
	fromEmail string
	fromName  string
	client    *http.Client
}

// NewEmailProvider creates an email provider from notification config.
func NewEmailProvider(cfg config.NotificationConfig) *EmailProvider {
	return &EmailProvider{
		apiKey:    cfg.EmailAPIKey,
		baseURL:   cfg.EmailBaseURL,
		fromEmail: cfg.FromEmail,
		fromName:  cfg.FromName,
		client:    &http.Client{Timeout: 10 * time.Second},
	}
}

func (p *EmailProvider) Send(ctx context.Context, msg *Message) error {
	if msg.Recipient == "" {
		return fmt.Errorf("no email address provided")
	}

	payload := map[string]any{
		"personalizations": []map[string]any{
			{"to": []map[string]string{{"email": msg.Recipient, "name": msg.RecipientName}}},
		},
		"from":    map[string]string{"email": p.fromEmail, "name": p.fromName},
		"subject": msg.Subject,
		"content": []map[string]string{
			{"type": "text/plain", "value": msg.Body},
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode email payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/v3/mail/send", bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+p.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("email request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("email provider returned %d: %s", resp.StatusCode, string(b))
	}
	return nil
}

// --- WhatsApp (Cloud API) ---

// WhatsAppProvider sends messages through the WhatsApp Cloud API.
type WhatsAppProvider struct {
	token   string
	phoneID string
	baseURL string
	client  *http.Client
}

// NewWhatsAppProvider creates a WhatsApp provider from notification config.
func NewWhatsAppProvider(cfg config.NotificationConfig) *WhatsAppProvider {
	return &WhatsAppProvider{
		token:   cfg.WhatsAppToken,
		phoneID: cfg.WhatsAppPhoneID,
		baseURL: cfg.WhatsAppBaseURL,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

func (p *WhatsAppProvider) Send(ctx context.Context, msg *Message) error {
	if msg.Recipient == "" {
		return fmt.Errorf("no phone number provided")
	}

	payload := map[string]any{
		"messaging_product": "whatsapp",
		"to":                msg.Recipient,
		"type":              "text",
		"text":              map[string]string{"body": msg.Body},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode whatsapp payload: %w", err)
	}

	url := fmt.Sprintf("%s/%s/messages", p.baseURL, p.phoneID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+p.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("whatsapp request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("whatsapp provider returned %d: %s", resp.StatusCode, string(b))
	}
	return nil
}

// --- Mocks ---

// MockProvider records messages for tests.
type MockProvider struct {
	mu         sync.RWMutex
	sent       []*Message
	failOnSend bool
}

// NewMockProvider creates a recording provider.
func NewMockProvider() *MockProvider {
	return &MockProvider{}
}

func (p *MockProvider) Send(ctx context.Context, msg *Message) error {
	if p.failing() {
		return fmt.Errorf("mock send failure")
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.sent = append(p.sent, msg)
	return nil
}

// SetFailOnSend sets whether Send should fail
func (p *MockProvider) SetFailOnSend(fail bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.failOnSend = fail
}

func (p *MockProvider) failing() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.failOnSend
}

// Sent returns all recorded messages.
func (p *MockProvider) Sent() []*Message {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make([]*Message, len(p.sent))
	copy(out, p.sent)
	return out
}
