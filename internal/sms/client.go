package sms

import (
	"bytes"
	"context"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/charmkar/workflow/internal/types"
)

// Mode selects the provider protocol.
type Mode string

const (
	ModeREST Mode = "rest"
	ModeSOAP Mode = "soap"
)

// Config is the transport configuration, injected at construction time.
// Provider credentials come from the environment, never from config files.
type Config struct {
	Mode     Mode
	Endpoint string
	Sender   string // provider line number messages are sent from
	APIKey   string
	Timeout  time.Duration
}

// Validate checks the configuration is complete enough to send.
func (c Config) Validate() error {
	switch c.Mode {
	case ModeREST, ModeSOAP:
	default:
		return fmt.Errorf("unsupported sms mode: %q (expected rest or soap)", c.Mode)
	}
	if c.Endpoint == "" {
		return fmt.Errorf("sms endpoint is required")
	}
	if c.APIKey == "" {
		return fmt.Errorf("sms api key is required (set WF_SMS_API_KEY)")
	}
	return nil
}

// Client delivers messages through the configured provider.
type Client struct {
	cfg  Config
	http *http.Client
}

// NewClient builds a transport client from validated configuration.
func NewClient(cfg Config) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{cfg: cfg, http: &http.Client{Timeout: timeout}}, nil
}

// Send delivers one message text to the recipient list. A non-2xx provider
// response is an error; the dispatcher catches it at the action boundary.
// Recipients must already be in canonical local format.
func (c *Client) Send(ctx context.Context, recipients []string, text string) error {
	if len(recipients) == 0 {
		return nil
	}
	if strings.TrimSpace(text) == "" {
		return types.ErrEmptyMessage
	}
	for _, r := range recipients {
		if !IsValidMobile(r) {
			return fmt.Errorf("%w: %s", types.ErrInvalidRecipient, r)
		}
	}

	var req *http.Request
	var err error
	switch c.cfg.Mode {
	case ModeSOAP:
		req, err = c.soapRequest(ctx, recipients, text)
	default:
		req, err = c.restRequest(ctx, recipients, text)
	}
	if err != nil {
		return fmt.Errorf("build sms request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("sms provider call: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("sms provider returned %d: %s", resp.StatusCode, bytes.TrimSpace(body))
	}
	return nil
}

func (c *Client) restRequest(ctx context.Context, recipients []string, text string) (*http.Request, error) {
	payload, err := json.Marshal(map[string]any{
		"sender":     c.cfg.Sender,
		"recipients": recipients,
		"message":    text,
	})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.Endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	return req, nil
}

// soapEnvelope is the minimal request body legacy SOAP provider endpoints
// accept.
type soapEnvelope struct {
	XMLName xml.Name `xml:"soap:Envelope"`
	SoapNS  string   `xml:"xmlns:soap,attr"`
	Body    struct {
		Send struct {
			APIKey     string   `xml:"apiKey"`
			Sender     string   `xml:"sender"`
			Recipients []string `xml:"recipients>number"`
			Message    string   `xml:"message"`
		} `xml:"SendSMS"`
	} `xml:"soap:Body"`
}

func (c *Client) soapRequest(ctx context.Context, recipients []string, text string) (*http.Request, error) {
	var env soapEnvelope
	env.SoapNS = "http://schemas.xmlsoap.org/soap/envelope/"
	env.Body.Send.APIKey = c.cfg.APIKey
	env.Body.Send.Sender = c.cfg.Sender
	env.Body.Send.Recipients = recipients
	env.Body.Send.Message = text

	payload, err := xml.Marshal(env)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.Endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "text/xml; charset=utf-8")
	return req, nil
}
