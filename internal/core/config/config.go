// Package config provides configuration management for the workflow service.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmkar/workflow/internal/sms"
)

// ServiceConfig holds configuration for the HTTP event-intake service and
// the SMS transport. Provider credentials are environment-only and never read
// from config files.
type ServiceConfig struct {
	Host           string
	Port           int
	RequestTimeout time.Duration

	SMSMode     sms.Mode
	SMSEndpoint string
	SMSSender   string
	SMSTimeout  time.Duration
}

// DefaultServiceConfig returns configuration with default values.
func DefaultServiceConfig() *ServiceConfig {
	return &ServiceConfig{
		Host:           "0.0.0.0",
		Port:           8090,
		RequestTimeout: 30 * time.Second,
		SMSMode:        sms.ModeREST,
		SMSTimeout:     10 * time.Second,
	}
}

// SMSAPIKey reads the provider API key from WF_SMS_API_KEY.
// Returns an error when the variable is unset or blank.
func SMSAPIKey() (string, error) {
	key := strings.TrimSpace(os.Getenv("WF_SMS_API_KEY"))
	if key == "" {
		return "", fmt.Errorf("WF_SMS_API_KEY not set")
	}
	return key, nil
}

// APIToken reads the optional static bearer token guarding the event intake
// from WF_API_TOKEN. Empty means the intake is unauthenticated (trusted
// network deployment beside the ERP backend).
func APIToken() string {
	return strings.TrimSpace(os.Getenv("WF_API_TOKEN"))
}

// SMSConfig assembles the transport configuration, pulling the credential
// from the environment.
func (c *ServiceConfig) SMSConfig() (sms.Config, error) {
	key, err := SMSAPIKey()
	if err != nil {
		return sms.Config{}, err
	}
	return sms.Config{
		Mode:     c.SMSMode,
		Endpoint: c.SMSEndpoint,
		Sender:   c.SMSSender,
		APIKey:   key,
		Timeout:  c.SMSTimeout,
	}, nil
}
