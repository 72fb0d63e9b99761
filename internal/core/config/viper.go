package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/charmkar/workflow/internal/sms"
)

// LoadConfig loads configuration from file using viper.
// Environment > config file > defaults precedence, WF_ env prefix.
func LoadConfig(configPath string) (*ServiceConfig, error) {
	v := viper.New()

	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8090)
	v.SetDefault("server.request_timeout", "30s")
	v.SetDefault("sms.mode", "rest")
	v.SetDefault("sms.endpoint", "")
	v.SetDefault("sms.sender", "")
	v.SetDefault("sms.timeout", "10s")

	v.SetEnvPrefix("WF")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configPath != "" {
		v.SetConfigFile(configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Credentials are environment-only per 12-factor principles.
	if err := validateNoSecretsInConfig(v); err != nil {
		return nil, err
	}

	cfg := &ServiceConfig{
		Host:           v.GetString("server.host"),
		Port:           v.GetInt("server.port"),
		RequestTimeout: v.GetDuration("server.request_timeout"),
		SMSMode:        sms.Mode(v.GetString("sms.mode")),
		SMSEndpoint:    v.GetString("sms.endpoint"),
		SMSSender:      v.GetString("sms.sender"),
		SMSTimeout:     v.GetDuration("sms.timeout"),
	}

	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func validateConfig(cfg *ServiceConfig) error {
	if cfg.Port <= 0 || cfg.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", cfg.Port)
	}
	if cfg.RequestTimeout <= 0 {
		return fmt.Errorf("request_timeout must be positive, got %v", cfg.RequestTimeout)
	}
	switch cfg.SMSMode {
	case sms.ModeREST, sms.ModeSOAP:
	default:
		return fmt.Errorf("sms.mode must be rest or soap, got %q", cfg.SMSMode)
	}
	return nil
}

func validateNoSecretsInConfig(v *viper.Viper) error {
	if v.InConfig("sms.api_key") || v.InConfig("api_token") {
		return fmt.Errorf("credentials not allowed in config files (use WF_SMS_API_KEY / WF_API_TOKEN environment variables)")
	}
	return nil
}
