package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
)

const (
	// EnvInstrumentationKey is the credential fallback shared with the
	// Application Insights SDKs.
	EnvInstrumentationKey = "APPINSIGHTS_INSTRUMENTATIONKEY"

	EnvConfig        = "INSIGHTSLOG_CONFIG"
	EnvLevel         = "INSIGHTSLOG_LEVEL"
	EnvLogLevel      = "INSIGHTSLOG_LOG_LEVEL"
	EnvEndpoint      = "INSIGHTSLOG_ENDPOINT"
	EnvUseStubClient = "INSIGHTSLOG_USE_STUB_CLIENT"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Loader loads configuration from environment variables. Tests can override
// Lookup to inject deterministic maps.
type Loader struct {
	Lookup func(string) (string, bool)
}

// Load retrieves the adapter configuration from environment variables and validates it.
func (l Loader) Load() (Config, error) {
	if l.Lookup == nil {
		l.Lookup = os.LookupEnv
	}

	var cfg Config

	if raw, ok := l.Lookup(EnvConfig); ok && strings.TrimSpace(raw) != "" {
		if err := applyJSON(raw, &cfg); err != nil {
			return Config{}, err
		}
	}

	overrideString(l.Lookup, EnvInstrumentationKey, &cfg.InstrumentationKey)
	overrideString(l.Lookup, EnvEndpoint, &cfg.Endpoint)
	overrideString(l.Lookup, EnvLevel, &cfg.Level)
	overrideString(l.Lookup, EnvLogLevel, &cfg.LogLevel)
	if err := overrideBool(l.Lookup, EnvUseStubClient, &cfg.UseStubClient); err != nil {
		return Config{}, err
	}

	cfg.Level = strings.ToLower(cfg.Level)
	cfg.ExceptionPolicy = strings.ToLower(strings.TrimSpace(cfg.ExceptionPolicy))

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// InstrumentationKey returns the key published in the environment, if any.
func InstrumentationKey(lookup func(string) (string, bool)) (string, bool) {
	if lookup == nil {
		lookup = os.LookupEnv
	}
	key, ok := lookup(EnvInstrumentationKey)
	key = strings.TrimSpace(key)
	return key, ok && key != ""
}

func applyJSON(raw string, cfg *Config) error {
	type jsonConfig struct {
		InstrumentationKey      string `json:"instrumentation_key"`
		Endpoint                string `json:"endpoint"`
		Level                   string `json:"level"`
		LogLevel                string `json:"log_level"`
		TreatErrorsAsExceptions *bool  `json:"treat_errors_as_exceptions"`
		SendErrorsAsExceptions  *bool  `json:"send_errors_as_exceptions"`
		ExceptionPolicy         string `json:"exception_policy"`
		MaxBatchSize            *int   `json:"max_batch_size"`
		MaxBatchInterval        string `json:"max_batch_interval"`
		ShutdownTimeout         string `json:"shutdown_timeout"`
		UseStubClient           *bool  `json:"use_stub_client"`
	}
	var payload jsonConfig
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return fmt.Errorf("config: decode %s: %w", EnvConfig, err)
	}
	if payload.InstrumentationKey != "" {
		cfg.InstrumentationKey = strings.TrimSpace(payload.InstrumentationKey)
	}
	if payload.Endpoint != "" {
		cfg.Endpoint = strings.TrimSpace(payload.Endpoint)
	}
	if payload.Level != "" {
		cfg.Level = strings.TrimSpace(payload.Level)
	}
	if payload.LogLevel != "" {
		cfg.LogLevel = strings.TrimSpace(payload.LogLevel)
	}
	if payload.TreatErrorsAsExceptions != nil {
		cfg.TreatErrorsAsExceptions = *payload.TreatErrorsAsExceptions
	}
	if payload.SendErrorsAsExceptions != nil && *payload.SendErrorsAsExceptions {
		cfg.TreatErrorsAsExceptions = true
	}
	if payload.ExceptionPolicy != "" {
		cfg.ExceptionPolicy = payload.ExceptionPolicy
	}
	if payload.MaxBatchSize != nil {
		cfg.MaxBatchSize = *payload.MaxBatchSize
	}
	if err := parseDuration("max_batch_interval", payload.MaxBatchInterval, &cfg.MaxBatchInterval); err != nil {
		return err
	}
	if err := parseDuration("shutdown_timeout", payload.ShutdownTimeout, &cfg.ShutdownTimeout); err != nil {
		return err
	}
	if payload.UseStubClient != nil {
		cfg.UseStubClient = *payload.UseStubClient
	}
	return nil
}

func parseDuration(name, raw string, target *time.Duration) error {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("config: %s: %w", name, err)
	}
	*target = d
	return nil
}

func overrideString(lookup func(string) (string, bool), key string, target *string) {
	if lookup == nil || target == nil {
		return
	}
	if value, ok := lookup(key); ok && strings.TrimSpace(value) != "" {
		*target = strings.TrimSpace(value)
	}
}

func overrideBool(lookup func(string) (string, bool), key string, target *bool) error {
	value, ok := lookup(key)
	if !ok || strings.TrimSpace(value) == "" {
		return nil
	}
	b, err := strconv.ParseBool(strings.TrimSpace(value))
	if err != nil {
		return fmt.Errorf("config: %s: invalid bool %q", key, value)
	}
	*target = b
	return nil
}
