package core

import (
	"fmt"
	"strings"
	"time"
)

type WebhookConfig struct {
	URL     string        `koanf:"url" mapstructure:"url"`
	Timeout time.Duration `koanf:"timeout" mapstructure:"timeout"`
}

type IngestConfig struct {
	RequireTransactionID bool   `koanf:"require_transaction_id" mapstructure:"require_transaction_id"`
	DefaultNetwork       string `koanf:"default_network" mapstructure:"default_network"`
}

type Config struct {
	ServiceName string        `koanf:"service_name" mapstructure:"service_name"`
	ListenAddr  string        `koanf:"listen_addr" mapstructure:"listen_addr"`
	Webhook     WebhookConfig `koanf:"webhook" mapstructure:"webhook"`
	Ingest      IngestConfig  `koanf:"ingest" mapstructure:"ingest"`
}

func DefaultConfig() Config {
	return Config{
		ServiceName: "approvals",
		ListenAddr:  ":3000",
		Webhook: WebhookConfig{
			Timeout: 10 * time.Second,
		},
		Ingest: IngestConfig{
			DefaultNetwork: DefaultNetwork,
		},
	}
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.ServiceName) == "" {
		return fmt.Errorf("core: service_name is required")
	}
	if c.Webhook.Timeout <= 0 {
		return fmt.Errorf("core: webhook.timeout must be positive")
	}
	if strings.TrimSpace(c.Ingest.DefaultNetwork) == "" {
		return fmt.Errorf("core: ingest.default_network is required")
	}
	return nil
}
