package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadLayersFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	yml := "server:\n  port: \"9000\"\norder:\n  shipping_cost: \"12.50\"\nanalytics:\n  timezone: Africa/Casablanca\n"
	if err := os.WriteFile(filepath.Join(dir, "config.yml"), []byte(yml), 0o644); err != nil {
		t.Fatalf("write config failed: %v", err)
	}
	t.Chdir(dir)
	t.Setenv("ORDER_TXN_MAX_ATTEMPTS", "3")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Server.Port != "9000" || cfg.Order.ShippingCost != "12.50" {
		t.Fatalf("file values not applied: %+v %+v", cfg.Server, cfg.Order)
	}
	if cfg.Order.TxnMaxAttempts != 3 {
		t.Fatalf("env override not applied, got %d", cfg.Order.TxnMaxAttempts)
	}
	if cfg.Analytics.TopSellersLimit != 100 || cfg.Database.Driver != "sqlite" {
		t.Fatalf("defaults not applied: %+v %+v", cfg.Analytics, cfg.Database)
	}
	if cfg.Queue.Queues["critical"] <= cfg.Queue.Queues["default"] {
		t.Fatalf("critical queue must outweigh default: %v", cfg.Queue.Queues)
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Auth:      AuthConfig{Provider: "local"},
			Database:  DatabaseConfig{DSN: "./db/test.db"},
			Order:     OrderConfig{TxnMaxAttempts: 5},
			Analytics: AnalyticsConfig{Timezone: "UTC", TopSellersLimit: 100},
		}
	}
	if err := valid().Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}

	cases := map[string]func(*Config){
		"auth.provider":          func(c *Config) { c.Auth.Provider = "oauth" },
		"auth.firebase":          func(c *Config) { c.Auth.Provider = "firebase" },
		"database.dsn":           func(c *Config) { c.Database.DSN = " " },
		"order.txn_max_attempts": func(c *Config) { c.Order.TxnMaxAttempts = 0 },
		"analytics.top_sellers":  func(c *Config) { c.Analytics.TopSellersLimit = 0 },
		"analytics.timezone":     func(c *Config) { c.Analytics.Timezone = "Mars/Olympus" },
	}
	for want, mutate := range cases {
		cfg := valid()
		mutate(cfg)
		err := cfg.Validate()
		if err == nil || !strings.Contains(err.Error(), want) {
			t.Fatalf("%s: want error mentioning it, got %v", want, err)
		}
	}
}
