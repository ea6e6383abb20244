package config

import (
	"testing"

	"github.com/spf13/viper"
)

func TestDefaultsDecode(t *testing.T) {
	v := viper.New()
	setDefaults(v)
	cfg, err := decode(v)
	if err != nil {
		t.Fatalf("decode defaults failed: %v", err)
	}
	if cfg.Server.Addr() != "0.0.0.0:8080" {
		t.Fatalf("unexpected addr: %s", cfg.Server.Addr())
	}
	if cfg.Database.Driver != "sqlite" {
		t.Fatalf("unexpected driver: %s", cfg.Database.Driver)
	}
	if cfg.Queue.Queues["critical"] != 4 {
		t.Fatalf("unexpected queue weights: %v", cfg.Queue.Queues)
	}
	if cfg.Shop.CurrencySymbol != "₹" {
		t.Fatalf("unexpected currency symbol: %s", cfg.Shop.CurrencySymbol)
	}
	if cfg.Store.RelayChannel == "" {
		t.Fatalf("relay channel should have a default")
	}
}

func TestEnvOverridesDefault(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("STORE_CACHE_TTL_SECONDS", "12")

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(envReplacer())

	cfg, err := decode(v)
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if cfg.Server.Port != "9090" {
		t.Fatalf("env override not applied: %s", cfg.Server.Port)
	}
	if cfg.Store.CacheTTLSeconds != 12 {
		t.Fatalf("env override not applied: %d", cfg.Store.CacheTTLSeconds)
	}
}

func TestLogConfigToLoggerOptions(t *testing.T) {
	opts := LogConfig{Level: "warn", Dir: "/tmp/x", Filename: "a.log", MaxSizeMB: 3}.ToLoggerOptions()
	if opts.Level != "warn" || opts.Dir != "/tmp/x" || opts.Filename != "a.log" || opts.MaxSizeMB != 3 {
		t.Fatalf("unexpected options: %+v", opts)
	}
}
