package config

import (
	"context"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := load(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET": "s3cret",
	}))
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if cfg.Port != "5000" {
		t.Fatalf("unexpected port %q", cfg.Port)
	}
	if cfg.StoreDriver != DriverMongo {
		t.Fatalf("unexpected driver %q", cfg.StoreDriver)
	}
	if cfg.Auth.JWTSecret != "s3cret" || cfg.Auth.BcryptCost != 10 {
		t.Fatalf("unexpected auth config: %+v", cfg.Auth)
	}
	b := cfg.Bootstrap
	if b.AdminUsername != "haulmatic" || b.AdminPassword != "123456" || b.ResetSchema {
		t.Fatalf("unexpected bootstrap config: %+v", b)
	}
	if b.LockTTL != 30*time.Second {
		t.Fatalf("unexpected lock ttl %s", b.LockTTL)
	}
	if cfg.Redis.Addr != "" {
		t.Fatalf("redis should be disabled by default, got %q", cfg.Redis.Addr)
	}
}

func TestLoad_RequiresJWTSecret(t *testing.T) {
	if _, err := load(context.Background(), envconfig.MapLookuper(map[string]string{})); err == nil {
		t.Fatalf("expected error without JWT_SECRET")
	}
}

func TestLoad_Overrides(t *testing.T) {
	cfg, err := load(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET":             "k",
		"STORE_DRIVER":           "postgres",
		"BOOTSTRAP_RESET_SCHEMA": "true",
		"REDIS_ADDR":             "redis:6379",
		"PORT":                   "8080",
	}))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.StoreDriver != DriverPostgres || !cfg.Bootstrap.ResetSchema || cfg.Redis.Addr != "redis:6379" || cfg.Port != "8080" {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
}

func TestLoad_UnknownDriver(t *testing.T) {
	_, err := load(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET":   "k",
		"STORE_DRIVER": "sqlite",
	}))
	if err == nil {
		t.Fatalf("expected error for unknown driver")
	}
}
