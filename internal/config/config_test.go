package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.AppName != "tasks-backend" {
		t.Errorf("AppName = %q, want tasks-backend", cfg.AppName)
	}
	if cfg.HTTP.Port != "8080" {
		t.Errorf("HTTP.Port = %q, want 8080", cfg.HTTP.Port)
	}
	if cfg.Scheduler.MaterializeDays != 30 {
		t.Errorf("MaterializeDays = %d, want 30", cfg.Scheduler.MaterializeDays)
	}
	if cfg.Scheduler.DueSoonNotice != 24*time.Hour {
		t.Errorf("DueSoonNotice = %v, want 24h", cfg.Scheduler.DueSoonNotice)
	}
	if cfg.Database.URL == "" {
		t.Error("Database.URL should be derived from parts when unset")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("SCHEDULER_MATERIALIZE_DAYS", "14")
	t.Setenv("SCHEDULER_DUE_SOON_NOTICE", "12h")
	t.Setenv("SCHEDULER_ENABLED", "false")
	t.Setenv("DATABASE_URL", "postgres://u:p@db:5432/app?sslmode=disable")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.HTTP.Port != "9090" {
		t.Errorf("HTTP.Port = %q, want 9090", cfg.HTTP.Port)
	}
	if cfg.Scheduler.MaterializeDays != 14 {
		t.Errorf("MaterializeDays = %d, want 14", cfg.Scheduler.MaterializeDays)
	}
	if cfg.Scheduler.DueSoonNotice != 12*time.Hour {
		t.Errorf("DueSoonNotice = %v, want 12h", cfg.Scheduler.DueSoonNotice)
	}
	if cfg.Scheduler.Enabled {
		t.Error("Scheduler.Enabled = true, want false")
	}
	if cfg.Database.URL != "postgres://u:p@db:5432/app?sslmode=disable" {
		t.Errorf("Database.URL = %q, want explicit value", cfg.Database.URL)
	}
}

func TestDurationFromSeconds(t *testing.T) {
	t.Setenv("SYNC_INTERVAL_SECONDS", "45")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Buffer.SyncInterval != 45*time.Second {
		t.Errorf("SyncInterval = %v, want 45s", cfg.Buffer.SyncInterval)
	}
}

func TestAddress(t *testing.T) {
	t.Setenv("SERVER_HOST", "127.0.0.1")
	t.Setenv("SERVER_PORT", "3000")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := cfg.Address(); got != "127.0.0.1:3000" {
		t.Errorf("Address() = %q, want 127.0.0.1:3000", got)
	}
}
