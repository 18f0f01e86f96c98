package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Server.Address() != "0.0.0.0:8080" {
		t.Errorf("address = %q, want 0.0.0.0:8080", cfg.Server.Address())
	}
	if cfg.Scheduling.CancellationNotice != 24*time.Hour {
		t.Errorf("cancellation notice = %v, want 24h", cfg.Scheduling.CancellationNotice)
	}
	if cfg.Notification.RetentionDays != 30 {
		t.Errorf("retention days = %d, want 30", cfg.Notification.RetentionDays)
	}
	if cfg.Notification.SweepInterval != 24*time.Hour {
		t.Errorf("sweep interval = %v, want 24h", cfg.Notification.SweepInterval)
	}
	if cfg.JWT.AccessTokenTTL != 15*time.Minute {
		t.Errorf("access TTL = %v, want 15m", cfg.JWT.AccessTokenTTL)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("CANCELLATION_NOTICE", "48h")
	t.Setenv("NOTIFICATION_RETENTION_DAYS", "7")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.Scheduling.CancellationNotice != 48*time.Hour {
		t.Errorf("cancellation notice = %v, want 48h", cfg.Scheduling.CancellationNotice)
	}
	if cfg.Notification.RetentionDays != 7 {
		t.Errorf("retention days = %d, want 7", cfg.Notification.RetentionDays)
	}
	if len(cfg.CORS.AllowedOrigins) != 2 || cfg.CORS.AllowedOrigins[1] != "https://b.example" {
		t.Errorf("origins = %v, want trimmed pair", cfg.CORS.AllowedOrigins)
	}
}

func TestLoadRequiresJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := Load()
	if err == nil || !strings.Contains(err.Error(), "JWT_SECRET") {
		t.Fatalf("err = %v, want JWT_SECRET requirement", err)
	}
}

func TestLoadRejectsBadRetention(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("NOTIFICATION_RETENTION_DAYS", "0")

	_, err := Load()
	if err == nil || !strings.Contains(err.Error(), "NOTIFICATION_RETENTION_DAYS") {
		t.Fatalf("err = %v, want retention validation error", err)
	}
}

func TestDatabaseDSN(t *testing.T) {
	d := DatabaseConfig{
		Host: "db", Port: 5433, Name: "clinic", User: "svc", Password: "pw", SSLMode: "require",
	}
	dsn := d.DSN()
	for _, part := range []string{"host=db", "port=5433", "dbname=clinic", "user=svc", "sslmode=require"} {
		if !strings.Contains(dsn, part) {
			t.Errorf("DSN missing %q: %s", part, dsn)
		}
	}
}
