package test

import (
	"testing"
	"time"

	"github.com/barrymichaeldoyle/rightfront/internal/platform/config"
)

func TestConfigLoad_UsesDefaults(t *testing.T) {
	t.Setenv("ADDR", "")
	t.Setenv("SITE_URL", "")
	t.Setenv("DEFAULT_COUNTRY", "")
	t.Setenv("DEFAULT_LANGUAGE", "")
	t.Setenv("PROBE_TIMEOUT", "")
	t.Setenv("AVAILABILITY_TTL", "")

	cfg := config.Load()

	if cfg.Addr != ":9999" {
		t.Fatalf("Addr: got %q, want %q", cfg.Addr, ":9999")
	}
	if cfg.SiteURL != "http://localhost:9999" {
		t.Fatalf("SiteURL: got %q, want %q", cfg.SiteURL, "http://localhost:9999")
	}
	if cfg.DefaultCountry != "us" {
		t.Fatalf("DefaultCountry: got %q, want %q", cfg.DefaultCountry, "us")
	}
	if cfg.DefaultLanguage != "en" {
		t.Fatalf("DefaultLanguage: got %q, want %q", cfg.DefaultLanguage, "en")
	}
	if cfg.ProbeTimeout != 5*time.Second {
		t.Fatalf("ProbeTimeout: got %v, want %v", cfg.ProbeTimeout, 5*time.Second)
	}
	if cfg.AvailabilityTTL != 24*time.Hour {
		t.Fatalf("AvailabilityTTL: got %v, want %v", cfg.AvailabilityTTL, 24*time.Hour)
	}
	if cfg.ITunesAPIURL != "https://itunes.apple.com" {
		t.Fatalf("ITunesAPIURL: got %q", cfg.ITunesAPIURL)
	}
	if cfg.PlayStoreURL != "https://play.google.com" {
		t.Fatalf("PlayStoreURL: got %q", cfg.PlayStoreURL)
	}
}

func TestConfigLoad_ReadsEnv(t *testing.T) {
	t.Setenv("ADDR", ":18080")
	t.Setenv("SITE_URL", "https://getmyapp.example/")
	t.Setenv("DEFAULT_COUNTRY", "de")
	t.Setenv("PROBE_TIMEOUT", "2s")
	t.Setenv("AVAILABILITY_TTL", "1h")

	cfg := config.Load()

	if cfg.Addr != ":18080" {
		t.Fatalf("Addr: got %q, want %q", cfg.Addr, ":18080")
	}
	// 尾部斜杠要被剥掉，否则拼 fallback URL 会出现双斜杠
	if cfg.SiteURL != "https://getmyapp.example" {
		t.Fatalf("SiteURL: got %q, want %q", cfg.SiteURL, "https://getmyapp.example")
	}
	if cfg.DefaultCountry != "de" {
		t.Fatalf("DefaultCountry: got %q, want %q", cfg.DefaultCountry, "de")
	}
	if cfg.ProbeTimeout != 2*time.Second {
		t.Fatalf("ProbeTimeout: got %v, want %v", cfg.ProbeTimeout, 2*time.Second)
	}
	if cfg.AvailabilityTTL != time.Hour {
		t.Fatalf("AvailabilityTTL: got %v, want %v", cfg.AvailabilityTTL, time.Hour)
	}
}
