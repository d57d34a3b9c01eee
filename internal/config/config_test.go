package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.App.Port != 8080 {
		t.Fatalf("expected default port 8080, got %d", cfg.App.Port)
	}
	if cfg.Address() != ":8080" {
		t.Fatalf("unexpected address %q", cfg.Address())
	}
	if cfg.Business.DefaultSalesSource != "WhatsApp" {
		t.Fatalf("unexpected default sales source %q", cfg.Business.DefaultSalesSource)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DEFAULT_SALES_SOURCE", "Instagram")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.App.Port != 9090 {
		t.Fatalf("expected port override, got %d", cfg.App.Port)
	}
	if cfg.Business.DefaultSalesSource != "Instagram" {
		t.Fatalf("expected source override, got %q", cfg.Business.DefaultSalesSource)
	}
}
