package config

import "testing"

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Port != 8080 {
		t.Errorf("Port = %d, want 8080", cfg.Port)
	}
	if cfg.Bind != "0.0.0.0" {
		t.Errorf("Bind = %q, want 0.0.0.0", cfg.Bind)
	}
	if cfg.DefaultLocale != "sv" {
		t.Errorf("DefaultLocale = %q, want sv", cfg.DefaultLocale)
	}
	if cfg.DatabaseURL != "" {
		t.Errorf("DatabaseURL = %q, want empty", cfg.DatabaseURL)
	}
	if cfg.Verbose {
		t.Error("Verbose should default to off")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestValidate_PortRange(t *testing.T) {
	cfg := Default()
	cfg.Port = 0
	if err := cfg.Validate(); err == nil {
		t.Error("port 0 should be rejected")
	}
	cfg.Port = 70000
	if err := cfg.Validate(); err == nil {
		t.Error("port 70000 should be rejected")
	}
}

func TestValidate_RequiredURLs(t *testing.T) {
	cfg := Default()
	cfg.BackendURL = ""
	if err := cfg.Validate(); err == nil {
		t.Error("missing backend URL should be rejected")
	}

	cfg = Default()
	cfg.HubURL = ""
	if err := cfg.Validate(); err == nil {
		t.Error("missing hub URL should be rejected")
	}
}
