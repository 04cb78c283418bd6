package config

import "testing"

// TestLoadDefaults verifies development defaults apply when no env vars are set.
func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Env != "development" {
		t.Errorf("Env = %q, want development", cfg.Env)
	}
	if cfg.Addr != ":8080" {
		t.Errorf("Addr = %q, want :8080", cfg.Addr)
	}
	if cfg.IsProduction() {
		t.Error("IsProduction() = true for development env")
	}
}

// TestLoadOverrides verifies env vars override defaults.
func TestLoadOverrides(t *testing.T) {
	t.Setenv("IRONHALL_ENV", "production")
	t.Setenv("IRONHALL_ADDR", ":9000")
	t.Setenv("IRONHALL_CONTACT_INBOX", "hello@example.com")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !cfg.IsProduction() {
		t.Error("IsProduction() = false, want true")
	}
	if cfg.Addr != ":9000" {
		t.Errorf("Addr = %q, want :9000", cfg.Addr)
	}
	if cfg.ContactInbox != "hello@example.com" {
		t.Errorf("ContactInbox = %q", cfg.ContactInbox)
	}
}
