package config

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestExpandEnv(t *testing.T) {
	t.Setenv("GROQCHAT_TEST_KEY", "gsk_from_env")

	cases := []struct{ in, want string }{
		{"${GROQCHAT_TEST_KEY}", "gsk_from_env"},
		{"$GROQCHAT_TEST_KEY", "gsk_from_env"},
		{"${GROQCHAT_TEST_UNSET}", ""},
		{"gsk_literal", "gsk_literal"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := expandEnv(tc.in); got != tc.want {
			t.Errorf("expandEnv(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestMaskedAPIKey(t *testing.T) {
	cases := []struct {
		key  string
		want string
	}{
		{"", "(not set)"},
		{"short", "*****"},
		{"gsk_abcdefgh1234", "gsk_********1234"},
	}
	for _, tc := range cases {
		cfg := &Config{APIKey: tc.key}
		if got := cfg.MaskedAPIKey(); got != tc.want {
			t.Errorf("MaskedAPIKey(%q) = %q, want %q", tc.key, got, tc.want)
		}
	}
}

func TestSettingsMapping(t *testing.T) {
	temp := 0.3
	cfg := &Config{
		APIKey:             "gsk_x",
		Model:              "llama-3.1-8b-instant",
		CustomAPIBaseURL:   "http://localhost:8080",
		Temperature:        &temp,
		CustomSystemPrompt: "be brief",
	}
	cfg.BuiltinTools.BrowserSearch = true

	settings := cfg.Settings()
	if settings.APIKey != "gsk_x" || settings.Model != "llama-3.1-8b-instant" {
		t.Errorf("settings = %#v", settings)
	}
	if settings.Temperature == nil || *settings.Temperature != 0.3 {
		t.Errorf("temperature = %v", settings.Temperature)
	}
	if !settings.BuiltinTools.BrowserSearch {
		t.Error("builtin tool selection lost")
	}
}

func TestRegistryIncludesCustomModels(t *testing.T) {
	cfg := &Config{
		CustomModels: map[string]CustomModel{
			"my-model": {ContextWindow: 65536, SupportsVision: true, DisplayName: "Mine"},
		},
	}
	info := cfg.Registry().Resolve("my-model")
	if !info.IsCustom || info.ContextWindow != 65536 || !info.SupportsVision {
		t.Errorf("custom model = %#v", info)
	}
	if info.DisplayName != "Mine" {
		t.Errorf("display name = %q", info.DisplayName)
	}
}

func TestGetConfigDirHonorsXDG(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/xdg-test")
	dir, err := GetConfigDir()
	if err != nil {
		t.Fatalf("GetConfigDir error = %v", err)
	}
	if dir != filepath.Join("/tmp/xdg-test", "groqchat") {
		t.Errorf("config dir = %q", dir)
	}
}

func TestGetDiagnosticsDirHonorsXDG(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "/tmp/xdg-data")
	dir := GetDiagnosticsDir()
	if !strings.HasSuffix(dir, filepath.Join("groqchat", "diagnostics")) {
		t.Errorf("diagnostics dir = %q", dir)
	}
	if !strings.HasPrefix(dir, "/tmp/xdg-data") {
		t.Errorf("diagnostics dir = %q, want under XDG_DATA_HOME", dir)
	}
}
