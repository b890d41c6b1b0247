package mcp

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "mcp.json"), []byte(contents), 0o644); err != nil {
		t.Fatal(err)
	}
	return dir
}

func TestLoadConfig(t *testing.T) {
	dir := writeConfig(t, `{
		"servers": {
			"filesystem": {
				"command": "npx",
				"args": ["-y", "@modelcontextprotocol/server-filesystem", "/tmp"],
				"env": {"DEBUG": "1"}
			},
			"fetch": {"command": "uvx", "args": ["mcp-server-fetch"]}
		}
	}`)

	cfg, err := LoadConfig(dir)
	if err != nil {
		t.Fatalf("LoadConfig error = %v", err)
	}
	if got := cfg.ServerNames(); !reflect.DeepEqual(got, []string{"fetch", "filesystem"}) {
		t.Errorf("ServerNames() = %v", got)
	}
	fs := cfg.Servers["filesystem"]
	if fs.Command != "npx" || len(fs.Args) != 3 || fs.Env["DEBUG"] != "1" {
		t.Errorf("filesystem server = %#v", fs)
	}
}

func TestLoadConfig_MissingFileIsEmpty(t *testing.T) {
	cfg, err := LoadConfig(t.TempDir())
	if err != nil {
		t.Fatalf("LoadConfig error = %v", err)
	}
	if len(cfg.Servers) != 0 {
		t.Errorf("expected no servers, got %v", cfg.ServerNames())
	}
}

func TestLoadConfig_RejectsServerWithoutCommand(t *testing.T) {
	dir := writeConfig(t, `{"servers": {"broken": {"args": ["x"]}}}`)
	if _, err := LoadConfig(dir); err == nil {
		t.Fatal("expected a validation error")
	}
}

func TestLoadConfig_RejectsMalformedJSON(t *testing.T) {
	dir := writeConfig(t, `{"servers":`)
	if _, err := LoadConfig(dir); err == nil {
		t.Fatal("expected a parse error")
	}
}
