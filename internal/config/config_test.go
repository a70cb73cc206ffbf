package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	stateDir := filepath.Join(dir, ".socialmcp")
	if err := os.MkdirAll(stateDir, 0700); err != nil {
		t.Fatalf("Failed to create state dir: %v", err)
	}
	path := filepath.Join(stateDir, ConfigFile)
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	return dir
}

func TestLoad_MissingFileIsEmpty(t *testing.T) {
	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if len(cfg.Credentials) != 0 {
		t.Errorf("Expected empty credentials, got %v", cfg.Credentials)
	}
}

func TestLoad_ReadsCredentials(t *testing.T) {
	root := writeConfigFile(t, "credentials:\n  LINKEDIN_ACCESS_TOKEN: file-token\n")

	cfg, err := Load(root)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got := cfg.Credentials["LINKEDIN_ACCESS_TOKEN"]; got != "file-token" {
		t.Errorf("Credential = %q, want file-token", got)
	}
}

func TestLoad_MalformedYAML(t *testing.T) {
	root := writeConfigFile(t, "credentials: [unclosed")

	if _, err := Load(root); err == nil {
		t.Error("Expected error for malformed YAML")
	}
}

func TestLoad_EnvOverridesPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.yaml")
	if err := os.WriteFile(path, []byte("credentials:\n  FACEBOOK_PAGE_ID: p1\n"), 0600); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	t.Setenv(ConfigEnv, path)

	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if got := cfg.Credentials["FACEBOOK_PAGE_ID"]; got != "p1" {
		t.Errorf("Credential = %q, want p1", got)
	}
}

func TestLookup_EnvWinsOverFile(t *testing.T) {
	cfg := Config{Credentials: map[string]string{"TWITTER_API_KEY": "from-file"}}
	t.Setenv("TWITTER_API_KEY", "from-env")

	if got := cfg.Lookup()("TWITTER_API_KEY"); got != "from-env" {
		t.Errorf("Lookup = %q, want from-env", got)
	}
}

func TestLookup_FallsBackToFile(t *testing.T) {
	cfg := Config{Credentials: map[string]string{"TWITTER_API_KEY": "from-file"}}
	t.Setenv("TWITTER_API_KEY", "")

	if got := cfg.Lookup()("TWITTER_API_KEY"); got != "from-file" {
		t.Errorf("Lookup = %q, want from-file", got)
	}
}

func TestLookup_UnknownKeyEmpty(t *testing.T) {
	cfg := Config{Credentials: map[string]string{}}
	if got := cfg.Lookup()("NO_SUCH_KEY"); got != "" {
		t.Errorf("Lookup = %q, want empty", got)
	}
}
