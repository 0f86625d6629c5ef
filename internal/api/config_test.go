package api

import (
	"os"
	"path/filepath"
	"testing"
)

func TestResolveBaseURL_Explicit(t *testing.T) {
	t.Setenv("MEDINV_API_URL", "http://env.example")

	if got := ResolveBaseURL("http://explicit.example/"); got != "http://explicit.example" {
		t.Errorf("expected explicit value with slash stripped, got %q", got)
	}
}

func TestResolveBaseURL_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "medinv.yaml")
	if err := os.WriteFile(path, []byte("api_url: http://file.example/\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	t.Setenv("MEDINV_CONFIG", path)
	t.Setenv("MEDINV_API_URL", "http://env.example")

	if got := ResolveBaseURL(""); got != "http://file.example" {
		t.Errorf("expected config file to win over env, got %q", got)
	}
}

func TestResolveBaseURL_EnvPrecedence(t *testing.T) {
	t.Setenv("MEDINV_CONFIG", filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv("MEDINV_API_URL", "http://primary.example")
	t.Setenv("API_URL", "http://secondary.example")

	if got := ResolveBaseURL(""); got != "http://primary.example" {
		t.Errorf("expected MEDINV_API_URL to win, got %q", got)
	}
}

func TestResolveBaseURL_FallbackEnv(t *testing.T) {
	t.Setenv("MEDINV_CONFIG", filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv("MEDINV_API_URL", "")
	t.Setenv("API_URL", "http://secondary.example/")

	if got := ResolveBaseURL(""); got != "http://secondary.example" {
		t.Errorf("expected API_URL fallback, got %q", got)
	}
}

func TestResolveBaseURL_Default(t *testing.T) {
	t.Setenv("MEDINV_CONFIG", filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv("MEDINV_API_URL", "")
	t.Setenv("API_URL", "")

	if got := ResolveBaseURL(""); got != DefaultBaseURL {
		t.Errorf("expected default %q, got %q", DefaultBaseURL, got)
	}
}
