package settings

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Givikap120/ppv2/app/rulesets/api"
)

func TestLoad_MissingFile(t *testing.T) {
	s, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("Load returned error for missing file: %v", err)
	}

	if s.Difficulty.URL != DefaultDifficultyURL {
		t.Errorf("Difficulty.URL = %q, want %q", s.Difficulty.URL, DefaultDifficultyURL)
	}

	if v, _ := s.FormulaVersion(); v != api.Revised {
		t.Errorf("FormulaVersion = %v, want revised", v)
	}
}

func TestLoad_YAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ppcalc.yaml")

	content := `logging:
  level: DEBUG
difficulty:
  timeout: 3s
  cache_driver: postgres
  cache_dsn: postgres://localhost/ppv2
performance:
  version: legacy
  workers: 0
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	s, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}

	if s.Logging.Level != "DEBUG" {
		t.Errorf("Logging.Level = %q, want DEBUG", s.Logging.Level)
	}

	// untouched keys keep their defaults
	if !s.Logging.ConsoleEnabled || s.Difficulty.URL != DefaultDifficultyURL {
		t.Errorf("expected defaults to survive, got %+v", s)
	}

	if s.Difficulty.Timeout != 3*time.Second || s.Difficulty.CacheDriver != "postgres" {
		t.Errorf("unexpected difficulty config %+v", s.Difficulty)
	}

	if v, _ := s.FormulaVersion(); v != api.Legacy {
		t.Errorf("FormulaVersion = %v, want legacy", v)
	}

	if s.Performance.Workers != 1 {
		t.Errorf("Workers = %d, want 1", s.Performance.Workers)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("OSU_CLIENT_ID", "12345")
	t.Setenv("PPV2_DIFFICULTY_URL", "http://localhost:9000")
	t.Setenv("LOG_LEVEL", "ERROR")

	s, err := Load("")
	if err != nil {
		t.Fatal(err)
	}

	if s.API.ClientID != "12345" || s.Difficulty.URL != "http://localhost:9000" || s.Logging.Level != "ERROR" {
		t.Errorf("env overrides not applied: %+v", s)
	}
}

func TestLoad_Invalid(t *testing.T) {
	dir := t.TempDir()

	broken := filepath.Join(dir, "broken.yaml")
	if err := os.WriteFile(broken, []byte("logging: [unclosed"), 0o600); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(broken); err == nil {
		t.Error("expected parse error")
	}

	t.Setenv("PPV2_VERSION", "v3")

	if _, err := Load(""); err == nil {
		t.Error("expected error for unknown formula version")
	}
}

func TestSave_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.yaml")

	s := Default()
	s.API.ClientID = "777"

	if err := s.Save(path); err != nil {
		t.Fatal(err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}

	if loaded.API.ClientID != "777" || loaded.API.Timeout != s.API.Timeout {
		t.Errorf("round trip mismatch: %+v", loaded.API)
	}
}
