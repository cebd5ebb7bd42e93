package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("GROBID_URL", "")
	t.Setenv("OLLAMA_QUICK_MODEL", "")
	t.Setenv("QUICK_WINDOW_WORDS", "")
	t.Setenv("GROBID_REQUESTS_PER_SEC", "")

	cfg := Load()
	if cfg.GrobidURL != "http://localhost:8070" {
		t.Fatalf("grobid url default = %q", cfg.GrobidURL)
	}
	if cfg.OllamaQuickModel != "qwen2.5:3b-instruct" {
		t.Fatalf("quick model default = %q", cfg.OllamaQuickModel)
	}
	if cfg.QuickWindowWords != 512 || cfg.DeepWindowWords != 2048 {
		t.Fatalf("window defaults = %d/%d", cfg.QuickWindowWords, cfg.DeepWindowWords)
	}
	if cfg.GrobidRequestsPerSec != 2.0 {
		t.Fatalf("grobid rate default = %v", cfg.GrobidRequestsPerSec)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults must validate: %v", err)
	}
}

func TestLoadParsesOverrides(t *testing.T) {
	t.Setenv("OLLAMA_DEEP_MODEL", "mistral:7b-instruct")
	t.Setenv("DEEP_SUMMARY_MAX_WORDS", "300")
	t.Setenv("GROBID_REQUESTS_PER_SEC", "0.5")
	t.Setenv("PROCESS_TIMEOUT_SECONDS", "120")

	cfg := Load()
	if cfg.OllamaDeepModel != "mistral:7b-instruct" {
		t.Fatalf("deep model override = %q", cfg.OllamaDeepModel)
	}
	if cfg.DeepSummaryMaxWords != 300 {
		t.Fatalf("deep max words = %d", cfg.DeepSummaryMaxWords)
	}
	if cfg.GrobidRequestsPerSec != 0.5 {
		t.Fatalf("grobid rate = %v", cfg.GrobidRequestsPerSec)
	}
	if cfg.ProcessTimeoutSeconds != 120 {
		t.Fatalf("process timeout = %d", cfg.ProcessTimeoutSeconds)
	}
}

func TestApplyFileOverlaysOnlyPresentKeys(t *testing.T) {
	t.Setenv("OLLAMA_URL", "http://env-host:11434")
	t.Setenv("QUICK_SUMMARY_MAX_WORDS", "90")

	path := filepath.Join(t.TempDir(), "papersum.yaml")
	body := "ollama_quick_model: gemma2:2b-instruct\nquick_window_words: 256\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config file: %v", err)
	}

	cfg := Load()
	if err := cfg.ApplyFile(path); err != nil {
		t.Fatalf("ApplyFile() error = %v", err)
	}

	if cfg.OllamaQuickModel != "gemma2:2b-instruct" {
		t.Fatalf("file key must override: %q", cfg.OllamaQuickModel)
	}
	if cfg.QuickWindowWords != 256 {
		t.Fatalf("file key must override: %d", cfg.QuickWindowWords)
	}
	if cfg.OllamaURL != "http://env-host:11434" {
		t.Fatalf("absent file key must keep env value: %q", cfg.OllamaURL)
	}
	if cfg.QuickSummaryMaxWords != 90 {
		t.Fatalf("absent file key must keep env value: %d", cfg.QuickSummaryMaxWords)
	}
}

func TestValidateRejectsBadBounds(t *testing.T) {
	cfg := Load()
	cfg.QuickSummaryMinWords = 200
	cfg.QuickSummaryMaxWords = 100
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected validation error for inverted quick bounds")
	}

	cfg = Load()
	cfg.GrobidRequestsPerSec = 0
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected validation error for zero rate")
	}
}
