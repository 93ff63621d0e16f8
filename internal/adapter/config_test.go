package adapter

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := loadConfig(viper.New(), t.TempDir())
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Source.CacheTTL != 5*time.Minute {
		t.Fatalf("expected 5m cache ttl, got %v", cfg.Source.CacheTTL)
	}
	if cfg.Source.Path != "data" {
		t.Fatalf("expected data path, got %q", cfg.Source.Path)
	}
	if got := cfg.ResolvedSourceType(); got != SourceTypeDemo {
		t.Fatalf("expected demo source when nothing is configured, got %s", got)
	}
	if cfg.IsConfigured() {
		t.Fatal("expected unconfigured")
	}
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	yaml := `source:
  owner: nijivoice
  repo: catalog
  ref: main
  cache_ttl: 90s
storage:
  path: ~/voices.db
logging:
  level: debug
`
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := loadConfig(viper.New(), dir)
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Source.Owner != "nijivoice" || cfg.Source.Repo != "catalog" || cfg.Source.Ref != "main" {
		t.Fatalf("unexpected source config %+v", cfg.Source)
	}
	if cfg.Source.CacheTTL != 90*time.Second {
		t.Fatalf("expected 90s, got %v", cfg.Source.CacheTTL)
	}
	if cfg.ResolvedSourceType() != SourceTypeGitHub {
		t.Fatalf("expected github source, got %s", cfg.ResolvedSourceType())
	}
	home, _ := os.UserHomeDir()
	if want := filepath.Join(home, "voices.db"); cfg.Storage.Path != want {
		t.Fatalf("expected %q, got %q", want, cfg.Storage.Path)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("expected valid config, got %v", err)
	}
}

func TestLoadConfigEnvOverride(t *testing.T) {
	t.Setenv("KOEPALETTE_SOURCE_TYPE", "dir")
	t.Setenv("KOEPALETTE_SOURCE_DIR", "/srv/catalog")
	t.Setenv("KOEPALETTE_SOURCE_TOKEN", "secret")

	cfg, err := loadConfig(viper.New(), t.TempDir())
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.ResolvedSourceType() != SourceTypeDir || cfg.Source.Dir != "/srv/catalog" {
		t.Fatalf("expected dir source from env, got %+v", cfg.Source)
	}
	if cfg.Source.Token != "secret" {
		t.Fatalf("expected token from env, got %q", cfg.Source.Token)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		source  SourceConfig
		wantErr bool
	}{
		{"demo", SourceConfig{}, false},
		{"github missing repo", SourceConfig{Type: SourceTypeGitHub, Owner: "x"}, true},
		{"dir missing path", SourceConfig{Type: SourceTypeDir}, true},
		{"unknown type", SourceConfig{Type: "ftp"}, true},
		{"negative ttl", SourceConfig{Type: SourceTypeDemo, CacheTTL: -time.Second}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{Source: tt.source}
			if err := cfg.Validate(); (err != nil) != tt.wantErr {
				t.Fatalf("expected error=%v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestSaveConfigRoundTrip(t *testing.T) {
	dir := t.TempDir()
	cfg := DefaultConfig()
	cfg.Source.Type = SourceTypeGitHub
	cfg.Source.Owner = "nijivoice"
	cfg.Source.Repo = "catalog"
	cfg.Source.CacheTTL = 2 * time.Minute

	if err := saveConfig(viper.New(), cfg, filepath.Join(dir, "config.yaml")); err != nil {
		t.Fatalf("saveConfig: %v", err)
	}

	loaded, err := loadConfig(viper.New(), dir)
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if loaded.Source.Owner != "nijivoice" || loaded.Source.CacheTTL != 2*time.Minute {
		t.Fatalf("config did not round-trip: %+v", loaded.Source)
	}
}

func TestLoadConfigFileExplicitPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "custom.yaml")
	cfg := DefaultConfig()
	cfg.Source.Dir = "/srv/catalog"
	cfg.Player.Command = "mpv"
	if err := SaveConfigFile(cfg, path); err != nil {
		t.Fatalf("SaveConfigFile: %v", err)
	}

	loaded, err := LoadConfigFile(path)
	if err != nil {
		t.Fatalf("LoadConfigFile: %v", err)
	}
	if loaded.ResolvedSourceType() != SourceTypeDir || loaded.Player.Command != "mpv" {
		t.Fatalf("unexpected config: %+v", loaded)
	}

	if _, err := LoadConfigFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected error for a missing explicit config file")
	}
}
