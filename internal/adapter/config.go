package adapter

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// SourceType identifies where the catalog documents come from
type SourceType string

const (
	SourceTypeGitHub SourceType = "github"
	SourceTypeDir    SourceType = "dir"
	SourceTypeDemo   SourceType = "demo"
)

// Config holds all application configuration
type Config struct {
	Source  SourceConfig  `mapstructure:"source"`
	Storage StorageConfig `mapstructure:"storage"`
	Player  PlayerConfig  `mapstructure:"player"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// SourceConfig holds catalog source configuration
type SourceConfig struct {
	Type     SourceType    `mapstructure:"type"`      // "github", "dir" or "demo"
	Owner    string        `mapstructure:"owner"`     // GitHub owner
	Repo     string        `mapstructure:"repo"`      // GitHub repository
	Ref      string        `mapstructure:"ref"`       // branch, tag or commit; empty for default branch
	Token    string        `mapstructure:"token"`     // GitHub token
	Path     string        `mapstructure:"path"`      // directory holding the documents inside the repo
	Dir      string        `mapstructure:"dir"`       // local directory, for type "dir"
	CacheTTL time.Duration `mapstructure:"cache_ttl"` // per-document freshness window
	APIURL   string        `mapstructure:"api_url"`   // GitHub API base, for Enterprise
}

// StorageConfig holds annotation database configuration
type StorageConfig struct {
	Path string `mapstructure:"path"` // bbolt file; empty keeps everything in memory
}

// PlayerConfig holds the audio player used to open linked files
type PlayerConfig struct {
	Command string   `mapstructure:"command"`
	Args    []string `mapstructure:"args"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Source: SourceConfig{
			Type:     "",
			Path:     "data",
			CacheTTL: 5 * time.Minute,
			APIURL:   "https://api.github.com",
		},
		Storage: StorageConfig{
			Path: filepath.Join(defaultDataPath(), "koepalette.db"),
		},
		Player: PlayerConfig{
			Args: []string{},
		},
		Logging: LoggingConfig{
			File:  filepath.Join(defaultDataPath(), "koepalette.log"),
			Level: "INFO",
		},
	}
}

// defaultDataPath returns the per-user data directory for the current OS
func defaultDataPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "koepalette")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "koepalette")
	}
}

// defaultConfigPath returns the default config directory for the current OS
func defaultConfigPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "koepalette")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "koepalette")
	}
}

// ConfigFile returns the path SaveConfig writes to
func ConfigFile() string {
	return filepath.Join(defaultConfigPath(), "config.yaml")
}

// LoadConfig loads configuration from file and environment
func LoadConfig() (*Config, error) {
	return loadConfig(viper.GetViper(), defaultConfigPath())
}

// LoadConfigFile loads configuration from an explicit file. A missing file
// is an error, unlike LoadConfig.
func LoadConfigFile(path string) (*Config, error) {
	path = expandHome(path)
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}
	v := viper.New()
	v.SetConfigFile(path)
	return loadConfig(v)
}

func loadConfig(v *viper.Viper, configDirs ...string) (*Config, error) {
	cfg := DefaultConfig()

	// An explicit file set with SetConfigFile takes precedence over the search
	if v.ConfigFileUsed() == "" {
		v.SetConfigName("config")
		for _, dir := range configDirs {
			v.AddConfigPath(dir)
		}
		v.AddConfigPath(".")
	}
	v.SetConfigType("yaml")

	// Environment variable overrides, e.g. KOEPALETTE_SOURCE_TOKEN
	v.SetEnvPrefix("KOEPALETTE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindEnvKeys(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, use defaults
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	cfg.Storage.Path = expandHome(cfg.Storage.Path)
	cfg.Logging.File = expandHome(cfg.Logging.File)
	cfg.Source.Dir = expandHome(cfg.Source.Dir)

	return cfg, nil
}

// bindEnvKeys registers every key so AutomaticEnv sees values that have no
// default and no config file entry
func bindEnvKeys(v *viper.Viper) {
	for _, key := range configKeys {
		_ = v.BindEnv(key)
	}
}

var configKeys = []string{
	"source.type", "source.owner", "source.repo", "source.ref", "source.token",
	"source.path", "source.dir", "source.cache_ttl", "source.api_url",
	"storage.path",
	"player.command", "player.args",
	"logging.file", "logging.level",
}

// SaveConfig saves the current configuration to file
func SaveConfig(cfg *Config) error {
	return saveConfig(viper.GetViper(), cfg, ConfigFile())
}

// SaveConfigFile saves the configuration to an explicit file
func SaveConfigFile(cfg *Config, path string) error {
	return saveConfig(viper.New(), cfg, expandHome(path))
}

func saveConfig(v *viper.Viper, cfg *Config, configFile string) error {
	if err := os.MkdirAll(filepath.Dir(configFile), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Set fields individually to ensure correct key names (snake_case)
	v.Set("source.type", string(cfg.Source.Type))
	v.Set("source.owner", cfg.Source.Owner)
	v.Set("source.repo", cfg.Source.Repo)
	v.Set("source.ref", cfg.Source.Ref)
	v.Set("source.token", cfg.Source.Token)
	v.Set("source.path", cfg.Source.Path)
	v.Set("source.dir", cfg.Source.Dir)
	v.Set("source.cache_ttl", cfg.Source.CacheTTL.String())
	v.Set("source.api_url", cfg.Source.APIURL)

	v.Set("storage.path", cfg.Storage.Path)

	v.Set("player.command", cfg.Player.Command)
	v.Set("player.args", cfg.Player.Args)

	v.Set("logging.file", cfg.Logging.File)
	v.Set("logging.level", cfg.Logging.Level)

	if err := v.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// ResolvedSourceType returns the effective source type. An unset type means
// GitHub when a repository is configured and the demo catalog otherwise.
func (c *Config) ResolvedSourceType() SourceType {
	if c.Source.Type != "" {
		return c.Source.Type
	}
	if c.Source.Owner != "" && c.Source.Repo != "" {
		return SourceTypeGitHub
	}
	if c.Source.Dir != "" {
		return SourceTypeDir
	}
	return SourceTypeDemo
}

// IsConfigured returns true if a real catalog source is set
func (c *Config) IsConfigured() bool {
	return c.ResolvedSourceType() != SourceTypeDemo
}

// Validate checks that the chosen source has what it needs
func (c *Config) Validate() error {
	switch c.ResolvedSourceType() {
	case SourceTypeGitHub:
		if c.Source.Owner == "" || c.Source.Repo == "" {
			return fmt.Errorf("source.owner and source.repo are required for the github source")
		}
	case SourceTypeDir:
		if c.Source.Dir == "" {
			return fmt.Errorf("source.dir is required for the dir source")
		}
	case SourceTypeDemo:
	default:
		return fmt.Errorf("unknown source type: %s", c.Source.Type)
	}
	if c.Source.CacheTTL < 0 {
		return fmt.Errorf("source.cache_ttl must not be negative")
	}
	return nil
}

// expandHome replaces a leading ~ with the user's home directory
func expandHome(path string) string {
	if !strings.HasPrefix(path, "~") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[1:])
}
