package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Backends accepted by sheets.backend.
const (
	BackendGoogle = "google"
	BackendLocal  = "local"
	BackendMemory = "memory"
)

// Config holds application configuration.
type Config struct {
	Sheets   SheetsConfig
	Database DatabaseConfig
	Log      LogConfig
	UI       UIConfig
	Forms    FormsConfig
}

// SheetsConfig selects the spreadsheet backend.
type SheetsConfig struct {
	Backend         string
	SpreadsheetID   string `mapstructure:"spreadsheet_id"`
	APIKeyEnv       string `mapstructure:"api_key_env"`
	APIKey          string `mapstructure:"api_key"`
	CredentialsFile string `mapstructure:"credentials_file"`
}

// DatabaseConfig holds sqlite settings for the local backend.
type DatabaseConfig struct {
	Path string
}

// LogConfig holds log file settings.
type LogConfig struct {
	Path  string
	Level string
}

// UIConfig holds presentation settings.
type UIConfig struct {
	DateFormat string `mapstructure:"date_format"`
}

// FormsConfig holds entry form behaviour.
type FormsConfig struct {
	PersistNewOptions bool `mapstructure:"persist_new_options"`
}

func dataDir() string {
	return filepath.Join(os.Getenv("HOME"), ".local", "share", "sheetdesk")
}

// Path returns the config file location.
func Path() string {
	if p := os.Getenv("SHEETDESK_CONFIG"); p != "" {
		return p
	}
	return filepath.Join(os.Getenv("HOME"), ".config", "sheetdesk", "config.toml")
}

// Load reads configuration from file and env. Env var overrides use prefix
// SHEETDESK_. The result is not validated.
func Load() (Config, error) {
	v := viper.New()

	v.SetDefault("sheets.backend", BackendLocal)
	v.SetDefault("sheets.spreadsheet_id", "")
	v.SetDefault("sheets.api_key_env", "SHEETS_API_KEY")
	v.SetDefault("sheets.api_key", "")
	v.SetDefault("sheets.credentials_file", "")
	v.SetDefault("database.path", filepath.Join(dataDir(), "sheetdesk.db"))
	v.SetDefault("log.path", filepath.Join(dataDir(), "sheetdesk.log"))
	v.SetDefault("log.level", "info")
	v.SetDefault("ui.date_format", "2006-01-02")
	v.SetDefault("forms.persist_new_options", true)

	v.SetConfigType("toml")
	v.SetConfigFile(Path())

	v.SetEnvPrefix("SHEETDESK")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// read config file if present
	if _, err := os.Stat(Path()); err == nil {
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	c.Sheets.Backend = strings.ToLower(strings.TrimSpace(c.Sheets.Backend))
	return c, nil
}

// Validate checks values that would otherwise fail later at startup. Callers
// run it once command line overrides are applied.
func (c Config) Validate() error {
	switch c.Sheets.Backend {
	case BackendGoogle:
		if c.Sheets.SpreadsheetID == "" {
			return fmt.Errorf("config: sheets.spreadsheet_id required for the google backend")
		}
	case BackendLocal, BackendMemory:
	default:
		return fmt.Errorf("config: unknown sheets.backend %q", c.Sheets.Backend)
	}
	return nil
}

// Save writes the provided config to disk, creating the config directory if needed.
// The API key is never written; it belongs in the environment or the key file.
func Save(cfg Config) error {
	path := Path()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.Set("sheets.backend", cfg.Sheets.Backend)
	v.Set("sheets.spreadsheet_id", cfg.Sheets.SpreadsheetID)
	v.Set("sheets.api_key_env", cfg.Sheets.APIKeyEnv)
	v.Set("sheets.credentials_file", cfg.Sheets.CredentialsFile)
	v.Set("database.path", cfg.Database.Path)
	v.Set("log.path", cfg.Log.Path)
	v.Set("log.level", cfg.Log.Level)
	v.Set("ui.date_format", cfg.UI.DateFormat)
	v.Set("forms.persist_new_options", cfg.Forms.PersistNewOptions)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
