package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

type Config struct {
	// Watts. 0 writes percent of FTP.
	FTP float64 `toml:"ftp"`
	// Empty writes next to the source file.
	OutputDir string `toml:"output_dir"`
	Extension string `toml:"extension"`
	// "seconds" or "minutes".
	TimeUnit   string `toml:"time_unit"`
	CourseText bool   `toml:"course_text"`
	Workers    int    `toml:"workers"`
	// Record conversions in the database.
	History bool      `toml:"history"`
	DB      DBConfig  `toml:"database"`
	Log     LogConfig `toml:"log"`
}

type DBConfig struct {
	ConnectionString string `toml:"connection_string"` // The entire DB connection string.
}

type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "text" or "json".
	File   string `toml:"file"`   // Empty logs to stderr.
}

func Default() *Config {
	return &Config{
		Extension:  ".erg",
		TimeUnit:   "seconds",
		CourseText: false,
		Workers:    4,
		History:    true,
		DB:         DBConfig{ConnectionString: defaultDBPath()},
		Log:        LogConfig{Level: "info", Format: "text"},
	}
}

// Returns the path to the config file.
func GetConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	dir := filepath.Join(home, ".config", "zwo2erg")
	return filepath.Join(dir, "config.toml"), nil
}

// LoadConfig reads the config file at path (the default location when empty),
// then applies .env and environment overrides. A missing file is not an error.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		p, err := GetConfigPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	cfg := Default()
	if _, err := toml.DecodeFile(path, cfg); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("Failed to read config %s: %w", path, err)
	}

	// A .env in the working directory is optional.
	_ = godotenv.Load()
	if err := applyEnv(cfg); err != nil {
		return nil, err
	}

	// Check for a DEV_MODE environment variable.
	if os.Getenv("DEV_MODE") == "true" {
		cfg.DB.ConnectionString = "file:./local.db"
	}

	return cfg, cfg.Validate()
}

func applyEnv(cfg *Config) error {
	if v := os.Getenv("ZWO2ERG_FTP"); v != "" {
		ftp, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid ZWO2ERG_FTP %q: %w", v, err)
		}
		cfg.FTP = ftp
	}
	if v := os.Getenv("ZWO2ERG_DATABASE_URL"); v != "" {
		cfg.DB.ConnectionString = v
	}
	if v := os.Getenv("ZWO2ERG_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	return nil
}

func (c *Config) Validate() error {
	if c.FTP < 0 {
		return fmt.Errorf("ftp must not be negative, got %v", c.FTP)
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	}
	switch c.TimeUnit {
	case "", "seconds", "minutes":
	default:
		return fmt.Errorf("time_unit must be seconds or minutes, got %q", c.TimeUnit)
	}
	return nil
}

// Save writes cfg to path, creating the directory if needed.
func Save(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(cfg)
}

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "file:./zwo2erg.db"
	}
	return "file:" + filepath.Join(home, ".config", "zwo2erg", "history.db")
}
