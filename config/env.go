package config

import (
	"fmt"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

const (
	appName         = "musicvault"
	musicDirName    = "music"
	catalogFileName = "music_db.json"
)

// Config holds the runtime settings of the music library backend
type Config struct {
	DataDir     string   `env:"MUSICVAULT_DATA_DIR"`
	Host        string   `env:"MUSICVAULT_HOST" env-default:"127.0.0.1"`
	Port        int      `env:"MUSICVAULT_PORT" env-default:"8080"`
	CORSOrigins []string `env:"CORS_ORIGINS" env-default:"http://localhost:1420,http://localhost:5173,tauri://localhost"`
	LogLevel    string   `env:"LOG_LEVEL" env-default:"info"`
	LogFile     string   `env:"LOG_FILE"`
	FFprobe     bool     `env:"MUSICVAULT_FFPROBE" env-default:"true"`
	GinMode     string   `env:"GIN_MODE" env-default:"release"`
}

// Load reads an optional .env file and then the process environment.
// Variables already present in the environment win over the .env file.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("failed to read configuration: %w", err)
	}

	if cfg.DataDir == "" {
		cfg.DataDir = DefaultDataDir()
	}

	return &cfg, nil
}

// DefaultDataDir returns the application's private data directory
func DefaultDataDir() string {
	return filepath.Join(xdg.DataHome, appName)
}

// MusicDir is where managed copies of imported audio files live
func (c *Config) MusicDir() string {
	return filepath.Join(c.DataDir, musicDirName)
}

// CatalogPath is the JSON catalog file
func (c *Config) CatalogPath() string {
	return filepath.Join(c.DataDir, catalogFileName)
}

// Addr is the listen address of the HTTP API
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}
