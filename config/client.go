package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Client is the command line client's configuration.
type Client struct {
	APIURL      string        `yaml:"api_url"`
	StoragePath string        `yaml:"storage_path"`
	SettleDelay time.Duration `yaml:"settle_delay"`
	Timezone    string        `yaml:"timezone"`
	LogMode     string        `yaml:"log_mode"`
}

func DefaultClient() Client {
	storage := "studydeck.db"
	if home, err := os.UserHomeDir(); err == nil {
		storage = filepath.Join(home, ".studydeck", "studydeck.db")
	}
	return Client{
		APIURL:      "http://localhost:8080",
		StoragePath: storage,
		SettleDelay: time.Second,
		LogMode:     "quiet",
	}
}

// LoadClient reads path over the defaults; a missing file is not an error.
// STUDYDECK_API_URL and STUDYDECK_STORAGE override the file.
func LoadClient(path string) (Client, error) {
	cfg := DefaultClient()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return Client{}, fmt.Errorf("read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return Client{}, fmt.Errorf("parse config %s: %w", path, err)
			}
		}
	}

	if v := os.Getenv("STUDYDECK_API_URL"); v != "" {
		cfg.APIURL = v
	}
	if v := os.Getenv("STUDYDECK_STORAGE"); v != "" {
		cfg.StoragePath = v
	}
	if cfg.SettleDelay < 0 {
		return Client{}, fmt.Errorf("settle_delay must not be negative")
	}
	return cfg, nil
}

// Location resolves Timezone, falling back to the machine's local zone.
func (c Client) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	return time.LoadLocation(c.Timezone)
}
