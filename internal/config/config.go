// Copyright (c) 2025 Onyx Labs
// SPDX-License-Identifier: MIT

// Package config provides configuration loading and management for onyx.
//
// Configuration lives in ~/.onyx/config.toml with built-in defaults and
// environment variable overrides for secrets.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/BurntSushi/toml"

	"github.com/onyxlabs/onyx-tui/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete onyx configuration.
type Config struct {
	// API configuration
	API APIConfig `toml:"api"`

	// Image generation configuration
	Image ImageConfig `toml:"image"`

	// UI configuration
	UI UIConfig `toml:"ui"`

	// DataDir overrides the default ~/.onyx data directory.
	DataDir string `toml:"data_dir"`
}

// APIConfig contains the chat completion provider configuration.
type APIConfig struct {
	// BaseURL is the OpenRouter-compatible API endpoint.
	BaseURL string `toml:"base_url"`
	// Key is the API key. Overridden by ONYX_API_KEY when set.
	Key string `toml:"key"`
	// SystemInstruction is prepended to every completion request.
	SystemInstruction string `toml:"system_instruction"`
	// RequestsPerMinute caps outgoing completion requests (0 = default).
	RequestsPerMinute int `toml:"requests_per_minute"`
}

// ImageConfig contains the image generation endpoint configuration.
type ImageConfig struct {
	// BaseURL is the pollinations-style image endpoint.
	BaseURL string `toml:"base_url"`
}

// UIConfig contains terminal UI options.
type UIConfig struct {
	// Theme selects the color theme ("dark" or "light").
	Theme string `toml:"theme"`
	// ShowTimestamps shows message timestamps in the chat view.
	ShowTimestamps bool `toml:"show_timestamps"`
	// MarkdownRendering renders assistant messages through glamour.
	MarkdownRendering bool `toml:"markdown_rendering"`
}

// =============================================================================
// DEFAULTS
// =============================================================================

// Default returns the built-in defaults.
func Default() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:           "https://openrouter.ai/api/v1",
			RequestsPerMinute: 20,
		},
		Image: ImageConfig{
			BaseURL: "https://image.pollinations.ai",
		},
		UI: UIConfig{
			Theme:             "dark",
			MarkdownRendering: true,
		},
	}
}

// =============================================================================
// LOADING AND SAVING
// =============================================================================

// Path returns the config file path under ~/.onyx.
func Path() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".onyx", "config.toml"), nil
}

// Load reads the config file at path, applying defaults for missing
// fields and environment overrides for secrets. A missing file yields
// the defaults without error.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	} else if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	cfg.applyEnv()
	return cfg, nil
}

// Save writes the config atomically to path.
func (c *Config) Save(path string) error {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := util.AtomicWriteFile(path, buf.Bytes(), 0o600); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// applyEnv applies environment variable overrides.
func (c *Config) applyEnv() {
	if key := os.Getenv("ONYX_API_KEY"); key != "" {
		c.API.Key = key
	}
	if base := os.Getenv("ONYX_API_BASE"); base != "" {
		c.API.BaseURL = base
	}
}

// =============================================================================
// GLOBAL ACCESS
// =============================================================================

var (
	globalMu  sync.RWMutex
	globalCfg *Config
)

// Global returns the process-wide config, loading it on first use.
func Global() *Config {
	globalMu.RLock()
	if globalCfg != nil {
		defer globalMu.RUnlock()
		return globalCfg
	}
	globalMu.RUnlock()

	globalMu.Lock()
	defer globalMu.Unlock()
	if globalCfg == nil {
		path, err := Path()
		if err != nil {
			globalCfg = Default()
			return globalCfg
		}
		cfg, err := Load(path)
		if err != nil {
			cfg = Default()
			cfg.applyEnv()
		}
		globalCfg = cfg
	}
	return globalCfg
}

// SetGlobal replaces the process-wide config. Used by the watcher on
// hot reload and by tests.
func SetGlobal(cfg *Config) {
	globalMu.Lock()
	defer globalMu.Unlock()
	globalCfg = cfg
}
