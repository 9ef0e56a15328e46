// Copyright (c) 2025 Onyx Labs
// SPDX-License-Identifier: MIT

package store

// Temperature bounds accepted by the completion API.
const (
	MinTemperature = 0.0
	MaxTemperature = 2.0
)

// Settings holds the user-tunable application settings. The zero value
// is not usable; start from DefaultSettings.
type Settings struct {
	TextModel       string  `json:"text_model"`
	ImageModel      string  `json:"image_model"`
	Temperature     float64 `json:"temperature"`
	MaxTokens       int     `json:"max_tokens"`
	SystemPrompt    string  `json:"system_prompt"`
	Theme           string  `json:"theme,omitempty"`
	AccentColor     string  `json:"accent_color,omitempty"`
	BackgroundColor string  `json:"background_color,omitempty"`
	MemoriesEnabled bool    `json:"memories_enabled"`
	WebSearch       bool    `json:"web_search"`
	DeepSearch      bool    `json:"deep_search"`
	DebugLogging    bool    `json:"debug_logging"`
}

// DefaultSettings returns the hard-coded defaults used when nothing is
// stored or the stored document cannot be parsed.
func DefaultSettings() Settings {
	return Settings{
		TextModel:       "openai/gpt-4o-mini",
		ImageModel:      "flux",
		Temperature:     0.7,
		MaxTokens:       2048,
		SystemPrompt:    "You are Onyx, a helpful assistant.",
		MemoriesEnabled: true,
	}
}

// Normalize clamps out-of-range values so they never reach the API.
func (s *Settings) Normalize() {
	if s.Temperature < MinTemperature {
		s.Temperature = MinTemperature
	}
	if s.Temperature > MaxTemperature {
		s.Temperature = MaxTemperature
	}
	if s.MaxTokens <= 0 {
		s.MaxTokens = DefaultSettings().MaxTokens
	}
	if s.TextModel == "" {
		s.TextModel = DefaultSettings().TextModel
	}
	if s.ImageModel == "" {
		s.ImageModel = DefaultSettings().ImageModel
	}
}
