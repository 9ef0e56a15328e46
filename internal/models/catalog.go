// Copyright (c) 2025 Onyx Labs
// SPDX-License-Identifier: MIT

// Package models holds the built-in model catalogs and the custom
// model registry.
package models

import "strings"

// Model describes one selectable model.
type Model struct {
	ID   string
	Name string
}

// TextModels is the built-in text completion catalog.
var TextModels = []Model{
	{ID: "openai/gpt-4o-mini", Name: "GPT-4o Mini"},
	{ID: "openai/gpt-4o", Name: "GPT-4o"},
	{ID: "anthropic/claude-3.5-sonnet", Name: "Claude 3.5 Sonnet"},
	{ID: "anthropic/claude-3.5-haiku", Name: "Claude 3.5 Haiku"},
	{ID: "google/gemini-flash-1.5", Name: "Gemini 1.5 Flash"},
	{ID: "meta-llama/llama-3.1-70b-instruct", Name: "Llama 3.1 70B"},
	{ID: "mistralai/mistral-large", Name: "Mistral Large"},
}

// ImageModels is the built-in image generation catalog.
var ImageModels = []Model{
	{ID: "flux", Name: "Flux"},
	{ID: "flux-realism", Name: "Flux Realism"},
	{ID: "flux-anime", Name: "Flux Anime"},
	{ID: "flux-3d", Name: "Flux 3D"},
	{ID: "turbo", Name: "Turbo"},
}

// Provider derives a human-readable provider name from a model ID.
// IDs are "provider/model"; IDs without a slash are "Custom".
func Provider(id string) string {
	prefix, _, found := strings.Cut(id, "/")
	if !found {
		return "Custom"
	}
	switch prefix {
	case "openai":
		return "OpenAI"
	case "anthropic":
		return "Anthropic"
	case "google":
		return "Google"
	case "meta-llama":
		return "Meta"
	case "mistralai":
		return "Mistral"
	default:
		return capitalize(prefix)
	}
}

// capitalize upper-cases the first rune of s.
func capitalize(s string) string {
	if s == "" {
		return s
	}
	runes := []rune(s)
	return strings.ToUpper(string(runes[0])) + string(runes[1:])
}

// DisplayName returns the catalog name for a model ID, falling back to
// the ID itself for unknown (custom) models.
func DisplayName(id string) string {
	for _, m := range TextModels {
		if m.ID == id {
			return m.Name
		}
	}
	for _, m := range ImageModels {
		if m.ID == id {
			return m.Name
		}
	}
	return id
}
