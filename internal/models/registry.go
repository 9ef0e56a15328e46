// Copyright (c) 2025 Onyx Labs
// SPDX-License-Identifier: MIT

package models

import "strings"

// customPrefix marks a user-registered model ID. Registration strips
// it so "openrouter:foo/bar" and "foo/bar" are the same model.
const customPrefix = "openrouter:"

// Normalize canonicalizes a user-entered model ID: trims whitespace
// and strips the openrouter: prefix.
func Normalize(id string) string {
	id = strings.TrimSpace(id)
	return strings.TrimPrefix(id, customPrefix)
}

// Register adds a custom model ID to the list, normalizing it and
// dropping duplicates and empty IDs. The returned slice is the new
// list; the input is not modified.
func Register(existing []string, id string) []string {
	id = Normalize(id)
	if id == "" {
		return existing
	}
	for _, m := range existing {
		if m == id {
			return existing
		}
	}
	out := make([]string, 0, len(existing)+1)
	out = append(out, existing...)
	return append(out, id)
}

// Unregister removes a custom model ID from the list.
func Unregister(existing []string, id string) []string {
	id = Normalize(id)
	out := existing[:0]
	for _, m := range existing {
		if m != id {
			out = append(out, m)
		}
	}
	return out
}

// AllTextModels returns the built-in text catalog plus custom models
// appended as Model entries named after their IDs.
func AllTextModels(custom []string) []Model {
	out := make([]Model, 0, len(TextModels)+len(custom))
	out = append(out, TextModels...)
	for _, id := range custom {
		out = append(out, Model{ID: id, Name: id})
	}
	return out
}
