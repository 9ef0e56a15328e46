// Copyright (c) 2025 Onyx Labs
// SPDX-License-Identifier: MIT

package models

import "testing"

func TestNormalizeStripsPrefix(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"openrouter:foo/bar", "foo/bar"},
		{"foo/bar", "foo/bar"},
		{"  openrouter:x/y  ", "x/y"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := Normalize(tt.in); got != tt.want {
			t.Errorf("Normalize(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRegisterDedupes(t *testing.T) {
	list := Register(nil, "foo/bar")
	list = Register(list, "openrouter:foo/bar")
	list = Register(list, "baz/qux")
	list = Register(list, "")

	if len(list) != 2 {
		t.Fatalf("expected 2 models, got %v", list)
	}
	if list[0] != "foo/bar" || list[1] != "baz/qux" {
		t.Errorf("list = %v", list)
	}
}

func TestUnregister(t *testing.T) {
	list := []string{"a/b", "c/d"}
	list = Unregister(list, "openrouter:a/b")
	if len(list) != 1 || list[0] != "c/d" {
		t.Errorf("list = %v", list)
	}
}

func TestProviderDerivation(t *testing.T) {
	tests := []struct {
		id   string
		want string
	}{
		{"openai/gpt-4o", "OpenAI"},
		{"anthropic/claude-3.5-sonnet", "Anthropic"},
		{"meta-llama/llama-3.1-70b-instruct", "Meta"},
		{"deepseek/deepseek-chat", "Deepseek"},
		{"flux", "Custom"},
	}
	for _, tt := range tests {
		if got := Provider(tt.id); got != tt.want {
			t.Errorf("Provider(%q) = %q, want %q", tt.id, got, tt.want)
		}
	}
}

func TestDisplayName(t *testing.T) {
	if got := DisplayName("openai/gpt-4o-mini"); got != "GPT-4o Mini" {
		t.Errorf("DisplayName = %q", got)
	}
	if got := DisplayName("unknown/model"); got != "unknown/model" {
		t.Errorf("DisplayName fallback = %q", got)
	}
}

func TestAllTextModelsAppendsCustom(t *testing.T) {
	all := AllTextModels([]string{"custom/one"})
	if len(all) != len(TextModels)+1 {
		t.Fatalf("expected %d models, got %d", len(TextModels)+1, len(all))
	}
	last := all[len(all)-1]
	if last.ID != "custom/one" || last.Name != "custom/one" {
		t.Errorf("custom model = %+v", last)
	}
}
