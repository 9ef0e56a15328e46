// Copyright (c) 2025 Onyx Labs
// SPDX-License-Identifier: MIT

package search

import (
	"testing"

	"github.com/onyxlabs/onyx-tui/internal/model"
)

func fixtures() ([]*model.Chat, []*model.ImageGeneration, []*model.Memory) {
	chat1 := model.NewEmptyChat()
	chat1.SetTitle("Trip planning")
	chat1.AddMessage(model.NewUserMessage("What should I pack for Iceland?"))

	chat2 := model.NewEmptyChat()
	chat2.SetTitle("Recipes")
	chat2.AddMessage(model.NewUserMessage("How do I make sourdough bread?"))

	images := []*model.ImageGeneration{
		model.NewImageGeneration("https://x/1.png", "northern lights over Iceland", "flux", ""),
		model.NewImageGeneration("https://x/2.png", "a loaf of bread", "flux", ""),
	}
	memories := []*model.Memory{
		model.NewMemory("diet", "vegetarian, loves bread"),
		model.NewMemory("home country", "Iceland"),
	}
	return []*model.Chat{chat1, chat2}, images, memories
}

func TestQueryMatchesAllCollections(t *testing.T) {
	chats, images, memories := fixtures()

	res := Query("iceland", chats, images, memories)
	if len(res.Chats) != 1 {
		t.Errorf("chat hits = %d, want 1", len(res.Chats))
	}
	if len(res.Images) != 1 {
		t.Errorf("image hits = %d, want 1", len(res.Images))
	}
	if len(res.Memories) != 1 {
		t.Errorf("memory hits = %d, want 1", len(res.Memories))
	}
	if res.Total() != 3 {
		t.Errorf("total = %d, want 3", res.Total())
	}
}

func TestQueryCaseInsensitive(t *testing.T) {
	chats, images, memories := fixtures()

	res := Query("BREAD", chats, images, memories)
	if len(res.Chats) != 1 || len(res.Images) != 1 || len(res.Memories) != 1 {
		t.Errorf("hits = %d/%d/%d, want 1/1/1", len(res.Chats), len(res.Images), len(res.Memories))
	}
}

func TestQueryTitleOnlyMatch(t *testing.T) {
	chats, _, _ := fixtures()

	res := Query("recipes", chats, nil, nil)
	if len(res.Chats) != 1 {
		t.Fatalf("chat hits = %d, want 1", len(res.Chats))
	}
	if res.Chats[0].Snippet != "" {
		t.Errorf("title-only match should have empty snippet, got %q", res.Chats[0].Snippet)
	}
}

func TestQueryMessageMatchCarriesSnippet(t *testing.T) {
	chats, _, _ := fixtures()

	res := Query("sourdough", chats, nil, nil)
	if len(res.Chats) != 1 {
		t.Fatalf("chat hits = %d, want 1", len(res.Chats))
	}
	if res.Chats[0].Snippet != "How do I make sourdough bread?" {
		t.Errorf("snippet = %q", res.Chats[0].Snippet)
	}
}

func TestQueryNoMatches(t *testing.T) {
	chats, images, memories := fixtures()

	res := Query("zzzzz", chats, images, memories)
	if res.Total() != 0 {
		t.Errorf("total = %d, want 0", res.Total())
	}
	// Result sets must be empty but non-nil.
	if res.Chats == nil || res.Images == nil || res.Memories == nil {
		t.Error("result sets should be empty, not nil")
	}
}

func TestQueryEmptyString(t *testing.T) {
	chats, images, memories := fixtures()

	for _, q := range []string{"", "   "} {
		res := Query(q, chats, images, memories)
		if res.Total() != 0 {
			t.Errorf("Query(%q) total = %d, want 0", q, res.Total())
		}
	}
}
