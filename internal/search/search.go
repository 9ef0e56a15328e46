// Copyright (c) 2025 Onyx Labs
// SPDX-License-Identifier: MIT

// Package search implements case-insensitive substring search across
// chats, generated images, and memories.
package search

import (
	"strings"

	"github.com/onyxlabs/onyx-tui/internal/model"
)

// Results holds the three per-collection result sets for one query.
type Results struct {
	Chats    []ChatHit
	Images   []*model.ImageGeneration
	Memories []*model.Memory
}

// ChatHit is a chat that matched, with the first matching message (if
// the match was in a message rather than the title).
type ChatHit struct {
	Chat *model.Chat
	// Snippet is the first matching message content, or "" when only
	// the title matched.
	Snippet string
}

// Total returns the combined number of hits across all collections.
func (r Results) Total() int {
	return len(r.Chats) + len(r.Images) + len(r.Memories)
}

// Query searches all three collections. Matching is case-insensitive
// substring. An empty or whitespace-only query yields empty results.
func Query(query string, chats []*model.Chat, images []*model.ImageGeneration, memories []*model.Memory) Results {
	q := strings.ToLower(strings.TrimSpace(query))
	res := Results{
		Chats:    []ChatHit{},
		Images:   []*model.ImageGeneration{},
		Memories: []*model.Memory{},
	}
	if q == "" {
		return res
	}

	for _, chat := range chats {
		if hit, ok := matchChat(q, chat); ok {
			res.Chats = append(res.Chats, hit)
		}
	}
	for _, img := range images {
		if strings.Contains(strings.ToLower(img.Prompt), q) {
			res.Images = append(res.Images, img)
		}
	}
	for _, mem := range memories {
		if strings.Contains(strings.ToLower(mem.Key), q) ||
			strings.Contains(strings.ToLower(mem.Value), q) {
			res.Memories = append(res.Memories, mem)
		}
	}
	return res
}

// matchChat checks the title first, then message content.
func matchChat(q string, chat *model.Chat) (ChatHit, bool) {
	if strings.Contains(strings.ToLower(chat.Title), q) {
		return ChatHit{Chat: chat}, true
	}
	for _, msg := range chat.Messages {
		if strings.Contains(strings.ToLower(msg.Content), q) {
			return ChatHit{Chat: chat, Snippet: msg.Content}, true
		}
	}
	return ChatHit{}, false
}
