// Copyright (c) 2025 Onyx Labs
// SPDX-License-Identifier: MIT

// Package export serializes chats to JSON and Markdown files and
// imports them back.
package export

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/onyxlabs/onyx-tui/internal/model"
	"github.com/onyxlabs/onyx-tui/internal/util"
)

// ChatJSON pretty-prints a single chat.
func ChatJSON(chat *model.Chat) ([]byte, error) {
	return json.MarshalIndent(chat, "", "  ")
}

// ChatsJSON pretty-prints the whole chat list.
func ChatsJSON(chats []*model.Chat) ([]byte, error) {
	if chats == nil {
		chats = []*model.Chat{}
	}
	return json.MarshalIndent(chats, "", "  ")
}

// WriteChat exports one chat to path atomically.
func WriteChat(path string, chat *model.Chat) error {
	data, err := ChatJSON(chat)
	if err != nil {
		return fmt.Errorf("failed to serialize chat: %w", err)
	}
	return util.AtomicWriteFile(path, data, 0o644)
}

// WriteChats exports the whole chat list to path atomically.
func WriteChats(path string, chats []*model.Chat) error {
	data, err := ChatsJSON(chats)
	if err != nil {
		return fmt.Errorf("failed to serialize chats: %w", err)
	}
	return util.AtomicWriteFile(path, data, 0o644)
}

// Filename derives an export filename from a chat title, falling back
// to a timestamp when the title is empty or reduces to nothing.
func Filename(title string, now time.Time) string {
	slug := slugify(title)
	if slug == "" {
		slug = now.Format("2006-01-02-150405")
	}
	return "onyx-chat-" + slug + ".json"
}

// slugify lower-cases the title and keeps alphanumerics, joining runs
// of anything else with single dashes.
func slugify(s string) string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	return strings.Trim(b.String(), "-")
}

// Import parses exported JSON. Accepts both a single chat object and a
// chat array; both shapes come back as a slice. No validation beyond
// parsing.
func Import(data []byte) ([]*model.Chat, error) {
	var chats []*model.Chat
	if err := json.Unmarshal(data, &chats); err == nil {
		return chats, nil
	}

	var chat model.Chat
	if err := json.Unmarshal(data, &chat); err != nil {
		return nil, fmt.Errorf("not a chat export: %w", err)
	}
	return []*model.Chat{&chat}, nil
}
