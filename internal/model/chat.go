// Copyright (c) 2025 Onyx Labs
// SPDX-License-Identifier: MIT

package model

import (
	"time"

	"github.com/google/uuid"
)

// TitleMaxRunes is how many runes of the first user message become the
// chat title. Longer messages get an ellipsis appended after the cut.
const TitleMaxRunes = 50

// WelcomeMessage is the assistant greeting seeded into every new chat.
const WelcomeMessage = "Hello! I'm Onyx. Ask me anything, or type /img followed by a prompt to generate an image."

// =============================================================================
// CHAT TYPE
// =============================================================================

// Chat holds a complete chat thread with history and metadata.
type Chat struct {
	// Identity
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Messages
	Messages []*Message `json:"messages"`

	// Model used for this chat (empty means the settings default)
	Model string `json:"model,omitempty"`
}

// NewChat creates a new chat seeded with the assistant welcome message.
func NewChat() *Chat {
	now := time.Now()
	return &Chat{
		ID:        uuid.NewString(),
		Title:     "New Chat",
		CreatedAt: now,
		UpdatedAt: now,
		Messages:  []*Message{NewMessage(RoleAssistant, WelcomeMessage)},
	}
}

// NewEmptyChat creates a chat with no messages. Used by import.
func NewEmptyChat() *Chat {
	now := time.Now()
	return &Chat{
		ID:        uuid.NewString(),
		Title:     "New Chat",
		CreatedAt: now,
		UpdatedAt: now,
		Messages:  make([]*Message, 0),
	}
}

// =============================================================================
// MESSAGE MANAGEMENT
// =============================================================================

// AddMessage appends a message and refreshes metadata.
func (c *Chat) AddMessage(msg *Message) {
	c.Messages = append(c.Messages, msg)
	c.UpdatedAt = time.Now()
	c.updateTitle()
}

// AddUserMessage creates and appends a user message.
func (c *Chat) AddUserMessage(content string) *Message {
	msg := NewUserMessage(content)
	c.AddMessage(msg)
	return msg
}

// AddAssistantMessage creates and appends a streaming assistant message.
func (c *Chat) AddAssistantMessage() *Message {
	msg := NewAssistantMessage()
	c.AddMessage(msg)
	return msg
}

// GetLastMessage returns the most recent message, or nil if empty.
func (c *Chat) GetLastMessage() *Message {
	if len(c.Messages) == 0 {
		return nil
	}
	return c.Messages[len(c.Messages)-1]
}

// GetMessageByID returns a message by its ID, or nil.
func (c *Chat) GetMessageByID(id string) *Message {
	for _, msg := range c.Messages {
		if msg.ID == id {
			return msg
		}
	}
	return nil
}

// MessageIndex returns the index of a message by ID, or -1.
func (c *Chat) MessageIndex(id string) int {
	for i, msg := range c.Messages {
		if msg.ID == id {
			return i
		}
	}
	return -1
}

// TruncateBefore removes the target message and everything after it.
// Used by regenerate: history strictly before the target is kept.
// Returns false when the message is not in this chat.
func (c *Chat) TruncateBefore(id string) bool {
	idx := c.MessageIndex(id)
	if idx < 0 {
		return false
	}
	c.Messages = c.Messages[:idx]
	c.UpdatedAt = time.Now()
	return true
}

// AppendToLast appends a fragment to the last (streaming) message.
func (c *Chat) AppendToLast(token string) {
	last := c.GetLastMessage()
	if last != nil && last.IsStreaming {
		last.AppendToken(token)
	}
}

// FinalizeLast finalizes the last streaming message.
func (c *Chat) FinalizeLast() {
	last := c.GetLastMessage()
	if last != nil && last.IsStreaming {
		last.FinalizeStream()
	}
}

// MessageCount returns the number of messages.
func (c *Chat) MessageCount() int {
	return len(c.Messages)
}

// IsEmpty returns true if there are no messages.
func (c *Chat) IsEmpty() bool {
	return len(c.Messages) == 0
}

// =============================================================================
// TITLE MANAGEMENT
// =============================================================================

// updateTitle derives the title from the first user message: the
// first TitleMaxRunes runes, plus an ellipsis when the message is
// longer. Runs only while the title is still the default.
func (c *Chat) updateTitle() {
	if c.Title != "" && c.Title != "New Chat" {
		return
	}
	for _, msg := range c.Messages {
		if msg.Role == RoleUser {
			content := msg.GetDisplayContent()
			if runes := []rune(content); len(runes) > TitleMaxRunes {
				content = string(runes[:TitleMaxRunes]) + "..."
			}
			c.Title = content
			return
		}
	}
}

// SetTitle manually sets the chat title.
func (c *Chat) SetTitle(title string) {
	c.Title = title
	c.UpdatedAt = time.Now()
}

// GetTitle returns the chat title or a default.
func (c *Chat) GetTitle() string {
	if c.Title != "" {
		return c.Title
	}
	return "New Chat"
}

// Preview returns a short preview of the most recent message.
func (c *Chat) Preview() string {
	last := c.GetLastMessage()
	if last == nil {
		return "Empty chat"
	}
	return last.Preview(100)
}

// Clone creates a deep copy of the chat.
func (c *Chat) Clone() *Chat {
	clone := &Chat{
		ID:        c.ID,
		Title:     c.Title,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
		Model:     c.Model,
		Messages:  make([]*Message, len(c.Messages)),
	}
	for i, msg := range c.Messages {
		msgCopy := *msg
		// Materialize any in-flight stream so the copy is complete on
		// its own; partial responses survive a crash mid-stream.
		if msg.IsStreaming {
			msgCopy.Content = msg.GetDisplayContent()
			msgCopy.IsStreaming = false
			msgCopy.streamContent.Reset()
		}
		clone.Messages[i] = &msgCopy
	}
	return clone
}
