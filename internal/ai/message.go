// Copyright (c) 2025 Onyx Labs
// SPDX-License-Identifier: MIT

package ai

import "encoding/json"

// ChatMessage is one entry in a completion request. Content is plain
// text unless Parts is set, in which case the message is serialized as
// multipart content (the attachment form of the chat completions API).
type ChatMessage struct {
	Role    string
	Content string
	Parts   []ContentPart
}

// ContentPart is one element of a multipart message.
type ContentPart struct {
	Type     string        `json:"type"` // "text" or "image_url"
	Text     string        `json:"text,omitempty"`
	ImageURL *ImageURLPart `json:"image_url,omitempty"`
}

// ImageURLPart holds an image reference, typically a data URL.
type ImageURLPart struct {
	URL string `json:"url"`
}

// NewTextPart creates a text content part.
func NewTextPart(text string) ContentPart {
	return ContentPart{Type: "text", Text: text}
}

// NewImagePart creates an image content part from a URL or data URL.
func NewImagePart(url string) ContentPart {
	return ContentPart{Type: "image_url", ImageURL: &ImageURLPart{URL: url}}
}

// NewUserMessage creates a plain-text user message.
func NewUserMessage(content string) ChatMessage {
	return ChatMessage{Role: "user", Content: content}
}

// NewAssistantMessage creates a plain-text assistant message.
func NewAssistantMessage(content string) ChatMessage {
	return ChatMessage{Role: "assistant", Content: content}
}

// NewSystemMessage creates a plain-text system message.
func NewSystemMessage(content string) ChatMessage {
	return ChatMessage{Role: "system", Content: content}
}

// NewMultipartUserMessage creates a user message with attachment parts.
// Parts are ordered attachments first, text last.
func NewMultipartUserMessage(text string, attachments []ContentPart) ChatMessage {
	parts := make([]ContentPart, 0, len(attachments)+1)
	parts = append(parts, attachments...)
	parts = append(parts, NewTextPart(text))
	return ChatMessage{Role: "user", Parts: parts}
}

// MarshalJSON serializes content as a string, or as a part array when
// Parts is set.
func (m ChatMessage) MarshalJSON() ([]byte, error) {
	if len(m.Parts) > 0 {
		return json.Marshal(struct {
			Role    string        `json:"role"`
			Content []ContentPart `json:"content"`
		}{m.Role, m.Parts})
	}
	return json.Marshal(struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	}{m.Role, m.Content})
}

// UnmarshalJSON accepts both the string and the part-array content
// forms.
func (m *ChatMessage) UnmarshalJSON(data []byte) error {
	var raw struct {
		Role    string          `json:"role"`
		Content json.RawMessage `json:"content"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	m.Role = raw.Role

	var text string
	if err := json.Unmarshal(raw.Content, &text); err == nil {
		m.Content = text
		m.Parts = nil
		return nil
	}

	var parts []ContentPart
	if err := json.Unmarshal(raw.Content, &parts); err != nil {
		return err
	}
	m.Parts = parts
	return nil
}
