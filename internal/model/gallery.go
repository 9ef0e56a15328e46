// Copyright (c) 2025 Onyx Labs
// SPDX-License-Identifier: MIT

package model

import (
	"time"

	"github.com/google/uuid"
)

// ImageGeneration records a generated image in the gallery. ChatID
// links the entry back to the chat whose /img command produced it.
type ImageGeneration struct {
	ID        string    `json:"id"`
	URL       string    `json:"url"`
	Prompt    string    `json:"prompt"`
	Model     string    `json:"model"`
	ChatID    string    `json:"chat_id,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// NewImageGeneration creates a gallery record with a generated ID.
func NewImageGeneration(url, prompt, imageModel, chatID string) *ImageGeneration {
	return &ImageGeneration{
		ID:        uuid.NewString(),
		URL:       url,
		Prompt:    prompt,
		Model:     imageModel,
		ChatID:    chatID,
		Timestamp: time.Now(),
	}
}
