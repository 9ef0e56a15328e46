// Copyright (c) 2025 Onyx Labs
// SPDX-License-Identifier: MIT

// Package chat provides the chat view component for the onyx TUI.
package chat

// =============================================================================
// STREAMING MESSAGES
// =============================================================================

// StreamTokenMsg carries one streamed fragment from the completion
// goroutine to the UI loop.
type StreamTokenMsg struct {
	ChatID    string
	MessageID string
	Token     string
}

// StreamCompleteMsg signals that streaming finished cleanly.
type StreamCompleteMsg struct {
	ChatID    string
	MessageID string
}

// StreamErrorMsg signals that the completion failed.
type StreamErrorMsg struct {
	ChatID string
	Err    error
}

// RegenerateMsg asks the controller to discard an assistant response
// (and everything after it) and re-run the completion.
type RegenerateMsg struct {
	ChatID    string
	MessageID string
}

// =============================================================================
// IMAGE GENERATION MESSAGES
// =============================================================================

// ImageGeneratedMsg carries a finished image generation.
type ImageGeneratedMsg struct {
	ChatID string
	URL    string
	Prompt string
	Model  string
}

// ImageErrorMsg signals that image generation failed.
type ImageErrorMsg struct {
	ChatID string
	Err    error
}
