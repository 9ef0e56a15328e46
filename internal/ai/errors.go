// Copyright (c) 2025 Onyx Labs
// SPDX-License-Identifier: MIT

package ai

import (
	"errors"
	"fmt"
)

// Error variables for common API failures.
var (
	// ErrNotConfigured indicates the API key is not set.
	ErrNotConfigured = errors.New("API key not configured")

	// ErrAuthFailed indicates authentication failed (invalid or expired API key).
	ErrAuthFailed = errors.New("authentication failed")

	// ErrRateLimited indicates too many requests were made.
	ErrRateLimited = errors.New("rate limited")

	// ErrModelNotFound indicates the requested model does not exist.
	ErrModelNotFound = errors.New("model not found")
)

// APIError represents an error response from the completion API.
type APIError struct {
	Code    string
	Message string
	Status  int
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("API error [%s] (HTTP %d): %s", e.Code, e.Status, e.Message)
	}
	return fmt.Sprintf("API error (HTTP %d): %s", e.Status, e.Message)
}

// UserMessage converts an error into the text shown in the chat and
// the toast. Rate limits and API errors with server-provided messages
// get specific wording; everything else is generic.
func UserMessage(err error) string {
	switch {
	case errors.Is(err, ErrRateLimited):
		return "Rate limit reached. Please wait a moment and try again."
	case errors.Is(err, ErrNotConfigured):
		return "No API key configured. Set ONYX_API_KEY or add one to the config file."
	case errors.Is(err, ErrAuthFailed):
		return "Authentication failed. Check your API key."
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return "The AI service returned an error: " + apiErr.Message
	}

	return "Something went wrong. Please try again."
}
