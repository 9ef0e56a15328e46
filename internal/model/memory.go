// Copyright (c) 2025 Onyx Labs
// SPDX-License-Identifier: MIT

package model

import (
	"time"

	"github.com/google/uuid"
)

// Memory is a user-managed key/value fact the assistant should remember.
type Memory struct {
	ID        string    `json:"id"`
	Key       string    `json:"key"`
	Value     string    `json:"value"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewMemory creates a memory with a generated ID.
func NewMemory(key, value string) *Memory {
	now := time.Now()
	return &Memory{
		ID:        uuid.NewString(),
		Key:       key,
		Value:     value,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Update replaces the key and value and bumps the update time.
func (m *Memory) Update(key, value string) {
	m.Key = key
	m.Value = value
	m.UpdatedAt = time.Now()
}
