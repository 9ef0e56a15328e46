// Copyright (c) 2025 Onyx Labs
// SPDX-License-Identifier: MIT

package store

import (
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/onyxlabs/onyx-tui/internal/model"
)

// Store is the typed façade over the key-value layer. Reads fail soft:
// a missing or corrupt document yields an empty collection (or default
// settings) and never an error. Write errors are returned so callers
// can log them, but callers must treat them as non-fatal.
type Store struct {
	kv  *KV
	log *slog.Logger
}

// New wraps a key-value layer. A nil logger falls back to slog.Default.
func New(kv *KV, log *slog.Logger) *Store {
	if log == nil {
		log = slog.Default()
	}
	return &Store{kv: kv, log: log}
}

// Open opens the store at the default path.
func Open(log *slog.Logger) (*Store, error) {
	path, err := DefaultPath()
	if err != nil {
		return nil, err
	}
	kv, err := OpenKV(path)
	if err != nil {
		return nil, err
	}
	return New(kv, log), nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.kv.Close()
}

// getJSON reads and unmarshals a document into dst. Returns false when
// the key is missing or the document cannot be parsed; dst is untouched
// in that case.
func (s *Store) getJSON(key string, dst any) bool {
	raw, err := s.kv.Get(key)
	if err != nil {
		if !errors.Is(err, ErrKeyNotFound) {
			s.log.Warn("store read failed", "key", key, "error", err)
		}
		return false
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		s.log.Warn("store document corrupt, ignoring", "key", key, "error", err)
		return false
	}
	return true
}

// setJSON marshals and writes a document.
func (s *Store) setJSON(key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return s.kv.Set(key, raw)
}

// =============================================================================
// CHATS
// =============================================================================

// GetChats returns all stored chats, newest first.
func (s *Store) GetChats() []*model.Chat {
	var chats []*model.Chat
	if !s.getJSON(KeyChats, &chats) {
		return []*model.Chat{}
	}
	return chats
}

// SaveChats replaces the stored chat list wholesale.
func (s *Store) SaveChats(chats []*model.Chat) error {
	if chats == nil {
		chats = []*model.Chat{}
	}
	return s.setJSON(KeyChats, chats)
}

// AddChat prepends a chat to the stored list.
func (s *Store) AddChat(chat *model.Chat) error {
	chats := append([]*model.Chat{chat}, s.GetChats()...)
	return s.SaveChats(chats)
}

// DeleteChat removes a chat by ID. If the deleted chat is the current
// chat, the current chat ID is cleared.
func (s *Store) DeleteChat(id string) error {
	chats := s.GetChats()
	filtered := chats[:0]
	for _, c := range chats {
		if c.ID != id {
			filtered = append(filtered, c)
		}
	}
	if err := s.SaveChats(filtered); err != nil {
		return err
	}
	if s.GetCurrentChatID() == id {
		return s.ClearCurrentChatID()
	}
	return nil
}

// =============================================================================
// CURRENT CHAT ID
// =============================================================================

// GetCurrentChatID returns the persisted current chat ID, or "".
func (s *Store) GetCurrentChatID() string {
	var id string
	if !s.getJSON(KeyCurrentChat, &id) {
		return ""
	}
	return id
}

// SetCurrentChatID persists the current chat ID.
func (s *Store) SetCurrentChatID(id string) error {
	return s.setJSON(KeyCurrentChat, id)
}

// ClearCurrentChatID removes the persisted current chat ID.
func (s *Store) ClearCurrentChatID() error {
	return s.kv.Delete(KeyCurrentChat)
}

// =============================================================================
// IMAGES
// =============================================================================

// GetImages returns the stored gallery, newest first.
func (s *Store) GetImages() []*model.ImageGeneration {
	var images []*model.ImageGeneration
	if !s.getJSON(KeyImages, &images) {
		return []*model.ImageGeneration{}
	}
	return images
}

// AddImage prepends an image generation to the gallery.
func (s *Store) AddImage(img *model.ImageGeneration) error {
	images := append([]*model.ImageGeneration{img}, s.GetImages()...)
	return s.setJSON(KeyImages, images)
}

// DeleteImage removes an image generation by ID.
func (s *Store) DeleteImage(id string) error {
	images := s.GetImages()
	filtered := images[:0]
	for _, img := range images {
		if img.ID != id {
			filtered = append(filtered, img)
		}
	}
	return s.setJSON(KeyImages, filtered)
}

// =============================================================================
// MEMORIES
// =============================================================================

// GetMemories returns all stored memories.
func (s *Store) GetMemories() []*model.Memory {
	var memories []*model.Memory
	if !s.getJSON(KeyMemories, &memories) {
		return []*model.Memory{}
	}
	return memories
}

// AddMemory prepends a memory.
func (s *Store) AddMemory(mem *model.Memory) error {
	memories := append([]*model.Memory{mem}, s.GetMemories()...)
	return s.setJSON(KeyMemories, memories)
}

// UpdateMemory replaces a stored memory by ID. Unknown IDs are a no-op.
func (s *Store) UpdateMemory(mem *model.Memory) error {
	memories := s.GetMemories()
	for i, m := range memories {
		if m.ID == mem.ID {
			memories[i] = mem
			break
		}
	}
	return s.setJSON(KeyMemories, memories)
}

// DeleteMemory removes a memory by ID.
func (s *Store) DeleteMemory(id string) error {
	memories := s.GetMemories()
	filtered := memories[:0]
	for _, m := range memories {
		if m.ID != id {
			filtered = append(filtered, m)
		}
	}
	return s.setJSON(KeyMemories, filtered)
}

// =============================================================================
// SETTINGS
// =============================================================================

// GetSettings returns the stored settings, falling back to defaults
// when nothing is stored or the document is corrupt.
func (s *Store) GetSettings() Settings {
	settings := DefaultSettings()
	if !s.getJSON(KeySettings, &settings) {
		return DefaultSettings()
	}
	settings.Normalize()
	return settings
}

// SaveSettings normalizes and stores the settings wholesale.
func (s *Store) SaveSettings(settings Settings) error {
	settings.Normalize()
	return s.setJSON(KeySettings, settings)
}

// =============================================================================
// CUSTOM MODELS
// =============================================================================

// GetCustomModels returns the persisted custom model IDs.
func (s *Store) GetCustomModels() []string {
	var ids []string
	if !s.getJSON(KeyCustomModels, &ids) {
		return []string{}
	}
	return ids
}

// SaveCustomModels replaces the persisted custom model IDs.
func (s *Store) SaveCustomModels(ids []string) error {
	if ids == nil {
		ids = []string{}
	}
	return s.setJSON(KeyCustomModels, ids)
}

// =============================================================================
// BULK OPERATIONS
// =============================================================================

// ClearAll removes every stored collection. Used by the settings
// panel's clear-data action.
func (s *Store) ClearAll() error {
	for _, key := range []string{KeyChats, KeyImages, KeyMemories, KeySettings, KeyCurrentChat, KeyCustomModels} {
		if err := s.kv.Delete(key); err != nil {
			return err
		}
	}
	return nil
}
