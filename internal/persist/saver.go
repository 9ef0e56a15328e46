// Copyright (c) 2025 Onyx Labs
// SPDX-License-Identifier: MIT

// Package persist debounces chat persistence so rapid streaming updates
// collapse into periodic writes, while guaranteeing the final state is
// flushed on shutdown.
package persist

import (
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/onyxlabs/onyx-tui/internal/model"
	"github.com/onyxlabs/onyx-tui/internal/store"
)

// DebounceInterval is the quiet period before a pending snapshot is
// committed to the store.
const DebounceInterval = 500 * time.Millisecond

// snapshot is one observed state of the chat list plus current chat ID.
type snapshot struct {
	raw       []byte
	chats     []*model.Chat
	currentID string
}

// Saver is a debounced writer for the chat list and current chat ID.
//
// It is an explicit two-state machine: idle (no timer armed) and
// pending (timer armed, latest snapshot waiting). Update replaces the
// pending snapshot and re-arms the timer; identical snapshots are
// dropped without touching the timer. Close flushes unconditionally,
// so the store reflects the last observed state even when the timer
// never fired.
type Saver struct {
	store *store.Store
	log   *slog.Logger

	mu        sync.Mutex
	timer     *time.Timer
	pending   *snapshot
	lastSaved []byte
	closed    bool
}

// NewSaver creates a saver bound to a store. A nil logger falls back
// to slog.Default.
func NewSaver(st *store.Store, log *slog.Logger) *Saver {
	if log == nil {
		log = slog.Default()
	}
	return &Saver{store: st, log: log}
}

// Update observes a new in-memory state. If it differs from the last
// committed state, the debounce timer is (re)armed; otherwise the call
// is a no-op.
func (s *Saver) Update(chats []*model.Chat, currentID string) {
	// Snapshot the clones, not the originals: cloning materializes
	// in-flight streams, so streamed fragments register as changes.
	clones := make([]*model.Chat, len(chats))
	for i, c := range chats {
		clones[i] = c.Clone()
	}
	raw, err := json.Marshal(struct {
		Chats     []*model.Chat `json:"chats"`
		CurrentID string        `json:"current_id"`
	}{clones, currentID})
	if err != nil {
		s.log.Error("failed to snapshot chats", "error", err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	if s.pending == nil && string(raw) == string(s.lastSaved) {
		return
	}

	s.pending = &snapshot{raw: raw, chats: clones, currentID: currentID}

	if s.timer == nil {
		s.timer = time.AfterFunc(DebounceInterval, s.onTimer)
	} else {
		s.timer.Reset(DebounceInterval)
	}
}

// onTimer commits the pending snapshot after the quiet period.
func (s *Saver) onTimer() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.flushLocked()
}

// FlushNow commits any pending snapshot immediately.
func (s *Saver) FlushNow() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.timer != nil {
		s.timer.Stop()
	}
	s.flushLocked()
}

// Close flushes any pending snapshot and stops the saver. Further
// Update calls are ignored.
func (s *Saver) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.flushLocked()
}

// flushLocked writes the pending snapshot. Caller holds s.mu.
func (s *Saver) flushLocked() {
	if s.pending == nil {
		return
	}
	snap := s.pending
	s.pending = nil

	if err := s.store.SaveChats(snap.chats); err != nil {
		s.log.Error("failed to persist chats", "error", err)
		return
	}
	var err error
	if snap.currentID == "" {
		err = s.store.ClearCurrentChatID()
	} else {
		err = s.store.SetCurrentChatID(snap.currentID)
	}
	if err != nil {
		s.log.Error("failed to persist current chat id", "error", err)
		return
	}
	s.lastSaved = snap.raw
}
