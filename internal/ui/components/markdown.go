// Copyright (c) 2025 Onyx Labs
// SPDX-License-Identifier: MIT

package components

import (
	"sync"

	"github.com/charmbracelet/glamour"
)

// MarkdownRenderer renders assistant messages as terminal markdown.
// The underlying glamour renderer is rebuilt when the width changes.
type MarkdownRenderer struct {
	mu       sync.Mutex
	renderer *glamour.TermRenderer
	width    int
	dark     bool
}

// NewMarkdownRenderer creates a renderer for the given width and
// background.
func NewMarkdownRenderer(width int, dark bool) *MarkdownRenderer {
	m := &MarkdownRenderer{width: width, dark: dark}
	m.rebuild()
	return m
}

// SetWidth updates the wrap width, rebuilding the renderer if needed.
func (m *MarkdownRenderer) SetWidth(width int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if width == m.width {
		return
	}
	m.width = width
	m.rebuild()
}

func (m *MarkdownRenderer) rebuild() {
	styleOpt := glamour.WithStandardStyle("dark")
	if !m.dark {
		styleOpt = glamour.WithStandardStyle("light")
	}
	width := m.width
	if width < 20 {
		width = 20
	}
	r, err := glamour.NewTermRenderer(
		styleOpt,
		glamour.WithWordWrap(width),
		glamour.WithEmoji(),
	)
	if err != nil {
		m.renderer = nil
		return
	}
	m.renderer = r
}

// Render renders markdown to styled terminal output, falling back to
// the raw text when rendering fails.
func (m *MarkdownRenderer) Render(markdown string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.renderer == nil {
		return markdown
	}
	out, err := m.renderer.Render(markdown)
	if err != nil {
		return markdown
	}
	return out
}
