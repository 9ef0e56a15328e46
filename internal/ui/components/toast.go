// Copyright (c) 2025 Onyx Labs
// SPDX-License-Identifier: MIT

// Package components provides reusable UI components for the onyx TUI.
//
// Toasts are non-blocking notifications that appear in the bottom-right
// corner and auto-dismiss, so the user keeps typing while an error or a
// status message is visible.
package components

import (
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/onyxlabs/onyx-tui/internal/ui/styles"
)

// ToastKind represents the type of toast notification.
type ToastKind int

const (
	// ToastStatus is an informational toast.
	ToastStatus ToastKind = iota
	// ToastError is an error toast.
	ToastError
	// ToastSuccess is a success toast.
	ToastSuccess
)

// Auto-dismiss durations. Errors stay longer so they can be read.
const (
	StatusToastDuration = 4 * time.Second
	ErrorToastDuration  = 8 * time.Second
)

// Toast is one notification.
type Toast struct {
	ID        int
	Message   string
	Kind      ToastKind
	CreatedAt time.Time
	Duration  time.Duration
}

// IsExpired returns true if the toast should be dismissed.
func (t *Toast) IsExpired() bool {
	return time.Since(t.CreatedAt) >= t.Duration
}

// =============================================================================
// TOAST MANAGER
// =============================================================================

// ToastManager manages the active toast stack, newest first.
type ToastManager struct {
	mu        sync.Mutex
	toasts    []Toast
	nextID    int
	maxToasts int
}

// NewToastManager creates an empty toast manager.
func NewToastManager() *ToastManager {
	return &ToastManager{nextID: 1, maxToasts: 3}
}

func (m *ToastManager) add(message string, kind ToastKind, duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	toast := Toast{
		ID:        m.nextID,
		Message:   message,
		Kind:      kind,
		CreatedAt: time.Now(),
		Duration:  duration,
	}
	m.nextID++
	m.toasts = append([]Toast{toast}, m.toasts...)
	if len(m.toasts) > m.maxToasts {
		m.toasts = m.toasts[:m.maxToasts]
	}
}

// AddError adds an error toast.
func (m *ToastManager) AddError(message string) {
	m.add(message, ToastError, ErrorToastDuration)
}

// AddStatus adds an informational toast.
func (m *ToastManager) AddStatus(message string) {
	m.add(message, ToastStatus, StatusToastDuration)
}

// AddSuccess adds a success toast.
func (m *ToastManager) AddSuccess(message string) {
	m.add(message, ToastSuccess, StatusToastDuration)
}

// Tick removes expired toasts and returns what remains.
func (m *ToastManager) Tick() []Toast {
	m.mu.Lock()
	defer m.mu.Unlock()
	active := m.toasts[:0]
	for _, t := range m.toasts {
		if !t.IsExpired() {
			active = append(active, t)
		}
	}
	m.toasts = active
	return append([]Toast(nil), m.toasts...)
}

// HasToasts returns true if any toast is active.
func (m *ToastManager) HasToasts() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.toasts) > 0
}

// ToastTickMsg is sent periodically while toasts are visible.
type ToastTickMsg struct{ Time time.Time }

// ToastTickCmd ticks the toast stack every 250ms.
func ToastTickCmd() tea.Cmd {
	return tea.Tick(250*time.Millisecond, func(t time.Time) tea.Msg {
		return ToastTickMsg{Time: t}
	})
}

// =============================================================================
// RENDERING
// =============================================================================

// RenderToasts renders the toast stack for the bottom-right corner.
func RenderToasts(theme *styles.Theme, toasts []Toast, width int) string {
	if len(toasts) == 0 {
		return ""
	}

	maxWidth := 60
	if width > 0 && width-4 < maxWidth {
		maxWidth = width - 4
	}

	rendered := make([]string, 0, len(toasts))
	for _, toast := range toasts {
		style := theme.ToastInfo
		prefix := "· "
		switch toast.Kind {
		case ToastError:
			style = theme.ToastError
			prefix = "✗ "
		case ToastSuccess:
			style = theme.ToastInfo.Foreground(styles.Emerald)
			prefix = "✓ "
		}
		rendered = append(rendered, style.MaxWidth(maxWidth).Render(prefix+toast.Message))
	}

	return lipgloss.JoinVertical(lipgloss.Right, rendered...)
}

// WrapText performs simple word wrapping, used for toast and panel text.
func WrapText(text string, maxWidth int) string {
	if maxWidth <= 0 {
		return text
	}
	words := strings.Fields(text)
	if len(words) == 0 {
		return text
	}

	var lines []string
	var line strings.Builder
	for _, word := range words {
		switch {
		case line.Len() == 0:
			line.WriteString(word)
		case line.Len()+1+len(word) <= maxWidth:
			line.WriteString(" ")
			line.WriteString(word)
		default:
			lines = append(lines, line.String())
			line.Reset()
			line.WriteString(word)
		}
	}
	if line.Len() > 0 {
		lines = append(lines, line.String())
	}
	return strings.Join(lines, "\n")
}
