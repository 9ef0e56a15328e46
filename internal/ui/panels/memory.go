// Copyright (c) 2025 Onyx Labs
// SPDX-License-Identifier: MIT

package panels

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/onyxlabs/onyx-tui/internal/model"
	"github.com/onyxlabs/onyx-tui/internal/ui/styles"
	"github.com/onyxlabs/onyx-tui/internal/util"
)

// Action messages emitted by the memory panel.
type (
	// AddMemoryMsg asks the controller to store a new memory.
	AddMemoryMsg struct{ Key, Value string }
	// UpdateMemoryMsg asks the controller to replace a memory.
	UpdateMemoryMsg struct{ ID, Key, Value string }
	// DeleteMemoryMsg asks the controller to delete a memory.
	DeleteMemoryMsg struct{ ID string }
)

// memoryMode is the panel's edit state.
type memoryMode int

const (
	memoryBrowse memoryMode = iota
	memoryEditKey
	memoryEditValue
)

// Memory is the memory CRUD panel.
type Memory struct {
	theme *styles.Theme

	memories []*model.Memory
	cursor   int
	width    int
	height   int

	mode      memoryMode
	keyInput  textinput.Model
	valInput  textinput.Model
	editingID string // empty while adding
	errText   string
}

// NewMemory creates the memory panel.
func NewMemory(theme *styles.Theme) *Memory {
	keyInput := textinput.New()
	keyInput.Placeholder = "key"
	keyInput.Prompt = "key: "
	valInput := textinput.New()
	valInput.Placeholder = "value"
	valInput.Prompt = "value: "
	return &Memory{theme: theme, keyInput: keyInput, valInput: valInput}
}

// SetMemories replaces the memory list.
func (m *Memory) SetMemories(memories []*model.Memory) {
	m.memories = memories
	if m.cursor >= len(m.memories) {
		m.cursor = len(m.memories) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// SetSize resizes the panel.
func (m *Memory) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.keyInput.Width = width - 12
	m.valInput.Width = width - 12
}

// Editing reports whether the key/value form is open.
func (m *Memory) Editing() bool { return m.mode != memoryBrowse }

// startEdit opens the form, optionally seeded from an existing memory.
func (m *Memory) startEdit(mem *model.Memory) tea.Cmd {
	m.errText = ""
	if mem != nil {
		m.editingID = mem.ID
		m.keyInput.SetValue(mem.Key)
		m.valInput.SetValue(mem.Value)
	} else {
		m.editingID = ""
		m.keyInput.SetValue("")
		m.valInput.SetValue("")
	}
	m.mode = memoryEditKey
	m.valInput.Blur()
	m.keyInput.Focus()
	return textinput.Blink
}

// submit validates and emits the add/update message. Both fields are
// required.
func (m *Memory) submit() tea.Cmd {
	key := strings.TrimSpace(m.keyInput.Value())
	value := strings.TrimSpace(m.valInput.Value())
	if key == "" || value == "" {
		m.errText = "both key and value are required"
		return nil
	}

	id := m.editingID
	m.mode = memoryBrowse
	m.keyInput.Blur()
	m.valInput.Blur()

	if id != "" {
		return func() tea.Msg { return UpdateMemoryMsg{ID: id, Key: key, Value: value} }
	}
	return func() tea.Msg { return AddMemoryMsg{Key: key, Value: value} }
}

// Update handles memory panel keys.
func (m *Memory) Update(msg tea.Msg) tea.Cmd {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}

	switch m.mode {
	case memoryEditKey:
		switch key.String() {
		case "esc":
			m.mode = memoryBrowse
			m.keyInput.Blur()
			return nil
		case "enter", "tab":
			m.keyInput.Blur()
			m.valInput.Focus()
			m.mode = memoryEditValue
			return textinput.Blink
		default:
			var cmd tea.Cmd
			m.keyInput, cmd = m.keyInput.Update(msg)
			return cmd
		}

	case memoryEditValue:
		switch key.String() {
		case "esc":
			m.mode = memoryBrowse
			m.valInput.Blur()
			return nil
		case "tab":
			m.valInput.Blur()
			m.keyInput.Focus()
			m.mode = memoryEditKey
			return textinput.Blink
		case "enter":
			return m.submit()
		default:
			var cmd tea.Cmd
			m.valInput, cmd = m.valInput.Update(msg)
			return cmd
		}
	}

	// Browse mode
	switch key.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.memories)-1 {
			m.cursor++
		}
	case "a", "n":
		return m.startEdit(nil)
	case "enter", "e":
		if m.cursor < len(m.memories) {
			return m.startEdit(m.memories[m.cursor])
		}
	case "d", "delete":
		if m.cursor < len(m.memories) {
			id := m.memories[m.cursor].ID
			return func() tea.Msg { return DeleteMemoryMsg{ID: id} }
		}
	}
	return nil
}

// View renders the memory panel.
func (m *Memory) View() string {
	var b strings.Builder
	b.WriteString(m.theme.PanelTitle.Render(fmt.Sprintf("Memory (%d)", len(m.memories))))
	b.WriteString("\n\n")

	if m.mode != memoryBrowse {
		b.WriteString(m.keyInput.View())
		b.WriteString("\n")
		b.WriteString(m.valInput.View())
		b.WriteString("\n")
		if m.errText != "" {
			b.WriteString(m.theme.ErrorText.Render(m.errText))
			b.WriteString("\n")
		}
		b.WriteString(m.theme.ListMeta.Render("enter save · tab switch field · esc cancel"))
		return m.theme.PanelBox.Width(m.width - 2).Render(b.String())
	}

	if len(m.memories) == 0 {
		b.WriteString(m.theme.EmptyState.Render("No memories. Press a to add one."))
	}
	for i, mem := range m.memories {
		line := m.theme.FieldLabel.Render(mem.Key) + "  " +
			util.TruncateWidth(util.CollapseWhitespace(mem.Value), m.width-20)
		if i == m.cursor {
			b.WriteString(m.theme.ListSelected.Render(line))
		} else {
			b.WriteString(m.theme.ListItem.Render(line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.theme.ListMeta.Render("a add · enter edit · d delete"))

	return m.theme.PanelBox.Width(m.width - 2).Render(b.String())
}
