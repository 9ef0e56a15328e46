// Copyright (c) 2025 Onyx Labs
// SPDX-License-Identifier: MIT

// Package panels implements the sidebar and the secondary panels
// (gallery, memory, search, settings).
package panels

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/onyxlabs/onyx-tui/internal/model"
	"github.com/onyxlabs/onyx-tui/internal/ui/styles"
	"github.com/onyxlabs/onyx-tui/internal/util"
)

// Section identifies one of the app's panels, navigable from the
// sidebar.
type Section int

const (
	SectionChat Section = iota
	SectionGallery
	SectionMemory
	SectionSearch
	SectionSettings
)

// String returns the sidebar label for a section.
func (s Section) String() string {
	switch s {
	case SectionChat:
		return "Chats"
	case SectionGallery:
		return "Gallery"
	case SectionMemory:
		return "Memory"
	case SectionSearch:
		return "Search"
	case SectionSettings:
		return "Settings"
	default:
		return "?"
	}
}

// Action messages emitted by the sidebar.
type (
	// SelectChatMsg asks the controller to switch to a chat.
	SelectChatMsg struct{ ChatID string }
	// NewChatMsg asks the controller to create a chat.
	NewChatMsg struct{}
	// DeleteChatMsg asks the controller to delete a chat.
	DeleteChatMsg struct{ ChatID string }
	// SwitchSectionMsg asks the controller to show another panel.
	SwitchSectionMsg struct{ Section Section }
)

// Sidebar lists chats with a filter box and section shortcuts.
type Sidebar struct {
	theme  *styles.Theme
	filter textinput.Model

	chats     []*model.Chat
	filtered  []*model.Chat
	cursor    int
	currentID string
	width     int
	height    int
	focused   bool
}

// NewSidebar creates the sidebar.
func NewSidebar(theme *styles.Theme) *Sidebar {
	filter := textinput.New()
	filter.Placeholder = "filter…"
	filter.Prompt = "/ "
	return &Sidebar{theme: theme, filter: filter}
}

// SetChats replaces the chat list, keeping the cursor in range.
func (s *Sidebar) SetChats(chats []*model.Chat, currentID string) {
	s.chats = chats
	s.currentID = currentID
	s.applyFilter()
}

// SetSize resizes the sidebar.
func (s *Sidebar) SetSize(width, height int) {
	s.width = width
	s.height = height
	s.filter.Width = width - 4
}

// Focus gives the sidebar keyboard focus.
func (s *Sidebar) Focus() { s.focused = true }

// Blur removes keyboard focus from the sidebar and its filter.
func (s *Sidebar) Blur() { s.focused = false; s.filter.Blur() }

// Focused reports whether the sidebar has keyboard focus.
func (s *Sidebar) Focused() bool { return s.focused }

// applyFilter recomputes the visible chat list.
func (s *Sidebar) applyFilter() {
	q := strings.ToLower(strings.TrimSpace(s.filter.Value()))
	if q == "" {
		s.filtered = s.chats
	} else {
		s.filtered = s.filtered[:0]
		filtered := make([]*model.Chat, 0, len(s.chats))
		for _, c := range s.chats {
			if strings.Contains(strings.ToLower(c.GetTitle()), q) {
				filtered = append(filtered, c)
			}
		}
		s.filtered = filtered
	}
	if s.cursor >= len(s.filtered) {
		s.cursor = len(s.filtered) - 1
	}
	if s.cursor < 0 {
		s.cursor = 0
	}
}

// Update handles sidebar keys. Returned commands carry action
// messages for the controller.
func (s *Sidebar) Update(msg tea.Msg) tea.Cmd {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}

	if s.filter.Focused() {
		switch key.String() {
		case "enter", "esc":
			s.filter.Blur()
			return nil
		default:
			var cmd tea.Cmd
			s.filter, cmd = s.filter.Update(msg)
			s.applyFilter()
			return cmd
		}
	}

	switch key.String() {
	case "up", "k":
		if s.cursor > 0 {
			s.cursor--
		}
	case "down", "j":
		if s.cursor < len(s.filtered)-1 {
			s.cursor++
		}
	case "enter":
		if s.cursor < len(s.filtered) {
			id := s.filtered[s.cursor].ID
			return func() tea.Msg { return SelectChatMsg{ChatID: id} }
		}
	case "n":
		return func() tea.Msg { return NewChatMsg{} }
	case "d", "delete":
		if s.cursor < len(s.filtered) {
			id := s.filtered[s.cursor].ID
			return func() tea.Msg { return DeleteChatMsg{ChatID: id} }
		}
	case "/":
		s.filter.Focus()
		return textinput.Blink
	}
	return nil
}

// View renders the sidebar.
func (s *Sidebar) View() string {
	var b strings.Builder

	b.WriteString(s.theme.SidebarSection.Render("Chats"))
	b.WriteString("\n")
	b.WriteString(s.filter.View())
	b.WriteString("\n\n")

	if len(s.filtered) == 0 {
		b.WriteString(s.theme.SidebarMeta.Render("no chats"))
	}
	maxRows := s.height - 8
	for i, c := range s.filtered {
		if i >= maxRows {
			b.WriteString(s.theme.SidebarMeta.Render(fmt.Sprintf("… %d more", len(s.filtered)-maxRows)))
			break
		}
		title := util.TruncateWidth(c.GetTitle(), s.width-6)
		marker := "  "
		if c.ID == s.currentID {
			marker = "· "
		}
		line := marker + title
		if i == s.cursor && s.focused {
			b.WriteString(s.theme.SidebarSelected.Render(line))
		} else {
			b.WriteString(s.theme.SidebarItem.Render(line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(s.theme.SidebarMeta.Render("n new · d delete · / filter"))

	return s.theme.Sidebar.
		Width(s.width).
		Height(s.height).
		Render(lipgloss.NewStyle().MaxWidth(s.width - 2).Render(b.String()))
}
