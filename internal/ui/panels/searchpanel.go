// Copyright (c) 2025 Onyx Labs
// SPDX-License-Identifier: MIT

package panels

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/onyxlabs/onyx-tui/internal/search"
	"github.com/onyxlabs/onyx-tui/internal/ui/styles"
	"github.com/onyxlabs/onyx-tui/internal/util"
)

// RunSearchMsg asks the controller to run a search and hand the
// results back via SetResults.
type RunSearchMsg struct{ Query string }

// Search is the cross-collection search panel. It owns only the query
// input; the controller runs the query against its live state.
type Search struct {
	theme *styles.Theme
	input textinput.Model

	results  search.Results
	searched bool
	width    int
	height   int
}

// NewSearch creates the search panel with the query input focused.
func NewSearch(theme *styles.Theme) *Search {
	input := textinput.New()
	input.Placeholder = "search chats, images, and memories…"
	input.Prompt = "? "
	input.Focus()
	return &Search{theme: theme, input: input}
}

// SetSize resizes the panel.
func (s *Search) SetSize(width, height int) {
	s.width = width
	s.height = height
	s.input.Width = width - 8
}

// SetResults installs the results for the last query.
func (s *Search) SetResults(results search.Results) {
	s.results = results
	s.searched = true
}

// Reset clears the query and results, e.g. when the panel reopens.
func (s *Search) Reset() {
	s.input.SetValue("")
	s.input.Focus()
	s.results = search.Results{}
	s.searched = false
}

// Update handles query editing. Every keystroke re-runs the search so
// results track the input live.
func (s *Search) Update(msg tea.Msg) tea.Cmd {
	if _, ok := msg.(tea.KeyMsg); !ok {
		return nil
	}

	var cmd tea.Cmd
	before := s.input.Value()
	s.input, cmd = s.input.Update(msg)
	if s.input.Value() == before {
		return cmd
	}

	q := s.input.Value()
	return tea.Batch(cmd, func() tea.Msg { return RunSearchMsg{Query: q} })
}

// View renders the three result sections.
func (s *Search) View() string {
	var b strings.Builder
	b.WriteString(s.theme.PanelTitle.Render("Search"))
	b.WriteString("\n")
	b.WriteString(s.input.View())
	b.WriteString("\n\n")

	if !s.searched || strings.TrimSpace(s.input.Value()) == "" {
		b.WriteString(s.theme.EmptyState.Render("Type to search across chats, images, and memories."))
		return s.theme.PanelBox.Width(s.width - 2).Render(b.String())
	}

	total := s.results.Total()
	if total == 0 {
		b.WriteString(s.theme.ListMeta.Render("0 results"))
		return s.theme.PanelBox.Width(s.width - 2).Render(b.String())
	}
	b.WriteString(s.theme.ListMeta.Render(fmt.Sprintf("%d results", total)))
	b.WriteString("\n")

	lineWidth := s.width - 10
	if lineWidth < 20 {
		lineWidth = 20
	}

	if len(s.results.Chats) > 0 {
		b.WriteString("\n")
		b.WriteString(s.theme.FieldLabel.Render(fmt.Sprintf("Chats (%d)", len(s.results.Chats))))
		b.WriteString("\n")
		for _, hit := range s.results.Chats {
			b.WriteString(s.theme.ListItem.Render(util.TruncateWidth(hit.Chat.GetTitle(), lineWidth)))
			b.WriteString("\n")
			if hit.Snippet != "" {
				snippet := util.TruncateWidth(util.CollapseWhitespace(hit.Snippet), lineWidth-2)
				b.WriteString(s.theme.ListMeta.Render("  " + snippet))
				b.WriteString("\n")
			}
		}
	}

	if len(s.results.Images) > 0 {
		b.WriteString("\n")
		b.WriteString(s.theme.FieldLabel.Render(fmt.Sprintf("Images (%d)", len(s.results.Images))))
		b.WriteString("\n")
		for _, img := range s.results.Images {
			b.WriteString(s.theme.ListItem.Render(util.TruncateWidth(img.Prompt, lineWidth)))
			b.WriteString("\n")
		}
	}

	if len(s.results.Memories) > 0 {
		b.WriteString("\n")
		b.WriteString(s.theme.FieldLabel.Render(fmt.Sprintf("Memories (%d)", len(s.results.Memories))))
		b.WriteString("\n")
		for _, mem := range s.results.Memories {
			line := mem.Key + ": " + util.CollapseWhitespace(mem.Value)
			b.WriteString(s.theme.ListItem.Render(util.TruncateWidth(line, lineWidth)))
			b.WriteString("\n")
		}
	}

	return s.theme.PanelBox.Width(s.width - 2).Render(b.String())
}
