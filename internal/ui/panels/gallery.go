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

// DeleteImageMsg asks the controller to delete a gallery image.
type DeleteImageMsg struct{ ImageID string }

// Gallery lists generated images, filterable by prompt.
type Gallery struct {
	theme  *styles.Theme
	filter textinput.Model

	images   []*model.ImageGeneration
	filtered []*model.ImageGeneration
	cursor   int
	width    int
	height   int
}

// NewGallery creates the gallery panel.
func NewGallery(theme *styles.Theme) *Gallery {
	filter := textinput.New()
	filter.Placeholder = "filter by prompt…"
	filter.Prompt = "/ "
	return &Gallery{theme: theme, filter: filter}
}

// SetImages replaces the image list.
func (g *Gallery) SetImages(images []*model.ImageGeneration) {
	g.images = images
	g.applyFilter()
}

// SetSize resizes the panel.
func (g *Gallery) SetSize(width, height int) {
	g.width = width
	g.height = height
	g.filter.Width = width - 8
}

func (g *Gallery) applyFilter() {
	q := strings.ToLower(strings.TrimSpace(g.filter.Value()))
	if q == "" {
		g.filtered = g.images
	} else {
		filtered := make([]*model.ImageGeneration, 0, len(g.images))
		for _, img := range g.images {
			if strings.Contains(strings.ToLower(img.Prompt), q) {
				filtered = append(filtered, img)
			}
		}
		g.filtered = filtered
	}
	if g.cursor >= len(g.filtered) {
		g.cursor = len(g.filtered) - 1
	}
	if g.cursor < 0 {
		g.cursor = 0
	}
}

// Update handles gallery keys.
func (g *Gallery) Update(msg tea.Msg) tea.Cmd {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}

	if g.filter.Focused() {
		switch key.String() {
		case "enter", "esc":
			g.filter.Blur()
			return nil
		default:
			var cmd tea.Cmd
			g.filter, cmd = g.filter.Update(msg)
			g.applyFilter()
			return cmd
		}
	}

	switch key.String() {
	case "up", "k":
		if g.cursor > 0 {
			g.cursor--
		}
	case "down", "j":
		if g.cursor < len(g.filtered)-1 {
			g.cursor++
		}
	case "d", "delete":
		if g.cursor < len(g.filtered) {
			id := g.filtered[g.cursor].ID
			return func() tea.Msg { return DeleteImageMsg{ImageID: id} }
		}
	case "/":
		g.filter.Focus()
		return textinput.Blink
	}
	return nil
}

// View renders the gallery list.
func (g *Gallery) View() string {
	var b strings.Builder
	b.WriteString(g.theme.PanelTitle.Render(fmt.Sprintf("Gallery (%d)", len(g.filtered))))
	b.WriteString("\n")
	b.WriteString(g.filter.View())
	b.WriteString("\n\n")

	if len(g.filtered) == 0 {
		b.WriteString(g.theme.EmptyState.Render("No images yet. Use /img <prompt> in a chat."))
	}

	for i, img := range g.filtered {
		prompt := util.TruncateWidth(img.Prompt, g.width-24)
		meta := g.theme.ListMeta.Render(img.Timestamp.Format("Jan 2 15:04") + " · " + img.Model)
		line := prompt + "  " + meta
		if i == g.cursor {
			b.WriteString(g.theme.ListSelected.Render(line))
			b.WriteString("\n")
			b.WriteString(g.theme.ListMeta.Render("  " + img.URL))
		} else {
			b.WriteString(g.theme.ListItem.Render(line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(g.theme.ListMeta.Render("d delete · / filter"))

	return g.theme.PanelBox.Width(g.width - 2).Render(b.String())
}
