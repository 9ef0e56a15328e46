// Copyright (c) 2025 Onyx Labs
// SPDX-License-Identifier: MIT

package chat

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/onyxlabs/onyx-tui/internal/model"
	"github.com/onyxlabs/onyx-tui/internal/ui/components"
	"github.com/onyxlabs/onyx-tui/internal/ui/styles"
)

// View is the main chat panel: a scrollable transcript above a prompt
// input. It renders whatever chat the controller hands it; all state
// mutation happens in the controller.
type View struct {
	theme    *styles.Theme
	viewport viewport.Model
	input    textinput.Model
	spinner  spinner.Model
	markdown *components.MarkdownRenderer

	chat           *model.Chat
	width          int
	height         int
	busy           bool
	renderMarkdown bool
	showTimestamps bool
}

// NewView creates the chat view.
func NewView(theme *styles.Theme, renderMarkdown, showTimestamps bool) *View {
	input := textinput.New()
	input.Placeholder = "Message Onyx, /img <prompt> for an image, /attach <file> to attach…"
	input.Prompt = "> "
	input.CharLimit = 0
	input.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = theme.Spinner

	return &View{
		theme:          theme,
		viewport:       viewport.New(80, 20),
		input:          input,
		spinner:        sp,
		markdown:       components.NewMarkdownRenderer(76, theme.IsDark),
		renderMarkdown: renderMarkdown,
		showTimestamps: showTimestamps,
	}
}

// SetSize resizes the transcript and input areas.
func (v *View) SetSize(width, height int) {
	v.width = width
	v.height = height
	v.viewport.Width = width
	// Input row, its border, and a header row.
	v.viewport.Height = height - 4
	if v.viewport.Height < 3 {
		v.viewport.Height = 3
	}
	v.input.Width = width - 4
	v.markdown.SetWidth(width - 4)
	v.Refresh()
}

// SetChat swaps the displayed chat and scrolls to the bottom.
func (v *View) SetChat(chat *model.Chat) {
	v.chat = chat
	v.Refresh()
	v.viewport.GotoBottom()
}

// SetBusy toggles the in-flight indicator and input availability.
func (v *View) SetBusy(busy bool) {
	v.busy = busy
}

// Busy reports whether a submission is in flight.
func (v *View) Busy() bool { return v.busy }

// Input returns the current prompt text.
func (v *View) Input() string { return v.input.Value() }

// SetInput replaces the prompt text.
func (v *View) SetInput(s string) { v.input.SetValue(s) }

// ClearInput clears the prompt line.
func (v *View) ClearInput() { v.input.SetValue("") }

// SpinnerTick returns the spinner's tick command.
func (v *View) SpinnerTick() tea.Cmd { return v.spinner.Tick }

// Update handles input and viewport events.
func (v *View) Update(msg tea.Msg) tea.Cmd {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case spinner.TickMsg:
		v.spinner, cmd = v.spinner.Update(msg)
		if v.busy {
			cmds = append(cmds, cmd)
		}
	case tea.KeyMsg:
		if !v.busy {
			v.input, cmd = v.input.Update(msg)
			cmds = append(cmds, cmd)
		}
		v.viewport, cmd = v.viewport.Update(msg)
		cmds = append(cmds, cmd)
	default:
		v.viewport, cmd = v.viewport.Update(msg)
		cmds = append(cmds, cmd)
	}

	return tea.Batch(cmds...)
}

// Refresh re-renders the transcript. Call after the chat mutates.
func (v *View) Refresh() {
	if v.chat == nil {
		v.viewport.SetContent(v.theme.EmptyState.Render("No chat selected. Press ctrl+n to start one."))
		return
	}

	atBottom := v.viewport.AtBottom()

	var b strings.Builder
	for i, msg := range v.chat.Messages {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(v.renderMessage(msg))
		b.WriteString("\n")
	}
	v.viewport.SetContent(b.String())

	// Stay pinned to the bottom while streaming.
	if atBottom {
		v.viewport.GotoBottom()
	}
}

// renderMessage renders one message with role header and content.
func (v *View) renderMessage(msg *model.Message) string {
	header := v.theme.InputPrompt.Render(msg.Role.DisplayName())
	if v.showTimestamps {
		header += " " + v.theme.MessageMeta.Render(msg.Timestamp.Format("15:04"))
	}

	content := msg.GetDisplayContent()
	width := v.width - 4
	if width < 20 {
		width = 20
	}

	var body string
	switch {
	case msg.HasImage():
		link := v.theme.ImageLink.Render(msg.ImageURL)
		body = v.theme.AssistantBubble.Render(msg.Content + "\n" + link)
	case msg.IsError:
		body = v.theme.ErrorBubble.Render(components.WrapText(content, width))
	case msg.Role == model.RoleUser:
		body = v.theme.UserBubble.Render(components.WrapText(content, width))
	default:
		if v.renderMarkdown && !msg.IsStreaming {
			body = v.theme.AssistantBubble.Render(strings.TrimRight(v.markdown.Render(content), "\n"))
		} else {
			// Streaming text renders raw; markdown needs the whole
			// document to format fences correctly.
			body = v.theme.AssistantBubble.Render(components.RenderCodeBlocks(v.theme, content, width))
		}
	}

	return header + "\n" + body
}

// View renders the full chat panel.
func (v *View) View() string {
	var title string
	if v.chat != nil {
		title = v.chat.GetTitle()
	} else {
		title = "onyx"
	}
	header := v.theme.Header.Render(title)

	inputLine := v.input.View()
	if v.busy {
		inputLine = v.spinner.View() + " " + v.theme.ThinkingText.Render("thinking…")
	}
	input := v.theme.InputContainer.Width(v.width - 2).Render(inputLine)

	return lipgloss.JoinVertical(lipgloss.Left, header, v.viewport.View(), input)
}

// ScrollInfo returns a short position indicator for the status bar.
func (v *View) ScrollInfo() string {
	return fmt.Sprintf("%3.0f%%", v.viewport.ScrollPercent()*100)
}
