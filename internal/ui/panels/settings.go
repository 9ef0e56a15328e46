// Copyright (c) 2025 Onyx Labs
// SPDX-License-Identifier: MIT

package panels

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/onyxlabs/onyx-tui/internal/models"
	"github.com/onyxlabs/onyx-tui/internal/store"
	"github.com/onyxlabs/onyx-tui/internal/ui/styles"
)

// Action messages emitted by the settings panel.
type (
	// SettingsChangedMsg carries the full updated settings document.
	SettingsChangedMsg struct{ Settings store.Settings }
	// RegisterModelMsg asks the controller to add a custom model ID.
	RegisterModelMsg struct{ ID string }
	// SignInMsg asks the controller to store an API key for the session.
	SignInMsg struct{ Key string }
	// SignOutMsg asks the controller to drop the session API key.
	SignOutMsg struct{}
	// ExportChatMsg asks the controller to export the current chat.
	ExportChatMsg struct{}
	// ExportMarkdownMsg asks the controller to export the current chat
	// as a Markdown transcript.
	ExportMarkdownMsg struct{}
	// ExportAllMsg asks the controller to export every chat.
	ExportAllMsg struct{}
	// ImportChatsMsg asks the controller to import chats from a file.
	ImportChatsMsg struct{ Path string }
	// ClearDataMsg asks the controller to wipe all stored data.
	ClearDataMsg struct{}
)

// settingsField indexes the rows of the settings panel.
type settingsField int

const (
	fieldTextModel settingsField = iota
	fieldImageModel
	fieldTemperature
	fieldMaxTokens
	fieldSystemPrompt
	fieldTheme
	fieldAccentColor
	fieldBackgroundColor
	fieldMemories
	fieldWebSearch
	fieldDeepSearch
	fieldDebugLogging
	fieldCustomModel
	fieldAPIKey
	fieldExportChat
	fieldExportMarkdown
	fieldExportAll
	fieldImportChats
	fieldClearData
	fieldCount
)

// Settings is the settings panel. It edits a local copy of the
// settings document and emits SettingsChangedMsg on every change; the
// controller persists and applies it.
type Settings struct {
	theme *styles.Theme

	settings     store.Settings
	customModels []string
	signedIn     bool

	cursor  settingsField
	editing bool
	input   textinput.Model
	errText string
	width   int
	height  int
}

// NewSettings creates the settings panel.
func NewSettings(theme *styles.Theme) *Settings {
	input := textinput.New()
	input.Prompt = "> "
	return &Settings{theme: theme, input: input}
}

// SetSettings installs the current settings document.
func (s *Settings) SetSettings(settings store.Settings, customModels []string, signedIn bool) {
	s.settings = settings
	s.customModels = customModels
	s.signedIn = signedIn
}

// SetSize resizes the panel.
func (s *Settings) SetSize(width, height int) {
	s.width = width
	s.height = height
	s.input.Width = width - 12
}

// Editing reports whether the inline value editor is open.
func (s *Settings) Editing() bool { return s.editing }

// changed emits the updated settings document.
func (s *Settings) changed() tea.Cmd {
	settings := s.settings
	return func() tea.Msg { return SettingsChangedMsg{Settings: settings} }
}

// cycleModel moves a model picker by delta, wrapping around.
func cycleModel(current string, catalog []models.Model, delta int) string {
	if len(catalog) == 0 {
		return current
	}
	idx := 0
	for i, m := range catalog {
		if m.ID == current {
			idx = i
			break
		}
	}
	idx = (idx + delta + len(catalog)) % len(catalog)
	return catalog[idx].ID
}

// cycle adjusts the field under the cursor by delta (left/right keys).
func (s *Settings) cycle(delta int) tea.Cmd {
	switch s.cursor {
	case fieldTextModel:
		s.settings.TextModel = cycleModel(s.settings.TextModel, models.AllTextModels(s.customModels), delta)
	case fieldImageModel:
		s.settings.ImageModel = cycleModel(s.settings.ImageModel, models.ImageModels, delta)
	case fieldTemperature:
		s.settings.Temperature += float64(delta) * 0.1
		s.settings.Normalize()
	case fieldMaxTokens:
		s.settings.MaxTokens += delta * 256
		s.settings.Normalize()
	case fieldTheme:
		if s.settings.Theme == "light" {
			s.settings.Theme = "dark"
		} else {
			s.settings.Theme = "light"
		}
	case fieldMemories:
		s.settings.MemoriesEnabled = !s.settings.MemoriesEnabled
	case fieldWebSearch:
		s.settings.WebSearch = !s.settings.WebSearch
	case fieldDeepSearch:
		s.settings.DeepSearch = !s.settings.DeepSearch
	case fieldDebugLogging:
		s.settings.DebugLogging = !s.settings.DebugLogging
	default:
		return nil
	}
	return s.changed()
}

// startEdit opens the inline editor for fields with free-form values.
func (s *Settings) startEdit() tea.Cmd {
	s.errText = ""
	switch s.cursor {
	case fieldTemperature:
		s.input.SetValue(strconv.FormatFloat(s.settings.Temperature, 'f', -1, 64))
	case fieldMaxTokens:
		s.input.SetValue(strconv.Itoa(s.settings.MaxTokens))
	case fieldSystemPrompt:
		s.input.SetValue(s.settings.SystemPrompt)
	case fieldAccentColor:
		s.input.SetValue(s.settings.AccentColor)
	case fieldBackgroundColor:
		s.input.SetValue(s.settings.BackgroundColor)
	case fieldCustomModel, fieldAPIKey, fieldImportChats:
		s.input.SetValue("")
	default:
		return nil
	}
	s.editing = true
	s.input.Focus()
	return textinput.Blink
}

// commitEdit validates the inline editor and applies it.
func (s *Settings) commitEdit() tea.Cmd {
	value := strings.TrimSpace(s.input.Value())
	s.editing = false
	s.input.Blur()

	switch s.cursor {
	case fieldTemperature:
		t, err := strconv.ParseFloat(value, 64)
		if err != nil {
			s.errText = "temperature must be a number"
			return nil
		}
		s.settings.Temperature = t
		s.settings.Normalize()
		return s.changed()
	case fieldMaxTokens:
		n, err := strconv.Atoi(value)
		if err != nil || n <= 0 {
			s.errText = "max tokens must be a positive integer"
			return nil
		}
		s.settings.MaxTokens = n
		return s.changed()
	case fieldSystemPrompt:
		s.settings.SystemPrompt = value
		return s.changed()
	case fieldAccentColor:
		s.settings.AccentColor = value
		return s.changed()
	case fieldBackgroundColor:
		s.settings.BackgroundColor = value
		return s.changed()
	case fieldCustomModel:
		if models.Normalize(value) == "" {
			s.errText = "model ID is required"
			return nil
		}
		return func() tea.Msg { return RegisterModelMsg{ID: value} }
	case fieldAPIKey:
		if value == "" {
			s.errText = "API key is required"
			return nil
		}
		return func() tea.Msg { return SignInMsg{Key: value} }
	case fieldImportChats:
		if value == "" {
			s.errText = "file path is required"
			return nil
		}
		return func() tea.Msg { return ImportChatsMsg{Path: value} }
	}
	return nil
}

// activate handles enter on the field under the cursor.
func (s *Settings) activate() tea.Cmd {
	switch s.cursor {
	case fieldTextModel, fieldImageModel:
		return s.cycle(1)
	case fieldTheme, fieldMemories, fieldWebSearch, fieldDeepSearch, fieldDebugLogging:
		return s.cycle(1)
	case fieldAPIKey:
		if s.signedIn {
			return func() tea.Msg { return SignOutMsg{} }
		}
		return s.startEdit()
	case fieldExportChat:
		return func() tea.Msg { return ExportChatMsg{} }
	case fieldExportMarkdown:
		return func() tea.Msg { return ExportMarkdownMsg{} }
	case fieldExportAll:
		return func() tea.Msg { return ExportAllMsg{} }
	case fieldClearData:
		return func() tea.Msg { return ClearDataMsg{} }
	default:
		return s.startEdit()
	}
}

// Update handles settings panel keys.
func (s *Settings) Update(msg tea.Msg) tea.Cmd {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return nil
	}

	if s.editing {
		switch key.String() {
		case "esc":
			s.editing = false
			s.input.Blur()
			return nil
		case "enter":
			return s.commitEdit()
		default:
			var cmd tea.Cmd
			s.input, cmd = s.input.Update(msg)
			return cmd
		}
	}

	switch key.String() {
	case "up", "k":
		if s.cursor > 0 {
			s.cursor--
		}
	case "down", "j":
		if s.cursor < fieldCount-1 {
			s.cursor++
		}
	case "left", "h":
		return s.cycle(-1)
	case "right", "l":
		return s.cycle(1)
	case "enter":
		return s.activate()
	}
	return nil
}

// fieldRow returns the label and current value for one row.
func (s *Settings) fieldRow(f settingsField) (string, string) {
	switch f {
	case fieldTextModel:
		return "Text model", models.DisplayName(s.settings.TextModel)
	case fieldImageModel:
		return "Image model", models.DisplayName(s.settings.ImageModel)
	case fieldTemperature:
		return "Temperature", strconv.FormatFloat(s.settings.Temperature, 'f', 1, 64)
	case fieldMaxTokens:
		return "Max tokens", strconv.Itoa(s.settings.MaxTokens)
	case fieldSystemPrompt:
		return "System prompt", s.settings.SystemPrompt
	case fieldTheme:
		if s.settings.Theme == "" {
			return "Theme", "dark"
		}
		return "Theme", s.settings.Theme
	case fieldAccentColor:
		return "Accent color", orDefault(s.settings.AccentColor, "default")
	case fieldBackgroundColor:
		return "Background color", orDefault(s.settings.BackgroundColor, "default")
	case fieldMemories:
		return "Memories", onOff(s.settings.MemoriesEnabled)
	case fieldWebSearch:
		return "Web search", onOff(s.settings.WebSearch)
	case fieldDeepSearch:
		return "Deep search", onOff(s.settings.DeepSearch)
	case fieldDebugLogging:
		return "Debug logging", onOff(s.settings.DebugLogging)
	case fieldCustomModel:
		return "Add custom model", fmt.Sprintf("%d registered", len(s.customModels))
	case fieldAPIKey:
		if s.signedIn {
			return "API key", "signed in (enter to sign out)"
		}
		return "API key", "not set (enter to sign in)"
	case fieldExportChat:
		return "Export current chat", ""
	case fieldExportMarkdown:
		return "Export as Markdown", ""
	case fieldExportAll:
		return "Export all chats", ""
	case fieldImportChats:
		return "Import chats", ""
	case fieldClearData:
		return "Clear all data", ""
	default:
		return "?", ""
	}
}

func orDefault(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}

// View renders the settings panel.
func (s *Settings) View() string {
	var b strings.Builder
	b.WriteString(s.theme.PanelTitle.Render("Settings"))
	b.WriteString("\n\n")

	for f := settingsField(0); f < fieldCount; f++ {
		label, value := s.fieldRow(f)
		line := s.theme.FieldLabel.Render(fmt.Sprintf("%-20s", label))
		if value != "" {
			line += " " + s.theme.FieldValue.Render(value)
		}
		if f == s.cursor {
			b.WriteString(s.theme.ListSelected.Render(line))
		} else {
			b.WriteString(s.theme.ListItem.Render(line))
		}
		b.WriteString("\n")
	}

	if s.editing {
		b.WriteString("\n")
		b.WriteString(s.input.View())
		b.WriteString("\n")
	}
	if s.errText != "" {
		b.WriteString("\n")
		b.WriteString(s.theme.ErrorText.Render(s.errText))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(s.theme.ListMeta.Render("←/→ adjust · enter edit/apply · esc cancel"))

	return s.theme.PanelBox.Width(s.width - 2).Render(b.String())
}
