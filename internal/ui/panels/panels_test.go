// Copyright (c) 2025 Onyx Labs
// SPDX-License-Identifier: MIT

package panels

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/onyxlabs/onyx-tui/internal/model"
	"github.com/onyxlabs/onyx-tui/internal/search"
	"github.com/onyxlabs/onyx-tui/internal/store"
	"github.com/onyxlabs/onyx-tui/internal/ui/styles"
)

func keyMsg(s string) tea.KeyMsg {
	if len(s) == 1 {
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// runCmd executes a command and returns the message it produces.
func runCmd(t *testing.T, cmd tea.Cmd) tea.Msg {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a command, got nil")
	}
	return cmd()
}

func TestSidebarSelectEmitsChatID(t *testing.T) {
	s := NewSidebar(styles.NewTheme())
	s.SetSize(30, 24)
	s.Focus()

	first := model.NewChat()
	second := model.NewChat()
	s.SetChats([]*model.Chat{first, second}, first.ID)

	s.Update(keyMsg("down"))
	msg := runCmd(t, s.Update(keyMsg("enter")))

	sel, ok := msg.(SelectChatMsg)
	if !ok {
		t.Fatalf("expected SelectChatMsg, got %T", msg)
	}
	if sel.ChatID != second.ID {
		t.Errorf("selected chat = %q, want %q", sel.ChatID, second.ID)
	}
}

func TestSidebarNewAndDelete(t *testing.T) {
	s := NewSidebar(styles.NewTheme())
	chat := model.NewChat()
	s.SetChats([]*model.Chat{chat}, chat.ID)

	if _, ok := runCmd(t, s.Update(keyMsg("n"))).(NewChatMsg); !ok {
		t.Error("n should emit NewChatMsg")
	}
	msg := runCmd(t, s.Update(keyMsg("d")))
	del, ok := msg.(DeleteChatMsg)
	if !ok {
		t.Fatalf("expected DeleteChatMsg, got %T", msg)
	}
	if del.ChatID != chat.ID {
		t.Errorf("delete target = %q, want %q", del.ChatID, chat.ID)
	}
}

func TestSidebarFilterNarrowsList(t *testing.T) {
	s := NewSidebar(styles.NewTheme())
	a := model.NewChat()
	a.SetTitle("Trip to Iceland")
	b := model.NewChat()
	b.SetTitle("Sourdough starter")
	s.SetChats([]*model.Chat{a, b}, "")

	s.Update(keyMsg("/"))
	for _, r := range "iceland" {
		s.Update(keyMsg(string(r)))
	}

	if len(s.filtered) != 1 {
		t.Fatalf("filtered = %d chats, want 1", len(s.filtered))
	}
	if s.filtered[0].ID != a.ID {
		t.Errorf("filter kept wrong chat: %q", s.filtered[0].GetTitle())
	}
}

func TestGalleryDeleteEmitsImageID(t *testing.T) {
	g := NewGallery(styles.NewTheme())
	img := model.NewImageGeneration("https://example.com/img", "a fox", "flux", "")
	g.SetImages([]*model.ImageGeneration{img})

	msg := runCmd(t, g.Update(keyMsg("d")))
	del, ok := msg.(DeleteImageMsg)
	if !ok {
		t.Fatalf("expected DeleteImageMsg, got %T", msg)
	}
	if del.ImageID != img.ID {
		t.Errorf("delete target = %q, want %q", del.ImageID, img.ID)
	}
}

func TestMemoryAddRequiresBothFields(t *testing.T) {
	m := NewMemory(styles.NewTheme())
	m.SetSize(60, 24)

	m.Update(keyMsg("a"))
	for _, r := range "diet" {
		m.Update(keyMsg(string(r)))
	}
	m.Update(keyMsg("enter")) // to value field

	// Empty value must be rejected.
	if cmd := m.Update(keyMsg("enter")); cmd != nil {
		t.Fatal("empty value should not emit a command")
	}
	if m.errText == "" {
		t.Error("expected a validation error for empty value")
	}

	for _, r := range "vegetarian" {
		m.Update(keyMsg(string(r)))
	}
	msg := runCmd(t, m.Update(keyMsg("enter")))
	add, ok := msg.(AddMemoryMsg)
	if !ok {
		t.Fatalf("expected AddMemoryMsg, got %T", msg)
	}
	if add.Key != "diet" || add.Value != "vegetarian" {
		t.Errorf("AddMemoryMsg = %+v", add)
	}
}

func TestMemoryEditEmitsUpdate(t *testing.T) {
	m := NewMemory(styles.NewTheme())
	m.SetSize(60, 24)
	mem := model.NewMemory("diet", "vegetarian")
	m.SetMemories([]*model.Memory{mem})

	m.Update(keyMsg("enter")) // edit selected
	m.Update(keyMsg("enter")) // keep key, move to value
	m.Update(keyMsg("!"))
	msg := runCmd(t, m.Update(keyMsg("enter")))

	upd, ok := msg.(UpdateMemoryMsg)
	if !ok {
		t.Fatalf("expected UpdateMemoryMsg, got %T", msg)
	}
	if upd.ID != mem.ID {
		t.Errorf("update target = %q, want %q", upd.ID, mem.ID)
	}
	if upd.Value != "vegetarian!" {
		t.Errorf("value = %q, want %q", upd.Value, "vegetarian!")
	}
}

func TestMemoryDeleteEmitsID(t *testing.T) {
	m := NewMemory(styles.NewTheme())
	mem := model.NewMemory("k", "v")
	m.SetMemories([]*model.Memory{mem})

	msg := runCmd(t, m.Update(keyMsg("d")))
	del, ok := msg.(DeleteMemoryMsg)
	if !ok {
		t.Fatalf("expected DeleteMemoryMsg, got %T", msg)
	}
	if del.ID != mem.ID {
		t.Errorf("delete target = %q, want %q", del.ID, mem.ID)
	}
}

func TestSearchEmitsQueryPerKeystroke(t *testing.T) {
	s := NewSearch(styles.NewTheme())
	s.SetSize(60, 24)

	cmd := s.Update(keyMsg("i"))
	msg := cmd()
	// The batch contains the blink and the search message; unwrap by
	// checking both shapes.
	if run, ok := msg.(RunSearchMsg); ok {
		if run.Query != "i" {
			t.Errorf("query = %q, want %q", run.Query, "i")
		}
		return
	}
	batch, ok := msg.(tea.BatchMsg)
	if !ok {
		t.Fatalf("expected RunSearchMsg or batch, got %T", msg)
	}
	for _, c := range batch {
		if run, ok := c().(RunSearchMsg); ok {
			if run.Query != "i" {
				t.Errorf("query = %q, want %q", run.Query, "i")
			}
			return
		}
	}
	t.Error("no RunSearchMsg in batch")
}

func TestSearchViewShowsResultCount(t *testing.T) {
	s := NewSearch(styles.NewTheme())
	s.SetSize(60, 24)

	s.Update(keyMsg("x"))
	s.SetResults(search.Results{Chats: []search.ChatHit{}, Images: nil, Memories: nil})
	view := s.View()
	if !strings.Contains(view, "0 results") {
		t.Errorf("view should report 0 results:\n%s", view)
	}
}

func TestSettingsCycleTogglesMemories(t *testing.T) {
	p := NewSettings(styles.NewTheme())
	p.SetSettings(store.DefaultSettings(), nil, false)
	p.cursor = fieldMemories

	msg := runCmd(t, p.Update(keyMsg("right")))
	changed, ok := msg.(SettingsChangedMsg)
	if !ok {
		t.Fatalf("expected SettingsChangedMsg, got %T", msg)
	}
	if changed.Settings.MemoriesEnabled {
		t.Error("memories should toggle off")
	}
}

func TestSettingsCycleTogglesSearchModes(t *testing.T) {
	p := NewSettings(styles.NewTheme())
	p.SetSettings(store.DefaultSettings(), nil, false)

	p.cursor = fieldWebSearch
	msg := runCmd(t, p.Update(keyMsg("right")))
	changed, ok := msg.(SettingsChangedMsg)
	if !ok {
		t.Fatalf("expected SettingsChangedMsg, got %T", msg)
	}
	if !changed.Settings.WebSearch {
		t.Error("web search should toggle on")
	}

	p.cursor = fieldDeepSearch
	changed = runCmd(t, p.Update(keyMsg("enter"))).(SettingsChangedMsg)
	if !changed.Settings.DeepSearch {
		t.Error("deep search should toggle on")
	}
}

func TestSettingsExportMarkdownEmits(t *testing.T) {
	p := NewSettings(styles.NewTheme())
	p.SetSettings(store.DefaultSettings(), nil, false)
	p.cursor = fieldExportMarkdown

	if _, ok := runCmd(t, p.Update(keyMsg("enter"))).(ExportMarkdownMsg); !ok {
		t.Error("enter on the Markdown row should emit ExportMarkdownMsg")
	}
}

func TestSettingsTemperatureEditClamps(t *testing.T) {
	p := NewSettings(styles.NewTheme())
	p.SetSettings(store.DefaultSettings(), nil, false)
	p.cursor = fieldTemperature

	p.Update(keyMsg("enter"))
	p.input.SetValue("9.5")
	msg := runCmd(t, p.Update(keyMsg("enter")))

	changed, ok := msg.(SettingsChangedMsg)
	if !ok {
		t.Fatalf("expected SettingsChangedMsg, got %T", msg)
	}
	if changed.Settings.Temperature != store.MaxTemperature {
		t.Errorf("temperature = %v, want clamped to %v", changed.Settings.Temperature, store.MaxTemperature)
	}
}

func TestSettingsMaxTokensRejectsGarbage(t *testing.T) {
	p := NewSettings(styles.NewTheme())
	p.SetSettings(store.DefaultSettings(), nil, false)
	p.cursor = fieldMaxTokens

	p.Update(keyMsg("enter"))
	p.input.SetValue("lots")
	if cmd := p.Update(keyMsg("enter")); cmd != nil {
		t.Error("non-numeric max tokens should not emit a command")
	}
	if p.errText == "" {
		t.Error("expected a validation error")
	}
}

func TestSettingsRegisterCustomModel(t *testing.T) {
	p := NewSettings(styles.NewTheme())
	p.SetSettings(store.DefaultSettings(), nil, false)
	p.cursor = fieldCustomModel

	p.Update(keyMsg("enter"))
	p.input.SetValue("openrouter:deepseek/deepseek-chat")
	msg := runCmd(t, p.Update(keyMsg("enter")))

	reg, ok := msg.(RegisterModelMsg)
	if !ok {
		t.Fatalf("expected RegisterModelMsg, got %T", msg)
	}
	if reg.ID != "openrouter:deepseek/deepseek-chat" {
		t.Errorf("model ID = %q", reg.ID)
	}
}

func TestSettingsSignInAndOut(t *testing.T) {
	p := NewSettings(styles.NewTheme())
	p.SetSettings(store.DefaultSettings(), nil, false)
	p.cursor = fieldAPIKey

	p.Update(keyMsg("enter"))
	p.input.SetValue("sk-test")
	msg := runCmd(t, p.Update(keyMsg("enter")))
	signIn, ok := msg.(SignInMsg)
	if !ok {
		t.Fatalf("expected SignInMsg, got %T", msg)
	}
	if signIn.Key != "sk-test" {
		t.Errorf("key = %q", signIn.Key)
	}

	p.SetSettings(store.DefaultSettings(), nil, true)
	if _, ok := runCmd(t, p.Update(keyMsg("enter"))).(SignOutMsg); !ok {
		t.Error("enter while signed in should emit SignOutMsg")
	}
}
