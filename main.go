// onyx - a terminal chat client with streaming completions, image
// generation, and local persistence.
//
// Copyright (c) 2025 Onyx Labs
// SPDX-License-Identifier: MIT
package main

import (
	"context"
	"encoding/base64"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/onyxlabs/onyx-tui/internal/ai"
	"github.com/onyxlabs/onyx-tui/internal/config"
	"github.com/onyxlabs/onyx-tui/internal/export"
	"github.com/onyxlabs/onyx-tui/internal/imagegen"
	"github.com/onyxlabs/onyx-tui/internal/model"
	"github.com/onyxlabs/onyx-tui/internal/models"
	"github.com/onyxlabs/onyx-tui/internal/persist"
	"github.com/onyxlabs/onyx-tui/internal/search"
	"github.com/onyxlabs/onyx-tui/internal/store"
	"github.com/onyxlabs/onyx-tui/internal/ui/chat"
	"github.com/onyxlabs/onyx-tui/internal/ui/components"
	"github.com/onyxlabs/onyx-tui/internal/ui/panels"
	"github.com/onyxlabs/onyx-tui/internal/ui/styles"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// Global program reference for async streaming
var (
	programRef *tea.Program
	programMu  sync.Mutex
)

// setProgram stores the program so goroutines can deliver messages.
func setProgram(p *tea.Program) {
	programMu.Lock()
	defer programMu.Unlock()
	programRef = p
}

// sendMsg delivers a message to the running program, if any.
func sendMsg(msg tea.Msg) {
	programMu.Lock()
	p := programRef
	programMu.Unlock()
	if p != nil {
		p.Send(msg)
	}
}

const sidebarWidth = 32

// configReloadedMsg is delivered when the config file changes on disk.
type configReloadedMsg struct{ cfg *config.Config }

// =============================================================================
// APP MODEL
// =============================================================================

// App is the root Bubble Tea model. It owns all mutable state; the
// sidebar, chat view, and panels are dumb views that emit action
// messages back here.
type App struct {
	theme *styles.Theme
	log   *slog.Logger

	cfg     *config.Config
	store   *store.Store
	saver   *persist.Saver
	ai      *ai.Client
	images  *imagegen.Client
	watcher *config.Watcher

	// Views
	sidebar    *panels.Sidebar
	chatView   *chat.View
	gallery    *panels.Gallery
	memory     *panels.Memory
	searchView *panels.Search
	settings   *panels.Settings
	toasts     *components.ToastManager

	// State
	chats        []*model.Chat
	currentID    string
	userSettings store.Settings
	customModels []string

	section      panels.Section
	sidebarFocus bool
	width        int
	height       int

	// Attachments queued by /attach for the next submission
	pendingAttachments []*model.Attachment

	// In-flight completion or image generation
	streamCancel context.CancelFunc

	shutdownOnce sync.Once
}

// newApp wires the application together from loaded state.
func newApp(cfg *config.Config, st *store.Store, log *slog.Logger) *App {
	settings := st.GetSettings()

	theme := styles.NewTheme()
	theme.ApplyPalette(styles.Palette{
		Theme:           firstNonEmpty(settings.Theme, cfg.UI.Theme),
		AccentColor:     settings.AccentColor,
		BackgroundColor: settings.BackgroundColor,
	})

	aiClient := ai.NewClient(cfg.API.Key).
		WithBaseURL(cfg.API.BaseURL).
		WithRequestsPerMinute(cfg.API.RequestsPerMinute)
	if aiClient.IsConfigured() {
		aiClient.SignIn()
	}

	app := &App{
		theme:  theme,
		log:    log,
		cfg:    cfg,
		store:  st,
		saver:  persist.NewSaver(st, log),
		ai:     aiClient,
		images: imagegen.NewClient(cfg.Image.BaseURL),

		sidebar:    panels.NewSidebar(theme),
		chatView:   chat.NewView(theme, cfg.UI.MarkdownRendering, cfg.UI.ShowTimestamps),
		gallery:    panels.NewGallery(theme),
		memory:     panels.NewMemory(theme),
		searchView: panels.NewSearch(theme),
		settings:   panels.NewSettings(theme),
		toasts:     components.NewToastManager(),

		chats:        st.GetChats(),
		currentID:    st.GetCurrentChatID(),
		userSettings: settings,
		customModels: st.GetCustomModels(),
	}

	// Seed a first chat when the store is empty, and make sure the
	// current ID points at a chat that exists.
	if len(app.chats) == 0 {
		first := model.NewChat()
		app.chats = []*model.Chat{first}
		app.currentID = first.ID
		app.persist()
	}
	if app.currentChat() == nil {
		app.currentID = app.chats[0].ID
	}

	app.sidebar.SetChats(app.chats, app.currentID)
	app.chatView.SetChat(app.currentChat())
	app.gallery.SetImages(st.GetImages())
	app.memory.SetMemories(st.GetMemories())
	app.settings.SetSettings(settings, app.customModels, aiClient.IsSignedIn())

	return app
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// currentChat returns the chat the currentID points at, or nil.
func (a *App) currentChat() *model.Chat {
	for _, c := range a.chats {
		if c.ID == a.currentID {
			return c
		}
	}
	return nil
}

// persist hands the current state to the debounced saver.
func (a *App) persist() {
	a.saver.Update(a.chats, a.currentID)
}

// persistNow commits the current state immediately, bypassing the
// debounce. Used for user-initiated mutations that must not be lost.
func (a *App) persistNow() {
	a.saver.Update(a.chats, a.currentID)
	a.saver.FlushNow()
}

// shutdown flushes pending writes and releases resources.
func (a *App) shutdown() {
	a.shutdownOnce.Do(func() {
		if a.streamCancel != nil {
			a.streamCancel()
		}
		a.saver.Close()
		if a.watcher != nil {
			a.watcher.Close()
		}
		if err := a.store.Close(); err != nil {
			a.log.Error("failed to close store", "error", err)
		}
	})
}

// =============================================================================
// BUBBLE TEA LIFECYCLE
// =============================================================================

// Init starts the background tickers.
func (a *App) Init() tea.Cmd {
	return components.ToastTickCmd()
}

// Update is the single mutation point for all application state.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.theme.SetSize(msg.Width, msg.Height)
		a.sidebar.SetSize(sidebarWidth, msg.Height-1)
		mainWidth := msg.Width - sidebarWidth
		a.chatView.SetSize(mainWidth, msg.Height-1)
		a.gallery.SetSize(mainWidth, msg.Height-1)
		a.memory.SetSize(mainWidth, msg.Height-1)
		a.searchView.SetSize(mainWidth, msg.Height-1)
		a.settings.SetSize(mainWidth, msg.Height-1)
		return a, nil

	case tea.KeyMsg:
		return a.handleKey(msg)

	case components.ToastTickMsg:
		a.toasts.Tick()
		return a, components.ToastTickCmd()

	case configReloadedMsg:
		return a, a.applyConfig(msg.cfg)

	// Streaming
	case chat.StreamTokenMsg:
		return a, a.handleStreamToken(msg)
	case chat.StreamCompleteMsg:
		return a, a.handleStreamComplete(msg)
	case chat.StreamErrorMsg:
		return a, a.handleStreamError(msg)
	case chat.RegenerateMsg:
		if msg.ChatID == a.currentID {
			return a, a.regenerateFrom(msg.MessageID)
		}
		return a, nil
	case chat.ImageGeneratedMsg:
		return a, a.handleImageGenerated(msg)
	case chat.ImageErrorMsg:
		return a, a.handleImageError(msg)

	// Sidebar actions
	case panels.SelectChatMsg:
		a.selectChat(msg.ChatID)
		return a, nil
	case panels.NewChatMsg:
		a.newChat()
		return a, nil
	case panels.DeleteChatMsg:
		a.deleteChat(msg.ChatID)
		return a, nil
	case panels.SwitchSectionMsg:
		a.switchSection(msg.Section)
		return a, nil

	// Gallery actions
	case panels.DeleteImageMsg:
		if err := a.store.DeleteImage(msg.ImageID); err != nil {
			a.log.Error("failed to delete image", "error", err)
		}
		a.gallery.SetImages(a.store.GetImages())
		return a, nil

	// Memory actions
	case panels.AddMemoryMsg:
		if err := a.store.AddMemory(model.NewMemory(msg.Key, msg.Value)); err != nil {
			a.log.Error("failed to add memory", "error", err)
		}
		a.memory.SetMemories(a.store.GetMemories())
		return a, nil
	case panels.UpdateMemoryMsg:
		a.updateMemory(msg)
		return a, nil
	case panels.DeleteMemoryMsg:
		if err := a.store.DeleteMemory(msg.ID); err != nil {
			a.log.Error("failed to delete memory", "error", err)
		}
		a.memory.SetMemories(a.store.GetMemories())
		return a, nil

	// Search
	case panels.RunSearchMsg:
		a.searchView.SetResults(search.Query(msg.Query, a.chats, a.store.GetImages(), a.store.GetMemories()))
		return a, nil

	// Settings actions
	case panels.SettingsChangedMsg:
		a.applySettings(msg.Settings)
		return a, nil
	case panels.RegisterModelMsg:
		a.registerModel(msg.ID)
		return a, nil
	case panels.SignInMsg:
		a.signIn(msg.Key)
		return a, nil
	case panels.SignOutMsg:
		a.signOut()
		return a, nil
	case panels.ExportChatMsg:
		a.exportCurrentChat()
		return a, nil
	case panels.ExportMarkdownMsg:
		a.exportCurrentChatMarkdown()
		return a, nil
	case panels.ExportAllMsg:
		a.exportAllChats()
		return a, nil
	case panels.ImportChatsMsg:
		a.importChats(msg.Path)
		return a, nil
	case panels.ClearDataMsg:
		a.clearData()
		return a, nil
	}

	return a, a.routeToFocused(msg)
}

// handleKey processes global bindings, then routes to the focused view.
func (a *App) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		a.shutdown()
		return a, tea.Quit

	case "tab":
		// Editing fields capture tab for their own navigation.
		if !a.editingPanel() {
			a.sidebarFocus = !a.sidebarFocus
			if a.sidebarFocus {
				a.sidebar.Focus()
			} else {
				a.sidebar.Blur()
			}
			return a, nil
		}

	case "ctrl+n":
		a.newChat()
		return a, nil

	case "ctrl+r":
		return a, a.regenerateLast()

	case "ctrl+g":
		a.switchSection(panels.SectionGallery)
		return a, nil
	case "ctrl+e":
		a.switchSection(panels.SectionMemory)
		return a, nil
	case "ctrl+f":
		a.switchSection(panels.SectionSearch)
		return a, nil
	case "ctrl+s":
		a.switchSection(panels.SectionSettings)
		return a, nil

	case "esc":
		if a.streamCancel != nil {
			a.streamCancel()
			return a, nil
		}
		if a.section != panels.SectionChat && !a.editingPanel() {
			a.switchSection(panels.SectionChat)
			return a, nil
		}

	case "enter":
		if !a.sidebarFocus && a.section == panels.SectionChat && !a.chatView.Busy() {
			return a, a.submitInput()
		}
	}

	return a, a.routeToFocused(msg)
}

// editingPanel reports whether a panel text field currently owns the
// keyboard, so global bindings like tab and esc stay out of the way.
func (a *App) editingPanel() bool {
	if a.sidebarFocus {
		return false
	}
	switch a.section {
	case panels.SectionMemory:
		return a.memory.Editing()
	case panels.SectionSettings:
		return a.settings.Editing()
	}
	return false
}

// routeToFocused forwards a message to whichever view has focus.
func (a *App) routeToFocused(msg tea.Msg) tea.Cmd {
	if a.sidebarFocus {
		if _, ok := msg.(tea.KeyMsg); ok {
			return a.sidebar.Update(msg)
		}
	}
	switch a.section {
	case panels.SectionGallery:
		return a.gallery.Update(msg)
	case panels.SectionMemory:
		return a.memory.Update(msg)
	case panels.SectionSearch:
		return a.searchView.Update(msg)
	case panels.SectionSettings:
		return a.settings.Update(msg)
	default:
		return a.chatView.Update(msg)
	}
}

// =============================================================================
// CHAT MANAGEMENT
// =============================================================================

func (a *App) selectChat(id string) {
	a.currentID = id
	a.section = panels.SectionChat
	a.chatView.SetChat(a.currentChat())
	a.sidebar.SetChats(a.chats, a.currentID)
	a.persist()
}

func (a *App) newChat() {
	c := model.NewChat()
	a.chats = append([]*model.Chat{c}, a.chats...)
	a.currentID = c.ID
	a.section = panels.SectionChat
	a.chatView.SetChat(c)
	a.sidebar.SetChats(a.chats, a.currentID)
	a.persist()
}

func (a *App) deleteChat(id string) {
	filtered := make([]*model.Chat, 0, len(a.chats))
	for _, c := range a.chats {
		if c.ID != id {
			filtered = append(filtered, c)
		}
	}
	a.chats = filtered
	// Deleting the current chat clears the selection, the same way
	// Store.DeleteChat clears the stored current-chat id.
	if a.currentID == id {
		a.currentID = ""
	}
	a.chatView.SetChat(a.currentChat())
	a.sidebar.SetChats(a.chats, a.currentID)
	a.persistNow()
}

func (a *App) switchSection(s panels.Section) {
	a.section = s
	a.sidebarFocus = false
	a.sidebar.Blur()
	if s == panels.SectionSearch {
		a.searchView.Reset()
	}
	if s == panels.SectionGallery {
		a.gallery.SetImages(a.store.GetImages())
	}
	if s == panels.SectionMemory {
		a.memory.SetMemories(a.store.GetMemories())
	}
	if s == panels.SectionSettings {
		a.settings.SetSettings(a.userSettings, a.customModels, a.ai.IsSignedIn())
	}
}

func (a *App) updateMemory(msg panels.UpdateMemoryMsg) {
	for _, mem := range a.store.GetMemories() {
		if mem.ID == msg.ID {
			mem.Update(msg.Key, msg.Value)
			if err := a.store.UpdateMemory(mem); err != nil {
				a.log.Error("failed to update memory", "error", err)
			}
			break
		}
	}
	a.memory.SetMemories(a.store.GetMemories())
}

// =============================================================================
// SENDING AND STREAMING
// =============================================================================

const (
	imgCommand    = "/img"
	attachCommand = "/attach"
)

// submitInput handles enter on the prompt line.
func (a *App) submitInput() tea.Cmd {
	input := strings.TrimSpace(a.chatView.Input())
	if input == "" && len(a.pendingAttachments) == 0 {
		a.toasts.AddError("Type a message first")
		return nil
	}

	// The /attach command queues a file for the next message.
	if input == attachCommand || strings.HasPrefix(input, attachCommand+" ") {
		a.chatView.ClearInput()
		path := strings.TrimSpace(strings.TrimPrefix(input, attachCommand))
		if path == "" {
			a.toasts.AddError("Usage: /attach <file>")
			return nil
		}
		a.attachFile(path)
		return nil
	}

	c := a.currentChat()
	if c == nil {
		a.newChat()
		c = a.currentChat()
	}

	a.chatView.ClearInput()

	// The /img command routes to image generation instead of chat.
	if input == imgCommand || strings.HasPrefix(input, imgCommand+" ") {
		prompt := strings.TrimSpace(strings.TrimPrefix(input, imgCommand))
		if prompt == "" {
			a.toasts.AddError("Usage: /img <prompt>")
			return nil
		}
		return a.startImageGeneration(c, prompt)
	}

	msg := c.AddUserMessage(input)
	msg.Attachments = a.pendingAttachments
	a.pendingAttachments = nil
	a.sidebar.SetChats(a.chats, a.currentID)
	a.chatView.Refresh()
	a.persistNow()

	return a.startCompletion(c)
}

// attachFile loads a file from disk and queues it for the next
// submission. Images become base64 data URLs; everything else is
// carried as text.
func (a *App) attachFile(path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		a.toasts.AddError("Cannot read " + path)
		return
	}

	mimeType := mime.TypeByExtension(strings.ToLower(filepath.Ext(path)))
	if mimeType == "" {
		mimeType = "text/plain"
	}
	content := string(data)
	if strings.HasPrefix(mimeType, "image/") {
		content = "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data)
	}

	a.pendingAttachments = append(a.pendingAttachments, model.NewAttachment(filepath.Base(path), mimeType, content))
	a.toasts.AddSuccess(fmt.Sprintf("Attached %s (%d pending)", filepath.Base(path), len(a.pendingAttachments)))
}

// startCompletion appends a streaming assistant message and launches
// the completion goroutine for the chat's current history.
func (a *App) startCompletion(c *model.Chat) tea.Cmd {
	if !a.ai.IsConfigured() {
		a.failChat(c, ai.UserMessage(ai.ErrNotConfigured))
		return nil
	}

	req := ai.ChatRequest{
		Model:       a.textModel(c),
		Messages:    a.buildMessages(c),
		Temperature: a.userSettings.Temperature,
		MaxTokens:   a.userSettings.MaxTokens,
	}

	assistant := c.AddAssistantMessage()
	a.chatView.SetBusy(true)
	a.chatView.Refresh()

	ctx, cancel := context.WithCancel(context.Background())
	a.streamCancel = cancel

	chatID, msgID := c.ID, assistant.ID
	client := a.ai
	go func() {
		defer cancel()
		err := client.ChatStream(ctx, req, func(chunk ai.StreamChunk) {
			if content := chunk.GetContent(); content != "" {
				sendMsg(chat.StreamTokenMsg{ChatID: chatID, MessageID: msgID, Token: content})
			}
		})
		if err != nil {
			sendMsg(chat.StreamErrorMsg{ChatID: chatID, Err: err})
			return
		}
		sendMsg(chat.StreamCompleteMsg{ChatID: chatID, MessageID: msgID})
	}()

	return a.chatView.SpinnerTick()
}

// textModel resolves the model for a chat: per-chat override first,
// then the settings default.
func (a *App) textModel(c *model.Chat) string {
	if c.Model != "" {
		return models.Normalize(c.Model)
	}
	return models.Normalize(a.userSettings.TextModel)
}

// buildMessages converts chat history into API messages: the system
// prompt (plus memories when enabled), then every user and assistant
// turn. Error messages and image results stay local.
func (a *App) buildMessages(c *model.Chat) []ai.ChatMessage {
	msgs := make([]ai.ChatMessage, 0, len(c.Messages)+1)

	system := a.userSettings.SystemPrompt
	if extra := a.cfg.API.SystemInstruction; extra != "" {
		system = strings.TrimSpace(system + "\n" + extra)
	}
	if a.userSettings.WebSearch {
		system = strings.TrimSpace(system + " You may use web knowledge if your model supports it.")
	}
	if a.userSettings.DeepSearch {
		system = strings.TrimSpace(system + " Prefer deeper step-by-step reasoning when needed.")
	}
	if a.userSettings.MemoriesEnabled {
		if memories := a.store.GetMemories(); len(memories) > 0 {
			var b strings.Builder
			b.WriteString("\nThings to remember about the user:")
			for _, mem := range memories {
				b.WriteString("\n- ")
				b.WriteString(mem.Key)
				b.WriteString(": ")
				b.WriteString(mem.Value)
			}
			system += b.String()
		}
	}
	if system != "" {
		msgs = append(msgs, ai.NewSystemMessage(system))
	}

	for _, m := range c.Messages {
		if m.IsError || m.IsStreaming {
			continue
		}
		switch m.Role {
		case model.RoleUser:
			msgs = append(msgs, userAPIMessage(m))
		case model.RoleAssistant:
			if m.HasImage() {
				continue
			}
			msgs = append(msgs, ai.NewAssistantMessage(m.Content))
		}
	}
	return msgs
}

// userAPIMessage converts a user message, splicing image attachments
// into multipart content and appending text attachments to the prompt.
func userAPIMessage(m *model.Message) ai.ChatMessage {
	if len(m.Attachments) == 0 {
		return ai.NewUserMessage(m.Content)
	}

	text := m.Content
	var parts []ai.ContentPart
	for _, att := range m.Attachments {
		if att.IsImage {
			parts = append(parts, ai.NewImagePart(att.Data))
		} else {
			text += "\n\n[Attached file " + att.Name + "]\n" + att.Data
		}
	}
	if len(parts) == 0 {
		return ai.NewUserMessage(text)
	}
	return ai.NewMultipartUserMessage(text, parts)
}

// regenerateLast requests regeneration of the most recent assistant
// response.
func (a *App) regenerateLast() tea.Cmd {
	c := a.currentChat()
	if c == nil {
		return nil
	}
	for i := len(c.Messages) - 1; i > 0; i-- {
		if c.Messages[i].Role == model.RoleAssistant {
			chatID, msgID := c.ID, c.Messages[i].ID
			return func() tea.Msg { return chat.RegenerateMsg{ChatID: chatID, MessageID: msgID} }
		}
	}
	a.toasts.AddError("Nothing to regenerate")
	return nil
}

// regenerateFrom drops the identified assistant response and every
// message after it, then re-runs the completion on what remains.
func (a *App) regenerateFrom(messageID string) tea.Cmd {
	c := a.currentChat()
	if c == nil || a.chatView.Busy() {
		return nil
	}

	// Never truncate away the opening message.
	idx := c.MessageIndex(messageID)
	if idx <= 0 || c.Messages[idx].Role != model.RoleAssistant || !c.TruncateBefore(messageID) {
		a.toasts.AddError("Nothing to regenerate")
		return nil
	}

	a.chatView.Refresh()
	a.persistNow()
	return a.startCompletion(c)
}

// failChat records a failure in the transcript and as a toast.
func (a *App) failChat(c *model.Chat, userMsg string) {
	c.AddMessage(model.NewErrorMessage(userMsg))
	a.toasts.AddError(userMsg)
	a.chatView.SetBusy(false)
	a.chatView.Refresh()
	a.persist()
}

func (a *App) handleStreamToken(msg chat.StreamTokenMsg) tea.Cmd {
	c := a.currentChat()
	if c == nil || c.ID != msg.ChatID {
		// The user switched chats mid-stream; keep appending to the
		// right chat, just without refreshing the view.
		for _, other := range a.chats {
			if other.ID == msg.ChatID {
				other.AppendToLast(msg.Token)
			}
		}
		a.persistNow()
		return nil
	}
	c.AppendToLast(msg.Token)
	a.chatView.Refresh()
	// Every fragment reaches the durable store; a crash mid-stream
	// loses at most the fragment in flight.
	a.persistNow()
	return nil
}

func (a *App) handleStreamComplete(msg chat.StreamCompleteMsg) tea.Cmd {
	a.streamCancel = nil
	for _, c := range a.chats {
		if c.ID == msg.ChatID {
			c.FinalizeLast()
		}
	}
	a.chatView.SetBusy(false)
	a.chatView.Refresh()
	a.sidebar.SetChats(a.chats, a.currentID)
	a.persist()
	return nil
}

func (a *App) handleStreamError(msg chat.StreamErrorMsg) tea.Cmd {
	a.streamCancel = nil
	cancelled := errors.Is(msg.Err, context.Canceled)
	for _, c := range a.chats {
		if c.ID != msg.ChatID {
			continue
		}
		// Keep whatever already streamed in; drop an empty placeholder.
		if last := c.GetLastMessage(); last != nil && last.IsStreaming {
			if last.IsEmpty() {
				c.Messages = c.Messages[:len(c.Messages)-1]
			} else {
				c.FinalizeLast()
			}
		}
		if cancelled {
			a.toasts.AddStatus("Stopped")
			continue
		}
		userMsg := ai.UserMessage(msg.Err)
		c.AddMessage(model.NewErrorMessage(userMsg))
		a.toasts.AddError(userMsg)
	}
	if !cancelled {
		a.log.Error("completion failed", "error", msg.Err)
	}
	a.chatView.SetBusy(false)
	a.chatView.Refresh()
	a.persist()
	return nil
}

// =============================================================================
// IMAGE GENERATION
// =============================================================================

// startImageGeneration records the user's /img command and launches
// the generation goroutine.
func (a *App) startImageGeneration(c *model.Chat, prompt string) tea.Cmd {
	c.AddUserMessage(imgCommand + " " + prompt)
	a.sidebar.SetChats(a.chats, a.currentID)
	a.chatView.SetBusy(true)
	a.chatView.Refresh()
	a.persistNow()

	ctx, cancel := context.WithCancel(context.Background())
	a.streamCancel = cancel

	chatID := c.ID
	imageModel := a.userSettings.ImageModel
	client := a.images
	go func() {
		defer cancel()
		url, err := client.Generate(ctx, prompt, imageModel)
		if err != nil {
			sendMsg(chat.ImageErrorMsg{ChatID: chatID, Err: err})
			return
		}
		sendMsg(chat.ImageGeneratedMsg{ChatID: chatID, URL: url, Prompt: prompt, Model: imageModel})
	}()

	return a.chatView.SpinnerTick()
}

func (a *App) handleImageGenerated(msg chat.ImageGeneratedMsg) tea.Cmd {
	a.streamCancel = nil
	for _, c := range a.chats {
		if c.ID == msg.ChatID {
			c.AddMessage(model.NewImageMessage(msg.URL, msg.Prompt))
		}
	}
	if err := a.store.AddImage(model.NewImageGeneration(msg.URL, msg.Prompt, msg.Model, msg.ChatID)); err != nil {
		a.log.Error("failed to record image", "error", err)
	}
	a.gallery.SetImages(a.store.GetImages())
	a.chatView.SetBusy(false)
	a.chatView.Refresh()
	a.persist()
	return nil
}

func (a *App) handleImageError(msg chat.ImageErrorMsg) tea.Cmd {
	a.streamCancel = nil
	for _, c := range a.chats {
		if c.ID == msg.ChatID {
			userMsg := "Image generation failed. Please try again."
			c.AddMessage(model.NewErrorMessage(userMsg))
			a.toasts.AddError(userMsg)
		}
	}
	a.log.Error("image generation failed", "error", msg.Err)
	a.chatView.SetBusy(false)
	a.chatView.Refresh()
	a.persist()
	return nil
}

// =============================================================================
// SETTINGS, MODELS, AND SESSION
// =============================================================================

func (a *App) applySettings(s store.Settings) {
	s.Normalize()
	a.userSettings = s
	if err := a.store.SaveSettings(s); err != nil {
		a.log.Error("failed to save settings", "error", err)
	}
	a.theme.ApplyPalette(styles.Palette{
		Theme:           firstNonEmpty(s.Theme, a.cfg.UI.Theme),
		AccentColor:     s.AccentColor,
		BackgroundColor: s.BackgroundColor,
	})
	a.settings.SetSettings(s, a.customModels, a.ai.IsSignedIn())
}

func (a *App) registerModel(id string) {
	before := len(a.customModels)
	a.customModels = models.Register(a.customModels, id)
	if len(a.customModels) == before {
		a.toasts.AddStatus("Model already registered")
		return
	}
	if err := a.store.SaveCustomModels(a.customModels); err != nil {
		a.log.Error("failed to save custom models", "error", err)
	}
	a.settings.SetSettings(a.userSettings, a.customModels, a.ai.IsSignedIn())
	a.toasts.AddSuccess("Registered " + models.Normalize(id))
}

func (a *App) signIn(key string) {
	a.ai = ai.NewClient(key).
		WithBaseURL(a.cfg.API.BaseURL).
		WithRequestsPerMinute(a.cfg.API.RequestsPerMinute)
	a.ai.SignIn()
	a.settings.SetSettings(a.userSettings, a.customModels, true)
	a.toasts.AddSuccess("Signed in")
}

func (a *App) signOut() {
	a.ai = ai.NewClient("").
		WithBaseURL(a.cfg.API.BaseURL).
		WithRequestsPerMinute(a.cfg.API.RequestsPerMinute)
	a.settings.SetSettings(a.userSettings, a.customModels, false)
	a.toasts.AddStatus("Signed out")
}

// applyConfig installs a hot-reloaded config file.
func (a *App) applyConfig(cfg *config.Config) tea.Cmd {
	a.cfg = cfg
	if !a.ai.IsSignedIn() || cfg.API.Key != "" {
		a.ai = ai.NewClient(cfg.API.Key).
			WithBaseURL(cfg.API.BaseURL).
			WithRequestsPerMinute(cfg.API.RequestsPerMinute)
		if a.ai.IsConfigured() {
			a.ai.SignIn()
		}
	}
	a.images = imagegen.NewClient(cfg.Image.BaseURL)
	a.toasts.AddStatus("Config reloaded")
	return nil
}

// =============================================================================
// EXPORT, IMPORT, AND CLEAR
// =============================================================================

func (a *App) exportCurrentChat() {
	c := a.currentChat()
	if c == nil {
		a.toasts.AddError("No chat to export")
		return
	}
	name := export.Filename(c.GetTitle(), time.Now())
	if err := export.WriteChat(name, c); err != nil {
		a.log.Error("export failed", "error", err)
		a.toasts.AddError("Export failed")
		return
	}
	a.toasts.AddSuccess("Exported " + name)
}

func (a *App) exportCurrentChatMarkdown() {
	c := a.currentChat()
	if c == nil {
		a.toasts.AddError("No chat to export")
		return
	}
	name := strings.TrimSuffix(export.Filename(c.GetTitle(), time.Now()), ".json") + ".md"
	if err := export.WriteChatMarkdown(name, c); err != nil {
		a.log.Error("export failed", "error", err)
		a.toasts.AddError("Export failed")
		return
	}
	a.toasts.AddSuccess("Exported " + name)
}

func (a *App) exportAllChats() {
	name := "onyx-chats-" + time.Now().Format("2006-01-02-150405") + ".json"
	if err := export.WriteChats(name, a.chats); err != nil {
		a.log.Error("export failed", "error", err)
		a.toasts.AddError("Export failed")
		return
	}
	a.toasts.AddSuccess(fmt.Sprintf("Exported %d chats to %s", len(a.chats), name))
}

func (a *App) importChats(path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		a.toasts.AddError("Cannot read " + path)
		return
	}
	imported, err := export.Import(data)
	if err != nil {
		a.toasts.AddError("Not a chat export")
		return
	}

	// Import replaces the stored chats wholesale.
	a.chats = imported
	a.currentID = ""
	if len(a.chats) > 0 {
		a.currentID = a.chats[0].ID
	}
	a.sidebar.SetChats(a.chats, a.currentID)
	a.chatView.SetChat(a.currentChat())
	a.persistNow()
	a.toasts.AddSuccess(fmt.Sprintf("Imported %d chats", len(imported)))
}

func (a *App) clearData() {
	if err := a.store.ClearAll(); err != nil {
		a.log.Error("failed to clear data", "error", err)
		a.toasts.AddError("Clear failed")
		return
	}
	first := model.NewChat()
	a.chats = []*model.Chat{first}
	a.currentID = first.ID
	a.customModels = nil
	a.userSettings = store.DefaultSettings()
	a.section = panels.SectionChat

	a.sidebar.SetChats(a.chats, a.currentID)
	a.chatView.SetChat(first)
	a.gallery.SetImages(nil)
	a.memory.SetMemories(nil)
	a.settings.SetSettings(a.userSettings, nil, a.ai.IsSignedIn())
	a.persist()
	a.toasts.AddSuccess("All data cleared")
}

// =============================================================================
// VIEW
// =============================================================================

// View renders the sidebar, the active panel, and the status bar.
func (a *App) View() string {
	if a.width == 0 {
		return "loading…"
	}

	var main string
	switch a.section {
	case panels.SectionGallery:
		main = a.gallery.View()
	case panels.SectionMemory:
		main = a.memory.View()
	case panels.SectionSearch:
		main = a.searchView.View()
	case panels.SectionSettings:
		main = a.settings.View()
	default:
		main = a.chatView.View()
	}

	body := lipgloss.JoinHorizontal(lipgloss.Top, a.sidebar.View(), main)
	screen := lipgloss.JoinVertical(lipgloss.Left, body, a.statusBar())

	if a.toasts.HasToasts() {
		screen += "\n" + components.RenderToasts(a.theme, a.toasts.Tick(), a.width)
	}
	return screen
}

// statusBar renders the bottom shortcut line.
func (a *App) statusBar() string {
	shortcuts := []struct{ key, desc string }{
		{"tab", "sidebar"},
		{"ctrl+n", "new"},
		{"ctrl+r", "regen"},
		{"ctrl+g", "gallery"},
		{"ctrl+e", "memory"},
		{"ctrl+f", "search"},
		{"ctrl+s", "settings"},
		{"ctrl+c", "quit"},
	}
	var parts []string
	for _, s := range shortcuts {
		parts = append(parts, a.theme.ShortcutKey.Render(s.key)+" "+a.theme.ShortcutDesc.Render(s.desc))
	}
	left := strings.Join(parts, "  ")
	right := a.theme.ShortcutDesc.Render(a.chatView.ScrollInfo())

	gap := a.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}
	return a.theme.StatusBar.Width(a.width).Render(left + strings.Repeat(" ", gap) + right)
}

// =============================================================================
// STARTUP
// =============================================================================

// openLogger builds the application logger. Debug logging writes to
// debug.log in the data directory; otherwise logs are discarded so
// they never corrupt the terminal UI.
func openLogger(dataDir string, debug bool) *slog.Logger {
	if !debug {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	f, err := os.OpenFile(filepath.Join(dataDir, "debug.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

// dataDir resolves the data directory, honoring the config override.
func dataDir(cfg *config.Config) (string, error) {
	if cfg.DataDir != "" {
		return cfg.DataDir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".onyx"), nil
}

func main() {
	debugFlag := flag.Bool("debug", false, "write debug logs to the data directory")
	versionFlag := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *versionFlag {
		fmt.Printf("onyx %s (%s, built %s)\n", Version, GitCommit, BuildDate)
		return
	}

	cfgPath, err := config.Path()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	config.SetGlobal(cfg)

	dir, err := dataDir(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	kv, err := store.OpenKV(filepath.Join(dir, "onyx.db"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to open database: %v\n", err)
		os.Exit(1)
	}

	st := store.New(kv, nil)
	debug := *debugFlag || st.GetSettings().DebugLogging
	log := openLogger(dir, debug)
	st = store.New(kv, log)

	app := newApp(cfg, st, log)

	// Hot-reload the config file; changes land as a message so the UI
	// loop applies them.
	watcher, err := config.NewWatcher(cfgPath, log, func(c *config.Config) {
		sendMsg(configReloadedMsg{cfg: c})
	})
	if err == nil {
		app.watcher = watcher
		if err := watcher.Watch(); err != nil {
			log.Warn("config watch failed", "error", err)
		}
	} else {
		log.Warn("config watcher unavailable", "error", err)
	}

	p := tea.NewProgram(app, tea.WithAltScreen(), tea.WithMouseCellMotion())
	setProgram(p)

	if _, err := p.Run(); err != nil {
		app.shutdown()
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	app.shutdown()
}
