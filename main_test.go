// Copyright (c) 2025 Onyx Labs
// SPDX-License-Identifier: MIT

package main

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/onyxlabs/onyx-tui/internal/config"
	"github.com/onyxlabs/onyx-tui/internal/model"
	"github.com/onyxlabs/onyx-tui/internal/store"
	"github.com/onyxlabs/onyx-tui/internal/ui/chat"
)

func newTestApp(t *testing.T) *App {
	t.Helper()
	kv, err := store.OpenKV(filepath.Join(t.TempDir(), "onyx.db"))
	if err != nil {
		t.Fatalf("failed to open store: %v", err)
	}
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	app := newApp(config.Default(), store.New(kv, log), log)
	t.Cleanup(app.shutdown)
	return app
}

func TestNewAppSeedsWelcomeChat(t *testing.T) {
	app := newTestApp(t)

	if len(app.chats) != 1 {
		t.Fatalf("expected 1 seeded chat, got %d", len(app.chats))
	}
	c := app.currentChat()
	if c == nil {
		t.Fatal("current chat not set")
	}
	last := c.GetLastMessage()
	if last == nil || last.Role != model.RoleAssistant {
		t.Fatal("seeded chat should open with an assistant message")
	}
	if last.Content != model.WelcomeMessage {
		t.Errorf("welcome content = %q", last.Content)
	}
}

func TestBuildMessagesIncludesSystemAndMemories(t *testing.T) {
	app := newTestApp(t)
	app.store.AddMemory(model.NewMemory("diet", "vegetarian"))

	c := app.currentChat()
	c.AddUserMessage("what should I cook?")

	msgs := app.buildMessages(c)
	if msgs[0].Role != "system" {
		t.Fatalf("first message role = %q, want system", msgs[0].Role)
	}
	if !strings.Contains(msgs[0].Content, "diet: vegetarian") {
		t.Errorf("system prompt should carry memories: %q", msgs[0].Content)
	}
	last := msgs[len(msgs)-1]
	if last.Role != "user" || last.Content != "what should I cook?" {
		t.Errorf("last message = %+v", last)
	}
}

func TestBuildMessagesHonorsMemoriesToggle(t *testing.T) {
	app := newTestApp(t)
	app.store.AddMemory(model.NewMemory("diet", "vegetarian"))
	app.userSettings.MemoriesEnabled = false

	msgs := app.buildMessages(app.currentChat())
	if strings.Contains(msgs[0].Content, "vegetarian") {
		t.Error("memories should be excluded when disabled")
	}
}

func TestBuildMessagesSkipsErrorsAndImages(t *testing.T) {
	app := newTestApp(t)
	c := app.currentChat()
	c.AddUserMessage("draw a fox")
	c.AddMessage(model.NewImageMessage("https://img.example/1", "a fox"))
	c.AddMessage(model.NewErrorMessage("Something went wrong. Please try again."))
	c.AddUserMessage("hello again")

	msgs := app.buildMessages(c)
	for _, m := range msgs {
		if strings.Contains(m.Content, "Generated image") {
			t.Error("image results must stay local")
		}
		if strings.Contains(m.Content, "Something went wrong") {
			t.Error("error messages must stay local")
		}
	}
}

func TestUserAPIMessageSplicesAttachments(t *testing.T) {
	msg := model.NewUserMessage("what is in this picture?")
	msg.Attachments = []*model.Attachment{
		model.NewAttachment("photo.png", "image/png", "data:image/png;base64,AAAA"),
		model.NewAttachment("notes.txt", "text/plain", "remember the milk"),
	}

	api := userAPIMessage(msg)
	if len(api.Parts) != 2 {
		t.Fatalf("parts = %d, want image + text", len(api.Parts))
	}
	if api.Parts[0].Type != "image_url" {
		t.Errorf("first part = %q, want image_url", api.Parts[0].Type)
	}
	text := api.Parts[1]
	if text.Type != "text" {
		t.Fatalf("last part = %q, want text", text.Type)
	}
	if !strings.Contains(text.Text, "remember the milk") {
		t.Error("text attachment content should be appended to the prompt")
	}
}

func TestDeleteChatSelection(t *testing.T) {
	app := newTestApp(t)
	first := app.currentChat()
	app.newChat()
	second := app.currentChat()

	// Deleting a chat that is not current keeps the selection.
	app.deleteChat(first.ID)
	if app.currentID != second.ID {
		t.Errorf("selection moved unexpectedly, got %q", app.currentID)
	}

	// Deleting the current chat clears the selection, matching the
	// store's DeleteChat semantics.
	app.deleteChat(second.ID)
	if app.currentID != "" {
		t.Errorf("deleting the current chat should clear the selection, got %q", app.currentID)
	}
	if app.currentChat() != nil {
		t.Error("no chat should remain current")
	}
	if got := app.store.GetCurrentChatID(); got != "" {
		t.Errorf("stored current chat id = %q, want cleared", got)
	}
}

func TestRegenerateDropsLastResponse(t *testing.T) {
	app := newTestApp(t)
	c := app.currentChat()
	c.AddUserMessage("tell me a joke")
	stale := model.NewMessage(model.RoleAssistant, "first draft")
	c.AddMessage(stale)
	before := c.MessageCount()

	// The client has no key, so regeneration records an error message
	// in place of a new completion; the stale answer must be gone.
	cmd := app.regenerateLast()
	if cmd == nil {
		t.Fatal("expected a regenerate command")
	}
	app.Update(cmd())

	if c.GetMessageByID(stale.ID) != nil {
		t.Error("stale assistant response should be removed")
	}
	if c.MessageCount() != before {
		t.Errorf("messages = %d, want %d (stale replaced by error)", c.MessageCount(), before)
	}
	last := c.GetLastMessage()
	if last == nil || !last.IsError {
		t.Error("unconfigured client should leave an error message")
	}
}

func TestRegenerateFromEarlierMessage(t *testing.T) {
	app := newTestApp(t)
	c := app.currentChat()
	c.AddUserMessage("first question")
	earlier := model.NewMessage(model.RoleAssistant, "first answer")
	c.AddMessage(earlier)
	c.AddUserMessage("second question")
	c.AddMessage(model.NewMessage(model.RoleAssistant, "second answer"))

	app.regenerateFrom(earlier.ID)

	if c.GetMessageByID(earlier.ID) != nil {
		t.Error("target assistant response should be removed")
	}
	if strings.Contains(c.Preview(), "second") {
		t.Error("messages after the target should be removed too")
	}
	// welcome + first question survive; the unconfigured client then
	// appends an error message.
	if c.Messages[1].Content != "first question" {
		t.Errorf("history before the target changed: %q", c.Messages[1].Content)
	}

	// The welcome message is never a regeneration target.
	before := c.MessageCount()
	app.regenerateFrom(c.Messages[0].ID)
	if c.MessageCount() != before {
		t.Error("regenerating the welcome message should be rejected")
	}
}

func TestStreamTokensReachStorePerFragment(t *testing.T) {
	app := newTestApp(t)
	c := app.currentChat()
	c.AddUserMessage("stream this")
	c.AddAssistantMessage()

	want := ""
	for _, token := range []string{"alpha ", "beta ", "gamma"} {
		app.handleStreamToken(chat.StreamTokenMsg{ChatID: c.ID, Token: token})
		want += token

		stored := app.store.GetChats()
		if len(stored) == 0 {
			t.Fatal("durable store has no chats after a fragment")
		}
		last := stored[0].GetLastMessage()
		got := ""
		if last != nil {
			got = last.Content
		}
		if got != want {
			t.Fatalf("durable last message = %q, want %q", got, want)
		}
	}
}

func TestBuildMessagesAppendsSearchInstructions(t *testing.T) {
	app := newTestApp(t)
	c := app.currentChat()
	c.AddUserMessage("hello")

	msgs := app.buildMessages(c)
	if strings.Contains(msgs[0].Content, "web knowledge") {
		t.Error("web search instruction should be absent by default")
	}

	app.userSettings.WebSearch = true
	app.userSettings.DeepSearch = true
	msgs = app.buildMessages(c)
	if !strings.Contains(msgs[0].Content, "You may use web knowledge if your model supports it.") {
		t.Errorf("system prompt missing web search instruction: %q", msgs[0].Content)
	}
	if !strings.Contains(msgs[0].Content, "Prefer deeper step-by-step reasoning when needed.") {
		t.Errorf("system prompt missing deep search instruction: %q", msgs[0].Content)
	}
}

func TestAttachCommandQueuesFiles(t *testing.T) {
	app := newTestApp(t)
	dir := t.TempDir()

	notes := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(notes, []byte("remember the milk"), 0o644); err != nil {
		t.Fatal(err)
	}
	photo := filepath.Join(dir, "photo.png")
	if err := os.WriteFile(photo, []byte{0x89, 'P', 'N', 'G'}, 0o644); err != nil {
		t.Fatal(err)
	}

	app.attachFile(notes)
	app.attachFile(photo)
	if len(app.pendingAttachments) != 2 {
		t.Fatalf("pending attachments = %d, want 2", len(app.pendingAttachments))
	}
	text, img := app.pendingAttachments[0], app.pendingAttachments[1]
	if text.IsImage || text.Data != "remember the milk" {
		t.Errorf("text attachment = %+v", text)
	}
	if !img.IsImage || !strings.HasPrefix(img.Data, "data:image/png;base64,") {
		t.Errorf("image attachment = %+v", img)
	}

	// The next submission carries the queue and drains it.
	app.chatView.SetInput("what do these say?")
	app.submitInput()
	c := app.currentChat()
	user := c.Messages[1]
	if user.Role != model.RoleUser || len(user.Attachments) != 2 {
		t.Fatalf("user message attachments = %+v", user)
	}
	if len(app.pendingAttachments) != 0 {
		t.Error("pending attachments should be cleared after submission")
	}
}

func TestAttachCommandRejectsMissingFile(t *testing.T) {
	app := newTestApp(t)
	app.chatView.SetInput("/attach " + filepath.Join(t.TempDir(), "nope.txt"))
	app.submitInput()

	if len(app.pendingAttachments) != 0 {
		t.Error("unreadable file should not be queued")
	}
	if app.currentChat().MessageCount() != 1 {
		t.Error("/attach must not add chat messages")
	}
}

func TestImageGeneratedLinksGalleryToChat(t *testing.T) {
	app := newTestApp(t)
	c := app.currentChat()

	app.handleImageGenerated(chat.ImageGeneratedMsg{
		ChatID: c.ID,
		URL:    "https://img.example/fox.png",
		Prompt: "a fox",
		Model:  "flux",
	})

	images := app.store.GetImages()
	if len(images) != 1 {
		t.Fatalf("gallery entries = %d, want 1", len(images))
	}
	if images[0].ChatID != c.ID {
		t.Errorf("gallery entry chat id = %q, want %q", images[0].ChatID, c.ID)
	}
}

func TestExportMarkdownWritesTranscript(t *testing.T) {
	app := newTestApp(t)
	t.Chdir(t.TempDir())
	app.currentChat().AddUserMessage("markdown me")

	app.exportCurrentChatMarkdown()

	matches, err := filepath.Glob("onyx-chat-*.md")
	if err != nil || len(matches) != 1 {
		t.Fatalf("exported files = %v (err %v), want one .md file", matches, err)
	}
	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "markdown me") {
		t.Errorf("transcript missing message:\n%s", data)
	}
}

func TestClearDataResetsEverything(t *testing.T) {
	app := newTestApp(t)
	app.currentChat().AddUserMessage("hold this thought")
	app.store.AddMemory(model.NewMemory("k", "v"))
	app.customModels = []string{"deepseek/deepseek-chat"}
	app.store.SaveCustomModels(app.customModels)

	app.clearData()

	if len(app.chats) != 1 || app.chats[0].MessageCount() != 1 {
		t.Error("clear should leave a single fresh chat")
	}
	if len(app.store.GetMemories()) != 0 {
		t.Error("memories should be wiped")
	}
	if len(app.customModels) != 0 {
		t.Error("custom models should be wiped")
	}
	if app.userSettings.TextModel != store.DefaultSettings().TextModel {
		t.Error("settings should reset to defaults")
	}
}

func TestTextModelPrefersChatOverride(t *testing.T) {
	app := newTestApp(t)
	c := app.currentChat()

	if got := app.textModel(c); got != store.DefaultSettings().TextModel {
		t.Errorf("default model = %q", got)
	}
	c.Model = "openrouter:deepseek/deepseek-chat"
	if got := app.textModel(c); got != "deepseek/deepseek-chat" {
		t.Errorf("override model = %q, want normalized ID", got)
	}
}
