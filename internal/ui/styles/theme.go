// Copyright (c) 2025 Onyx Labs
// SPDX-License-Identifier: MIT

// Package styles provides the visual styling system for the onyx TUI.
package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Palette carries the user's optional theme overrides from settings.
// Empty fields leave the corresponding style untouched.
type Palette struct {
	Theme           string // "dark" or "light"
	AccentColor     string // hex color, e.g. "#ff79c6"
	BackgroundColor string // hex color
}

// Theme holds all the styled components for the application.
// It detects the terminal's color capability and adjusts accordingly.
type Theme struct {
	// Terminal capabilities
	IsDark       bool
	HasTrueColor bool
	ColorProfile termenv.Profile

	// Layout dimensions
	Width  int
	Height int

	// Current accent, needed by components that derive styles.
	Accent lipgloss.Color

	// ==========================================================================
	// APPLICATION CONTAINER STYLES
	// ==========================================================================

	App       lipgloss.Style
	Container lipgloss.Style

	// ==========================================================================
	// HEADER AND STATUS BAR STYLES
	// ==========================================================================

	Header      lipgloss.Style
	HeaderTitle lipgloss.Style
	StatusBar   lipgloss.Style
	ShortcutKey lipgloss.Style
	ShortcutDesc lipgloss.Style

	// ==========================================================================
	// SIDEBAR STYLES
	// ==========================================================================

	Sidebar          lipgloss.Style
	SidebarItem      lipgloss.Style
	SidebarSelected  lipgloss.Style
	SidebarSection   lipgloss.Style
	SidebarMeta      lipgloss.Style

	// ==========================================================================
	// MESSAGE STYLES
	// ==========================================================================

	UserBubble      lipgloss.Style
	AssistantBubble lipgloss.Style
	ErrorBubble     lipgloss.Style
	MessageMeta     lipgloss.Style
	ImageLink       lipgloss.Style

	// ==========================================================================
	// INPUT AREA STYLES
	// ==========================================================================

	InputContainer   lipgloss.Style
	InputPrompt      lipgloss.Style
	InputPlaceholder lipgloss.Style

	// ==========================================================================
	// PANEL STYLES
	// ==========================================================================

	PanelBox      lipgloss.Style
	PanelTitle    lipgloss.Style
	ListItem      lipgloss.Style
	ListSelected  lipgloss.Style
	ListMeta      lipgloss.Style
	FieldLabel    lipgloss.Style
	FieldValue    lipgloss.Style
	EmptyState    lipgloss.Style

	// ==========================================================================
	// FEEDBACK STYLES
	// ==========================================================================

	Spinner      lipgloss.Style
	ThinkingText lipgloss.Style
	ToastInfo    lipgloss.Style
	ToastError   lipgloss.Style
	ErrorText    lipgloss.Style
	SuccessText  lipgloss.Style
}

// NewTheme creates a new theme with all styles configured.
func NewTheme() *Theme {
	colorProfile := termenv.ColorProfile()
	t := &Theme{
		IsDark:       termenv.HasDarkBackground(),
		HasTrueColor: colorProfile == termenv.TrueColor,
		ColorProfile: colorProfile,
		Accent:       Purple,
	}
	t.initStyles(Purple, Surface, SurfaceDim, Overlay, TextPrimary, TextSecondary, TextMuted)
	return t
}

// ApplyPalette projects the settings' optional theme, accent, and
// background colors onto the theme. Values pass through without
// validation; unknown theme names leave the dark palette in place.
func (t *Theme) ApplyPalette(p Palette) {
	accent := t.Accent
	surface, surfaceDim, overlay := Surface, SurfaceDim, Overlay
	textPrimary, textSecondary, textMuted := TextPrimary, TextSecondary, TextMuted

	if p.Theme == "light" {
		surface, surfaceDim, overlay = LightSurface, LightSurfaceDim, LightOverlay
		textPrimary, textSecondary, textMuted = LightTextPrimary, LightTextSecondary, LightTextMuted
		t.IsDark = false
	} else {
		t.IsDark = true
	}
	if p.AccentColor != "" {
		accent = lipgloss.Color(p.AccentColor)
	}
	if p.BackgroundColor != "" {
		surface = lipgloss.Color(p.BackgroundColor)
	}

	t.Accent = accent
	t.initStyles(accent, surface, surfaceDim, overlay, textPrimary, textSecondary, textMuted)
}

// SetSize updates the theme dimensions for responsive layouts.
func (t *Theme) SetSize(width, height int) {
	t.Width = width
	t.Height = height
}

// initStyles initializes all the lip gloss styles from a palette.
func (t *Theme) initStyles(accent, surface, surfaceDim, overlay, textPrimary, textSecondary, textMuted lipgloss.Color) {
	t.App = lipgloss.NewStyle()
	t.Container = lipgloss.NewStyle().Padding(0, 1)

	// Header and status bar
	t.Header = lipgloss.NewStyle().
		Bold(true).
		Foreground(accent).
		Padding(0, 1)

	t.HeaderTitle = lipgloss.NewStyle().
		Bold(true).
		Foreground(textPrimary)

	t.StatusBar = lipgloss.NewStyle().
		Background(surfaceDim).
		Foreground(textSecondary).
		Padding(0, 1)

	t.ShortcutKey = lipgloss.NewStyle().
		Foreground(accent).
		Bold(true)

	t.ShortcutDesc = lipgloss.NewStyle().
		Foreground(textMuted)

	// Sidebar
	t.Sidebar = lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderRight(true).
		BorderForeground(overlay).
		Padding(0, 1)

	t.SidebarItem = lipgloss.NewStyle().
		Foreground(textPrimary).
		Padding(0, 1)

	t.SidebarSelected = lipgloss.NewStyle().
		Background(accent).
		Foreground(TextInverse).
		Bold(true).
		Padding(0, 1)

	t.SidebarSection = lipgloss.NewStyle().
		Foreground(textMuted).
		Bold(true).
		Padding(0, 1)

	t.SidebarMeta = lipgloss.NewStyle().
		Foreground(textMuted).
		Italic(true)

	// Messages
	t.UserBubble = lipgloss.NewStyle().
		Foreground(textPrimary).
		BorderStyle(lipgloss.NormalBorder()).
		BorderLeft(true).
		BorderForeground(accent).
		PaddingLeft(1)

	t.AssistantBubble = lipgloss.NewStyle().
		Foreground(textPrimary).
		PaddingLeft(1)

	t.ErrorBubble = lipgloss.NewStyle().
		Foreground(Rose).
		BorderStyle(lipgloss.NormalBorder()).
		BorderLeft(true).
		BorderForeground(Rose).
		PaddingLeft(1)

	t.MessageMeta = lipgloss.NewStyle().
		Foreground(textMuted).
		Italic(true)

	t.ImageLink = lipgloss.NewStyle().
		Foreground(Cyan).
		Underline(true)

	// Input area
	t.InputContainer = lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderTop(true).
		BorderForeground(overlay).
		Padding(0, 1)

	t.InputPrompt = lipgloss.NewStyle().
		Foreground(accent).
		Bold(true)

	t.InputPlaceholder = lipgloss.NewStyle().
		Foreground(textMuted).
		Italic(true)

	// Panels
	t.PanelBox = lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(overlay).
		Padding(1, 2)

	t.PanelTitle = lipgloss.NewStyle().
		Foreground(accent).
		Bold(true)

	t.ListItem = lipgloss.NewStyle().
		Foreground(textPrimary).
		Padding(0, 1)

	t.ListSelected = lipgloss.NewStyle().
		Background(accent).
		Foreground(TextInverse).
		Bold(true).
		Padding(0, 1)

	t.ListMeta = lipgloss.NewStyle().
		Foreground(textMuted)

	t.FieldLabel = lipgloss.NewStyle().
		Foreground(textSecondary).
		Bold(true)

	t.FieldValue = lipgloss.NewStyle().
		Foreground(textPrimary)

	t.EmptyState = lipgloss.NewStyle().
		Foreground(textMuted).
		Italic(true).
		Padding(1, 2)

	// Feedback
	t.Spinner = lipgloss.NewStyle().
		Foreground(accent)

	t.ThinkingText = lipgloss.NewStyle().
		Foreground(textSecondary)

	t.ToastInfo = lipgloss.NewStyle().
		Background(surfaceDim).
		Foreground(Cyan).
		Padding(0, 2)

	t.ToastError = lipgloss.NewStyle().
		Background(surfaceDim).
		Foreground(Rose).
		Bold(true).
		Padding(0, 2)

	t.ErrorText = lipgloss.NewStyle().
		Foreground(Rose).
		Bold(true)

	t.SuccessText = lipgloss.NewStyle().
		Foreground(Emerald).
		Bold(true)
}
