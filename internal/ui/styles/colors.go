// Copyright (c) 2025 Onyx Labs
// SPDX-License-Identifier: MIT

package styles

import "github.com/charmbracelet/lipgloss"

// Base palette. Dark theme colors; the light theme overrides in
// ApplyTheme.
var (
	// Accent colors
	Purple  = lipgloss.Color("#a78bfa")
	Cyan    = lipgloss.Color("#67e8f9")
	Emerald = lipgloss.Color("#34d399")
	Amber   = lipgloss.Color("#fbbf24")
	Rose    = lipgloss.Color("#fb7185")

	// Surfaces
	Surface    = lipgloss.Color("#1e1e2e")
	SurfaceDim = lipgloss.Color("#181825")
	Overlay    = lipgloss.Color("#313244")

	// Text
	TextPrimary   = lipgloss.Color("#cdd6f4")
	TextSecondary = lipgloss.Color("#a6adc8")
	TextMuted     = lipgloss.Color("#6c7086")
	TextInverse   = lipgloss.Color("#11111b")
)

// Light palette counterparts used when the light theme is selected.
var (
	LightSurface    = lipgloss.Color("#eff1f5")
	LightSurfaceDim = lipgloss.Color("#e6e9ef")
	LightOverlay    = lipgloss.Color("#ccd0da")

	LightTextPrimary   = lipgloss.Color("#4c4f69")
	LightTextSecondary = lipgloss.Color("#5c5f77")
	LightTextMuted     = lipgloss.Color("#8c8fa1")
)
