// Copyright (c) 2025 Onyx Labs
// SPDX-License-Identifier: MIT

package export

import (
	"fmt"
	"strings"

	"github.com/onyxlabs/onyx-tui/internal/model"
	"github.com/onyxlabs/onyx-tui/internal/util"
)

// ChatMarkdown renders a chat as a Markdown transcript.
func ChatMarkdown(chat *model.Chat) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", chat.GetTitle())
	fmt.Fprintf(&b, "Created: %s\n\n", chat.CreatedAt.Format("2006-01-02 15:04"))

	for _, msg := range chat.Messages {
		fmt.Fprintf(&b, "## %s\n\n", msg.Role.DisplayName())
		if msg.HasImage() {
			fmt.Fprintf(&b, "![%s](%s)\n\n", msg.ImagePrompt, msg.ImageURL)
			continue
		}
		b.WriteString(msg.Content)
		b.WriteString("\n\n")
	}

	return b.String()
}

// WriteChatMarkdown exports a chat transcript to path atomically.
func WriteChatMarkdown(path string, chat *model.Chat) error {
	return util.AtomicWriteFile(path, []byte(ChatMarkdown(chat)), 0o644)
}
