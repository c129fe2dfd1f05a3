package chat

import (
	"strings"

	"github.com/stormteams/AIChat-sub000/internal/knowledge"
)

const systemPrompt = `你是一個友善的客服助理，根據提供的知識庫內容回答使用者的問題。
知識庫沒有涵蓋的問題，請誠實說明並建議聯絡真人客服。回答使用與使用者相同的語言。`

// buildSystemPrompt assembles the system prompt with the selected
// knowledge entries as a titled context block. Zero entries is a normal
// outcome and produces no knowledge block at all.
func buildSystemPrompt(selected []knowledge.Entry) string {
	if len(selected) == 0 {
		return systemPrompt
	}

	var b strings.Builder
	b.WriteString(systemPrompt)
	b.WriteString("\n\n知識庫內容：\n")
	for _, e := range selected {
		b.WriteString("\n## ")
		b.WriteString(e.Title)
		b.WriteString("\n")
		b.WriteString(e.Content)
		b.WriteString("\n")
	}
	return b.String()
}
