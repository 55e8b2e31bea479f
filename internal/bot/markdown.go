package bot

import "strings"

// maxMessageLen is Telegram's hard limit on message text.
const maxMessageLen = 4096

var markdownEscaper = strings.NewReplacer(
	"_", "\\_",
	"*", "\\*",
	"`", "\\`",
	"[", "\\[",
)

// escapeMarkdown neutralizes legacy-Markdown control characters in
// user-supplied values so a selection like "over_2.5" cannot break the reply.
func escapeMarkdown(s string) string {
	return markdownEscaper.Replace(s)
}

var markdownStripper = strings.NewReplacer("*", "", "`", "")

// stripMarkdown removes formatting markers for surfaces that render plain
// text, such as callback answer popups.
func stripMarkdown(s string) string {
	return markdownStripper.Replace(s)
}

// splitMessage chunks text to fit maxMessageLen, preferring line boundaries.
func splitMessage(text string) []string {
	if len(text) <= maxMessageLen {
		return []string{text}
	}

	var chunks []string
	for len(text) > maxMessageLen {
		cut := strings.LastIndex(text[:maxMessageLen], "\n")
		if cut <= 0 {
			cut = maxMessageLen
		}
		chunks = append(chunks, strings.TrimRight(text[:cut], "\n"))
		text = strings.TrimLeft(text[cut:], "\n")
	}
	if text != "" {
		chunks = append(chunks, text)
	}
	return chunks
}
