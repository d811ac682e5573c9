package format

import "strings"

const mdV1Specials = "_*`["

// EscapeMarkdown escapes Telegram Markdown (v1) special characters in
// user-provided text so it can be embedded into formatted messages.
func EscapeMarkdown(text string) string {
	if text == "" {
		return text
	}
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if strings.ContainsRune(mdV1Specials, r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
