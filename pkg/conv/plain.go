package conv

import (
	"html"
	"regexp"
	"strings"

	"github.com/inbucket/html2text"
)

var tagPattern = regexp.MustCompile(`<[^>]*>`)

// HTMLToPlain renders Telegram HTML as plain text for clients or chats that
// reject the markup. If html2text fails the tags are stripped instead.
func HTMLToPlain(s string) string {
	text, err := html2text.FromString(s, html2text.Options{TextOnly: true})
	if err != nil {
		return strings.TrimSpace(html.UnescapeString(tagPattern.ReplaceAllString(s, "")))
	}
	return strings.TrimSpace(text)
}

// Split cuts text into chunks of at most maxLen bytes, preferring newline
// boundaries and never splitting a UTF-8 sequence.
func Split(text string, maxLen int) []string {
	if len(text) <= maxLen {
		return []string{text}
	}

	var chunks []string
	for len(text) > 0 {
		if len(text) <= maxLen {
			chunks = append(chunks, text)
			break
		}

		cut := maxLen
		// Try to find a good break point (newline) past the first third of the chunk
		if idx := strings.LastIndex(text[:maxLen], "\n"); idx > maxLen/3 {
			cut = idx
		} else {
			for cut > 0 && !isRuneStart(text[cut]) {
				cut--
			}
			if cut == 0 {
				cut = maxLen
			}
		}

		chunks = append(chunks, text[:cut])
		text = strings.TrimSpace(text[cut:])
	}
	return chunks
}

func isRuneStart(b byte) bool {
	return b&0xC0 != 0x80
}
