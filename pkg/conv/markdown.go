package conv

import (
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
	"github.com/microcosm-cc/bluemonday"
)

var (
	extensions = parser.CommonExtensions | parser.NoEmptyLineBeforeBlock
	htmlFlags  = html.CommonFlags | html.HrefTargetBlank
	tgPolicy   = bluemonday.NewPolicy()
)

func init() {
	// Allowed tags https://core.telegram.org/bots/api#html-style
	tgPolicy.AllowElements("b", "strong", "i", "em", "u", "ins", "s", "strike", "del", "code", "pre", "blockquote")
	tgPolicy.AllowAttrs("href").OnElements("a")
	tgPolicy.AllowAttrs("class").OnElements("code")
}

func MarkdownToTelegramHTML(md []byte) string {
	p := parser.NewWithExtensions(extensions)
	renderer := html.NewRenderer(html.RendererOptions{Flags: htmlFlags})
	unsafeHTML := markdown.Render(p.Parse(md), renderer)

	return string(tgPolicy.SanitizeBytes(unsafeHTML))
}

// Reply is one outgoing message in both renderings.
type Reply struct {
	HTML  string
	Plain string
}

// RenderReply prepares a markdown reply as Telegram HTML chunks of at most
// maxLen bytes, each paired with its plain-text fallback.
func RenderReply(md string, maxLen int) []Reply {
	rendered := strings.TrimSpace(MarkdownToTelegramHTML([]byte(md)))
	if rendered == "" {
		return nil
	}

	chunks := Split(rendered, maxLen)
	replies := make([]Reply, 0, len(chunks))
	for _, chunk := range chunks {
		replies = append(replies, Reply{HTML: chunk, Plain: HTMLToPlain(chunk)})
	}
	return replies
}
