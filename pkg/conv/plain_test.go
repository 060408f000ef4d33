package conv

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTMLToPlain(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want []string
	}{
		{name: "bold", in: "<strong>Summary</strong> done", want: []string{"Summary", "done"}},
		{name: "entities", in: "a &amp; b &lt; c", want: []string{"a & b < c"}},
		{name: "code", in: "<pre><code>x := 1</code></pre>", want: []string{"x := 1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := HTMLToPlain(tt.in)
			assert.NotContains(t, got, "<strong>")
			assert.NotContains(t, got, "<code>")
			for _, want := range tt.want {
				assert.Contains(t, got, want)
			}
		})
	}
}

func TestSplit(t *testing.T) {
	t.Parallel()

	t.Run("short text untouched", func(t *testing.T) {
		t.Parallel()
		assert.Equal(t, []string{"hello"}, Split("hello", 10))
	})

	t.Run("prefers newlines", func(t *testing.T) {
		t.Parallel()
		text := strings.Repeat("a", 6) + "\n" + strings.Repeat("b", 6)
		assert.Equal(t, []string{"aaaaaa", "bbbbbb"}, Split(text, 10))
	})

	t.Run("hard cut keeps runes whole", func(t *testing.T) {
		t.Parallel()
		text := strings.Repeat("ж", 20) // two bytes each
		chunks := Split(text, 7)
		require.Greater(t, len(chunks), 1)
		for _, c := range chunks {
			assert.LessOrEqual(t, len(c), 7)
			assert.True(t, utf8.ValidString(c))
		}
		assert.Equal(t, text, strings.Join(chunks, ""))
	})
}
