package digest

import (
	"sync"
	"unicode/utf8"

	"github.com/pkoukk/tiktoken-go"
	"github.com/rs/zerolog/log"
)

const encodingName = "cl100k_base"

// TiktokenCounter counts cl100k_base tokens. When the encoding cannot be
// loaded (it is fetched on first use) it estimates four characters per token.
type TiktokenCounter struct {
	once sync.Once
	tk   *tiktoken.Tiktoken
}

func NewTiktokenCounter() *TiktokenCounter {
	return &TiktokenCounter{}
}

func (c *TiktokenCounter) Count(text string) int {
	if text == "" {
		return 0
	}

	c.once.Do(func() {
		tk, err := tiktoken.GetEncoding(encodingName)
		if err != nil {
			log.Warn().Err(err).Msg("tokenizer unavailable, estimating prompt size")
			return
		}
		c.tk = tk
	})

	if c.tk == nil {
		return EstimateTokens(text)
	}
	return len(c.tk.Encode(text, nil, nil))
}

func EstimateTokens(text string) int {
	n := utf8.RuneCountInString(text)
	return (n + 3) / 4
}

type estimator struct{}

func (estimator) Count(text string) int {
	return EstimateTokens(text)
}
