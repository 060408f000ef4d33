package llm

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sandevgo/topicscribe/internal/config"
	"github.com/sandevgo/topicscribe/pkg/retry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastRetrier() *retry.Retrier {
	return retry.NewRetrier(&retry.Config{
		MaxRetries:    2,
		BackoffFactor: 1,
		InitialDelay:  time.Millisecond,
		MaxDelay:      time.Millisecond,
	})
}

func TestGemini_Generate(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1beta/models/gemini-test:generateContent", r.URL.Path)
		assert.Equal(t, "secret", r.Header.Get("x-goog-api-key"))

		var body struct {
			Contents []geminiContent `json:"contents"`
		}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		if !assert.Len(t, body.Contents, 1) {
			return
		}
		assert.Equal(t, "summarize this", body.Contents[0].Parts[0].Text)

		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":" Short "},{"text":"summary "}]}}]}`))
	}))
	defer srv.Close()

	out, err := NewGemini(srv.URL, "secret", "gemini-test").Generate(context.Background(), "summarize this")
	require.NoError(t, err)
	assert.Equal(t, "Short summary", out)
}

func TestGemini_TranscribeSendsInlineAudio(t *testing.T) {
	t.Parallel()

	audio := []byte{0x4f, 0x67, 0x67, 0x53}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Contents []geminiContent `json:"contents"`
		}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		if !assert.Len(t, body.Contents, 1) {
			return
		}
		parts := body.Contents[0].Parts
		if !assert.Len(t, parts, 2) || !assert.NotNil(t, parts[1].InlineData) {
			return
		}
		assert.Equal(t, "audio/ogg", parts[1].InlineData.MimeType)
		assert.Equal(t, base64.StdEncoding.EncodeToString(audio), parts[1].InlineData.Data)

		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"hello there"}]}}]}`))
	}))
	defer srv.Close()

	out, err := NewGemini(srv.URL, "k", "m").Transcribe(context.Background(), audio, "audio/ogg", "transcribe")
	require.NoError(t, err)
	assert.Equal(t, "hello there", out)

	_, err = NewGemini(srv.URL, "k", "m").Transcribe(context.Background(), nil, "audio/ogg", "transcribe")
	assert.Error(t, err)
}

func TestGemini_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		status    int
		body      string
		permanent bool
	}{
		{name: "bad request", status: http.StatusBadRequest, body: `{"error":{}}`, permanent: true},
		{name: "rate limited", status: http.StatusTooManyRequests, body: `{}`},
		{name: "server error", status: http.StatusInternalServerError, body: `oops`},
		{name: "blocked", status: http.StatusOK, body: `{"promptFeedback":{"blockReason":"SAFETY"}}`},
		{name: "no candidates", status: http.StatusOK, body: `{"candidates":[]}`},
		{name: "empty text", status: http.StatusOK, body: `{"candidates":[{"content":{"parts":[]},"finishReason":"MAX_TOKENS"}]}`},
		{name: "invalid json", status: http.StatusOK, body: `{`, permanent: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := NewGemini(srv.URL, "k", "m").Generate(context.Background(), "p")
			require.Error(t, err)
			assert.Equal(t, tt.permanent, retry.IsPermanent(err))
		})
	}
}

func TestOpenAICompatible_Generate(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer key", r.Header.Get("Authorization"))

		var body struct {
			Model    string        `json:"model"`
			Messages []chatMessage `json:"messages"`
		}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "gpt-test", body.Model)
		if assert.Len(t, body.Messages, 1) {
			assert.Equal(t, "user", body.Messages[0].Role)
		}

		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"answer\n"}}]}`))
	}))
	defer srv.Close()

	p := NewOpenAI(srv.URL+"/", "key", "gpt-test")
	out, err := p.Generate(context.Background(), "question")
	require.NoError(t, err)
	assert.Equal(t, "answer", out)

	_, err = p.Transcribe(context.Background(), []byte{1}, "audio/ogg", "x")
	assert.ErrorIs(t, err, ErrTranscriptionUnsupported)
}

func TestAnthropic_Generate(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "key", r.Header.Get("x-api-key"))
		_, _ = w.Write([]byte(`{"content":[{"type":"text","text":"done"}]}`))
	}))
	defer srv.Close()

	out, err := NewAnthropic(srv.URL, "key", "claude-test").Generate(context.Background(), "p")
	require.NoError(t, err)
	assert.Equal(t, "done", out)
}

func TestRetrying(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		statuses []int
		wantErr  bool
		calls    int32
	}{
		{name: "transient then ok", statuses: []int{500, 503, 200}, calls: 3},
		{name: "client error not retried", statuses: []int{400}, wantErr: true, calls: 1},
		{name: "gives up", statuses: []int{500, 500, 500, 500}, wantErr: true, calls: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var calls atomic.Int32
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				n := calls.Add(1)
				status := tt.statuses[min(int(n), len(tt.statuses))-1]
				w.WriteHeader(status)
				if status == http.StatusOK {
					_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"ok"}]}}]}`))
				}
			}))
			defer srv.Close()

			gen := NewRetrying(NewGemini(srv.URL, "k", "m"), fastRetrier())
			out, err := gen.Generate(context.Background(), "p")
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				require.NoError(t, err)
				assert.Equal(t, "ok", out)
			}
			assert.Equal(t, tt.calls, calls.Load())
		})
	}
}

func TestRetrying_UnsupportedTranscriptionIsNotRetried(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer srv.Close()

	gen := NewRetrying(NewOpenAI(srv.URL, "k", "m"), fastRetrier())
	_, err := gen.Transcribe(context.Background(), []byte{1}, "audio/ogg", "p")
	assert.ErrorIs(t, err, ErrTranscriptionUnsupported)
	assert.Zero(t, calls.Load())
}

func TestNewProvider(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	tests := []struct {
		name    string
		cfg     config.LLMConfig
		wantErr bool
	}{
		{name: "gemini", cfg: config.LLMConfig{Provider: "gemini", APIKey: "k", Model: "m"}},
		{name: "openai", cfg: config.LLMConfig{Provider: "openai", APIKey: "k", Model: "m"}},
		{name: "openrouter", cfg: config.LLMConfig{Provider: "openrouter", APIKey: "k", Model: "m"}},
		{name: "anthropic", cfg: config.LLMConfig{Provider: "anthropic", APIKey: "k", Model: "m"}},
		{name: "ollama without key", cfg: config.LLMConfig{Provider: "ollama", Model: "m"}},
		{name: "missing key", cfg: config.LLMConfig{Provider: "gemini", Model: "m"}, wantErr: true},
		{name: "unknown", cfg: config.LLMConfig{Provider: "nope", APIKey: "k"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			gen, err := NewProvider(ctx, &tt.cfg)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.IsType(t, &Retrying{}, gen)
		})
	}
}
