package completion

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubCompleter struct {
	calls int
	reply string
	err   error
}

func (s *stubCompleter) Complete(_ context.Context, _ string) (string, error) {
	s.calls++
	return s.reply, s.err
}

func TestNew_Providers(t *testing.T) {
	c, err := New(Config{Provider: "anthropic", Model: "claude-haiku-4-5-20251001", MaxTokens: 256, AnthropicKey: "k"})
	require.NoError(t, err)
	assert.IsType(t, &anthropicCompleter{}, c)

	c, err = New(Config{Provider: "openai", Model: "gpt-4o-mini", OpenAIKey: "k"})
	require.NoError(t, err)
	assert.IsType(t, &openaiCompleter{}, c)
}

func TestNew_UnknownProvider(t *testing.T) {
	_, err := New(Config{Provider: "bard"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown provider")
}

func TestNew_RateLimitedWrapper(t *testing.T) {
	c, err := New(Config{Provider: "openai", OpenAIKey: "k", RequestsPerSecond: 5, Burst: 2})
	require.NoError(t, err)
	assert.IsType(t, &rateLimited{}, c)
}

func TestWithRateLimit_PassesThrough(t *testing.T) {
	stub := &stubCompleter{reply: "85 | fit"}
	limited := WithRateLimit(stub, 100, 10)

	got, err := limited.Complete(context.Background(), "prompt")
	require.NoError(t, err)
	assert.Equal(t, "85 | fit", got)
	assert.Equal(t, 1, stub.calls)
}

func TestWithRateLimit_CancelledContext(t *testing.T) {
	stub := &stubCompleter{reply: "ok"}
	// Limiter with zero burst can never grant a token; cancellation must win.
	limited := WithRateLimit(stub, 0.001, 1)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := limited.Complete(ctx, "a")
	require.NoError(t, err) // first call consumes the burst token

	_, err = limited.Complete(ctx, "b")
	require.Error(t, err)
	assert.Equal(t, 1, stub.calls)
}
