package completion

import (
	"context"

	"github.com/rotisserie/eris"
	openai "github.com/sashabaranov/go-openai"
)

// openaiCompleter backs Completer with the OpenAI chat completions API.
type openaiCompleter struct {
	client *openai.Client
	model  string
}

func newOpenAI(apiKey, model string) *openaiCompleter {
	return &openaiCompleter{
		client: openai.NewClient(apiKey),
		model:  model,
	}
}

func (c *openaiCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", eris.Wrap(err, "completion: openai chat completion")
	}
	if len(resp.Choices) == 0 {
		return "", eris.New("completion: openai returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}
