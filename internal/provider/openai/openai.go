// Package openai implements provider.CompletionProvider on top of the OpenAI chat completions API.
package openai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	goopenai "github.com/sashabaranov/go-openai"

	"github.com/ai-gateway/chat-relay/internal/provider"
)

const name = "openai"

// Config holds the credentials and endpoint of the OpenAI backend.
type Config struct {
	APIKey  string
	BaseURL string // Default: SDK default (https://api.openai.com/v1)
}

// Provider talks to OpenAI. The underlying client is safe for concurrent use.
type Provider struct {
	client *goopenai.Client
}

var _ provider.CompletionProvider = (*Provider)(nil)

// New creates an OpenAI provider.
func New(cfg Config) (*Provider, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("openai: api key is required")
	}
	clientCfg := goopenai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	return &Provider{client: goopenai.NewClientWithConfig(clientCfg)}, nil
}

func (p *Provider) Complete(ctx context.Context, messages []provider.Message, model string) (string, error) {
	resp, err := p.client.CreateChatCompletion(ctx, goopenai.ChatCompletionRequest{
		Model:    model,
		Messages: toSDK(messages),
	})
	if err != nil {
		return "", wrapError(err)
	}
	if len(resp.Choices) == 0 {
		return "", &provider.Error{Provider: name, Message: "response contained no choices"}
	}
	return resp.Choices[0].Message.Content, nil
}

func (p *Provider) CompleteStreaming(ctx context.Context, messages []provider.Message, model string) (provider.Stream, error) {
	s, err := p.client.CreateChatCompletionStream(ctx, goopenai.ChatCompletionRequest{
		Model:    model,
		Messages: toSDK(messages),
		Stream:   true,
	})
	if err != nil {
		return nil, wrapError(err)
	}
	return &stream{s: s}, nil
}

func toSDK(messages []provider.Message) []goopenai.ChatCompletionMessage {
	out := make([]goopenai.ChatCompletionMessage, 0, len(messages))
	for _, m := range messages {
		out = append(out, goopenai.ChatCompletionMessage{Role: m.Role, Content: m.Content})
	}
	return out
}

type stream struct {
	s *goopenai.ChatCompletionStream
}

func (st *stream) Recv() (provider.Chunk, error) {
	resp, err := st.s.Recv()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return provider.Chunk{}, io.EOF
		}
		return provider.Chunk{}, wrapError(err)
	}
	chunk := provider.Chunk{Choices: make([]provider.Choice, 0, len(resp.Choices))}
	for _, c := range resp.Choices {
		chunk.Choices = append(chunk.Choices, provider.Choice{
			Index:        c.Index,
			Delta:        c.Delta.Content,
			FinishReason: string(c.FinishReason),
		})
	}
	return chunk, nil
}

func (st *stream) Close() error {
	st.s.Close()
	return nil
}

// wrapError converts SDK and transport failures into *provider.Error.
// Context cancellation is returned untouched; it is not a provider failure.
func wrapError(err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	var apiErr *goopenai.APIError
	if errors.As(err, &apiErr) {
		return &provider.Error{
			Provider:   name,
			StatusCode: apiErr.HTTPStatusCode,
			Code:       stringify(apiErr.Code),
			Type:       apiErr.Type,
			Message:    apiErr.Message,
			Cause:      err,
		}
	}

	var reqErr *goopenai.RequestError
	if errors.As(err, &reqErr) {
		msg := "request failed"
		if reqErr.Err != nil {
			msg = reqErr.Err.Error()
		}
		return &provider.Error{Provider: name, StatusCode: reqErr.HTTPStatusCode, Message: msg, Cause: err}
	}

	return &provider.Error{Provider: name, Message: err.Error(), Cause: err}
}

func stringify(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	default:
		b, err := json.Marshal(x)
		if err != nil {
			return fmt.Sprint(x)
		}
		return string(b)
	}
}
