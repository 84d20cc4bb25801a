package echo

import (
	"context"
	"io"
	"strings"

	"github.com/ai-gateway/chat-relay/internal/provider"
)

// Provider responds by echoing the last message. It needs no credentials.
type Provider struct{}

func New() *Provider { return &Provider{} }

func (p *Provider) Complete(ctx context.Context, messages []provider.Message, model string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return reply(messages), nil
}

func (p *Provider) CompleteStreaming(ctx context.Context, messages []provider.Message, model string) (provider.Stream, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	text := reply(messages)
	s := &stream{ch: make(chan provider.Chunk, 1), done: make(chan struct{})}
	go s.produce(ctx, text)
	return s, nil
}

func reply(messages []provider.Message) string {
	if len(messages) == 0 {
		return ""
	}
	return "Echo: " + messages[len(messages)-1].Content
}

type stream struct {
	ch     chan provider.Chunk
	done   chan struct{}
	closed bool
	// err is written before ch is closed and read only after.
	err error
}

func (s *stream) produce(ctx context.Context, text string) {
	defer close(s.ch)
	if text == "" {
		return
	}
	for _, word := range strings.SplitAfter(text, " ") {
		if !s.send(ctx, provider.Chunk{Choices: []provider.Choice{{Index: 0, Delta: word}}}) {
			return
		}
	}
	s.send(ctx, provider.Chunk{Choices: []provider.Choice{{FinishReason: provider.FinishReasonStop}}})
}

// send delivers chunk unless the stream was closed or ctx ended first.
// A cancelled ctx is recorded so the reader sees it instead of io.EOF.
func (s *stream) send(ctx context.Context, chunk provider.Chunk) bool {
	if err := ctx.Err(); err != nil {
		s.err = err
		return false
	}
	select {
	case s.ch <- chunk:
		return true
	case <-ctx.Done():
		s.err = ctx.Err()
	case <-s.done:
	}
	return false
}

func (s *stream) Recv() (provider.Chunk, error) {
	chunk, ok := <-s.ch
	if !ok {
		if s.err != nil {
			return provider.Chunk{}, s.err
		}
		return provider.Chunk{}, io.EOF
	}
	return chunk, nil
}

func (s *stream) Close() error {
	if !s.closed {
		s.closed = true
		close(s.done)
	}
	return nil
}
