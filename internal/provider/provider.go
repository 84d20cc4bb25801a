package provider

import (
	"context"
	"errors"
	"fmt"
)

// FinishReasonStop marks the choice that ends a completion.
const FinishReasonStop = "stop"

// Message is the plain role/content pair a provider receives.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Choice is one entry of a streamed chunk.
type Choice struct {
	Index        int
	Delta        string
	FinishReason string
}

// Chunk is a single increment of a streamed completion.
type Chunk struct {
	Choices []Choice
}

// Stream yields chunks until io.EOF. Callers must Close it.
type Stream interface {
	Recv() (Chunk, error)
	Close() error
}

// CompletionProvider handles LLM chat completions.
type CompletionProvider interface {
	Complete(ctx context.Context, messages []Message, model string) (string, error)
	CompleteStreaming(ctx context.Context, messages []Message, model string) (Stream, error)
}

// Error is a failure reported by the remote completion service.
type Error struct {
	Provider   string
	StatusCode int
	Code       string
	Type       string
	Message    string
	Cause      error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" && e.Cause != nil {
		msg = e.Cause.Error()
	}
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: status %d: %s", e.Provider, e.StatusCode, msg)
	}
	return fmt.Sprintf("%s: %s", e.Provider, msg)
}

func (e *Error) Unwrap() error { return e.Cause }

// AsError reports whether err is, or wraps, a provider Error.
func AsError(err error) (*Error, bool) {
	var pe *Error
	if errors.As(err, &pe) {
		return pe, true
	}
	return nil, false
}
