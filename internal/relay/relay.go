// Package relay forwards chat messages to a completion provider and relays the
// reply back, either whole or as a sequence of text fragments.
package relay

import (
	"context"
	"errors"
	"io"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/ai-gateway/chat-relay/internal/provider"
)

// RoleAssistant is the role of every reply produced by the relay.
const RoleAssistant = "assistant"

// Message is a role-tagged chat message as received from clients.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest is the body of POST /ask. Messages must be present but may be empty.
type ChatRequest struct {
	Messages []Message `json:"messages" binding:"required"`
	Stream   *bool     `json:"stream,omitempty"`
}

// ChatResponse is the non-streaming reply. Error and Details are set on failure only.
type ChatResponse struct {
	Role    string `json:"role"`
	Content string `json:"content"`
	Error   string `json:"error,omitempty"`
	Details string `json:"details,omitempty"`
}

// ErrorResponse builds the failure body for err.
func ErrorResponse(c Category, err error) ChatResponse {
	resp := ChatResponse{Role: RoleAssistant, Content: c.Message, Error: c.Code}
	if err != nil {
		resp.Details = err.Error()
	}
	return resp
}

// Relay issues exactly one provider call per request.
type Relay struct {
	provider provider.CompletionProvider
	model    string
	timeout  time.Duration
	tracer   trace.Tracer
}

// Option configures a Relay.
type Option func(*Relay)

// WithTimeout bounds every provider call. Zero means no bound.
func WithTimeout(d time.Duration) Option {
	return func(r *Relay) { r.timeout = d }
}

func New(p provider.CompletionProvider, model string, opts ...Option) *Relay {
	r := &Relay{
		provider: p,
		model:    model,
		tracer:   otel.Tracer("github.com/ai-gateway/chat-relay/internal/relay"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Complete returns the full assistant reply.
func (r *Relay) Complete(ctx context.Context, messages []Message) (ChatResponse, error) {
	ctx, cancel := r.withTimeout(ctx)
	defer cancel()

	ctx, span := r.tracer.Start(ctx, "provider.complete", trace.WithAttributes(r.attrs(messages)...))
	defer span.End()

	text, err := r.provider.Complete(ctx, toProvider(messages), r.model)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return ChatResponse{}, err
	}
	return ChatResponse{Role: RoleAssistant, Content: text}, nil
}

// Open starts a streamed completion. An error here means nothing has been
// produced yet and the caller can still answer with a regular error body.
func (r *Relay) Open(ctx context.Context, messages []Message) (*Fragments, error) {
	ctx, cancel := r.withTimeout(ctx)
	ctx, span := r.tracer.Start(ctx, "provider.stream", trace.WithAttributes(r.attrs(messages)...))

	s, err := r.provider.CompleteStreaming(ctx, toProvider(messages), r.model)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		span.End()
		cancel()
		return nil, err
	}
	return &Fragments{stream: s, span: span, cancel: cancel}, nil
}

func (r *Relay) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.timeout > 0 {
		return context.WithTimeout(ctx, r.timeout)
	}
	return context.WithCancel(ctx)
}

func (r *Relay) attrs(messages []Message) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String("llm.model", r.model),
		attribute.Int("llm.messages", len(messages)),
	}
}

// toProvider strips messages to the plain shape, keeping order.
func toProvider(messages []Message) []provider.Message {
	out := make([]provider.Message, len(messages))
	for i, m := range messages {
		out[i] = provider.Message{Role: m.Role, Content: m.Content}
	}
	return out
}

// Fragments is a lazy, finite, non-restartable sequence of reply text.
type Fragments struct {
	stream  provider.Stream
	span    trace.Span
	cancel  context.CancelFunc
	pending []provider.Choice
	pos     int
	emitted int
	done    bool
	closed  bool
}

// Next returns the next non-empty fragment, or io.EOF once the provider
// signals completion. A choice with finish reason "stop" ends the sequence
// without contributing text.
func (f *Fragments) Next() (string, error) {
	for !f.done {
		for f.pos < len(f.pending) {
			c := f.pending[f.pos]
			f.pos++
			if c.FinishReason == provider.FinishReasonStop {
				f.done = true
				return "", io.EOF
			}
			if c.Delta != "" {
				f.emitted++
				return c.Delta, nil
			}
		}

		chunk, err := f.stream.Recv()
		if err != nil {
			f.done = true
			if errors.Is(err, io.EOF) {
				return "", io.EOF
			}
			f.span.RecordError(err)
			f.span.SetStatus(codes.Error, err.Error())
			return "", err
		}
		f.pending, f.pos = chunk.Choices, 0
	}
	return "", io.EOF
}

// Close releases the upstream stream. It is safe to call more than once.
func (f *Fragments) Close() error {
	if f.closed {
		return nil
	}
	f.closed = true
	err := f.stream.Close()
	f.span.SetAttributes(attribute.Int("llm.fragments", f.emitted))
	f.span.End()
	f.cancel()
	return err
}
