package echo

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/ai-gateway/chat-relay/internal/provider"
)

func TestComplete(t *testing.T) {
	p := New()
	got, err := p.Complete(context.Background(), []provider.Message{
		{Role: "user", Content: "first"},
		{Role: "user", Content: "hello there"},
	}, "echo")
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if got != "Echo: hello there" {
		t.Fatalf("unexpected reply %q", got)
	}
}

func TestCompleteStreaming(t *testing.T) {
	p := New()
	s, err := p.CompleteStreaming(context.Background(), []provider.Message{{Role: "user", Content: "hello there"}}, "echo")
	if err != nil {
		t.Fatalf("stream: %v", err)
	}
	defer s.Close()

	var b strings.Builder
	var stopped bool
	for {
		chunk, err := s.Recv()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			t.Fatalf("recv: %v", err)
		}
		for _, c := range chunk.Choices {
			if c.FinishReason == provider.FinishReasonStop {
				stopped = true
				continue
			}
			b.WriteString(c.Delta)
		}
	}
	if b.String() != "Echo: hello there" {
		t.Fatalf("unexpected text %q", b.String())
	}
	if !stopped {
		t.Fatalf("expected a stop chunk")
	}
}

func TestCompleteStreamingEmpty(t *testing.T) {
	s, err := New().CompleteStreaming(context.Background(), nil, "echo")
	if err != nil {
		t.Fatalf("stream: %v", err)
	}
	defer s.Close()
	if _, err := s.Recv(); !errors.Is(err, io.EOF) {
		t.Fatalf("expected EOF, got %v", err)
	}
}

func TestCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := New().Complete(ctx, nil, "echo"); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestCompleteStreamingCanceledMidway(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	s, err := New().CompleteStreaming(ctx, []provider.Message{{Role: "user", Content: "a b c d e f g h i j"}}, "echo")
	if err != nil {
		t.Fatalf("stream: %v", err)
	}
	defer s.Close()

	if _, err := s.Recv(); err != nil {
		t.Fatalf("first recv: %v", err)
	}
	cancel()

	for i := 0; ; i++ {
		chunk, err := s.Recv()
		if err == nil {
			for _, c := range chunk.Choices {
				if c.FinishReason == provider.FinishReasonStop {
					t.Fatalf("stream finished normally after cancel")
				}
			}
			if i > 3 {
				t.Fatalf("stream kept producing after cancel")
			}
			continue
		}
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
		return
	}
}

func TestCloseEndsWithEOF(t *testing.T) {
	s, err := New().CompleteStreaming(context.Background(), []provider.Message{{Role: "user", Content: "a b c d e f"}}, "echo")
	if err != nil {
		t.Fatalf("stream: %v", err)
	}
	if _, err := s.Recv(); err != nil {
		t.Fatalf("first recv: %v", err)
	}
	s.Close()
	for {
		if _, err := s.Recv(); err != nil {
			if !errors.Is(err, io.EOF) {
				t.Fatalf("expected EOF after Close, got %v", err)
			}
			return
		}
	}
}
