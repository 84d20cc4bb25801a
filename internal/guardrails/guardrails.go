package guardrails

import (
	"errors"
	"strings"

	"github.com/ai-gateway/chat-relay/internal/relay"
)

// ErrViolation is returned when input contains a banned term.
var ErrViolation = errors.New("input violates guardrails")

// Guardrails performs simple input validation. With no terms it accepts everything.
type Guardrails struct {
	banned []string
}

func New(terms []string) *Guardrails {
	g := &Guardrails{}
	for _, t := range terms {
		t = strings.ToLower(strings.TrimSpace(t))
		if t != "" {
			g.banned = append(g.banned, t)
		}
	}
	return g
}

// Enabled reports whether any term is configured.
func (g *Guardrails) Enabled() bool { return len(g.banned) > 0 }

// CheckInput returns an error if input contains banned words.
func (g *Guardrails) CheckInput(input string) error {
	lower := strings.ToLower(input)
	for _, w := range g.banned {
		if strings.Contains(lower, w) {
			return ErrViolation
		}
	}
	return nil
}

// CheckMessages runs CheckInput over every message. Messages are never modified.
func (g *Guardrails) CheckMessages(messages []relay.Message) error {
	if !g.Enabled() {
		return nil
	}
	for _, m := range messages {
		if err := g.CheckInput(m.Content); err != nil {
			return err
		}
	}
	return nil
}
