package routing

import (
	"fmt"

	"github.com/ai-gateway/chat-relay/internal/provider"
)

// Model describes a model and the provider serving it. Weight is
// informational: it is listed by /models for clients and operators, and
// Resolve never consults it.
type Model struct {
	Name     string `yaml:"name" json:"name"`
	Provider string `yaml:"provider" json:"provider"`
	Weight   int    `yaml:"weight" json:"weight"`
}

// Router maps models to providers.
type Router struct {
	models    []Model
	providers map[string]provider.CompletionProvider
	fallback  Model
}

// New creates a router whose catalog holds only the fallback model.
func New(fallback Model) *Router {
	return &Router{
		models:    []Model{fallback},
		providers: make(map[string]provider.CompletionProvider),
		fallback:  fallback,
	}
}

// Register associates a provider name with an implementation.
func (r *Router) Register(name string, p provider.CompletionProvider) {
	r.providers[name] = p
}

// SetModels replaces the catalog. The fallback model stays resolvable.
func (r *Router) SetModels(models []Model) {
	if len(models) == 0 {
		r.models = []Model{r.fallback}
		return
	}
	r.models = append([]Model(nil), models...)
}

// Resolve returns the catalog entry for model and its provider. Unknown
// models are served by the fallback model's provider.
func (r *Router) Resolve(model string) (Model, provider.CompletionProvider, error) {
	m := Model{Name: model, Provider: r.fallback.Provider, Weight: 1}
	for _, cand := range r.models {
		if cand.Name == model {
			m = cand
			break
		}
	}
	p, ok := r.providers[m.Provider]
	if !ok {
		return Model{}, nil, fmt.Errorf("routing: no provider registered for %q (model %q)", m.Provider, m.Name)
	}
	return m, p, nil
}

func (r *Router) Models() []Model {
	return append([]Model(nil), r.models...)
}
