package routing

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ai-gateway/chat-relay/internal/provider/echo"
)

func TestRouterProvider(t *testing.T) {
	r := New(Model{Name: "echo", Provider: "echo", Weight: 1})
	p := echo.New()
	r.Register("echo", p)

	m, got, err := r.Resolve("echo")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if got == nil {
		t.Fatalf("expected provider")
	}
	if m.Name != "echo" {
		t.Fatalf("unexpected model %+v", m)
	}
}

func TestRouterUnknownModelFallsBack(t *testing.T) {
	r := New(Model{Name: "gpt-4o-mini", Provider: "echo"})
	r.Register("echo", echo.New())

	m, p, err := r.Resolve("something-else")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if p == nil || m.Provider != "echo" || m.Name != "something-else" {
		t.Fatalf("unexpected resolution %+v", m)
	}
}

func TestRouterMissingProvider(t *testing.T) {
	r := New(Model{Name: "gpt-4o-mini", Provider: "openai"})
	if _, _, err := r.Resolve("gpt-4o-mini"); err == nil {
		t.Fatalf("expected error without registered provider")
	}
}

func TestRouterSetModels(t *testing.T) {
	r := New(Model{Name: "a", Provider: "echo"})
	r.Register("echo", echo.New())
	r.SetModels([]Model{{Name: "b", Provider: "echo", Weight: 2}})

	if got := r.Models(); len(got) != 1 || got[0].Name != "b" {
		t.Fatalf("unexpected models %+v", got)
	}
	r.SetModels(nil)
	if got := r.Models(); len(got) != 1 || got[0].Name != "a" {
		t.Fatalf("expected fallback catalog, got %+v", got)
	}
}

func TestLoadCatalog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "models.yaml")
	data := []byte(`
models:
  - name: gpt-4o-mini
    provider: openai
    weight: 3
  - name: echo
    provider: echo
`)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	models, err := LoadCatalog(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(models) != 2 {
		t.Fatalf("expected 2 models, got %d", len(models))
	}
	if models[0].Weight != 3 || models[1].Weight != 1 {
		t.Fatalf("unexpected weights %+v", models)
	}
}

func TestLoadCatalogInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "models.yaml")
	if err := os.WriteFile(path, []byte("models:\n  - name: x\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := LoadCatalog(path); err == nil {
		t.Fatalf("expected error for entry without provider")
	}
}
