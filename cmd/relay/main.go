package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/ai-gateway/chat-relay/internal/config"
	"github.com/ai-gateway/chat-relay/internal/observability"
	"github.com/ai-gateway/chat-relay/internal/provider/echo"
	"github.com/ai-gateway/chat-relay/internal/provider/openai"
	"github.com/ai-gateway/chat-relay/internal/routing"
	"github.com/ai-gateway/chat-relay/internal/server"
	"github.com/ai-gateway/chat-relay/internal/version"
)

func main() {
	if err := newRootCommand().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:          "relay",
		Short:        "Relay chat messages to an LLM completion API over HTTP",
		Version:      version.Get().String(),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return run(cmd.Context(), configPath)
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to a config file (default: ./config.yaml or ./config/config.yaml)")
	cmd.AddCommand(newVersionCommand())
	return cmd
}

func newVersionCommand() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		RunE: func(cmd *cobra.Command, _ []string) error {
			info := version.Get()
			if !asJSON {
				fmt.Fprintln(cmd.OutOrStdout(), info.Table())
				return nil
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(info)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print as JSON")
	return cmd
}

func run(parent context.Context, configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := observability.Setup(ctx, cfg.TelemetryURL)
	if err != nil {
		return fmt.Errorf("failed to set up tracing: %w", err)
	}

	rt, err := buildRouter(cfg)
	if err != nil {
		return err
	}
	srv, err := server.New(cfg, rt)
	if err != nil {
		return err
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.Start(ctx)
	})
	g.Go(func() error {
		<-ctx.Done()
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(flushCtx); err != nil {
			log.Printf("tracing shutdown: %v", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	log.Println("server exited")
	return nil
}

// buildRouter constructs every provider the configuration can support and the
// model catalog that maps onto them.
func buildRouter(cfg *config.Config) (*routing.Router, error) {
	rt := routing.New(routing.Model{Name: cfg.Model, Provider: cfg.Provider, Weight: 1})
	rt.Register(config.ProviderEcho, echo.New())

	if cfg.OpenAIAPIKey != "" {
		p, err := openai.New(openai.Config{APIKey: cfg.OpenAIAPIKey, BaseURL: cfg.OpenAIBaseURL})
		if err != nil {
			return nil, err
		}
		rt.Register(config.ProviderOpenAI, p)
	}

	if cfg.ModelsPath != "" {
		models, err := routing.LoadCatalog(cfg.ModelsPath)
		if err != nil {
			return nil, err
		}
		rt.SetModels(models)
	}
	return rt, nil
}
