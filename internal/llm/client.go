// Package llm provides the backend adapter: a unified, resilient client over
// LLM providers. One Complete call issues exactly one conversational exchange
// (the full ordered transcript in, one reply out) through a middleware
// pipeline of retry logic and structured observability.
//
// Architecture:
//   - Provider-agnostic interface with an adapter per provider
//   - Middleware chain for composable resilience and observability
//   - Request/response only (no streaming)
package llm

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/docvet/docvet/internal/llm/configuration"
	llmerrors "github.com/docvet/docvet/internal/llm/errors"
	"github.com/docvet/docvet/internal/llm/providers"
	"github.com/docvet/docvet/internal/llm/retry"
	"github.com/docvet/docvet/internal/llm/transport"
)

// Client is the backend adapter over concrete LLM providers. Implementations
// send an ordered message sequence and return normalized text plus usage.
// The message sequence is never mutated or reordered; exactly one outbound
// call reaches the backend per successful attempt.
type Client interface {
	// Complete issues one conversational exchange. Transient failures are
	// retried with bounded exponential backoff inside the call; auth and
	// protocol failures propagate immediately as classified errors.
	Complete(ctx context.Context, req *transport.Request) (*transport.Response, error)
}

// routerAdapter bridges providers.Router to the transport layer's routing
// interface.
type routerAdapter struct {
	router providers.Router
}

func newRouterAdapter(router providers.Router) transport.Router {
	return &routerAdapter{router: router}
}

func (r *routerAdapter) Pick(provider, model string) (transport.ProviderAdapter, error) {
	adapter, err := r.router.Pick(provider, model)
	if err != nil {
		return nil, err
	}
	return adapter, nil
}

// client implements Client with the full middleware pipeline.
type client struct {
	config  *configuration.Config
	router  providers.Router
	handler transport.Handler
}

// NewClient creates a backend client with retry and logging middleware.
// A nil config gets production defaults; a nil logger falls back to
// slog.Default.
func NewClient(cfg *configuration.Config, logger *slog.Logger) (Client, error) {
	if cfg == nil {
		cfg = configuration.DefaultConfig()
	}
	if logger == nil {
		logger = slog.Default()
	}

	router, err := providers.NewRouter(cfg.Providers)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize router: %w", err)
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpTransport := &http.Transport{
			Proxy:                 http.ProxyFromEnvironment,
			MaxIdleConns:          configuration.DefaultMaxIdleConns,
			IdleConnTimeout:       configuration.DefaultIdleTimeoutSeconds * time.Second,
			TLSHandshakeTimeout:   configuration.DefaultTLSTimeoutSeconds * time.Second,
			ExpectContinueTimeout: 1 * time.Second,
		}
		httpClient = &http.Client{
			Transport: httpTransport,
			Timeout:   cfg.HTTPTimeout,
		}
	}

	coreHandler := transport.NewHTTPHandler(httpClient, newRouterAdapter(router))

	retryMiddleware, err := retry.NewMiddleware(cfg.Retry, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize retry middleware: %w", err)
	}

	loggingMiddleware := NewLoggingMiddleware(cfg.Observability, logger.With("component", "backend"))

	// Logging wraps retry so each logical exchange produces one summary
	// entry regardless of how many attempts it took.
	handler := transport.Chain(coreHandler, loggingMiddleware, retryMiddleware.Wrap)

	return &client{
		config:  cfg,
		router:  router,
		handler: handler,
	}, nil
}

// Complete implements Client.Complete. Request defaults (provider, model,
// generation parameters) are filled from configuration so overriding the
// model per call never changes conversation semantics.
func (c *client) Complete(ctx context.Context, req *transport.Request) (*transport.Response, error) {
	if req == nil || len(req.Messages) == 0 {
		return nil, llmerrors.ErrNoMessages
	}

	if req.Provider == "" {
		req.Provider = c.config.DefaultProvider
	}
	if req.Model == "" {
		req.Model = c.config.DefaultModel
	}
	if req.MaxTokens == 0 {
		req.MaxTokens = c.config.Generation.MaxTokens
	}
	if req.Temperature == 0 {
		req.Temperature = c.config.Generation.Temperature
	}
	if req.Timeout == 0 {
		if pc, ok := c.config.Providers[req.Provider]; ok && pc.Timeout > 0 {
			req.Timeout = pc.Timeout
		} else {
			req.Timeout = c.config.HTTPTimeout
		}
	}

	resp, err := c.handler.Handle(ctx, req)
	if err != nil {
		return nil, err
	}

	if resp.Content == "" {
		return nil, fmt.Errorf("%w from %s", llmerrors.ErrEmptyResponseContent, req.Provider)
	}

	return resp, nil
}
