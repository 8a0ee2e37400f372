// Package transport provides the request pipeline for backend exchanges:
// normalized request/response types, the Handler/Middleware composition
// pattern, and the core HTTP handler that routes to provider adapters.
package transport

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/docvet/docvet/internal/domain"
	llmerrors "github.com/docvet/docvet/internal/llm/errors"
)

// Router selects the appropriate provider adapter for request routing.
// This interface is implemented by the providers package.
type Router interface {
	Pick(provider, model string) (ProviderAdapter, error)
}

// ProviderAdapter abstracts provider-specific HTTP communication patterns.
// This interface is implemented by the providers package.
type ProviderAdapter interface {
	Build(ctx context.Context, req *Request) (*http.Request, error)
	Parse(httpResp *http.Response) (*Response, error)
	Name() string
}

// Handler processes backend requests through a composable middleware pipeline.
// Core abstraction enabling request preprocessing, response postprocessing,
// and cross-cutting concerns like retries and observability.
type Handler interface {
	Handle(ctx context.Context, req *Request) (*Response, error)
}

// HandlerFunc adapts a function to the Handler interface.
type HandlerFunc func(context.Context, *Request) (*Response, error)

// Handle implements the Handler interface.
func (f HandlerFunc) Handle(ctx context.Context, req *Request) (*Response, error) {
	return f(ctx, req)
}

// Middleware transforms a Handler into an enhanced Handler for composable
// behavior. Applied in reverse order with the last middleware closest to the
// core handler.
type Middleware func(Handler) Handler

// Chain builds a middleware pipeline around a core handler. Middleware
// executes in the order provided with the first middleware outermost.
func Chain(h Handler, middlewares ...Middleware) Handler {
	for i := len(middlewares) - 1; i >= 0; i-- {
		h = middlewares[i](h)
	}
	return h
}

// NewHTTPHandler creates the core handler that makes actual HTTP requests.
func NewHTTPHandler(client *http.Client, router Router) Handler {
	return &httpHandler{
		client: client,
		router: router,
	}
}

// httpHandler is the core handler that makes actual HTTP requests.
type httpHandler struct {
	client *http.Client
	router Router
}

// Handle implements Handler by making one HTTP request to the selected
// provider. Exactly one outbound call per invocation; timeout errors
// surface as classified provider errors so the retry layer treats them
// as transient.
func (h *httpHandler) Handle(ctx context.Context, req *Request) (*Response, error) {
	if len(req.Messages) == 0 {
		return nil, llmerrors.ErrNoMessages
	}
	for i, msg := range req.Messages {
		if !domain.IsValidRole(msg.Role) {
			return nil, fmt.Errorf("%w: message %d has role %q", llmerrors.ErrInvalidRole, i, msg.Role)
		}
	}

	adapter, err := h.router.Pick(req.Provider, req.Model)
	if err != nil {
		return nil, fmt.Errorf("failed to select provider: %w", err)
	}

	reqCtx := ctx
	if req.Timeout > 0 {
		var cancel context.CancelFunc
		reqCtx, cancel = context.WithTimeout(ctx, req.Timeout)
		defer cancel()
	}

	httpReq, err := adapter.Build(reqCtx, req)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	start := time.Now()
	httpResp, err := h.client.Do(httpReq)
	if err != nil {
		// The parent context being live means the per-request deadline fired.
		if reqCtx.Err() == context.DeadlineExceeded && ctx.Err() == nil {
			return nil, &llmerrors.ProviderError{
				Provider:   adapter.Name(),
				StatusCode: http.StatusRequestTimeout,
				Message:    fmt.Sprintf("request timed out after %v", req.Timeout),
				Type:       llmerrors.ErrorTypeTimeout,
			}
		}
		if isTransportNetworkError(err) {
			return nil, &llmerrors.ProviderError{
				Provider: adapter.Name(),
				Message:  err.Error(),
				Type:     llmerrors.ErrorTypeNetwork,
			}
		}
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = httpResp.Body.Close() }()

	resp, err := adapter.Parse(httpResp)
	if err != nil {
		return nil, err
	}

	resp.Usage.LatencyMs = time.Since(start).Milliseconds()
	return resp, nil
}

// isTransportNetworkError detects connectivity failures from the HTTP client.
func isTransportNetworkError(err error) bool {
	msg := strings.ToLower(err.Error())
	for _, indicator := range []string{
		"connection refused",
		"connection reset",
		"broken pipe",
		"no such host",
		"network is unreachable",
		"i/o timeout",
		"eof",
	} {
		if strings.Contains(msg, indicator) {
			return true
		}
	}
	return false
}
