package worker

import (
	"fmt"

	"log/slog"

	"github.com/docvet/docvet/internal/llm"
	"github.com/docvet/docvet/internal/llm/configuration"
)

// InitializeBackendClient creates the backend client a worker injects into
// its activities. Returns the client for dependency injection rather than
// setting global state.
func InitializeBackendClient(cfg *configuration.Config, logger *slog.Logger) (llm.Client, error) {
	if cfg == nil {
		cfg = configuration.DefaultConfig()
	}

	client, err := llm.NewClient(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize backend client: %w", err)
	}

	return client, nil
}
