package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.temporal.io/sdk/client"
	sdkworker "go.temporal.io/sdk/worker"

	"github.com/docvet/docvet/internal/worker"
)

var workerCmd = &cobra.Command{
	Use:   "worker",
	Short: "Run a Temporal validation worker",
	Long: `Worker connects to a Temporal server and processes batch
validation workflows. Each document in a batch runs as its own activity
with its own conversational session, so documents validate in parallel
while exchanges within one document stay strictly ordered.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		logger := newLogger(cfg)

		llmClient, err := worker.InitializeBackendClient(cfg.BackendConfiguration(), logger)
		if err != nil {
			return err
		}

		temporalClient, err := client.Dial(client.Options{
			HostPort:  cfg.Temporal.HostPort,
			Namespace: cfg.Temporal.Namespace,
		})
		if err != nil {
			return fmt.Errorf("connecting to temporal at %s: %w", cfg.Temporal.HostPort, err)
		}
		defer temporalClient.Close()

		w := sdkworker.New(temporalClient, worker.TaskQueue, sdkworker.Options{})
		worker.RegisterAll(w, llmClient)

		logger.Info("worker started",
			"task_queue", worker.TaskQueue,
			"temporal", cfg.Temporal.HostPort,
		)
		return w.Run(sdkworker.InterruptCh())
	},
}
