package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/docvet/docvet/internal/domain"
	"github.com/docvet/docvet/internal/engine"
	"github.com/docvet/docvet/internal/llm"
	"github.com/docvet/docvet/internal/specfile"
)

var (
	validateSpecPath string
	validateProvider string
	validateModel    string
	validateJSONOut  bool
)

var validateCmd = &cobra.Command{
	Use:   "validate <document.json>",
	Short: "Validate a document against a spec file",
	Long: `Validate runs every spec in the spec file against the document,
in file order, and prints the resulting report.

The document is a JSON file holding the already-extracted document
structure (title, sections, styles and so on). The spec file is YAML or
JSON, each entry carrying name, description and category.

Exit status is 0 when every spec passed, 1 on FAIL or ERROR results or a
fatal abort.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		logger := newLogger(cfg)

		doc, err := loadDocument(args[0])
		if err != nil {
			return err
		}

		specs, err := specfile.Load(validateSpecPath)
		if err != nil {
			return fmt.Errorf("loading specs: %w", err)
		}

		client, err := llm.NewClient(cfg.BackendConfiguration(), logger)
		if err != nil {
			return fmt.Errorf("initializing backend: %w", err)
		}

		// Ctrl-C requests a stop at the next spec boundary; the run still
		// ends with a well-formed partial report.
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		eng := engine.New(client, engine.Config{
			Provider: validateProvider,
			Model:    validateModel,
		}, logger)

		rep, err := eng.ValidateDocument(ctx, doc, specs)
		if err != nil {
			return fmt.Errorf("validation aborted: %w", err)
		}

		if validateJSONOut {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			if err := enc.Encode(rep); err != nil {
				return err
			}
		} else {
			renderReport(os.Stdout, rep)
		}

		if rep.Summary.Failed > 0 || rep.Summary.Errored > 0 || !rep.Complete {
			os.Exit(1)
		}
		return nil
	},
}

func init() {
	validateCmd.Flags().StringVarP(&validateSpecPath, "specs", "s", "specs.yaml", "spec file (YAML or JSON)")
	validateCmd.Flags().StringVar(&validateProvider, "provider", "", "backend provider override")
	validateCmd.Flags().StringVar(&validateModel, "model", "", "model override")
	validateCmd.Flags().BoolVar(&validateJSONOut, "json", false, "emit the report as JSON")
}

func loadDocument(path string) (domain.DocumentStructure, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading document: %w", err)
	}

	var doc domain.DocumentStructure
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing document %s: %w", path, err)
	}
	return doc, nil
}
