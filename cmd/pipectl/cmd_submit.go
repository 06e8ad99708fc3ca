package main

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"pipeline-builder/application/ports"
	"pipeline-builder/application/services"
	"pipeline-builder/domain/core/aggregates"
	"pipeline-builder/infrastructure/validation"
)

var submitFlags struct {
	endpoint    string
	timeout     time.Duration
	local       bool
	concurrency int
}

var submitCmd = &cobra.Command{
	Use:   "submit FILE...",
	Short: "Submit pipeline documents and print the analysis",
	Long: "Submit reads {nodes, edges} JSON documents and sends each one to the\n" +
		"validation service. With --local the analysis runs in-process.",
	Args: cobra.MinimumNArgs(1),
	RunE: runSubmit,
}

func init() {
	defaults := validation.DefaultClientConfig()

	f := submitCmd.Flags()
	f.StringVar(&submitFlags.endpoint, "endpoint", defaults.Endpoint, "Validation service URL")
	f.DurationVar(&submitFlags.timeout, "timeout", defaults.Timeout, "Request timeout")
	f.BoolVar(&submitFlags.local, "local", false, "Analyse in-process instead of calling the service")
	f.IntVar(&submitFlags.concurrency, "concurrency", 4, "Documents submitted at once")
}

func runSubmit(cmd *cobra.Command, args []string) error {
	logger := newLogger()
	defer func() { _ = logger.Sync() }()

	var svc ports.ValidationService
	if submitFlags.local {
		svc = services.NewPipelineAnalyzer(nil, nil, nil, nil, logger)
	} else {
		cfg := validation.DefaultClientConfig()
		cfg.Endpoint = submitFlags.endpoint
		cfg.Timeout = submitFlags.timeout
		svc = validation.NewClient(cfg, logger)
	}
	submitter := services.NewSubmissionService(nil, svc, nil, logger)

	reports := make([]services.Report, len(args))
	g, ctx := errgroup.WithContext(cmd.Context())
	if submitFlags.concurrency > 0 {
		g.SetLimit(submitFlags.concurrency)
	}
	for i, path := range args {
		g.Go(func() error {
			doc, err := readDocument(path)
			if err != nil {
				return err
			}
			reports[i] = submitter.SubmitDocument(ctx, doc)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	failed := 0
	for i, r := range reports {
		if len(args) > 1 {
			fmt.Fprintf(out, "== %s ==\n", args[i])
		}
		fmt.Fprintln(out, r.Message())
		if !r.OK() {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d submissions failed", failed, len(args))
	}
	return nil
}

func readDocument(path string) (aggregates.PipelineDocument, error) {
	var doc aggregates.PipelineDocument
	data, err := os.ReadFile(path)
	if err != nil {
		return doc, fmt.Errorf("read pipeline: %w", err)
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		return doc, fmt.Errorf("%s: invalid pipeline document: %w", path, err)
	}
	return doc, nil
}
