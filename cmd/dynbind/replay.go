package main

import (
	"context"
	"encoding/json"
	"io"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel"

	"github.com/vango-dev/dynbind/internal/config"
	"github.com/vango-dev/dynbind/internal/errors"
	"github.com/vango-dev/dynbind/pkg/scenario"
)

func replayCmd(load func() (*config.Config, error)) *cobra.Command {
	var (
		asJSON  bool
		verbose bool
	)

	cmd := &cobra.Command{
		Use:   "replay <scenario>...",
		Short: "Replay scenarios and check their expectations",
		Long: `Replay one or more scenarios against a fresh coordinator each.

Locations are file paths or s3://bucket/key URLs. The command fails
if any scenario cannot be loaded or any expectation does not hold.

Examples:
  dynbind replay testdata/rebind.yaml
  dynbind replay s3://scenarios/rebind.yaml --json
  dynbind replay a.yaml b.yaml --verbose`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			setupLogger(cfg, cmd.ErrOrStderr())
			return runReplay(cmd.Context(), cmd.OutOrStdout(), cfg, args, asJSON, verbose)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print results as JSON")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Print every trace event")

	return cmd
}

func runReplay(ctx context.Context, w io.Writer, cfg *config.Config, locations []string, asJSON, verbose bool) error {
	if ctx == nil {
		ctx = context.Background()
	}

	loader := &scenario.Loader{
		S3: scenario.NewS3Source(scenario.NewS3Client(scenario.S3Options{
			Region:       cfg.S3.Region,
			Endpoint:     cfg.S3.Endpoint,
			UsePathStyle: cfg.S3.UsePathStyle,
		})),
	}
	runner := scenario.NewRunner(scenario.WithTracer(otel.Tracer(cfg.Tracing.TracerName)))

	var results []*scenario.Result
	failed := 0
	for _, location := range locations {
		s, err := loader.Load(ctx, location)
		if err != nil {
			return err
		}
		res, err := runner.Run(ctx, s)
		if err != nil {
			return err
		}
		results = append(results, res)
		if !res.Pass {
			failed++
		}
		if !asJSON {
			printResult(w, res, verbose)
		}
	}

	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(results); err != nil {
			return err
		}
	}

	if failed > 0 {
		return errors.New("S002").WithDetailf("%d of %d scenarios failed", failed, len(results))
	}
	return nil
}

func printResult(w io.Writer, res *scenario.Result, verbose bool) {
	if res.Pass {
		success(w, "%s (%d steps, %d events)", res.Scenario, len(res.Outcomes), len(res.Trace))
	} else {
		failure(w, "%s", res.Scenario)
		for _, msg := range res.Errors {
			info(w, "%s", msg)
		}
	}
	if !verbose {
		return
	}
	for _, e := range res.Trace {
		data, err := json.Marshal(e)
		if err != nil {
			continue
		}
		info(w, "%s", data)
	}
}
