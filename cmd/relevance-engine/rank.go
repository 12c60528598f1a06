// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/relevance-engine/internal/lexical"
	"github.com/pdiddy/relevance-engine/internal/pipeline"
	"github.com/pdiddy/relevance-engine/pkg/types"
)

var rankCmd = &cobra.Command{
	Use:   "rank",
	Short: "Rank and filter a candidate pool for a research purpose",
	Long: `Rank runs the full pipeline over a candidate pool file (the deduplicated
output of the collection stage) and prints a bounded, purpose-calibrated
result set with per-stage statistics.

The request comes from flags or a saved request file:

  relevance-engine rank --pool pool.yaml --query "climate adaptation" \
      --purpose q_methodology --min 30 --max 80
  relevance-engine rank --pool pool.yaml --request-file request.yaml`,
	RunE: runRank,
}

func init() {
	rankCmd.Flags().String("pool", "", "candidate pool file (YAML or JSON, required)")
	rankCmd.Flags().String("query", "", "research query")
	rankCmd.Flags().String("purpose", "", fmt.Sprintf("research purpose (%s)", purposeList()))
	rankCmd.Flags().String("domains", "", "target domains (comma-separated)")
	rankCmd.Flags().String("exclude-domains", "", "excluded domains (comma-separated)")
	rankCmd.Flags().String("aspects", "", "required aspects (comma-separated)")
	rankCmd.Flags().Int("min", 20, "target band minimum")
	rankCmd.Flags().Int("max", 50, "target band maximum")
	rankCmd.Flags().String("request-file", "", "load request parameters from a saved request file")
	rankCmd.Flags().String("save", "", "save the request and results to a request file")
	rankCmd.Flags().Bool("json", false, "output the full result as JSON")
	rankCmd.Flags().Bool("progress", false, "stream per-stage progress to stderr")

	rootCmd.AddCommand(rankCmd)
}

func runRank(cmd *cobra.Command, args []string) error {
	poolPath, _ := cmd.Flags().GetString("pool")
	if poolPath == "" {
		return fmt.Errorf("--pool is required")
	}

	qc, err := queryContextFromFlags(cmd)
	if err != nil {
		return err
	}

	candidates, dropped, err := pipeline.ReadPool(poolPath)
	if err != nil {
		return err
	}
	if dropped > 0 {
		fmt.Fprintf(os.Stderr, "warning: dropped %d pool entries without identifier or title\n", dropped)
	}

	cfg := rankConfig()
	p, cleanup, err := buildPipeline(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var res *pipeline.Result
	if progress, _ := cmd.Flags().GetBool("progress"); progress {
		res, err = runWithProgress(ctx, p, candidates, qc)
	} else {
		res, err = p.Run(ctx, candidates, qc)
	}
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	if jsonOutput {
		if err := pipeline.FormatJSON(res, os.Stdout); err != nil {
			return err
		}
	} else {
		pipeline.FormatTable(res, os.Stdout)
	}
	pipeline.FormatStats(res, os.Stderr)

	if savePath, _ := cmd.Flags().GetString("save"); savePath != "" {
		if err := pipeline.WriteRequestFile(savePath, qc, res); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Saved request to %s\n", savePath)
	}
	return nil
}

// runWithProgress consumes the streaming variant, echoing stage completions.
func runWithProgress(ctx context.Context, p *pipeline.Pipeline, candidates []*types.Candidate, qc *types.QueryContext) (*pipeline.Result, error) {
	stream := p.RunStream(ctx, candidates, qc)

	var res *pipeline.Result
	for {
		ev, ok := stream.Next()
		if !ok {
			break
		}
		if ev.Final {
			res = ev.Result
			continue
		}
		fmt.Fprintf(os.Stderr, "stage %s: %d -> %d (%s)\n",
			ev.Stage, ev.Stats.In, ev.Stats.Out, ev.Stats.Elapsed)
	}
	if err := stream.Err(); err != nil {
		return nil, err
	}
	if res == nil {
		return nil, fmt.Errorf("stream ended without a result")
	}
	return res, nil
}

// queryContextFromFlags builds the validated QueryContext from --request-file
// or the individual flags.
func queryContextFromFlags(cmd *cobra.Command) (*types.QueryContext, error) {
	if reqPath, _ := cmd.Flags().GetString("request-file"); reqPath != "" {
		rf, err := pipeline.ReadRequestFile(reqPath)
		if err != nil {
			return nil, err
		}
		return rf.Request.ToQueryContext()
	}

	query, _ := cmd.Flags().GetString("query")
	purposeStr, _ := cmd.Flags().GetString("purpose")
	min, _ := cmd.Flags().GetInt("min")
	max, _ := cmd.Flags().GetInt("max")

	purpose, err := types.ParsePurpose(purposeStr)
	if err != nil {
		return nil, err
	}

	qc := &types.QueryContext{
		RawQuery:        query,
		Terms:           lexical.CompileQuery(query),
		TargetDomains:   splitList(cmd, "domains"),
		ExcludedDomains: splitList(cmd, "exclude-domains"),
		TargetAspects:   splitList(cmd, "aspects"),
		Purpose:         purpose,
		Band:            types.Band{Min: min, Max: max},
	}
	if err := qc.Validate(); err != nil {
		return nil, err
	}
	return qc, nil
}

func splitList(cmd *cobra.Command, flag string) []string {
	raw, _ := cmd.Flags().GetString(flag)
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func purposeList() string {
	var names []string
	for _, p := range types.Purposes() {
		names = append(names, string(p))
	}
	return strings.Join(names, ", ")
}
