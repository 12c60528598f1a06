// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"fmt"
	"os"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/relevance-engine/internal/lexical"
	"github.com/pdiddy/relevance-engine/pkg/types"
)

// RequestFile is the on-disk representation of a ranking request and its
// results. A researcher can save a run to a file and reload the request later
// without retyping query parameters.
type RequestFile struct {
	Request RequestParams     `yaml:"request"`
	Results []types.Candidate `yaml:"results,omitempty"`
	Summary RunSummary        `yaml:"summary,omitempty"`
}

// RequestParams stores the query context in a serializable form.
type RequestParams struct {
	Query           string   `yaml:"query"`
	Purpose         string   `yaml:"purpose"`
	TargetDomains   []string `yaml:"target_domains,omitempty"`
	ExcludedDomains []string `yaml:"excluded_domains,omitempty"`
	TargetAspects   []string `yaml:"target_aspects,omitempty"`
	MinResults      int      `yaml:"min_results"`
	MaxResults      int      `yaml:"max_results"`
}

// RunSummary stores result statistics and a timestamp.
type RunSummary struct {
	Total          int          `yaml:"total"`
	DegradedStages []string     `yaml:"degraded_stages,omitempty"`
	ThresholdState string       `yaml:"threshold_state,omitempty"`
	Stats          []StageStats `yaml:"stats,omitempty"`
	Timestamp      time.Time    `yaml:"timestamp"`
}

// WriteRequestFile saves the request and its results to a YAML file.
func WriteRequestFile(path string, qc *types.QueryContext, res *Result) error {
	rf := RequestFile{
		Request: RequestParams{
			Query:           qc.RawQuery,
			Purpose:         string(qc.Purpose),
			TargetDomains:   qc.TargetDomains,
			ExcludedDomains: qc.ExcludedDomains,
			TargetAspects:   qc.TargetAspects,
			MinResults:      qc.Band.Min,
			MaxResults:      qc.Band.Max,
		},
		Summary: RunSummary{
			Total:          len(res.Candidates),
			DegradedStages: res.DegradedStages,
			ThresholdState: string(res.Threshold.State),
			Stats:          res.Stats,
			Timestamp:      time.Now(),
		},
	}
	for _, c := range res.Candidates {
		rf.Results = append(rf.Results, *c)
	}

	data, err := yaml.Marshal(&rf)
	if err != nil {
		return fmt.Errorf("marshaling request file: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadRequestFile loads a previously saved request file from disk.
func ReadRequestFile(path string) (*RequestFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading request file: %w", err)
	}
	var rf RequestFile
	if err := yaml.Unmarshal(data, &rf); err != nil {
		return nil, fmt.Errorf("parsing request file: %w", err)
	}
	return &rf, nil
}

// ToQueryContext converts stored parameters back into a validated QueryContext.
func (p RequestParams) ToQueryContext() (*types.QueryContext, error) {
	purpose, err := types.ParsePurpose(p.Purpose)
	if err != nil {
		return nil, err
	}

	qc := &types.QueryContext{
		RawQuery:        p.Query,
		Terms:           lexical.CompileQuery(p.Query),
		TargetDomains:   p.TargetDomains,
		ExcludedDomains: p.ExcludedDomains,
		TargetAspects:   p.TargetAspects,
		Purpose:         purpose,
		Band:            types.Band{Min: p.MinResults, Max: p.MaxResults},
	}
	if err := qc.Validate(); err != nil {
		return nil, err
	}
	return qc, nil
}
