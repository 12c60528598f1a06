// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/relevance-engine/pkg/types"
)

// ReadPool loads a candidate pool file: the deduplicated output of the
// (external) collection stage, as YAML or JSON by extension. Candidates
// without an identifier get the normalized-title fallback; entries with
// neither identifier nor title are dropped with a count, not an error.
func ReadPool(path string) ([]*types.Candidate, int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, 0, fmt.Errorf("reading pool file: %w", err)
	}

	var raw []types.Candidate
	if strings.HasSuffix(path, ".json") {
		err = json.Unmarshal(data, &raw)
	} else {
		err = yaml.Unmarshal(data, &raw)
	}
	if err != nil {
		return nil, 0, fmt.Errorf("parsing pool file %s: %w", path, err)
	}

	candidates := make([]*types.Candidate, 0, len(raw))
	dropped := 0
	for i := range raw {
		c := &raw[i]
		c.EnsureID()
		if c.ID == "" {
			dropped++
			continue
		}
		candidates = append(candidates, c)
	}
	return candidates, dropped, nil
}
