// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package inputs loads and validates the YAML file describing a company,
// its personas, target subreddits and keywords.
package inputs

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/content-planner/pkg/types"
)

// ErrInvalid wraps every validation failure.
var ErrInvalid = errors.New("invalid inputs")

// Load reads an inputs file, fills missing company ids on personas and
// subreddits, and validates the result.
func Load(path string) (*types.PlanInputs, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading inputs: %w", err)
	}
	return Parse(data)
}

// Parse decodes inputs from YAML. See Load.
func Parse(data []byte) (*types.PlanInputs, error) {
	var in types.PlanInputs
	if err := yaml.Unmarshal(data, &in); err != nil {
		return nil, fmt.Errorf("parsing inputs: %w", err)
	}

	for i := range in.Personas {
		if in.Personas[i].CompanyID == "" {
			in.Personas[i].CompanyID = in.Company.ID
		}
	}
	for i := range in.Subreddits {
		if in.Subreddits[i].CompanyID == "" {
			in.Subreddits[i].CompanyID = in.Company.ID
		}
	}

	if err := Validate(&in); err != nil {
		return nil, err
	}
	return &in, nil
}

// Validate checks structural problems a store would reject: a missing
// company id, blank usernames or phrases, and duplicate ids. An empty keyword
// list is not rejected here; the planner reports it when generating.
func Validate(in *types.PlanInputs) error {
	var problems []string

	if strings.TrimSpace(in.Company.ID) == "" {
		problems = append(problems, "company.id is required")
	}

	seen := map[string]bool{}
	for i, p := range in.Personas {
		if strings.TrimSpace(p.Username) == "" {
			problems = append(problems, fmt.Sprintf("personas[%d].username is required", i))
		}
		if seen["persona:"+p.ID] {
			problems = append(problems, fmt.Sprintf("duplicate persona id %q", p.ID))
		}
		seen["persona:"+p.ID] = true
	}
	for i, s := range in.Subreddits {
		if strings.TrimSpace(s.Name) == "" {
			problems = append(problems, fmt.Sprintf("subreddits[%d].name is required", i))
		}
		if seen["subreddit:"+s.ID] {
			problems = append(problems, fmt.Sprintf("duplicate subreddit id %q", s.ID))
		}
		seen["subreddit:"+s.ID] = true
	}
	for i, k := range in.Keywords {
		if strings.TrimSpace(k.ID) == "" {
			problems = append(problems, fmt.Sprintf("keywords[%d].id is required", i))
		}
		if strings.TrimSpace(k.Phrase) == "" {
			problems = append(problems, fmt.Sprintf("keywords[%d].phrase is required", i))
		}
		if seen["keyword:"+k.ID] {
			problems = append(problems, fmt.Sprintf("duplicate keyword id %q", k.ID))
		}
		seen["keyword:"+k.ID] = true
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalid, strings.Join(problems, "; "))
	}
	return nil
}
