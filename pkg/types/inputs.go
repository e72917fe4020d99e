// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the content-planner pipeline:
// the relational inputs a plan is generated from (Company, Persona, Subreddit,
// Keyword), the generated output (GeneratedPost, GeneratedComment,
// QualityReport), and the records a store hands back once a plan has
// permanent identities (StoredPlan, PlanSummary).
package types

// Company is the organisation a content plan is generated for.
type Company struct {
	// ID is the stable company identifier. It also feeds seed derivation.
	ID string `json:"id" yaml:"id"`

	// Name is the display name used for soft mentions in post bodies.
	Name string `json:"name" yaml:"name"`

	// Website is optional.
	Website string `json:"website,omitempty" yaml:"website,omitempty"`

	// Description is a short product description.
	Description string `json:"description" yaml:"description"`

	// PostsPerWeek is the requested post count. The generator clamps it to [1,14].
	PostsPerWeek int `json:"posts_per_week" yaml:"posts_per_week"`
}

// Persona is a simulated poster or commenter identity.
type Persona struct {
	ID        string `json:"id" yaml:"id"`
	CompanyID string `json:"company_id" yaml:"company_id"`
	Username  string `json:"username" yaml:"username"`
	Bio       string `json:"bio" yaml:"bio"`
}

// Subreddit is a discussion venue a post targets, e.g. "r/powerpoint".
type Subreddit struct {
	ID        string `json:"id" yaml:"id"`
	CompanyID string `json:"company_id" yaml:"company_id"`
	Name      string `json:"name" yaml:"name"`
}

// Keyword is a search-intent phrase a post is written around.
type Keyword struct {
	ID     string `json:"id" yaml:"id"`
	Phrase string `json:"phrase" yaml:"phrase"`
}

// RecencyHints lists keyword ids and venue names used by recent plans.
// The generator down-weights them; it never excludes them.
type RecencyHints struct {
	KeywordIDs []string `json:"keyword_ids,omitempty" yaml:"keyword_ids,omitempty"`
	VenueNames []string `json:"venue_names,omitempty" yaml:"venue_names,omitempty"`
}

// IsEmpty reports whether no recency information is present.
func (h RecencyHints) IsEmpty() bool {
	return len(h.KeywordIDs) == 0 && len(h.VenueNames) == 0
}

// PlanInputs bundles everything a plan is generated from for one company.
type PlanInputs struct {
	Company    Company     `json:"company" yaml:"company"`
	Personas   []Persona   `json:"personas" yaml:"personas"`
	Subreddits []Subreddit `json:"subreddits" yaml:"subreddits"`
	Keywords   []Keyword   `json:"keywords" yaml:"keywords"`
}
