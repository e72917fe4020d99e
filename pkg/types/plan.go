// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// GeneratedPost is one post of a generated week plan. Until a store assigns
// permanent identities it is identified by its position in
// GenerationResult.Posts (its temp index).
type GeneratedPost struct {
	// Subreddit is the venue name the post targets.
	Subreddit string `json:"subreddit" yaml:"subreddit"`

	Title string `json:"title" yaml:"title"`
	Body  string `json:"body" yaml:"body"`

	// Author is the persona username.
	Author string `json:"author" yaml:"author"`

	// ScheduledAt is an absolute UTC timestamp within the plan's week.
	ScheduledAt time.Time `json:"scheduled_at" yaml:"scheduled_at"`

	// KeywordIDs holds 1 to 3 distinct keyword ids, primary first.
	KeywordIDs []string `json:"keyword_ids" yaml:"keyword_ids"`
}

// PrimaryKeywordID returns the keyword the post was written around.
func (p GeneratedPost) PrimaryKeywordID() string {
	if len(p.KeywordIDs) == 0 {
		return ""
	}
	return p.KeywordIDs[0]
}

// GeneratedComment is one comment of a generated thread. PostIndex is the
// owning post's temp index; ParentIndex, when set, is the temp index of an
// earlier comment on the same post. A nil ParentIndex marks a top-level comment.
type GeneratedComment struct {
	PostIndex   int       `json:"post_index" yaml:"post_index"`
	ParentIndex *int      `json:"parent_index,omitempty" yaml:"parent_index,omitempty"`
	Text        string    `json:"text" yaml:"text"`
	Author      string    `json:"author" yaml:"author"`
	ScheduledAt time.Time `json:"scheduled_at" yaml:"scheduled_at"`
}

// IsTopLevel reports whether the comment has no parent comment.
func (c GeneratedComment) IsTopLevel() bool {
	return c.ParentIndex == nil
}

// Quality flag names.
const (
	FlagSinglePersonaDominates = "single_persona_dominates"
	FlagSalesyLanguage         = "salesy_language"
	FlagTooManyOPReplies       = "too_many_op_replies"
)

// QualityReport summarizes how manufactured a generated batch looks.
type QualityReport struct {
	// Score is an integer in [0,10]; higher looks more authentic.
	Score int `json:"score" yaml:"score"`

	// Flags maps each flag name to whether it triggered.
	Flags map[string]bool `json:"flags" yaml:"flags"`

	// Notes is a three-sentence summary, one sentence per flag.
	Notes string `json:"notes" yaml:"notes"`
}

// GenerationResult is the complete output of one generator invocation.
type GenerationResult struct {
	// Seed is the RNG seed the plan was generated with.
	Seed     uint32             `json:"seed" yaml:"seed"`
	Posts    []GeneratedPost    `json:"posts" yaml:"posts"`
	Comments []GeneratedComment `json:"comments" yaml:"comments"`
	Quality  QualityReport      `json:"quality" yaml:"quality"`
}

// CommentsFor returns the comments owned by the post at postIndex, in output order.
func (r *GenerationResult) CommentsFor(postIndex int) []GeneratedComment {
	var out []GeneratedComment
	for _, c := range r.Comments {
		if c.PostIndex == postIndex {
			out = append(out, c)
		}
	}
	return out
}

// StoredPost is a GeneratedPost after a store assigned it a permanent id.
type StoredPost struct {
	ID string `json:"id" yaml:"id"`
	GeneratedPost `yaml:",inline"`
}

// StoredComment is a GeneratedComment with permanent ids for itself, its post
// and (for replies) its parent comment.
type StoredComment struct {
	ID          string    `json:"id" yaml:"id"`
	PostID      string    `json:"post_id" yaml:"post_id"`
	ParentID    string    `json:"parent_id,omitempty" yaml:"parent_id,omitempty"`
	Text        string    `json:"text" yaml:"text"`
	Author      string    `json:"author" yaml:"author"`
	ScheduledAt time.Time `json:"scheduled_at" yaml:"scheduled_at"`
}

// StoredPlan is a persisted week plan.
type StoredPlan struct {
	ID        string          `json:"id" yaml:"id"`
	CompanyID string          `json:"company_id" yaml:"company_id"`
	WeekStart time.Time       `json:"week_start" yaml:"week_start"`
	Seed      uint32          `json:"seed" yaml:"seed"`
	CreatedAt time.Time       `json:"created_at" yaml:"created_at"`
	Quality   QualityReport   `json:"quality" yaml:"quality"`
	Posts     []StoredPost    `json:"posts" yaml:"posts"`
	Comments  []StoredComment `json:"comments" yaml:"comments"`
}

// PlanSummary is a one-line listing of a stored plan.
type PlanSummary struct {
	ID           string    `json:"id" yaml:"id"`
	CompanyID    string    `json:"company_id" yaml:"company_id"`
	WeekStart    time.Time `json:"week_start" yaml:"week_start"`
	PostCount    int       `json:"post_count" yaml:"post_count"`
	CommentCount int       `json:"comment_count" yaml:"comment_count"`
	Score        int       `json:"score" yaml:"score"`
}
