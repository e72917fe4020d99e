// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package render writes generated and stored plans as YAML, JSON, or a
// human-readable text calendar.
package render

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/content-planner/pkg/types"
)

// ErrUnknownFormat is returned for an output format other than yaml, json or text.
var ErrUnknownFormat = errors.New("unknown output format")

const (
	textWidth  = 72
	timeLayout = "Mon 2006-01-02 15:04"
)

// ParseFormat validates s as an output format. An empty string means YAML.
func ParseFormat(s string) (types.OutputFormat, error) {
	switch f := types.OutputFormat(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return types.FormatYAML, nil
	case types.FormatYAML, types.FormatJSON, types.FormatText:
		return f, nil
	default:
		return "", fmt.Errorf("%w %q: use yaml, json or text", ErrUnknownFormat, s)
	}
}

// Result writes a freshly generated plan.
func Result(w io.Writer, res *types.GenerationResult, format types.OutputFormat) error {
	if format == types.FormatText {
		return writeText(w, fmt.Sprintf("Week plan (seed %d)", res.Seed), resultView(res), res.Quality)
	}
	return encode(w, res, format)
}

// Plan writes a stored plan.
func Plan(w io.Writer, plan *types.StoredPlan, format types.OutputFormat) error {
	if format == types.FormatText {
		header := fmt.Sprintf("Plan %s for %s, week of %s (seed %d)",
			plan.ID, plan.CompanyID, plan.WeekStart.Format("2006-01-02"), plan.Seed)
		return writeText(w, header, storedView(plan), plan.Quality)
	}
	return encode(w, plan, format)
}

// Summaries writes a plan listing.
func Summaries(w io.Writer, plans []types.PlanSummary, format types.OutputFormat) error {
	if format != types.FormatText {
		return encode(w, plans, format)
	}
	if len(plans) == 0 {
		_, err := fmt.Fprintln(w, "No plans found.")
		return err
	}

	fmt.Fprintf(w, "%-36s  %-10s  %5s  %8s  %s\n", "ID", "Week", "Posts", "Comments", "Score")
	fmt.Fprintln(w, strings.Repeat("-", 72))
	for _, p := range plans {
		fmt.Fprintf(w, "%-36s  %-10s  %5d  %8d  %d/10\n",
			p.ID, p.WeekStart.Format("2006-01-02"), p.PostCount, p.CommentCount, p.Score)
	}
	_, err := fmt.Fprintf(w, "\n%d plans\n", len(plans))
	return err
}

// ToFile creates path (and its directory) and passes it to write.
func ToFile(path string, write func(io.Writer) error) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating output directory: %w", err)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	if err := write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func encode(w io.Writer, v any, format types.OutputFormat) error {
	switch format {
	case types.FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case types.FormatYAML, "":
		data, err := yaml.Marshal(v)
		if err != nil {
			return fmt.Errorf("marshaling YAML: %w", err)
		}
		_, err = w.Write(data)
		return err
	default:
		return fmt.Errorf("%w %q", ErrUnknownFormat, format)
	}
}

// --- text calendar ---

type postView struct {
	at       time.Time
	venue    string
	author   string
	title    string
	keywords []string
	comments []commentView
}

type commentView struct {
	depth  int
	at     time.Time
	author string
	text   string
}

func resultView(res *types.GenerationResult) []postView {
	posts := make([]postView, len(res.Posts))
	for i, p := range res.Posts {
		posts[i] = postView{at: p.ScheduledAt, venue: p.Subreddit, author: p.Author, title: p.Title, keywords: p.KeywordIDs}
	}
	depth := make([]int, len(res.Comments))
	for i, c := range res.Comments {
		if c.ParentIndex != nil && *c.ParentIndex < i {
			depth[i] = depth[*c.ParentIndex] + 1
		}
		if c.PostIndex < 0 || c.PostIndex >= len(posts) {
			continue
		}
		posts[c.PostIndex].comments = append(posts[c.PostIndex].comments,
			commentView{depth: depth[i], at: c.ScheduledAt, author: c.Author, text: c.Text})
	}
	return posts
}

func storedView(plan *types.StoredPlan) []postView {
	posts := make([]postView, len(plan.Posts))
	byID := make(map[string]int, len(plan.Posts))
	for i, p := range plan.Posts {
		posts[i] = postView{at: p.ScheduledAt, venue: p.Subreddit, author: p.Author, title: p.Title, keywords: p.KeywordIDs}
		byID[p.ID] = i
	}
	depth := make(map[string]int, len(plan.Comments))
	for _, c := range plan.Comments {
		d := 0
		if c.ParentID != "" {
			d = depth[c.ParentID] + 1
		}
		depth[c.ID] = d
		i, ok := byID[c.PostID]
		if !ok {
			continue
		}
		posts[i].comments = append(posts[i].comments,
			commentView{depth: d, at: c.ScheduledAt, author: c.Author, text: c.Text})
	}
	return posts
}

func writeText(w io.Writer, header string, posts []postView, q types.QualityReport) error {
	fmt.Fprintln(w, header)
	fmt.Fprintln(w, strings.Repeat("=", len(header)))

	for i, p := range posts {
		fmt.Fprintf(w, "\n[%d] %s  %s  u/%s\n", i+1, p.at.UTC().Format(timeLayout), p.venue, p.author)
		fmt.Fprintf(w, "    %s\n", p.title)
		if len(p.keywords) > 0 {
			fmt.Fprintf(w, "    keywords: %s\n", strings.Join(p.keywords, ", "))
		}
		for _, c := range p.comments {
			indent := strings.Repeat("  ", c.depth+2)
			fmt.Fprintf(w, "%s- %s u/%s: %s\n", indent, c.at.UTC().Format("15:04"), c.author,
				truncate(c.text, textWidth-len(indent)))
		}
	}

	fmt.Fprintf(w, "\nQuality: %d/10\n", q.Score)
	for _, name := range []string{types.FlagSinglePersonaDominates, types.FlagSalesyLanguage, types.FlagTooManyOPReplies} {
		mark := "ok"
		if q.Flags[name] {
			mark = "FLAGGED"
		}
		fmt.Fprintf(w, "  %-26s %s\n", name, mark)
	}
	_, err := fmt.Fprintf(w, "%s\n", q.Notes)
	return err
}

func truncate(s string, n int) string {
	if n < 4 {
		n = 4
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
