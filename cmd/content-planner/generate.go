// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/content-planner/internal/inputs"
	"github.com/pdiddy/content-planner/internal/planner"
	"github.com/pdiddy/content-planner/internal/render"
	"github.com/pdiddy/content-planner/internal/store"
	"github.com/pdiddy/content-planner/pkg/types"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a week plan from an inputs file",
	Long: `Generate reads a company, its personas, subreddits and keywords from a YAML
inputs file and produces one week of scheduled posts with seeded comment
threads plus a quality report.

The same inputs, week and seed always produce the same plan. --history biases
keyword and venue selection away from what stored plans used in recent weeks;
--save persists the plan so later weeks can see it.`,
	RunE: runGenerate,
}

func runGenerate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	cfg, err := loadConfig(viper.GetViper(), loadedSecrets)
	if err != nil {
		return err
	}

	inputsPath, _ := cmd.Flags().GetString("inputs")
	if inputsPath == "" {
		return fmt.Errorf("--inputs is required")
	}
	in, err := inputs.Load(inputsPath)
	if err != nil {
		return err
	}

	weekFlag, _ := cmd.Flags().GetString("week")
	week, err := parseWeek(weekFlag, time.Now())
	if err != nil {
		return err
	}

	opts := planner.Options{WeekStart: week}
	opts.Recent.KeywordIDs, _ = cmd.Flags().GetStringSlice("recent-keywords")
	opts.Recent.VenueNames, _ = cmd.Flags().GetStringSlice("recent-venues")
	if cmd.Flags().Changed("seed") {
		seed, _ := cmd.Flags().GetUint32("seed")
		opts.Seed = &seed
	}

	format, err := formatFlag(cmd, cfg.Generation.Format)
	if err != nil {
		return err
	}

	history, _ := cmd.Flags().GetBool("history")
	save, _ := cmd.Flags().GetBool("save")

	var st store.Store
	if history || save {
		st, err = openStore(ctx, cfg.Store)
		if err != nil {
			return err
		}
		defer st.Close()
	}

	if history {
		hints, err := st.RecentHints(ctx, in.Company.ID, week, cfg.Generation.RecencyWeeks)
		if err != nil {
			return err
		}
		opts.Recent.KeywordIDs = append(opts.Recent.KeywordIDs, hints.KeywordIDs...)
		opts.Recent.VenueNames = append(opts.Recent.VenueNames, hints.VenueNames...)
		fmt.Fprintf(os.Stderr, "Recent history: %d keywords, %d venues over %d weeks\n",
			len(hints.KeywordIDs), len(hints.VenueNames), cfg.Generation.RecencyWeeks)
	}

	res, err := planner.Generate(*in, opts)
	if err != nil {
		return err
	}
	if err := writeOutput(cmd, func(w io.Writer) error { return render.Result(w, res, format) }); err != nil {
		return err
	}

	if !save {
		return nil
	}
	if err := st.SaveInputs(ctx, *in); err != nil {
		return err
	}
	plan, err := st.SavePlan(ctx, in.Company.ID, week, res)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "Saved plan %s: %d posts, %d comments, quality %d/10\n",
		plan.ID, len(plan.Posts), len(plan.Comments), plan.Quality.Score)
	return nil
}

// parseWeek reads a YYYY-MM-DD date and snaps it to the Monday of its week.
// An empty value selects the week containing now.
func parseWeek(s string, now time.Time) (time.Time, error) {
	if s == "" {
		return planner.WeekStart(now), nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing --week %q: expected YYYY-MM-DD", s)
	}
	week := planner.WeekStart(t)
	if !week.Equal(t) {
		fmt.Fprintf(os.Stderr, "Note: %s is not a Monday; using week of %s\n", s, week.Format("2006-01-02"))
	}
	return week, nil
}

// formatFlag returns the --format flag, or fallback when the flag was not
// given and fallback is set.
func formatFlag(cmd *cobra.Command, fallback types.OutputFormat) (types.OutputFormat, error) {
	if !cmd.Flags().Changed("format") && fallback != "" {
		return fallback, nil
	}
	f, _ := cmd.Flags().GetString("format")
	return render.ParseFormat(f)
}

// writeOutput sends write to --out when set, otherwise to stdout.
func writeOutput(cmd *cobra.Command, write func(io.Writer) error) error {
	out, _ := cmd.Flags().GetString("out")
	if out == "" {
		return write(os.Stdout)
	}
	if err := render.ToFile(out, write); err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "Wrote %s\n", out)
	return nil
}

func init() {
	generateCmd.Flags().String("inputs", "", "path to the inputs YAML file (company, personas, subreddits, keywords)")
	generateCmd.Flags().String("week", "", "week start as YYYY-MM-DD, snapped to Monday (default: current week)")
	generateCmd.Flags().Uint32("seed", 0, "override the seed derived from company id and week")
	generateCmd.Flags().StringSlice("recent-keywords", nil, "keyword ids used recently (down-weighted)")
	generateCmd.Flags().StringSlice("recent-venues", nil, "subreddit names used recently (down-weighted)")
	generateCmd.Flags().Bool("history", false, "add recency hints from plans in the store")
	generateCmd.Flags().Bool("save", false, "persist the inputs and the generated plan")
	generateCmd.Flags().String("format", "yaml", "output format: yaml, json or text")
	generateCmd.Flags().String("out", "", "write output to this file instead of stdout")

	rootCmd.AddCommand(generateCmd)
}
