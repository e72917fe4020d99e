// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/content-planner/internal/inputs"
	"github.com/pdiddy/content-planner/internal/render"
	"github.com/pdiddy/content-planner/internal/store"
	"github.com/pdiddy/content-planner/pkg/types"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Manage stored inputs and plans (import, list, show, export)",
	Long: `Plan works with the plan store configured by --store-driver. Import saves
a company's inputs, list and show inspect saved plans, and export writes a
saved plan to a YAML or JSON file.`,
}

// --- import subcommand ---

var planImportCmd = &cobra.Command{
	Use:   "import",
	Short: "Store a company's inputs from a YAML file",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("inputs")
		if path == "" {
			return fmt.Errorf("--inputs is required")
		}
		in, err := inputs.Load(path)
		if err != nil {
			return err
		}

		st, err := planStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		if err := st.SaveInputs(cmd.Context(), *in); err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "Imported %s: %d personas, %d subreddits, %d keywords\n",
			in.Company.ID, len(in.Personas), len(in.Subreddits), len(in.Keywords))
		return nil
	},
}

// --- list subcommand ---

var planListCmd = &cobra.Command{
	Use:   "list",
	Short: "List a company's saved plans, newest week first",
	RunE: func(cmd *cobra.Command, args []string) error {
		company, _ := cmd.Flags().GetString("company")
		if company == "" {
			return fmt.Errorf("--company is required")
		}

		st, err := planStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		plans, err := st.ListPlans(cmd.Context(), company)
		if err != nil {
			return err
		}
		format, err := formatFlag(cmd, "")
		if err != nil {
			return err
		}
		return render.Summaries(os.Stdout, plans, format)
	},
}

// --- show subcommand ---

var planShowCmd = &cobra.Command{
	Use:   "show PLAN_ID",
	Short: "Print a saved plan",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := planStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		plan, err := st.LoadPlan(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		format, err := formatFlag(cmd, "")
		if err != nil {
			return err
		}
		return render.Plan(os.Stdout, plan, format)
	},
}

// --- export subcommand ---

var planExportCmd = &cobra.Command{
	Use:   "export PLAN_ID",
	Short: "Export a saved plan to YAML or JSON",
	Long: `Export writes a saved plan with its permanent post and comment ids to
--out, or to exports/<plan id>.<format> when --out is not given.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := formatFlag(cmd, "")
		if err != nil {
			return err
		}
		if format == types.FormatText {
			return fmt.Errorf("unsupported format %q: use yaml or json", format)
		}

		st, err := planStore(cmd)
		if err != nil {
			return err
		}
		defer st.Close()

		plan, err := st.LoadPlan(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		out, _ := cmd.Flags().GetString("out")
		if out == "" {
			out = filepath.Join("exports", plan.ID+"."+string(format))
		}
		if err := render.ToFile(out, func(w io.Writer) error { return render.Plan(w, plan, format) }); err != nil {
			return err
		}
		fmt.Println("Exported to", out)
		return nil
	},
}

// --- shared helpers ---

func planStore(cmd *cobra.Command) (store.Store, error) {
	cfg, err := loadConfig(viper.GetViper(), loadedSecrets)
	if err != nil {
		return nil, err
	}
	return openStore(cmd.Context(), cfg.Store)
}

func init() {
	planImportCmd.Flags().String("inputs", "", "path to the inputs YAML file")

	planListCmd.Flags().String("company", "", "company id")
	planListCmd.Flags().String("format", "text", "output format: text, yaml or json")

	planShowCmd.Flags().String("format", "text", "output format: text, yaml or json")

	planExportCmd.Flags().String("format", "yaml", "export format: yaml or json")
	planExportCmd.Flags().String("out", "", "output file (default: exports/<plan id>.<format>)")

	planCmd.AddCommand(planImportCmd)
	planCmd.AddCommand(planListCmd)
	planCmd.AddCommand(planShowCmd)
	planCmd.AddCommand(planExportCmd)

	rootCmd.AddCommand(planCmd)
}
