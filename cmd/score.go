package main

import (
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/contourline/leadscore-cli/internal/brl"
	"github.com/contourline/leadscore-cli/internal/export"
	"github.com/contourline/leadscore-cli/internal/pipeline"
	"github.com/contourline/leadscore-cli/internal/table"
)

var (
	scoreWonFiles  []string
	scoreLostFiles []string
	scoreCategory  string
	scoreReuse     bool
	scoreSave      bool
	scoreKeepJunk  bool
	scoreMinScore  int
	scoreOutput    string
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score lost leads against the ideal customer profile",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		runner, st, err := initRunner(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		won, err := readTables(scoreWonFiles)
		if err != nil {
			return err
		}
		lost, err := readTables(scoreLostFiles)
		if err != nil {
			return err
		}
		if len(lost) == 0 {
			return eris.New("at least one --lost file is required")
		}

		res, err := runner.Run(ctx, pipeline.RunInput{
			Won:          won,
			Lost:         lost,
			Category:     scoreCategory,
			ReuseProfile: scoreReuse,
			SaveProfile:  scoreSave,
			KeepJunk:     scoreKeepJunk,
		})
		if err != nil {
			return err
		}

		minScore := scoreMinScore
		if minScore < 0 {
			minScore = cfg.Export.MinScore
		}

		out := cmd.OutOrStdout()
		if scoreOutput != "" {
			f, err := os.Create(scoreOutput)
			if err != nil {
				return eris.Wrapf(err, "create %s", scoreOutput)
			}
			defer f.Close()
			out = f
		}
		if err := export.Write(out, res.Leads, export.Options{MinScore: minScore}); err != nil {
			return err
		}

		printSummary(cmd, res)
		return nil
	},
}

// printSummary writes the run digest to stderr so stdout stays valid CSV.
func printSummary(cmd *cobra.Command, res *pipeline.RunResult) {
	w := cmd.ErrOrStderr()
	fmt.Fprintf(w, "Leads analisados: %d (descartados: %d)\n", res.Summary.TotalLeads, res.Summary.Removed)
	fmt.Fprintf(w, "Capital em risco: %s\n", brl.FormatBRL(res.Summary.CapitalAtRisk))
	for i, reason := range res.Summary.Reasons {
		if i >= 5 {
			break
		}
		fmt.Fprintf(w, "  %d. %s: %d leads, %s\n", i+1, reason.Reason, reason.Count, brl.FormatBRL(reason.Value))
	}
}

func readTables(paths []string) ([]*table.Table, error) {
	tables := make([]*table.Table, 0, len(paths))
	for _, path := range paths {
		t, err := table.ReadFile(path)
		if err != nil {
			return nil, err
		}
		tables = append(tables, t)
	}
	return tables, nil
}

func init() {
	scoreCmd.Flags().StringArrayVar(&scoreWonFiles, "won", nil, "won-deals file (CSV or XLSX, repeatable)")
	scoreCmd.Flags().StringArrayVar(&scoreLostFiles, "lost", nil, "lost-leads file (CSV or XLSX, repeatable)")
	scoreCmd.Flags().StringVar(&scoreCategory, "category", "", "profile category (default \"default\")")
	scoreCmd.Flags().BoolVar(&scoreReuse, "reuse-profile", false, "reuse the latest stored profile for the category")
	scoreCmd.Flags().BoolVar(&scoreSave, "save-profile", false, "persist a freshly extracted profile")
	scoreCmd.Flags().BoolVar(&scoreKeepJunk, "keep-junk", false, "skip the duplicate/test-record filter")
	scoreCmd.Flags().IntVar(&scoreMinScore, "min-score", -1, "minimum score to export (default from config)")
	scoreCmd.Flags().StringVarP(&scoreOutput, "output", "o", "", "output CSV path (default stdout)")
	rootCmd.AddCommand(scoreCmd)
}
