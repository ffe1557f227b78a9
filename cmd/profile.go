package main

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/contourline/leadscore-cli/internal/columns"
	"github.com/contourline/leadscore-cli/internal/icp"
	"github.com/contourline/leadscore-cli/internal/model"
	"github.com/contourline/leadscore-cli/pkg/completion"
)

var (
	profileWonFiles []string
	profileCategory string
	profileLimit    int
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Manage stored ideal customer profiles",
}

var profileExtractCmd = &cobra.Command{
	Use:   "extract",
	Short: "Derive a profile from won deals and store it",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		if err := cfg.Validate(); err != nil {
			return err
		}
		if len(profileWonFiles) == 0 {
			return eris.New("at least one --won file is required")
		}

		completer, err := completion.New(cfg.Completion)
		if err != nil {
			return err
		}
		overrides, err := columns.LoadOverrides(cfg.Columns.OverridesPath)
		if err != nil {
			return err
		}

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		won, err := readTables(profileWonFiles)
		if err != nil {
			return err
		}

		extractor := icp.New(completer, cfg.ICP, overrides)
		p, err := extractor.Extract(ctx, profileCategory, won...)
		if err != nil {
			return err
		}
		if err := st.SaveProfile(ctx, p); err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Stored profile %s (category %s)\n\n%s\n", p.ID, p.Category, p.Text)
		return nil
	},
}

var profileListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored profiles, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		profiles, err := st.ListProfiles(ctx, profileCategory, profileLimit)
		if err != nil {
			return err
		}
		if len(profiles) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No stored profiles.")
			return nil
		}
		for _, p := range profiles {
			fmt.Fprintf(cmd.OutOrStdout(), "%s  %-12s  %s\n", p.CreatedAt.Format("2006-01-02 15:04"), p.Category, p.ID)
		}
		return nil
	},
}

var profileShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the active profile for a category",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		st, err := initStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		category := profileCategory
		if category == "" {
			category = model.DefaultCategory
		}
		p, err := st.LatestProfile(ctx, category)
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Profile %s (category %s, created %s)\n\n%s\n", p.ID, p.Category, p.CreatedAt.Format("2006-01-02 15:04"), p.Text)
		return nil
	},
}

func init() {
	profileExtractCmd.Flags().StringArrayVar(&profileWonFiles, "won", nil, "won-deals file (CSV or XLSX, repeatable)")
	profileExtractCmd.Flags().StringVar(&profileCategory, "category", "", "profile category (default \"default\")")
	profileListCmd.Flags().StringVar(&profileCategory, "category", "", "filter by category")
	profileListCmd.Flags().IntVar(&profileLimit, "limit", 0, "maximum profiles to list")
	profileShowCmd.Flags().StringVar(&profileCategory, "category", "", "profile category (default \"default\")")

	profileCmd.AddCommand(profileExtractCmd, profileListCmd, profileShowCmd)
	rootCmd.AddCommand(profileCmd)
}
