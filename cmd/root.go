package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/contourline/leadscore-cli/internal/columns"
	"github.com/contourline/leadscore-cli/internal/config"
	"github.com/contourline/leadscore-cli/internal/icp"
	"github.com/contourline/leadscore-cli/internal/pipeline"
	"github.com/contourline/leadscore-cli/internal/scoring"
	"github.com/contourline/leadscore-cli/internal/store"
	"github.com/contourline/leadscore-cli/pkg/completion"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "leadscore",
	Short: "Lost-lead recovery scoring pipeline",
	Long:  "Derives an ideal customer profile from won deals, scores lost leads against it in parallel, and exports a prioritized follow-up sheet.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func initStore(ctx context.Context) (store.Store, error) {
	st, err := store.New(ctx, cfg.Store)
	if err != nil {
		return nil, err
	}
	if err := st.Migrate(ctx); err != nil {
		st.Close()
		return nil, err
	}
	return st, nil
}

// initRunner wires the completer, extractor, scorer, and store into a Runner.
// The caller closes the returned store.
func initRunner(ctx context.Context) (*pipeline.Runner, store.Store, error) {
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	completer, err := completion.New(cfg.Completion)
	if err != nil {
		return nil, nil, err
	}

	overrides, err := columns.LoadOverrides(cfg.Columns.OverridesPath)
	if err != nil {
		return nil, nil, err
	}

	st, err := initStore(ctx)
	if err != nil {
		return nil, nil, err
	}

	extractor := icp.New(completer, cfg.ICP, overrides)
	scorer := scoring.New(completer, cfg.Scoring)
	return pipeline.NewRunner(extractor, scorer, st, overrides), st, nil
}
