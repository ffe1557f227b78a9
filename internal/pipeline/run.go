// Package pipeline orchestrates a full scoring run: profile acquisition,
// lead cleaning, fan-out scoring, and owner rotation. The CLI and the HTTP
// server both drive it.
package pipeline

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/contourline/leadscore-cli/internal/columns"
	"github.com/contourline/leadscore-cli/internal/icp"
	"github.com/contourline/leadscore-cli/internal/model"
	"github.com/contourline/leadscore-cli/internal/report"
	"github.com/contourline/leadscore-cli/internal/rotation"
	"github.com/contourline/leadscore-cli/internal/scoring"
	"github.com/contourline/leadscore-cli/internal/store"
	"github.com/contourline/leadscore-cli/internal/table"
)

// Runner wires the stages of a scoring run.
type Runner struct {
	extractor *icp.Extractor
	scorer    *scoring.Pipeline
	store     store.Store
	overrides columns.Overrides
}

// NewRunner creates a Runner. The store may be nil; profile reuse and
// persistence are then disabled.
func NewRunner(extractor *icp.Extractor, scorer *scoring.Pipeline, st store.Store, overrides columns.Overrides) *Runner {
	return &Runner{extractor: extractor, scorer: scorer, store: st, overrides: overrides}
}

// RunInput is one scoring request.
type RunInput struct {
	// Won holds won-deal tables used to derive the profile. Optional when
	// ReuseProfile finds a stored one.
	Won []*table.Table
	// Lost holds the lost-lead tables to score.
	Lost []*table.Table

	Category string
	// ReuseProfile loads the latest stored profile for the category before
	// falling back to extraction.
	ReuseProfile bool
	// SaveProfile persists a freshly extracted profile.
	SaveProfile bool
	// KeepJunk disables the duplicate/test-record filter.
	KeepJunk bool
}

// RunResult is the outcome of a scoring run.
type RunResult struct {
	Profile *model.Profile `json:"profile"`
	Leads   []*model.Lead  `json:"leads"`
	Summary report.Summary `json:"summary"`
	Removed []*model.Lead  `json:"removed,omitempty"`
}

// Run executes a full scoring pass. Input order of the lost leads is
// preserved in the result.
func (r *Runner) Run(ctx context.Context, in RunInput) (*RunResult, error) {
	if len(in.Lost) == 0 {
		return nil, eris.New("pipeline: no lost-lead tables to score")
	}
	category := in.Category
	if category == "" {
		category = model.DefaultCategory
	}

	profile, err := r.profile(ctx, category, in)
	if err != nil {
		return nil, err
	}

	merged := table.Merge(in.Lost...)
	mapping := columns.Resolve(merged, r.overrides)
	leads := mapping.Leads(merged)
	total := len(leads)

	var removed []*model.Lead
	if !in.KeepJunk {
		leads, removed = report.FilterJunk(leads)
	}
	summary := report.Summarize(total, leads, 0)

	results, err := r.scorer.ScoreLeads(ctx, profile, leads)
	if err != nil {
		return nil, err
	}
	scoring.Apply(leads, results)
	rotation.Assign(leads)

	zap.L().Info("pipeline: run complete",
		zap.String("category", category),
		zap.Int("scored", len(leads)),
		zap.Int("removed", len(removed)),
	)

	return &RunResult{
		Profile: profile,
		Leads:   leads,
		Summary: summary,
		Removed: removed,
	}, nil
}

// profile loads or derives the ideal-customer profile for the run.
func (r *Runner) profile(ctx context.Context, category string, in RunInput) (*model.Profile, error) {
	if in.ReuseProfile && r.store != nil {
		p, err := r.store.LatestProfile(ctx, category)
		if err == nil {
			zap.L().Info("pipeline: reusing stored profile",
				zap.String("category", category),
				zap.String("profile_id", p.ID),
			)
			return p, nil
		}
		if !eris.Is(err, store.ErrNotFound) {
			return nil, err
		}
		// Nothing stored yet; fall through to extraction.
	}

	if len(in.Won) == 0 {
		return nil, eris.Errorf("pipeline: no stored profile for %q and no won-deal tables to derive one", category)
	}

	p, err := r.extractor.Extract(ctx, category, in.Won...)
	if err != nil {
		return nil, err
	}
	if in.SaveProfile && r.store != nil {
		if err := r.store.SaveProfile(ctx, p); err != nil {
			return nil, err
		}
	}
	return p, nil
}
