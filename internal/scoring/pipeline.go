// Package scoring runs the per-lead fit evaluation: a bounded-concurrency
// fan-out of independent completion calls, defensively parsed and
// normalized into [0,100].
package scoring

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/contourline/leadscore-cli/internal/model"
	"github.com/contourline/leadscore-cli/pkg/completion"
)

// Config tunes the scoring fan-out.
type Config struct {
	Workers            int `yaml:"workers" mapstructure:"workers"`
	RequestTimeoutSecs int `yaml:"request_timeout_secs" mapstructure:"request_timeout_secs"`
}

const (
	defaultWorkers     = 15
	defaultTimeoutSecs = 30
)

const leadPrompt = `You are scoring a lost sales lead against an ideal customer profile.

IDEAL CUSTOMER PROFILE:
%s

LEAD:
%s

Rate the lead's fit to the profile from 0 to 100.
Answer ONLY in the format: SCORE | REASON`

// Pipeline scores batches of leads against a profile.
type Pipeline struct {
	completer completion.Completer
	workers   int
	timeout   time.Duration
	cache     *Cache
}

// New creates a Pipeline. Zero config fields fall back to defaults.
func New(c completion.Completer, cfg Config) *Pipeline {
	workers := cfg.Workers
	if workers <= 0 {
		workers = defaultWorkers
	}
	timeoutSecs := cfg.RequestTimeoutSecs
	if timeoutSecs <= 0 {
		timeoutSecs = defaultTimeoutSecs
	}
	return &Pipeline{
		completer: c,
		workers:   workers,
		timeout:   time.Duration(timeoutSecs) * time.Second,
		cache:     NewCache(),
	}
}

// ScoreLeads produces exactly one ScoreResult per lead, positionally aligned
// with the input. Individual failures resolve to the default error result
// without aborting the batch; only batch cancellation returns an error.
// Results for an identical (profile, batch) pair are served from cache so a
// re-run never re-issues paid requests.
func (p *Pipeline) ScoreLeads(ctx context.Context, profile *model.Profile, leads []*model.Lead) ([]model.ScoreResult, error) {
	key := cacheKey(profile, leads)
	if cached, ok := p.cache.Get(key); ok {
		zap.L().Info("scoring: cache hit", zap.Int("leads", len(leads)))
		return cached, nil
	}

	start := time.Now()
	results := make([]model.ScoreResult, len(leads))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.workers)
	for i, lead := range leads {
		g.Go(func() error {
			results[i] = p.scoreOne(gctx, profile.Text, lead)
			return nil
		})
	}
	// Workers never return errors; Wait is purely the gather barrier.
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return nil, eris.Wrap(err, "scoring: batch cancelled")
	}

	normalize(results)
	p.cache.Put(key, results)

	zap.L().Info("scoring: batch complete",
		zap.Int("leads", len(leads)),
		zap.Int("failed", countErrored(results)),
		zap.Duration("elapsed", time.Since(start)),
	)
	return results, nil
}

// scoreOne issues a single completion request under a per-request timeout.
// Any failure resolves to the default error result.
func (p *Pipeline) scoreOne(ctx context.Context, icp string, lead *model.Lead) model.ScoreResult {
	reqCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	raw, err := p.completer.Complete(reqCtx, fmt.Sprintf(leadPrompt, icp, describeLead(lead)))
	if err != nil {
		zap.L().Warn("scoring: lead request failed",
			zap.String("lead", lead.Name),
			zap.Error(err),
		)
		return model.ErrorScoreResult()
	}

	score, rationale := ParseResponse(raw)
	return model.ScoreResult{Score: score, Rationale: rationale, Status: model.ScoreStatusScored}
}

// describeLead serializes a lead compactly for the prompt, semantic fields
// first, residual source columns in stable order after.
func describeLead(lead *model.Lead) string {
	var b strings.Builder
	fmt.Fprintf(&b, "name=%s; owner=%s; product=%s; reason_lost=%s; value=%.2f", lead.Name, lead.Owner, lead.Product, lead.Reason, lead.Value)
	if lead.HasDate {
		fmt.Fprintf(&b, "; date=%s", lead.Date.Format("2006-01-02"))
	}

	keys := make([]string, 0, len(lead.Fields))
	for k := range lead.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, "; %s=%s", k, lead.Fields[k])
	}
	return b.String()
}

// normalize clips every score into [0,100] and derives the 0-5 rating.
// The clip is a double-check against parser regressions.
func normalize(results []model.ScoreResult) {
	for i := range results {
		if results[i].Score < 0 {
			results[i].Score = 0
		}
		if results[i].Score > 100 {
			results[i].Score = 100
		}
		results[i].Rating = model.Rating(results[i].Score)
	}
}

// Apply copies results onto their leads, positionally.
func Apply(leads []*model.Lead, results []model.ScoreResult) {
	for i, r := range results {
		if i >= len(leads) {
			return
		}
		leads[i].Score = r.Score
		leads[i].Rating = r.Rating
		leads[i].Rationale = r.Rationale
		leads[i].Status = r.Status
	}
}

func countErrored(results []model.ScoreResult) int {
	n := 0
	for i := range results {
		if results[i].Status == model.ScoreStatusError {
			n++
		}
	}
	return n
}
