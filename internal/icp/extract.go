// Package icp derives an ideal-customer profile from won-deal history. The
// profile text is opaque model output; this package only controls what
// evidence goes into the prompt and how the result is recorded.
package icp

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/contourline/leadscore-cli/internal/brl"
	"github.com/contourline/leadscore-cli/internal/columns"
	"github.com/contourline/leadscore-cli/internal/model"
	"github.com/contourline/leadscore-cli/internal/table"
	"github.com/contourline/leadscore-cli/pkg/completion"
)

// Config tunes profile extraction.
type Config struct {
	// SampleSize caps how many top-value deals are quoted in the prompt.
	SampleSize int `yaml:"sample_size" mapstructure:"sample_size"`
	// TopProducts caps the product-frequency summary in the prompt.
	TopProducts int `yaml:"top_products" mapstructure:"top_products"`
}

const (
	defaultSampleSize  = 20
	defaultTopProducts = 3
)

const profilePrompt = `You are a sales analyst for a Brazilian capital-equipment company.
Below are the %d highest-value deals we have won%s.

WON DEALS:
%s

Write a concise ideal customer profile (ICP) describing the customers we win:
segment, typical deal size, products bought, and the traits that predict a win.
Write the profile in Portuguese.`

// Extractor turns won-deal tables into a stored profile.
type Extractor struct {
	completer   completion.Completer
	sampleSize  int
	topProducts int
	overrides   columns.Overrides
}

// New creates an Extractor. Zero config fields fall back to defaults.
func New(c completion.Completer, cfg Config, overrides columns.Overrides) *Extractor {
	sample := cfg.SampleSize
	if sample <= 0 {
		sample = defaultSampleSize
	}
	top := cfg.TopProducts
	if top <= 0 {
		top = defaultTopProducts
	}
	return &Extractor{completer: c, sampleSize: sample, topProducts: top, overrides: overrides}
}

// Extract merges the won-deal tables, samples the highest-value rows, and
// asks the model for a profile in a single request. Extraction failure is
// surfaced to the caller; there is no retry and no fallback profile.
func (e *Extractor) Extract(ctx context.Context, category string, tables ...*table.Table) (*model.Profile, error) {
	merged := table.Merge(tables...)
	if merged.Len() == 0 {
		return nil, eris.New("icp: no won deals to profile")
	}
	if category == "" {
		category = model.DefaultCategory
	}

	mapping := columns.Resolve(merged, e.overrides)
	leads := mapping.Leads(merged)
	sort.SliceStable(leads, func(i, j int) bool {
		return leads[i].Value > leads[j].Value
	})

	sample := leads
	if len(sample) > e.sampleSize {
		sample = sample[:e.sampleSize]
	}

	prompt := fmt.Sprintf(profilePrompt, len(sample), productSummary(leads, e.topProducts), describeSample(sample))

	text, err := e.completer.Complete(ctx, prompt)
	if err != nil {
		return nil, eris.Wrap(err, "icp: extract profile")
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, eris.New("icp: model returned an empty profile")
	}

	zap.L().Info("icp: profile extracted",
		zap.String("category", category),
		zap.Int("deals", merged.Len()),
		zap.Int("sampled", len(sample)),
	)

	var sources []string
	for _, t := range tables {
		if t != nil && t.Source != "" {
			sources = append(sources, t.Source)
		}
	}

	return &model.Profile{
		ID:          uuid.New().String(),
		Category:    category,
		Text:        text,
		SourceFiles: sources,
		CreatedAt:   time.Now().UTC(),
	}, nil
}

// productSummary names the most frequently won products as a prompt hint.
// Returns "" when no product column carried data.
func productSummary(leads []*model.Lead, top int) string {
	counts := make(map[string]int)
	var order []string
	for _, lead := range leads {
		p := lead.Product
		if p == "" || p == table.MissingCell {
			continue
		}
		if counts[p] == 0 {
			order = append(order, p)
		}
		counts[p]++
	}
	if len(order) == 0 {
		return ""
	}

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})
	if len(order) > top {
		order = order[:top]
	}
	return fmt.Sprintf(" (most frequent products: %s)", strings.Join(order, ", "))
}

// describeSample serializes the sampled deals one per line, semantic fields
// only. Residual columns stay out of this prompt to keep it bounded.
func describeSample(sample []*model.Lead) string {
	var b strings.Builder
	for i, lead := range sample {
		fmt.Fprintf(&b, "%d. customer=%s; product=%s; value=R$ %s", i+1, lead.Name, lead.Product, brl.FormatCurrency(lead.Value))
		if lead.HasDate {
			fmt.Fprintf(&b, "; closed=%s", lead.Date.Format("2006-01-02"))
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}
