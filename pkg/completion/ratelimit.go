package completion

import (
	"context"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"
)

// rateLimited throttles an inner Completer so the concurrent scoring fan-out
// cannot exceed the provider's request budget.
type rateLimited struct {
	inner   Completer
	limiter *rate.Limiter
}

// WithRateLimit wraps a Completer with a token-bucket limiter.
func WithRateLimit(c Completer, rps float64, burst int) Completer {
	return &rateLimited{
		inner:   c,
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
	}
}

func (r *rateLimited) Complete(ctx context.Context, prompt string) (string, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return "", eris.Wrap(err, "completion: rate limit wait")
	}
	return r.inner.Complete(ctx, prompt)
}
