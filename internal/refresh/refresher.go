// Package refresh keeps the forecast cache warm so page loads rarely pay
// a provider round-trip. Retries live only here; the request path never
// retries on its own.
package refresh

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/GeorgeFreedomTech/Peru-Regional-Telemetry/internal/catalog"
	"github.com/GeorgeFreedomTech/Peru-Regional-Telemetry/internal/forecast"
	"github.com/GeorgeFreedomTech/Peru-Regional-Telemetry/internal/meteoblue"
	"github.com/GeorgeFreedomTech/Peru-Regional-Telemetry/internal/metrics"
)

type Refresher struct {
	svc      *forecast.Service
	interval time.Duration
}

// New creates a refresher that warms every catalog location on start and
// then once per interval. Align the interval with the cache TTL so a
// warm pass lands just as entries expire.
func New(svc *forecast.Service, interval time.Duration) *Refresher {
	return &Refresher{svc: svc, interval: interval}
}

func (r *Refresher) Run(ctx context.Context) {
	r.warm(ctx)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("refresh: shutting down")
			return
		case <-ticker.C:
			r.warm(ctx)
		}
	}
}

func (r *Refresher) warm(ctx context.Context) {
	for _, loc := range catalog.All() {
		if ctx.Err() != nil {
			return
		}
		key := loc.Key
		operation := func() error {
			_, err := r.svc.Forecast(ctx, key)
			if err == nil {
				return nil
			}
			// A malformed payload will not improve on retry.
			var malformed *meteoblue.MalformedResponseError
			if errors.As(err, &malformed) {
				return backoff.Permanent(err)
			}
			return err
		}

		bo := backoff.NewExponentialBackOff()
		bo.MaxElapsedTime = 2 * time.Minute
		if err := backoff.Retry(operation, backoff.WithContext(bo, ctx)); err != nil {
			metrics.RefreshFailuresTotal.WithLabelValues(key).Inc()
			log.Printf("refresh %s: %v", key, err)
		}
	}
}
