// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package llm

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/time/rate"
)

// throttled paces completion calls through a rate limiter so free-tier
// API quotas are respected without fixed sleeps.
type throttled struct {
	inner   Client
	limiter *rate.Limiter
}

// Throttle wraps client so consecutive Complete calls are at least
// interval apart.
func Throttle(client Client, interval time.Duration) Client {
	return &throttled{
		inner:   client,
		limiter: rate.NewLimiter(rate.Every(interval), 1),
	}
}

func (t *throttled) Complete(ctx context.Context, req Request) (string, error) {
	if err := t.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limiter: %w", err)
	}
	return t.inner.Complete(ctx, req)
}
