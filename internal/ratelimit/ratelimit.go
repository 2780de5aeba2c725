package ratelimit

import (
	"context"
	"time"
)

// Result describes the admission decision for one request.
type Result struct {
	Allowed    bool
	Limit      int
	Remaining  int
	ResetAfter time.Duration
}

// Limiter admits at most a fixed number of requests per key within one window.
type Limiter interface {
	Allow(ctx context.Context, key string) (Result, error)
}

func decide(limit int, count int64, resetAfter time.Duration) Result {
	remaining := limit - int(count)
	if remaining < 0 {
		remaining = 0
	}
	if resetAfter < 0 {
		resetAfter = 0
	}
	return Result{
		Allowed:    count <= int64(limit),
		Limit:      limit,
		Remaining:  remaining,
		ResetAfter: resetAfter,
	}
}
