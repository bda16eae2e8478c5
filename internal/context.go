package internal

import (
	"context"
	"time"
)

type ctxKey string

const ContextOwnerKey ctxKey = "ownerID"

// OwnerIDFromContext returns the owner id placed there by the transport
// layer, or 0 when absent. Every resolver and ledger call is scoped by
// this id; there is no ambient session state.
func OwnerIDFromContext(ctx context.Context) int64 {
	if ctx == nil {
		return 0
	}
	if ownerID, ok := ctx.Value(ContextOwnerKey).(int64); ok {
		return ownerID
	}
	return 0
}

func ContextWithOwnerID(ctx context.Context, ownerID int64) context.Context {
	return context.WithValue(ctx, ContextOwnerKey, ownerID)
}

// WithTimeout returns a context with timeout, defaulting to 5 seconds if duration is zero or negative.
func WithTimeout(ctx context.Context, duration time.Duration) (context.Context, context.CancelFunc) {
	if duration <= 0 {
		duration = 5 * time.Second
	}
	return context.WithTimeout(ctx, duration)
}
