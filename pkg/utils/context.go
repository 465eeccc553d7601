package utils

import (
	"context"
	"time"
)

// WithTimeout aplica o prazo apenas quando positivo
func WithTimeout(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}
