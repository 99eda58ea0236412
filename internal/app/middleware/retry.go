package middleware

import (
	"context"
	"errors"

	"github.com/Jayu-patel/hotels-management-sub000/internal/app/commands"
	domainbooking "github.com/Jayu-patel/hotels-management-sub000/internal/domain/booking"
)

// Retry re-dispatches a command whose transaction lost an optimistic
// concurrency race. It sits outside the Transaction middleware so every
// attempt gets a fresh unit of work and re-reads the ledger. After the
// attempt budget is spent the conflict is surfaced as ErrConflict, which is
// distinct from insufficient availability so callers know a retry of their
// own may still succeed.
func Retry(attempts int) CommandMiddleware {
	if attempts < 1 {
		attempts = 1
	}
	return func(next commands.Bus) commands.Bus {
		nextFn := wrapCommand(next)
		return commandFunc(func(ctx context.Context, cmd commands.Command) (any, error) {
			var lastErr error
			for attempt := 0; attempt < attempts; attempt++ {
				res, err := nextFn(ctx, cmd)
				if err == nil {
					return res, nil
				}
				if !errors.Is(err, domainbooking.ErrConcurrentUpdate) {
					return nil, err
				}
				lastErr = err
				if ctx.Err() != nil {
					return nil, ctx.Err()
				}
			}
			return nil, errors.Join(domainbooking.ErrConflict, lastErr)
		})
	}
}
