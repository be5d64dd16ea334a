package retry

import "context"

// BestEffort returns fetch's value, or fallback when fetch fails. The
// failure is handed to onErr (if any) and never propagated.
func BestEffort[T any](ctx context.Context, fetch func(ctx context.Context) (T, error), fallback T, onErr func(err error)) T {
	v, err := fetch(ctx)
	if err != nil {
		if onErr != nil {
			onErr(err)
		}
		return fallback
	}
	return v
}
