package ports

import "context"

type idempotencyKey struct{}

// WithIdempotencyKey returns a context carrying the key the server uses to
// recognize retried mutations.
func WithIdempotencyKey(ctx context.Context, key string) context.Context {
	return context.WithValue(ctx, idempotencyKey{}, key)
}

// IdempotencyKey returns the key carried by ctx, if any.
func IdempotencyKey(ctx context.Context) string {
	key, _ := ctx.Value(idempotencyKey{}).(string)
	return key
}
