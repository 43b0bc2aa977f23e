package retry

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/keyguard-network/keyguard-daemon/pkg/stats"
)

// Do calls fn until it succeeds, the policy gives up on the failure, the
// retries are exhausted or ctx is done. In every failing case the last error
// returned by fn is propagated unchanged.
func Do[T any](
	ctx context.Context, policy Policy, fn func(context.Context) (T, error),
) (T, error) {
	var (
		result T
		err    error
	)

	for attempt := 0; ; attempt++ {
		result, err = fn(ctx)
		if err == nil {
			stats.RetryAttempts.WithLabelValues(policy.Name, "success").Inc()
			return result, nil
		}

		if !policy.shouldRetry(err) {
			stats.RetryAttempts.WithLabelValues(policy.Name, "aborted").Inc()
			return result, err
		}
		if attempt >= policy.NumRetries {
			stats.RetryAttempts.WithLabelValues(policy.Name, "exhausted").Inc()
			return result, err
		}

		delay := policy.DelayFor(attempt)
		log.WithError(err).Debugf(
			"%s retry policy: attempt %d failed, retrying in %s",
			policy.Name, attempt+1, delay,
		)
		stats.RetryAttempts.WithLabelValues(policy.Name, "retry").Inc()

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return result, err
		case <-timer.C:
		}
	}
}

// Run is Do for funcs that return only an error.
func Run(
	ctx context.Context, policy Policy, fn func(context.Context) error,
) error {
	_, err := Do(ctx, policy, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, fn(ctx)
	})
	return err
}
