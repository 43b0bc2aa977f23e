package retry

import (
	"math"
	"time"
)

const (
	// DefaultNumRetries is the number of retries performed after the initial
	// attempt by the predefined policies.
	DefaultNumRetries = 3
	// DefaultDelay is the wait before the first retry.
	DefaultDelay = 100 * time.Millisecond
	// DefaultDelayFactor is the growth rate of the delay between retries.
	DefaultDelayFactor = 2.0
)

// Policy is the configuration of the retry wrapper. It holds no state: the
// backoff of a call lives only for the duration of that call.
type Policy struct {
	// Name labels the policy in logs and metrics.
	Name string
	// NumRetries is the max number of retries after the initial attempt.
	NumRetries int
	// Delay is the wait before the first retry.
	Delay time.Duration
	// DelayFactor multiplies the delay after every retry.
	DelayFactor float64
	// Retryable reports whether a failure is eligible for another attempt.
	// Fatal failures are never retried regardless of this func.
	Retryable func(error) bool
}

// DefaultPolicy retries any non-fatal failure.
func DefaultPolicy() Policy {
	return Policy{
		Name:        "default",
		NumRetries:  DefaultNumRetries,
		Delay:       DefaultDelay,
		DelayFactor: DefaultDelayFactor,
		Retryable:   func(error) bool { return true },
	}
}

// IOPolicy retries only transport failures and lets validation and business
// failures through immediately.
func IOPolicy() Policy {
	return Policy{
		Name:        "io",
		NumRetries:  DefaultNumRetries,
		Delay:       DefaultDelay,
		DelayFactor: DefaultDelayFactor,
		Retryable:   IsIO,
	}
}

// WithBackoff returns a copy of the policy using the given retry bounds.
func (p Policy) WithBackoff(
	numRetries int, delay time.Duration, delayFactor float64,
) Policy {
	p.NumRetries = numRetries
	p.Delay = delay
	p.DelayFactor = delayFactor
	return p
}

// DelayFor returns the wait before the retry with the given 0-based index,
// that is Delay * DelayFactor^attempt.
func (p Policy) DelayFor(attempt int) time.Duration {
	factor := p.DelayFactor
	if factor < 1 {
		factor = 1
	}
	return time.Duration(float64(p.Delay) * math.Pow(factor, float64(attempt)))
}

func (p Policy) shouldRetry(err error) bool {
	if IsFatal(err) {
		return false
	}
	if p.Retryable == nil {
		return true
	}
	return p.Retryable(err)
}
