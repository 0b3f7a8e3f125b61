// Package resilience provides the fault-tolerance primitives the createsend
// HTTP layer composes around each request.
//
//   - Retry: exponential backoff built on cenkalti/backoff
//   - CircuitBreaker: fails fast while the API is unhealthy
//   - RateLimiter: token bucket built on golang.org/x/time/rate
//
// The HTTP adapter applies them in this order, outermost first:
//
//	retry -> rate limiter -> circuit breaker -> request
package resilience
