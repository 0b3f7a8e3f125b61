// Package httpclient is the transport layer under the createsend client: a
// configured net/http client with authentication, TLS, default headers,
// request IDs, tracing, metrics, debug dumps and optional resilience (retry,
// circuit breaker, rate limiting).
//
// # Basic Usage
//
//	client, err := httpclient.New(httpclient.Config{
//	    BaseURL: "https://api.createsend.com/api/v3.1",
//	    Timeout: 30 * time.Second,
//	    Auth:    httpclient.BasicAuth(apiKey, "x"),
//	})
//
//	resp, err := client.Do(ctx, httpclient.Request{
//	    Method: http.MethodGet,
//	    Path:   "/systemdate.json",
//	})
//
// # With Resilience
//
//	client, err := httpclient.New(httpclient.Config{
//	    BaseURL:        "https://api.createsend.com/api/v3.1",
//	    Retry:          httpclient.DefaultRetryConfig(),
//	    CircuitBreaker: httpclient.DefaultCircuitBreakerConfig("createsend"),
//	})
//
// Retries are only attempted for idempotent methods (GET, HEAD, PUT, DELETE,
// OPTIONS). Redirects are not followed unless FollowRedirects is set.
package httpclient
