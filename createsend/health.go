package createsend

import (
	"context"
	"time"

	"github.com/kbukum/createsend/apierror"
	"github.com/kbukum/createsend/observability"
)

// CheckHealth probes the API with a system date request. An API that
// answers with an error status is reported as degraded; one that cannot be
// reached is down.
func (c *Client) CheckHealth(ctx context.Context) observability.Health {
	start := time.Now()
	date, err := c.General.SystemDate(ctx)
	h := observability.Health{
		Name:    "createsend",
		Latency: time.Since(start),
		Details: map[string]string{"endpoint": c.cfg.APIEndpoint},
	}

	switch {
	case err == nil:
		h.Status = observability.HealthStatusUp
		h.Details["system_date"] = date.Format(dateTimeLayout)
	case isAPIError(err):
		h.Status = observability.HealthStatusDegraded
		h.Message = err.Error()
	default:
		h.Status = observability.HealthStatusDown
		h.Message = err.Error()
	}
	return h
}

func isAPIError(err error) bool {
	_, ok := apierror.As(err)
	return ok
}

var _ observability.HealthChecker = (*Client)(nil)
