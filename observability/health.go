package observability

import (
	"context"
	"time"
)

// HealthStatus is the reachability of the API as seen by the client.
type HealthStatus string

const (
	HealthStatusUp       HealthStatus = "up"
	HealthStatusDown     HealthStatus = "down"
	HealthStatusDegraded HealthStatus = "degraded"
)

// Health is the result of a single health probe.
type Health struct {
	Name    string            `json:"name"`
	Status  HealthStatus      `json:"status"`
	Message string            `json:"message,omitempty"`
	Latency time.Duration     `json:"latency_ns,omitempty"`
	Details map[string]string `json:"details,omitempty"`
}

// HealthChecker is implemented by clients that can probe their upstream.
type HealthChecker interface {
	CheckHealth(ctx context.Context) Health
}

// Report aggregates several probes; the worst status wins.
type Report struct {
	Status     HealthStatus `json:"status"`
	Version    string       `json:"version,omitempty"`
	Components []Health     `json:"components,omitempty"`
}

// NewReport runs every checker and aggregates the results.
func NewReport(ctx context.Context, version string, checkers ...HealthChecker) *Report {
	r := &Report{Status: HealthStatusUp, Version: version}
	for _, c := range checkers {
		r.Add(c.CheckHealth(ctx))
	}
	return r
}

// Add records a probe result and degrades the overall status if needed.
func (r *Report) Add(h Health) {
	r.Components = append(r.Components, h)
	switch h.Status {
	case HealthStatusDown:
		r.Status = HealthStatusDown
	case HealthStatusDegraded:
		if r.Status != HealthStatusDown {
			r.Status = HealthStatusDegraded
		}
	}
}
