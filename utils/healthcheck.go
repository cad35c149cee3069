package utils

import (
	"context"
	"time"
)

// HealthCheck is the outcome of probing one dependency.
type HealthCheck struct {
	Name      string `json:"name"`
	Success   bool   `json:"success"`
	ElapsedMS int64  `json:"elapsed_ms"`
	Error     string `json:"error,omitempty"`
}

// HealthReport aggregates every check.
type HealthReport struct {
	Healthy bool          `json:"healthy"`
	Checks  []HealthCheck `json:"checks"`
}

// Probe is a single named liveness check.
type Probe struct {
	Name  string
	Check func(ctx context.Context) error
}

// RunHealthChecks runs every probe in order and times each one.
func RunHealthChecks(ctx context.Context, probes ...Probe) HealthReport {
	report := HealthReport{Healthy: true, Checks: make([]HealthCheck, 0, len(probes))}
	for _, p := range probes {
		start := time.Now()
		err := p.Check(ctx)
		check := HealthCheck{
			Name:      p.Name,
			Success:   err == nil,
			ElapsedMS: time.Since(start).Milliseconds(),
		}
		if err != nil {
			check.Error = err.Error()
			report.Healthy = false
		}
		report.Checks = append(report.Checks, check)
	}
	return report
}

// JSON renders the report as indented JSON.
func (r HealthReport) JSON() ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}
