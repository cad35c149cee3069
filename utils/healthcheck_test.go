package utils

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunHealthChecks(t *testing.T) {
	report := RunHealthChecks(context.Background(),
		Probe{Name: "database", Check: func(context.Context) error { return nil }},
		Probe{Name: "kv", Check: func(context.Context) error { return errors.New("connection refused") }},
	)

	assert.False(t, report.Healthy)
	require.Len(t, report.Checks, 2)
	assert.Equal(t, "database", report.Checks[0].Name)
	assert.True(t, report.Checks[0].Success)
	assert.False(t, report.Checks[1].Success)
	assert.Equal(t, "connection refused", report.Checks[1].Error)

	raw, err := report.JSON()
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"elapsed_ms"`)
	assert.Contains(t, string(raw), `"healthy": false`)
}

func TestRunHealthChecks_AllHealthy(t *testing.T) {
	report := RunHealthChecks(context.Background(), Probe{Name: "database", Check: func(context.Context) error { return nil }})
	assert.True(t, report.Healthy)
}
