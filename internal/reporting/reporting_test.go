package reporting_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edgard/logbook/internal/reporting"
)

func TestNewDisabled(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		opts reporting.Options
	}{
		{name: "not enabled", opts: reporting.Options{DSN: "https://key@example.com/1"}},
		{name: "no dsn", opts: reporting.Options{Enabled: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			r, err := reporting.New(tt.opts, nil)
			require.NoError(t, err)
			assert.IsType(t, reporting.Nop{}, r)

			assert.NotPanics(t, func() {
				r.Capture(context.Background(), errors.New("boom"), map[string]string{"user_id": "1"})
				r.Flush(time.Millisecond)
			})
		})
	}
}

func TestNewRejectsBadDSN(t *testing.T) {
	t.Parallel()

	_, err := reporting.New(reporting.Options{Enabled: true, DSN: "::not-a-dsn"}, nil)
	assert.Error(t, err)
}
