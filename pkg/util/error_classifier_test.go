package util

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
)

func TestIsRetryableError(t *testing.T) {
	var jsonErr error = func() error {
		var v struct{ N int }
		return json.Unmarshal([]byte(`{"N": "oops"}`), &v)
	}()

	tests := []struct {
		name      string
		err       error
		retryable bool
		errType   string
	}{
		{"nil error", nil, false, ""},
		{"json type error", jsonErr, false, "json_decode_error"},
		{"row not found", pgx.ErrNoRows, false, "row_not_found"},
		{"wrapped row not found", fmt.Errorf("load: %w", pgx.ErrNoRows), false, "row_not_found"},
		{"duplicate key", errors.New(`duplicate key value violates unique constraint "notifications_pkey"`), false, "duplicate_key"},
		{"connection refused", errors.New("failed to connect: connection refused"), true, "db_connection_error"},
		{"statement timeout", errors.New("timeout: context deadline exceeded"), true, "db_connection_error"},
		// context.DeadlineExceeded satisfies net.Error, so it classifies
		// through the network branch
		{"deadline exceeded", context.DeadlineExceeded, true, "network_timeout"},
		{"canceled", context.Canceled, false, "context_canceled"},
		{"unknown", errors.New("something odd"), false, "unknown_error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			retryable, errType := IsRetryableError(tt.err)
			assert.Equal(t, tt.retryable, retryable)
			assert.Equal(t, tt.errType, errType)
		})
	}
}

func TestShouldRetry(t *testing.T) {
	assert.False(t, ShouldRetry(0, 5, false))
	assert.True(t, ShouldRetry(1, 5, true))
	assert.True(t, ShouldRetry(5, 5, true))
	assert.False(t, ShouldRetry(6, 5, true))
}

func TestFormatRetryKey(t *testing.T) {
	assert.Equal(t, "retry:deliverable_toggled:ev-1", FormatRetryKey("deliverable_toggled", "ev-1"))
}
