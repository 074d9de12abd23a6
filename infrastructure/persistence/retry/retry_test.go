package retry

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"ddd-skeleton/domain/project"
	"ddd-skeleton/domain/shared"

	mysqlDriver "github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func fastConfig() Config {
	cfg := DefaultConfig
	cfg.InitialDelay = time.Millisecond
	cfg.MaxDelay = 2 * time.Millisecond
	cfg.JitterEnabled = false
	return cfg
}

func TestIsRetryableError(t *testing.T) {
	cfg := DefaultConfig

	testCases := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"mysql deadlock", &mysqlDriver.MySQLError{Number: 1213}, true},
		{"mysql lock timeout", fmt.Errorf("save: %w", &mysqlDriver.MySQLError{Number: 1205}), true},
		{"mysql duplicate", &mysqlDriver.MySQLError{Number: 1062}, false},
		{"pg serialization", &pgconn.PgError{Code: "40001"}, true},
		{"pg deadlock", &pgconn.PgError{Code: "40P01"}, true},
		{"pg unique violation", &pgconn.PgError{Code: "23505"}, false},
		{"conflict", shared.NewConflictError("project", "busy"), true},
		{"not found", project.NewProjectNotFoundError(1), false},
		{"validation", shared.NewValidationError("money", "amount", "negative"), false},
		{"violation", shared.NewViolationError("project", "rule", "broken"), false},
		{"canceled", context.Canceled, false},
		{"deadlock text", errors.New("Deadlock found when trying to get lock"), true},
		{"plain", errors.New("boom"), false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, IsRetryableError(tc.err, cfg))
		})
	}
}

func TestIsRetryableErrorRespectsSwitches(t *testing.T) {
	cfg := DefaultConfig
	cfg.RetryOnDeadlock = false
	cfg.RetryOnConflict = false

	assert.False(t, IsRetryableError(&mysqlDriver.MySQLError{Number: 1213}, cfg))
	assert.False(t, IsRetryableError(shared.NewConflictError("project", "busy"), cfg))

	cfg.RetryPredicate = func(err error) bool { return err.Error() == "custom" }
	assert.True(t, IsRetryableError(errors.New("custom"), cfg))
}

func TestExecuteWithRetryRetriesTransientErrors(t *testing.T) {
	calls := 0
	err := ExecuteWithRetry(context.Background(), fastConfig(), func(ctx context.Context) error {
		calls++
		if calls < 3 {
			return &mysqlDriver.MySQLError{Number: 1213}
		}
		return nil
	})

	assert.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestExecuteWithRetryStopsOnPermanentError(t *testing.T) {
	calls := 0
	want := project.NewProjectNotFoundError(1)
	err := ExecuteWithRetry(context.Background(), fastConfig(), func(ctx context.Context) error {
		calls++
		return want
	})

	assert.Same(t, want, err)
	assert.Equal(t, 1, calls)
}

func TestExecuteWithRetryGivesUp(t *testing.T) {
	calls := 0
	err := ExecuteWithRetry(context.Background(), fastConfig(), func(ctx context.Context) error {
		calls++
		return &pgconn.PgError{Code: "40001"}
	})

	assert.Error(t, err)
	assert.Equal(t, DefaultConfig.MaxAttempts, calls)
}

func TestExecuteWithRetryDisabled(t *testing.T) {
	cfg := fastConfig()
	cfg.Enabled = false
	calls := 0
	_ = ExecuteWithRetry(context.Background(), cfg, func(ctx context.Context) error {
		calls++
		return &mysqlDriver.MySQLError{Number: 1213}
	})
	assert.Equal(t, 1, calls)
}

func TestExecuteWithRetryCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := ExecuteWithRetry(ctx, fastConfig(), func(ctx context.Context) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}

func TestExponentialBackoff(t *testing.T) {
	cfg := DefaultConfig
	cfg.JitterEnabled = false

	assert.Equal(t, time.Duration(0), ExponentialBackoffWithJitter(0, cfg))
	assert.Equal(t, 100*time.Millisecond, ExponentialBackoffWithJitter(1, cfg))
	assert.Equal(t, 200*time.Millisecond, ExponentialBackoffWithJitter(2, cfg))
	assert.Equal(t, 2*time.Second, ExponentialBackoffWithJitter(10, cfg))
}
