package errs_test

import (
	"errors"
	"fmt"
	"testing"

	"kirana/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type label string

func (l label) String() string { return string(l) }

func TestObjectNotFoundError(t *testing.T) {
	t.Run("NewObjectNotFoundError", func(t *testing.T) {
		err := errs.NewObjectNotFoundError("agent", "123")

		assert.Equal(t, "agent", err.ParamName)
		assert.Equal(t, "123", err.ID)
		require.NoError(t, err.Cause)
		assert.Equal(t, "object not found: 123", err.Error())
		require.ErrorIs(t, err, errs.ErrObjectNotFound)
	})

	t.Run("NewObjectNotFoundErrorWithCause", func(t *testing.T) {
		cause := errors.New("database connection failed")
		err := errs.NewObjectNotFoundErrorWithCause("agent", "123", cause)

		assert.Equal(t,
			"object not found: param is: agent, ID is: 123 (cause: database connection failed)",
			err.Error())
		assert.Equal(t, errs.ErrObjectNotFound, err.Unwrap())
	})
}

func TestValueErrors(t *testing.T) {
	t.Run("invalid", func(t *testing.T) {
		err := errs.NewValueIsInvalidErrorWithCause("quantity", errors.New("must be positive"))

		assert.Equal(t, "value is invalid: quantity (cause: must be positive)", err.Error())
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("required", func(t *testing.T) {
		err := errs.NewValueIsRequiredError("name")

		assert.Equal(t, "value is required: name", err.Error())
		require.ErrorIs(t, err, errs.ErrValueIsRequired)
	})

	t.Run("out of range", func(t *testing.T) {
		err := errs.NewValueIsOutOfRangeError("latitude", 91.5, -90, 90)

		assert.Equal(t, "value is invalid: 91.5 is latitude, min value is -90, max value is 90", err.Error())
		require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
	})

	t.Run("out of range keeps message on one line", func(t *testing.T) {
		err := errs.NewValueIsOutOfRangeError("text", "hello\nworld", 0, 10)

		assert.Contains(t, err.Error(), "hello world")
		assert.NotContains(t, err.Error(), "\n")
	})
}

func TestInvalidTransitionError(t *testing.T) {
	err := errs.NewInvalidTransitionError("order status", label("Preparing"), label("New"))

	assert.Equal(t, "invalid transition: order status Preparing -> New", err.Error())
	require.ErrorIs(t, err, errs.ErrInvalidTransition)

	wrapped := fmt.Errorf("advance: %w", err)
	var target *errs.InvalidTransitionError
	require.ErrorAs(t, wrapped, &target)
	assert.Equal(t, "New", target.To)
}

func TestConcurrencyConflictError(t *testing.T) {
	t.Run("without cause", func(t *testing.T) {
		err := errs.NewConcurrencyConflictError("bulk_order", "a:2026-10-16")

		assert.Equal(t, "concurrency conflict: bulk_order a:2026-10-16 was modified concurrently", err.Error())
		require.ErrorIs(t, err, errs.ErrConcurrencyConflict)
	})

	t.Run("with cause", func(t *testing.T) {
		err := errs.NewConcurrencyConflictErrorWithCause("agent", "x", errors.New("duplicated key"))

		assert.Contains(t, err.Error(), "(cause: duplicated key)")
		require.ErrorIs(t, err, errs.ErrConcurrencyConflict)
	})
}
