package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrapPreservesChain(t *testing.T) {
	cause := errors.New("boom")
	err := Wrap(cause, ErrInternal.Code, ErrInternal.Status, "solver failed")

	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "solver failed")
	assert.Contains(t, err.Error(), "boom")
}

func TestFromErrorNormalises(t *testing.T) {
	assert.Nil(t, FromError(nil))

	typed := Clone(ErrInfeasible, "out of budget")
	got := FromError(fmt.Errorf("wrapped: %w", typed))
	require.NotNil(t, got)
	assert.Equal(t, ErrInfeasible.Code, got.Code)
	assert.Equal(t, "out of budget", got.Message)

	plain := FromError(errors.New("boom"))
	assert.Equal(t, ErrInternal.Code, plain.Code)
}

func TestCloneDoesNotMutateOriginal(t *testing.T) {
	clone := Clone(ErrDataError, "batch A01 has no combinations")
	assert.Equal(t, "batch A01 has no combinations", clone.Message)
	assert.Equal(t, "reference data is incomplete", ErrDataError.Message)
	assert.Equal(t, ErrDataError.Code, clone.Code)
}

func TestCodePredicates(t *testing.T) {
	assert.True(t, IsInfeasible(Clone(ErrInfeasible, "")))
	assert.True(t, IsInfeasible(fmt.Errorf("outer: %w", Clone(ErrInfeasible, ""))))
	assert.False(t, IsInfeasible(Clone(ErrDataError, "")))
	assert.False(t, IsInfeasible(nil))

	assert.True(t, IsDataError(Clone(ErrDataError, "")))
	assert.False(t, IsDataError(errors.New("boom")))
}
