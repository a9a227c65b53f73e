package types

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKstarError_Error_WithoutCause(t *testing.T) {
	err := NewError(LM_AXIOMS_UNSUPPORTED, "cost partitioning does not support axioms")

	assert.Equal(t, "[LM_AXIOMS_UNSUPPORTED] cost partitioning does not support axioms", err.Error())
}

func TestKstarError_Error_WithCause(t *testing.T) {
	cause := fmt.Errorf("file not found")
	err := WrapError(TASK_LOAD_FAILED, "failed to load task", cause)

	assert.Equal(t, "[TASK_LOAD_FAILED] failed to load task: file not found", err.Error())
}

func TestKstarError_Unwrap(t *testing.T) {
	cause := fmt.Errorf("underlying")
	err := WrapError(CONFIG_LOAD_FAILED, "wrapper", cause)

	assert.Equal(t, cause, errors.Unwrap(err))
}

func TestKstarError_Is_MatchesByCode(t *testing.T) {
	err := NewError(LM_REASONABLE_ORDERS_UNSUPPORTED, "some message")
	target := NewError(LM_REASONABLE_ORDERS_UNSUPPORTED, "different message")

	assert.True(t, errors.Is(err, target))
}

func TestKstarError_Is_DifferentCodes(t *testing.T) {
	err := NewError(LM_AXIOMS_UNSUPPORTED, "axioms")
	target := NewError(LM_REASONABLE_ORDERS_UNSUPPORTED, "orders")

	assert.False(t, errors.Is(err, target))
}

func TestKstarError_Is_ThroughWrapping(t *testing.T) {
	inner := NewError(COST_LP_SOLVE_FAILED, "solver refused")
	outer := fmt.Errorf("evaluating state: %w", inner)

	assert.True(t, errors.Is(outer, NewError(COST_LP_SOLVE_FAILED, "")))
}

func TestIsCode(t *testing.T) {
	err := fmt.Errorf("outer: %w", NewError(SEARCH_UNSOLVABLE, "no plan"))

	assert.True(t, IsCode(err, SEARCH_UNSOLVABLE))
	assert.False(t, IsCode(err, SEARCH_EXPANSION_LIMIT))
	assert.False(t, IsCode(errors.New("plain"), SEARCH_UNSOLVABLE))
}

func TestNewErrorf(t *testing.T) {
	err := NewErrorf(TASK_FACT_OUT_OF_RANGE, "variable %d has no value %d", 3, 7)

	require.NotNil(t, err)
	assert.Equal(t, TASK_FACT_OUT_OF_RANGE, err.Code)
	assert.Contains(t, err.Message, "variable 3")
}
