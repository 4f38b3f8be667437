package persistence_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/zixiu905-prog/ai-platform-sub005/pkg/persistence"
)

func TestWorkflowError_WrapsSentinel(t *testing.T) {
	err := persistence.NewWorkflowError("get", "wf-1", persistence.ErrWorkflowNotFound)

	assert.True(t, errors.Is(err, persistence.ErrWorkflowNotFound))
	assert.True(t, persistence.IsWorkflowNotFound(err))
	assert.Contains(t, err.Error(), "wf-1")
	assert.Contains(t, err.Error(), "get")
}

func TestWorkflowError_UnwrapsCause(t *testing.T) {
	cause := errors.New("disk full")
	err := persistence.NewWorkflowError("save", "wf-2", cause)

	assert.Equal(t, cause, errors.Unwrap(err))
	assert.False(t, persistence.IsWorkflowNotFound(err))
}

func TestExecutionError_WrapsSentinel(t *testing.T) {
	err := persistence.NewExecutionError("get", "exec-1234", persistence.ErrExecutionNotFound)

	assert.True(t, persistence.IsExecutionNotFound(err))
	assert.False(t, persistence.IsWorkflowNotFound(err))
	assert.Contains(t, err.Error(), "exec-1234")
}
