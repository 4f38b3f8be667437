package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewBaseEvent(t *testing.T) {
	event := NewBaseEvent(ExecutionStartedEvent, "wf-1")

	assert.NotEmpty(t, event.ID)
	assert.Equal(t, ExecutionStartedEvent, event.Type)
	assert.Equal(t, "wf-1", event.WorkflowID)
	assert.False(t, event.Timestamp.IsZero())
	assert.Equal(t, "UTC", event.Timestamp.Location().String())
}

func TestEventTypes(t *testing.T) {
	tests := []struct {
		name     string
		event    interface{ GetType() EventType }
		expected EventType
	}{
		{"execution requested", ExecutionRequested{}, ExecutionRequestedEvent},
		{"execution started", ExecutionStarted{}, ExecutionStartedEvent},
		{"node finished", NodeFinished{}, NodeFinishedEvent},
		{"node failed", NodeFailed{}, NodeFailedEvent},
		{"execution completed", ExecutionCompleted{}, ExecutionCompletedEvent},
		{"execution failed", ExecutionFailed{}, ExecutionFailedEvent},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.event.GetType())
		})
	}
}
