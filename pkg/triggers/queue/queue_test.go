package queue

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRequest(t *testing.T) {
	payload, err := json.Marshal(Request{
		WorkflowID: "wf-1",
		UserID:     "user-1",
		Inputs:     map[string]any{"name": "ada"},
		Timestamp:  "2026-01-01T00:00:00Z",
	})
	require.NoError(t, err)

	request, err := parseRequest(payload)
	require.NoError(t, err)

	assert.Equal(t, "wf-1", request.WorkflowID)
	assert.Equal(t, "user-1", request.UserID)
	assert.Equal(t, "ada", request.Inputs["name"])
	assert.Equal(t, "2026-01-01T00:00:00Z", request.Timestamp)
}

func TestParseRequest_StampsMissingTimestamp(t *testing.T) {
	request, err := parseRequest([]byte(`{"workflow_id":"wf-1"}`))
	require.NoError(t, err)
	assert.NotEmpty(t, request.Timestamp)
}

func TestParseRequest_Rejects(t *testing.T) {
	_, err := parseRequest([]byte("not json"))
	assert.Error(t, err)

	_, err = parseRequest([]byte(`{"user_id":"u"}`))
	assert.ErrorContains(t, err, "workflow_id")
}
