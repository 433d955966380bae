package persistence

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mexilacteos/itdesk/modules/itrequest/domain/aggregates/request"
)

func TestRequestFilters(t *testing.T) {
	t.Run("empty params produce no clause", func(t *testing.T) {
		where, args := requestFilters(&request.FindParams{})
		assert.Empty(t, where)
		assert.Empty(t, args)
	})

	t.Run("state only", func(t *testing.T) {
		where, args := requestFilters(&request.FindParams{State: request.StateSubmitted})
		assert.Equal(t, "WHERE r.state = $1", where)
		require.Len(t, args, 1)
		assert.Equal(t, "submitted", args[0])
	})

	t.Run("placeholders number in order", func(t *testing.T) {
		employeeID := uuid.New()
		agentID := uuid.New()
		where, args := requestFilters(&request.FindParams{
			State:         request.StateInProgress,
			Type:          request.TypeSupport,
			EmployeeID:    employeeID,
			AssignedAgent: agentID,
		})
		assert.Equal(t,
			"WHERE r.state = $1 AND r.request_type = $2 AND r.employee_id = $3 AND r.assigned_agent = $4",
			where,
		)
		assert.Len(t, args, 4)
	})
}

func TestUUIDConversionRoundTrip(t *testing.T) {
	id := uuid.New()
	assert.Equal(t, id, asUUID(pgUUID(id)))
	assert.Equal(t, uuid.Nil, asUUID(pgUUIDOrNull(uuid.Nil)))
	assert.False(t, pgUUIDOrNull(uuid.Nil).Valid)
	assert.True(t, pgUUIDOrNull(id).Valid)
}
