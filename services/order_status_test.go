package services

import (
	"testing"

	"printshop_app_go/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFreeTransitions(t *testing.T) {
	policy := FreeTransitions{}
	for _, from := range models.OrderStatuses {
		for _, to := range models.OrderStatuses {
			assert.True(t, policy.Allow(from, to), "%s -> %s", from, to)
		}
	}
	assert.False(t, policy.Allow(models.StatusReceived, "shipped"))
}

func TestLifecycleTransitions(t *testing.T) {
	tests := []struct {
		from, to models.OrderStatus
		allowed  bool
	}{
		{models.StatusReceived, models.StatusPaid, true},
		{models.StatusPaid, models.StatusInProgress, true},
		{models.StatusInProgress, models.StatusReadyForPickup, true},
		{models.StatusReadyForPickup, models.StatusPickedUp, true},
		{models.StatusInProgress, models.StatusAbandoned, true},
		{models.StatusReceived, models.StatusReceived, true},
		{models.StatusReceived, models.StatusPickedUp, false},
		{models.StatusPickedUp, models.StatusReceived, false},
		{models.StatusAbandoned, models.StatusPaid, false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.allowed, LifecycleTransitions.Allow(tt.from, tt.to), "%s -> %s", tt.from, tt.to)
	}
}

func TestPolicyByName(t *testing.T) {
	p, err := PolicyByName("")
	require.NoError(t, err)
	assert.IsType(t, FreeTransitions{}, p)

	p, err = PolicyByName("Lifecycle")
	require.NoError(t, err)
	assert.IsType(t, TransitionTable{}, p)

	_, err = PolicyByName("strict")
	assert.Error(t, err)
}

func TestParseStatus(t *testing.T) {
	s, err := ParseStatus(" ready_for_pickup ")
	require.NoError(t, err)
	assert.Equal(t, models.StatusReadyForPickup, s)
	assert.False(t, s.IsTerminal())
	assert.True(t, models.StatusAbandoned.IsTerminal())

	_, err = ParseStatus("READY")
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "status", verr.Errors[0].Field)
}
