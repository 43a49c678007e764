package services

import (
	"fmt"
	"strings"

	"printshop_app_go/models"
)

// TransitionPolicy decides whether an order may move between two statuses
type TransitionPolicy interface {
	Allow(from, to models.OrderStatus) bool
}

// FreeTransitions lets staff set any known status from any other
type FreeTransitions struct{}

func (FreeTransitions) Allow(from, to models.OrderStatus) bool {
	return to.IsValid()
}

// TransitionTable allows only the listed from -> to moves. Staying in the same status is always allowed.
type TransitionTable map[models.OrderStatus][]models.OrderStatus

func (t TransitionTable) Allow(from, to models.OrderStatus) bool {
	if !to.IsValid() {
		return false
	}
	if from == to {
		return true
	}
	for _, allowed := range t[from] {
		if allowed == to {
			return true
		}
	}
	return false
}

// LifecycleTransitions follows received -> paid -> in_progress -> ready_for_pickup -> picked_up,
// with abandoned reachable from any non-terminal state
var LifecycleTransitions = TransitionTable{
	models.StatusReceived:       {models.StatusPaid, models.StatusAbandoned},
	models.StatusPaid:           {models.StatusInProgress, models.StatusAbandoned},
	models.StatusInProgress:     {models.StatusReadyForPickup, models.StatusAbandoned},
	models.StatusReadyForPickup: {models.StatusPickedUp, models.StatusAbandoned},
	models.StatusPickedUp:       {},
	models.StatusAbandoned:      {},
}

// PolicyByName maps the STATUS_TRANSITIONS setting to a policy
func PolicyByName(name string) (TransitionPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "free":
		return FreeTransitions{}, nil
	case "lifecycle":
		return LifecycleTransitions, nil
	}
	return nil, fmt.Errorf("unknown status transition policy %q", name)
}

// ParseStatus validates a raw status string
func ParseStatus(raw string) (models.OrderStatus, error) {
	status := models.OrderStatus(strings.TrimSpace(raw))
	if !status.IsValid() {
		return "", Invalid("status", "Invalid status")
	}
	return status, nil
}
