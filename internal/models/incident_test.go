package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIncidentStatus_CanTransitionTo(t *testing.T) {
	cases := []struct {
		name    string
		from    IncidentStatus
		to      IncidentStatus
		allowed bool
	}{
		{"Open -> InProgress", IncidentOpen, IncidentInProgress, true},
		{"Open -> Cancelled", IncidentOpen, IncidentCancelled, true},
		{"Open -> Resolved", IncidentOpen, IncidentResolved, false},
		{"Open -> Closed", IncidentOpen, IncidentClosed, false},
		{"InProgress -> Resolved", IncidentInProgress, IncidentResolved, true},
		{"InProgress -> Cancelled", IncidentInProgress, IncidentCancelled, true},
		{"InProgress -> Open", IncidentInProgress, IncidentOpen, false},
		{"InProgress -> Closed", IncidentInProgress, IncidentClosed, false},
		{"Resolved -> Closed", IncidentResolved, IncidentClosed, true},
		{"Resolved -> Cancelled", IncidentResolved, IncidentCancelled, false},
		{"Closed is terminal", IncidentClosed, IncidentOpen, false},
		{"Cancelled is terminal", IncidentCancelled, IncidentInProgress, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.allowed, tc.from.CanTransitionTo(tc.to))
		})
	}
}

func TestIncidentStatus_Terminal(t *testing.T) {
	assert.True(t, IncidentClosed.Terminal())
	assert.True(t, IncidentCancelled.Terminal())
	assert.False(t, IncidentOpen.Terminal())
	assert.False(t, IncidentInProgress.Terminal())
	assert.False(t, IncidentResolved.Terminal())
}

func TestIncident_HasCoordinates(t *testing.T) {
	lat, lon := -1.0333, 37.0693

	assert.True(t, (&Incident{Latitude: &lat, Longitude: &lon}).HasCoordinates())
	assert.False(t, (&Incident{Latitude: &lat}).HasCoordinates())
	assert.False(t, (&Incident{}).HasCoordinates())
}
