package delivery

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusString(t *testing.T) {
	assert.Equal(t, "pending_acceptance", PendingAcceptance.String())
	assert.Equal(t, "accepted", Accepted.String())
	assert.Equal(t, "rejected", Rejected.String())
	assert.Equal(t, "picked_up", PickedUp.String())
	assert.Equal(t, "in_transit", InTransit.String())
	assert.Equal(t, "cancellation_requested", CancellationRequested.String())
	assert.Equal(t, "delivered", Delivered.String())
	assert.Equal(t, "cancelled", Cancelled.String())
}

func TestStatusIsTerminal(t *testing.T) {
	terminal := []Status{Delivered, Cancelled, Rejected}
	for _, s := range terminal {
		assert.True(t, s.IsTerminal(), s.String())
	}

	active := []Status{PendingAcceptance, Accepted, PickedUp, InTransit, CancellationRequested}
	for _, s := range active {
		assert.False(t, s.IsTerminal(), s.String())
	}
}

func TestStatusTransitionTo(t *testing.T) {
	tests := []struct {
		name    string
		from    Status
		to      Status
		wantErr bool
	}{
		{"pending to accepted", PendingAcceptance, Accepted, false},
		{"pending to rejected", PendingAcceptance, Rejected, false},
		{"accepted to picked up", Accepted, PickedUp, false},
		{"picked up to in transit", PickedUp, InTransit, false},
		{"in transit to cancellation requested", InTransit, CancellationRequested, false},
		{"in transit to delivered", InTransit, Delivered, false},
		{"cancellation requested to cancelled", CancellationRequested, Cancelled, false},
		{"cancellation requested to in transit", CancellationRequested, InTransit, false},
		{"pending to delivered skips stages", PendingAcceptance, Delivered, true},
		{"accepted to in transit skips pickup", Accepted, InTransit, true},
		{"picked up to delivered skips transit", PickedUp, Delivered, true},
		{"accepted back to pending", Accepted, PendingAcceptance, true},
		{"delivered is terminal", Delivered, InTransit, true},
		{"cancelled is terminal", Cancelled, InTransit, true},
		{"rejected is terminal", Rejected, Accepted, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.from.TransitionTo(tt.to)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidTransition)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.to, got)
		})
	}
}

func TestStatusValidate(t *testing.T) {
	assert.NoError(t, InTransit.Validate())
	assert.Error(t, Unknown.Validate())
	assert.Error(t, Status(42).Validate())
}
