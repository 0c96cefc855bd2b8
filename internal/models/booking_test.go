package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBookingStatusIsValid(t *testing.T) {
	valid := []BookingStatus{
		BookingStatusPending, BookingStatusConfirmed, BookingStatusCompleted,
		BookingStatusCancelled, BookingStatusNoShow,
	}
	for _, status := range valid {
		assert.True(t, status.IsValid(), "expected %s to be valid", status)
	}

	assert.False(t, BookingStatus("RESERVED").IsValid())
	assert.False(t, BookingStatus("").IsValid())
}

func TestBookingStatusIsTerminal(t *testing.T) {
	assert.False(t, BookingStatusPending.IsTerminal())
	assert.False(t, BookingStatusConfirmed.IsTerminal())
	assert.True(t, BookingStatusCompleted.IsTerminal())
	assert.True(t, BookingStatusCancelled.IsTerminal())
	assert.True(t, BookingStatusNoShow.IsTerminal())
}

func TestBookingStatusCanTransitionTo(t *testing.T) {
	t.Run("Pending Moves Anywhere", func(t *testing.T) {
		for _, to := range []BookingStatus{
			BookingStatusConfirmed, BookingStatusCompleted,
			BookingStatusCancelled, BookingStatusNoShow,
		} {
			assert.True(t, BookingStatusPending.CanTransitionTo(to), "PENDING -> %s", to)
		}
	})

	t.Run("Lateral Move Between Non Terminal States", func(t *testing.T) {
		assert.True(t, BookingStatusConfirmed.CanTransitionTo(BookingStatusPending))
	})

	t.Run("Terminal States Reject Mutation", func(t *testing.T) {
		for _, from := range []BookingStatus{
			BookingStatusCompleted, BookingStatusCancelled, BookingStatusNoShow,
		} {
			assert.False(t, from.CanTransitionTo(BookingStatusPending), "%s -> PENDING", from)
			assert.False(t, from.CanTransitionTo(BookingStatusConfirmed), "%s -> CONFIRMED", from)
		}
	})

	t.Run("Unknown Target Rejected", func(t *testing.T) {
		assert.False(t, BookingStatusPending.CanTransitionTo("ARCHIVED"))
	})
}

func TestBookingCanBeCancelled(t *testing.T) {
	assert.True(t, (&Booking{Status: BookingStatusPending}).CanBeCancelled())
	assert.True(t, (&Booking{Status: BookingStatusConfirmed}).CanBeCancelled())
	assert.True(t, (&Booking{Status: BookingStatusCompleted}).CanBeCancelled())
	assert.False(t, (&Booking{Status: BookingStatusCancelled}).CanBeCancelled())
}

func TestCreateBookingRequestValidate(t *testing.T) {
	valid := CreateBookingRequest{
		CarID:       "car-1",
		BookingDate: "2024-06-15",
		StartTime:   "10:00",
		EndTime:     "11:00",
	}

	t.Run("Valid Request", func(t *testing.T) {
		req := valid
		require.NoError(t, req.Validate())
	})

	t.Run("Bad Date Format", func(t *testing.T) {
		req := valid
		req.BookingDate = "15/06/2024"
		assert.Error(t, req.Validate())
	})

	t.Run("Bad Time Format", func(t *testing.T) {
		req := valid
		req.StartTime = "10am"
		assert.Error(t, req.Validate())
	})

	t.Run("End Before Start", func(t *testing.T) {
		req := valid
		req.StartTime = "11:00"
		req.EndTime = "10:00"
		assert.Error(t, req.Validate())
	})

	t.Run("End Equal To Start", func(t *testing.T) {
		req := valid
		req.EndTime = req.StartTime
		assert.Error(t, req.Validate())
	})
}
