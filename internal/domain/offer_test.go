package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newOffer(capacity int) *Offer {
	return &Offer{
		ID:       1,
		Capacity: capacity,
	}
}

func TestOffer_Apply(t *testing.T) {
	now := time.Now()

	t.Run("creates an applied participation", func(t *testing.T) {
		offer := newOffer(1)

		p, err := offer.Apply(10, now)

		require.NoError(t, err)
		assert.Equal(t, StatusApplied, p.Status)
		assert.Equal(t, now, p.AppliedAt)
		assert.Nil(t, p.ConfirmedAt)
		assert.Len(t, offer.Participations, 1)
	})

	t.Run("rejects when the offer is closed", func(t *testing.T) {
		offer := newOffer(1)
		offer.Completed = true

		_, err := offer.Apply(10, now)

		assert.ErrorIs(t, err, ErrOfferClosed)
	})

	t.Run("rejects a duplicate active application", func(t *testing.T) {
		offer := newOffer(1)
		_, err := offer.Apply(10, now)
		require.NoError(t, err)

		_, err = offer.Apply(10, now)

		assert.ErrorIs(t, err, ErrAlreadyApplied)
		assert.Len(t, offer.Participations, 1)
	})

	t.Run("rejects when already confirmed", func(t *testing.T) {
		offer := newOffer(1)
		_, err := offer.Apply(10, now)
		require.NoError(t, err)
		_, err = offer.Confirm(10, now)
		require.NoError(t, err)

		_, err = offer.Apply(10, now)

		assert.ErrorIs(t, err, ErrAlreadyApplied)
	})

	t.Run("resets a withdrawn participation instead of adding a row", func(t *testing.T) {
		offer := newOffer(1)
		_, err := offer.Apply(10, now)
		require.NoError(t, err)
		_, err = offer.Withdraw(10)
		require.NoError(t, err)

		later := now.Add(time.Hour)
		p, err := offer.Apply(10, later)

		require.NoError(t, err)
		assert.Equal(t, StatusApplied, p.Status)
		assert.Equal(t, later, p.AppliedAt)
		assert.Nil(t, p.ConfirmedAt)
		assert.Nil(t, p.CompletedAt)
		assert.Len(t, offer.Participations, 1)
	})
}

func TestOffer_Withdraw(t *testing.T) {
	now := time.Now()

	t.Run("withdraws an applied participation", func(t *testing.T) {
		offer := newOffer(1)
		_, err := offer.Apply(10, now)
		require.NoError(t, err)

		p, err := offer.Withdraw(10)

		require.NoError(t, err)
		assert.Equal(t, StatusWithdrawn, p.Status)
	})

	t.Run("rejects when there is no participation", func(t *testing.T) {
		offer := newOffer(1)

		_, err := offer.Withdraw(10)

		assert.ErrorIs(t, err, ErrParticipationNotFound)
	})

	t.Run("rejects after confirmation", func(t *testing.T) {
		offer := newOffer(1)
		_, err := offer.Apply(10, now)
		require.NoError(t, err)
		_, err = offer.Confirm(10, now)
		require.NoError(t, err)

		_, err = offer.Withdraw(10)

		assert.ErrorIs(t, err, ErrInvalidTransition)
	})

	t.Run("rejects after completion", func(t *testing.T) {
		offer := newOffer(1)
		_, err := offer.Apply(10, now)
		require.NoError(t, err)
		_, err = offer.Confirm(10, now)
		require.NoError(t, err)
		_, err = offer.ApproveCompletion(10, now)
		require.NoError(t, err)

		_, err = offer.Withdraw(10)

		assert.ErrorIs(t, err, ErrInvalidTransition)
	})
}

func TestOffer_Confirm(t *testing.T) {
	now := time.Now()

	t.Run("confirms an applied participation", func(t *testing.T) {
		offer := newOffer(1)
		_, err := offer.Apply(10, now)
		require.NoError(t, err)

		p, err := offer.Confirm(10, now)

		require.NoError(t, err)
		assert.Equal(t, StatusConfirmed, p.Status)
		require.NotNil(t, p.ConfirmedAt)
		assert.Equal(t, now, *p.ConfirmedAt)
	})

	t.Run("rejects a withdrawn participation", func(t *testing.T) {
		offer := newOffer(1)
		_, err := offer.Apply(10, now)
		require.NoError(t, err)
		_, err = offer.Withdraw(10)
		require.NoError(t, err)

		_, err = offer.Confirm(10, now)

		assert.ErrorIs(t, err, ErrInvalidTransition)
	})

	t.Run("rejects when capacity is exhausted", func(t *testing.T) {
		offer := newOffer(1)
		_, err := offer.Apply(10, now)
		require.NoError(t, err)
		_, err = offer.Apply(11, now)
		require.NoError(t, err)
		_, err = offer.Confirm(10, now)
		require.NoError(t, err)

		_, err = offer.Confirm(11, now)

		assert.ErrorIs(t, err, ErrCapacityExceeded)
	})

	t.Run("allows confirms up to capacity", func(t *testing.T) {
		offer := newOffer(2)
		for _, id := range []uint{10, 11} {
			_, err := offer.Apply(id, now)
			require.NoError(t, err)
			_, err = offer.Confirm(id, now)
			require.NoError(t, err)
		}

		_, err := offer.Apply(12, now)
		require.NoError(t, err)
		_, err = offer.Confirm(12, now)

		assert.ErrorIs(t, err, ErrCapacityExceeded)
	})
}

func TestOffer_ApproveCompletion(t *testing.T) {
	now := time.Now()

	t.Run("completes a confirmed participation", func(t *testing.T) {
		offer := newOffer(1)
		_, err := offer.Apply(10, now)
		require.NoError(t, err)
		_, err = offer.Confirm(10, now)
		require.NoError(t, err)

		p, err := offer.ApproveCompletion(10, now)

		require.NoError(t, err)
		assert.Equal(t, StatusCompleted, p.Status)
		require.NotNil(t, p.CompletedAt)
	})

	t.Run("rejects an applied participation", func(t *testing.T) {
		offer := newOffer(1)
		_, err := offer.Apply(10, now)
		require.NoError(t, err)

		_, err = offer.ApproveCompletion(10, now)

		assert.ErrorIs(t, err, ErrInvalidTransition)
	})

	t.Run("is not repeatable", func(t *testing.T) {
		offer := newOffer(1)
		_, err := offer.Apply(10, now)
		require.NoError(t, err)
		_, err = offer.Confirm(10, now)
		require.NoError(t, err)
		_, err = offer.ApproveCompletion(10, now)
		require.NoError(t, err)

		_, err = offer.ApproveCompletion(10, now)

		assert.ErrorIs(t, err, ErrInvalidTransition)
	})

	t.Run("closes a single-slot offer", func(t *testing.T) {
		offer := newOffer(1)
		_, err := offer.Apply(10, now)
		require.NoError(t, err)
		_, err = offer.Confirm(10, now)
		require.NoError(t, err)

		_, err = offer.ApproveCompletion(10, now)

		require.NoError(t, err)
		assert.True(t, offer.Completed)
	})

	t.Run("leaves a multi-slot offer open", func(t *testing.T) {
		offer := newOffer(3)
		_, err := offer.Apply(10, now)
		require.NoError(t, err)
		_, err = offer.Confirm(10, now)
		require.NoError(t, err)

		_, err = offer.ApproveCompletion(10, now)

		require.NoError(t, err)
		assert.False(t, offer.Completed)
	})
}

func TestOffer_Assign(t *testing.T) {
	now := time.Now()

	t.Run("creates a confirmed participation directly", func(t *testing.T) {
		offer := newOffer(1)

		p, err := offer.Assign(10, now)

		require.NoError(t, err)
		assert.Equal(t, StatusConfirmed, p.Status)
		require.NotNil(t, p.ConfirmedAt)
	})

	t.Run("confirms an existing application", func(t *testing.T) {
		offer := newOffer(1)
		_, err := offer.Apply(10, now)
		require.NoError(t, err)

		p, err := offer.Assign(10, now)

		require.NoError(t, err)
		assert.Equal(t, StatusConfirmed, p.Status)
		assert.Len(t, offer.Participations, 1)
	})

	t.Run("is a no-op on an already confirmed volunteer", func(t *testing.T) {
		offer := newOffer(1)
		_, err := offer.Assign(10, now)
		require.NoError(t, err)

		p, err := offer.Assign(10, now.Add(time.Hour))

		require.NoError(t, err)
		assert.Equal(t, StatusConfirmed, p.Status)
		require.NotNil(t, p.ConfirmedAt)
		assert.Equal(t, now, *p.ConfirmedAt)
	})

	t.Run("never regresses a completed participation", func(t *testing.T) {
		offer := newOffer(1)
		_, err := offer.Assign(10, now)
		require.NoError(t, err)
		_, err = offer.ApproveCompletion(10, now)
		require.NoError(t, err)

		_, err = offer.Assign(10, now)

		assert.ErrorIs(t, err, ErrInvalidTransition)
	})

	t.Run("rejects when capacity is exhausted", func(t *testing.T) {
		offer := newOffer(1)
		_, err := offer.Assign(10, now)
		require.NoError(t, err)

		_, err = offer.Assign(11, now)

		assert.ErrorIs(t, err, ErrCapacityExceeded)
	})
}

func TestOffer_Close(t *testing.T) {
	now := time.Now()

	offer := newOffer(5)
	_, err := offer.Apply(10, now)
	require.NoError(t, err)

	offer.Close()

	assert.True(t, offer.Completed)

	_, err = offer.Apply(11, now)
	assert.ErrorIs(t, err, ErrOfferClosed)
}
