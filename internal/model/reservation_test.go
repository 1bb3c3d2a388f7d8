package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	allowed := []struct{ from, to string }{
		{StatusEnAttente, StatusConfirmee},
		{StatusEnAttente, StatusAnnulee},
		{StatusEnAttente, StatusRefusee},
		{StatusConfirmee, StatusTerminee},
		{StatusConfirmee, StatusAnnulee},
		{StatusConfirmee, StatusRefusee},
	}
	for _, tc := range allowed {
		assert.True(t, CanTransition(tc.from, tc.to), "%s -> %s should be allowed", tc.from, tc.to)
	}

	t.Run("terminal statuses accept nothing", func(t *testing.T) {
		all := []string{StatusEnAttente, StatusConfirmee, StatusTerminee, StatusAnnulee, StatusRefusee}
		for _, from := range []string{StatusTerminee, StatusAnnulee, StatusRefusee} {
			for _, to := range all {
				assert.False(t, CanTransition(from, to), "%s -> %s should be rejected", from, to)
			}
		}
	})

	t.Run("no shortcuts or self loops", func(t *testing.T) {
		assert.False(t, CanTransition(StatusEnAttente, StatusTerminee))
		assert.False(t, CanTransition(StatusEnAttente, StatusEnAttente))
		assert.False(t, CanTransition(StatusConfirmee, StatusEnAttente))
	})

	t.Run("unknown statuses are rejected", func(t *testing.T) {
		assert.False(t, CanTransition("pending", StatusConfirmee))
		assert.False(t, CanTransition(StatusEnAttente, "done"))
	})
}

func TestIsValidStatus(t *testing.T) {
	for _, s := range []string{StatusEnAttente, StatusConfirmee, StatusTerminee, StatusAnnulee, StatusRefusee} {
		assert.True(t, IsValidStatus(s))
	}
	assert.False(t, IsValidStatus(""))
	assert.False(t, IsValidStatus("EN_ATTENTE"))
	assert.False(t, IsValidStatus("confirme"))
}

func TestIsTerminalStatus(t *testing.T) {
	assert.False(t, IsTerminalStatus(StatusEnAttente))
	assert.False(t, IsTerminalStatus(StatusConfirmee))
	assert.True(t, IsTerminalStatus(StatusTerminee))
	assert.True(t, IsTerminalStatus(StatusAnnulee))
	assert.True(t, IsTerminalStatus(StatusRefusee))
	assert.False(t, IsTerminalStatus("nope"))
}

func TestCanCancel(t *testing.T) {
	assert.True(t, CanCancel(StatusEnAttente))
	assert.True(t, CanCancel(StatusConfirmee))
	assert.False(t, CanCancel(StatusTerminee))
	assert.False(t, CanCancel(StatusAnnulee))
	assert.False(t, CanCancel(StatusRefusee))
}

// CanCancel must agree with the statuses the guarded cancel UPDATE targets.
func TestCancellableStatusesMatchCanCancel(t *testing.T) {
	cancellable := map[string]bool{}
	for _, s := range CancellableStatuses() {
		cancellable[s] = true
	}
	for _, s := range []string{StatusEnAttente, StatusConfirmee, StatusTerminee, StatusAnnulee, StatusRefusee} {
		assert.Equal(t, CanCancel(s), cancellable[s], "status %s", s)
	}
}

func TestCanRate(t *testing.T) {
	assert.True(t, CanRate(StatusTerminee, false))
	assert.False(t, CanRate(StatusTerminee, true), "already rated")
	assert.False(t, CanRate(StatusConfirmee, false), "not finished yet")
	assert.False(t, CanRate(StatusAnnulee, false))
}
