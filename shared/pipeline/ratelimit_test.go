package pipeline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestInviteCooldownMessage_RoundsUpToMinutes(t *testing.T) {
	// 125 seconds rounds up to 3 minutes
	msg := InviteCooldownMessage(125 * time.Second)
	assert.Equal(t, "Invite limit reached. Try again in about 3 minutes.", msg)
}

func TestInviteCooldownMessage_ExactMinutes(t *testing.T) {
	msg := InviteCooldownMessage(3 * time.Minute)
	assert.Equal(t, "Invite limit reached. Try again in about 3 minutes.", msg)
}

func TestInviteCooldownMessage_SingularMinute(t *testing.T) {
	for _, d := range []time.Duration{time.Second, 30 * time.Second, time.Minute} {
		msg := InviteCooldownMessage(d)
		assert.Equal(t, "Invite limit reached. Try again in about 1 minute.", msg, "duration %v", d)
	}
}
