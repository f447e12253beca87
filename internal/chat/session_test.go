package chat_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oggyb/sparkmatch/internal/chat"
)

func TestNewSessionSeedsSingleGreeting(t *testing.T) {
	s := chat.NewSession(2, "Lan")

	msgs := s.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, chat.RolePeer, msgs[0].Role)
	assert.Contains(t, msgs[0].Text, "Lan")

	// Re-reading must not re-seed.
	assert.Len(t, s.Messages(), 1)
}

func TestSendIgnoresBlankText(t *testing.T) {
	s := chat.NewSession(2, "Lan")

	assert.False(t, s.Send(""))
	assert.False(t, s.Send("   \t\n"))
	assert.Len(t, s.Messages(), 1)

	assert.True(t, s.Send("  hi there  "))
	msgs := s.Messages()
	require.Len(t, msgs, 2)
	assert.Equal(t, chat.RoleSelf, msgs[1].Role)
	assert.Equal(t, "hi there", msgs[1].Text)
}
