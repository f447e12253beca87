package activity_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oggyb/sparkmatch/internal/activity"
)

func TestLogAppendOrderAndSeq(t *testing.T) {
	l := activity.NewLog()

	l.Append(activity.KindLogin, "signed in")
	l.Append(activity.KindLike, "liked Lan")
	l.Append(activity.KindSkip, "skipped Huy")

	events := l.Events()
	require.Len(t, events, 3)
	for i, e := range events {
		assert.Equal(t, i+1, e.Seq)
	}
	assert.Equal(t, activity.KindLogin, events[0].Kind)
	assert.Equal(t, activity.KindSkip, events[2].Kind)
	assert.False(t, events[1].At.Before(events[0].At))
}

func TestEventsReturnsCopy(t *testing.T) {
	l := activity.NewLog()
	l.Append(activity.KindLike, "liked Lan")

	events := l.Events()
	events[0].Message = "tampered"

	assert.Equal(t, "liked Lan", l.Events()[0].Message)
}

func TestNotificationBulkMarkRead(t *testing.T) {
	l := activity.NewNotificationLog()
	l.Append("you liked Lan")
	l.Append("profile saved")
	require.Equal(t, 2, l.Unread())

	l.MarkAllRead()
	assert.Equal(t, 0, l.Unread())

	l.Append("new suggestion")
	assert.Equal(t, 1, l.Unread())

	all := l.All()
	require.Len(t, all, 3)
	assert.True(t, all[0].Read)
	assert.False(t, all[2].Read)
}
