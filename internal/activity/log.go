// Package activity keeps the per-session trail of user-visible effects:
// an append-only activity log and a parallel notification log with
// read/unread flags. Both are chronological; presentation decides whether
// to show them most-recent-first.
package activity

import (
	"sync"
	"time"
)

// Kind tags an activity entry.
type Kind string

const (
	KindLogin         Kind = "LOGIN"
	KindRegister      Kind = "REGISTER"
	KindLike          Kind = "LIKE"
	KindSkip          Kind = "SKIP"
	KindReport        Kind = "REPORT"
	KindBlock         Kind = "BLOCK"
	KindUpdateProfile Kind = "UPDATE_PROFILE"
	KindSuggestBio    Kind = "SUGGEST_BIO"
	KindChat          Kind = "CHAT"
	KindOpenChat      Kind = "OPEN_CHAT"
	KindPreference    Kind = "PREFERENCE"
)

// Event is one activity entry. Seq is 1-based and scoped to its log.
type Event struct {
	Seq     int
	Kind    Kind
	Message string
	At      time.Time
}

// Log is an append-only activity trail. There are no mutation or deletion
// operations; insertion order is the display order.
type Log struct {
	mu     sync.Mutex
	events []Event
}

func NewLog() *Log {
	return &Log{}
}

// Append records one event and returns it. The timestamp is captured here.
func (l *Log) Append(kind Kind, message string) Event {
	l.mu.Lock()
	defer l.mu.Unlock()

	e := Event{
		Seq:     len(l.events) + 1,
		Kind:    kind,
		Message: message,
		At:      time.Now(),
	}
	l.events = append(l.events, e)
	return e
}

// Events returns a chronological copy of the trail.
func (l *Log) Events() []Event {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]Event, len(l.events))
	copy(out, l.events)
	return out
}

// Len reports how many events have been appended.
func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.events)
}

// Notification is one notification entry.
type Notification struct {
	Seq     int
	Message string
	At      time.Time
	Read    bool
}

// NotificationLog mirrors Log but carries read flags. Marking as read is a
// bulk operation triggered by opening the panel, never per-item.
type NotificationLog struct {
	mu      sync.Mutex
	entries []Notification
}

func NewNotificationLog() *NotificationLog {
	return &NotificationLog{}
}

func (l *NotificationLog) Append(message string) Notification {
	l.mu.Lock()
	defer l.mu.Unlock()

	n := Notification{
		Seq:     len(l.entries) + 1,
		Message: message,
		At:      time.Now(),
	}
	l.entries = append(l.entries, n)
	return n
}

// All returns a chronological copy of the notifications.
func (l *NotificationLog) All() []Notification {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]Notification, len(l.entries))
	copy(out, l.entries)
	return out
}

// MarkAllRead flags every notification as read.
func (l *NotificationLog) MarkAllRead() {
	l.mu.Lock()
	defer l.mu.Unlock()

	for i := range l.entries {
		l.entries[i].Read = true
	}
}

// Unread counts notifications not yet marked read.
func (l *NotificationLog) Unread() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	n := 0
	for _, e := range l.entries {
		if !e.Read {
			n++
		}
	}
	return n
}
