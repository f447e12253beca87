package db

import (
	"time"
)

// User is the directory record for one profile. Email uniqueness is the
// registration invariant and is enforced both by the unique index and by a
// pre-check under the engine's registration lock.
//
// Age is stored as free text: the original data allows an empty or
// non-numeric age, and the feed filter treats an unparseable age as
// "unknown, do not exclude".
type User struct {
	ID           uint64    `gorm:"primaryKey;autoIncrement"`
	FullName     string    `gorm:"size:128;not null"`
	Email        string    `gorm:"uniqueIndex;size:128;not null"`
	PasswordHash string    `gorm:"size:255;not null"`
	Age          string    `gorm:"size:8"`
	Gender       string    `gorm:"size:16"`
	City         string    `gorm:"size:128"`
	Bio          string    `gorm:"size:512"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`
}

// ProfileSnapshot is the credential-stripped view handed to callers.
// Only the directory ever holds the password hash.
type ProfileSnapshot struct {
	ID       uint64
	FullName string
	Email    string
	Age      string
	Gender   string
	City     string
	Bio      string
}

// Snapshot strips the credential off a directory record.
func (u User) Snapshot() ProfileSnapshot {
	return ProfileSnapshot{
		ID:       u.ID,
		FullName: u.FullName,
		Email:    u.Email,
		Age:      u.Age,
		Gender:   u.Gender,
		City:     u.City,
		Bio:      u.Bio,
	}
}

// ProfileUpdate is a field-level partial update. Nil means "unchanged".
// ID and Email are immutable and have no place here.
type ProfileUpdate struct {
	FullName *string
	Age      *string
	Gender   *string
	City     *string
	Bio      *string
}

// LikeEdge is a one-directional "viewer liked target" edge.
//
// Composite PK: (ViewerID, TargetID) — gives set semantics, a repeated like
// is a single row.
type LikeEdge struct {
	ViewerID  uint64    `gorm:"primaryKey"`
	TargetID  uint64    `gorm:"primaryKey"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

// BlockEntry is a viewer-scoped exclusion of a target. Blocking filters the
// derived views (feed, liked list); it never deletes directory rows.
type BlockEntry struct {
	ViewerID  uint64    `gorm:"primaryKey"`
	TargetID  uint64    `gorm:"primaryKey"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}
