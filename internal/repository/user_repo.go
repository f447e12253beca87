package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/oggyb/sparkmatch/internal/db"
)

// UserRepository provides data access for the user directory. The directory
// is the single source of truth for profile data; other components hold ids
// and come here for snapshots.
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a repository bound to the given DB connection.
func NewUserRepository(database *gorm.DB) *UserRepository {
	return &UserRepository{db: database}
}

// Create inserts a new directory record. The unique index on email turns a
// duplicate into gorm.ErrDuplicatedKey, which the error mapper reports as a
// conflict.
func (r *UserRepository) Create(ctx context.Context, user *db.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

// FindByEmail fetches a record by email, including the credential.
// Only the session manager may look at the credential.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (db.User, error) {
	var user db.User
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	return user, err
}

// FindByID fetches a record by id.
func (r *UserRepository) FindByID(ctx context.Context, id uint64) (db.User, error) {
	var user db.User
	err := r.db.WithContext(ctx).First(&user, id).Error
	return user, err
}

// Update applies a field-level merge: only non-nil fields change, everything
// else keeps its prior value. ID and email are never touched.
//
// Example:
//
//	city := "Hanoi"
//	repo.Update(ctx, 1, db.ProfileUpdate{City: &city})
func (r *UserRepository) Update(ctx context.Context, id uint64, upd db.ProfileUpdate) (db.User, error) {
	changes := map[string]any{}
	if upd.FullName != nil {
		changes["full_name"] = *upd.FullName
	}
	if upd.Age != nil {
		changes["age"] = *upd.Age
	}
	if upd.Gender != nil {
		changes["gender"] = *upd.Gender
	}
	if upd.City != nil {
		changes["city"] = *upd.City
	}
	if upd.Bio != nil {
		changes["bio"] = *upd.Bio
	}

	if len(changes) > 0 {
		res := r.db.WithContext(ctx).Model(&db.User{}).Where("id = ?", id).Updates(changes)
		if res.Error != nil {
			return db.User{}, res.Error
		}
		if res.RowsAffected == 0 {
			return db.User{}, gorm.ErrRecordNotFound
		}
	}

	return r.FindByID(ctx, id)
}

// All returns every directory record in directory (id) order.
func (r *UserRepository) All(ctx context.Context) ([]db.User, error) {
	var users []db.User
	err := r.db.WithContext(ctx).Order("id").Find(&users).Error
	return users, err
}

// CandidatesFor returns everyone except the viewer, in directory order.
// This is the raw feed source before preference filtering.
func (r *UserRepository) CandidatesFor(ctx context.Context, viewerID uint64) ([]db.User, error) {
	var users []db.User
	err := r.db.WithContext(ctx).
		Where("id <> ?", viewerID).
		Order("id").
		Find(&users).Error
	return users, err
}
