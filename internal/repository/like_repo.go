package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/oggyb/sparkmatch/internal/db"
)

// LikeRepository records one-directional like edges. The ledger is a pure
// set over id pairs; existence of the ids is the caller's concern.
type LikeRepository struct {
	db *gorm.DB
}

// NewLikeRepository creates a repository bound to the given DB connection.
func NewLikeRepository(database *gorm.DB) *LikeRepository {
	return &LikeRepository{db: database}
}

// Like idempotently adds the (viewer, target) edge. The composite PK plus
// OnConflict DoNothing gives set semantics: liking twice is one row.
func (r *LikeRepository) Like(ctx context.Context, viewerID, targetID uint64) error {
	edge := db.LikeEdge{ViewerID: viewerID, TargetID: targetID}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&edge).Error
}

// ListLiked returns the directory records for every target the viewer has
// liked, in directory (id) order. Insertion order is deliberately not used;
// see the liked-list ordering note in DESIGN.md.
func (r *LikeRepository) ListLiked(ctx context.Context, viewerID uint64) ([]db.User, error) {
	var users []db.User
	err := r.db.WithContext(ctx).
		Table("users u").
		Joins("JOIN like_edges le ON le.target_id = u.id").
		Where("le.viewer_id = ?", viewerID).
		Order("u.id").
		Find(&users).Error
	return users, err
}

// Has reports whether the viewer has liked the target.
func (r *LikeRepository) Has(ctx context.Context, viewerID, targetID uint64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&db.LikeEdge{}).
		Where("viewer_id = ? AND target_id = ?", viewerID, targetID).
		Count(&count).Error
	return count > 0, err
}

// Count returns how many targets the viewer has liked.
func (r *LikeRepository) Count(ctx context.Context, viewerID uint64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&db.LikeEdge{}).
		Where("viewer_id = ?", viewerID).
		Count(&count).Error
	return count, err
}

// Remove deletes the (viewer, target) edge if present. Blocking uses this to
// scrub the blocked target out of the viewer's liked list.
func (r *LikeRepository) Remove(ctx context.Context, viewerID, targetID uint64) error {
	return r.db.WithContext(ctx).
		Where("viewer_id = ? AND target_id = ?", viewerID, targetID).
		Delete(&db.LikeEdge{}).Error
}
