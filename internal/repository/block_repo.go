package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/oggyb/sparkmatch/internal/db"
)

// BlockRepository keeps each viewer's exclusion set. Blocking is a filter
// over derived views, never a deletion of directory rows; the orchestration
// side effects (feed rebuild, liked-list scrub, chat teardown) live in the
// engine.
type BlockRepository struct {
	db *gorm.DB
}

// NewBlockRepository creates a repository bound to the given DB connection.
func NewBlockRepository(database *gorm.DB) *BlockRepository {
	return &BlockRepository{db: database}
}

// Block idempotently adds the target to the viewer's exclusion set.
func (r *BlockRepository) Block(ctx context.Context, viewerID, targetID uint64) error {
	entry := db.BlockEntry{ViewerID: viewerID, TargetID: targetID}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&entry).Error
}

// BlockedSet returns the viewer's exclusion set keyed by target id, shaped
// for the feed filter.
func (r *BlockRepository) BlockedSet(ctx context.Context, viewerID uint64) (map[uint64]struct{}, error) {
	var entries []db.BlockEntry
	err := r.db.WithContext(ctx).
		Where("viewer_id = ?", viewerID).
		Find(&entries).Error
	if err != nil {
		return nil, err
	}

	set := make(map[uint64]struct{}, len(entries))
	for _, e := range entries {
		set[e.TargetID] = struct{}{}
	}
	return set, nil
}
