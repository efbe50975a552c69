package repository

import (
	"context"

	"github.com/harrygamon/Socials/internal/db"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UserLikeRepository provides data access methods for the UserLike model.
// It encapsulates all queries related to like/dislike verdicts between users.
type UserLikeRepository struct {
	db *gorm.DB
}

// NewUserLikeRepository creates a new repository bound to the given DB connection.
func NewUserLikeRepository(database *gorm.DB) *UserLikeRepository {
	return &UserLikeRepository{db: database}
}

// Upsert inserts or updates the verdict from -> to.
//
// Behavior:
//   - If (from_user_id, to_user_id) pair exists → the row is updated with
//     the new "liked" value.
//   - If it doesn't exist → a new row is inserted.
//   - Composite PK ensures overwrite guarantee.
func (r *UserLikeRepository) Upsert(
	ctx context.Context,
	fromUserID, toUserID uint64,
	liked bool,
) error {
	verdict := db.UserLike{
		FromUserID: fromUserID,
		ToUserID:   toUserID,
		Liked:      liked,
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "from_user_id"}, {Name: "to_user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"liked", "updated_at"}),
		}).
		Create(&verdict).Error
}

// HasLiked checks whether from has a positive verdict on to.
// Used for the reciprocal check when detecting mutual likes.
func (r *UserLikeRepository) HasLiked(
	ctx context.Context,
	fromUserID, toUserID uint64,
) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&db.UserLike{}).
		Where("from_user_id = ? AND to_user_id = ? AND liked = ?", fromUserID, toUserID, true).
		Count(&count).Error
	return count > 0, err
}

// DecidedUserIDs returns every user the given user has recorded any verdict
// for, liked or passed. Discovery excludes all of them: once a verdict
// exists, that target never reappears.
func (r *UserLikeRepository) DecidedUserIDs(
	ctx context.Context,
	fromUserID uint64,
) ([]uint64, error) {
	var ids []uint64
	err := r.db.WithContext(ctx).
		Model(&db.UserLike{}).
		Where("from_user_id = ?", fromUserID).
		Pluck("to_user_id", &ids).Error
	return ids, err
}
