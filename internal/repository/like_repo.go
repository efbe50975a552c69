package repository

import (
	"context"
	"errors"
	"time"

	"github.com/harrygamon/Socials/internal/db"

	"gorm.io/gorm"
)

// LikeRepository provides data access methods for post Likes.
// Row existence IS the liked state: toggling deletes or creates.
type LikeRepository struct {
	db *gorm.DB
}

// NewLikeRepository creates a new repository bound to the given DB connection.
func NewLikeRepository(database *gorm.DB) *LikeRepository {
	return &LikeRepository{db: database}
}

// Toggle flips the (userID, postID) like edge.
//
// Behavior:
//   - Row exists → delete it, return liked=false.
//   - No row → create it, return liked=true.
func (r *LikeRepository) Toggle(ctx context.Context, userID, postID uint64) (bool, error) {
	var existing db.Like
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND post_id = ?", userID, postID).
		First(&existing).Error

	switch {
	case err == nil:
		if err := r.db.WithContext(ctx).Delete(&db.Like{}, existing.ID).Error; err != nil {
			return false, err
		}
		return false, nil

	case errors.Is(err, gorm.ErrRecordNotFound):
		like := db.Like{UserID: userID, PostID: postID}
		if err := r.db.WithContext(ctx).Create(&like).Error; err != nil {
			// a concurrent toggle beat us to the insert; the edge exists
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return true, nil
			}
			return false, err
		}
		return true, nil

	default:
		return false, err
	}
}

// CountForPost recounts Like rows for a post. No cached counter column
// exists; this is always a real count.
func (r *LikeRepository) CountForPost(ctx context.Context, postID uint64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&db.Like{}).
		Where("post_id = ?", postID).
		Count(&count).Error
	return count, err
}

// CountForPostSince counts Like rows created at or after since. Zero since
// means no window.
func (r *LikeRepository) CountForPostSince(ctx context.Context, postID uint64, since time.Time) (int64, error) {
	query := r.db.WithContext(ctx).
		Model(&db.Like{}).
		Where("post_id = ?", postID)
	if !since.IsZero() {
		query = query.Where("created_at >= ?", since)
	}
	var count int64
	err := query.Count(&count).Error
	return count, err
}
