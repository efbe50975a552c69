package repository

import (
	"context"
	"strings"
	"time"

	"github.com/harrygamon/Socials/internal/db"
	"github.com/harrygamon/Socials/internal/utils/pagination"

	"gorm.io/gorm"
)

// PostRepository provides data access methods for the Post model.
type PostRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new repository bound to the given DB connection.
func NewPostRepository(database *gorm.DB) *PostRepository {
	return &PostRepository{db: database}
}

// Create inserts a new post.
func (r *PostRepository) Create(ctx context.Context, post *db.Post) error {
	return r.db.WithContext(ctx).Create(post).Error
}

// GetByID fetches a single post.
func (r *PostRepository) GetByID(ctx context.Context, id uint64) (*db.Post, error) {
	var post db.Post
	if err := r.db.WithContext(ctx).First(&post, id).Error; err != nil {
		return nil, err
	}
	return &post, nil
}

// Delete removes a post. Ownership is checked at the service layer.
func (r *PostRepository) Delete(ctx context.Context, id uint64) error {
	return r.db.WithContext(ctx).Delete(&db.Post{}, id).Error
}

// List returns posts newest-first with cursor-based pagination.
//
// Behavior:
//   - Ordered by created_at DESC, id DESC (id breaks created_at ties).
//   - Fetches limit+1 rows to decide whether a next page exists.
func (r *PostRepository) List(
	ctx context.Context,
	paginationToken *string,
	limit int,
) ([]db.Post, *string, error) {
	cursor, err := pagination.Decode(getString(paginationToken))
	if err != nil {
		return nil, nil, err
	}

	query := r.db.WithContext(ctx).
		Order("created_at DESC, id DESC").
		Limit(limit + 1)

	if cursor.PostID > 0 && cursor.CreatedUnix > 0 {
		ts := time.UnixMilli(cursor.CreatedUnix)
		query = query.Where(
			"(created_at < ? OR (created_at = ? AND id < ?))",
			ts, ts, cursor.PostID,
		)
	}

	var posts []db.Post
	if err := query.Find(&posts).Error; err != nil {
		return nil, nil, err
	}

	var nextToken *string
	if len(posts) > limit {
		last := posts[limit-1]
		token, _ := pagination.Encode(pagination.Cursor{
			PostID:      last.ID,
			CreatedUnix: last.CreatedAt.UnixMilli(),
		})
		nextToken = &token
		posts = posts[:limit]
	}

	return posts, nextToken, nil
}

// RecentCandidates returns the newest posts passing the trending filters,
// capped before scoring.
//
//   - since non-zero → created_at >= since
//   - textOnly → empty media list; imageOnly → non-empty media list
//
// The cap means older highly-engaged posts outside the newest window never
// surface; that bound is intentional.
func (r *PostRepository) RecentCandidates(
	ctx context.Context,
	since time.Time,
	textOnly, imageOnly bool,
	limit int,
) ([]db.Post, error) {
	query := r.db.WithContext(ctx).
		Order("created_at DESC, id DESC").
		Limit(limit)

	if !since.IsZero() {
		query = query.Where("created_at >= ?", since)
	}
	// MediaURLs is stored as a JSON string column; an empty list
	// serializes to "[]" (or stays NULL when never set).
	if textOnly {
		query = query.Where("media_urls IS NULL OR media_urls = ?", "[]")
	}
	if imageOnly {
		query = query.Where("media_urls IS NOT NULL AND media_urls <> ?", "[]")
	}

	var posts []db.Post
	err := query.Find(&posts).Error
	return posts, err
}

// SearchByContent returns up to limit posts whose content contains the
// query, case-insensitively, newest first. Takes the same window and
// media filters as RecentCandidates.
func (r *PostRepository) SearchByContent(
	ctx context.Context,
	query string,
	since time.Time,
	textOnly, imageOnly bool,
	limit int,
) ([]db.Post, error) {
	q := r.db.WithContext(ctx).
		Where("LOWER(content) LIKE ?", "%"+strings.ToLower(query)+"%").
		Order("created_at DESC, id DESC").
		Limit(limit)

	if !since.IsZero() {
		q = q.Where("created_at >= ?", since)
	}
	if textOnly {
		q = q.Where("media_urls IS NULL OR media_urls = ?", "[]")
	}
	if imageOnly {
		q = q.Where("media_urls IS NOT NULL AND media_urls <> ?", "[]")
	}

	var posts []db.Post
	err := q.Find(&posts).Error
	return posts, err
}

// ListByAuthor returns a user's posts, newest first.
func (r *PostRepository) ListByAuthor(ctx context.Context, authorID uint64) ([]db.Post, error) {
	var posts []db.Post
	err := r.db.WithContext(ctx).
		Where("author_id = ?", authorID).
		Order("created_at DESC, id DESC").
		Find(&posts).Error
	return posts, err
}

// getString safely dereferences a string pointer for pagination tokens.
func getString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
