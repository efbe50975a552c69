package repository

import (
	"context"
	"strings"

	"github.com/harrygamon/Socials/internal/db"

	"gorm.io/gorm"
)

// UserRepository provides data access methods for the User model.
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new repository bound to the given DB connection.
func NewUserRepository(database *gorm.DB) *UserRepository {
	return &UserRepository{db: database}
}

// GetByID fetches a single user.
func (r *UserRepository) GetByID(ctx context.Context, id uint64) (*db.User, error) {
	var user db.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// UpdateProfile applies a profile edit and flags the user as onboarded,
// making them visible in discovery.
func (r *UserRepository) UpdateProfile(ctx context.Context, id uint64, fields map[string]any) (*db.User, error) {
	fields["onboarded"] = true
	if err := r.db.WithContext(ctx).
		Model(&db.User{}).
		Where("id = ?", id).
		Updates(fields).Error; err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

// PotentialTargets returns up to limit onboarded users the viewer has not
// recorded any verdict on, excluding the viewer. Natural storage order —
// this is a flat exclusion filter, not a recommender.
func (r *UserRepository) PotentialTargets(
	ctx context.Context,
	viewerID uint64,
	excludedIDs []uint64,
	limit int,
) ([]db.User, error) {
	var users []db.User
	query := r.db.WithContext(ctx).
		Where("onboarded = ?", true).
		Where("id <> ?", viewerID).
		Limit(limit)
	if len(excludedIDs) > 0 {
		query = query.Where("id NOT IN ?", excludedIDs)
	}
	err := query.Find(&users).Error
	return users, err
}

// UserSearchFilter narrows a user search. Zero values mean "no filter".
type UserSearchFilter struct {
	Gender   string
	Location string
	AgeMin   int
	AgeMax   int
}

// Search returns up to limit users whose name or bio contains the query,
// case-insensitively, narrowed by the filter.
func (r *UserRepository) Search(
	ctx context.Context,
	query string,
	filter UserSearchFilter,
	limit int,
) ([]db.User, error) {
	pattern := "%" + strings.ToLower(query) + "%"
	q := r.db.WithContext(ctx).
		Where("LOWER(name) LIKE ? OR LOWER(bio) LIKE ?", pattern, pattern).
		Limit(limit)

	if filter.Gender != "" {
		q = q.Where("gender = ?", filter.Gender)
	}
	if filter.Location != "" {
		q = q.Where("LOWER(location) LIKE ?", "%"+strings.ToLower(filter.Location)+"%")
	}
	if filter.AgeMin > 0 {
		q = q.Where("age >= ?", filter.AgeMin)
	}
	if filter.AgeMax > 0 {
		q = q.Where("age <= ?", filter.AgeMax)
	}

	var users []db.User
	err := q.Find(&users).Error
	return users, err
}

// GetManyByIDs fetches users by id, keyed for embedding into responses.
func (r *UserRepository) GetManyByIDs(ctx context.Context, ids []uint64) (map[uint64]db.User, error) {
	out := make(map[uint64]db.User, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var users []db.User
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&users).Error; err != nil {
		return nil, err
	}
	for _, u := range users {
		out[u.ID] = u
	}
	return out, nil
}
