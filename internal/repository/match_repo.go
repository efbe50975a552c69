package repository

import (
	"context"
	"errors"

	"github.com/harrygamon/Socials/internal/db"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// MatchRepository provides data access methods for the Match model.
type MatchRepository struct {
	db *gorm.DB
}

// NewMatchRepository creates a new repository bound to the given DB connection.
func NewMatchRepository(database *gorm.DB) *MatchRepository {
	return &MatchRepository{db: database}
}

// canonicalPair orders two user ids so that the smaller one is always
// user_a_id. Every read and write goes through this, which is what lets
// the unique index on (user_a_id, user_b_id) enforce at most one match
// per unordered pair.
func canonicalPair(x, y uint64) (uint64, uint64) {
	if x > y {
		return y, x
	}
	return x, y
}

// CreateIfAbsent materializes a match for the pair if none exists yet.
// Returns the match and whether this call created it.
//
// Concurrency: two reciprocal likes landing at the same instant can both
// reach this point. The insert uses ON CONFLICT DO NOTHING against the
// canonical pair index, so the loser of the race reads back the winner's
// row instead of failing.
func (r *MatchRepository) CreateIfAbsent(
	ctx context.Context,
	userX, userY uint64,
) (*db.Match, bool, error) {
	a, b := canonicalPair(userX, userY)

	match := db.Match{UserAID: a, UserBID: b}
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_a_id"}, {Name: "user_b_id"}},
			DoNothing: true,
		}).
		Create(&match)
	if res.Error != nil && !errors.Is(res.Error, gorm.ErrDuplicatedKey) {
		return nil, false, res.Error
	}

	created := res.Error == nil && res.RowsAffected > 0
	if created {
		return &match, true, nil
	}

	existing, err := r.GetByPair(ctx, a, b)
	if err != nil {
		return nil, false, err
	}
	return existing, false, nil
}

// GetByID fetches a single match.
func (r *MatchRepository) GetByID(ctx context.Context, id uint64) (*db.Match, error) {
	var match db.Match
	if err := r.db.WithContext(ctx).First(&match, id).Error; err != nil {
		return nil, err
	}
	return &match, nil
}

// GetByPair fetches the match for an unordered pair, if any.
func (r *MatchRepository) GetByPair(
	ctx context.Context,
	userX, userY uint64,
) (*db.Match, error) {
	a, b := canonicalPair(userX, userY)
	var match db.Match
	err := r.db.WithContext(ctx).
		Where("user_a_id = ? AND user_b_id = ?", a, b).
		First(&match).Error
	if err != nil {
		return nil, err
	}
	return &match, nil
}

// Exists reports whether a match row exists for the unordered pair.
func (r *MatchRepository) Exists(
	ctx context.Context,
	userX, userY uint64,
) (bool, error) {
	a, b := canonicalPair(userX, userY)
	var count int64
	err := r.db.WithContext(ctx).
		Model(&db.Match{}).
		Where("user_a_id = ? AND user_b_id = ?", a, b).
		Count(&count).Error
	return count > 0, err
}

// ListForUser returns every match the user is part of, newest first.
func (r *MatchRepository) ListForUser(
	ctx context.Context,
	userID uint64,
) ([]db.Match, error) {
	var matches []db.Match
	err := r.db.WithContext(ctx).
		Where("user_a_id = ? OR user_b_id = ?", userID, userID).
		Order("created_at DESC, id DESC").
		Find(&matches).Error
	return matches, err
}
