package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/mixenapp/mixen-backend/internal/db"
)

// MatchRepository provides data access methods for the materialized
// mutual-like relationships.
type MatchRepository struct {
	db *gorm.DB
}

// NewMatchRepository creates a new repository bound to the given DB connection.
func NewMatchRepository(database *gorm.DB) *MatchRepository {
	return &MatchRepository{db: database}
}

// canonicalPair orders two user ids so the lower one is always user_a.
// A pair therefore has exactly one storage representation and the
// unique index on (user_a_id, user_b_id) can do its job.
func canonicalPair(x, y uint64) (uint64, uint64) {
	if y < x {
		return y, x
	}
	return x, y
}

// Create materializes a match between two users.
//
// Behavior:
//   - The pair is canonicalized before insert, so Create(a, b) and
//     Create(b, a) target the same row and the second one fails with
//     gorm.ErrDuplicatedKey.
func (r *MatchRepository) Create(ctx context.Context, userX, userY uint64) (*db.Match, error) {
	a, b := canonicalPair(userX, userY)
	match := db.Match{UserAID: a, UserBID: b}
	if err := r.db.WithContext(ctx).Create(&match).Error; err != nil {
		return nil, err
	}
	return &match, nil
}

// GetForPair looks up the match between two users regardless of
// argument order. Returns gorm.ErrRecordNotFound when they are not
// matched.
func (r *MatchRepository) GetForPair(ctx context.Context, userX, userY uint64) (*db.Match, error) {
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

// Counterparty is the other side of a match from one user's point of view.
type Counterparty struct {
	ID       uint64 `json:"id"`
	Username string `json:"username"`
}

// ListForUser returns the counterparties of every match the user is in.
//
// Behavior:
//   - Matches where the user sits on the user_a side come first, then
//     those where they sit on the user_b side. Not chronological.
func (r *MatchRepository) ListForUser(ctx context.Context, userID uint64) ([]Counterparty, error) {
	var asA []Counterparty
	err := r.db.WithContext(ctx).
		Table("matches m").
		Select("u.id, u.username").
		Joins("JOIN users u ON u.id = m.user_b_id").
		Where("m.user_a_id = ?", userID).
		Order("m.id").
		Find(&asA).Error
	if err != nil {
		return nil, err
	}

	var asB []Counterparty
	err = r.db.WithContext(ctx).
		Table("matches m").
		Select("u.id, u.username").
		Joins("JOIN users u ON u.id = m.user_a_id").
		Where("m.user_b_id = ?", userID).
		Order("m.id").
		Find(&asB).Error
	if err != nil {
		return nil, err
	}

	return append(asA, asB...), nil
}
