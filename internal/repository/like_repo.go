package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/mixenapp/mixen-backend/internal/db"
)

// LikeRepository provides data access methods for the directed like
// edges between users.
type LikeRepository struct {
	db *gorm.DB
}

// NewLikeRepository creates a new repository bound to the given DB connection.
func NewLikeRepository(database *gorm.DB) *LikeRepository {
	return &LikeRepository{db: database}
}

// Create inserts a like edge from → to.
//
// Behavior:
//   - The composite PK (from_user_id, to_user_id) makes the duplicate
//     check a storage-level guarantee: a racing second insert fails with
//     gorm.ErrDuplicatedKey instead of slipping past a pre-check.
func (r *LikeRepository) Create(ctx context.Context, fromID, toID uint64) error {
	like := db.Like{FromUserID: fromID, ToUserID: toID}
	return r.db.WithContext(ctx).Create(&like).Error
}

// Exists reports whether from already liked to.
//
// Example:
//
//	repo.Exists(ctx, 1, 2) // -> true if user 1 liked user 2
func (r *LikeRepository) Exists(ctx context.Context, fromID, toID uint64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&db.Like{}).
		Where("from_user_id = ? AND to_user_id = ?", fromID, toID).
		Count(&count).Error
	return count > 0, err
}

// Liker is one row of the paid "who liked me" list.
type Liker struct {
	UserID    uint64    `json:"user_id"`
	Username  string    `json:"from_user"`
	CreatedAt time.Time `json:"created_at"`
}

// ListReceived returns everyone who liked the given user, newest first.
func (r *LikeRepository) ListReceived(ctx context.Context, userID uint64) ([]Liker, error) {
	var likers []Liker
	err := r.db.WithContext(ctx).
		Table("likes l").
		Select("u.id AS user_id, u.username, l.created_at").
		Joins("JOIN users u ON u.id = l.from_user_id").
		Where("l.to_user_id = ?", userID).
		Order("l.created_at DESC, u.id DESC").
		Find(&likers).Error
	return likers, err
}

// CountReceived returns how many users liked the given user.
// Used as the DB fallback behind the Redis like-count cache.
func (r *LikeRepository) CountReceived(ctx context.Context, userID uint64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&db.Like{}).
		Where("to_user_id = ?", userID).
		Count(&count).Error
	return count, err
}
