package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/mixenapp/mixen-backend/internal/db"
)

// UserRepository provides data access methods for users and the swipe
// candidate feed.
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new repository bound to the given DB connection.
func NewUserRepository(database *gorm.DB) *UserRepository {
	return &UserRepository{db: database}
}

// CreateWithProfile inserts a user and its profile in one transaction.
//
// Behavior:
//   - The profile is created through the association, so both rows commit
//     or neither does. Keeps the "every user has exactly one profile"
//     invariant mechanically obvious instead of relying on a reactive hook.
//   - Unique violations on username/email surface as gorm.ErrDuplicatedKey.
func (r *UserRepository) CreateWithProfile(ctx context.Context, user *db.User, profile *db.Profile) error {
	user.Profile = profile
	return r.db.WithContext(ctx).Create(user).Error
}

// GetByUsername fetches a user by username.
func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*db.User, error) {
	var user db.User
	err := r.db.WithContext(ctx).Where("username = ?", username).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByID fetches a user by primary key.
func (r *UserRepository) GetByID(ctx context.Context, id uint64) (*db.User, error) {
	var user db.User
	err := r.db.WithContext(ctx).First(&user, id).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Candidate is one row of the swipe feed.
type Candidate struct {
	ID       uint64  `json:"id"`
	Username string  `json:"username"`
	Age      int     `json:"age"`
	Bio      string  `json:"bio"`
	ImageURL *string `json:"profile_image"`
}

// SwipeCandidates returns the users the given user can still swipe on.
//
// Behavior:
//   - Only users with an APPROVED profile are eligible.
//   - Excludes the user themselves, anyone they already liked, and anyone
//     they are matched with (either side of the canonical pair).
//   - No ranking or randomization; relative storage order is kept.
//   - Each row carries the first-uploaded profile image URL, or nil when
//     no image exists yet.
func (r *UserRepository) SwipeCandidates(ctx context.Context, userID uint64) ([]Candidate, error) {
	var rows []struct {
		ID        uint64
		Username  string
		Age       int
		Bio       string
		ProfileID uint64
	}

	err := r.db.WithContext(ctx).
		Table("users u").
		Select("u.id, u.username, p.age, p.bio, p.id AS profile_id").
		Joins("JOIN profiles p ON p.user_id = u.id").
		Where("p.status = ?", db.StatusApproved).
		Where("u.id <> ?", userID).
		Where("u.is_admin = false").
		Where(`NOT EXISTS (
			SELECT 1 FROM likes l
			WHERE l.from_user_id = ? AND l.to_user_id = u.id
		)`, userID).
		Where(`NOT EXISTS (
			SELECT 1 FROM matches m
			WHERE (m.user_a_id = ? AND m.user_b_id = u.id)
			   OR (m.user_a_id = u.id AND m.user_b_id = ?)
		)`, userID, userID).
		Order("u.id").
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	candidates := make([]Candidate, 0, len(rows))
	for _, row := range rows {
		c := Candidate{
			ID:       row.ID,
			Username: row.Username,
			Age:      row.Age,
			Bio:      row.Bio,
		}

		var img db.ProfileImage
		imgErr := r.db.WithContext(ctx).
			Where("profile_id = ?", row.ProfileID).
			Order("uploaded_at ASC, id ASC").
			First(&img).Error
		if imgErr == nil {
			url := img.ImageURL
			c.ImageURL = &url
		}

		candidates = append(candidates, c)
	}

	return candidates, nil
}
