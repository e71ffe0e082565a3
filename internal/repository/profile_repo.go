package repository

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/mixenapp/mixen-backend/internal/db"
	svcErr "github.com/mixenapp/mixen-backend/internal/errors"
	"github.com/mixenapp/mixen-backend/internal/utils/pagination"
)

// ProfileRepository provides data access methods for profiles, their
// media, and the verification state transitions.
type ProfileRepository struct {
	db *gorm.DB
}

// NewProfileRepository creates a new repository bound to the given DB connection.
func NewProfileRepository(database *gorm.DB) *ProfileRepository {
	return &ProfileRepository{db: database}
}

// GetByUserID fetches the profile owned by the given user.
func (r *ProfileRepository) GetByUserID(ctx context.Context, userID uint64) (*db.Profile, error) {
	var profile db.Profile
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// GetByID fetches a profile by primary key.
func (r *ProfileRepository) GetByID(ctx context.Context, id uint64) (*db.Profile, error) {
	var profile db.Profile
	err := r.db.WithContext(ctx).First(&profile, id).Error
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// AddImage appends an image URL to the profile's ordered set.
func (r *ProfileRepository) AddImage(ctx context.Context, profileID uint64, imageURL string) error {
	img := db.ProfileImage{ProfileID: profileID, ImageURL: imageURL}
	return r.db.WithContext(ctx).Create(&img).Error
}

// CountImages returns how many images the profile has uploaded.
func (r *ProfileRepository) CountImages(ctx context.Context, profileID uint64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&db.ProfileImage{}).
		Where("profile_id = ?", profileID).
		Count(&count).Error
	return count, err
}

// AddVideo attaches the verification video.
//
// Behavior:
//   - The unique index on profile_id enforces the one-video rule at the
//     storage level; a second insert fails with gorm.ErrDuplicatedKey.
func (r *ProfileRepository) AddVideo(ctx context.Context, profileID uint64, videoURL string) error {
	video := db.VerificationVideo{ProfileID: profileID, VideoURL: videoURL}
	return r.db.WithContext(ctx).Create(&video).Error
}

// HasVideo reports whether the profile uploaded its verification video.
func (r *ProfileRepository) HasVideo(ctx context.Context, profileID uint64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&db.VerificationVideo{}).
		Where("profile_id = ?", profileID).
		Count(&count).Error
	return count > 0, err
}

// MarkPending transitions the profile into review.
//
// Behavior:
//   - status ← PENDING, submitted_at ← now. Nothing else changes; the
//     precondition checks (image count, video) live in the service layer.
func (r *ProfileRepository) MarkPending(ctx context.Context, profileID uint64) error {
	now := time.Now().UTC()
	return r.db.WithContext(ctx).
		Model(&db.Profile{}).
		Where("id = ?", profileID).
		Updates(map[string]any{
			"status":       db.StatusPending,
			"submitted_at": now,
		}).Error
}

// Approve transitions the profile to APPROVED.
//
// Behavior:
//   - status ← APPROVED, reviewed_at ← now, rejection_reason cleared.
//   - Re-approving an already approved profile just re-sets the same
//     fields; the operation itself is idempotent.
func (r *ProfileRepository) Approve(ctx context.Context, profileID uint64) error {
	now := time.Now().UTC()
	return r.db.WithContext(ctx).
		Model(&db.Profile{}).
		Where("id = ?", profileID).
		Updates(map[string]any{
			"status":           db.StatusApproved,
			"reviewed_at":      now,
			"rejection_reason": "",
		}).Error
}

// Reject transitions the profile to REJECTED.
//
// Behavior:
//   - status ← REJECTED, reviewed_at ← now.
//   - rejection_reason holds the comma-joined reasons; additionally one
//     RejectionReason row is persisted per reason so history accumulates
//     across repeated rejections.
//   - Runs in a transaction so the status flip and the reason rows commit
//     together.
func (r *ProfileRepository) Reject(ctx context.Context, profileID uint64, reasons []string) error {
	now := time.Now().UTC()
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&db.Profile{}).
			Where("id = ?", profileID).
			Updates(map[string]any{
				"status":           db.StatusRejected,
				"reviewed_at":      now,
				"rejection_reason": strings.Join(reasons, ", "),
			}).Error
		if err != nil {
			return err
		}

		for _, reason := range reasons {
			row := db.RejectionReason{ProfileID: profileID, Reason: reason}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// ReviewRow is one row of the admin review listing.
type ReviewRow struct {
	ProfileID       uint64     `json:"profile_id"`
	UserID          uint64     `json:"user_id"`
	Username        string     `json:"username"`
	Email           string     `json:"email"`
	Status          string     `json:"status"`
	SubmittedAt     *time.Time `json:"submitted_at"`
	ReviewedAt      *time.Time `json:"reviewed_at"`
	RejectionReason string     `json:"rejection_reason"`
	CreatedAt       time.Time  `json:"-"`
}

// ListForReview returns profiles for the admin console.
//
// Behavior:
//   - Optional status filter (exact match on the verification status).
//   - Optional search over username and email (substring).
//   - Ordered by created_at DESC, profile id DESC.
//   - Supports cursor-based pagination via paginationToken.
//
// Example:
//
//	repo.ListForReview(ctx, "PENDING", "", nil, 20) // first 20 pending profiles
func (r *ProfileRepository) ListForReview(
	ctx context.Context,
	status string,
	search string,
	paginationToken *string,
	limit int,
) ([]ReviewRow, *string, error) {
	var rows []ReviewRow

	cursor, err := pagination.Decode(getString(paginationToken))
	if err != nil {
		// client-supplied token, not an infra failure
		return nil, nil, svcErr.InvalidArgument("invalid page_token")
	}

	query := r.db.WithContext(ctx).
		Table("profiles p").
		Select(`p.id AS profile_id, u.id AS user_id, u.username, u.email,
			p.status, p.submitted_at, p.reviewed_at, p.rejection_reason, p.created_at`).
		Joins("JOIN users u ON u.id = p.user_id").
		Order("p.created_at DESC, p.id DESC").
		Limit(limit + 1)

	if status != "" {
		query = query.Where("p.status = ?", status)
	}
	if search != "" {
		pattern := "%" + search + "%"
		query = query.Where("u.username LIKE ? OR u.email LIKE ?", pattern, pattern)
	}

	// apply cursor
	if cursor.ID > 0 && cursor.CreatedUnix > 0 {
		ts := time.UnixMilli(cursor.CreatedUnix)
		query = query.Where(
			"(p.created_at < ? OR (p.created_at = ? AND p.id < ?))",
			ts, ts, cursor.ID,
		)
	}

	if err := query.Find(&rows).Error; err != nil {
		return nil, nil, err
	}

	// pagination: build next cursor if needed
	var nextToken *string
	if len(rows) > limit {
		last := rows[limit-1]
		token, _ := pagination.Encode(pagination.Cursor{
			ID:          last.ProfileID,
			CreatedUnix: last.CreatedAt.UnixMilli(),
		})
		nextToken = &token
		rows = rows[:limit]
	}

	return rows, nextToken, nil
}

// getString safely dereferences a string pointer for pagination tokens.
func getString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
