package db

import (
	"time"
)

// Verification status values for Profile.Status.
const (
	StatusDraft    = "DRAFT"    // still filling profile
	StatusPending  = "PENDING"  // waiting for admin review
	StatusApproved = "APPROVED" // approved, full access
	StatusRejected = "REJECTED" // rejected, fix and resubmit
)

// User table. Credentials and identity only; everything descriptive
// lives on Profile, which is created in the same transaction.
type User struct {
	ID           uint64 `gorm:"primaryKey;autoIncrement"`
	Username     string `gorm:"uniqueIndex;size:64;not null"`
	Email        string `gorm:"uniqueIndex;size:128;not null"`
	PasswordHash string `gorm:"size:255;not null"`
	IsAdmin      bool   `gorm:"default:false"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`

	Profile *Profile `gorm:"constraint:OnDelete:CASCADE"`
}

// Profile holds the verification state, the coin balance and the
// descriptive fields shown to other users. Exactly one per User,
// created atomically with it.
//
// Fields:
//   - Status: DRAFT → PENDING → APPROVED | REJECTED.
//   - SubmittedAt / ReviewedAt: set only on the matching transition.
//   - RejectionReason: comma-joined reasons from the last rejection.
//   - Coins: integer balance, starts at the configured free allowance.
type Profile struct {
	ID     uint64 `gorm:"primaryKey;autoIncrement"`
	UserID uint64 `gorm:"uniqueIndex;not null"`

	Status          string `gorm:"size:20;not null;default:DRAFT;index"`
	RejectionReason string `gorm:"type:text"`
	SubmittedAt     *time.Time
	ReviewedAt      *time.Time

	Bio        string `gorm:"type:text"`
	Age        int
	Gender     string `gorm:"size:10"`
	Location   string `gorm:"size:100"`
	Height     int
	Drink      bool `gorm:"default:false"`
	Smoke      bool `gorm:"default:false"`
	LookingFor string `gorm:"size:100"`

	Coins int `gorm:"not null;default:30"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`

	Images []ProfileImage `gorm:"constraint:OnDelete:CASCADE"`
}

// ProfileImage is an externally hosted image URL owned by a Profile.
// Ordered by upload time; submission requires at least four.
type ProfileImage struct {
	ID         uint64    `gorm:"primaryKey;autoIncrement"`
	ProfileID  uint64    `gorm:"index;not null"`
	ImageURL   string    `gorm:"size:512;not null"`
	UploadedAt time.Time `gorm:"autoCreateTime"`
}

// VerificationVideo is the single selfie-video URL required for review.
// The unique index on ProfileID enforces at most one per profile.
type VerificationVideo struct {
	ID         uint64    `gorm:"primaryKey;autoIncrement"`
	ProfileID  uint64    `gorm:"uniqueIndex;not null"`
	VideoURL   string    `gorm:"size:512;not null"`
	UploadedAt time.Time `gorm:"autoCreateTime"`
}

// Like is a directed edge from one user to another.
//
// Composite PK: (FromUserID, ToUserID)
//   - Storage-level guarantee that a pair is liked at most once,
//     so a racing duplicate insert fails on the constraint rather
//     than slipping past an application pre-check.
type Like struct {
	FromUserID uint64    `gorm:"primaryKey"`
	ToUserID   uint64    `gorm:"primaryKey;index:idx_to_user_created,priority:1"`
	CreatedAt  time.Time `gorm:"autoCreateTime;index:idx_to_user_created,priority:2,sort:desc"`
}

// Match is the materialized mutual-interest relationship.
//
// Canonical ordering: UserAID < UserBID always, so (A,B) and (B,A)
// collapse to a single row and the composite unique index makes
// duplicate creation impossible regardless of which like completed
// the pair.
type Match struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement"`
	UserAID   uint64    `gorm:"uniqueIndex:idx_match_pair,priority:1;not null"`
	UserBID   uint64    `gorm:"uniqueIndex:idx_match_pair,priority:2;not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

// Message belongs to exactly one Match. Append-only; no update or
// delete path exists.
type Message struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement"`
	MatchID   uint64    `gorm:"index;not null"`
	SenderID  uint64    `gorm:"not null"`
	Text      string    `gorm:"type:text;not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

// RejectionReason is one historical reason row attached to a profile
// at rejection time. Multiple accumulate across rejections.
type RejectionReason struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement"`
	ProfileID uint64    `gorm:"index;not null"`
	Reason    string    `gorm:"size:255;not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}
