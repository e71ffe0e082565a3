package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mixenapp/mixen-backend/internal/db"
)

// ErrInsufficientCoins is returned by Spend when the balance does not
// cover the amount. The balance is left untouched.
var ErrInsufficientCoins = errors.New("insufficient coins")

// WalletRepository provides the coin-balance operations. All paid
// actions go through Spend so the check-then-debit stays atomic.
type WalletRepository struct {
	db *gorm.DB
}

// NewWalletRepository creates a new repository bound to the given DB connection.
func NewWalletRepository(database *gorm.DB) *WalletRepository {
	return &WalletRepository{db: database}
}

// Spend atomically debits amount from the user's balance.
//
// Behavior:
//   - The profile row is read under FOR UPDATE inside a transaction, so
//     concurrent spends against the same user serialize instead of
//     racing into a lost update.
//   - Returns ErrInsufficientCoins without mutating when balance < amount.
//   - Returns the remaining balance on success.
func (r *WalletRepository) Spend(ctx context.Context, userID uint64, amount int) (int, error) {
	var remaining int
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var profile db.Profile

		query := tx.Where("user_id = ?", userID)
		// SQLite (tests) has no SELECT ... FOR UPDATE; its single-writer
		// transaction already serializes the read-modify-write.
		if tx.Dialector.Name() == "mysql" {
			query = query.Clauses(clause.Locking{Strength: "UPDATE"})
		}
		if err := query.First(&profile).Error; err != nil {
			return err
		}

		if profile.Coins < amount {
			return ErrInsufficientCoins
		}

		remaining = profile.Coins - amount
		return tx.Model(&db.Profile{}).
			Where("id = ?", profile.ID).
			Update("coins", remaining).Error
	})
	if err != nil {
		return 0, err
	}
	return remaining, nil
}

// Credit adds amount to the user's balance and returns the new balance.
// No upper bound is enforced.
func (r *WalletRepository) Credit(ctx context.Context, userID uint64, amount int) (int, error) {
	var balance int
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var profile db.Profile

		query := tx.Where("user_id = ?", userID)
		if tx.Dialector.Name() == "mysql" {
			query = query.Clauses(clause.Locking{Strength: "UPDATE"})
		}
		if err := query.First(&profile).Error; err != nil {
			return err
		}

		balance = profile.Coins + amount
		return tx.Model(&db.Profile{}).
			Where("id = ?", profile.ID).
			Update("coins", balance).Error
	})
	if err != nil {
		return 0, err
	}
	return balance, nil
}

// Balance reads the current coin balance.
func (r *WalletRepository) Balance(ctx context.Context, userID uint64) (int, error) {
	var profile db.Profile
	err := r.db.WithContext(ctx).
		Select("coins").
		Where("user_id = ?", userID).
		First(&profile).Error
	if err != nil {
		return 0, err
	}
	return profile.Coins, nil
}
