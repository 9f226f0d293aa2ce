package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Fi44er/reward_bot/internal/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrUserNotFound is returned by targeted updates that matched no row.
var ErrUserNotFound = errors.New("user not found")

func (r *Repository) GetUser(ctx context.Context, telegramID int64) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).First(&user, "telegram_id = ?", telegramID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user %d: %w", telegramID, err)
	}
	return &user, nil
}

// EnsureUser inserts a zero-balance record unless one exists. refBy is stored
// only on the insert; an existing record keeps its referrer.
func (r *Repository) EnsureUser(ctx context.Context, telegramID int64, refBy *int64, tx *gorm.DB) (bool, error) {
	user := &models.User{
		TelegramID: telegramID,
		Balance:    decimal.Zero,
		RefBy:      refBy,
		CreatedAt:  time.Now().UTC(),
	}

	res := r.conn(ctx, tx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "telegram_id"}}, DoNothing: true}).
		Create(user)
	if res.Error != nil {
		return false, fmt.Errorf("failed to create user %d: %w", telegramID, res.Error)
	}

	if res.RowsAffected > 0 {
		r.logger.Infof("Created user %d (ref_by=%v)", telegramID, refBy)
		return true, nil
	}
	return false, nil
}

// AddBalance applies delta in one statement so concurrent credits add up.
func (r *Repository) AddBalance(ctx context.Context, telegramID int64, delta decimal.Decimal, tx *gorm.DB) error {
	res := r.conn(ctx, tx).
		Model(&models.User{}).
		Where("telegram_id = ?", telegramID).
		Update("balance", gorm.Expr("balance + ?", delta))

	if res.Error != nil {
		return fmt.Errorf("failed to change balance of user %d: %w", telegramID, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("change balance of user %d: %w", telegramID, ErrUserNotFound)
	}

	r.logger.Infof("Balance of user %d changed by %s", telegramID, delta.String())
	return nil
}

func (r *Repository) SetBanned(ctx context.Context, telegramID int64, banned bool) error {
	res := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("telegram_id = ?", telegramID).
		Update("is_banned", banned)

	if res.Error != nil {
		return fmt.Errorf("failed to update ban flag of user %d: %w", telegramID, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("update ban flag of user %d: %w", telegramID, ErrUserNotFound)
	}
	return nil
}

// ClaimDailyBonus credits amount and stamps last_bonus_at when the previous
// claim is older than cooldown. It reports false when still cooling down.
func (r *Repository) ClaimDailyBonus(ctx context.Context, telegramID int64, amount decimal.Decimal, now time.Time, cooldown time.Duration) (bool, error) {
	now = now.UTC()
	res := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("telegram_id = ?", telegramID).
		Where("last_bonus_at IS NULL OR last_bonus_at <= ?", now.Add(-cooldown)).
		Updates(map[string]interface{}{
			"balance":       gorm.Expr("balance + ?", amount),
			"last_bonus_at": now,
		})

	if res.Error != nil {
		return false, fmt.Errorf("failed to claim daily bonus for user %d: %w", telegramID, res.Error)
	}
	return res.RowsAffected == 1, nil
}

// MarkJoinCheckPassed flips passed_join_check and reports whether this call
// did the flip.
func (r *Repository) MarkJoinCheckPassed(ctx context.Context, telegramID int64, tx *gorm.DB) (bool, error) {
	res := r.conn(ctx, tx).
		Model(&models.User{}).
		Where("telegram_id = ? AND passed_join_check = ?", telegramID, false).
		Update("passed_join_check", true)

	if res.Error != nil {
		return false, fmt.Errorf("failed to mark join check for user %d: %w", telegramID, res.Error)
	}
	return res.RowsAffected == 1, nil
}

// ClaimReferralCredit flips ref_credit_given for a referred user who passed
// the join check. It returns the referrer id only to the caller that won the
// flip, nil otherwise.
func (r *Repository) ClaimReferralCredit(ctx context.Context, telegramID int64, tx *gorm.DB) (*int64, error) {
	db := r.conn(ctx, tx)

	res := db.Model(&models.User{}).
		Where("telegram_id = ?", telegramID).
		Where("ref_by IS NOT NULL AND passed_join_check = ? AND ref_credit_given = ?", true, false).
		Update("ref_credit_given", true)
	if res.Error != nil {
		return nil, fmt.Errorf("failed to claim referral credit for user %d: %w", telegramID, res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}

	var user models.User
	if err := db.Select("telegram_id", "ref_by").First(&user, "telegram_id = ?", telegramID).Error; err != nil {
		return nil, fmt.Errorf("failed to read referrer of user %d: %w", telegramID, err)
	}
	return user.RefBy, nil
}

func (r *Repository) ListUserIDs(ctx context.Context) ([]int64, error) {
	var ids []int64
	err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Order("telegram_id ASC").
		Pluck("telegram_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list user ids: %w", err)
	}
	return ids, nil
}
