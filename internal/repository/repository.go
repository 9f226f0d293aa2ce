package repository

import (
	"context"
	"fmt"

	"github.com/Fi44er/reward_bot/internal/models"
	"github.com/Fi44er/reward_bot/utils"
	"gorm.io/gorm"
)

type Repository struct {
	db     *gorm.DB
	logger *utils.Logger
}

func NewRepository(db *gorm.DB, logger *utils.Logger) *Repository {
	return &Repository{db: db, logger: logger}
}

// conn picks the transaction handle when one is passed.
func (r *Repository) conn(ctx context.Context, tx *gorm.DB) *gorm.DB {
	if tx == nil {
		return r.db.WithContext(ctx)
	}
	return tx.WithContext(ctx)
}

func (r *Repository) GetStats(ctx context.Context) (*models.Stats, error) {
	var stats models.Stats

	if err := r.db.WithContext(ctx).Model(&models.User{}).Count(&stats.Users).Error; err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}

	if err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("is_banned = ?", true).
		Count(&stats.BannedUsers).Error; err != nil {
		return nil, fmt.Errorf("failed to count banned users: %w", err)
	}

	if err := r.db.WithContext(ctx).
		Model(&models.WithdrawRequest{}).
		Where("status = ?", models.WithdrawStatusPending).
		Count(&stats.PendingWithdrawals).Error; err != nil {
		return nil, fmt.Errorf("failed to count pending withdrawals: %w", err)
	}

	return &stats, nil
}
