package repository

import (
	"context"
	"fmt"

	"github.com/Fi44er/reward_bot/internal/models"
)

func (r *Repository) CreateWithdrawRequest(ctx context.Context, request *models.WithdrawRequest) error {
	if err := r.db.WithContext(ctx).Create(request).Error; err != nil {
		return fmt.Errorf("failed to create withdraw request for user %d: %w", request.UserID, err)
	}
	r.logger.Infof("Withdraw request #%d created for user %d", request.ID, request.UserID)
	return nil
}

func (r *Repository) GetWithdrawRequestsByUser(ctx context.Context, userID int64) ([]*models.WithdrawRequest, error) {
	var requests []*models.WithdrawRequest
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id ASC").
		Find(&requests).
		Error

	if err != nil {
		return nil, fmt.Errorf("failed to get withdraw requests of user %d: %w", userID, err)
	}
	return requests, nil
}
