package service

import (
	"context"
	"fmt"

	"github.com/Fi44er/reward_bot/internal/models"
	"github.com/shopspring/decimal"
)

// RegisterUser creates the user on first contact. A self-referral is
// dropped; an existing user keeps the referrer recorded at creation.
func (s *Service) RegisterUser(ctx context.Context, userID int64, refBy *int64) (bool, error) {
	if refBy != nil && *refBy == userID {
		refBy = nil
	}
	return s.repo.EnsureUser(ctx, userID, refBy, nil)
}

// GetUser returns the user record, creating it when unknown.
func (s *Service) GetUser(ctx context.Context, userID int64) (*models.User, error) {
	if _, err := s.repo.EnsureUser(ctx, userID, nil, nil); err != nil {
		return nil, err
	}

	user, err := s.repo.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("user %d vanished after creation", userID)
	}
	return user, nil
}

func (s *Service) Balance(ctx context.Context, userID int64) (decimal.Decimal, error) {
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return decimal.Zero, err
	}
	return user.Balance, nil
}

// Credit applies delta to the balance without a floor and returns the new
// balance.
func (s *Service) Credit(ctx context.Context, userID int64, delta decimal.Decimal) (decimal.Decimal, error) {
	if _, err := s.repo.EnsureUser(ctx, userID, nil, nil); err != nil {
		return decimal.Zero, err
	}
	if err := s.repo.AddBalance(ctx, userID, delta, nil); err != nil {
		return decimal.Zero, err
	}
	return s.Balance(ctx, userID)
}

func (s *Service) SetBanned(ctx context.Context, userID int64, banned bool) error {
	if _, err := s.repo.EnsureUser(ctx, userID, nil, nil); err != nil {
		return err
	}
	if err := s.repo.SetBanned(ctx, userID, banned); err != nil {
		return err
	}
	s.logger.Infof("User %d banned=%t", userID, banned)
	return nil
}

func (s *Service) IsBanned(ctx context.Context, userID int64) (bool, error) {
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return false, err
	}
	return user.IsBanned, nil
}

func (s *Service) AllUserIDs(ctx context.Context) ([]int64, error) {
	return s.repo.ListUserIDs(ctx)
}
