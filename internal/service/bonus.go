package service

import (
	"context"
	"math"
	"time"

	"github.com/shopspring/decimal"
)

const BonusCooldown = 24 * time.Hour

type BonusResult struct {
	Credited bool
	Amount   decimal.Decimal
	// WaitHours is the time left until the next claim, rounded up to whole
	// hours. Zero when Credited.
	WaitHours int
}

func (s *Service) ClaimDailyBonus(ctx context.Context, userID int64) (*BonusResult, error) {
	settings, err := s.LoadSettings(ctx)
	if err != nil {
		return nil, err
	}
	if _, err := s.repo.EnsureUser(ctx, userID, nil, nil); err != nil {
		return nil, err
	}

	now := s.now()
	credited, err := s.repo.ClaimDailyBonus(ctx, userID, settings.DailyBonus, now, BonusCooldown)
	if err != nil {
		return nil, err
	}
	if credited {
		s.logger.Infof("Daily bonus %s credited to user %d", settings.DailyBonus, userID)
		return &BonusResult{Credited: true, Amount: settings.DailyBonus}, nil
	}

	user, err := s.repo.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	wait := 1
	if user != nil && user.LastBonusAt != nil {
		wait = waitHours(user.LastBonusAt.Add(BonusCooldown).Sub(now))
	}
	return &BonusResult{Amount: settings.DailyBonus, WaitHours: wait}, nil
}

func waitHours(left time.Duration) int {
	hours := int(math.Ceil(left.Hours()))
	if hours < 1 {
		return 1
	}
	return hours
}
