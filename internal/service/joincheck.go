package service

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	memberStatusLeft   = "left"
	memberStatusKicked = "kicked"
)

type JoinCheckResult struct {
	Joined bool
	// MissingChannel is the first channel that failed the check.
	MissingChannel string
	// FirstPass is true only for the call that recorded the first success.
	FirstPass bool
	// ReferrerID is set only for the call that paid the referral credit.
	ReferrerID    *int64
	ReferralBonus decimal.Decimal
}

// HasJoinedAll asks the checker about every channel and stops at the first
// one the user is not in. Query errors count as not joined.
func (s *Service) HasJoinedAll(ctx context.Context, channels []string, userID int64) (bool, string) {
	for _, channel := range channels {
		status, err := s.checker.ChatMemberStatus(ctx, channel, userID)
		if err != nil {
			s.logger.Warnf("Membership query for user %d in %s failed: %v", userID, channel, err)
			return false, channel
		}
		if status == memberStatusLeft || status == memberStatusKicked {
			return false, channel
		}
	}
	return true, ""
}

// CheckJoined runs the join check and, on success, records it and pays the
// referral credit at most once per referred user.
func (s *Service) CheckJoined(ctx context.Context, userID int64) (*JoinCheckResult, error) {
	settings, err := s.LoadSettings(ctx)
	if err != nil {
		return nil, err
	}
	if _, err := s.repo.EnsureUser(ctx, userID, nil, nil); err != nil {
		return nil, err
	}

	joined, missing := s.HasJoinedAll(ctx, settings.Channels, userID)
	if !joined {
		return &JoinCheckResult{MissingChannel: missing}, nil
	}

	result := &JoinCheckResult{Joined: true, ReferralBonus: settings.ReferralBonus}

	err = s.repo.InTransaction(ctx, func(tx *gorm.DB) error {
		var txErr error
		if result.FirstPass, txErr = s.repo.MarkJoinCheckPassed(ctx, userID, tx); txErr != nil {
			return txErr
		}
		if result.ReferrerID, txErr = s.repo.ClaimReferralCredit(ctx, userID, tx); txErr != nil {
			return txErr
		}
		if result.ReferrerID == nil {
			return nil
		}

		referrer := *result.ReferrerID
		if _, txErr = s.repo.EnsureUser(ctx, referrer, nil, tx); txErr != nil {
			return txErr
		}
		if txErr = s.repo.AddBalance(ctx, referrer, settings.ReferralBonus, tx); txErr != nil {
			return fmt.Errorf("failed to pay referral credit to %d: %w", referrer, txErr)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("join check for %d: %w", userID, err)
	}

	if result.ReferrerID != nil {
		s.logger.Infof("Referral credit %s paid to %d for user %d", settings.ReferralBonus, *result.ReferrerID, userID)
	}
	return result, nil
}
