package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	ErrAdminAlreadySet = errors.New("admin already set")
	ErrClaimDisabled   = errors.New("admin claim is disabled")
	ErrMissingPIN      = errors.New("pin is required")
	ErrWrongPIN        = errors.New("wrong pin")

	ErrBadNumber = errors.New("not a number")
)

// ClaimAdmin makes userID the admin when no admin exists yet and pin matches
// the configured one. The first successful claim is permanent.
func (s *Service) ClaimAdmin(ctx context.Context, userID int64, pin string) error {
	settings, err := s.LoadSettings(ctx)
	if err != nil {
		return err
	}
	if settings.AdminID != 0 {
		return ErrAdminAlreadySet
	}

	pin = strings.TrimSpace(pin)
	if pin == "" {
		return ErrMissingPIN
	}
	if s.config.AdminClaimPIN == "" {
		return ErrClaimDisabled
	}
	if subtle.ConstantTimeCompare([]byte(pin), []byte(s.config.AdminClaimPIN)) != 1 {
		s.logger.Warnf("User %d tried to claim admin with a wrong pin", userID)
		return ErrWrongPIN
	}

	claimed, err := s.repo.CompareAndSetSetting(ctx, KeyAdminID, "", strconv.FormatInt(userID, 10))
	if err != nil {
		return err
	}
	if !claimed {
		return ErrAdminAlreadySet
	}

	s.logger.Infof("User %d claimed the admin panel", userID)
	return nil
}

func (s *Service) IsAdmin(ctx context.Context, userID int64) (bool, error) {
	settings, err := s.LoadSettings(ctx)
	if err != nil {
		return false, err
	}
	return settings.IsAdmin(userID), nil
}

// ParseBalanceInput reads "user_id amount".
func ParseBalanceInput(text string) (int64, decimal.Decimal, error) {
	parts := strings.Fields(text)
	if len(parts) != 2 {
		return 0, decimal.Zero, ErrBadFormat
	}

	userID, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return 0, decimal.Zero, ErrBadNumber
	}
	amount, err := decimal.NewFromString(parts[1])
	if err != nil {
		return 0, decimal.Zero, ErrBadNumber
	}
	return userID, amount, nil
}

func ParseUserID(text string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(text), 10, 64)
	if err != nil {
		return 0, ErrBadNumber
	}
	return id, nil
}

func ParseAmount(text string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(strings.TrimSpace(text))
	if err != nil {
		return decimal.Zero, ErrBadNumber
	}
	return amount, nil
}

// ParseChannels keeps the whitespace-separated tokens that start with
// ChannelPrefix and drops everything else.
func ParseChannels(text string) []string {
	channels := []string{}
	for _, token := range strings.Fields(text) {
		if strings.HasPrefix(token, ChannelPrefix) {
			channels = append(channels, token)
		}
	}
	return channels
}

// AdjustBalance adds (or, with remove, subtracts) amount from the target's
// balance, creating the target when unknown.
func (s *Service) AdjustBalance(ctx context.Context, userID int64, amount decimal.Decimal, remove bool) (decimal.Decimal, error) {
	if remove {
		amount = amount.Neg()
	}
	return s.Credit(ctx, userID, amount)
}
