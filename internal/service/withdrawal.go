package service

import (
	"context"
	"errors"
	"strings"

	"github.com/Fi44er/reward_bot/internal/models"
	"github.com/shopspring/decimal"
)

var (
	ErrWithdrawClosed      = errors.New("withdrawals are closed")
	ErrBadFormat           = errors.New("unexpected input format")
	ErrBadAmount           = errors.New("amount is not a number")
	ErrAmountOutOfRange    = errors.New("amount is outside the withdraw window")
	ErrInsufficientBalance = errors.New("insufficient balance")
)

// ParseWithdrawInput splits "<amount> <destination>". The destination is
// everything after the first whitespace run.
func ParseWithdrawInput(text string) (decimal.Decimal, string, error) {
	text = strings.TrimSpace(text)
	fields := strings.Fields(text)
	if len(fields) < 2 {
		return decimal.Zero, "", ErrBadFormat
	}

	amount, err := decimal.NewFromString(fields[0])
	if err != nil {
		return decimal.Zero, "", ErrBadAmount
	}

	wallet := strings.TrimSpace(strings.TrimPrefix(text, fields[0]))
	return amount, wallet, nil
}

// SubmitWithdrawal validates the request and appends a pending record. The
// balance is not deducted here; settlement happens outside the bot, so
// several pending requests may together exceed the balance.
func (s *Service) SubmitWithdrawal(ctx context.Context, userID int64, text string) (*models.WithdrawRequest, error) {
	settings, err := s.LoadSettings(ctx)
	if err != nil {
		return nil, err
	}
	if !settings.WithdrawOpen {
		return nil, ErrWithdrawClosed
	}

	amount, wallet, err := ParseWithdrawInput(text)
	if err != nil {
		return nil, err
	}
	if amount.LessThan(settings.MinWithdraw) || amount.GreaterThan(settings.MaxWithdraw) {
		return nil, ErrAmountOutOfRange
	}

	balance, err := s.Balance(ctx, userID)
	if err != nil {
		return nil, err
	}
	if amount.GreaterThan(balance) {
		return nil, ErrInsufficientBalance
	}

	request := &models.WithdrawRequest{
		UserID:    userID,
		Amount:    amount,
		Wallet:    wallet,
		Status:    models.WithdrawStatusPending,
		CreatedAt: s.now().UTC(),
	}
	if err := s.repo.CreateWithdrawRequest(ctx, request); err != nil {
		return nil, err
	}
	return request, nil
}

type WithdrawOverview struct {
	Settings     Settings
	Balance      decimal.Decimal
	PendingCount int
	PendingTotal decimal.Decimal
}

// GetWithdrawOverview collects what the withdraw prompt shows.
func (s *Service) GetWithdrawOverview(ctx context.Context, userID int64) (*WithdrawOverview, error) {
	settings, err := s.LoadSettings(ctx)
	if err != nil {
		return nil, err
	}
	balance, err := s.Balance(ctx, userID)
	if err != nil {
		return nil, err
	}
	requests, err := s.repo.GetWithdrawRequestsByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	overview := &WithdrawOverview{Settings: settings, Balance: balance, PendingTotal: decimal.Zero}
	for _, r := range requests {
		if r.Status == models.WithdrawStatusPending {
			overview.PendingCount++
			overview.PendingTotal = overview.PendingTotal.Add(r.Amount)
		}
	}
	return overview, nil
}
