package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/Fi44er/reward_bot/utils"
	"github.com/shopspring/decimal"
)

const (
	KeyCurrency      = "currency"
	KeyMinWithdraw   = "min_withdraw"
	KeyMaxWithdraw   = "max_withdraw"
	KeyWithdrawOpen  = "withdraw_open"
	KeyDailyBonus    = "daily_bonus_amount"
	KeyReferralBonus = "referral_bonus_amount"
	KeyChannels      = "channels"
	KeyAdminID       = "admin_id"
)

var DefaultSettings = map[string]string{
	KeyCurrency:      "NGN",
	KeyMinWithdraw:   "1000",
	KeyMaxWithdraw:   "500000",
	KeyWithdrawOpen:  "1",
	KeyDailyBonus:    "50",
	KeyReferralBonus: "100",
	KeyChannels:      "[]",
	KeyAdminID:       "",
}

// ChannelPrefix marks a public channel username.
const ChannelPrefix = "@"

// Settings is the typed view over the settings table.
type Settings struct {
	Currency      string
	MinWithdraw   decimal.Decimal
	MaxWithdraw   decimal.Decimal
	WithdrawOpen  bool
	DailyBonus    decimal.Decimal
	ReferralBonus decimal.Decimal
	Channels      []string
	// AdminID is 0 until someone claims the panel.
	AdminID int64
}

func (s Settings) FormatAmount(amount decimal.Decimal) string {
	return utils.FormatAmount(s.Currency, amount)
}

func (s Settings) WithdrawState() string {
	return OnOff(s.WithdrawOpen)
}

func (s Settings) IsAdmin(userID int64) bool {
	return s.AdminID != 0 && s.AdminID == userID
}

// ParseSettings builds Settings from raw values. Missing or malformed values
// fall back to the defaults.
func ParseSettings(values map[string]string) Settings {
	get := func(key string) string {
		if v, ok := values[key]; ok {
			return v
		}
		return DefaultSettings[key]
	}

	settings := Settings{
		Currency:      strings.TrimSpace(get(KeyCurrency)),
		MinWithdraw:   parseAmountSetting(get(KeyMinWithdraw), DefaultSettings[KeyMinWithdraw]),
		MaxWithdraw:   parseAmountSetting(get(KeyMaxWithdraw), DefaultSettings[KeyMaxWithdraw]),
		WithdrawOpen:  get(KeyWithdrawOpen) == "1",
		DailyBonus:    parseAmountSetting(get(KeyDailyBonus), DefaultSettings[KeyDailyBonus]),
		ReferralBonus: parseAmountSetting(get(KeyReferralBonus), DefaultSettings[KeyReferralBonus]),
		Channels:      decodeChannels(get(KeyChannels)),
	}
	if settings.Currency == "" {
		settings.Currency = DefaultSettings[KeyCurrency]
	}
	if id, err := strconv.ParseInt(strings.TrimSpace(get(KeyAdminID)), 10, 64); err == nil {
		settings.AdminID = id
	}
	return settings
}

func parseAmountSetting(raw, fallback string) decimal.Decimal {
	if d, err := decimal.NewFromString(strings.TrimSpace(raw)); err == nil {
		return d
	}
	return decimal.RequireFromString(fallback)
}

func decodeChannels(raw string) []string {
	var list []string
	if err := json.Unmarshal([]byte(raw), &list); err != nil {
		return []string{}
	}

	channels := make([]string, 0, len(list))
	for _, c := range list {
		if c = strings.TrimSpace(c); c != "" {
			channels = append(channels, c)
		}
	}
	return channels
}

func encodeChannels(channels []string) string {
	if channels == nil {
		channels = []string{}
	}
	raw, _ := json.Marshal(channels)
	return string(raw)
}

func (s *Service) LoadSettings(ctx context.Context) (Settings, error) {
	values, err := s.repo.GetAllSettings(ctx)
	if err != nil {
		return Settings{}, err
	}
	return ParseSettings(values), nil
}

func (s *Service) SetCurrency(ctx context.Context, currency string) error {
	return s.repo.SetSetting(ctx, KeyCurrency, currency)
}

func (s *Service) SetMinWithdraw(ctx context.Context, amount decimal.Decimal) error {
	return s.repo.SetSetting(ctx, KeyMinWithdraw, amount.String())
}

func (s *Service) SetMaxWithdraw(ctx context.Context, amount decimal.Decimal) error {
	return s.repo.SetSetting(ctx, KeyMaxWithdraw, amount.String())
}

func (s *Service) SetChannels(ctx context.Context, channels []string) error {
	return s.repo.SetSetting(ctx, KeyChannels, encodeChannels(channels))
}

// ToggleWithdraw flips withdraw_open and returns the new state.
func (s *Service) ToggleWithdraw(ctx context.Context) (bool, error) {
	current, ok, err := s.repo.GetSetting(ctx, KeyWithdrawOpen)
	if err != nil {
		return false, err
	}
	if !ok {
		current = DefaultSettings[KeyWithdrawOpen]
	}

	open := current != "1"
	value := "0"
	if open {
		value = "1"
	}
	if err := s.repo.SetSetting(ctx, KeyWithdrawOpen, value); err != nil {
		return false, fmt.Errorf("failed to toggle withdrawals: %w", err)
	}
	s.logger.Infof("Withdrawals switched %s", OnOff(open))
	return open, nil
}

// OnOff is the label shown for the withdraw switch.
func OnOff(b bool) string {
	if b {
		return "ON"
	}
	return "OFF"
}
