package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type User struct {
	TelegramID      int64           `gorm:"primaryKey;autoIncrement:false" json:"telegram_id"`
	Balance         decimal.Decimal `gorm:"type:numeric(24,8);not null;default:0" json:"balance"`
	IsBanned        bool            `gorm:"not null;default:false" json:"is_banned"`
	RefBy           *int64          `gorm:"index" json:"ref_by,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	LastBonusAt     *time.Time      `json:"last_bonus_at,omitempty"`
	PassedJoinCheck bool            `gorm:"not null;default:false" json:"passed_join_check"`
	RefCreditGiven  bool            `gorm:"not null;default:false" json:"ref_credit_given"`
}

type Setting struct {
	Key   string `gorm:"primaryKey" json:"key"`
	Value string `json:"value"`
}

const WithdrawStatusPending = "pending"

type WithdrawRequest struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	UserID    int64           `gorm:"index" json:"user_id"`
	Amount    decimal.Decimal `gorm:"type:numeric(24,8);not null" json:"amount"`
	Wallet    string          `json:"wallet"`
	Status    string          `gorm:"default:pending" json:"status"`
	CreatedAt time.Time       `json:"created_at"`
}

type Stats struct {
	Users              int64 `json:"users"`
	BannedUsers        int64 `json:"banned_users"`
	PendingWithdrawals int64 `json:"pending_withdrawals"`
}
