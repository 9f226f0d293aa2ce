package service

import (
	"context"
	"time"

	"github.com/Fi44er/reward_bot/config"
	"github.com/Fi44er/reward_bot/internal/models"
	"github.com/Fi44er/reward_bot/utils"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Service struct {
	repo    Repository
	checker MembershipChecker
	sender  Sender
	logger  *utils.Logger
	config  *config.Config
	now     func() time.Time
}

type Repository interface {
	GetUser(ctx context.Context, telegramID int64) (*models.User, error)
	EnsureUser(ctx context.Context, telegramID int64, refBy *int64, tx *gorm.DB) (bool, error)
	AddBalance(ctx context.Context, telegramID int64, delta decimal.Decimal, tx *gorm.DB) error
	SetBanned(ctx context.Context, telegramID int64, banned bool) error
	ClaimDailyBonus(ctx context.Context, telegramID int64, amount decimal.Decimal, now time.Time, cooldown time.Duration) (bool, error)
	MarkJoinCheckPassed(ctx context.Context, telegramID int64, tx *gorm.DB) (bool, error)
	ClaimReferralCredit(ctx context.Context, telegramID int64, tx *gorm.DB) (*int64, error)
	ListUserIDs(ctx context.Context) ([]int64, error)
	GetStats(ctx context.Context) (*models.Stats, error)

	GetSetting(ctx context.Context, key string) (string, bool, error)
	SetSetting(ctx context.Context, key, value string) error
	CompareAndSetSetting(ctx context.Context, key, expected, value string) (bool, error)
	GetAllSettings(ctx context.Context) (map[string]string, error)
	SeedSettings(ctx context.Context, defaults map[string]string) error

	CreateWithdrawRequest(ctx context.Context, request *models.WithdrawRequest) error
	GetWithdrawRequestsByUser(ctx context.Context, userID int64) ([]*models.WithdrawRequest, error)

	InTransaction(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// MembershipChecker reports a user's status in a channel as Telegram names it
// (creator, administrator, member, restricted, left, kicked).
type MembershipChecker interface {
	ChatMemberStatus(ctx context.Context, channel string, userID int64) (string, error)
}

type Sender interface {
	SendText(ctx context.Context, chatID int64, text string) error
}

func NewService(repo Repository, checker MembershipChecker, sender Sender, cfg *config.Config, logger *utils.Logger) *Service {
	return &Service{
		repo:    repo,
		checker: checker,
		sender:  sender,
		logger:  logger,
		config:  cfg,
		now:     time.Now,
	}
}

// Init writes default settings for keys that are still absent.
func (s *Service) Init(ctx context.Context) error {
	return s.repo.SeedSettings(ctx, DefaultSettings)
}

func (s *Service) GetStats(ctx context.Context) (*models.Stats, error) {
	return s.repo.GetStats(ctx)
}
