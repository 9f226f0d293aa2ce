// Package httpapi serves the operational endpoints next to the bot.
package httpapi

import (
	"context"
	"errors"
	"net/http"

	"github.com/Fi44er/reward_bot/internal/models"
	"github.com/Fi44er/reward_bot/internal/service"
	"github.com/Fi44er/reward_bot/utils"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

type StatsSource interface {
	GetStats(ctx context.Context) (*models.Stats, error)
	LoadSettings(ctx context.Context) (service.Settings, error)
}

type Server struct {
	echo   *echo.Echo
	addr   string
	logger *utils.Logger
}

type statsResponse struct {
	Users              int64  `json:"users"`
	BannedUsers        int64  `json:"banned_users"`
	PendingWithdrawals int64  `json:"pending_withdrawals"`
	WithdrawOpen       bool   `json:"withdraw_open"`
	Currency           string `json:"currency"`
}

func NewServer(addr string, source StatsSource, logger *utils.Logger) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	e.GET("/stats", func(c echo.Context) error {
		ctx := c.Request().Context()

		stats, err := source.GetStats(ctx)
		if err != nil {
			logger.Errorf("Failed to collect stats: %v", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "failed to collect stats")
		}
		settings, err := source.LoadSettings(ctx)
		if err != nil {
			logger.Errorf("Failed to load settings: %v", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "failed to load settings")
		}

		return c.JSON(http.StatusOK, statsResponse{
			Users:              stats.Users,
			BannedUsers:        stats.BannedUsers,
			PendingWithdrawals: stats.PendingWithdrawals,
			WithdrawOpen:       settings.WithdrawOpen,
			Currency:           settings.Currency,
		})
	})

	return &Server{echo: e, addr: addr, logger: logger}
}

func (s *Server) Handler() http.Handler {
	return s.echo
}

// Start blocks until the server stops. A clean shutdown returns nil.
func (s *Server) Start() error {
	s.logger.Infof("Starting HTTP server on %s", s.addr)
	if err := s.echo.Start(s.addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}
