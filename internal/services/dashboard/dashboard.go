// Package dashboard собирает сводку для главной страницы.
package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/allwaysenergy/backoffice/internal/lib/calendar"
	"github.com/allwaysenergy/backoffice/internal/models"
)

// Repository возвращает счётчики сводки.
type Repository interface {
	DashboardStats(ctx context.Context, dayStart, dayEnd time.Time) (*models.DashboardStats, error)
}

// Service считает сводку относительно текущего дня в часовом поясе компании.
type Service struct {
	repo Repository
	loc  *time.Location
	now  func() time.Time
}

// New создает новый экземпляр Service.
func New(repo Repository, loc *time.Location) *Service {
	return &Service{repo: repo, loc: loc, now: time.Now}
}

// WithClock подменяет источник текущего времени.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// Stats возвращает сводку: клиенты, ожидающие предложения и счета, события сегодня и выручку.
func (s *Service) Stats(ctx context.Context) (*models.DashboardStats, error) {
	const op = "dashboard.Stats"
	start, end := calendar.DayBounds(s.now(), s.loc)
	st, err := s.repo.DashboardStats(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return st, nil
}
