// Package event содержит бизнес-логику календаря: события и выборку по дням.
package event

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/allwaysenergy/backoffice/internal/lib/calendar"
	"github.com/allwaysenergy/backoffice/internal/lib/sl"
	"github.com/allwaysenergy/backoffice/internal/models"
)

// Repository определяет методы для работы с событиями в хранилище.
type Repository interface {
	ListEvents(ctx context.Context, filter models.EventFilter) ([]*models.Event, error)
	GetEvent(ctx context.Context, id int64) (*models.Event, error)
	CreateEvent(ctx context.Context, e models.Event) (int64, error)
	UpdateEvent(ctx context.Context, e models.Event) error
	DeleteEvent(ctx context.Context, id int64) error
}

// Query параметры выборки из строки запроса. Date (YYYY-MM-DD) выбирает события,
// начинающиеся в этот день, и имеет приоритет над From/To.
type Query struct {
	Date string
	From string
	To   string
}

// Service реализует операции календаря в часовом поясе компании.
type Service struct {
	log  *slog.Logger
	repo Repository
	loc  *time.Location
}

// New создает новый экземпляр Service.
func New(log *slog.Logger, repo Repository, loc *time.Location) *Service {
	return &Service{
		log:  log,
		repo: repo,
		loc:  loc,
	}
}

// List возвращает события по возрастанию времени начала.
func (s *Service) List(ctx context.Context, q Query) ([]*models.Event, error) {
	const op = "event.List"
	filter, err := s.filter(q)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	list, err := s.repo.ListEvents(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return list, nil
}

// Read возвращает событие по ID.
func (s *Service) Read(ctx context.Context, id int64) (*models.Event, error) {
	const op = "event.Read"
	e, err := s.repo.GetEvent(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return e, nil
}

// Create сохраняет новое событие.
func (s *Service) Create(ctx context.Context, req models.DummyEvent) (int64, error) {
	const op = "event.Create"
	e, err := s.build(req)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	id, err := s.repo.CreateEvent(ctx, e)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("event created", sl.Op(op), slog.Int64("id", id))
	return id, nil
}

// Update полностью заменяет поля события.
func (s *Service) Update(ctx context.Context, id int64, req models.DummyEvent) error {
	const op = "event.Update"
	e, err := s.build(req)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	e.ID = id

	if err = s.repo.UpdateEvent(ctx, e); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("event updated", sl.Op(op), slog.Int64("id", id))
	return nil
}

// Delete удаляет событие.
func (s *Service) Delete(ctx context.Context, id int64) error {
	const op = "event.Delete"
	if err := s.repo.DeleteEvent(ctx, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("event deleted", sl.Op(op), slog.Int64("id", id))
	return nil
}

func (s *Service) filter(q Query) (models.EventFilter, error) {
	if q.Date != "" {
		day, err := calendar.ParseDay(q.Date, s.loc)
		if err != nil {
			return models.EventFilter{}, models.Validationf("fecha must be YYYY-MM-DD")
		}
		from, to := calendar.DayBounds(day, s.loc)
		return models.EventFilter{From: from, To: to}, nil
	}

	var filter models.EventFilter
	if q.From != "" {
		from, _, err := s.bound(q.From)
		if err != nil {
			return models.EventFilter{}, models.Validationf("desde: %v", err)
		}
		filter.From = from
	}
	if q.To != "" {
		to, isDay, err := s.bound(q.To)
		if err != nil {
			return models.EventFilter{}, models.Validationf("hasta: %v", err)
		}
		// День в hasta включается целиком.
		if isDay {
			to = to.AddDate(0, 0, 1)
		}
		filter.To = to
	}
	if !filter.From.IsZero() && !filter.To.IsZero() && filter.To.Before(filter.From) {
		return models.EventFilter{}, models.Validationf("hasta must not be before desde")
	}
	return filter, nil
}

// bound принимает дату или отметку времени и сообщает, была ли это дата.
func (s *Service) bound(value string) (time.Time, bool, error) {
	if day, err := calendar.ParseDay(value, s.loc); err == nil {
		return day, true, nil
	}
	t, err := calendar.ParseTimestamp(value, s.loc)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("unsupported value %q", value)
	}
	return t, false, nil
}

func (s *Service) build(req models.DummyEvent) (models.Event, error) {
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return models.Event{}, models.Validationf("title is required")
	}
	kind := models.EventKind(req.Kind)
	switch kind {
	case models.EventMeeting, models.EventInstallation, models.EventMaintenance, models.EventOther:
	case "":
		kind = models.EventOther
	default:
		return models.Event{}, models.Validationf("unknown tipo %q", req.Kind)
	}

	start, err := calendar.ParseTimestamp(req.Start, s.loc)
	if err != nil {
		return models.Event{}, models.Validationf("start: unsupported timestamp %q", req.Start)
	}
	e := models.Event{
		Title:       title,
		Start:       start,
		CustomerID:  req.CustomerID,
		Description: req.Description,
		Kind:        kind,
	}
	if req.End != "" {
		end, err := calendar.ParseTimestamp(req.End, s.loc)
		if err != nil {
			return models.Event{}, models.Validationf("end: unsupported timestamp %q", req.End)
		}
		if end.Before(start) {
			return models.Event{}, models.Validationf("end must not be before start")
		}
		e.End = &end
	}
	return e, nil
}
