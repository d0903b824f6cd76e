package models

import "time"

// EventKind категория события календаря.
type EventKind string

const (
	// EventMeeting встреча или техническая консультация.
	EventMeeting EventKind = "reunion"
	// EventInstallation монтаж.
	EventInstallation EventKind = "instalacion"
	// EventMaintenance обслуживание.
	EventMaintenance EventKind = "mantenimiento"
	// EventOther прочее.
	EventOther EventKind = "otro"
)

// Event запись календаря. End, если задан, не раньше Start.
type Event struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Start       time.Time  `json:"start"`
	End         *time.Time `json:"end,omitempty"`
	CustomerID  *int64     `json:"cliente_id,omitempty"`
	Description string     `json:"descripcion"`
	Kind        EventKind  `json:"tipo"`
}

// DummyEvent принимает событие из JSON-запроса. Даты приходят строками
// (RFC 3339 или 2006-01-02T15:04 из формы календаря) и разбираются в сервисе.
type DummyEvent struct {
	Title       string `json:"title" validate:"required,max=200"`
	Start       string `json:"start" validate:"required"`
	End         string `json:"end"`
	CustomerID  *int64 `json:"cliente_id" validate:"omitempty,gt=0"`
	Description string `json:"descripcion"`
	Kind        string `json:"tipo" validate:"omitempty,oneof=reunion instalacion mantenimiento otro"`
}

// EventFilter полуинтервал [From, To) по времени начала. Нулевые границы не ограничивают выборку.
type EventFilter struct {
	From time.Time
	To   time.Time
}
