// Package calendar содержит разбор дат из формы календаря и границы календарного дня
// в часовом поясе компании.
package calendar

import (
	"fmt"
	"time"
)

// DayLayout формат календарной даты в параметрах запроса.
const DayLayout = "2006-01-02"

// layouts перечисляет принимаемые форматы отметок времени. Второй формат присылает
// поле datetime-local формы календаря, без часового пояса.
var layouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

// ParseTimestamp разбирает отметку времени. Значения без смещения трактуются в loc.
func ParseTimestamp(value string, loc *time.Location) (time.Time, error) {
	const op = "calendar.ParseTimestamp"
	for _, layout := range layouts {
		if t, err := time.ParseInLocation(layout, value, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%s: unsupported timestamp %q", op, value)
}

// ParseDay разбирает дату YYYY-MM-DD и возвращает полночь этого дня в loc.
func ParseDay(value string, loc *time.Location) (time.Time, error) {
	const op = "calendar.ParseDay"
	t, err := time.ParseInLocation(DayLayout, value, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%s: %w", op, err)
	}
	return t, nil
}

// DayBounds возвращает полуинтервал [start, end) календарного дня, которому принадлежит t в loc.
func DayBounds(t time.Time, loc *time.Location) (time.Time, time.Time) {
	t = t.In(loc)
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
	return start, start.AddDate(0, 0, 1)
}
