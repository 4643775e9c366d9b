// Package dates maneja fechas de calendario (sin hora): nacimiento, registro
// de peso, fecha de vacuna. Internamente son time.Time a medianoche UTC.
package dates

import (
	"errors"
	"strings"
	"time"
)

const Layout = "2006-01-02"

var ErrFormat = errors.New("Date has wrong format. Use one of these formats instead: YYYY-MM-DD.")

// Of devuelve la fecha civil de t (en su propia zona) como medianoche UTC.
func Of(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func Parse(s string) (time.Time, error) {
	t, err := time.Parse(Layout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, ErrFormat
	}
	return t, nil
}

func Format(t time.Time) string {
	return t.Format(Layout)
}

func FormatPtr(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := Format(*t)
	return &s
}

// YearsBetween cuenta años completos de from a to: diferencia de años menos
// uno si (mes, día) de to todavía no alcanzó a los de from.
func YearsBetween(from, to time.Time) int {
	years := to.Year() - from.Year()
	if to.Month() < from.Month() || (to.Month() == from.Month() && to.Day() < from.Day()) {
		years--
	}
	return years
}
