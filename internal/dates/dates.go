// Package dates centralizes the DD-MM-YYYY wire format used by every fecha
// field in the API, pinned to a single business time zone.
package dates

import (
	"fmt"
	"time"
)

// Formato is the wire layout for all dates exchanged with clients.
const Formato = "02-01-2006"

// Locales holds the resolved business time zone and is the single clock
// authority for the services.
type Locales struct {
	loc *time.Location
}

// NewLocales resolves the configured zone name (e.g. "Europe/Madrid").
func NewLocales(zona string) (*Locales, error) {
	loc, err := time.LoadLocation(zona)
	if err != nil {
		return nil, fmt.Errorf("zona horaria %q: %w", zona, err)
	}
	return &Locales{loc: loc}, nil
}

// Parse converts a DD-MM-YYYY string into a date at midnight local time.
func (l *Locales) Parse(valor string) (time.Time, error) {
	t, err := time.ParseInLocation(Formato, valor, l.loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("la fecha %q debe estar en el formato DD-MM-YYYY", valor)
	}
	return t, nil
}

// Format renders a timestamp as DD-MM-YYYY in the business zone.
func (l *Locales) Format(t time.Time) string {
	return t.In(l.loc).Format(Formato)
}

// InicioDelDia truncates a timestamp to 00:00:00 in the business zone.
// Venta dates are normalized this way so date-range filters compare cleanly.
func (l *Locales) InicioDelDia(t time.Time) time.Time {
	t = t.In(l.loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, l.loc)
}

// Ahora returns the current instant in the business zone.
func (l *Locales) Ahora() time.Time { return time.Now().In(l.loc) }
