package dto

import (
	"strings"
	"time"
)

// The legacy date formats the API round-trips for compatibility with data
// produced by the original desktop application. Internally everything is
// time.Time; these strings exist only at the serialization boundary.
const (
	FormatoFecha     = "02/01/2006"
	FormatoFechaHora = "02/01/2006 15:04:05"
)

// FormatFecha renders a date as dd/mm/yyyy.
func FormatFecha(t time.Time) string { return t.Format(FormatoFecha) }

// FormatFechaHora renders a timestamp as dd/mm/yyyy HH:MM:SS.
func FormatFechaHora(t time.Time) string { return t.Format(FormatoFechaHora) }

// ParseFecha accepts dd/mm/yyyy with an optional HH:MM:SS suffix.
func ParseFecha(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if strings.Contains(s, " ") {
		return time.Parse(FormatoFechaHora, s)
	}
	return time.Parse(FormatoFecha, s)
}
