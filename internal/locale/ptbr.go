// Package locale formats values for the pt-BR dashboard.
package locale

import (
	"time"

	"github.com/goodsign/monday"
)

const dateLayout = "02 de January, 2006"

// Date renders t as "05 de março, 2026".
func Date(t time.Time) string {
	return monday.Format(t, dateLayout, monday.LocalePtBR)
}

// DateString parses an RFC3339 timestamp and renders it with Date.
// Unparseable input is returned unchanged.
func DateString(ts string) string {
	t, err := time.Parse(time.RFC3339, ts)
	if err != nil {
		return ts
	}
	return Date(t)
}
