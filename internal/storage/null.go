package storage

import (
	"database/sql"
	"time"
)

// DateLayout is the wire and display form of the enrollment date.
const DateLayout = "2006-01-02"

// FormatDate renders a nullable DATE column as YYYY-MM-DD, or "" when the
// column is NULL. Both backends scan into sql.NullTime and share this.
func FormatDate(t sql.NullTime) string {
	if !t.Valid {
		return ""
	}
	return t.Time.Format(DateLayout)
}

// ParseDate is the inverse of FormatDate, for backends whose driver wants
// a time.Time rather than the raw string.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}
