package domain

import "time"

// dateLayout renders "2 Jan 2006": numeric day, short month, full year
const dateLayout = "2 Jan 2006"

// FormatDate renders a timestamp for display. Zero time renders empty.
func FormatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(dateLayout)
}
