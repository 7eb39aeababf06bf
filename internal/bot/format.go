package bot

import (
	"fmt"
	"strings"
	"time"
)

// displayDateLayout is the pt-BR display form for dates.
const displayDateLayout = "02/01/2006"

// datePlaceholder renders absent values.
const datePlaceholder = "—"

// dueDateMaxYears bounds how far ahead a due date may be.
const dueDateMaxYears = 2

// timestampLayouts are tried in order for server-sent timestamps.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
}

// FormatDate renders a server-sent date value for display. Date-only
// strings are interpreted in local time so the displayed day matches the
// stored one. Unparseable strings come back verbatim; absent values
// render as a placeholder dash.
func FormatDate(value any) string {
	switch v := value.(type) {
	case nil:
		return datePlaceholder
	case time.Time:
		if v.IsZero() {
			return datePlaceholder
		}
		return v.Format(displayDateLayout)
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return datePlaceholder
		}
		if t, err := time.ParseInLocation("2006-01-02", s, time.Local); err == nil {
			return t.Format(displayDateLayout)
		}
		for _, layout := range timestampLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t.Format(displayDateLayout)
			}
		}
		return s
	default:
		return fmt.Sprintf("%v", v)
	}
}

// ValidateDueDate checks a YYYY-MM-DD due date against the allowed
// window [today, today+2 years] and returns it normalized. The same
// check runs at submit time regardless of how the date was entered.
func ValidateDueDate(input string, now time.Time) (string, error) {
	date, err := time.ParseInLocation("2006-01-02", input, time.Local)
	if err != nil {
		return "", fmt.Errorf("data inválida: use o formato YYYY-MM-DD")
	}

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.Local)
	max := today.AddDate(dueDateMaxYears, 0, 0)

	if date.Before(today) {
		return "", fmt.Errorf("a data prevista não pode ser anterior a hoje")
	}
	if date.After(max) {
		return "", fmt.Errorf("a data prevista não pode passar de %d anos", dueDateMaxYears)
	}
	return date.Format("2006-01-02"), nil
}
