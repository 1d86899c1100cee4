package todo

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is how due dates are typed and shown
const DateLayout = "2006-01-02"

// ParseDueDate parses a calendar day in loc; blank input clears the date
func ParseDueDate(s string, loc *time.Location) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation(DateLayout, s, loc)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q, use YYYY-MM-DD", s)
	}
	return &t, nil
}
