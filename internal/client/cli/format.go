package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/gymdesk/internal/client/api"
)

// parseTime accepts the timestamp shapes the backend sends.
func parseTime(s string) (time.Time, bool) {
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05.999999", time.DateOnly} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// day formats a timestamp as a date, or returns it unchanged.
func day(s string) string {
	if t, ok := parseTime(s); ok {
		return t.Local().Format("02 Jan 2006")
	}
	return s
}

// clock formats a timestamp as a time of day, or returns it unchanged.
func clock(s string) string {
	if t, ok := parseTime(s); ok {
		return t.Local().Format("03:04 PM")
	}
	return s
}

func money(v float64) string {
	return "₹" + strconv.FormatFloat(v, 'f', -1, 64)
}

func optFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func optInt(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

// parseOptFloat parses an optional numeric answer. Blank yields nil.
func parseOptFloat(label, s string) (*float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, api.Invalid(fmt.Sprintf("%s must be a number", label))
	}
	return &v, nil
}

func parseOptInt(label, s string) (*int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return nil, api.Invalid(fmt.Sprintf("%s must be a whole number", label))
	}
	return &v, nil
}

func upper(s, def string) string {
	if s == "" {
		return def
	}
	return strings.ToUpper(s)
}
