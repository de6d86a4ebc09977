package duel

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/mauv0809/duel-lords/internal/domain"
	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
)

func validateClock(hour, minute int) error {
	if hour < 0 || hour > 23 {
		return fmt.Errorf("%w: hour %d must be between 0 and 23", domain.ErrInvalidTime, hour)
	}
	if minute < 0 || minute > 59 {
		return fmt.Errorf("%w: minute %d must be between 0 and 59", domain.ErrInvalidTime, minute)
	}
	return nil
}

// ResolveTimeOfDay returns today at hour:minute in now's location, or the
// same time tomorrow if that moment is not after now.
func ResolveTimeOfDay(now time.Time, hour, minute int) (time.Time, error) {
	if err := validateClock(hour, minute); err != nil {
		return time.Time{}, err
	}
	t := time.Date(now.Year(), now.Month(), now.Day(), hour, minute, 0, 0, now.Location())
	if !t.After(now) {
		t = t.AddDate(0, 0, 1)
	}
	return t, nil
}

// ResolveDayOfMonth returns the given day of the current month at
// hour:minute. If that date does not exist or is not after now, the same day
// of the next month is used (December rolls into January of the next year).
// It fails only when the day does not exist in the next month either.
func ResolveDayOfMonth(now time.Time, day, hour, minute int) (time.Time, error) {
	if err := validateClock(hour, minute); err != nil {
		return time.Time{}, err
	}
	if day < 1 || day > 31 {
		return time.Time{}, fmt.Errorf("%w: day %d must be between 1 and 31", domain.ErrInvalidTime, day)
	}

	year, month := now.Year(), now.Month()
	if t, ok := dateIn(year, month, day, hour, minute, now.Location()); ok && t.After(now) {
		return t, nil
	}

	month++
	if month > time.December {
		month = time.January
		year++
	}
	if t, ok := dateIn(year, month, day, hour, minute, now.Location()); ok {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("%w: %s %d has no day %d", domain.ErrInvalidTime, month, year, day)
}

// dateIn builds the date and reports false when day overflows the month.
func dateIn(year int, month time.Month, day, hour, minute int, loc *time.Location) (time.Time, bool) {
	t := time.Date(year, month, day, hour, minute, 0, 0, loc)
	return t, t.Month() == month
}

var compactClock = regexp.MustCompile(`(\d{1,2})(\d{2})\s?(am|pm)`)

// ResolveText parses free text such as "tomorrow at 9pm" or "in 2 hours".
// A parsed moment that is not after now is moved forward one day.
func ResolveText(now time.Time, text string) (time.Time, error) {
	input := strings.ToLower(strings.TrimSpace(text))
	input = compactClock.ReplaceAllString(input, "$1:$2 $3")

	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)

	r, err := w.Parse(input, now)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: could not parse %q: %v", domain.ErrInvalidTime, text, err)
	}
	if r == nil {
		return time.Time{}, fmt.Errorf("%w: could not recognize a time in %q", domain.ErrInvalidTime, text)
	}

	t := r.Time.In(now.Location()).Truncate(time.Second)
	if !t.After(now) {
		t = t.AddDate(0, 0, 1)
	}
	if !t.After(now) {
		return time.Time{}, fmt.Errorf("%w: %q is in the past", domain.ErrInvalidTime, text)
	}
	return t, nil
}
