package scheduler

import (
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"
	"time"

	"github.com/clambin/absensi/internal/clock"
	"github.com/clambin/go-common/set"
)

// TimeOfDay is a wall-clock time with minute resolution.
type TimeOfDay struct {
	Hour   int
	Minute int
}

// ParseTimeOfDay parses "HH:MM" or "H:MM".
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	hh, mm, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return TimeOfDay{}, fmt.Errorf("invalid time format: %q", s)
	}
	hour, err := strconv.Atoi(hh)
	if err != nil {
		return TimeOfDay{}, fmt.Errorf("invalid hour in %q: %w", s, err)
	}
	minute, err := strconv.Atoi(mm)
	if err != nil {
		return TimeOfDay{}, fmt.Errorf("invalid minute in %q: %w", s, err)
	}
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return TimeOfDay{}, fmt.Errorf("invalid time: %q", s)
	}
	return TimeOfDay{Hour: hour, Minute: minute}, nil
}

// On returns the instant at t on day's calendar date.
func (t TimeOfDay) On(day time.Time) time.Time {
	return clock.At(day, t.Hour, t.Minute)
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

func (t TimeOfDay) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

func (t TimeOfDay) minutes() int {
	return t.Hour*60 + t.Minute
}

// A Window is the time-of-day interval in which a submission is scheduled. Start must not be after End.
type Window struct {
	Start TimeOfDay
	End   TimeOfDay
}

// ParseWindow parses "HH:MM-HH:MM".
func ParseWindow(s string) (Window, error) {
	from, to, ok := strings.Cut(s, "-")
	if !ok {
		return Window{}, fmt.Errorf("invalid window %q: expected HH:MM-HH:MM", s)
	}
	var w Window
	var err error
	if w.Start, err = ParseTimeOfDay(from); err != nil {
		return Window{}, err
	}
	if w.End, err = ParseTimeOfDay(to); err != nil {
		return Window{}, err
	}
	if w.Start.minutes() > w.End.minutes() {
		return Window{}, fmt.Errorf("invalid window %q: start is after end", s)
	}
	return w, nil
}

// Draw returns a uniformly random instant, at second resolution, between Start and End (inclusive) on day's date.
func (w Window) Draw(day time.Time, r *rand.Rand) time.Time {
	start := w.Start.On(day)
	seconds := int(w.End.On(day).Sub(start) / time.Second)
	if seconds <= 0 {
		return start
	}
	return start.Add(time.Duration(r.IntN(seconds+1)) * time.Second)
}

func (w Window) String() string {
	return w.Start.String() + "-" + w.End.String()
}

func (w Window) MarshalText() ([]byte, error) {
	return []byte(w.String()), nil
}

var weekdays = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// WorkingDays is Monday to Saturday.
var WorkingDays = []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday"}

// ParseWeekdays converts weekday names (case-insensitive, English) to a set.
func ParseWeekdays(names []string) (set.Set[time.Weekday], error) {
	days := make([]time.Weekday, 0, len(names))
	for _, name := range names {
		day, ok := weekdays[strings.ToLower(strings.TrimSpace(name))]
		if !ok {
			return nil, fmt.Errorf("invalid weekday: %q", name)
		}
		days = append(days, day)
	}
	if len(days) == 0 {
		return nil, fmt.Errorf("no weekdays configured")
	}
	return set.New(days...), nil
}
