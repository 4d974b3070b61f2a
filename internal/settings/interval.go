package settings

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// TimeUnit is the unit of a rotation or download interval.
type TimeUnit string

const (
	Seconds TimeUnit = "seconds"
	Minutes TimeUnit = "minutes"
	Hours   TimeUnit = "hours"
)

var (
	// ErrInvalidInterval is returned for intervals whose value is not
	// positive or too large to express as a time.Duration.
	ErrInvalidInterval = errors.New("invalid interval")

	// ErrUnknownUnit is returned by LookupTimeUnit for unrecognized units.
	ErrUnknownUnit = errors.New("unknown time unit")
)

// ParseTimeUnit maps s to a TimeUnit. Unknown units fall back to Seconds,
// which is how stored preferences are read.
func ParseTimeUnit(s string) TimeUnit {
	u, err := LookupTimeUnit(s)
	if err != nil {
		return Seconds
	}
	return u
}

// LookupTimeUnit maps s to a TimeUnit. An empty string is Seconds.
func LookupTimeUnit(s string) (TimeUnit, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "s", "sec", "second", "seconds":
		return Seconds, nil
	case "m", "min", "minute", "minutes":
		return Minutes, nil
	case "h", "hour", "hours":
		return Hours, nil
	}
	return "", fmt.Errorf("%w %q (use seconds, minutes or hours)", ErrUnknownUnit, s)
}

// Duration returns the length of one unit.
func (u TimeUnit) Duration() time.Duration {
	switch u {
	case Minutes:
		return time.Minute
	case Hours:
		return time.Hour
	default:
		return time.Second
	}
}

// Interval is a positive count of a TimeUnit.
type Interval struct {
	Value int
	Unit  TimeUnit
}

// Duration converts the interval to a time.Duration.
func (i Interval) Duration() time.Duration {
	return time.Duration(i.Value) * ParseTimeUnit(string(i.Unit)).Duration()
}

// Validate reports whether the interval can drive a scheduler.
func (i Interval) Validate() error {
	if i.Value <= 0 {
		return fmt.Errorf("%w: value must be positive, got %d", ErrInvalidInterval, i.Value)
	}
	unit := ParseTimeUnit(string(i.Unit))
	if int64(i.Value) > math.MaxInt64/int64(unit.Duration()) {
		return fmt.Errorf("%w: %d %s is too long", ErrInvalidInterval, i.Value, unit)
	}
	return nil
}

func (i Interval) String() string {
	return fmt.Sprintf("%d %s", i.Value, ParseTimeUnit(string(i.Unit)))
}

// ParseInterval accepts "30s", "5m", "2h", "30" (seconds) or "30 minutes".
// Unlike stored preferences, an unknown unit is an error.
func ParseInterval(s string) (Interval, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Interval{}, fmt.Errorf("empty interval")
	}

	var digits, unit string
	if fields := strings.Fields(s); len(fields) == 2 {
		digits, unit = fields[0], fields[1]
	} else {
		end := 0
		for end < len(s) && s[end] >= '0' && s[end] <= '9' {
			end++
		}
		digits, unit = s[:end], s[end:]
	}

	value, err := strconv.Atoi(digits)
	if err != nil {
		return Interval{}, fmt.Errorf("invalid interval %q", s)
	}

	u, err := LookupTimeUnit(unit)
	if err != nil {
		return Interval{}, err
	}
	iv := Interval{Value: value, Unit: u}
	if err := iv.Validate(); err != nil {
		return Interval{}, err
	}
	return iv, nil
}
