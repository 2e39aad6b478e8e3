package temporal

import (
	"fmt"
	"strings"
	"time"
)

// TimestampLayout is the only accepted literal timestamp format,
// equivalent to "yyyy-MM-dd HH:mm:ss".
const TimestampLayout = "2006-01-02 15:04:05"

// Dimension selects which interval of an element a predicate or
// aggregate reasons about.
type Dimension int

const (
	ValidTime Dimension = iota
	TransactionTime
)

func (d Dimension) String() string {
	if d == TransactionTime {
		return "TRANSACTION_TIME"
	}
	return "VALID_TIME"
}

// ParseDimensionTag maps the short wire tags used by snapshot and
// difference requests. Unknown tags deliberately fall back to valid time;
// this mirrors the permissive behavior clients already depend on.
func ParseDimensionTag(tag string) Dimension {
	if tag == "tx" {
		return TransactionTime
	}
	return ValidTime
}

// ParseDimensionName maps the strict enum names used by grouping
// requests. Unknown names are an error so that a bad request fails
// before any data is loaded.
func ParseDimensionName(name string) (Dimension, error) {
	switch name {
	case "VALID_TIME":
		return ValidTime, nil
	case "TRANSACTION_TIME":
		return TransactionTime, nil
	default:
		return ValidTime, fmt.Errorf("unknown time dimension %q", name)
	}
}

// PeriodBound selects the begin or end endpoint of an interval.
type PeriodBound int

const (
	BoundFrom PeriodBound = iota
	BoundTo
)

func (b PeriodBound) String() string {
	if b == BoundTo {
		return "TO"
	}
	return "FROM"
}

// ParsePeriodBound maps the enum names FROM and TO.
func ParsePeriodBound(name string) (PeriodBound, error) {
	switch name {
	case "FROM":
		return BoundFrom, nil
	case "TO":
		return BoundTo, nil
	default:
		return BoundFrom, fmt.Errorf("unknown period bound %q", name)
	}
}

// ParseTimestamp parses a literal timestamp into epoch milliseconds.
// Timestamps are interpreted as UTC.
func ParseTimestamp(s string) (int64, error) {
	t, err := time.Parse(TimestampLayout, s)
	if err != nil {
		return 0, fmt.Errorf("malformed timestamp %q (want %s): %w", s, "yyyy-MM-dd HH:mm:ss", err)
	}
	return t.UnixMilli(), nil
}

// CalendarField names a calendar component of an instant.
type CalendarField int

const (
	FieldYear CalendarField = iota
	FieldMonth
	FieldWeekOfYear
	FieldWeekOfMonth
	FieldDayOfMonth
	FieldDayOfYear
	FieldHour
	FieldMinute
	FieldSecond
)

// ParseCalendarField maps the wire tags for timestamp grouping keys.
func ParseCalendarField(name string) (CalendarField, error) {
	switch name {
	case "year":
		return FieldYear, nil
	case "month":
		return FieldMonth, nil
	case "weekOfYear":
		return FieldWeekOfYear, nil
	case "weekOfMonth":
		return FieldWeekOfMonth, nil
	case "dayOfMonth":
		return FieldDayOfMonth, nil
	case "dayOfYear":
		return FieldDayOfYear, nil
	case "hour":
		return FieldHour, nil
	case "minute":
		return FieldMinute, nil
	case "second":
		return FieldSecond, nil
	default:
		return FieldYear, fmt.Errorf("unknown time field %q", name)
	}
}

// Extract returns the calendar component of an instant, evaluated in UTC.
func (f CalendarField) Extract(millis int64) int64 {
	t := time.UnixMilli(millis).UTC()
	switch f {
	case FieldYear:
		return int64(t.Year())
	case FieldMonth:
		return int64(t.Month())
	case FieldWeekOfYear:
		_, week := t.ISOWeek()
		return int64(week)
	case FieldWeekOfMonth:
		return int64((t.Day()-1)/7 + 1)
	case FieldDayOfMonth:
		return int64(t.Day())
	case FieldDayOfYear:
		return int64(t.YearDay())
	case FieldHour:
		return int64(t.Hour())
	case FieldMinute:
		return int64(t.Minute())
	case FieldSecond:
		return int64(t.Second())
	default:
		return 0
	}
}

// DurationUnit is a calendar unit used to express interval lengths.
// Month and year use the same estimated durations as java.time, so unit
// truncation stays comparable with data produced by the legacy service.
type DurationUnit int64

const (
	UnitMillis  DurationUnit = 1
	UnitSeconds DurationUnit = 1000
	UnitMinutes DurationUnit = 60 * 1000
	UnitHours   DurationUnit = 60 * 60 * 1000
	UnitDays    DurationUnit = 24 * 60 * 60 * 1000
	UnitWeeks   DurationUnit = 7 * 24 * 60 * 60 * 1000
	UnitMonths  DurationUnit = 2629746000
	UnitYears   DurationUnit = 31556952000
)

// ParseDurationUnit maps unit names (case-insensitive).
func ParseDurationUnit(name string) (DurationUnit, error) {
	switch strings.ToUpper(name) {
	case "MILLIS":
		return UnitMillis, nil
	case "SECONDS":
		return UnitSeconds, nil
	case "MINUTES":
		return UnitMinutes, nil
	case "HOURS":
		return UnitHours, nil
	case "DAYS":
		return UnitDays, nil
	case "WEEKS":
		return UnitWeeks, nil
	case "MONTHS":
		return UnitMonths, nil
	case "YEARS":
		return UnitYears, nil
	default:
		return UnitMillis, fmt.Errorf("unknown duration unit %q", name)
	}
}

// Convert expresses a millisecond duration in this unit, truncating.
func (u DurationUnit) Convert(millis int64) int64 {
	return millis / int64(u)
}
