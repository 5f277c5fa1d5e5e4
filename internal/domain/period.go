package domain

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// YearRange bounds selectable years to this many years either side of the
// current one.
const YearRange = 25

var periodKeyPattern = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])$`)

// PeriodKey names one calendar month. Month is zero-based; the serialized
// form is YYYY-MM with a one-based month.
type PeriodKey struct {
	Year  int
	Month int
}

// NewPeriodKey clamps month to 0..11 and year to now.Year()±YearRange.
func NewPeriodKey(month, year int, now time.Time) PeriodKey {
	return PeriodKey{Year: ClampYear(year, now), Month: ClampMonth(month)}
}

// CurrentPeriodKey returns the period containing now.
func CurrentPeriodKey(now time.Time) PeriodKey {
	return PeriodKey{Year: now.Year(), Month: int(now.Month()) - 1}
}

func ClampMonth(month int) int {
	if month < 0 {
		return 0
	}
	if month > 11 {
		return 11
	}
	return month
}

func ClampYear(year int, now time.Time) int {
	current := now.Year()
	if year < current-YearRange {
		return current - YearRange
	}
	if year > current+YearRange {
		return current + YearRange
	}
	return year
}

// ParsePeriodKey parses a strict YYYY-MM key.
func ParsePeriodKey(raw string) (PeriodKey, error) {
	if !periodKeyPattern.MatchString(raw) {
		return PeriodKey{}, ErrInvalidPeriod.WithMessage(fmt.Sprintf("invalid period %q: expected YYYY-MM", raw))
	}

	year, _ := strconv.Atoi(raw[:4])
	month, _ := strconv.Atoi(raw[5:])
	return PeriodKey{Year: year, Month: month - 1}, nil
}

// PeriodKeyFromDate returns the period a YYYY-MM-DD date falls in.
func PeriodKeyFromDate(date string) (PeriodKey, bool) {
	if !IsValidCalendarDate(date) {
		return PeriodKey{}, false
	}
	key, err := ParsePeriodKey(date[:7])
	if err != nil {
		return PeriodKey{}, false
	}
	return key, true
}

func (k PeriodKey) String() string {
	return fmt.Sprintf("%04d-%02d", k.Year, k.Month+1)
}

func (k PeriodKey) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

func (k *PeriodKey) UnmarshalText(text []byte) error {
	parsed, err := ParsePeriodKey(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// Clamp pulls the year of k into now.Year()±YearRange.
func (k PeriodKey) Clamp(now time.Time) PeriodKey {
	return NewPeriodKey(k.Month, k.Year, now)
}

func (k PeriodKey) IsValid() bool {
	return k.Month >= 0 && k.Month <= 11 && k.Year >= 0 && k.Year <= 9999
}

// Contains reports whether date (YYYY-MM-DD) falls inside the period.
func (k PeriodKey) Contains(date string) bool {
	key, ok := PeriodKeyFromDate(date)
	return ok && key == k
}

func (k PeriodKey) Before(other PeriodKey) bool {
	if k.Year != other.Year {
		return k.Year < other.Year
	}
	return k.Month < other.Month
}

func (k PeriodKey) Next() PeriodKey {
	if k.Month == 11 {
		return PeriodKey{Year: k.Year + 1, Month: 0}
	}
	return PeriodKey{Year: k.Year, Month: k.Month + 1}
}

func (k PeriodKey) Prev() PeriodKey {
	if k.Month == 0 {
		return PeriodKey{Year: k.Year - 1, Month: 11}
	}
	return PeriodKey{Year: k.Year, Month: k.Month - 1}
}
