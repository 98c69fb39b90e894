package booking

import (
	"errors"
	"strings"
	"time"
)

var (
	ErrPartySizeOutOfRange = errors.New("party size out of range")
	ErrTourDateInPast      = errors.New("tour date cannot be in the past")
	ErrDurationTooShort    = errors.New("duration below minimum")
	ErrInvalidEmail        = errors.New("invalid email address")
	ErrEmptyName           = errors.New("customer name is required")
)

const MinPartySize = 1

type PartySize struct {
	value int
}

func NewPartySize(value, max int) (PartySize, error) {
	if value < MinPartySize || value > max {
		return PartySize{}, ErrPartySizeOutOfRange
	}
	return PartySize{value: value}, nil
}

func (p PartySize) Value() int {
	return p.value
}

// TourDate is a local wall-clock calendar date. Comparisons are done on
// the date component only, so a booking for today is still valid at 23:59.
type TourDate struct {
	value time.Time
}

func NewTourDate(value time.Time, now time.Time) (TourDate, error) {
	d := truncateDate(value)
	if d.Before(truncateDate(now)) {
		return TourDate{}, ErrTourDateInPast
	}
	return TourDate{value: d}, nil
}

func ReconstructTourDate(value time.Time) TourDate {
	return TourDate{value: truncateDate(value)}
}

func (d TourDate) Value() time.Time {
	return d.value
}

func (d TourDate) String() string {
	return d.value.Format("2006-01-02")
}

func (d TourDate) Year() int {
	return d.value.Year()
}

func truncateDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

type Duration struct {
	hours float64
}

func NewDuration(hours, minHours float64) (Duration, error) {
	if hours < minHours {
		return Duration{}, ErrDurationTooShort
	}
	return Duration{hours: hours}, nil
}

func (d Duration) Hours() float64 {
	return d.hours
}

// Email is stored as given but compared case-insensitively; Normalized is
// what customer deduplication keys on.
type Email struct {
	value string
}

func NewEmail(value string) (Email, error) {
	v := strings.TrimSpace(value)
	at := strings.Index(v, "@")
	if at < 1 || at == len(v)-1 || !strings.Contains(v[at+1:], ".") {
		return Email{}, ErrInvalidEmail
	}
	return Email{value: v}, nil
}

func (e Email) String() string {
	return e.value
}

func (e Email) Normalized() string {
	return strings.ToLower(e.value)
}
