// Package utils provides clock and market-session helpers.
package utils

import (
	"fmt"
	"regexp"
	"strconv"
)

// NSE cash and F&O session bounds, in minutes after midnight IST.
const (
	MarketOpenMinutes  = 9*60 + 15  // 09:15
	MarketCloseMinutes = 15*60 + 30 // 15:30
)

var clockPattern = regexp.MustCompile(`^(\d{1,2}):(\d{2})$`)

// Clock is a wall-clock time of day with minute precision.
type Clock struct {
	Hour   int
	Minute int
}

// Minutes returns the number of minutes after midnight.
func (c Clock) Minutes() int {
	return c.Hour*60 + c.Minute
}

// String formats the clock as "HH:MM".
func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

// HourString returns the zero-padded hour.
func (c Clock) HourString() string {
	return fmt.Sprintf("%02d", c.Hour)
}

// MinuteString returns the zero-padded minute.
func (c Clock) MinuteString() string {
	return fmt.Sprintf("%02d", c.Minute)
}

// Valid reports whether the clock is a real time of day.
func (c Clock) Valid() bool {
	return c.Hour >= 0 && c.Hour <= 23 && c.Minute >= 0 && c.Minute <= 59
}

// ParseClock parses "H:MM" or "HH:MM".
func ParseClock(s string) (Clock, bool) {
	m := clockPattern.FindStringSubmatch(s)
	if m == nil {
		return Clock{}, false
	}
	hour, _ := strconv.Atoi(m[1])
	minute, _ := strconv.Atoi(m[2])
	c := Clock{Hour: hour, Minute: minute}
	return c, c.Valid()
}

// ClockFromParts parses separate hour and minute strings as edited in a form.
func ClockFromParts(hour, minute string) (Clock, bool) {
	h, err := strconv.Atoi(hour)
	if err != nil {
		return Clock{}, false
	}
	m, err := strconv.Atoi(minute)
	if err != nil {
		return Clock{}, false
	}
	c := Clock{Hour: h, Minute: m}
	return c, c.Valid()
}

// FormatClock formats hour and minute strings as "HH:MM". Unparseable parts
// are written as 00.
func FormatClock(hour, minute string) string {
	h, _ := strconv.Atoi(hour)
	m, _ := strconv.Atoi(minute)
	return Clock{Hour: h, Minute: m}.String()
}

// MarketOpen returns the session open as a Clock.
func MarketOpen() Clock {
	return Clock{Hour: MarketOpenMinutes / 60, Minute: MarketOpenMinutes % 60}
}

// MarketClose returns the session close as a Clock.
func MarketClose() Clock {
	return Clock{Hour: MarketCloseMinutes / 60, Minute: MarketCloseMinutes % 60}
}
