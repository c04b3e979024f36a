package timesheet

import (
	"fmt"
	"strconv"
	"strings"
)

// clock is a wall-clock time in 12-hour form.
type clock struct {
	hour   int // 0-12
	minute int // 0-59
	pm     bool
}

// ToTime canonicalises a loosely typed time into "hh:mm AM" form.
//
//	"1p"   → "01:00 PM"
//	"1300" → "01:00 PM"
//	"215p" → "02:15 PM"
//	"12"   → "12:00 PM"
//	"12a"  → "12:00 AM"
//	"0030" → "00:30 AM"
//
// Numbers 1-23 are hours, 100-2359 are hhmm, and anything from 2400 up is
// past midnight again. Minutes above 59 are capped. Already canonical input
// comes back unchanged.
func ToTime(s string) string {
	return parseClock(s).String()
}

func parseClock(s string) clock {
	var c clock
	lower := strings.ToLower(s)
	c.pm = strings.Contains(lower, "p")
	am := strings.Contains(lower, "a")

	// keep 00xx distinguishable from xx
	if strings.HasPrefix(s, "00") {
		s = "24" + s[2:]
	}

	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, s)
	n, err := strconv.Atoi(digits)
	if err != nil {
		n = 0
	}

	switch {
	case n > 0 && n < 24:
		c.hour = n
	case n >= 100 && n <= 2359:
		c.hour = n / 100
		c.minute = n % 100
	case n >= 2400:
		c.minute = n % 100
		c.pm = false
	}

	if c.hour == 12 && !am {
		c.pm = true
	} else if c.hour > 12 {
		c.pm = true
		c.hour -= 12
	}

	if c.minute > 59 {
		c.minute = 59
	}
	return c
}

func (c clock) String() string {
	meridiem := "AM"
	if c.pm {
		meridiem = "PM"
	}
	return fmt.Sprintf("%02d:%02d %s", c.hour, c.minute, meridiem)
}

// minutes returns minutes since midnight.
func (c clock) minutes() int {
	h := c.hour % 12
	if c.pm {
		h += 12
	}
	return h*60 + c.minute
}

// ShiftHours returns the absolute distance between two times in hours,
// rounded to two decimals. ok is false when either time is blank.
func ShiftHours(began, ended string) (hours float64, ok bool) {
	if strings.TrimSpace(began) == "" || strings.TrimSpace(ended) == "" {
		return 0, false
	}
	d := parseClock(ended).minutes() - parseClock(began).minutes()
	if d < 0 {
		d = -d
	}
	return round2(float64(d) / 60), true
}

func round2(f float64) float64 {
	v, _ := strconv.ParseFloat(strconv.FormatFloat(f, 'f', 2, 64), 64)
	return v
}

// formatHours prints hours without trailing zeros: 8, 8.5, 7.25.
func formatHours(f float64) string {
	return strconv.FormatFloat(round2(f), 'f', -1, 64)
}
