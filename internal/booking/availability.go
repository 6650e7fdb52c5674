package booking

import (
	"sort"
	"time"
)

// initial availability window fetched on package or quantity changes
const initialWindowMonths = 3

// AvailabilityCache accumulates the bookable days fetched for the current
// package and quantities, and the times of the chosen day.
//
// Every fetch is tagged with the generation returned by Generation; Reset
// bumps it, so responses to requests issued before the reset are dropped.
// The cache is not safe for concurrent use; Session guards it.
type AvailabilityCache struct {
	gen      uint64
	days     map[string]struct{}
	timesDay string
	times    []string
}

func NewAvailabilityCache() *AvailabilityCache {
	return &AvailabilityCache{days: make(map[string]struct{})}
}

func (c *AvailabilityCache) Generation() uint64 {
	return c.gen
}

// Reset forgets all days and times and invalidates in-flight fetches.
func (c *AvailabilityCache) Reset() {
	c.gen++
	c.days = make(map[string]struct{})
	c.timesDay = ""
	c.times = nil
}

// Merge adds days fetched under generation gen. Duplicates collapse, so
// overlapping windows can be merged in any order. Returns false when the
// response is stale and was dropped.
func (c *AvailabilityCache) Merge(gen uint64, days []string) bool {
	if gen != c.gen {
		return false
	}
	for _, d := range days {
		if len(d) >= len(DateLayout) {
			d = d[:len(DateLayout)]
		}
		c.days[d] = struct{}{}
	}
	return true
}

func (c *AvailabilityCache) IsAvailable(day string) bool {
	_, ok := c.days[day]
	return ok
}

// Days returns the known available days in ascending order.
func (c *AvailabilityCache) Days() []string {
	out := make([]string, 0, len(c.days))
	for d := range c.days {
		out = append(out, d)
	}
	sort.Strings(out)
	return out
}

// LastDay returns the latest known available day.
func (c *AvailabilityCache) LastDay(loc *time.Location) (time.Time, bool) {
	last := ""
	for d := range c.days {
		if d > last {
			last = d
		}
	}
	if last == "" {
		return time.Time{}, false
	}
	t, err := time.ParseInLocation(DateLayout, last, loc)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// SetTimes replaces the times with those fetched for day. Times never
// accumulate across days.
func (c *AvailabilityCache) SetTimes(gen uint64, day string, times []string) bool {
	if gen != c.gen {
		return false
	}
	c.timesDay = day
	c.times = append([]string(nil), times...)
	return true
}

// Times returns the fetched times if they belong to day.
func (c *AvailabilityCache) Times(day string) []string {
	if day == "" || day != c.timesDay {
		return nil
	}
	return append([]string(nil), c.times...)
}

func (c *AvailabilityCache) HasTime(day, t string) bool {
	for _, v := range c.Times(day) {
		if v == t {
			return true
		}
	}
	return false
}

func (c *AvailabilityCache) clearTimes() {
	c.timesDay = ""
	c.times = nil
}

// ExtensionWindow decides which range to fetch when the calendar shows the
// month of visibleEnd. The window starts at the latest known day (or now)
// and ends two months after the visible month, on the anchor's day of month.
// ok is false when known days already reach past the visible month.
func (c *AvailabilityCache) ExtensionWindow(visibleEnd, now time.Time) (begin, end time.Time, ok bool) {
	loc := now.Location()
	y, m, _ := visibleEnd.Date()
	lastVisible := time.Date(y, m+1, 0, 0, 0, 0, 0, loc)

	anchor, known := c.LastDay(loc)
	if !known {
		anchor = now
	}
	if anchor.After(lastVisible) {
		return time.Time{}, time.Time{}, false
	}
	end = time.Date(y, m+2, anchor.Day(), 0, 0, 0, 0, loc)
	return anchor, end, true
}

func initialWindow(now time.Time) (time.Time, time.Time) {
	return now, now.AddDate(0, initialWindowMonths, 0)
}
