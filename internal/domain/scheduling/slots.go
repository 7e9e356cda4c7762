package scheduling

import (
	"fmt"
	"time"
)

// parseClock turns a "HH:MM" string into an offset from midnight.
func parseClock(s string) (time.Duration, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, fmt.Errorf("invalid clock time %q: %w", s, err)
	}
	return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute, nil
}

// minuteKey truncates to the minute. Reserved matching is exact equality at
// minute granularity, so a stored appointment at a non-aligned time does not
// block any generated slot.
func minuteKey(t time.Time) time.Time {
	return t.Truncate(time.Minute)
}

// GenerateSlots computes the bookable calendar for one doctor: for each of
// the HorizonDays days starting on now's date, the first window matching the
// weekday is stepped through in SlotInterval increments from start to end
// (end exclusive). Slots at or before now are dropped on the first day, and
// slots whose minute-truncated time appears in reserved are dropped
// everywhere. Days keep their entry even when no slot survives.
func GenerateSlots(windows []*AvailabilityWindow, reserved []time.Time, now time.Time) ([]DaySlots, error) {
	taken := make(map[time.Time]bool, len(reserved))
	for _, t := range reserved {
		taken[minuteKey(t.In(now.Location()))] = true
	}

	calendar := make([]DaySlots, 0, HorizonDays)
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	for i := 0; i < HorizonDays; i++ {
		day := midnight.AddDate(0, 0, i)
		entry := DaySlots{
			Date:    day.Format("2006-01-02"),
			Weekday: day.Weekday().String(),
			Slots:   []Slot{},
		}

		w := firstWindowFor(windows, int(day.Weekday()))
		if w == nil {
			calendar = append(calendar, entry)
			continue
		}

		start, err := parseClock(w.StartTime)
		if err != nil {
			return nil, err
		}
		end, err := parseClock(w.EndTime)
		if err != nil {
			return nil, err
		}

		for off := start; off < end; off += SlotInterval {
			at := day.Add(off)
			if i == 0 && !at.After(now) {
				continue
			}
			if taken[minuteKey(at)] {
				continue
			}
			entry.Slots = append(entry.Slots, Slot{Time: at, Label: at.Format("15:04")})
		}
		calendar = append(calendar, entry)
	}
	return calendar, nil
}

// firstWindowFor returns the first window declared for the weekday. Multiple
// windows on one weekday are not merged; only the first match is used.
func firstWindowFor(windows []*AvailabilityWindow, weekday int) *AvailabilityWindow {
	for _, w := range windows {
		if w.DayOfWeek == weekday {
			return w
		}
	}
	return nil
}

// windowCovers reports whether t falls on a slot boundary inside one of the
// doctor's windows. Booking uses it to refuse times the generator would
// never have offered.
func windowCovers(windows []*AvailabilityWindow, t time.Time) bool {
	w := firstWindowFor(windows, int(t.Weekday()))
	if w == nil {
		return false
	}
	start, err := parseClock(w.StartTime)
	if err != nil {
		return false
	}
	end, err := parseClock(w.EndTime)
	if err != nil {
		return false
	}
	midnight := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	off := t.Sub(midnight)
	if off < start || off >= end {
		return false
	}
	return (off-start)%SlotInterval == 0
}
