package courtier

import (
	"fmt"
	"time"
)

const clockLayout = "15:04"

// TimeSlot is a [Start, End) interval within one day, both "HH:MM".
type TimeSlot struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// DayAvailability holds one weekday. Slots are ordered by start time.
type DayAvailability struct {
	Enabled bool       `json:"enabled"`
	Slots   []TimeSlot `json:"slots"`
}

// Availability is a courtier's weekly schedule.
type Availability struct {
	Monday    DayAvailability `json:"monday"`
	Tuesday   DayAvailability `json:"tuesday"`
	Wednesday DayAvailability `json:"wednesday"`
	Thursday  DayAvailability `json:"thursday"`
	Friday    DayAvailability `json:"friday"`
	Saturday  DayAvailability `json:"saturday"`
	Sunday    DayAvailability `json:"sunday"`
}

// Day returns the schedule for a weekday.
func (a *Availability) Day(d time.Weekday) *DayAvailability {
	switch d {
	case time.Monday:
		return &a.Monday
	case time.Tuesday:
		return &a.Tuesday
	case time.Wednesday:
		return &a.Wednesday
	case time.Thursday:
		return &a.Thursday
	case time.Friday:
		return &a.Friday
	case time.Saturday:
		return &a.Saturday
	default:
		return &a.Sunday
	}
}

// DefaultAvailability is Monday to Friday, 09:00-18:00.
func DefaultAvailability() Availability {
	var a Availability
	for d := time.Sunday; d <= time.Saturday; d++ {
		day := a.Day(d)
		day.Slots = []TimeSlot{{Start: "09:00", End: "18:00"}}
		day.Enabled = d != time.Saturday && d != time.Sunday
	}
	return a
}

// Validate checks every day: well-formed times, start before end, slots
// ordered and non-overlapping.
func (a *Availability) Validate() error {
	for d := time.Sunday; d <= time.Saturday; d++ {
		if err := validateDay(a.Day(d).Slots); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalidAvailability, d, err)
		}
	}
	return nil
}

func validateDay(slots []TimeSlot) error {
	var prevEnd time.Time
	for i, s := range slots {
		start, err := time.Parse(clockLayout, s.Start)
		if err != nil {
			return fmt.Errorf("slot %d: bad start %q", i, s.Start)
		}
		end, err := time.Parse(clockLayout, s.End)
		if err != nil {
			return fmt.Errorf("slot %d: bad end %q", i, s.End)
		}
		if !start.Before(end) {
			return fmt.Errorf("slot %d: start must be before end", i)
		}
		if i > 0 && start.Before(prevEnd) {
			return fmt.Errorf("slot %d: overlaps or is out of order", i)
		}
		prevEnd = end
	}
	return nil
}
