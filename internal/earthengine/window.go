package earthengine

import (
	"fmt"
	"time"
)

// TimeWindow is one inclusive date range of the requested time series.
type TimeWindow struct {
	Start time.Time
	End   time.Time
}

func NewTimeWindow(start, end time.Time) (TimeWindow, error) {
	if end.Before(start) {
		return TimeWindow{}, fmt.Errorf("time window end %s is before start %s", end.Format("2006-01-02"), start.Format("2006-01-02"))
	}
	return TimeWindow{Start: start, End: end}, nil
}

func (w TimeWindow) Contains(date time.Time) bool {
	return !date.Before(w.Start) && !date.After(w.End)
}

func (w TimeWindow) String() string {
	return w.Start.Format("2006-01-02") + ".." + w.End.Format("2006-01-02")
}

// ValidateWindows checks the one-or-two windows of a run. A second window
// allows a seasonal split per year and must not overlap the first.
func ValidateWindows(windows []TimeWindow) error {
	switch len(windows) {
	case 1:
		return nil
	case 2:
		first, second := windows[0], windows[1]
		if second.Start.Before(first.Start) {
			first, second = second, first
		}
		if !second.Start.After(first.End) {
			return fmt.Errorf("time windows %s and %s overlap", windows[0], windows[1])
		}
		return nil
	default:
		return fmt.Errorf("expected 1 or 2 time windows, got %d", len(windows))
	}
}
