package digest

import (
	"fmt"
	"strings"
	"time"

	"github.com/taskflow-ai/taskflow-api/internal/domain"
)

// Params defines the configurable parameters of the ranking engine.
type Params struct {
	// WeekStart is the first day of the week used for the DueThisWeek bucket.
	WeekStart time.Weekday
}

// NewDefaultParams returns parameters with weeks starting on Monday.
func NewDefaultParams() Params {
	return Params{WeekStart: time.Monday}
}

// ParseWeekday converts a day name such as "monday" or "Sun" to a time.Weekday.
func ParseWeekday(name string) (time.Weekday, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	for d := time.Sunday; d <= time.Saturday; d++ {
		full := strings.ToLower(d.String())
		if n == full || n == full[:3] {
			return d, nil
		}
	}
	return time.Sunday, fmt.Errorf("unknown weekday %q", name)
}

// WeekBounds returns the first and last day of the week containing today.
func (p Params) WeekBounds(today domain.Date) (domain.Date, domain.Date) {
	offset := (int(today.Weekday()) - int(p.WeekStart) + 7) % 7
	start := today.AddDays(-offset)
	return start, start.AddDays(6)
}
