package query

import (
	"errors"
	"time"

	"moneymate/internal/core"
)

// ErrUnknownRange is returned for a range name that has no preset.
var ErrUnknownRange = errors.New("unknown date range")

// Range names a quick date-range preset.
type Range string

const (
	Last7Days  Range = "7d"
	Last30Days Range = "30d"
	Last90Days Range = "90d"
	ThisMonth  Range = "month"
	ThisYear   Range = "year"
)

// Bounds resolves r relative to today into an inclusive [start, end].
func (r Range) Bounds(today core.Date) (core.Date, core.Date, error) {
	switch r {
	case Last7Days:
		return today.AddDays(-7), today, nil
	case Last30Days:
		return today.AddDays(-30), today, nil
	case Last90Days:
		return today.AddDays(-90), today, nil
	case ThisMonth:
		first := core.NewDate(today.Year(), int(today.Month()), 1)
		return first, core.Date{Time: first.AddDate(0, 1, -1)}, nil
	case ThisYear:
		return core.NewDate(today.Year(), int(time.January), 1), core.NewDate(today.Year(), int(time.December), 31), nil
	}
	return core.Date{}, core.Date{}, ErrUnknownRange
}

// WithRange returns c with its date bounds replaced by the preset r.
func (c Criteria) WithRange(r Range, today core.Date) (Criteria, error) {
	start, end, err := r.Bounds(today)
	if err != nil {
		return c, err
	}
	c.StartDate, c.EndDate = start, end
	return c, nil
}
