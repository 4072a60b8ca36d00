package engine

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"
)

// =============================================================================
// CALENDAR - Per-year holiday lookup with a one-year cache
// =============================================================================

// Calendar answers "which dates in year Y are holidays". It caches the set
// for one year at a time; every holiday mutation must call Invalidate
// before the next read or stale holidays leak into day valuation.
//
// The cache belongs to the Calendar instance, not the process. Hosts that
// want request-scoped caching construct a Calendar per request.
type Calendar struct {
	source HolidaySource
	log    *logrus.Logger

	mu         sync.Mutex
	cachedYear int
	cached     map[Date]struct{}
}

func NewCalendar(source HolidaySource, log *logrus.Logger) *Calendar {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Calendar{source: source, log: log, cachedYear: -1}
}

// HolidaysForYear returns the set of holiday dates in the given year.
// A store failure is logged and yields an empty set; holiday lookup is
// never allowed to fail a valuation.
func (c *Calendar) HolidaysForYear(ctx context.Context, year int) map[Date]struct{} {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.cached != nil && c.cachedYear == year {
		return c.cached
	}

	holidays, err := c.source.HolidaysInYear(ctx, year)
	if err != nil {
		c.log.WithError(err).WithField("year", year).Warn("holiday lookup failed, treating year as holiday-free")
		return map[Date]struct{}{}
	}

	set := make(map[Date]struct{}, len(holidays))
	for _, h := range holidays {
		set[h.Date] = struct{}{}
	}
	c.cachedYear = year
	c.cached = set
	return set
}

// HolidaysInRange returns the union of holiday sets for every year touched
// by [from, to]. Bookings may span a year boundary.
func (c *Calendar) HolidaysInRange(ctx context.Context, from, to Date) map[Date]struct{} {
	if to.Before(from) {
		return map[Date]struct{}{}
	}
	if from.Year() == to.Year() {
		return c.HolidaysForYear(ctx, from.Year())
	}
	union := make(map[Date]struct{})
	for year := from.Year(); year <= to.Year(); year++ {
		for d := range c.HolidaysForYear(ctx, year) {
			union[d] = struct{}{}
		}
	}
	return union
}

// Invalidate drops the cached year. Must be called synchronously after any
// holiday create, update or delete.
func (c *Calendar) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cachedYear = -1
	c.cached = nil
}
