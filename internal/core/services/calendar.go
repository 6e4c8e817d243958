package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/church_finance_app/internal/apperrors"
	"github.com/SscSPs/church_finance_app/internal/core/domain"
	portsrepo "github.com/SscSPs/church_finance_app/internal/core/ports/repositories"
	lru "github.com/hashicorp/golang-lru/v2"
)

const calendarCacheSize = 1024

// Calendar tells what day it is for a church.
type Calendar interface {
	Today(ctx context.Context, churchID string) (time.Time, error)
}

// ChurchCalendar resolves "today" in each church's own timezone.
type ChurchCalendar struct {
	BaseService
	churchRepo portsrepo.ChurchRepository
	defaultLoc *time.Location
	now        func() time.Time
	locations  *lru.Cache[string, *time.Location]
}

// CalendarOption configures a ChurchCalendar.
type CalendarOption func(*ChurchCalendar)

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) CalendarOption {
	return func(c *ChurchCalendar) {
		c.now = now
	}
}

// NewChurchCalendar creates a calendar. Churches without a usable timezone,
// or not known to the repository, use defaultTimezone.
func NewChurchCalendar(churchRepo portsrepo.ChurchRepository, defaultTimezone string, opts ...CalendarOption) (*ChurchCalendar, error) {
	if defaultTimezone == "" {
		defaultTimezone = domain.DefaultChurchTimezone
	}
	loc, err := time.LoadLocation(defaultTimezone)
	if err != nil {
		return nil, fmt.Errorf("invalid default timezone %q: %w", defaultTimezone, err)
	}
	locations, err := lru.New[string, *time.Location](calendarCacheSize)
	if err != nil {
		return nil, err
	}
	c := &ChurchCalendar{
		churchRepo: churchRepo,
		defaultLoc: loc,
		now:        time.Now,
		locations:  locations,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Location returns the timezone of a church.
func (c *ChurchCalendar) Location(ctx context.Context, churchID string) (*time.Location, error) {
	if c.churchRepo == nil || churchID == "" {
		return c.defaultLoc, nil
	}
	if loc, ok := c.locations.Get(churchID); ok {
		return loc, nil
	}

	church, err := c.churchRepo.FindChurchByID(ctx, churchID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return c.defaultLoc, nil
		}
		return nil, fmt.Errorf("failed to load church %s: %w", churchID, err)
	}

	loc := c.defaultLoc
	if church.Timezone != "" {
		if l, err := time.LoadLocation(church.Timezone); err == nil {
			loc = l
		} else {
			c.LogWarn(ctx, "Church has an invalid timezone, using default",
				slog.String("church_id", churchID),
				slog.String("timezone", church.Timezone))
		}
	}
	c.locations.Add(churchID, loc)
	return loc, nil
}

// Today returns the church's current calendar date as midnight UTC.
func (c *ChurchCalendar) Today(ctx context.Context, churchID string) (time.Time, error) {
	loc, err := c.Location(ctx, churchID)
	if err != nil {
		return time.Time{}, err
	}
	return domain.DateOf(c.now(), loc), nil
}

var _ Calendar = (*ChurchCalendar)(nil)
