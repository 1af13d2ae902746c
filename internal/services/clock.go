package services

import (
	"time"

	"cloud.google.com/go/civil"
)

// Clock decides which calendar day it is for date-dependent calculations.
type Clock struct {
	Now      func() time.Time
	Location *time.Location
}

// SystemClock reads the wall clock in loc. A nil loc means UTC.
func SystemClock(loc *time.Location) Clock {
	if loc == nil {
		loc = time.UTC
	}
	return Clock{Now: time.Now, Location: loc}
}

// FixedClock always reports t. Used by tests.
func FixedClock(t time.Time) Clock {
	return Clock{Now: func() time.Time { return t }, Location: t.Location()}
}

// Today returns the current date in the clock's zone.
func (c Clock) Today() civil.Date {
	now := time.Now
	if c.Now != nil {
		now = c.Now
	}
	loc := c.Location
	if loc == nil {
		loc = time.UTC
	}
	return civil.DateOf(now().In(loc))
}
