package schedule

import "time"

// Clock abstracts the time source so period and game-clock logic can be
// exercised in tests without real time passing.
type Clock interface {
	Now() time.Time
}

type systemClock struct {
	loc *time.Location
}

// NewSystemClock returns a wall clock reporting time in loc. A nil loc
// falls back to the process-local zone.
func NewSystemClock(loc *time.Location) Clock {
	if loc == nil {
		loc = time.Local
	}
	return &systemClock{loc: loc}
}

func (c *systemClock) Now() time.Time {
	return time.Now().In(c.loc)
}

// FixedClock always reports the same instant. Intended for tests.
type FixedClock struct {
	Time time.Time
}

func (c *FixedClock) Now() time.Time { return c.Time }

// Set moves the fixed clock to t.
func (c *FixedClock) Set(t time.Time) { c.Time = t }
