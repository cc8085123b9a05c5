package clock

import (
	"sync"
	"time"

	"canteenbooks/internal/dates"
)

// Clock is what record-creating code reads instead of time.Now.
type Clock interface {
	// Now is the real current instant, used for edit windows.
	Now() time.Time
	// Today is the working day new records are filed under.
	Today() dates.Day
	// Stamp is the instant written on new records: the working day at the
	// current time of day.
	Stamp() time.Time
	Location() *time.Location
}

// Working tracks real time until a working date is pinned with Set, and
// goes back to real time on Reset.
type Working struct {
	loc *time.Location
	now func() time.Time

	mu     sync.RWMutex
	pinned *dates.Day
}

func NewWorking(loc *time.Location) *Working {
	if loc == nil {
		loc = time.Local
	}
	return &Working{loc: loc, now: time.Now}
}

// WithNow replaces the wall clock; tests use it to move time.
func (w *Working) WithNow(now func() time.Time) *Working {
	w.now = now
	return w
}

func (w *Working) Location() *time.Location { return w.loc }

func (w *Working) Now() time.Time { return w.now().In(w.loc) }

func (w *Working) Today() dates.Day {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.pinned != nil {
		return *w.pinned
	}
	return dates.Of(w.Now())
}

func (w *Working) Stamp() time.Time {
	now := w.Now()
	day := w.Today()
	if day == dates.Of(now) {
		return now
	}
	return time.Date(day.Year, day.Month, day.Day,
		now.Hour(), now.Minute(), now.Second(), now.Nanosecond(), w.loc)
}

// Set pins the working date until Reset, even when day is today.
func (w *Working) Set(day dates.Day) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.pinned = &day
}

func (w *Working) Reset() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.pinned = nil
}

// Pinned reports whether a working date was set and not yet reset.
func (w *Working) Pinned() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.pinned != nil
}
