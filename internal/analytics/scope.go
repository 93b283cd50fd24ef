package analytics

import (
	"time"

	v1 "github.com/meridian-lab/project-meridian/internal/api/v1"
)

type scopeKind int

const (
	scopeUnbounded scopeKind = iota
	scopeCaller
	scopeDateRange
)

// Scope is a tagged selector for the record set an aggregate operates over:
// one caller, one inclusive date range, or nothing. Constructing a caller
// scope discards any date range, which makes the caller-wins priority rule a
// property of the type rather than a runtime check.
type Scope struct {
	kind     scopeKind
	callerID string
	start    time.Time
	end      time.Time
}

// CallerScope selects all records placed by one caller.
func CallerScope(callerID string) Scope {
	return Scope{kind: scopeCaller, callerID: callerID}
}

// DateRangeScope selects records with call_date in [start, end], inclusive.
func DateRangeScope(start, end time.Time) Scope {
	return Scope{kind: scopeDateRange, start: v1.Date(start), end: v1.Date(end)}
}

// UnboundedScope selects nothing; aggregates over it yield their zero value.
func UnboundedScope() Scope {
	return Scope{kind: scopeUnbounded}
}

// DateWindow is an optional inclusive calendar-date filter.
type DateWindow struct {
	Start time.Time
	End   time.Time
}

// NewDateWindow normalizes both bounds to midnight UTC.
func NewDateWindow(start, end time.Time) *DateWindow {
	return &DateWindow{Start: v1.Date(start), End: v1.Date(end)}
}

// Contains reports whether d falls inside the window, bounds inclusive.
func (w *DateWindow) Contains(d time.Time) bool {
	day := v1.Date(d)
	return !day.Before(w.Start) && !day.After(w.End)
}
