// Package analytics implements the financial analytics engine: time
// window resolution, aggregation, trend construction, period
// comparison, budget evaluation, and the top-mover insight.
//
// Every function is pure over an immutable snapshot of transactions.
// The reference instant is always an explicit parameter; nothing in
// this package reads the wall clock.
package analytics

import "time"

// Window is an inclusive date range. A zero Window matches nothing,
// and so does an inverted one (From after To). The two are distinct:
// zero means "no range given", inverted means "an empty range was
// asked for".
type Window struct {
	From time.Time
	To   time.Time
}

// MonthBucket is the tagged key for one calendar month in a rolling
// series. Index is the position in the series, oldest first.
type MonthBucket struct {
	Index  int
	Year   int
	Month  time.Month
	Label  string
	Window Window
}

// Contains reports whether t falls inside the window, bounds included.
func (w Window) Contains(t time.Time) bool {
	if w.IsEmpty() {
		return false
	}
	return !t.Before(w.From) && !t.After(w.To)
}

func (w Window) IsZero() bool {
	return w.From.IsZero() && w.To.IsZero()
}

// CurrentMonth resolves [first-of-month 00:00:00, now].
func CurrentMonth(now time.Time) Window {
	from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	return Window{From: from, To: now}
}

// CurrentYear resolves [Jan 1 00:00:00, now].
func CurrentYear(now time.Time) Window {
	from := time.Date(now.Year(), 1, 1, 0, 0, 0, 0, now.Location())
	return Window{From: from, To: now}
}

// PreviousMonth resolves the full calendar month immediately before the
// month containing now.
func PreviousMonth(now time.Time) Window {
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	return Window{
		From: first.AddDate(0, -1, 0),
		To:   first.Add(-time.Nanosecond),
	}
}

// Explicit resolves an arbitrary inclusive range. An inverted range
// (from after to) is kept as given: the resulting window matches no
// transaction but is not the zero Window, so callers can still tell a
// requested-but-empty range apart from no range at all. It is not an
// error.
func Explicit(from, to time.Time) Window {
	return Window{From: from, To: to}
}

// IsEmpty reports whether the window cannot match any transaction.
func (w Window) IsEmpty() bool {
	return w.IsZero() || w.From.After(w.To)
}

// RollingMonths produces n consecutive calendar-month buckets ending at
// the month containing now, oldest first. Each bucket spans the full
// month except the final one, which is cut at now. Buckets never
// overlap: a transaction date falls into at most one of them.
func RollingMonths(now time.Time, n int) []MonthBucket {
	if n <= 0 {
		return nil
	}
	buckets := make([]MonthBucket, 0, n)
	for i := n - 1; i >= 0; i-- {
		start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location()).AddDate(0, -i, 0)
		end := start.AddDate(0, 1, 0).Add(-time.Nanosecond)
		if i == 0 {
			end = now
		}
		buckets = append(buckets, MonthBucket{
			Index:  n - 1 - i,
			Year:   start.Year(),
			Month:  start.Month(),
			Label:  start.Format("Jan"),
			Window: Window{From: start, To: end},
		})
	}
	return buckets
}
