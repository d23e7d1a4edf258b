package analytics

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestCurrentMonth(t *testing.T) {
	now := time.Date(2024, time.June, 15, 10, 30, 0, 0, time.UTC)
	w := CurrentMonth(now)

	if !w.From.Equal(date(2024, time.June, 1)) {
		t.Errorf("expected from 2024-06-01, got %v", w.From)
	}
	if !w.To.Equal(now) {
		t.Errorf("expected to == now, got %v", w.To)
	}
	if !w.Contains(date(2024, time.June, 1)) {
		t.Error("first of month should be inside the window")
	}
	if w.Contains(date(2024, time.May, 31)) {
		t.Error("previous month should be outside the window")
	}
	if w.Contains(date(2024, time.June, 16)) {
		t.Error("dates after now should be outside the window")
	}
}

func TestCurrentYear(t *testing.T) {
	now := time.Date(2024, time.June, 15, 10, 30, 0, 0, time.UTC)
	w := CurrentYear(now)

	if !w.From.Equal(date(2024, time.January, 1)) {
		t.Errorf("expected from 2024-01-01, got %v", w.From)
	}
	if !w.Contains(date(2024, time.March, 10)) {
		t.Error("mid-year date should be inside the window")
	}
	if w.Contains(date(2023, time.December, 31)) {
		t.Error("previous year should be outside the window")
	}
}

func TestPreviousMonth(t *testing.T) {
	now := time.Date(2024, time.March, 15, 12, 0, 0, 0, time.UTC)
	w := PreviousMonth(now)

	if !w.From.Equal(date(2024, time.February, 1)) {
		t.Errorf("expected from 2024-02-01, got %v", w.From)
	}
	if !w.Contains(date(2024, time.February, 29)) {
		t.Error("leap day should be inside the previous-month window")
	}
	if w.Contains(date(2024, time.March, 1)) {
		t.Error("current month should be outside the previous-month window")
	}
}

func TestExplicitInvertedRangeIsEmpty(t *testing.T) {
	w := Explicit(date(2024, time.June, 10), date(2024, time.June, 1))
	if w.IsZero() {
		t.Fatal("inverted range must stay distinguishable from the zero window")
	}
	if !w.IsEmpty() {
		t.Fatal("inverted range should be empty")
	}
	for _, d := range []time.Time{
		date(2024, time.June, 1),
		date(2024, time.June, 5),
		date(2024, time.June, 10),
	} {
		if w.Contains(d) {
			t.Fatalf("empty window must match nothing, matched %v", d)
		}
	}
}

func TestZeroWindowIsEmpty(t *testing.T) {
	var w Window
	if !w.IsZero() || !w.IsEmpty() {
		t.Fatal("zero window should be zero and empty")
	}
	if w.Contains(date(2024, time.June, 5)) {
		t.Fatal("zero window must match nothing")
	}
}

func TestRollingMonths(t *testing.T) {
	now := time.Date(2024, time.June, 15, 0, 0, 0, 0, time.UTC)
	buckets := RollingMonths(now, 6)

	if len(buckets) != 6 {
		t.Fatalf("expected 6 buckets, got %d", len(buckets))
	}

	wantLabels := []string{"Jan", "Feb", "Mar", "Apr", "May", "Jun"}
	for i, b := range buckets {
		if b.Index != i {
			t.Errorf("bucket %d: expected index %d, got %d", i, i, b.Index)
		}
		if b.Label != wantLabels[i] {
			t.Errorf("bucket %d: expected label %s, got %s", i, wantLabels[i], b.Label)
		}
		if b.Year != 2024 {
			t.Errorf("bucket %d: expected year 2024, got %d", i, b.Year)
		}
	}

	// Full months end on their last instant; the final bucket ends at now.
	jan := buckets[0]
	if !jan.Window.Contains(date(2024, time.January, 31)) {
		t.Error("January bucket should contain Jan 31")
	}
	if jan.Window.Contains(date(2024, time.February, 1)) {
		t.Error("January bucket must not contain Feb 1")
	}
	jun := buckets[5]
	if !jun.Window.To.Equal(now) {
		t.Errorf("current bucket should end at now, got %v", jun.Window.To)
	}
	if jun.Window.Contains(date(2024, time.June, 16)) {
		t.Error("current bucket must not extend past now")
	}
}

func TestRollingMonthsCrossYear(t *testing.T) {
	now := time.Date(2024, time.February, 10, 0, 0, 0, 0, time.UTC)
	buckets := RollingMonths(now, 4)

	want := []struct {
		year  int
		month time.Month
	}{
		{2023, time.November},
		{2023, time.December},
		{2024, time.January},
		{2024, time.February},
	}
	for i, b := range buckets {
		if b.Year != want[i].year || b.Month != want[i].month {
			t.Errorf("bucket %d: expected %d-%s, got %d-%s",
				i, want[i].year, want[i].month, b.Year, b.Month)
		}
	}
}

func TestRollingMonthsNoOverlap(t *testing.T) {
	now := time.Date(2024, time.June, 15, 0, 0, 0, 0, time.UTC)
	buckets := RollingMonths(now, 6)

	// Every probe date lands in at most one bucket.
	probes := []time.Time{
		date(2024, time.January, 1),
		date(2024, time.January, 31),
		date(2024, time.February, 1),
		date(2024, time.March, 31),
		date(2024, time.June, 15),
	}
	for _, p := range probes {
		hits := 0
		for _, b := range buckets {
			if b.Window.Contains(p) {
				hits++
			}
		}
		if hits != 1 {
			t.Errorf("%v matched %d buckets, expected exactly 1", p, hits)
		}
	}
}

func TestRollingMonthsNonPositive(t *testing.T) {
	if got := RollingMonths(time.Now(), 0); got != nil {
		t.Fatalf("expected nil for n=0, got %v", got)
	}
	if got := RollingMonths(time.Now(), -3); got != nil {
		t.Fatalf("expected nil for negative n, got %v", got)
	}
}
