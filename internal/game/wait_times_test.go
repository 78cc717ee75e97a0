package game

import (
	"testing"
	"time"
)

func TestWaitWindowEvictsOldest(t *testing.T) {
	w := NewWaitTracker()

	for _, s := range []int{10, 20, 30, 40, 50, 60, 70} {
		w.Record("standard", SideCorp, time.Duration(s)*time.Second)
	}

	win := w.Window("standard", SideCorp)
	if len(win) != 6 {
		t.Fatalf("window length = %d, want 6", len(win))
	}
	want := []int{20, 30, 40, 50, 60, 70}
	for i, s := range want {
		if win[i] != time.Duration(s)*time.Second {
			t.Errorf("window[%d] = %v, want %ds", i, win[i], s)
		}
	}

	if avg := w.Average("standard", SideCorp); avg != 45*time.Second {
		t.Errorf("average = %v, want 45s", avg)
	}
}

func TestWaitAverageEmptyIsZero(t *testing.T) {
	w := NewWaitTracker()
	if avg := w.Average("standard", SideRunner); avg != 0 {
		t.Errorf("empty average = %v, want 0", avg)
	}
}

func TestWaitBucketsAreIndependent(t *testing.T) {
	w := NewWaitTracker()
	w.Record("standard", SideCorp, 10*time.Second)
	w.Record("standard", SideRunner, 30*time.Second)
	w.Record("eternal", SideCorp, 50*time.Second)

	if avg := w.Average("standard", SideCorp); avg != 10*time.Second {
		t.Errorf("standard/corp = %v, want 10s", avg)
	}
	if avg := w.Average("standard", SideRunner); avg != 30*time.Second {
		t.Errorf("standard/runner = %v, want 30s", avg)
	}

	avgs := w.Averages()
	if len(avgs) != 3 {
		t.Fatalf("expected 3 buckets, got %d", len(avgs))
	}
	if avgs["eternal/corp"] != 50 {
		t.Errorf("eternal/corp = %v, want 50", avgs["eternal/corp"])
	}
}
