package game

import (
	"sync"
	"time"
)

// waitWindowSize caps each (format, side) window of recent wait samples
const waitWindowSize = 6

type waitBucket struct {
	Format string
	Side   Side
}

// WaitTracker keeps a bounded rolling window of recent queue wait durations
// per (format, side) and reports arithmetic means. Safe for concurrent use;
// reads see a consistent snapshot of each window.
type WaitTracker struct {
	mu      sync.Mutex
	windows map[waitBucket][]time.Duration
}

func NewWaitTracker() *WaitTracker {
	return &WaitTracker{windows: make(map[waitBucket][]time.Duration)}
}

// Record appends a wait sample, evicting the oldest when the window is full
func (w *WaitTracker) Record(format string, side Side, d time.Duration) {
	w.mu.Lock()
	defer w.mu.Unlock()

	b := waitBucket{Format: format, Side: side}
	win := w.windows[b]
	if len(win) >= waitWindowSize {
		win = win[len(win)-waitWindowSize+1:]
	}
	w.windows[b] = append(win, d)
}

// Average returns the mean of the current window, 0 when empty
func (w *WaitTracker) Average(format string, side Side) time.Duration {
	w.mu.Lock()
	defer w.mu.Unlock()

	win := w.windows[waitBucket{Format: format, Side: side}]
	if len(win) == 0 {
		return 0
	}
	var total time.Duration
	for _, d := range win {
		total += d
	}
	return total / time.Duration(len(win))
}

// Window returns a copy of the current window for one (format, side)
func (w *WaitTracker) Window(format string, side Side) []time.Duration {
	w.mu.Lock()
	defer w.mu.Unlock()

	win := w.windows[waitBucket{Format: format, Side: side}]
	out := make([]time.Duration, len(win))
	copy(out, win)
	return out
}

// Averages returns the mean wait in seconds for every bucket with samples,
// keyed "format/side".
func (w *WaitTracker) Averages() map[string]float64 {
	w.mu.Lock()
	defer w.mu.Unlock()

	out := make(map[string]float64, len(w.windows))
	for b, win := range w.windows {
		if len(win) == 0 {
			continue
		}
		var total time.Duration
		for _, d := range win {
			total += d
		}
		mean := total / time.Duration(len(win))
		out[b.Format+"/"+string(b.Side)] = mean.Seconds()
	}
	return out
}
