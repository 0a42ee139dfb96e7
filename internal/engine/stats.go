package engine

import (
	"fmt"
	"math"
	"slices"
	"strings"
)

// Tally accumulates totals of repeated evaluations of the same command.
type Tally struct {
	Count  int
	Min    int64
	Max    int64
	sum    float64
	counts map[int64]int
}

// NewTally creates an empty Tally.
func NewTally() *Tally {
	return &Tally{counts: make(map[int64]int)}
}

// Add records one total.
func (t *Tally) Add(total int64) {
	if t.Count == 0 || total < t.Min {
		t.Min = total
	}
	if t.Count == 0 || total > t.Max {
		t.Max = total
	}
	t.Count++
	t.sum += float64(total)
	t.counts[total]++
}

// Mean returns the arithmetic mean of the recorded totals, NaN when empty.
func (t *Tally) Mean() float64 {
	if t.Count == 0 {
		return math.NaN()
	}
	return t.sum / float64(t.Count)
}

// Frequency returns how many times total was recorded.
func (t *Tally) Frequency(total int64) int {
	return t.counts[total]
}

// Histogram renders one line per distinct total with a bar scaled to width.
func (t *Tally) Histogram(width int) []string {
	if t.Count == 0 {
		return nil
	}

	totals := make([]int64, 0, len(t.counts))
	peak := 0
	for v, n := range t.counts {
		totals = append(totals, v)
		peak = max(peak, n)
	}
	slices.Sort(totals)

	label := max(len(fmt.Sprint(t.Min)), len(fmt.Sprint(t.Max)))
	lines := make([]string, 0, len(totals))
	for _, v := range totals {
		n := t.counts[v]
		bar := n * width / peak
		pct := 100 * float64(n) / float64(t.Count)
		lines = append(lines, fmt.Sprintf("%*d | %-*s %5.2f%%", label, v, width, strings.Repeat("#", bar), pct))
	}
	return lines
}
