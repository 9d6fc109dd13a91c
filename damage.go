package termsession

// DamageTracker accumulates the half-open row range touched since the last
// redraw flush. It is a performance bound only: a redraw re-reads the
// authoritative cell content from the engine for the rows in range, so
// correctness never depends on the tracker being exact.
type DamageTracker struct {
	start int
	end   int
}

// Mark extends the damaged range to include the half-open row range
// [start, end).
func (d *DamageTracker) Mark(start, end int) {
	if start >= end {
		return
	}
	if d.start >= d.end {
		d.start, d.end = start, end
		return
	}
	if start < d.start {
		d.start = start
	}
	if end > d.end {
		d.end = end
	}
}

// MarkAll marks every row of a grid with the given height as damaged.
func (d *DamageTracker) MarkAll(rows int) {
	d.Mark(0, rows)
}

// Range returns the damaged row range and whether any damage is pending.
func (d *DamageTracker) Range() (start, end int, ok bool) {
	if d.start >= d.end {
		return 0, 0, false
	}
	return d.start, d.end, true
}

// Reset clears the damaged range. Called after each redraw flush.
func (d *DamageTracker) Reset() {
	d.start, d.end = 0, 0
}
