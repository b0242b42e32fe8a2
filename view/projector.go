package view

import "wifiscan/wifi"

// Projector owns the full record list of the latest snapshot together with
// the user's sort state. It is not safe for concurrent use; the presenter
// drives it from a single goroutine.
type Projector struct {
	records   []wifi.Record
	sortCol   Column
	ascending bool
	applied   bool
	filter    Filter
}

func NewProjector() *Projector {
	return &Projector{
		sortCol:   NoColumn,
		ascending: true,
		filter:    DefaultFilter(),
	}
}

// Replace swaps in a new snapshot. The remembered sort column is kept but
// not re-applied; the new list stays in the order it was delivered in until
// the next SortBy.
func (p *Projector) Replace(records []wifi.Record) {
	p.records = append([]wifi.Record(nil), records...)
	p.applied = false
}

// SortBy sorts the full list by col. Selecting the current column again
// flips the direction; a different column starts ascending. Columns without
// a sort key are ignored.
func (p *Projector) SortBy(col Column) {
	if !Sortable(col) {
		return
	}
	if col == p.sortCol {
		p.ascending = !p.ascending
	} else {
		p.sortCol = col
		p.ascending = true
	}
	SortRecords(p.records, p.sortCol, p.ascending)
	p.applied = true
}

// SortState returns the last selected column and direction.
func (p *Projector) SortState() (Column, bool) {
	return p.sortCol, p.ascending
}

// SortIndicator returns the column the current list is actually ordered by.
// It is NoColumn after a Replace until the next SortBy.
func (p *Projector) SortIndicator() (Column, bool) {
	if !p.applied {
		return NoColumn, p.ascending
	}
	return p.sortCol, p.ascending
}

func (p *Projector) SetFilter(f Filter) { p.filter = f }

func (p *Projector) Filter() Filter { return p.filter }

// Rows returns the filtered view of the full list.
func (p *Projector) Rows() []wifi.Record {
	return Apply(p.records, p.filter)
}

// Len returns the size of the full list.
func (p *Projector) Len() int { return len(p.records) }
