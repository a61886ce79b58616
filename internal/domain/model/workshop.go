// Package model contains domain models passed between layers.
package model

import "strings"

// Workshop is a single scheduled activity attached to a day.
// All fields are kept verbatim as they appeared in the pasted text.
type Workshop struct {
	DayLabel  string `json:"day" yaml:"day"`               // free-text day name, e.g. "Perşembe"
	DayNumber string `json:"day_number" yaml:"day_number"` // numeric-looking token, never parsed
	Time      string `json:"time" yaml:"time"`             // time range token, e.g. "13.00-15.00"
	Title     string `json:"title" yaml:"title"`
}

// Key returns the DayKey the workshop groups under.
func (w Workshop) Key() DayKey {
	return NewDayKey(w.DayNumber, w.DayLabel)
}

// DayKey groups workshops by day: dayNumber + " " + dayLabel.
type DayKey string

// NewDayKey builds the grouping key for a day.
func NewDayKey(dayNumber, dayLabel string) DayKey {
	return DayKey(dayNumber + " " + dayLabel)
}

// Number returns the day number part of the key (text before the first space).
func (k DayKey) Number() string {
	n, _, _ := strings.Cut(string(k), " ")
	return n
}

// String implements fmt.Stringer.
func (k DayKey) String() string { return string(k) }

// Schedule is the parsed result: workshops per day plus the order in which
// days were first seen. Order is authoritative for display and export
// naming and is never re-sorted.
type Schedule struct {
	Days  map[DayKey][]Workshop `json:"days" yaml:"days"`
	Order []DayKey              `json:"order" yaml:"order"`
}

// NewSchedule returns an empty schedule ready for appends.
func NewSchedule() Schedule {
	return Schedule{
		Days:  make(map[DayKey][]Workshop),
		Order: []DayKey{},
	}
}

// Len returns the number of days.
func (s Schedule) Len() int { return len(s.Order) }

// Events returns the workshops of a day in input order.
func (s Schedule) Events(key DayKey) []Workshop { return s.Days[key] }

// Counts returns the number of workshops per day.
func (s Schedule) Counts() map[DayKey]int {
	counts := make(map[DayKey]int, len(s.Order))
	for _, k := range s.Order {
		counts[k] = len(s.Days[k])
	}
	return counts
}

// TotalEvents returns the number of workshops across all days.
func (s Schedule) TotalEvents() int {
	total := 0
	for _, k := range s.Order {
		total += len(s.Days[k])
	}
	return total
}

// ColumnAssignment splits the ordered day keys into two display columns.
// Every key appears on exactly one side.
type ColumnAssignment struct {
	Left  []DayKey `json:"left" yaml:"left"`
	Right []DayKey `json:"right" yaml:"right"`
}
