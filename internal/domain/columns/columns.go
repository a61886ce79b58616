// Package columns splits schedule days into two display columns so that the
// number of workshops on each side stays roughly even.
package columns

import (
	"sort"

	"github.com/okian/posterboard/internal/domain/model"
)

// weighted is a day key with its workshop count.
type weighted struct {
	key   model.DayKey
	count int
}

// Balance assigns every key to the left or right column.
//
// Zero, one and two keys are fixed cases: nothing, everything left, and
// first-left/second-right regardless of counts. With three or more keys the
// days are taken largest first (ties keep discovery order) and each goes to
// the left column while its running total is not above the right one.
// The greedy pass is not an optimal partition; callers rely on its exact
// output. Keys absent from counts weigh zero.
func Balance(keys []model.DayKey, counts map[model.DayKey]int) model.ColumnAssignment {
	switch len(keys) {
	case 0:
		return model.ColumnAssignment{Left: []model.DayKey{}, Right: []model.DayKey{}}
	case 1:
		return model.ColumnAssignment{Left: []model.DayKey{keys[0]}, Right: []model.DayKey{}}
	case 2:
		return model.ColumnAssignment{Left: []model.DayKey{keys[0]}, Right: []model.DayKey{keys[1]}}
	}

	days := make([]weighted, len(keys))
	for i, k := range keys {
		days[i] = weighted{key: k, count: counts[k]}
	}
	sort.SliceStable(days, func(i, j int) bool {
		return days[i].count > days[j].count
	})

	out := model.ColumnAssignment{Left: []model.DayKey{}, Right: []model.DayKey{}}
	leftTotal, rightTotal := 0, 0
	for _, d := range days {
		if leftTotal <= rightTotal {
			out.Left = append(out.Left, d.key)
			leftTotal += d.count
		} else {
			out.Right = append(out.Right, d.key)
			rightTotal += d.count
		}
	}
	return out
}

// ForSchedule balances the days of a parsed schedule.
func ForSchedule(s model.Schedule) model.ColumnAssignment {
	return Balance(s.Order, s.Counts())
}

// Totals returns the workshop count of each column.
func Totals(a model.ColumnAssignment, counts map[model.DayKey]int) (left, right int) {
	for _, k := range a.Left {
		left += counts[k]
	}
	for _, k := range a.Right {
		right += counts[k]
	}
	return left, right
}

// Imbalance is the absolute difference between the column totals.
func Imbalance(a model.ColumnAssignment, counts map[model.DayKey]int) int {
	left, right := Totals(a, counts)
	if left > right {
		return left - right
	}
	return right - left
}
