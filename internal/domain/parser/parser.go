// Package parser turns loosely structured, pasted schedule text into a
// day-grouped Schedule.
//
// Three line shapes are understood and may be mixed freely:
//
//	1 Perşembe<TAB>13.00-15.00 Örgünü Al Gel Atölyesi   combined
//	1 Perşembe                                          day header
//	13.00-15.00 Örgünü Al Gel Atölyesi                  continuation
//
// Lines are tried against the shapes in that order and the first match
// wins. Continuations attach to the most recently mentioned day. Anything
// else is dropped; parsing never fails.
package parser

import (
	"regexp"
	"strings"

	"github.com/okian/posterboard/internal/domain/model"
)

// LineKind is the classification of a single trimmed input line.
type LineKind int

// Line classifications, in match priority order.
const (
	LineBlank LineKind = iota
	LineCombined
	LineDay
	LineTime
	LineUnknown
)

func (k LineKind) String() string {
	switch k {
	case LineBlank:
		return "blank"
	case LineCombined:
		return "combined"
	case LineDay:
		return "day"
	case LineTime:
		return "time"
	default:
		return "unknown"
	}
}

// Separators are any ASCII or Unicode space, so pasted non-breaking spaces
// split fields like ordinary ones.
const ws = `[\s\p{Zs}]`

var (
	// <digits><ws><label without digits or tabs><TAB><time><ws><title>
	combinedRe = regexp.MustCompile(`^(\d+)` + ws + `+([^\t\d]+)\t([\d.\-]+)` + ws + `+(.+)$`)
	// <digits><ws><label without digits>
	dayRe = regexp.MustCompile(`^(\d+)` + ws + `+([^0-9]+)$`)
	// <time><ws><title>
	timeRe = regexp.MustCompile(`^([\d.\-]+)` + ws + `+(.+)$`)
	// <digits><optional ws><TAB><time><ws><title>: a combined line whose day
	// label is empty. A tab-separated day header or a combined line with a
	// real label never reaches a time token right after the first tab.
	emptyLabelRe = regexp.MustCompile(`^\d+` + ws + `*\t[\d.\-]+` + ws + `+.+$`)
)

// day is the current-day context carried across lines.
type day struct {
	number string
	label  string
}

func (d day) key() model.DayKey { return model.NewDayKey(d.number, d.label) }

// matcher is one classification attempt. ok is false when the line does
// not have the matcher's shape.
type matcher struct {
	kind  LineKind
	match func(line string) (d day, slot, title string, ok bool)
}

// matchers are tried in order; the order is the tie-break between shapes.
var matchers = []matcher{
	{kind: LineUnknown, match: matchEmptyLabel},
	{kind: LineCombined, match: matchCombined},
	{kind: LineDay, match: matchDay},
	{kind: LineTime, match: matchTime},
}

func matchEmptyLabel(line string) (day, string, string, bool) {
	return day{}, "", "", emptyLabelRe.MatchString(line)
}

func matchCombined(line string) (day, string, string, bool) {
	m := combinedRe.FindStringSubmatch(line)
	if m == nil {
		return day{}, "", "", false
	}
	label := strings.TrimSpace(m[2])
	if label == "" {
		return day{}, "", "", false
	}
	return day{number: m[1], label: label}, m[3], m[4], true
}

func matchDay(line string) (day, string, string, bool) {
	m := dayRe.FindStringSubmatch(line)
	if m == nil {
		return day{}, "", "", false
	}
	return day{number: m[1], label: m[2]}, "", "", true
}

func matchTime(line string) (day, string, string, bool) {
	m := timeRe.FindStringSubmatch(line)
	if m == nil {
		return day{}, "", "", false
	}
	return day{}, m[1], m[2], true
}

// Classify reports which shape a single line has, ignoring any day context.
func Classify(line string) LineKind {
	line = strings.TrimSpace(line)
	if line == "" {
		return LineBlank
	}
	for _, m := range matchers {
		if _, _, _, ok := m.match(line); ok {
			return m.kind
		}
	}
	return LineUnknown
}

// Parse converts pasted text into a Schedule. It never fails: empty input
// yields an empty schedule and unrecognised lines are skipped.
func Parse(text string) model.Schedule {
	s, _ := ParseWithStats(text)
	return s
}

// ParseWithStats is Parse plus a tally of how each line was treated.
func ParseWithStats(text string) (model.Schedule, model.LineStats) {
	s := model.NewSchedule()
	var stats model.LineStats

	text = strings.TrimSpace(text)
	if text == "" {
		return s, stats
	}

	var current *day
	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		stats.Lines++

		kind, d, slot, title := classify(line)
		switch kind {
		case LineCombined:
			stats.Combined++
			ensureDay(&s, d.key())
			appendWorkshop(&s, d, slot, title)
			current = &d
		case LineDay:
			stats.DayOnly++
			ensureDay(&s, d.key())
			current = &d
		case LineTime:
			if current == nil {
				stats.Orphaned++
				continue
			}
			stats.TimeOnly++
			appendWorkshop(&s, *current, slot, title)
		default:
			stats.Dropped++
		}
	}
	return s, stats
}

func classify(line string) (LineKind, day, string, string) {
	for _, m := range matchers {
		if d, slot, title, ok := m.match(line); ok {
			return m.kind, d, slot, title
		}
	}
	return LineUnknown, day{}, "", ""
}

func ensureDay(s *model.Schedule, key model.DayKey) {
	if _, ok := s.Days[key]; ok {
		return
	}
	s.Days[key] = []model.Workshop{}
	s.Order = append(s.Order, key)
}

func appendWorkshop(s *model.Schedule, d day, slot, title string) {
	key := d.key()
	s.Days[key] = append(s.Days[key], model.Workshop{
		DayLabel:  d.label,
		DayNumber: d.number,
		Time:      slot,
		Title:     title,
	})
}

// Excerpt returns the first n lines of text, followed by "..." when more
// lines exist. Used to show a collapsed input.
func Excerpt(text string, n int) string {
	if n <= 0 {
		return ""
	}
	lines := strings.Split(text, "\n")
	if len(lines) <= n {
		return text
	}
	return strings.Join(lines[:n], "\n") + "..."
}
