// Package export derives names for exported poster images.
package export

import (
	"github.com/okian/posterboard/internal/domain/model"
)

// Extension is appended to every exported file name.
const Extension = ".png"

const baseName = "workshop-schedule"

// FileName names the exported image after the days it shows, using the
// day numbers of the first and last day in discovery order:
//
//	no days   workshop-schedule.png
//	one day   workshop-day-1.png
//	more      workshop-days-1-to-3.png
func FileName(order []model.DayKey) string {
	switch len(order) {
	case 0:
		return baseName + Extension
	case 1:
		return "workshop-day-" + order[0].Number() + Extension
	default:
		first := order[0].Number()
		last := order[len(order)-1].Number()
		return "workshop-days-" + first + "-to-" + last + Extension
	}
}
