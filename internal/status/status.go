// Package status derives the maintenance urgency of a guitar from its
// log history. The derivation is pure and time-dependent: it is never
// cached, so two evaluations on different days can disagree for the
// same stored data.
package status

import (
	"math"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/vonshlovens/fretlog/internal/model"
)

// Day boundaries for the urgency thresholds. daysSince > urgentAfter is
// urgent, daysSince > warningAfter is warning, everything else is good.
const (
	warningAfter = 90
	urgentAfter  = 180
)

// Calculate derives the maintenance status of a guitar against the
// current wall clock. logs may contain entries for any guitar; only
// those matching the guitar's id are considered.
func Calculate(guitar model.Guitar, logs []model.MaintenanceLog) model.GuitarWithStatus {
	return CalculateAt(guitar, logs, time.Now())
}

// CalculateAt is Calculate with an explicit evaluation time.
//
// The most recent log (maximum maintenanceDate) wins; ties between logs
// sharing the same date resolve to whichever comes first in the slice.
// A guitar with no logs at all reports good with zero days, a deliberate
// "nothing overdue" default.
func CalculateAt(guitar model.Guitar, logs []model.MaintenanceLog, now time.Time) model.GuitarWithStatus {
	var last *model.MaintenanceLog
	for i := range logs {
		if logs[i].GuitarID != guitar.ID {
			continue
		}
		if last == nil || logs[i].MaintenanceDate.After(last.MaintenanceDate) {
			last = &logs[i]
		}
	}

	result := model.GuitarWithStatus{
		Guitar: guitar,
		Status: model.StatusGood,
	}
	if last == nil {
		return result
	}

	date := last.MaintenanceDate
	result.LastMaintenanceDate = &date

	days := int(math.Floor(now.Sub(date).Hours() / 24))
	result.DaysSinceMaintenance = days

	switch {
	case days > urgentAfter:
		result.Status = model.StatusUrgent
	case days > warningAfter:
		result.Status = model.StatusWarning
	default:
		result.Status = model.StatusGood
	}

	return result
}

// Color returns the terminal color for rendering a status badge
func Color(s model.MaintenanceStatus) lipgloss.Color {
	switch s {
	case model.StatusUrgent:
		return lipgloss.Color("9") // red
	case model.StatusWarning:
		return lipgloss.Color("208") // orange
	case model.StatusGood:
		return lipgloss.Color("10") // green
	default:
		return lipgloss.Color("8") // gray, unreachable for the closed set
	}
}

// Text returns the human-readable label for a status
func Text(s model.MaintenanceStatus) string {
	switch s {
	case model.StatusUrgent:
		return "Needs Maintenance"
	case model.StatusWarning:
		return "Due Soon"
	case model.StatusGood:
		return "Recently Maintained"
	default:
		return "Unknown"
	}
}

// Render formats a status label in its color for terminal output
func Render(s model.MaintenanceStatus) string {
	return lipgloss.NewStyle().Foreground(Color(s)).Render(Text(s))
}
