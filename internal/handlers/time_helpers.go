package handlers

import (
	"time"

	"github.com/veltagrid/appointments-api/internal/models"
	"github.com/veltagrid/appointments-api/internal/timezone"
)

// resolve the official timezone of the branch
func locationFromBranch(branch *models.Branch) *time.Location {
	if branch != nil && branch.Timezone != "" {
		return timezone.Location(branch.Timezone)
	}
	return timezone.Location("")
}

func parseDateInBranch(branch *models.Branch, dateStr string) (time.Time, error) {
	return time.ParseInLocation(
		"2006-01-02",
		dateStr,
		locationFromBranch(branch),
	)
}
