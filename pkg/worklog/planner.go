package worklog

import (
	"time"

	"github.com/worklogr/worklogr/internal/utils"
	"github.com/worklogr/worklogr/pkg/tracker"
)

// PlanUniform spreads the same number of hours for one project over every
// weekday between from and to, inclusive, skipping the given leave dates
// (ISO dates). Returns ErrNoWorkingDays when nothing remains after skipping
// and ErrInvalidHours when hours is outside (0, 24].
func PlanUniform(project tracker.Project, hours float64, from, to time.Time, leaveDates []string) ([]ProposedEntry, error) {
	if hours <= 0 || hours > 24 {
		return nil, ErrInvalidHours
	}

	leave := make(map[string]bool, len(leaveDates))
	for _, date := range leaveDates {
		leave[date] = true
	}

	entries := make([]ProposedEntry, 0)
	for _, day := range utils.WeekdaysBetween(from, to) {
		date := utils.FormatDate(day)
		if leave[date] {
			continue
		}
		entries = append(entries, ProposedEntry{
			Date:        date,
			ProjectCode: project.Code,
			ProjectName: project.Name,
			ProjectId:   project.Id,
			Hours:       hours,
			TypeOfWork:  tracker.TypeOfWorkNormal,
		})
	}
	if len(entries) == 0 {
		return nil, ErrNoWorkingDays
	}
	return entries, nil
}
