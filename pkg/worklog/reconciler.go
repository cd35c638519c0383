package worklog

import (
	"github.com/worklogr/worklogr/pkg/tracker"
)

// Reconcile computes the entries needed to close the gap between allocated
// and already-logged hours, day by day. Weekend and holiday days are skipped,
// as are days without allocations. Logged hours are summed per project code,
// so split records against the same project count in full. The result
// preserves the overview's day and allocation order.
//
// Running Reconcile on an overview where all proposals were already submitted
// yields nothing, so repeated runs are safe.
func Reconcile(overview []tracker.DayOverview) []ProposedEntry {
	proposals := make([]ProposedEntry, 0)

	for _, day := range overview {
		if day.IsWeekend || day.IsHoliday {
			continue
		}
		if day.Allocated == nil || len(day.Allocated.Detail) == 0 {
			continue
		}

		if day.WorkLogs == nil || day.WorkLogs.TotalHours == 0 {
			for _, allocation := range day.Allocated.Detail {
				proposals = append(proposals, ProposedEntry{
					Date:        day.Date,
					ProjectCode: allocation.Code,
					ProjectName: allocation.Name,
					Hours:       allocation.Hours,
					TypeOfWork:  tracker.TypeOfWorkNormal,
				})
			}
			continue
		}

		loggedByCode := make(map[string]float64)
		for _, logged := range day.WorkLogs.Detail {
			loggedByCode[logged.Done] += logged.Hours
		}

		for _, allocation := range day.Allocated.Detail {
			gap := allocation.Hours - loggedByCode[allocation.Code]
			if gap <= 0 {
				continue
			}
			proposals = append(proposals, ProposedEntry{
				Date:        day.Date,
				ProjectCode: allocation.Code,
				ProjectName: allocation.Name,
				Hours:       gap,
				TypeOfWork:  tracker.TypeOfWorkNormal,
			})
		}
	}

	return proposals
}
