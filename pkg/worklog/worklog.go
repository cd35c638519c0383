package worklog

import (
	"errors"

	"github.com/worklogr/worklogr/pkg/tracker"
)

var (
	ErrNoEntries     = errors.New("no worklog entries to submit")
	ErrNoWorkingDays = errors.New("no working days in the requested range")
	ErrInvalidHours  = errors.New("work hours must be greater than 0 and at most 24")
)

// OtherProject is the fallback project offered when the remote catalog is
// empty, so a worklog can still be filed.
var OtherProject = tracker.Project{Id: 0, Name: "Other", Code: "OTHER"}

// ProposedEntry is a single not-yet-submitted worklog: one project on one
// day. ProjectId stays 0 until the entry is resolved against the catalog.
type ProposedEntry struct {
	Date        string
	ProjectCode string
	ProjectName string
	ProjectId   int
	Hours       float64
	TypeOfWork  int
}

// SubmissionResult summarizes one submission batch. Skipped counts entries
// the user deselected before submitting.
type SubmissionResult struct {
	Submitted    int
	Skipped      int
	Confirmation tracker.Confirmation
}
