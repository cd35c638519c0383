package worklog

import (
	"context"
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/worklogr/worklogr/internal/utils"
	"github.com/worklogr/worklogr/pkg/session"
	"github.com/worklogr/worklogr/pkg/tracker"
)

var ErrUnknownProject = errors.New("project not found in catalog")

// Service drives the worklog workflow against the tracker on behalf of the
// current session.
type Service interface {
	// Projects returns the catalog of assignable projects for a date. An
	// empty remote catalog yields the fallback Other project so the user can
	// still file a worklog.
	Projects(ctx context.Context, date string) ([]tracker.Project, error)
	// Proposals fetches the timesheet overview for the range and reconciles
	// it into submittable entries, with project ids resolved where the
	// catalog knows the code.
	Proposals(ctx context.Context, from string, to string) ([]ProposedEntry, error)
	// Plan builds a uniform-hours plan for one project over a date range,
	// resolving the project code against the catalog first.
	Plan(ctx context.Context, projectCode string, hours float64, from time.Time, to time.Time, leaveDates []string) ([]ProposedEntry, error)
	// Submit sends the accepted entries in a single batch. Skipped is the
	// number of entries the user deselected, reported back unchanged.
	Submit(ctx context.Context, entries []ProposedEntry, skipped int) (SubmissionResult, error)
}

type ServiceImpl struct {
	manager session.Manager
	client  tracker.Client
}

func NewService(manager session.Manager, client tracker.Client) *ServiceImpl {
	return &ServiceImpl{manager: manager, client: client}
}

// authContext returns the credential and resolved identity, resolving the
// identity on demand when the session does not have one yet.
func (s *ServiceImpl) authContext(ctx context.Context) (string, tracker.Identity, error) {
	credential, ok := s.manager.Credential()
	if !ok {
		return "", tracker.Identity{}, session.ErrNoCredential
	}
	if identity := s.manager.Current().Identity; identity != nil {
		return credential, *identity, nil
	}
	identity, err := s.manager.ResolveIdentity(ctx)
	if err != nil {
		return "", tracker.Identity{}, err
	}
	return credential, identity, nil
}

func (s *ServiceImpl) Projects(ctx context.Context, date string) ([]tracker.Project, error) {
	credential, identity, err := s.authContext(ctx)
	if err != nil {
		return nil, err
	}

	projects, err := s.client.Projects(ctx, credential, identity.Id, date)
	if err != nil {
		return nil, err
	}
	if len(projects) == 0 {
		log.Debug("Project catalog is empty, offering fallback project")
		return []tracker.Project{OtherProject}, nil
	}
	return projects, nil
}

func (s *ServiceImpl) Proposals(ctx context.Context, from string, to string) ([]ProposedEntry, error) {
	credential, identity, err := s.authContext(ctx)
	if err != nil {
		return nil, err
	}

	overview, err := s.client.TimesheetOverview(ctx, credential, identity.Id, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch timesheet overview: %w", err)
	}

	proposals := Reconcile(overview)
	if len(proposals) == 0 {
		return proposals, nil
	}

	catalog, err := s.client.Projects(ctx, credential, identity.Id, from)
	if err != nil {
		// Proposals are still useful without resolved ids; submission will
		// resolve them again.
		log.Warnf("Failed to fetch project catalog for id resolution: %v", err)
		return proposals, nil
	}
	resolveProjectIds(proposals, catalog)
	return proposals, nil
}

func (s *ServiceImpl) Plan(ctx context.Context, projectCode string, hours float64, from time.Time, to time.Time, leaveDates []string) ([]ProposedEntry, error) {
	projects, err := s.Projects(ctx, utils.FormatDate(from))
	if err != nil {
		return nil, err
	}

	var project *tracker.Project
	for i := range projects {
		if projects[i].Code == projectCode {
			project = &projects[i]
			break
		}
	}
	if project == nil {
		return nil, fmt.Errorf("%w: %s", ErrUnknownProject, projectCode)
	}

	return PlanUniform(*project, hours, from, to, leaveDates)
}

func (s *ServiceImpl) Submit(ctx context.Context, entries []ProposedEntry, skipped int) (SubmissionResult, error) {
	if len(entries) == 0 {
		return SubmissionResult{}, ErrNoEntries
	}
	for _, entry := range entries {
		if entry.Hours <= 0 || entry.Hours > 24 {
			return SubmissionResult{}, fmt.Errorf("%w: %s has %v hours", ErrInvalidHours, entry.Date, entry.Hours)
		}
	}

	credential, identity, err := s.authContext(ctx)
	if err != nil {
		return SubmissionResult{}, err
	}

	if hasUnresolvedProject(entries) {
		catalog, err := s.client.Projects(ctx, credential, identity.Id, entries[0].Date)
		if err != nil {
			return SubmissionResult{}, fmt.Errorf("failed to resolve project ids: %w", err)
		}
		resolveProjectIds(entries, catalog)
	}

	payload := tracker.SubmissionPayload{WorkLogs: make([]tracker.WorkLogEntry, 0, len(entries))}
	for _, entry := range entries {
		payload.WorkLogs = append(payload.WorkLogs, tracker.WorkLogEntry{
			Date:       entry.Date,
			WorkHours:  entry.Hours,
			TypeOfWork: entry.TypeOfWork,
			ProjectId:  entry.ProjectId,
		})
	}

	confirmation, err := s.client.SubmitWorklogs(ctx, credential, payload)
	if err != nil {
		return SubmissionResult{}, err
	}
	log.Infof("Submitted %d worklog entries (%d skipped)", len(entries), skipped)
	return SubmissionResult{Submitted: len(entries), Skipped: skipped, Confirmation: confirmation}, nil
}

func hasUnresolvedProject(entries []ProposedEntry) bool {
	for _, entry := range entries {
		if entry.ProjectId == 0 && entry.ProjectCode != OtherProject.Code {
			return true
		}
	}
	return false
}

// resolveProjectIds fills in project ids by catalog code match. Codes the
// catalog does not know keep id 0.
func resolveProjectIds(entries []ProposedEntry, catalog []tracker.Project) {
	byCode := make(map[string]int, len(catalog))
	for _, project := range catalog {
		byCode[project.Code] = project.Id
	}
	for i := range entries {
		if entries[i].ProjectId != 0 {
			continue
		}
		if id, ok := byCode[entries[i].ProjectCode]; ok {
			entries[i].ProjectId = id
		}
	}
}
