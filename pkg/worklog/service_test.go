package worklog

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/worklogr/worklogr/internal/event_bus"
	"github.com/worklogr/worklogr/pkg/session"
	"github.com/worklogr/worklogr/pkg/tracker"
)

func newTestService(t *testing.T) (*ServiceImpl, *tracker.ClientStub) {
	t.Helper()
	client := tracker.NewClientStub()
	client.SetIdentity(tracker.Identity{Id: 42, Username: "jdoe"})
	manager := session.NewManager(session.NewRepositoryStub(), client, event_bus.NewEventBus())
	_, err := manager.SetManualCredential(context.Background(), "abc123")
	require.NoError(t, err)
	_, err = manager.ResolveIdentity(context.Background())
	require.NoError(t, err)
	return NewService(manager, client), client
}

func TestServiceProjects(t *testing.T) {
	t.Run("returns remote catalog", func(t *testing.T) {
		service, client := newTestService(t)
		client.SetProjects([]tracker.Project{
			{Id: 7, Name: "Project A", Code: "PRJA"},
			{Id: 8, Name: "Project B", Code: "PRJB"},
		})

		projects, err := service.Projects(context.Background(), "2025-01-06")

		require.NoError(t, err)
		require.Len(t, projects, 2)
		assert.Equal(t, "abc123", client.LastToken)
	})

	t.Run("offers fallback project when catalog is empty", func(t *testing.T) {
		service, _ := newTestService(t)

		projects, err := service.Projects(context.Background(), "2025-01-06")

		require.NoError(t, err)
		require.Len(t, projects, 1)
		assert.Equal(t, OtherProject, projects[0])
	})

	t.Run("fails without a credential", func(t *testing.T) {
		client := tracker.NewClientStub()
		manager := session.NewManager(session.NewRepositoryStub(), client, event_bus.NewEventBus())
		service := NewService(manager, client)

		_, err := service.Projects(context.Background(), "2025-01-06")

		assert.ErrorIs(t, err, session.ErrNoCredential)
		assert.Equal(t, 0, client.ProjectsCalls)
	})
}

func TestServiceProposals(t *testing.T) {
	t.Run("reconciles overview and resolves project ids", func(t *testing.T) {
		service, client := newTestService(t)
		client.SetOverview([]tracker.DayOverview{
			{
				Date: "2025-01-06",
				Allocated: &tracker.AllocationSummary{Detail: []tracker.AllocationDetail{
					{Code: "PRJA", Name: "Project A", Hours: 4},
					{Code: "PRJB", Name: "Project B", Hours: 4},
				}},
				WorkLogs: &tracker.WorkLogSummary{TotalHours: 2, Detail: []tracker.WorkLogDetail{
					{Done: "PRJA", Hours: 2},
				}},
			},
		})
		client.SetProjects([]tracker.Project{
			{Id: 7, Name: "Project A", Code: "PRJA"},
			{Id: 8, Name: "Project B", Code: "PRJB"},
		})

		proposals, err := service.Proposals(context.Background(), "2025-01-06", "2025-01-10")

		require.NoError(t, err)
		require.Len(t, proposals, 2)
		assert.Equal(t, 7, proposals[0].ProjectId)
		assert.Equal(t, 2.0, proposals[0].Hours)
		assert.Equal(t, 8, proposals[1].ProjectId)
		assert.Equal(t, 4.0, proposals[1].Hours)
	})

	t.Run("returns unresolved proposals when catalog fetch fails", func(t *testing.T) {
		service, client := newTestService(t)
		client.SetOverview([]tracker.DayOverview{
			{
				Date: "2025-01-06",
				Allocated: &tracker.AllocationSummary{Detail: []tracker.AllocationDetail{
					{Code: "PRJA", Name: "Project A", Hours: 8},
				}},
			},
		})
		client.FailProjects(errors.New("gateway timeout"))

		proposals, err := service.Proposals(context.Background(), "2025-01-06", "2025-01-10")

		require.NoError(t, err)
		require.Len(t, proposals, 1)
		assert.Equal(t, 0, proposals[0].ProjectId)
	})

	t.Run("skips catalog fetch when nothing needs submitting", func(t *testing.T) {
		service, client := newTestService(t)
		client.SetOverview([]tracker.DayOverview{{Date: "2025-01-04", IsWeekend: true}})

		proposals, err := service.Proposals(context.Background(), "2025-01-04", "2025-01-05")

		require.NoError(t, err)
		assert.Empty(t, proposals)
		assert.Equal(t, 0, client.ProjectsCalls)
	})

	t.Run("propagates overview failures", func(t *testing.T) {
		service, client := newTestService(t)
		client.FailOverview(tracker.ErrUnauthorized)

		_, err := service.Proposals(context.Background(), "2025-01-06", "2025-01-10")

		assert.ErrorIs(t, err, tracker.ErrUnauthorized)
	})
}

func TestServicePlan(t *testing.T) {
	t.Run("plans against a catalog project", func(t *testing.T) {
		service, client := newTestService(t)
		client.SetProjects([]tracker.Project{{Id: 7, Name: "Project A", Code: "PRJA"}})
		from := time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)
		to := time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)

		entries, err := service.Plan(context.Background(), "PRJA", 8, from, to, []string{"2025-01-08"})

		require.NoError(t, err)
		require.Len(t, entries, 4)
		assert.Equal(t, 7, entries[0].ProjectId)
	})

	t.Run("plans against the fallback project on an empty catalog", func(t *testing.T) {
		service, _ := newTestService(t)
		from := time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)

		entries, err := service.Plan(context.Background(), "OTHER", 8, from, from, nil)

		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, 0, entries[0].ProjectId)
		assert.Equal(t, "Other", entries[0].ProjectName)
	})

	t.Run("rejects unknown project codes", func(t *testing.T) {
		service, client := newTestService(t)
		client.SetProjects([]tracker.Project{{Id: 7, Name: "Project A", Code: "PRJA"}})
		from := time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)

		_, err := service.Plan(context.Background(), "NOPE", 8, from, from, nil)

		assert.ErrorIs(t, err, ErrUnknownProject)
	})
}

func TestServiceSubmit(t *testing.T) {
	t.Run("fails with no entries before any network call", func(t *testing.T) {
		service, client := newTestService(t)

		_, err := service.Submit(context.Background(), nil, 3)

		assert.ErrorIs(t, err, ErrNoEntries)
		assert.Equal(t, 0, client.SubmitCalls)
	})

	t.Run("rejects out-of-range hours before any network call", func(t *testing.T) {
		service, client := newTestService(t)
		entries := []ProposedEntry{
			{Date: "2025-01-06", ProjectCode: "PRJA", ProjectId: 7, Hours: 25, TypeOfWork: tracker.TypeOfWorkNormal},
		}

		_, err := service.Submit(context.Background(), entries, 0)

		assert.ErrorIs(t, err, ErrInvalidHours)
		assert.Equal(t, 0, client.SubmitCalls)
	})

	t.Run("submits one batch and reports counts", func(t *testing.T) {
		service, client := newTestService(t)
		client.SetConfirmation(tracker.Confirmation{Message: "Worklog submitted successfully", ReceiptId: "r-1"})
		entries := []ProposedEntry{
			{Date: "2025-01-06", ProjectCode: "PRJA", ProjectId: 7, Hours: 6, TypeOfWork: tracker.TypeOfWorkNormal},
			{Date: "2025-01-07", ProjectCode: "PRJA", ProjectId: 7, Hours: 7.5, TypeOfWork: tracker.TypeOfWorkNormal},
		}

		result, err := service.Submit(context.Background(), entries, 1)

		require.NoError(t, err)
		assert.Equal(t, 2, result.Submitted)
		assert.Equal(t, 1, result.Skipped)
		assert.Equal(t, "r-1", result.Confirmation.ReceiptId)
		assert.Equal(t, 1, client.SubmitCalls)
		require.Len(t, client.LastPayload.WorkLogs, 2)
		assert.Equal(t, "2025-01-06", client.LastPayload.WorkLogs[0].Date)
		assert.Equal(t, 6.0, client.LastPayload.WorkLogs[0].WorkHours)
		assert.Equal(t, tracker.TypeOfWorkNormal, client.LastPayload.WorkLogs[0].TypeOfWork)
		assert.Equal(t, 7, client.LastPayload.WorkLogs[0].ProjectId)
		assert.Nil(t, client.LastPayload.WorkLogs[0].Description)
	})

	t.Run("resolves missing project ids before submitting", func(t *testing.T) {
		service, client := newTestService(t)
		client.SetProjects([]tracker.Project{{Id: 7, Name: "Project A", Code: "PRJA"}})
		entries := []ProposedEntry{
			{Date: "2025-01-06", ProjectCode: "PRJA", Hours: 8, TypeOfWork: tracker.TypeOfWorkNormal},
		}

		_, err := service.Submit(context.Background(), entries, 0)

		require.NoError(t, err)
		assert.Equal(t, 1, client.ProjectsCalls)
		require.Len(t, client.LastPayload.WorkLogs, 1)
		assert.Equal(t, 7, client.LastPayload.WorkLogs[0].ProjectId)
	})

	t.Run("submits fallback project entries without a catalog fetch", func(t *testing.T) {
		service, client := newTestService(t)
		entries := []ProposedEntry{
			{Date: "2025-01-06", ProjectCode: "OTHER", ProjectName: "Other", Hours: 8, TypeOfWork: tracker.TypeOfWorkNormal},
		}

		_, err := service.Submit(context.Background(), entries, 0)

		require.NoError(t, err)
		assert.Equal(t, 0, client.ProjectsCalls)
		assert.Equal(t, 0, client.LastPayload.WorkLogs[0].ProjectId)
	})

	t.Run("surfaces tracker rejections unchanged", func(t *testing.T) {
		service, client := newTestService(t)
		client.FailSubmit(tracker.ErrUnauthorized)
		entries := []ProposedEntry{
			{Date: "2025-01-06", ProjectCode: "PRJA", ProjectId: 7, Hours: 8, TypeOfWork: tracker.TypeOfWorkNormal},
		}

		_, err := service.Submit(context.Background(), entries, 0)

		assert.ErrorIs(t, err, tracker.ErrUnauthorized)
	})
}
