package app

import (
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
	"github.com/worklogr/worklogr/internal/config"
	"github.com/worklogr/worklogr/internal/event_bus"
	"github.com/worklogr/worklogr/internal/utils"
	"github.com/worklogr/worklogr/pkg/session"
	"github.com/worklogr/worklogr/pkg/tracker"
	"github.com/worklogr/worklogr/pkg/worklog"
)

// Dependencies holds all services and handlers for the application.
type Dependencies struct {
	Bus *event_bus.EventBus

	TrackerClient tracker.Client

	SessionRepo    session.Repository
	SessionManager session.Manager
	SessionHandler *session.SessionHandler

	WorklogService worklog.Service
	WorklogHandler *worklog.WorklogHandler

	Clock utils.Clock
}

// BuildDependencies initializes and wires all application services and handlers.
func BuildDependencies(db *pgxpool.Pool, cfg config.Application) *Dependencies {
	deps := &Dependencies{}

	deps.Bus = event_bus.NewEventBus()
	deps.Clock = &utils.SystemClock{}

	deps.TrackerClient = tracker.NewClient(cfg.Tracker.BaseURL)

	deps.SessionRepo = session.NewRepository(db)
	manager := session.NewManager(deps.SessionRepo, deps.TrackerClient, deps.Bus)
	deps.SessionManager = manager
	deps.SessionHandler = session.NewSessionHandler(manager)

	deps.WorklogService = worklog.NewService(manager, deps.TrackerClient)
	deps.WorklogHandler = worklog.NewWorklogHandler(deps.WorklogService)

	// A freshly captured credential triggers a best-effort identity refresh,
	// so the UI sees who the token belongs to without an extra round trip.
	event_bus.SubscribeTyped(deps.Bus, event_bus.CredentialChanged,
		func(e event_bus.EventT[event_bus.CredentialChangedData]) error {
			if _, err := manager.ResolveIdentity(e.Context()); err != nil {
				log.Debugf("Identity refresh after credential change failed: %v", err)
			}
			return nil
		})

	return deps
}
