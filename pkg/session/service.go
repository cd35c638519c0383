package session

import (
	"context"
	"fmt"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/worklogr/worklogr/internal/event_bus"
	"github.com/worklogr/worklogr/internal/utils"
	"github.com/worklogr/worklogr/pkg/tracker"
)

// Manager owns the in-memory credential and its lifecycle state.
type Manager interface {
	// LoadPersisted restores the last known credential and identity from the
	// store. No network call is made; a restored credential starts unvalidated.
	LoadPersisted(ctx context.Context) (Session, error)
	// SetManualCredential normalizes and stores a credential entered by the
	// user, replacing whatever was present.
	SetManualCredential(ctx context.Context, raw string) (Session, error)
	// ObserveCredential feeds a passively captured credential. It persists and
	// announces the change only when the normalized value differs from the
	// current one; the returned bool reports whether anything changed.
	ObserveCredential(ctx context.Context, raw string) (bool, error)
	// Validate probes the identity endpoint with the current credential.
	// Failures of any kind (rejection, network, parse) yield false, never an
	// error, and never touch the stored credential.
	Validate(ctx context.Context) bool
	// ResolveIdentity probes the identity endpoint and persists the resolved
	// identity. Errors carry the tracker taxonomy and are not retried here.
	ResolveIdentity(ctx context.Context) (tracker.Identity, error)
	// FetchRates is best-effort supplementary data; it reports ok=false on any
	// failure instead of an error.
	FetchRates(ctx context.Context) (RatesSummary, bool)
	// Current returns a snapshot of the session.
	Current() Session
	// Credential returns the current credential, if any.
	Credential() (string, bool)
}

type ManagerImpl struct {
	mu     sync.RWMutex
	repo   Repository
	client tracker.Client
	bus    *event_bus.EventBus
	clock  utils.Clock

	state      State
	credential string
	capturedAt time.Time
	identity   *tracker.Identity
}

func NewManager(repo Repository, client tracker.Client, bus *event_bus.EventBus) *ManagerImpl {
	return &ManagerImpl{
		repo:   repo,
		client: client,
		bus:    bus,
		clock:  &utils.SystemClock{},
		state:  StateNoCredential,
	}
}

func (m *ManagerImpl) LoadPersisted(ctx context.Context) (Session, error) {
	stored, err := m.repo.Load(ctx)
	if err != nil {
		return Session{}, fmt.Errorf("failed to load persisted session: %w", err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if stored == nil {
		m.state = StateNoCredential
		m.credential = ""
		m.identity = nil
		return m.snapshotLocked(), nil
	}

	m.state = StateUnvalidated
	m.credential = stored.Credential
	m.capturedAt = stored.CapturedAt
	m.identity = stored.Identity
	log.Debugf("Restored persisted credential (captured at %s)", stored.CapturedAt)
	return m.snapshotLocked(), nil
}

func (m *ManagerImpl) SetManualCredential(ctx context.Context, raw string) (Session, error) {
	normalized, err := NormalizeCredential(raw)
	if err != nil {
		return Session{}, err
	}

	now := m.clock.Now()
	m.mu.Lock()
	m.credential = normalized
	m.state = StateUnvalidated
	m.capturedAt = now
	m.identity = nil
	snapshot := m.snapshotLocked()
	m.mu.Unlock()

	if err := m.repo.StoreCredential(ctx, normalized, now); err != nil {
		return Session{}, fmt.Errorf("failed to persist credential: %w", err)
	}
	log.Info("Credential replaced by manual entry")
	return snapshot, nil
}

func (m *ManagerImpl) ObserveCredential(ctx context.Context, raw string) (bool, error) {
	normalized, err := NormalizeCredential(raw)
	if err != nil {
		return false, err
	}

	m.mu.Lock()
	if normalized == m.credential {
		m.mu.Unlock()
		log.Trace("Observed credential is unchanged, ignoring")
		return false, nil
	}
	now := m.clock.Now()
	m.credential = normalized
	m.state = StateUnvalidated
	m.capturedAt = now
	m.identity = nil
	m.mu.Unlock()

	if err := m.repo.StoreCredential(ctx, normalized, now); err != nil {
		return false, fmt.Errorf("failed to persist observed credential: %w", err)
	}
	log.Info("New credential captured from observed traffic")

	if err := m.bus.Publish(event_bus.NewEvent(ctx, event_bus.CredentialChanged,
		event_bus.CredentialChangedData{Source: "observed"})); err != nil {
		log.Warnf("credential change handlers failed: %v", err)
	}
	return true, nil
}

func (m *ManagerImpl) Validate(ctx context.Context) bool {
	credential, ok := m.Credential()
	if !ok {
		return false
	}

	_, err := m.client.CurrentUser(ctx, credential)

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.credential != credential {
		// Credential was replaced while the probe was in flight; the result
		// no longer applies.
		return err == nil
	}
	if err != nil {
		log.Debugf("Credential validation failed: %v", err)
		m.state = StateInvalid
		return false
	}
	m.state = StateValid
	return true
}

func (m *ManagerImpl) ResolveIdentity(ctx context.Context) (tracker.Identity, error) {
	credential, ok := m.Credential()
	if !ok {
		return tracker.Identity{}, ErrNoCredential
	}

	identity, err := m.client.CurrentUser(ctx, credential)
	if err != nil {
		m.mu.Lock()
		if m.credential == credential {
			m.state = StateInvalid
		}
		m.mu.Unlock()
		return tracker.Identity{}, err
	}

	m.mu.Lock()
	if m.credential == credential {
		m.identity = &identity
		m.state = StateValid
	}
	m.mu.Unlock()

	if err := m.repo.StoreIdentity(ctx, identity); err != nil {
		return tracker.Identity{}, fmt.Errorf("failed to persist identity: %w", err)
	}
	log.Infof("Resolved identity: %s (id %d)", identity.Username, identity.Id)
	return identity, nil
}

func (m *ManagerImpl) FetchRates(ctx context.Context) (RatesSummary, bool) {
	credential, ok := m.Credential()
	if !ok {
		return RatesSummary{}, false
	}
	m.mu.RLock()
	identity := m.identity
	m.mu.RUnlock()
	if identity == nil {
		return RatesSummary{}, false
	}

	rates, err := m.client.UserRates(ctx, credential, identity.Id)
	if err != nil {
		log.Debugf("Failed to fetch user rates: %v", err)
		return RatesSummary{}, false
	}
	if len(rates) == 0 {
		return RatesSummary{}, false
	}
	return summarizeRates(rates), true
}

// summarizeRates averages the first two rate records, matching what the
// tracker's own dashboard displays.
func summarizeRates(rates []tracker.UserRate) RatesSummary {
	n := len(rates)
	if n > 2 {
		n = 2
	}
	var summary RatesSummary
	for _, rate := range rates[:n] {
		summary.AllocationRate += rate.Data.BusyRate
		summary.UtilizationRate += rate.Data.UtilizationRate
		summary.WorkLogRate += rate.Data.WorkLogRate
	}
	summary.AllocationRate /= float64(n)
	summary.UtilizationRate /= float64(n)
	summary.WorkLogRate /= float64(n)
	return summary
}

func (m *ManagerImpl) Current() Session {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.snapshotLocked()
}

func (m *ManagerImpl) Credential() (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.credential, m.credential != ""
}

func (m *ManagerImpl) snapshotLocked() Session {
	snapshot := Session{State: m.state, Credential: m.credential, CapturedAt: m.capturedAt}
	if m.identity != nil {
		identity := *m.identity
		snapshot.Identity = &identity
	}
	return snapshot
}
