package session

import (
	"context"
	"sync"
	"time"

	"github.com/worklogr/worklogr/pkg/tracker"
)

// RepositoryStub is an in-memory Repository for tests. Call counters let
// tests assert that deduplication skipped persistence.
type RepositoryStub struct {
	mu     sync.Mutex
	stored *StoredSession

	loadErr  error
	storeErr error

	StoreCredentialCalls int
	StoreIdentityCalls   int
}

func NewRepositoryStub() *RepositoryStub {
	return &RepositoryStub{}
}

func (r *RepositoryStub) Seed(stored StoredSession) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stored = &stored
}

func (r *RepositoryStub) FailLoad(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.loadErr = err
}

func (r *RepositoryStub) FailStore(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.storeErr = err
}

func (r *RepositoryStub) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stored = nil
	r.loadErr = nil
	r.storeErr = nil
	r.StoreCredentialCalls = 0
	r.StoreIdentityCalls = 0
}

func (r *RepositoryStub) Load(ctx context.Context) (*StoredSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.loadErr != nil {
		return nil, r.loadErr
	}
	if r.stored == nil {
		return nil, nil
	}
	copied := *r.stored
	if r.stored.Identity != nil {
		identity := *r.stored.Identity
		copied.Identity = &identity
	}
	return &copied, nil
}

func (r *RepositoryStub) StoreCredential(ctx context.Context, credential string, capturedAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.StoreCredentialCalls++
	if r.storeErr != nil {
		return r.storeErr
	}
	r.stored = &StoredSession{Credential: credential, CapturedAt: capturedAt}
	return nil
}

func (r *RepositoryStub) StoreIdentity(ctx context.Context, identity tracker.Identity) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.StoreIdentityCalls++
	if r.storeErr != nil {
		return r.storeErr
	}
	if r.stored != nil {
		r.stored.Identity = &identity
	}
	return nil
}
