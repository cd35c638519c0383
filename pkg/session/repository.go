package session

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	log "github.com/sirupsen/logrus"
	"github.com/worklogr/worklogr/pkg/tracker"
)

// StoredSession is the persisted credential and the identity resolved for it.
type StoredSession struct {
	Credential string
	CapturedAt time.Time
	Identity   *tracker.Identity
}

// Repository persists the single credential profile. Validation failures
// never delete the stored row; it is only ever replaced.
type Repository interface {
	Load(ctx context.Context) (*StoredSession, error)
	StoreCredential(ctx context.Context, credential string, capturedAt time.Time) error
	StoreIdentity(ctx context.Context, identity tracker.Identity) error
}

type RepositoryImpl struct {
	db *pgxpool.Pool
}

func NewRepository(db *pgxpool.Pool) *RepositoryImpl {
	return &RepositoryImpl{db: db}
}

func (r *RepositoryImpl) Load(ctx context.Context) (*StoredSession, error) {
	query := `SELECT credential, captured_at, user_id, username, email FROM session_credentials WHERE id = 1`

	var stored StoredSession
	var userId *int
	var username, email *string
	err := r.db.QueryRow(ctx, query).Scan(&stored.Credential, &stored.CapturedAt, &userId, &username, &email)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	} else if err != nil {
		log.Errorf("failed to load stored session: %v", err)
		return nil, err
	}

	if userId != nil {
		identity := tracker.Identity{Id: *userId}
		if username != nil {
			identity.Username = *username
		}
		if email != nil {
			identity.Email = *email
		}
		stored.Identity = &identity
	}
	return &stored, nil
}

// StoreCredential replaces the persisted credential and clears the identity
// fields; they belong to the previous credential.
func (r *RepositoryImpl) StoreCredential(ctx context.Context, credential string, capturedAt time.Time) error {
	query := `INSERT INTO session_credentials (id, credential, captured_at, user_id, username, email)
				VALUES (1, $1, $2, NULL, NULL, NULL)
				ON CONFLICT (id) DO UPDATE
				SET credential = $1, captured_at = $2, user_id = NULL, username = NULL, email = NULL`
	_, err := r.db.Exec(ctx, query, credential, capturedAt)
	if err != nil {
		log.Errorf("failed to store credential: %v", err)
		return err
	}
	return nil
}

func (r *RepositoryImpl) StoreIdentity(ctx context.Context, identity tracker.Identity) error {
	query := `UPDATE session_credentials SET user_id = $1, username = $2, email = $3 WHERE id = 1`
	_, err := r.db.Exec(ctx, query, identity.Id, identity.Username, identity.Email)
	if err != nil {
		log.Errorf("failed to store identity: %v", err)
		return err
	}
	return nil
}
