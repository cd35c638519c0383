package event_bus

const (
	// CredentialChanged is published when a passively observed credential
	// differs from the current one and replaces it.
	CredentialChanged EventType = "session.credential.changed"
)

// CredentialChangedData carries the source of the new credential. The
// credential itself stays inside the session manager.
type CredentialChangedData struct {
	Source string // "manual" or "observed"
}
