package session

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/worklogr/worklogr/internal/rest"
	"github.com/worklogr/worklogr/pkg/tracker"
)

type IdentityDTO struct {
	Id       int    `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email,omitempty"`
}

type SessionDTO struct {
	State             string       `json:"state"`
	CredentialPreview string       `json:"credentialPreview,omitempty"`
	CapturedAt        *time.Time   `json:"capturedAt,omitempty"`
	Identity          *IdentityDTO `json:"identity,omitempty"`
}

type CredentialDTO struct {
	Credential string `json:"credential"`
}

type ValidationDTO struct {
	Valid bool   `json:"valid"`
	State string `json:"state"`
}

type ObservedDTO struct {
	Changed bool   `json:"changed"`
	State   string `json:"state"`
}

type RatesSummaryDTO struct {
	AllocationRate  float64 `json:"allocationRate"`
	UtilizationRate float64 `json:"utilizationRate"`
	WorkLogRate     float64 `json:"workLogRate"`
}

func SessionToDTO(session Session) SessionDTO {
	dto := SessionDTO{State: string(session.State)}
	if session.Credential != "" {
		dto.CredentialPreview = CredentialPreview(session.Credential)
	}
	if !session.CapturedAt.IsZero() {
		capturedAt := session.CapturedAt
		dto.CapturedAt = &capturedAt
	}
	if session.Identity != nil {
		identity := IdentityToDTO(*session.Identity)
		dto.Identity = &identity
	}
	return dto
}

func IdentityToDTO(identity tracker.Identity) IdentityDTO {
	return IdentityDTO{Id: identity.Id, Username: identity.Username, Email: identity.Email}
}

type SessionHandler struct {
	manager Manager
}

func NewSessionHandler(manager Manager) *SessionHandler {
	return &SessionHandler{manager}
}

func (handler *SessionHandler) Get(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	session := handler.manager.Current()

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(SessionToDTO(session)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func (handler *SessionHandler) PutCredential(w http.ResponseWriter, r *http.Request) {
	log.Debug("Replacing credential from manual entry")
	w.Header().Set("Content-Type", "application/json")

	var credentialDTO CredentialDTO
	if err := json.NewDecoder(r.Body).Decode(&credentialDTO); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	session, err := handler.manager.SetManualCredential(r.Context(), credentialDTO.Credential)
	if err != nil {
		if errors.Is(err, ErrEmptyCredential) {
			rest.WriteError(w, http.StatusBadRequest, "credential is empty", "")
			return
		}
		rest.WriteError(w, http.StatusInternalServerError, "failed to store credential", err.Error())
		return
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(SessionToDTO(session)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func (handler *SessionHandler) PostObservedCredential(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var credentialDTO CredentialDTO
	if err := json.NewDecoder(r.Body).Decode(&credentialDTO); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	changed, err := handler.manager.ObserveCredential(r.Context(), credentialDTO.Credential)
	if err != nil {
		if errors.Is(err, ErrEmptyCredential) {
			rest.WriteError(w, http.StatusBadRequest, "credential is empty", "")
			return
		}
		rest.WriteError(w, http.StatusInternalServerError, "failed to store credential", err.Error())
		return
	}

	w.WriteHeader(http.StatusOK)
	response := ObservedDTO{Changed: changed, State: string(handler.manager.Current().State)}
	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func (handler *SessionHandler) PostValidation(w http.ResponseWriter, r *http.Request) {
	log.Debug("Validating current credential")
	w.Header().Set("Content-Type", "application/json")

	valid := handler.manager.Validate(r.Context())

	w.WriteHeader(http.StatusOK)
	response := ValidationDTO{Valid: valid, State: string(handler.manager.Current().State)}
	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func (handler *SessionHandler) PostIdentity(w http.ResponseWriter, r *http.Request) {
	log.Debug("Resolving identity for current credential")
	w.Header().Set("Content-Type", "application/json")

	identity, err := handler.manager.ResolveIdentity(r.Context())
	if err != nil {
		writeTrackerError(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(IdentityToDTO(identity)); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func (handler *SessionHandler) GetRates(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	summary, ok := handler.manager.FetchRates(r.Context())
	if !ok {
		rest.WriteError(w, http.StatusBadGateway, "rates unavailable", "")
		return
	}

	w.WriteHeader(http.StatusOK)
	response := RatesSummaryDTO{
		AllocationRate:  summary.AllocationRate,
		UtilizationRate: summary.UtilizationRate,
		WorkLogRate:     summary.WorkLogRate,
	}
	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

// writeTrackerError maps upstream failures onto the local response taxonomy.
// Credential rejections surface as 401 so the UI can prompt for a new token;
// everything else about the tracker is a bad gateway.
func writeTrackerError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNoCredential), errors.Is(err, ErrEmptyCredential):
		rest.WriteError(w, http.StatusBadRequest, "no credential available", "")
	case errors.Is(err, tracker.ErrUnauthorized):
		rest.WriteError(w, http.StatusUnauthorized, "credential rejected by tracker", err.Error())
	default:
		rest.WriteError(w, http.StatusBadGateway, "tracker request failed", err.Error())
	}
}
