package app

import (
	"github.com/gorilla/mux"
	"github.com/worklogr/worklogr/internal/config"
)

// RegisterRoutes registers all API endpoints.
func RegisterRoutes(r *mux.Router, deps *Dependencies, cfg config.Application) {

	// Session
	r.HandleFunc("/api/session", deps.SessionHandler.Get).Methods("GET")
	r.HandleFunc("/api/session/credential", deps.SessionHandler.PutCredential).Methods("PUT")
	r.HandleFunc("/api/session/credential/observed", deps.SessionHandler.PostObservedCredential).Methods("POST")
	r.HandleFunc("/api/session/validation", deps.SessionHandler.PostValidation).Methods("POST")
	r.HandleFunc("/api/session/identity", deps.SessionHandler.PostIdentity).Methods("POST")
	r.HandleFunc("/api/session/rates", deps.SessionHandler.GetRates).Methods("GET")

	// Projects
	r.HandleFunc("/api/projects", deps.WorklogHandler.GetProjects).Methods("GET")

	// Worklogs
	r.HandleFunc("/api/worklogs/proposals", deps.WorklogHandler.GetProposals).Methods("GET")
	r.HandleFunc("/api/worklogs/plan", deps.WorklogHandler.PostPlan).Methods("POST")
	r.HandleFunc("/api/worklogs", deps.WorklogHandler.PostWorklogs).Methods("POST")
}
