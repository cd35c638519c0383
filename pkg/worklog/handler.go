package worklog

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/worklogr/worklogr/internal/rest"
	"github.com/worklogr/worklogr/internal/utils"
	"github.com/worklogr/worklogr/pkg/session"
	"github.com/worklogr/worklogr/pkg/tracker"
)

type ProjectDTO struct {
	Id   int    `json:"id"`
	Name string `json:"name"`
	Code string `json:"code"`
}

type ProposedEntryDTO struct {
	Date        string  `json:"date"`
	ProjectCode string  `json:"projectCode"`
	ProjectName string  `json:"projectName"`
	ProjectId   int     `json:"projectId"`
	Hours       float64 `json:"hours"`
	TypeOfWork  int     `json:"typeOfWork"`
}

type PlanRequestDTO struct {
	ProjectCode string   `json:"projectCode"`
	Hours       float64  `json:"hours"`
	From        string   `json:"from"`
	To          string   `json:"to"`
	LeaveDates  []string `json:"leaveDates"`
}

type SubmitRequestDTO struct {
	Entries []ProposedEntryDTO `json:"entries"`
	Skipped int                `json:"skipped"`
}

type SubmissionResultDTO struct {
	Submitted    int    `json:"submitted"`
	Skipped      int    `json:"skipped"`
	Confirmation string `json:"confirmation"`
	ReceiptId    string `json:"receiptId,omitempty"`
}

func ProposedEntryToDTO(entry ProposedEntry) ProposedEntryDTO {
	return ProposedEntryDTO{
		Date:        entry.Date,
		ProjectCode: entry.ProjectCode,
		ProjectName: entry.ProjectName,
		ProjectId:   entry.ProjectId,
		Hours:       entry.Hours,
		TypeOfWork:  entry.TypeOfWork,
	}
}

func DTOToProposedEntry(dto ProposedEntryDTO) ProposedEntry {
	return ProposedEntry{
		Date:        dto.Date,
		ProjectCode: dto.ProjectCode,
		ProjectName: dto.ProjectName,
		ProjectId:   dto.ProjectId,
		Hours:       dto.Hours,
		TypeOfWork:  dto.TypeOfWork,
	}
}

type WorklogHandler struct {
	service Service
	clock   utils.Clock
}

func NewWorklogHandler(service Service) *WorklogHandler {
	return &WorklogHandler{service: service, clock: &utils.SystemClock{}}
}

func (handler *WorklogHandler) GetProjects(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	date := r.URL.Query().Get("date")
	if date == "" {
		date = utils.FormatDate(handler.clock.Now())
	} else if _, err := utils.ParseDate(date); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "invalid date", err.Error())
		return
	}

	projects, err := handler.service.Projects(r.Context(), date)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	projectsDTO := make([]ProjectDTO, 0, len(projects))
	for _, project := range projects {
		projectsDTO = append(projectsDTO, ProjectDTO{Id: project.Id, Name: project.Name, Code: project.Code})
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(projectsDTO); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func (handler *WorklogHandler) GetProposals(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	from, to, err := proposalRange(r, handler.clock.Now())
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "invalid date range", err.Error())
		return
	}
	log.Debugf("Reconciling worklogs from %s to %s", from, to)

	proposals, err := handler.service.Proposals(r.Context(), from, to)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	proposalsDTO := make([]ProposedEntryDTO, 0, len(proposals))
	for _, proposal := range proposals {
		proposalsDTO = append(proposalsDTO, ProposedEntryToDTO(proposal))
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(proposalsDTO); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func (handler *WorklogHandler) PostPlan(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var planDTO PlanRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&planDTO); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}
	from, err := utils.ParseDate(planDTO.From)
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "invalid from date", err.Error())
		return
	}
	to, err := utils.ParseDate(planDTO.To)
	if err != nil {
		rest.WriteError(w, http.StatusBadRequest, "invalid to date", err.Error())
		return
	}

	entries, err := handler.service.Plan(r.Context(), planDTO.ProjectCode, planDTO.Hours, from, to, planDTO.LeaveDates)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	entriesDTO := make([]ProposedEntryDTO, 0, len(entries))
	for _, entry := range entries {
		entriesDTO = append(entriesDTO, ProposedEntryToDTO(entry))
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(entriesDTO); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

func (handler *WorklogHandler) PostWorklogs(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	var submitDTO SubmitRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&submitDTO); err != nil {
		rest.WriteError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	entries := make([]ProposedEntry, 0, len(submitDTO.Entries))
	for _, entryDTO := range submitDTO.Entries {
		entries = append(entries, DTOToProposedEntry(entryDTO))
	}

	result, err := handler.service.Submit(r.Context(), entries, submitDTO.Skipped)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
	response := SubmissionResultDTO{
		Submitted:    result.Submitted,
		Skipped:      result.Skipped,
		Confirmation: result.Confirmation.Message,
		ReceiptId:    result.Confirmation.ReceiptId,
	}
	if err := json.NewEncoder(w).Encode(response); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
}

// proposalRange reads from/to query parameters, defaulting to the current
// week (Monday through today) when absent.
func proposalRange(r *http.Request, now time.Time) (string, string, error) {
	from := r.URL.Query().Get("from")
	to := r.URL.Query().Get("to")
	if from == "" && to == "" {
		return utils.FormatDate(utils.StartOfWeek(now)), utils.FormatDate(now), nil
	}
	if _, err := utils.ParseDate(from); err != nil {
		return "", "", err
	}
	if _, err := utils.ParseDate(to); err != nil {
		return "", "", err
	}
	return from, to, nil
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNoEntries),
		errors.Is(err, ErrInvalidHours),
		errors.Is(err, ErrNoWorkingDays),
		errors.Is(err, ErrUnknownProject),
		errors.Is(err, session.ErrNoCredential):
		rest.WriteError(w, http.StatusBadRequest, err.Error(), "")
	case errors.Is(err, tracker.ErrUnauthorized):
		rest.WriteError(w, http.StatusUnauthorized, "credential rejected by tracker", err.Error())
	default:
		rest.WriteError(w, http.StatusBadGateway, "tracker request failed", err.Error())
	}
}
