package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"uas-projects-service/internal/domain/entity"
	"uas-projects-service/internal/domain/repository"
	"uas-projects-service/internal/usecase"
	"uas-projects-service/pkg/logger"
	"uas-projects-service/pkg/metrics"
	"uas-projects-service/pkg/utils"
)

// maximum accepted request body
const maxBodyBytes = 10 << 20

// ProjectHandler serves the project REST API
type ProjectHandler struct {
	service *usecase.ProjectService
	logger  logger.Logger
	metrics *metrics.Metrics
}

// SaveResponse is returned by a successful create-or-update
type SaveResponse struct {
	Success bool            `json:"success"`
	Created bool            `json:"created"`
	Message string          `json:"message"`
	Project *entity.Project `json:"project"`
}

// TotalsResponse extends the project totals with a formatted flight time
type TotalsResponse struct {
	entity.ProjectTotals
	TotalFlightTime string `json:"totalFlightTime"`
}

type successResponse struct {
	Success bool `json:"success"`
}

type importResponse struct {
	Success bool `json:"success"`
	usecase.ImportResult
}

// NewProjectHandler creates a new project handler
func NewProjectHandler(service *usecase.ProjectService, logger logger.Logger, m *metrics.Metrics) *ProjectHandler {
	return &ProjectHandler{
		service: service,
		logger:  logger,
		metrics: m,
	}
}

// List returns every project
func (h *ProjectHandler) List(w http.ResponseWriter, r *http.Request) {
	projects, err := h.service.List(r.Context())
	if err != nil {
		h.fail(w, "list", err)
		return
	}
	writeJSON(w, http.StatusOK, projects)
}

// Get returns one project
func (h *ProjectHandler) Get(w http.ResponseWriter, r *http.Request) {
	project, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, "get", err)
		return
	}
	writeJSON(w, http.StatusOK, project)
}

// Save creates the project or overwrites the one with the same id
func (h *ProjectHandler) Save(w http.ResponseWriter, r *http.Request) {
	var project entity.Project
	if err := decodeBody(w, r, &project); err != nil {
		jsonError(w, http.StatusBadRequest, err.Error())
		return
	}

	res, err := h.service.Save(r.Context(), &project)
	if err != nil {
		h.fail(w, "save", err)
		return
	}

	message := "Project updated"
	if res.Created {
		message = "Project created"
	}
	writeJSON(w, http.StatusOK, SaveResponse{
		Success: true,
		Created: res.Created,
		Message: message,
		Project: res.Project,
	})
}

// Delete removes a project by id
func (h *ProjectHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.fail(w, "delete", err)
		return
	}
	writeJSON(w, http.StatusOK, successResponse{Success: true})
}

// Totals returns the aggregates of one project
func (h *ProjectHandler) Totals(w http.ResponseWriter, r *http.Request) {
	totals, err := h.service.Totals(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, "totals", err)
		return
	}
	writeJSON(w, http.StatusOK, TotalsResponse{
		ProjectTotals:   totals,
		TotalFlightTime: utils.MinutesToHHMM(totals.TotalFlightMinutes),
	})
}

// Suggestions returns pilots, drones and serials already used in a project
func (h *ProjectHandler) Suggestions(w http.ResponseWriter, r *http.Request) {
	s, err := h.service.Suggestions(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.fail(w, "suggestions", err)
		return
	}
	writeJSON(w, http.StatusOK, s)
}

// Summary returns totals across all projects
func (h *ProjectHandler) Summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.Summary(r.Context())
	if err != nil {
		h.fail(w, "summary", err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// FlightLogCSV downloads a project's flights as CSV
func (h *ProjectHandler) FlightLogCSV(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	name, err := h.service.ExportFlightLog(r.Context(), chi.URLParam(r, "id"), r.URL.Query().Get("order"), &buf)
	if err != nil {
		h.fail(w, "export_csv", err)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

// Export downloads every project as an indented JSON array
func (h *ProjectHandler) Export(w http.ResponseWriter, r *http.Request) {
	projects, err := h.service.List(r.Context())
	if err != nil {
		h.fail(w, "export_json", err)
		return
	}
	data, err := json.MarshalIndent(projects, "", "  ")
	if err != nil {
		h.fail(w, "export_json", err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", `attachment; filename="droneProjects.json"`)
	w.WriteHeader(http.StatusOK)
	w.Write(data)
}

// Import upserts a JSON array of projects
func (h *ProjectHandler) Import(w http.ResponseWriter, r *http.Request) {
	var projects []*entity.Project
	if err := decodeBody(w, r, &projects); err != nil || projects == nil {
		jsonError(w, http.StatusBadRequest, "invalid format - expecting an array of projects")
		return
	}

	res, err := h.service.Import(r.Context(), projects)
	if err != nil {
		h.fail(w, "import", err)
		return
	}
	writeJSON(w, http.StatusOK, importResponse{Success: true, ImportResult: res})
}

// fail maps service errors to status codes and logs server-side failures
func (h *ProjectHandler) fail(w http.ResponseWriter, operation string, err error) {
	var verr *usecase.ValidationError
	switch {
	case errors.As(err, &verr):
		jsonError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, repository.ErrProjectNotFound):
		jsonError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, usecase.ErrNoFlights):
		jsonError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, repository.ErrRevisionConflict):
		jsonError(w, http.StatusConflict, err.Error())
	default:
		h.logger.Error("Project request failed", "operation", operation, "error", err)
		h.metrics.ErrorsCount.WithLabelValues(operation).Inc()
		jsonError(w, http.StatusInternalServerError, err.Error())
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}
