package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/mreyes/jobtrack/internal/api/middleware"
	"github.com/mreyes/jobtrack/internal/domain"
	"github.com/mreyes/jobtrack/internal/service"
)

type JobHandler struct {
	jobService *service.JobService
}

func NewJobHandler(jobService *service.JobService) *JobHandler {
	return &JobHandler{jobService: jobService}
}

// CreateJobRequest deliberately has no owner field; ownership always comes
// from the authenticated caller.
type CreateJobRequest struct {
	Company  string `json:"company"`
	Position string `json:"position"`
	Status   string `json:"status"`
	Notes    string `json:"notes"`
	Salary   string `json:"salary"`
	Location string `json:"location"`
	Contact  string `json:"contact"`
	JobURL   string `json:"jobUrl"`
}

type UpdateJobRequest struct {
	Company  *string `json:"company"`
	Position *string `json:"position"`
	Status   *string `json:"status"`
	Notes    *string `json:"notes"`
	Salary   *string `json:"salary"`
	Location *string `json:"location"`
	Contact  *string `json:"contact"`
	JobURL   *string `json:"jobUrl"`
}

type JobListResponse struct {
	Data        []*domain.Job `json:"data"`
	TotalJobs   int64         `json:"totalJobs"`
	NumOfPages  int           `json:"numOfPages"`
	CurrentPage int           `json:"currentPage"`
}

type JobResponse struct {
	Data *domain.Job `json:"data"`
}

func (h *JobHandler) Create(w http.ResponseWriter, r *http.Request) {
	callerID, ok := middleware.GetUserID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req CreateJobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	job, err := h.jobService.Create(r.Context(), callerID, service.CreateJobInput{
		Company:  req.Company,
		Position: req.Position,
		Status:   req.Status,
		Notes:    req.Notes,
		Salary:   req.Salary,
		Location: req.Location,
		Contact:  req.Contact,
		JobURL:   req.JobURL,
	})
	if err != nil {
		writeServiceError(w, "JobHandler.Create", err)
		return
	}

	writeJSON(w, http.StatusCreated, JobResponse{Data: job})
}

func (h *JobHandler) List(w http.ResponseWriter, r *http.Request) {
	callerID, ok := middleware.GetUserID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	limit, _ := strconv.Atoi(q.Get("limit"))

	list, err := h.jobService.List(r.Context(), callerID, service.ListJobsInput{
		Status: q.Get("status"),
		Search: q.Get("search"),
		Page:   page,
		Limit:  limit,
		Sort:   q.Get("sort"),
	})
	if err != nil {
		writeServiceError(w, "JobHandler.List", err)
		return
	}

	jobs := list.Jobs
	if jobs == nil {
		jobs = []*domain.Job{}
	}

	writeJSON(w, http.StatusOK, JobListResponse{
		Data:        jobs,
		TotalJobs:   list.TotalJobs,
		NumOfPages:  list.NumOfPages,
		CurrentPage: list.CurrentPage,
	})
}

func (h *JobHandler) Get(w http.ResponseWriter, r *http.Request) {
	callerID, ok := middleware.GetUserID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	jobID, ok := parseJobID(w, r)
	if !ok {
		return
	}

	job, err := h.jobService.Get(r.Context(), callerID, jobID)
	if err != nil {
		writeServiceError(w, "JobHandler.Get", err)
		return
	}

	writeJSON(w, http.StatusOK, JobResponse{Data: job})
}

func (h *JobHandler) Update(w http.ResponseWriter, r *http.Request) {
	callerID, ok := middleware.GetUserID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	jobID, ok := parseJobID(w, r)
	if !ok {
		return
	}

	var req UpdateJobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	job, err := h.jobService.Update(r.Context(), callerID, jobID, service.UpdateJobInput{
		Company:  req.Company,
		Position: req.Position,
		Status:   req.Status,
		Notes:    req.Notes,
		Salary:   req.Salary,
		Location: req.Location,
		Contact:  req.Contact,
		JobURL:   req.JobURL,
	})
	if err != nil {
		writeServiceError(w, "JobHandler.Update", err)
		return
	}

	writeJSON(w, http.StatusOK, JobResponse{Data: job})
}

func (h *JobHandler) Delete(w http.ResponseWriter, r *http.Request) {
	callerID, ok := middleware.GetUserID(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	jobID, ok := parseJobID(w, r)
	if !ok {
		return
	}

	deleted, err := h.jobService.Delete(r.Context(), callerID, jobID)
	if err != nil {
		writeServiceError(w, "JobHandler.Delete", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]*service.DeletedJob{"data": deleted})
}

type statusOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
	Color string `json:"color"`
}

var statusOptions = []statusOption{
	{Value: "applied", Label: "Applied", Color: "#3b82f6"},
	{Value: "interview", Label: "Interview", Color: "#f59e0b"},
	{Value: "technical", Label: "Technical", Color: "#8b5cf6"},
	{Value: "offer", Label: "Offer", Color: "#10b981"},
	{Value: "rejected", Label: "Rejected", Color: "#ef4444"},
	{Value: "accepted", Label: "Accepted", Color: "#059669"},
}

func (h *JobHandler) StatusOptions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]statusOption{"data": statusOptions})
}

// parseJobID reads the id path parameter. A malformed id cannot match any
// record and is reported as not found rather than leaking id format details.
func parseJobID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	jobID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusNotFound, "Job not found")
		return uuid.Nil, false
	}
	return jobID, true
}
