package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mreyes/jobtrack/internal/domain"
	"github.com/mreyes/jobtrack/internal/repository"
	"gorm.io/gorm"
)

// Realtime event names delivered to a job owner's connections.
const (
	EventNewJob     = "new-job"
	EventJobChanged = "job-changed"
	EventJobRemoved = "job-removed"
)

const (
	defaultPageLimit = 10
	maxPageLimit     = 100
)

// sortClauses is the allow-list of sort values; anything else falls back to
// newest-first.
var sortClauses = map[string]string{
	"createdAt":  "created_at ASC",
	"-createdAt": "created_at DESC",
	"company":    "company ASC",
	"-company":   "company DESC",
	"status":     "status ASC",
	"-status":    "status DESC",
	"position":   "position ASC",
	"-position":  "position DESC",
}

const defaultSortClause = "created_at DESC"

// Notifier receives job change events for fan-out to the owner's live
// connections. Implementations must not block and must never surface failures
// to the caller.
type Notifier interface {
	Emit(userID uuid.UUID, event string, payload interface{})
}

type JobService struct {
	jobRepo  repository.JobRepository
	notifier Notifier
}

func NewJobService(jobRepo repository.JobRepository, notifier Notifier) *JobService {
	return &JobService{
		jobRepo:  jobRepo,
		notifier: notifier,
	}
}

type CreateJobInput struct {
	Company  string
	Position string
	Status   string
	Notes    string
	Salary   string
	Location string
	Contact  string
	JobURL   string
}

// UpdateJobInput carries a partial update; only non-nil fields are applied.
type UpdateJobInput struct {
	Company  *string
	Position *string
	Status   *string
	Notes    *string
	Salary   *string
	Location *string
	Contact  *string
	JobURL   *string
}

type ListJobsInput struct {
	Status string
	Search string
	Page   int
	Limit  int
	Sort   string
}

type JobList struct {
	Jobs        []*domain.Job
	TotalJobs   int64
	NumOfPages  int
	CurrentPage int
}

type DeletedJob struct {
	ID      uuid.UUID `json:"id"`
	Company string    `json:"company"`
}

// Create validates the input, stamps the record with the caller's identity and
// persists it. Any owner value present in the raw request never reaches this
// path; callerID comes from the authorization context.
func (s *JobService) Create(ctx context.Context, callerID uuid.UUID, input CreateJobInput) (*domain.Job, error) {
	verr := domain.NewValidationError()

	company := strings.TrimSpace(input.Company)
	if company == "" {
		verr.Add("company", "Company name is required")
	} else if len(company) > domain.MaxCompanyLen {
		verr.Add("company", fmt.Sprintf("Company name cannot exceed %d characters", domain.MaxCompanyLen))
	}

	position := strings.TrimSpace(input.Position)
	if position == "" {
		verr.Add("position", "Position title is required")
	} else if len(position) > domain.MaxPositionLen {
		verr.Add("position", fmt.Sprintf("Position cannot exceed %d characters", domain.MaxPositionLen))
	}

	status := domain.StatusApplied
	if input.Status != "" {
		status = domain.JobStatus(input.Status)
		if !status.Valid() {
			verr.Add("status", statusErrorMessage())
		}
	}

	if verr.HasErrors() {
		return nil, verr
	}

	job := &domain.Job{
		ID:        uuid.New(),
		Company:   company,
		Position:  position,
		Status:    status,
		Notes:     clampField(input.Notes, domain.MaxNotesLen),
		Salary:    clampField(input.Salary, domain.MaxSalaryLen),
		Location:  clampField(input.Location, domain.MaxLocationLen),
		Contact:   clampField(input.Contact, domain.MaxContactLen),
		JobURL:    clampField(input.JobURL, domain.MaxJobURLLen),
		OwnerID:   callerID,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	if err := s.jobRepo.Create(ctx, job); err != nil {
		return nil, err
	}

	s.notify(callerID, EventNewJob, job)
	return job, nil
}

// List returns one page of the caller's jobs. The owner constraint is always
// applied; filters only ever narrow within it.
func (s *JobService) List(ctx context.Context, callerID uuid.UUID, input ListJobsInput) (*JobList, error) {
	page := input.Page
	if page < 1 {
		page = 1
	}

	limit := input.Limit
	if limit < 1 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}

	orderBy, ok := sortClauses[input.Sort]
	if !ok {
		orderBy = defaultSortClause
	}

	filter := repository.JobFilter{
		Search:  strings.TrimSpace(input.Search),
		OrderBy: orderBy,
		Limit:   limit,
		Offset:  (page - 1) * limit,
	}

	// Unknown status values are ignored rather than rejected.
	if status := domain.JobStatus(input.Status); status.Valid() {
		filter.Status = status
	}

	jobs, total, err := s.jobRepo.List(ctx, callerID, filter)
	if err != nil {
		return nil, err
	}

	numOfPages := int((total + int64(limit) - 1) / int64(limit))

	return &JobList{
		Jobs:        jobs,
		TotalJobs:   total,
		NumOfPages:  numOfPages,
		CurrentPage: page,
	}, nil
}

// Get resolves a job for its owner. A record that exists but belongs to
// someone else is indistinguishable from one that does not exist.
func (s *JobService) Get(ctx context.Context, callerID, jobID uuid.UUID) (*domain.Job, error) {
	job, err := s.jobRepo.GetByID(ctx, jobID, callerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrJobNotFound
		}
		return nil, err
	}
	return job, nil
}

// Update applies a partial update; only fields present in the input change.
// OwnerID and ID are not reachable through this path.
func (s *JobService) Update(ctx context.Context, callerID, jobID uuid.UUID, input UpdateJobInput) (*domain.Job, error) {
	verr := domain.NewValidationError()

	if input.Company == nil && input.Position == nil && input.Status == nil &&
		input.Notes == nil && input.Salary == nil && input.Location == nil &&
		input.Contact == nil && input.JobURL == nil {
		verr.Add("fields", "No update data provided")
		return nil, verr
	}

	job, err := s.Get(ctx, callerID, jobID)
	if err != nil {
		return nil, err
	}

	if input.Company != nil {
		company := strings.TrimSpace(*input.Company)
		if company == "" {
			verr.Add("company", "Company name cannot be empty")
		} else if len(company) > domain.MaxCompanyLen {
			verr.Add("company", fmt.Sprintf("Company name cannot exceed %d characters", domain.MaxCompanyLen))
		} else {
			job.Company = company
		}
	}

	if input.Position != nil {
		position := strings.TrimSpace(*input.Position)
		if position == "" {
			verr.Add("position", "Position title cannot be empty")
		} else if len(position) > domain.MaxPositionLen {
			verr.Add("position", fmt.Sprintf("Position cannot exceed %d characters", domain.MaxPositionLen))
		} else {
			job.Position = position
		}
	}

	if input.Status != nil {
		status := domain.JobStatus(*input.Status)
		if !status.Valid() {
			verr.Add("status", statusErrorMessage())
		} else {
			job.Status = status
		}
	}

	if input.Notes != nil {
		job.Notes = clampField(*input.Notes, domain.MaxNotesLen)
	}
	if input.Salary != nil {
		job.Salary = clampField(*input.Salary, domain.MaxSalaryLen)
	}
	if input.Location != nil {
		job.Location = clampField(*input.Location, domain.MaxLocationLen)
	}
	if input.Contact != nil {
		job.Contact = clampField(*input.Contact, domain.MaxContactLen)
	}
	if input.JobURL != nil {
		job.JobURL = clampField(*input.JobURL, domain.MaxJobURLLen)
	}

	if verr.HasErrors() {
		return nil, verr
	}

	job.UpdatedAt = time.Now()
	if err := s.jobRepo.Update(ctx, job); err != nil {
		return nil, err
	}

	s.notify(callerID, EventJobChanged, job)
	return job, nil
}

// Delete removes the caller's job permanently.
func (s *JobService) Delete(ctx context.Context, callerID, jobID uuid.UUID) (*DeletedJob, error) {
	job, err := s.Get(ctx, callerID, jobID)
	if err != nil {
		return nil, err
	}

	deleted, err := s.jobRepo.Delete(ctx, jobID, callerID)
	if err != nil {
		return nil, err
	}
	if !deleted {
		return nil, domain.ErrJobNotFound
	}

	result := &DeletedJob{ID: job.ID, Company: job.Company}
	s.notify(callerID, EventJobRemoved, result)
	return result, nil
}

// Stats returns per-status counts over the caller's jobs; statuses without
// records report zero.
func (s *JobService) Stats(ctx context.Context, callerID uuid.UUID) (*domain.JobStats, error) {
	counts, err := s.jobRepo.CountByStatus(ctx, callerID)
	if err != nil {
		return nil, err
	}

	return &domain.JobStats{
		Applied:   counts[domain.StatusApplied],
		Interview: counts[domain.StatusInterview],
		Technical: counts[domain.StatusTechnical],
		Offer:     counts[domain.StatusOffer],
		Rejected:  counts[domain.StatusRejected],
		Accepted:  counts[domain.StatusAccepted],
	}, nil
}

// notify is fire-and-forget: the mutation already committed, so delivery
// problems stay inside the hub and never fail the originating request.
func (s *JobService) notify(userID uuid.UUID, event string, payload interface{}) {
	if s.notifier == nil {
		return
	}
	s.notifier.Emit(userID, event, payload)
}

func clampField(value string, max int) string {
	value = strings.TrimSpace(value)
	if len(value) > max {
		return value[:max]
	}
	return value
}

func statusErrorMessage() string {
	values := make([]string, len(domain.JobStatuses))
	for i, s := range domain.JobStatuses {
		values[i] = string(s)
	}
	return "Status must be one of: " + strings.Join(values, ", ")
}
