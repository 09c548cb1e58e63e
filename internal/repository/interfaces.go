package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/mreyes/jobtrack/internal/domain"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByResetToken(ctx context.Context, tokenHash string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
}

// JobFilter narrows a job listing. Status and Search are optional; OrderBy is a
// sanitized SQL order clause supplied by the service layer.
type JobFilter struct {
	Status  domain.JobStatus
	Search  string
	OrderBy string
	Limit   int
	Offset  int
}

type JobRepository interface {
	Create(ctx context.Context, job *domain.Job) error
	// GetByID resolves a job only when it belongs to ownerID.
	GetByID(ctx context.Context, id, ownerID uuid.UUID) (*domain.Job, error)
	// List returns the owner's jobs matching filter plus the unpaginated total.
	List(ctx context.Context, ownerID uuid.UUID, filter JobFilter) ([]*domain.Job, int64, error)
	Update(ctx context.Context, job *domain.Job) error
	// Delete removes the job only when it belongs to ownerID; reports whether a
	// row was deleted.
	Delete(ctx context.Context, id, ownerID uuid.UUID) (bool, error)
	CountByStatus(ctx context.Context, ownerID uuid.UUID) (map[domain.JobStatus]int64, error)
}

type Repositories struct {
	User UserRepository
	Job  JobRepository
}
