package domain

import (
	"time"

	"github.com/google/uuid"
)

type JobStatus string

const (
	StatusApplied   JobStatus = "applied"
	StatusInterview JobStatus = "interview"
	StatusTechnical JobStatus = "technical"
	StatusOffer     JobStatus = "offer"
	StatusRejected  JobStatus = "rejected"
	StatusAccepted  JobStatus = "accepted"
)

// JobStatuses lists every valid status in display order.
var JobStatuses = []JobStatus{
	StatusApplied,
	StatusInterview,
	StatusTechnical,
	StatusOffer,
	StatusRejected,
	StatusAccepted,
}

func (s JobStatus) Valid() bool {
	for _, v := range JobStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// Field length limits for job records.
const (
	MaxCompanyLen  = 100
	MaxPositionLen = 100
	MaxNotesLen    = 1000
	MaxSalaryLen   = 50
	MaxLocationLen = 100
	MaxContactLen  = 100
	MaxJobURLLen   = 500
)

// Job is one tracked application. OwnerID is assigned from the authenticated
// caller at creation and is never writable through the API.
type Job struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Company   string    `json:"company" gorm:"not null"`
	Position  string    `json:"position" gorm:"not null"`
	Status    JobStatus `json:"status" gorm:"not null;default:'applied'"`
	Notes     string    `json:"notes"`
	Salary    string    `json:"salary"`
	Location  string    `json:"location"`
	Contact   string    `json:"contact"`
	JobURL    string    `json:"jobUrl"`
	OwnerID   uuid.UUID `json:"createdBy" gorm:"type:uuid;not null;index"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// JobStats holds per-status counts for one owner's records.
type JobStats struct {
	Applied   int64 `json:"applied"`
	Interview int64 `json:"interview"`
	Technical int64 `json:"technical"`
	Offer     int64 `json:"offer"`
	Rejected  int64 `json:"rejected"`
	Accepted  int64 `json:"accepted"`
}
