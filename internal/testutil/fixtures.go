package testutil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/mreyes/jobtrack/internal/domain"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// UserBuilder creates test users with a builder pattern
type UserBuilder struct {
	name     string
	email    string
	password string
}

// NewUserBuilder creates a new UserBuilder with default values
func NewUserBuilder() *UserBuilder {
	suffix := uuid.New().String()[:8]
	return &UserBuilder{
		name:     fmt.Sprintf("Test User %s", suffix),
		email:    fmt.Sprintf("testuser_%s@example.com", suffix),
		password: "testpassword123",
	}
}

// WithName sets the name
func (b *UserBuilder) WithName(name string) *UserBuilder {
	b.name = name
	return b
}

// WithEmail sets the email
func (b *UserBuilder) WithEmail(email string) *UserBuilder {
	b.email = email
	return b
}

// WithPassword sets the password
func (b *UserBuilder) WithPassword(password string) *UserBuilder {
	b.password = password
	return b
}

// Build creates the user in the database and returns the user with the raw password
func (b *UserBuilder) Build(t *testing.T, db *gorm.DB) (*domain.User, string) {
	t.Helper()

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(b.password), bcrypt.DefaultCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &domain.User{
		ID:           uuid.New(),
		Name:         b.name,
		Email:        b.email,
		PasswordHash: string(hashedPassword),
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}

	return user, b.password
}

// AuthResponse matches the API auth response
type AuthResponse struct {
	Token string `json:"token"`
	User  struct {
		ID    string `json:"id"`
		Name  string `json:"name"`
		Email string `json:"email"`
	} `json:"user"`
}

// BuildAndAuthenticate creates a user via API and returns the user and token
func (b *UserBuilder) BuildAndAuthenticate(t *testing.T, ts *TestServer) (*domain.User, string) {
	t.Helper()

	reqBody := map[string]string{
		"name":     b.name,
		"email":    b.email,
		"password": b.password,
	}
	body, _ := json.Marshal(reqBody)

	resp, err := http.Post(ts.APIURL("/auth/register"), "application/json", bytes.NewBuffer(body))
	if err != nil {
		t.Fatalf("failed to register user: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("unexpected status code: %d", resp.StatusCode)
	}

	var authResp AuthResponse
	if err := json.NewDecoder(resp.Body).Decode(&authResp); err != nil {
		t.Fatalf("failed to decode auth response: %v", err)
	}

	userID, err := uuid.Parse(authResp.User.ID)
	if err != nil {
		t.Fatalf("failed to parse user ID: %v", err)
	}

	user := &domain.User{
		ID:    userID,
		Name:  authResp.User.Name,
		Email: authResp.User.Email,
	}

	return user, authResp.Token
}

// JobBuilder creates test jobs with a builder pattern
type JobBuilder struct {
	company  string
	position string
	status   domain.JobStatus
	notes    string
	location string
	ownerID  uuid.UUID
}

// NewJobBuilder creates a new JobBuilder with default values
func NewJobBuilder(ownerID uuid.UUID) *JobBuilder {
	return &JobBuilder{
		company:  "Acme Corp",
		position: "Software Engineer",
		status:   domain.StatusApplied,
		ownerID:  ownerID,
	}
}

// WithCompany sets the company
func (b *JobBuilder) WithCompany(company string) *JobBuilder {
	b.company = company
	return b
}

// WithPosition sets the position
func (b *JobBuilder) WithPosition(position string) *JobBuilder {
	b.position = position
	return b
}

// WithStatus sets the status
func (b *JobBuilder) WithStatus(status domain.JobStatus) *JobBuilder {
	b.status = status
	return b
}

// WithNotes sets the notes
func (b *JobBuilder) WithNotes(notes string) *JobBuilder {
	b.notes = notes
	return b
}

// WithLocation sets the location
func (b *JobBuilder) WithLocation(location string) *JobBuilder {
	b.location = location
	return b
}

// Build creates the job in the database
func (b *JobBuilder) Build(t *testing.T, db *gorm.DB) *domain.Job {
	t.Helper()

	job := &domain.Job{
		ID:        uuid.New(),
		Company:   b.company,
		Position:  b.position,
		Status:    b.status,
		Notes:     b.notes,
		Location:  b.location,
		OwnerID:   b.ownerID,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}

	if err := db.Create(job).Error; err != nil {
		t.Fatalf("failed to create job: %v", err)
	}

	return job
}

// AuthenticatedRequest performs an HTTP request with a bearer token and
// decodes nothing; callers read the response.
func AuthenticatedRequest(t *testing.T, method, url, token string, body interface{}) *http.Response {
	t.Helper()

	var reqBody *bytes.Buffer
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal request body: %v", err)
		}
		reqBody = bytes.NewBuffer(data)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequest(method, url, reqBody)
	if err != nil {
		t.Fatalf("failed to create request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	return resp
}
