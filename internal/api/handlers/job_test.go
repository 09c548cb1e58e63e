package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/mreyes/jobtrack/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type jobData struct {
	ID        string `json:"id"`
	Company   string `json:"company"`
	Position  string `json:"position"`
	Status    string `json:"status"`
	Notes     string `json:"notes"`
	CreatedBy string `json:"createdBy"`
}

type jobEnvelope struct {
	Data jobData `json:"data"`
}

type jobListEnvelope struct {
	Data        []jobData `json:"data"`
	TotalJobs   int64     `json:"totalJobs"`
	NumOfPages  int       `json:"numOfPages"`
	CurrentPage int       `json:"currentPage"`
}

func createJob(t *testing.T, ts *testutil.TestServer, token string, body interface{}) jobData {
	t.Helper()

	resp := testutil.AuthenticatedRequest(t, http.MethodPost, ts.APIURL("/jobs"), token, body)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var envelope jobEnvelope
	testutil.AssertJSONResponse(t, resp, &envelope)
	return envelope.Data
}

func TestJobEndpoints_CRUD(t *testing.T) {
	ts := testutil.NewTestServer(t)

	user, token := testutil.NewUserBuilder().BuildAndAuthenticate(t, ts)

	created := createJob(t, ts, token, map[string]string{
		"company":  "Acme",
		"position": "Engineer",
		"notes":    "applied via referral",
	})
	assert.Equal(t, "Acme", created.Company)
	assert.Equal(t, "applied", created.Status)
	assert.Equal(t, user.ID.String(), created.CreatedBy)

	// Get
	resp := testutil.AuthenticatedRequest(t, http.MethodGet, ts.APIURL("/jobs/"+created.ID), token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var fetched jobEnvelope
	decodeBody(t, resp, &fetched)
	assert.Equal(t, created.ID, fetched.Data.ID)

	// Update
	resp = testutil.AuthenticatedRequest(t, http.MethodPut, ts.APIURL("/jobs/"+created.ID), token,
		map[string]string{"status": "interview"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var updated jobEnvelope
	decodeBody(t, resp, &updated)
	assert.Equal(t, "interview", updated.Data.Status)
	assert.Equal(t, "Acme", updated.Data.Company)

	// Delete
	resp = testutil.AuthenticatedRequest(t, http.MethodDelete, ts.APIURL("/jobs/"+created.ID), token, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = testutil.AuthenticatedRequest(t, http.MethodGet, ts.APIURL("/jobs/"+created.ID), token, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestJobEndpoints_ClientCannotChooseOwner(t *testing.T) {
	ts := testutil.NewTestServer(t)

	userA, tokenA := testutil.NewUserBuilder().BuildAndAuthenticate(t, ts)
	userB, _ := testutil.NewUserBuilder().BuildAndAuthenticate(t, ts)

	// A raw body naming another user as owner is silently ignored
	body := fmt.Sprintf(`{"company":"Acme","position":"Eng","createdBy":%q}`, userB.ID)
	req, err := http.NewRequest(http.MethodPost, ts.APIURL("/jobs"), bytes.NewBufferString(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+tokenA)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var envelope jobEnvelope
	decodeBody(t, resp, &envelope)
	assert.Equal(t, userA.ID.String(), envelope.Data.CreatedBy)
}

func TestJobEndpoints_OwnershipIsolation(t *testing.T) {
	ts := testutil.NewTestServer(t)

	_, tokenA := testutil.NewUserBuilder().BuildAndAuthenticate(t, ts)
	_, tokenB := testutil.NewUserBuilder().BuildAndAuthenticate(t, ts)

	created := createJob(t, ts, tokenA, map[string]string{
		"company":  "Acme",
		"position": "Engineer",
	})

	// B's reads and writes against A's job all report not found
	resp := testutil.AuthenticatedRequest(t, http.MethodGet, ts.APIURL("/jobs/"+created.ID), tokenB, nil)
	testutil.AssertErrorResponse(t, resp, http.StatusNotFound, "Job not found")
	resp.Body.Close()

	resp = testutil.AuthenticatedRequest(t, http.MethodPut, ts.APIURL("/jobs/"+created.ID), tokenB,
		map[string]string{"company": "Hijacked"})
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = testutil.AuthenticatedRequest(t, http.MethodDelete, ts.APIURL("/jobs/"+created.ID), tokenB, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	// B's listing never contains A's job
	resp = testutil.AuthenticatedRequest(t, http.MethodGet, ts.APIURL("/jobs"), tokenB, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var list jobListEnvelope
	decodeBody(t, resp, &list)
	assert.Equal(t, int64(0), list.TotalJobs)
	assert.NotNil(t, list.Data)
}

func TestJobEndpoints_ListPaginationAndFilters(t *testing.T) {
	ts := testutil.NewTestServer(t)

	_, token := testutil.NewUserBuilder().BuildAndAuthenticate(t, ts)

	for i := 0; i < 5; i++ {
		status := "applied"
		if i < 2 {
			status = "interview"
		}
		createJob(t, ts, token, map[string]string{
			"company":  fmt.Sprintf("Company %d", i),
			"position": "Engineer",
			"status":   status,
		})
	}

	resp := testutil.AuthenticatedRequest(t, http.MethodGet,
		ts.APIURL("/jobs?limit=2&page=2&sort=company"), token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var list jobListEnvelope
	decodeBody(t, resp, &list)
	assert.Equal(t, int64(5), list.TotalJobs)
	assert.Equal(t, 3, list.NumOfPages)
	assert.Equal(t, 2, list.CurrentPage)
	require.Len(t, list.Data, 2)
	assert.Equal(t, "Company 2", list.Data[0].Company)

	resp = testutil.AuthenticatedRequest(t, http.MethodGet,
		ts.APIURL("/jobs?status=interview"), token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &list)
	assert.Equal(t, int64(2), list.TotalJobs)

	resp = testutil.AuthenticatedRequest(t, http.MethodGet,
		ts.APIURL("/jobs?search=company+3"), token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decodeBody(t, resp, &list)
	require.Equal(t, int64(1), list.TotalJobs)
	assert.Equal(t, "Company 3", list.Data[0].Company)
}

func TestJobEndpoints_Validation(t *testing.T) {
	ts := testutil.NewTestServer(t)

	_, token := testutil.NewUserBuilder().BuildAndAuthenticate(t, ts)

	resp := testutil.AuthenticatedRequest(t, http.MethodPost, ts.APIURL("/jobs"), token,
		map[string]string{"company": "", "position": "", "status": "ghosted"})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var body struct {
		Error  string            `json:"error"`
		Errors map[string]string `json:"errors"`
	}
	decodeBody(t, resp, &body)
	assert.Contains(t, body.Errors, "company")
	assert.Contains(t, body.Errors, "position")
	assert.Contains(t, body.Errors, "status")

	// Empty patch
	created := createJob(t, ts, token, map[string]string{"company": "Acme", "position": "Eng"})
	resp = testutil.AuthenticatedRequest(t, http.MethodPut, ts.APIURL("/jobs/"+created.ID), token,
		map[string]string{})
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestJobEndpoints_MalformedID(t *testing.T) {
	ts := testutil.NewTestServer(t)

	_, token := testutil.NewUserBuilder().BuildAndAuthenticate(t, ts)

	resp := testutil.AuthenticatedRequest(t, http.MethodGet, ts.APIURL("/jobs/not-a-uuid"), token, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = testutil.AuthenticatedRequest(t, http.MethodGet, ts.APIURL("/jobs/"+uuid.New().String()), token, nil)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestJobEndpoints_RequireAuth(t *testing.T) {
	ts := testutil.NewTestServer(t)

	resp, err := http.Get(ts.APIURL("/jobs"))
	require.NoError(t, err)
	defer resp.Body.Close()
	testutil.AssertErrorResponse(t, resp, http.StatusUnauthorized, "Access denied. No token provided.")

	data, _ := json.Marshal(map[string]string{"company": "Acme", "position": "Eng"})
	resp, err = http.Post(ts.APIURL("/jobs"), "application/json", bytes.NewBuffer(data))
	require.NoError(t, err)
	resp.Body.Close()
	testutil.AssertStatusCode(t, resp, http.StatusUnauthorized)
}

func TestJobEndpoints_StatusOptions(t *testing.T) {
	ts := testutil.NewTestServer(t)

	_, token := testutil.NewUserBuilder().BuildAndAuthenticate(t, ts)

	resp := testutil.AuthenticatedRequest(t, http.MethodGet, ts.APIURL("/jobs/status-options"), token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Data []struct {
			Value string `json:"value"`
			Label string `json:"label"`
			Color string `json:"color"`
		} `json:"data"`
	}
	decodeBody(t, resp, &body)
	require.Len(t, body.Data, 6)
	assert.Equal(t, "applied", body.Data[0].Value)
	assert.NotEmpty(t, body.Data[0].Color)
}

func TestAnalyticsEndpoint_Stats(t *testing.T) {
	ts := testutil.NewTestServer(t)

	_, token := testutil.NewUserBuilder().BuildAndAuthenticate(t, ts)
	_, otherToken := testutil.NewUserBuilder().BuildAndAuthenticate(t, ts)

	for i := 0; i < 2; i++ {
		createJob(t, ts, token, map[string]string{
			"company": "Acme", "position": "Eng", "status": "applied",
		})
	}
	createJob(t, ts, token, map[string]string{
		"company": "Globex", "position": "Eng", "status": "offer",
	})
	createJob(t, ts, otherToken, map[string]string{
		"company": "Initech", "position": "Eng", "status": "rejected",
	})

	resp := testutil.AuthenticatedRequest(t, http.MethodGet, ts.APIURL("/analytics/stats"), token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var stats struct {
		Applied   int64 `json:"applied"`
		Interview int64 `json:"interview"`
		Offer     int64 `json:"offer"`
		Rejected  int64 `json:"rejected"`
	}
	decodeBody(t, resp, &stats)
	assert.Equal(t, int64(2), stats.Applied)
	assert.Equal(t, int64(1), stats.Offer)
	assert.Equal(t, int64(0), stats.Rejected, "other users' records are excluded")
}
