package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/coldcall/internal/questions"
	"github.com/jonathan/coldcall/internal/session"
	"github.com/jonathan/coldcall/internal/store"
	"github.com/jonathan/coldcall/internal/types"
)

type stubQuestions struct {
	resp *types.QuestionResponse
	err  error
}

func (c *stubQuestions) Generate(_ context.Context, _ *types.QuestionRequest) (*types.QuestionResponse, error) {
	if c.err != nil {
		return nil, c.err
	}
	return c.resp, nil
}

func floatPtr(v float64) *float64 { return &v }

// testRecord has exactly two empty fields: posting_title and
// work_experience_0_benefits.
func testRecord() *types.CandidateRecord {
	return &types.CandidateRecord{
		ID:             "cand-1",
		FullName:       "Dana Whitfield",
		Email:          "dana@example.com",
		Phone:          "+1 555 0100",
		Location:       "Austin, TX",
		ExpectedSalary: floatPtr(165000),
		NoticePeriod:   "2 weeks",
		WorkPreference: "remote",
		Summary:        "Backend engineer with a platform focus.",
		WorkExperience: []types.WorkExperience{{
			Company:        "Acme Corp",
			Title:          "Backend Engineer",
			StartDate:      "2021-03",
			EndDate:        "2024-06",
			EmploymentType: "full-time",
			SalaryRange:    "140k-160k",
			Description:    "Owned the billing pipeline.",
		}},
	}
}

func newTestServer(t *testing.T, client questions.Client) (*Server, *store.MemoryStore) {
	t.Helper()
	mem := store.NewMemory()
	srv, err := New(Config{Port: 0, Store: mem, Questions: client})
	require.NoError(t, err)
	return srv, mem
}

func doRequest(t *testing.T, srv *Server, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&out))
	return out
}

func startTestSession(t *testing.T, srv *Server) string {
	t.Helper()
	rec := doRequest(t, srv, http.MethodPost, "/candidates/cand-1/verification",
		StartSessionRequest{Actor: "recruiter-7", Record: testRecord()})
	require.Equal(t, http.StatusCreated, rec.Code)
	resp := decodeBody[StartSessionResponse](t, rec)
	return resp.SessionID
}

func TestNew_RequiresStore(t *testing.T) {
	_, err := New(Config{Port: 0})
	assert.ErrorContains(t, err, "verification store is required")
}

func TestHealth(t *testing.T) {
	srv, _ := newTestServer(t, nil)

	rec := doRequest(t, srv, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	body := decodeBody[map[string]string](t, rec)
	assert.Equal(t, "ok", body["status"])
}

func TestStartSession(t *testing.T) {
	srv, _ := newTestServer(t, nil)

	rec := doRequest(t, srv, http.MethodPost, "/candidates/cand-1/verification",
		StartSessionRequest{Actor: "recruiter-7", Record: testRecord()})
	require.Equal(t, http.StatusCreated, rec.Code)

	resp := decodeBody[StartSessionResponse](t, rec)
	assert.NotEmpty(t, resp.SessionID)
	assert.Equal(t, "cand-1", resp.CandidateID)
	require.Len(t, resp.EmptyFields, 2)
	assert.Equal(t, "posting_title", resp.EmptyFields[0].FieldName)
	assert.Equal(t, "work_experience_0_benefits", resp.EmptyFields[1].FieldName)
}

func TestStartSession_InvalidBody(t *testing.T) {
	srv, _ := newTestServer(t, nil)

	req := httptest.NewRequest(http.MethodPost, "/candidates/cand-1/verification",
		bytes.NewBufferString("{not json"))
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStartSession_MissingActor(t *testing.T) {
	srv, _ := newTestServer(t, nil)

	rec := doRequest(t, srv, http.MethodPost, "/candidates/cand-1/verification",
		StartSessionRequest{Record: testRecord()})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetSession(t *testing.T) {
	srv, _ := newTestServer(t, nil)
	id := startTestSession(t, srv)

	rec := doRequest(t, srv, http.MethodGet, "/sessions/"+id, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	snap := decodeBody[session.Snapshot](t, rec)
	assert.True(t, snap.Open)
	assert.Equal(t, "cand-1", snap.CandidateID)
	assert.Len(t, snap.Fields, 2)
	assert.Equal(t, session.ViewList, snap.ViewMode)
}

func TestGetSession_BadID(t *testing.T) {
	srv, _ := newTestServer(t, nil)

	rec := doRequest(t, srv, http.MethodGet, "/sessions/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetSession_NotFound(t *testing.T) {
	srv, _ := newTestServer(t, nil)

	rec := doRequest(t, srv, http.MethodGet, "/sessions/6f1a2b3c-4d5e-4f60-8a9b-0c1d2e3f4a5b", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCloseSession(t *testing.T) {
	srv, _ := newTestServer(t, nil)
	id := startTestSession(t, srv)

	rec := doRequest(t, srv, http.MethodDelete, "/sessions/"+id, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, srv, http.MethodGet, "/sessions/"+id, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAnswerField(t *testing.T) {
	srv, mem := newTestServer(t, nil)
	id := startTestSession(t, srv)

	rec := doRequest(t, srv, http.MethodPost,
		fmt.Sprintf("/sessions/%s/fields/posting_title/answer", id),
		AnswerRequest{Value: "Senior Backend Engineer", Note: "confirmed on call"})
	require.Equal(t, http.StatusOK, rec.Code)

	snap := decodeBody[session.Snapshot](t, rec)
	assert.Equal(t, session.ProgressAnswered, snap.Fields[0].Progress)

	stored, err := mem.Get(context.Background(), "cand-1", "posting_title")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "Senior Backend Engineer", stored.Value)
	assert.Equal(t, types.StatusVerified, stored.Status)
}

func TestAnswerField_UnknownField(t *testing.T) {
	srv, _ := newTestServer(t, nil)
	id := startTestSession(t, srv)

	rec := doRequest(t, srv, http.MethodPost,
		fmt.Sprintf("/sessions/%s/fields/shoe_size/answer", id),
		AnswerRequest{Value: 42})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAnswerField_AfterSkipConflicts(t *testing.T) {
	srv, _ := newTestServer(t, nil)
	id := startTestSession(t, srv)

	rec := doRequest(t, srv, http.MethodPost,
		fmt.Sprintf("/sessions/%s/fields/posting_title/skip", id),
		SkipRequest{Reason: "declined"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, srv, http.MethodPost,
		fmt.Sprintf("/sessions/%s/fields/posting_title/answer", id),
		AnswerRequest{Value: "Engineer"})
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestSkipField_StoresRejection(t *testing.T) {
	srv, mem := newTestServer(t, nil)
	id := startTestSession(t, srv)

	rec := doRequest(t, srv, http.MethodPost,
		fmt.Sprintf("/sessions/%s/fields/posting_title/skip", id),
		SkipRequest{Reason: "candidate unsure"})
	require.Equal(t, http.StatusOK, rec.Code)

	stored, err := mem.Get(context.Background(), "cand-1", "posting_title")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, types.StatusRejected, stored.Status)
	assert.Equal(t, "candidate unsure", stored.Notes)
}

func TestAskLaterField(t *testing.T) {
	srv, mem := newTestServer(t, nil)
	id := startTestSession(t, srv)

	rec := doRequest(t, srv, http.MethodPost,
		fmt.Sprintf("/sessions/%s/fields/posting_title/ask-later", id), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	snap := decodeBody[session.Snapshot](t, rec)
	assert.Equal(t, session.ProgressAskLater, snap.Fields[0].Progress)

	stored, err := mem.Get(context.Background(), "cand-1", "posting_title")
	require.NoError(t, err)
	assert.Nil(t, stored)
}

func TestRequestQuestions(t *testing.T) {
	client := &stubQuestions{resp: &types.QuestionResponse{
		Questions: []types.GeneratedQuestion{
			{Question: "What role are you targeting?", Field: "posting_title", Priority: 8},
		},
		CandidateID:    "cand-1",
		TotalQuestions: 1,
	}}
	srv, _ := newTestServer(t, client)
	id := startTestSession(t, srv)

	rec := doRequest(t, srv, http.MethodPost, "/sessions/"+id+"/questions", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	snap := decodeBody[session.Snapshot](t, rec)
	require.Len(t, snap.Questions, 1)
	assert.Equal(t, "What role are you targeting?", snap.Questions[0].Question)
}

func TestRequestQuestions_UpstreamStatusPassesThrough(t *testing.T) {
	client := &stubQuestions{err: &questions.UpstreamError{
		StatusCode: http.StatusUnprocessableEntity,
		Message:    "unknown field",
	}}
	srv, _ := newTestServer(t, client)
	id := startTestSession(t, srv)

	rec := doRequest(t, srv, http.MethodPost, "/sessions/"+id+"/questions", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestRequestQuestions_TransportError(t *testing.T) {
	client := &stubQuestions{err: &questions.TransportError{
		URL:   "http://questions.internal",
		Cause: fmt.Errorf("connection refused"),
	}}
	srv, _ := newTestServer(t, client)
	id := startTestSession(t, srv)

	rec := doRequest(t, srv, http.MethodPost, "/sessions/"+id+"/questions", nil)
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestViewModeAndFocusNavigation(t *testing.T) {
	srv, _ := newTestServer(t, nil)
	id := startTestSession(t, srv)

	rec := doRequest(t, srv, http.MethodPut, "/sessions/"+id+"/view", ViewRequest{Mode: "focus"})
	require.Equal(t, http.StatusOK, rec.Code)
	snap := decodeBody[session.Snapshot](t, rec)
	assert.Equal(t, session.ViewFocus, snap.ViewMode)

	rec = doRequest(t, srv, http.MethodPost, "/sessions/"+id+"/focus/next", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	focus := decodeBody[FocusResponse](t, rec)
	assert.Equal(t, 1, focus.FocusIndex)

	rec = doRequest(t, srv, http.MethodPost, "/sessions/"+id+"/focus/previous", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	focus = decodeBody[FocusResponse](t, rec)
	assert.Equal(t, 0, focus.FocusIndex)
}

func TestSetViewMode_InvalidMode(t *testing.T) {
	srv, _ := newTestServer(t, nil)
	id := startTestSession(t, srv)

	rec := doRequest(t, srv, http.MethodPut, "/sessions/"+id+"/view", ViewRequest{Mode: "grid"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestFieldHistory(t *testing.T) {
	srv, mem := newTestServer(t, nil)
	ctx := context.Background()

	_, err := mem.SetValue(ctx, "cand-1", "posting_title", "Engineer", "recruiter-7")
	require.NoError(t, err)
	_, err = mem.SetStatus(ctx, "cand-1", "posting_title", types.StatusVerified, "", "recruiter-7")
	require.NoError(t, err)

	rec := doRequest(t, srv, http.MethodGet, "/candidates/cand-1/fields/posting_title/history", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	body := decodeBody[struct {
		CandidateID string             `json:"candidate_id"`
		FieldName   string             `json:"field_name"`
		History     []types.AuditEntry `json:"history"`
	}](t, rec)
	assert.Equal(t, "cand-1", body.CandidateID)
	assert.Equal(t, "posting_title", body.FieldName)
	require.Len(t, body.History, 2)
	assert.Equal(t, types.AuditValueChange, body.History[0].Kind)
	assert.Equal(t, types.AuditStatusChange, body.History[1].Kind)
}

func TestFieldHistory_EmptyForUnknownField(t *testing.T) {
	srv, _ := newTestServer(t, nil)

	rec := doRequest(t, srv, http.MethodGet, "/candidates/cand-1/fields/never_touched/history", nil)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestCORSPreflight(t *testing.T) {
	srv, _ := newTestServer(t, nil)

	req := httptest.NewRequest(http.MethodOptions, "/sessions/abc", nil)
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}
