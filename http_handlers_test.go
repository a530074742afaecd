package main

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubService lets handler tests run without a database
type stubService struct {
	shows    []Show
	nowShow  *Show
	admins   map[string]bool
	health   LivenessResult
	comments []Comment
	stream   string
}

func (s *stubService) AllShows() []Show                  { return s.shows }
func (s *stubService) CreateShow(sh Show) (*Show, error) { return &sh, nil }
func (s *stubService) UpdateShow(sh Show) (*Show, error) { return &sh, nil }
func (s *stubService) DeleteShow(int64) error            { return nil }
func (s *stubService) NowPlaying(time.Time) *Show        { return s.nowShow }

func (s *stubService) Presenters() ([]Presenter, error)                { return nil, nil }
func (s *stubService) PresenterByID(int64) (*Presenter, error)         { return nil, nil }
func (s *stubService) CreatePresenter(p Presenter) (*Presenter, error) { return &p, nil }
func (s *stubService) UpdatePresenter(p Presenter) (*Presenter, error) { return &p, nil }
func (s *stubService) DeletePresenter(int64) error                     { return nil }

func (s *stubService) PostComment(username, message, deviceID string) (*Comment, error) {
	c := Comment{ID: 1, Username: username, Message: message, DeviceID: deviceID}
	s.comments = append(s.comments, c)
	return &c, nil
}
func (s *stubService) VisibleComments() ([]Comment, error)       { return s.comments, nil }
func (s *stubService) DeleteComment(int64) error                 { return nil }
func (s *stubService) ReportComment(int64, string, string) error { return nil }
func (s *stubService) Reports() ([]CommentReport, error)         { return nil, nil }

func (s *stubService) IsAdmin(deviceID string) bool { return s.admins[deviceID] }
func (s *stubService) StreamURL() string            { return s.stream }
func (s *stubService) StreamHealth() LivenessResult { return s.health }
func (s *stubService) Location() *time.Location     { return nairobi }
func (s *stubService) close()                       {}

func newTestRouter(t *testing.T, stub *stubService) http.Handler {
	t.Helper()
	return NewHTTPRouter(stub, &FallbackPlayer{}, []byte("test-secret"), t.TempDir())
}

func doJSON(t *testing.T, h http.Handler, method, target, body string, header map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	for k, v := range header {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestNowPlayingEndpoint(t *testing.T) {
	stub := &stubService{nowShow: &Show{ID: 5, Title: "Asubuhi Leo", Presenters: []string{"DJ Ben"}}}
	h := newTestRouter(t, stub)

	rec := doJSON(t, h, http.MethodGet, "/api/shows/now", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var got Show
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "Asubuhi Leo", got.Title)
	assert.Equal(t, []string{"DJ Ben"}, got.Presenters)
}

func TestNowPlayingNothingOnAir(t *testing.T) {
	h := newTestRouter(t, &stubService{})

	rec := doJSON(t, h, http.MethodGet, "/api/shows/now", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "null", strings.TrimSpace(rec.Body.String()))
}

func TestStreamHealthEndpoint(t *testing.T) {
	checked := time.Now()
	stub := &stubService{health: LivenessResult{Status: StreamDown, CheckedAt: checked}}
	h := newTestRouter(t, stub)

	rec := doJSON(t, h, http.MethodGet, "/api/stream/health", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var got LivenessResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, StreamDown, got.Status)
	assert.WithinDuration(t, checked, got.CheckedAt, time.Second)
}

func TestShowMutationsNeedAdmin(t *testing.T) {
	stub := &stubService{admins: map[string]bool{"admin-device": true}}
	h := newTestRouter(t, stub)

	body := `{"title":"New Show","start_time":"06:00:00","end_time":"10:00:00","days":["mon"]}`

	rec := doJSON(t, h, http.MethodPost, "/api/shows", body, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = doJSON(t, h, http.MethodPost, "/api/shows", body,
		map[string]string{"X-Device-ID": "some-listener"})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = doJSON(t, h, http.MethodPost, "/api/shows", body,
		map[string]string{"X-Device-ID": "admin-device"})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAdminLoginIssuesUsableToken(t *testing.T) {
	stub := &stubService{admins: map[string]bool{"admin-device": true}}
	h := newTestRouter(t, stub)

	rec := doJSON(t, h, http.MethodPost, "/api/admin/login", `{"device_id":"nobody"}`, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = doJSON(t, h, http.MethodPost, "/api/admin/login", `{"device_id":"admin-device"}`, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var login struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &login))
	require.NotEmpty(t, login.Token)

	rec = doJSON(t, h, http.MethodDelete, "/api/comments/1", "",
		map[string]string{"Authorization": "Bearer " + login.Token})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestPostAndListComments(t *testing.T) {
	stub := &stubService{}
	h := newTestRouter(t, stub)

	rec := doJSON(t, h, http.MethodPost, "/api/comments", `{"username":"Asha","message":"karibu"}`, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, h, http.MethodGet, "/api/comments", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var got []Comment
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "karibu", got[0].Message)
}

func TestReportCommentRequiresID(t *testing.T) {
	h := newTestRouter(t, &stubService{})

	rec := doJSON(t, h, http.MethodPost, "/api/report-comment", `{"reason":"spam"}`, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, h, http.MethodPost, "/api/report-comment", `{"commentId":3,"reason":"spam"}`, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCheckAdmin(t *testing.T) {
	stub := &stubService{admins: map[string]bool{"admin-device": true}}
	h := newTestRouter(t, stub)

	rec := doJSON(t, h, http.MethodGet, "/api/check-admin?device_id=admin-device", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"isAdmin":true}`, rec.Body.String())

	rec = doJSON(t, h, http.MethodGet, "/api/check-admin", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"isAdmin":false}`, rec.Body.String())
}

func TestFallbackPlayerEndpoints(t *testing.T) {
	h := newTestRouter(t, &stubService{})

	rec := doJSON(t, h, http.MethodPost, "/api/fallback/set", `{"url":"https://example.com/backup.mp3"}`, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, h, http.MethodPost, "/api/fallback/play", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(t, h, http.MethodGet, "/api/fallback", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var state FallbackState
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &state))
	assert.Equal(t, "https://example.com/backup.mp3", state.Stream)
	assert.True(t, state.IsPlaying)
}
