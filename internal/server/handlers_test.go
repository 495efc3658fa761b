package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ashmita1206/Odoo-Hackathon-2025/internal/config"
	"github.com/Ashmita1206/Odoo-Hackathon-2025/internal/domain"
	"github.com/Ashmita1206/Odoo-Hackathon-2025/internal/forum"
	"github.com/Ashmita1206/Odoo-Hackathon-2025/internal/notify"
	"github.com/Ashmita1206/Odoo-Hackathon-2025/internal/websocket"
)

const testSecret = "test-secret-test-secret-test-secret!"

func newTestServer(t *testing.T) *Server {
	t.Helper()

	cfg := &config.Config{
		AppEnv:    "test",
		Port:      "0",
		JWTSecret: testSecret,
	}
	clock := clockwork.NewFakeClock()
	store := forum.NewInMemoryStore(clock)
	hub := websocket.NewHub()
	t.Cleanup(hub.Stop)

	dispatcher := notify.NewDispatcher(store, nil, clock)
	svc := forum.NewService(store, dispatcher, nil, clock)
	return NewServer(cfg, svc, dispatcher, hub, nil, nil)
}

func tokenFor(t *testing.T, identity domain.Identity) string {
	t.Helper()
	token, err := IssueToken(testSecret, identity, time.Hour)
	require.NoError(t, err)
	return token
}

func doRequest(t *testing.T, srv *Server, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("{}")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	srv.Echo().ServeHTTP(rec, req)
	return rec
}

func decodeJSON(t *testing.T, rec *httptest.ResponseRecorder, out any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), out))
}

func postQuestion(t *testing.T, srv *Server, token string) questionJSON {
	t.Helper()
	rec := doRequest(t, srv, http.MethodPost, "/api/questions", token,
		`{"title":"How does context cancellation work?","content":"Looking for a detailed explanation of context trees.","tags":["go","context"]}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var q questionJSON
	decodeJSON(t, rec, &q)
	return q
}

func postAnswer(t *testing.T, srv *Server, token string, questionID uuid.UUID) answerJSON {
	t.Helper()
	rec := doRequest(t, srv, http.MethodPost, "/api/answers/"+questionID.String(), token,
		`{"content":"Cancellation propagates down the context tree."}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var a answerJSON
	decodeJSON(t, rec, &a)
	return a
}

func TestAPIRequiresAuthentication(t *testing.T) {
	srv := newTestServer(t)

	rec := doRequest(t, srv, http.MethodGet, "/api/notifications", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doRequest(t, srv, http.MethodGet, "/api/notifications", "not-a-jwt", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCreateAndGetQuestion(t *testing.T) {
	srv := newTestServer(t)
	asker := identity("asker")
	token := tokenFor(t, asker)

	q := postQuestion(t, srv, token)
	assert.Equal(t, asker.UserID, q.Author)
	assert.Equal(t, []string{"go", "context"}, q.Tags)

	rec := doRequest(t, srv, http.MethodGet, "/api/questions/"+q.ID.String(), token, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Question questionJSON `json:"question"`
		Answers  []answerJSON `json:"answers"`
	}
	decodeJSON(t, rec, &resp)
	assert.Equal(t, q.ID, resp.Question.ID)
	assert.Empty(t, resp.Answers)
}

func TestCreateQuestionValidation(t *testing.T) {
	srv := newTestServer(t)
	token := tokenFor(t, identity("asker"))

	rec := doRequest(t, srv, http.MethodPost, "/api/questions", token,
		`{"title":"short","content":"too short","tags":[]}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetUnknownQuestionReturns404(t *testing.T) {
	srv := newTestServer(t)
	token := tokenFor(t, identity("reader"))

	rec := doRequest(t, srv, http.MethodGet, "/api/questions/"+uuid.NewString(), token, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doRequest(t, srv, http.MethodGet, "/api/questions/not-a-uuid", token, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestQuestionVoteToggle(t *testing.T) {
	srv := newTestServer(t)
	asker := identity("asker")
	voter := identity("voter")
	q := postQuestion(t, srv, tokenFor(t, asker))
	voterToken := tokenFor(t, voter)

	rec := doRequest(t, srv, http.MethodPost, "/api/questions/"+q.ID.String()+"/upvote", voterToken, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var res domain.VoteResult
	decodeJSON(t, rec, &res)
	assert.True(t, res.Applied)
	assert.Equal(t, 1, res.Score)

	rec = doRequest(t, srv, http.MethodPost, "/api/questions/"+q.ID.String()+"/upvote", voterToken, "")
	require.Equal(t, http.StatusOK, rec.Code)
	decodeJSON(t, rec, &res)
	assert.False(t, res.Applied)
	assert.Equal(t, 0, res.Score)

	rec = doRequest(t, srv, http.MethodPost, "/api/questions/"+q.ID.String()+"/downvote", voterToken, "")
	require.Equal(t, http.StatusOK, rec.Code)
	decodeJSON(t, rec, &res)
	assert.True(t, res.Applied)
	assert.Equal(t, -1, res.Score)
}

func TestAnswerLifecycle(t *testing.T) {
	srv := newTestServer(t)
	asker := identity("asker")
	answerer := identity("answerer")
	q := postQuestion(t, srv, tokenFor(t, asker))
	answererToken := tokenFor(t, answerer)

	a := postAnswer(t, srv, answererToken, q.ID)
	assert.Equal(t, q.ID, a.QuestionID)
	assert.False(t, a.IsAccepted)

	rec := doRequest(t, srv, http.MethodPost, "/api/answers/"+a.ID.String()+"/upvote", tokenFor(t, identity("voter")), "")
	require.Equal(t, http.StatusOK, rec.Code)

	// A stranger cannot delete someone else's answer.
	rec = doRequest(t, srv, http.MethodDelete, "/api/answers/"+a.ID.String(), tokenFor(t, identity("stranger")), "")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = doRequest(t, srv, http.MethodDelete, "/api/answers/"+a.ID.String(), answererToken, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestAcceptAnswerEndpoint(t *testing.T) {
	srv := newTestServer(t)
	asker := identity("asker")
	answerer := identity("answerer")
	askerToken := tokenFor(t, asker)
	q := postQuestion(t, srv, askerToken)
	a := postAnswer(t, srv, tokenFor(t, answerer), q.ID)

	body := `{"answerId":"` + a.ID.String() + `"}`

	// Only the question author may accept.
	rec := doRequest(t, srv, http.MethodPost, "/api/questions/"+q.ID.String()+"/accept-answer", tokenFor(t, identity("stranger")), body)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = doRequest(t, srv, http.MethodPost, "/api/questions/"+q.ID.String()+"/accept-answer", askerToken, body)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var accepted answerJSON
	decodeJSON(t, rec, &accepted)
	assert.True(t, accepted.IsAccepted)
	require.NotNil(t, accepted.AcceptedAt)
}

func TestAcceptAnswerFromOtherQuestionRejected(t *testing.T) {
	srv := newTestServer(t)
	asker := identity("asker")
	askerToken := tokenFor(t, asker)
	q1 := postQuestion(t, srv, askerToken)
	q2 := postQuestion(t, srv, askerToken)
	a := postAnswer(t, srv, tokenFor(t, identity("answerer")), q2.ID)

	rec := doRequest(t, srv, http.MethodPost, "/api/questions/"+q1.ID.String()+"/accept-answer", askerToken,
		`{"answerId":"`+a.ID.String()+`"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPostCommentEndpoint(t *testing.T) {
	srv := newTestServer(t)
	q := postQuestion(t, srv, tokenFor(t, identity("asker")))
	commenterToken := tokenFor(t, identity("commenter"))

	rec := doRequest(t, srv, http.MethodPost, "/api/comments", commenterToken,
		`{"entityType":"question","entityId":"`+q.ID.String()+`","content":"Could you share the error output?"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var comment commentJSON
	decodeJSON(t, rec, &comment)
	assert.Equal(t, q.ID, comment.EntityID)

	rec = doRequest(t, srv, http.MethodPost, "/api/comments", commenterToken,
		`{"entityType":"tag","entityId":"`+q.ID.String()+`","content":"nope"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestNotificationFlow(t *testing.T) {
	srv := newTestServer(t)
	asker := identity("asker")
	askerToken := tokenFor(t, asker)
	q := postQuestion(t, srv, askerToken)

	// A vote from someone else lands in the asker's inbox.
	rec := doRequest(t, srv, http.MethodPost, "/api/questions/"+q.ID.String()+"/upvote", tokenFor(t, identity("voter")), "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, srv, http.MethodGet, "/api/notifications", askerToken, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var list struct {
		Notifications []notificationJSON `json:"notifications"`
		Total         int                `json:"total"`
		Unread        int                `json:"unread"`
	}
	decodeJSON(t, rec, &list)
	require.Len(t, list.Notifications, 1)
	assert.Equal(t, 1, list.Total)
	assert.Equal(t, 1, list.Unread)
	assert.Equal(t, "upvote", list.Notifications[0].Kind)
	n := list.Notifications[0]

	rec = doRequest(t, srv, http.MethodGet, "/api/notifications/unread-count", askerToken, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var count struct {
		Count int `json:"count"`
	}
	decodeJSON(t, rec, &count)
	assert.Equal(t, 1, count.Count)

	// Someone else cannot touch the asker's notification.
	rec = doRequest(t, srv, http.MethodPut, "/api/notifications/"+n.ID.String()+"/read", tokenFor(t, identity("intruder")), "")
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = doRequest(t, srv, http.MethodPut, "/api/notifications/"+n.ID.String()+"/read", askerToken, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var marked notificationJSON
	decodeJSON(t, rec, &marked)
	assert.True(t, marked.Read)

	rec = doRequest(t, srv, http.MethodDelete, "/api/notifications/"+n.ID.String(), askerToken, "")
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = doRequest(t, srv, http.MethodDelete, "/api/notifications/"+n.ID.String(), askerToken, "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestSelfVoteCreatesNoNotification(t *testing.T) {
	srv := newTestServer(t)
	asker := identity("asker")
	askerToken := tokenFor(t, asker)
	q := postQuestion(t, srv, askerToken)

	rec := doRequest(t, srv, http.MethodPost, "/api/questions/"+q.ID.String()+"/upvote", askerToken, "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, srv, http.MethodGet, "/api/notifications/unread-count", askerToken, "")
	require.Equal(t, http.StatusOK, rec.Code)
	var count struct {
		Count int `json:"count"`
	}
	decodeJSON(t, rec, &count)
	assert.Equal(t, 0, count.Count)
}

func TestMarkAllReadEndpoint(t *testing.T) {
	srv := newTestServer(t)
	asker := identity("asker")
	askerToken := tokenFor(t, asker)
	q := postQuestion(t, srv, askerToken)

	doRequest(t, srv, http.MethodPost, "/api/questions/"+q.ID.String()+"/upvote", tokenFor(t, identity("voter-a")), "")
	doRequest(t, srv, http.MethodPost, "/api/questions/"+q.ID.String()+"/upvote", tokenFor(t, identity("voter-b")), "")

	rec := doRequest(t, srv, http.MethodPut, "/api/notifications/read-all", askerToken, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Updated int64 `json:"updated"`
	}
	decodeJSON(t, rec, &resp)
	assert.Equal(t, int64(2), resp.Updated)
}

func TestHealthAndVersionEndpoints(t *testing.T) {
	srv := newTestServer(t)

	rec := doRequest(t, srv, http.MethodGet, "/health/live", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	// Nil dependency checks are skipped in in-memory mode.
	rec = doRequest(t, srv, http.MethodGet, "/health/ready", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, srv, http.MethodGet, "/version", "", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	var info struct {
		GoVersion string `json:"go_version"`
	}
	decodeJSON(t, rec, &info)
	assert.NotEmpty(t, info.GoVersion)
}

func identity(username string) domain.Identity {
	return domain.Identity{UserID: uuid.New(), Username: username, Role: domain.RoleUser}
}
