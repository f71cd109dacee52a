package handler_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/iliyamo/advice-forum/internal/advice"
	"github.com/iliyamo/advice-forum/internal/config"
	"github.com/iliyamo/advice-forum/internal/database"
	"github.com/iliyamo/advice-forum/internal/handler"
	"github.com/iliyamo/advice-forum/internal/middleware"
	"github.com/iliyamo/advice-forum/internal/model"
	"github.com/iliyamo/advice-forum/internal/moderation"
	"github.com/iliyamo/advice-forum/internal/queue"
	"github.com/iliyamo/advice-forum/internal/repository"
	"github.com/iliyamo/advice-forum/internal/router"
)

type stubGenerator struct {
	reply string
	fail  bool
	calls atomic.Int32
}

func (g *stubGenerator) Advise(context.Context, string) (string, error) {
	g.calls.Add(1)
	if g.fail {
		return "", errors.New("model unavailable")
	}
	return g.reply, nil
}

type testApp struct {
	e     *echo.Echo
	posts *repository.PostRepo
}

func newTestApp(t *testing.T, gen advice.Generator, feedRequireAuth bool) *testApp {
	t.Helper()
	db, err := database.Open(filepath.Join(t.TempDir(), "forum.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	users := repository.NewUserRepo(db)
	sessions := repository.NewSessionRepo(db)
	posts := repository.NewPostRepo(db)
	comments := repository.NewCommentRepo(db)

	logger := zap.NewNop()
	annotator := advice.NewAnnotator(comments, gen, 8, logger)
	annotator.Start()
	t.Cleanup(annotator.Stop)

	limiter := middleware.NewTokenBucket(config.RateLimitConfig{}, nil)
	authHandler := handler.NewAuthHandler(users, sessions)
	postHandler := handler.NewPostHandler(posts, comments, moderation.NewClassifier(), annotator, queue.NewPublisher("", logger))

	e := echo.New()
	router.Register(e, config.Config{FeedRequireAuth: feedRequireAuth}, authHandler, postHandler, sessions, limiter)
	return &testApp{e: e, posts: posts}
}

func (a *testApp) request(method, path, body, token, contentType string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if contentType != "" {
		req.Header.Set(echo.HeaderContentType, contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.e.ServeHTTP(w, req)
	return w
}

func (a *testApp) signup(t *testing.T, username, password string) string {
	t.Helper()
	w := a.request(http.MethodPost, "/api/create_account",
		`{"username":"`+username+`","password":"`+password+`"}`, "", echo.MIMEApplicationJSON)
	require.Equal(t, http.StatusOK, w.Code)
	var token string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &token))
	require.NotEmpty(t, token)
	return token
}

func (a *testApp) feed(t *testing.T, token string) []model.FeedPost {
	t.Helper()
	w := a.request(http.MethodGet, "/api/get_posts", "", token, "")
	require.Equal(t, http.StatusOK, w.Code)
	var posts []model.FeedPost
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &posts))
	return posts
}

func TestCreateAccountAndValidateSession(t *testing.T) {
	app := newTestApp(t, &stubGenerator{reply: "ok"}, false)
	token := app.signup(t, "alice", "hunter2")

	// repeated validation is idempotent and always resolves the same user
	for i := 0; i < 3; i++ {
		w := app.request(http.MethodGet, "/api/validate_session", "", token, "")
		require.Equal(t, http.StatusOK, w.Code)
		var username string
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &username))
		assert.Equal(t, "alice", username)
	}
}

func TestValidateSessionWithoutBearer(t *testing.T) {
	app := newTestApp(t, &stubGenerator{}, false)
	w := app.request(http.MethodGet, "/api/validate_session", "", "", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "null", strings.TrimSpace(w.Body.String()))
}

func TestDuplicateUsernameConflict(t *testing.T) {
	app := newTestApp(t, &stubGenerator{}, false)
	app.signup(t, "alice", "hunter2")

	w := app.request(http.MethodPost, "/api/create_account",
		`{"username":"alice","password":"different"}`, "", echo.MIMEApplicationJSON)
	assert.Equal(t, http.StatusConflict, w.Code)

	// the first account's credentials still work
	w = app.request(http.MethodPost, "/api/login",
		`{"username":"alice","password":"hunter2"}`, "", echo.MIMEApplicationJSON)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestLoginWrongPassword(t *testing.T) {
	app := newTestApp(t, &stubGenerator{}, false)
	token := app.signup(t, "alice", "hunter2")

	w := app.request(http.MethodPost, "/api/login",
		`{"username":"alice","password":"wrong"}`, "", echo.MIMEApplicationJSON)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// no new session was issued, the signup token is still live
	w = app.request(http.MethodGet, "/api/validate_session", "", token, "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestLoginUnknownUser(t *testing.T) {
	app := newTestApp(t, &stubGenerator{}, false)
	w := app.request(http.MethodPost, "/api/login",
		`{"username":"ghost","password":"x"}`, "", echo.MIMEApplicationJSON)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestLoginSupersedesPreviousToken(t *testing.T) {
	app := newTestApp(t, &stubGenerator{}, false)
	token1 := app.signup(t, "alice", "hunter2")

	w := app.request(http.MethodPost, "/api/login",
		`{"username":"alice","password":"hunter2"}`, "", echo.MIMEApplicationJSON)
	require.Equal(t, http.StatusOK, w.Code)
	var token2 string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &token2))
	require.NotEqual(t, token1, token2)

	w = app.request(http.MethodGet, "/api/validate_session", "", token1, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	w = app.request(http.MethodGet, "/api/validate_session", "", token2, "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestSubmitPostFlow(t *testing.T) {
	app := newTestApp(t, &stubGenerator{reply: "talk to your manager first"}, false)
	token := app.signup(t, "alice", "hunter2")

	w := app.request(http.MethodPost, "/api/submit_post",
		"should I ask for a raise?", token, echo.MIMETextPlain)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "OK, reload", w.Body.String())

	// post and placeholder comment are visible immediately
	posts := app.feed(t, "")
	require.Len(t, posts, 1)
	assert.Equal(t, "alice", posts[0].Username)
	assert.Equal(t, "should I ask for a raise?", posts[0].Content)
	require.Len(t, posts[0].Comments, 1)
	assert.Equal(t, model.AIUsername, posts[0].Comments[0].Username)

	// the placeholder resolves to advice in the background
	require.Eventually(t, func() bool {
		posts := app.feed(t, "")
		return len(posts) == 1 && len(posts[0].Comments) == 1 &&
			posts[0].Comments[0].Content == "talk to your manager first"
	}, 3*time.Second, 20*time.Millisecond)
}

func TestSubmitPostAdviceFailureWritesSentinel(t *testing.T) {
	app := newTestApp(t, &stubGenerator{fail: true}, false)
	token := app.signup(t, "alice", "hunter2")

	w := app.request(http.MethodPost, "/api/submit_post", "hello world", token, echo.MIMETextPlain)
	require.Equal(t, http.StatusOK, w.Code)

	require.Eventually(t, func() bool {
		posts := app.feed(t, "")
		return len(posts) == 1 && len(posts[0].Comments) == 1 &&
			posts[0].Comments[0].Content == "Error"
	}, 3*time.Second, 20*time.Millisecond)
}

func TestSubmitPostUnauthorized(t *testing.T) {
	app := newTestApp(t, &stubGenerator{}, false)
	w := app.request(http.MethodPost, "/api/submit_post", "hello", "", echo.MIMETextPlain)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Empty(t, app.feed(t, ""))
}

func TestSubmitPostEmpty(t *testing.T) {
	app := newTestApp(t, &stubGenerator{}, false)
	token := app.signup(t, "alice", "hunter2")

	w := app.request(http.MethodPost, "/api/submit_post", "   \n\t ", token, echo.MIMETextPlain)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, app.feed(t, ""))
}

func TestSubmitPostBlockedByModeration(t *testing.T) {
	app := newTestApp(t, &stubGenerator{}, false)
	token := app.signup(t, "alice", "hunter2")

	w := app.request(http.MethodPost, "/api/submit_post", "everyone here should kys", token, echo.MIMETextPlain)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "Cannot say that", w.Body.String())
	assert.Empty(t, app.feed(t, ""))
}

func TestAddComment(t *testing.T) {
	app := newTestApp(t, &stubGenerator{reply: "ok"}, false)
	token := app.signup(t, "alice", "hunter2")
	w := app.request(http.MethodPost, "/api/submit_post", "first post", token, echo.MIMETextPlain)
	require.Equal(t, http.StatusOK, w.Code)

	w = app.request(http.MethodPost, "/api/add_comment",
		`{"post_id":1,"content":"welcome aboard"}`, token, echo.MIMEApplicationJSON)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "OK", w.Body.String())

	posts := app.feed(t, "")
	require.Len(t, posts, 1)
	require.Len(t, posts[0].Comments, 2)
	assert.Equal(t, "alice", posts[0].Comments[1].Username)
	assert.Equal(t, "welcome aboard", posts[0].Comments[1].Content)
}

func TestAddCommentUnknownPost(t *testing.T) {
	app := newTestApp(t, &stubGenerator{}, false)
	token := app.signup(t, "alice", "hunter2")

	w := app.request(http.MethodPost, "/api/add_comment",
		`{"post_id":42,"content":"hello?"}`, token, echo.MIMEApplicationJSON)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Empty(t, app.feed(t, ""))
}

func TestAddCommentBlockedByModeration(t *testing.T) {
	app := newTestApp(t, &stubGenerator{reply: "ok"}, false)
	token := app.signup(t, "alice", "hunter2")
	w := app.request(http.MethodPost, "/api/submit_post", "first post", token, echo.MIMETextPlain)
	require.Equal(t, http.StatusOK, w.Code)

	w = app.request(http.MethodPost, "/api/add_comment",
		`{"post_id":1,"content":"you absolute idiot"}`, token, echo.MIMEApplicationJSON)
	assert.Equal(t, http.StatusForbidden, w.Code)

	posts := app.feed(t, "")
	require.Len(t, posts, 1)
	assert.Len(t, posts[0].Comments, 1) // only the AI placeholder
}

func TestGetPostsNullCommentsForBarePost(t *testing.T) {
	app := newTestApp(t, &stubGenerator{}, false)

	// a post written outside the submit workflow has no placeholder
	require.NoError(t, app.posts.Insert(context.Background(),
		model.Post{ID: 1, Username: "alice", Content: "imported", Created: 1}))

	w := app.request(http.MethodGet, "/api/get_posts", "", "", "")
	require.Equal(t, http.StatusOK, w.Code)

	var raw []map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &raw))
	require.Len(t, raw, 1)
	assert.Equal(t, "null", string(raw[0]["comments"]))
}

func TestGetPostsRequiresAuthWhenConfigured(t *testing.T) {
	app := newTestApp(t, &stubGenerator{}, true)

	w := app.request(http.MethodGet, "/api/get_posts", "", "", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	token := app.signup(t, "alice", "hunter2")
	w = app.request(http.MethodGet, "/api/get_posts", "", token, "")
	assert.Equal(t, http.StatusOK, w.Code)
}
