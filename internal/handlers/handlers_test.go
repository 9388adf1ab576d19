package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/emilythestrangee/stackit/backend/internal/auth"
	"github.com/emilythestrangee/stackit/backend/internal/handlers"
	"github.com/emilythestrangee/stackit/backend/internal/middleware"
	"github.com/emilythestrangee/stackit/backend/internal/models"
	"github.com/emilythestrangee/stackit/backend/internal/repo/memory"
	"github.com/emilythestrangee/stackit/backend/internal/services"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const testUserHeader = "X-Test-User"

// fakeAuth trusts a header instead of a token.
func fakeAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if id := c.GetHeader(testUserHeader); id != "" {
			c.Set(middleware.CtxUserID, id)
		}
		c.Next()
	}
}

type testAPI struct {
	router *gin.Engine
	store  *memory.Store
	users  *services.UserService
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()

	store := memory.NewStore()
	tokens := auth.NewManager("test-secret", time.Hour)
	questions := services.NewQuestionService(store, zerolog.Nop())
	users := services.NewUserService(store, questions, tokens, zerolog.Nop())

	h := handlers.NewHandler(handlers.Deps{
		Questions: questions,
		Users:     users,
		Store:     store,
		Log:       zerolog.Nop(),
		Timeout:   time.Second,
	})

	r := gin.New()
	r.Use(fakeAuth())
	r.GET("/health", h.Health.Health)

	api := r.Group("/api")
	api.POST("/auth/register", h.Auth.Register)
	api.POST("/auth/login", h.Auth.Login)
	api.PUT("/auth/update-profile", h.Auth.UpdateProfile)
	api.GET("/questions", h.Question.GetQuestions)
	api.POST("/questions", h.Question.CreateQuestion)
	api.GET("/questions/trending-tags", h.Question.GetTrendingTags)
	api.GET("/questions/:id", h.Question.GetQuestion)
	api.PUT("/questions/:id", h.Question.UpdateQuestion)
	api.DELETE("/questions/:id", h.Question.DeleteQuestion)
	api.PUT("/questions/:id/upvote", h.Vote.UpvoteQuestion)
	api.PUT("/questions/:id/downvote", h.Vote.DownvoteQuestion)
	api.POST("/questions/:id/answers", h.Answer.CreateAnswer)
	api.PUT("/questions/:id/answers/:answerId/accept", h.Answer.AcceptAnswer)
	api.PUT("/answers/:id/upvote", h.Vote.UpvoteAnswer)
	api.PUT("/answers/:id/downvote", h.Vote.DownvoteAnswer)
	api.POST("/questions/:id/comments", h.Comment.CreateComment)
	api.GET("/questions/:id/comments", h.Comment.GetComments)
	api.GET("/users/search", h.User.SearchUsers)
	api.GET("/users/:id", h.User.GetUserProfile)

	return &testAPI{router: r, store: store, users: users}
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
	Count   *int            `json:"count"`
	Token   string          `json:"token"`
}

func (a *testAPI) do(t *testing.T, method, path, userID, body string) (int, envelope) {
	t.Helper()

	var reader *bytes.Buffer
	if body != "" {
		reader = bytes.NewBufferString(body)
	} else {
		reader = &bytes.Buffer{}
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		req.Header.Set(testUserHeader, userID)
	}

	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)

	var env envelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("%s %s: failed to decode body: %v body=%s", method, path, err, w.Body.String())
	}
	return w.Code, env
}

func (a *testAPI) register(t *testing.T, name, email string) models.User {
	t.Helper()
	res, err := a.users.Register(context.Background(), models.RegisterRequest{Name: name, Email: email, Password: "secret123"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	return res.User
}

func (a *testAPI) createQuestion(t *testing.T, userID string) string {
	t.Helper()
	code, env := a.do(t, http.MethodPost, "/api/questions", userID, `{"title":"Why Go?","body":"Tell me","tags":["go","web"]}`)
	if code != http.StatusCreated {
		t.Fatalf("create question: got %d error=%s", code, env.Error)
	}
	var q struct {
		ID string `json:"_id"`
	}
	if err := json.Unmarshal(env.Data, &q); err != nil || q.ID == "" {
		t.Fatalf("create question: no id in %s", env.Data)
	}
	return q.ID
}

func TestCreateQuestionHandler(t *testing.T) {
	tests := []struct {
		name       string
		userID     string
		body       string
		wantStatus int
	}{
		{name: "success", userID: "u1", body: `{"title":"Q","body":"B","tags":["go"]}`, wantStatus: http.StatusCreated},
		{name: "no_tags", userID: "u1", body: `{"title":"Q","body":"B"}`, wantStatus: http.StatusCreated},
		{name: "missing_title", userID: "u1", body: `{"body":"B"}`, wantStatus: http.StatusBadRequest},
		{name: "unauthenticated", body: `{"title":"Q","body":"B"}`, wantStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := newTestAPI(t)
			code, env := api.do(t, http.MethodPost, "/api/questions", tt.userID, tt.body)
			if code != tt.wantStatus {
				t.Fatalf("got status %d, want %d, error=%s", code, tt.wantStatus, env.Error)
			}
			if env.Success != (code < 400) {
				t.Fatalf("success flag %v does not match status %d", env.Success, code)
			}
		})
	}
}

func TestQuestionLifecycleHandlers(t *testing.T) {
	api := newTestAPI(t)
	ada := api.register(t, "Ada", "ada@example.com")
	grace := api.register(t, "Grace", "grace@example.com")

	qid := api.createQuestion(t, ada.ID)

	code, env := api.do(t, http.MethodGet, "/api/questions", "", "")
	if code != http.StatusOK || env.Count == nil || *env.Count != 1 {
		t.Fatalf("list: got %d count=%v", code, env.Count)
	}

	code, env = api.do(t, http.MethodGet, "/api/questions/"+qid, "", "")
	if code != http.StatusOK {
		t.Fatalf("get: got %d", code)
	}
	var detail models.QuestionDetail
	if err := json.Unmarshal(env.Data, &detail); err != nil {
		t.Fatalf("decode detail: %v", err)
	}
	if detail.Author.Name != "Ada" {
		t.Fatalf("expected resolved author, got %+v", detail.Author)
	}

	code, env = api.do(t, http.MethodPut, "/api/questions/"+qid, grace.ID, `{"title":"Hijack"}`)
	if code != http.StatusUnauthorized || env.Error != "Not authorized to update this question" {
		t.Fatalf("update by non-owner: got %d %q", code, env.Error)
	}

	code, env = api.do(t, http.MethodPut, "/api/questions/"+qid, ada.ID, `{"status":"archived"}`)
	if code != http.StatusBadRequest {
		t.Fatalf("update with bad status: got %d %q", code, env.Error)
	}

	code, _ = api.do(t, http.MethodPut, "/api/questions/"+qid, ada.ID, `{"status":"closed"}`)
	if code != http.StatusOK {
		t.Fatalf("close question: got %d", code)
	}

	code, env = api.do(t, http.MethodPost, "/api/questions/"+qid+"/answers", grace.ID, `{"body":"Because"}`)
	if code != http.StatusCreated {
		t.Fatalf("answer: got %d %q", code, env.Error)
	}
	var answer models.Answer
	_ = json.Unmarshal(env.Data, &answer)

	code, env = api.do(t, http.MethodPut, "/api/questions/"+qid+"/answers/"+answer.ID+"/accept", grace.ID, "")
	if code != http.StatusUnauthorized {
		t.Fatalf("accept by non-owner: got %d %q", code, env.Error)
	}

	code, env = api.do(t, http.MethodPut, "/api/questions/"+qid+"/answers/"+answer.ID+"/accept", ada.ID, "")
	if code != http.StatusOK {
		t.Fatalf("accept: got %d %q", code, env.Error)
	}

	code, _ = api.do(t, http.MethodPost, "/api/questions/"+qid+"/comments", grace.ID, `{"body":"nice"}`)
	if code != http.StatusCreated {
		t.Fatalf("comment: got %d", code)
	}
	code, env = api.do(t, http.MethodGet, "/api/questions/"+qid+"/comments", "", "")
	if code != http.StatusOK || env.Count == nil || *env.Count != 1 {
		t.Fatalf("list comments: got %d count=%v", code, env.Count)
	}

	code, env = api.do(t, http.MethodDelete, "/api/questions/"+qid, ada.ID, "")
	if code != http.StatusOK || string(env.Data) != "{}" {
		t.Fatalf("delete: got %d data=%s", code, env.Data)
	}

	code, env = api.do(t, http.MethodGet, "/api/questions/"+qid, "", "")
	if code != http.StatusNotFound || env.Error != "Question not found" {
		t.Fatalf("get deleted: got %d %q", code, env.Error)
	}
}

func TestVoteHandlers(t *testing.T) {
	api := newTestAPI(t)
	ada := api.register(t, "Ada", "ada@example.com")
	qid := api.createQuestion(t, ada.ID)

	code, env := api.do(t, http.MethodPut, "/api/questions/"+qid+"/upvote", "voter", "")
	if code != http.StatusOK {
		t.Fatalf("upvote: got %d %q", code, env.Error)
	}
	var q models.Question
	_ = json.Unmarshal(env.Data, &q)
	if len(q.Votes.Upvotes) != 1 {
		t.Fatalf("expected one upvote, got %+v", q.Votes)
	}

	code, env = api.do(t, http.MethodPut, "/api/questions/"+qid+"/upvote", "voter", "")
	if code != http.StatusBadRequest || env.Error != "You have already upvoted this question" {
		t.Fatalf("repeat upvote: got %d %q", code, env.Error)
	}

	code, _ = api.do(t, http.MethodPut, "/api/questions/"+qid+"/downvote", "voter", "")
	if code != http.StatusOK {
		t.Fatalf("switch to downvote: got %d", code)
	}

	code, _ = api.do(t, http.MethodPut, "/api/answers/missing/upvote", "voter", "")
	if code != http.StatusNotFound {
		t.Fatalf("vote on missing answer: got %d", code)
	}

	code, _ = api.do(t, http.MethodPut, "/api/questions/"+qid+"/upvote", "", "")
	if code != http.StatusUnauthorized {
		t.Fatalf("anonymous vote: got %d", code)
	}
}

func TestTrendingTagsHandler(t *testing.T) {
	api := newTestAPI(t)
	api.createQuestion(t, "u1")
	api.createQuestion(t, "u1")

	code, env := api.do(t, http.MethodGet, "/api/questions/trending-tags", "", "")
	if code != http.StatusOK {
		t.Fatalf("got %d", code)
	}

	var tags []struct {
		ID    string `json:"_id"`
		Count int    `json:"count"`
	}
	if err := json.Unmarshal(env.Data, &tags); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(tags) != 2 || tags[0].ID != "go" || tags[0].Count != 2 || tags[1].ID != "web" {
		t.Fatalf("unexpected tags: %+v", tags)
	}
}

func TestAuthHandlers(t *testing.T) {
	api := newTestAPI(t)

	code, env := api.do(t, http.MethodPost, "/api/auth/register", "", `{"name":"Ada","email":"ada@example.com","password":"secret123"}`)
	if code != http.StatusCreated || env.Token == "" {
		t.Fatalf("register: got %d token=%q error=%q", code, env.Token, env.Error)
	}
	if bytes.Contains(env.Data, []byte("password")) {
		t.Fatalf("password leaked: %s", env.Data)
	}

	code, env = api.do(t, http.MethodPost, "/api/auth/register", "", `{"name":"Ada","email":"ada@example.com","password":"secret123"}`)
	if code != http.StatusBadRequest || env.Error != "User already exists" {
		t.Fatalf("duplicate register: got %d %q", code, env.Error)
	}

	code, env = api.do(t, http.MethodPost, "/api/auth/login", "", `{"email":"ada@example.com","password":"secret123"}`)
	if code != http.StatusOK || env.Token == "" {
		t.Fatalf("login: got %d", code)
	}
	var u models.User
	_ = json.Unmarshal(env.Data, &u)

	code, env = api.do(t, http.MethodPost, "/api/auth/login", "", `{"email":"ada@example.com","password":"nope-nope"}`)
	if code != http.StatusUnauthorized || env.Error != "Invalid credentials" {
		t.Fatalf("bad login: got %d %q", code, env.Error)
	}

	code, env = api.do(t, http.MethodPut, "/api/auth/update-profile", u.ID, `{"name":"Ada L"}`)
	if code != http.StatusOK {
		t.Fatalf("update profile: got %d %q", code, env.Error)
	}
}

func TestUserHandlers(t *testing.T) {
	api := newTestAPI(t)
	ada := api.register(t, "Ada Lovelace", "ada@example.com")
	api.createQuestion(t, ada.ID)

	code, env := api.do(t, http.MethodGet, "/api/users/search?name=love", "", "")
	if code != http.StatusOK || env.Count == nil || *env.Count != 1 {
		t.Fatalf("search: got %d count=%v", code, env.Count)
	}

	code, env = api.do(t, http.MethodGet, "/api/users/search", "", "")
	if code != http.StatusBadRequest || env.Error != "Please provide a name to search" {
		t.Fatalf("search without name: got %d %q", code, env.Error)
	}

	code, env = api.do(t, http.MethodGet, "/api/users/"+ada.ID, "", "")
	if code != http.StatusOK {
		t.Fatalf("profile: got %d", code)
	}
	var profile struct {
		User      models.User               `json:"user"`
		Questions []models.QuestionSummary `json:"questions"`
	}
	if err := json.Unmarshal(env.Data, &profile); err != nil {
		t.Fatalf("decode profile: %v", err)
	}
	if profile.User.ID != ada.ID || len(profile.Questions) != 1 {
		t.Fatalf("unexpected profile: %+v", profile)
	}

	code, _ = api.do(t, http.MethodGet, "/api/users/missing", "", "")
	if code != http.StatusNotFound {
		t.Fatalf("missing profile: got %d", code)
	}
}

type failingPinger struct{}

func (failingPinger) Ping(ctx context.Context) error { return errors.New("down") }

func TestHealthHandler(t *testing.T) {
	api := newTestAPI(t)
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	api.router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("healthy store: got %d", w.Code)
	}

	r := gin.New()
	r.GET("/health", handlers.NewHealthHandler(failingPinger{}, nil).Health)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("failing store: got %d", w.Code)
	}
}

// brokenStore fails every feed read.
type brokenStore struct {
	*memory.Store
}

func (brokenStore) ListQuestions(ctx context.Context, filter models.QuestionFilter) ([]models.Question, error) {
	return nil, errors.New("connection reset by peer")
}

func TestServerErrorsAreMasked(t *testing.T) {
	store := brokenStore{Store: memory.NewStore()}
	questions := services.NewQuestionService(store, zerolog.Nop())
	r := gin.New()
	r.GET("/api/questions", handlers.NewQuestionHandler(questions, zerolog.Nop(), 0).GetQuestions)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/questions", nil))

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("got %d, want 500", w.Code)
	}
	var env envelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if env.Success || env.Error != "Server Error" {
		t.Fatalf("unexpected envelope: %+v", env)
	}
	if bytes.Contains(w.Body.Bytes(), []byte("connection reset")) {
		t.Fatalf("internal error leaked: %s", w.Body.String())
	}
}
