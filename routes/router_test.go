package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/24SankeerthM/FUTURE-FS-02/controllers"
	"github.com/24SankeerthM/FUTURE-FS-02/middleware"
	"github.com/24SankeerthM/FUTURE-FS-02/models"
	"github.com/24SankeerthM/FUTURE-FS-02/repository"
	"github.com/24SankeerthM/FUTURE-FS-02/service"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testApp struct {
	router *gin.Engine
	users  *memUsers
	leads  *memLeads
	userSv *service.UserService
}

func newTestApp(t *testing.T, db controllers.DatabaseStatus) *testApp {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	limiter := middleware.NewRateLimiter(1, 3)
	t.Cleanup(limiter.Stop)

	app := &testApp{users: &memUsers{}, leads: &memLeads{}}
	blacklist := repository.NewTokenBlacklist(client)
	app.userSv = service.NewUserService(app.users, blacklist, service.AuthSettings{
		JWTSecret:     "router-secret",
		TokenTTL:      time.Hour,
		AdminName:     "System Admin",
		AdminEmail:    "admin@system.com",
		AdminPassword: "systempassword123",
	})
	leadSvc := service.NewLeadService(app.leads, app.userSv, nil, nil, "US")
	taskSvc := service.NewTaskService(&memTasks{tasks: map[primitive.ObjectID]models.Task{}})
	chatSvc := service.NewChatService(&memChat{}, nil)
	announcementSvc := service.NewAnnouncementService(&memAnnouncements{})

	router, err := NewEngine(nil)
	require.NoError(t, err)
	app.router = router
	app.router.Use(middleware.ErrorHandler())
	RegisterRoutes(app.router, &Handlers{
		JWTSecret:     "router-secret",
		TokenChecker:  blacklist,
		Accounts:      app.users,
		PublicLimiter: limiter,
		Auth:          controllers.NewAuthController(app.userSv),
		Users:         controllers.NewUserController(app.userSv),
		Leads:         controllers.NewLeadController(leadSvc),
		Tasks:         controllers.NewTaskController(taskSvc),
		Chat:          controllers.NewChatController(chatSvc),
		Announcements: controllers.NewAnnouncementController(announcementSvc),
		Health:        controllers.NewHealthController(db),
	})
	return app
}

func (a *testApp) do(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		raw, _ := json.Marshal(body)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func (a *testApp) register(t *testing.T, email string) models.AuthResponse {
	t.Helper()
	w := a.do(http.MethodPost, "/api/auth/register", "", gin.H{"name": "Member", "email": email, "password": "secret1"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var resp models.AuthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

// loginAdmin 按启动流程创建系统管理员并登录
func (a *testApp) loginAdmin(t *testing.T) models.AuthResponse {
	t.Helper()
	_, err := a.userSv.EnsureSystemAdmin(context.Background())
	require.NoError(t, err)
	return a.login(t, "admin@system.com", "systempassword123")
}

func (a *testApp) login(t *testing.T, email, password string) models.AuthResponse {
	t.Helper()
	w := a.do(http.MethodPost, "/api/auth/login", "", gin.H{"email": email, "password": password})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp models.AuthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), out), w.Body.String())
}

func TestLeadLifecycleOverHTTP(t *testing.T) {
	app := newTestApp(t, stubDatabase{})
	token := app.register(t, "rep@example.com").Token

	w := app.do(http.MethodPost, "/api/leads", token, gin.H{"name": "Ada", "email": "ada@example.com"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = app.do(http.MethodPost, "/api/leads", token, gin.H{
		"name": "Ada", "email": "ada@example.com", "phone": "650-253-0000", "source": "Referral",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var lead models.Lead
	decodeBody(t, w, &lead)
	assert.Equal(t, models.LeadStatusNew, lead.Status)

	path := "/api/leads/" + lead.ID.Hex()
	w = app.do(http.MethodPut, path, token, gin.H{"status": "Contacted"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	decodeBody(t, w, &lead)
	assert.Equal(t, 10, lead.Score)
	require.Len(t, lead.History, 1)
	assert.Equal(t, "Changed from New to Contacted", lead.History[0].Details)

	w = app.do(http.MethodPut, path, token, gin.H{"status": "Won"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = app.do(http.MethodPost, path+"/note", token, gin.H{"text": "Called back"})
	require.Equal(t, http.StatusOK, w.Code)
	decodeBody(t, w, &lead)
	require.Len(t, lead.Notes, 1)
	assert.Len(t, lead.History, 1)

	w = app.do(http.MethodGet, "/api/leads/stats", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var stats models.LeadStats
	decodeBody(t, w, &stats)
	assert.Equal(t, int64(1), stats.TotalLeads)
	assert.Equal(t, int64(1), stats.Contacted)

	w = app.do(http.MethodDelete, path, token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Lead removed")

	w = app.do(http.MethodDelete, path, token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Lead not found")

	w = app.do(http.MethodPut, "/api/leads/not-an-id", token, gin.H{"status": "Lost"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	app := newTestApp(t, stubDatabase{})

	for _, path := range []string{"/api/leads", "/api/tasks", "/api/chat", "/api/announcements", "/api/users"} {
		w := app.do(http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
	}
}

func TestAdminOnlyRoutes(t *testing.T) {
	app := newTestApp(t, stubDatabase{})
	admin := app.loginAdmin(t)
	member := app.register(t, "member@example.com")

	w := app.do(http.MethodGet, "/api/users", member.Token, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	w = app.do(http.MethodGet, "/api/db-status", member.Token, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = app.do(http.MethodGet, "/api/users", admin.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "password")
	var users []models.User
	decodeBody(t, w, &users)
	assert.Len(t, users, 2)

	w = app.do(http.MethodPut, "/api/users/"+member.ID.Hex()+"/role", admin.Token, gin.H{"role": "admin"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"role":"admin"`)

	w = app.do(http.MethodDelete, "/api/users/"+admin.ID.Hex(), admin.Token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = app.do(http.MethodDelete, "/api/users/"+member.ID.Hex(), admin.Token, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = app.do(http.MethodGet, "/api/db-status", admin.Token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRoleChangesApplyToIssuedTokens(t *testing.T) {
	app := newTestApp(t, stubDatabase{})
	admin := app.loginAdmin(t)
	member := app.register(t, "promoted@example.com")

	w := app.do(http.MethodPut, "/api/users/"+member.ID.Hex()+"/role", admin.Token, gin.H{"role": "admin"})
	require.Equal(t, http.StatusOK, w.Code)
	promoted := app.login(t, "promoted@example.com", "secret1")

	w = app.do(http.MethodGet, "/api/users", promoted.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = app.do(http.MethodPut, "/api/users/"+member.ID.Hex()+"/role", admin.Token, gin.H{"role": "user"})
	require.Equal(t, http.StatusOK, w.Code)

	w = app.do(http.MethodGet, "/api/users", promoted.Token, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Not authorized as an admin")

	w = app.do(http.MethodGet, "/api/leads", promoted.Token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestDeletedUserTokenIsRejected(t *testing.T) {
	app := newTestApp(t, stubDatabase{})
	admin := app.loginAdmin(t)
	member := app.register(t, "removed@example.com")

	w := app.do(http.MethodDelete, "/api/users/"+member.ID.Hex(), admin.Token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = app.do(http.MethodPost, "/api/leads", member.Token, gin.H{
		"name": "Ada", "email": "ada@example.com", "phone": "650-253-0000", "source": "Referral",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Not authorized, user not found")
	assert.Empty(t, app.leads.leads)
}

func TestPublicLeadRateLimitIgnoresForwardedFor(t *testing.T) {
	app := newTestApp(t, stubDatabase{})
	form, _ := json.Marshal(gin.H{"name": "Visitor", "email": "visitor@example.com"})

	codes := make([]int, 0, 5)
	for i := 0; i < 5; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/leads/public", bytes.NewReader(form))
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Forwarded-For", fmt.Sprintf("203.0.113.%d", i+1))
		w := httptest.NewRecorder()
		app.router.ServeHTTP(w, req)
		codes = append(codes, w.Code)
	}

	assert.Equal(t, []int{201, 201, 201, 429, 429}, codes)
}

func TestPublicLeadBootstrapsAdminAndIsRateLimited(t *testing.T) {
	app := newTestApp(t, stubDatabase{})
	form := gin.H{"name": "Visitor", "email": "visitor@example.com", "message": "Call me"}

	w := app.do(http.MethodPost, "/api/leads/public", "", gin.H{"name": "No Email"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = app.do(http.MethodPost, "/api/leads/public", "", form)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), "Lead submitted successfully")

	w = app.do(http.MethodPost, "/api/leads/public", "", form)
	require.Equal(t, http.StatusCreated, w.Code)

	count, _ := app.users.Count(context.Background())
	assert.Equal(t, int64(1), count)
	require.Len(t, app.leads.leads, 2)
	assert.Equal(t, app.users.users[0].ID, app.leads.leads[0].Owner)
	assert.Equal(t, models.LeadSourceWebForm, app.leads.leads[0].Source)

	w = app.do(http.MethodPost, "/api/leads/public", "", form)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}

func TestLogoutRevokesToken(t *testing.T) {
	app := newTestApp(t, stubDatabase{})
	token := app.register(t, "leaving@example.com").Token

	w := app.do(http.MethodGet, "/api/leads", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = app.do(http.MethodPost, "/api/auth/logout", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = app.do(http.MethodGet, "/api/leads", token, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestTaskOwnershipOverHTTP(t *testing.T) {
	app := newTestApp(t, stubDatabase{})
	owner := app.register(t, "owner@example.com").Token
	other := app.register(t, "other@example.com").Token

	w := app.do(http.MethodPost, "/api/tasks", owner, gin.H{"title": "Follow up", "date": "2026-03-01"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var task models.Task
	decodeBody(t, w, &task)
	path := "/api/tasks/" + task.ID.Hex()

	w = app.do(http.MethodPut, path, other, gin.H{"completed": true})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	w = app.do(http.MethodDelete, path, other, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = app.do(http.MethodGet, "/api/tasks", other, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "[]", strings.TrimSpace(w.Body.String()))

	w = app.do(http.MethodPut, path, owner, gin.H{"completed": true})
	require.Equal(t, http.StatusOK, w.Code)
	decodeBody(t, w, &task)
	assert.True(t, task.Completed)

	w = app.do(http.MethodDelete, path, owner, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Task removed")
}

func TestChatAndAnnouncementsOverHTTP(t *testing.T) {
	app := newTestApp(t, stubDatabase{})
	token := app.register(t, "chatty@example.com").Token

	w := app.do(http.MethodPost, "/api/chat", token, gin.H{"message": ""})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = app.do(http.MethodPost, "/api/chat", token, gin.H{"message": "hello"})
	require.Equal(t, http.StatusCreated, w.Code)

	w = app.do(http.MethodGet, "/api/chat", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var messages []models.ChatMessageView
	decodeBody(t, w, &messages)
	require.Len(t, messages, 1)
	assert.Equal(t, models.DefaultChatRoom, messages[0].Room)

	w = app.do(http.MethodPost, "/api/announcements", token, gin.H{"title": "Hi", "message": "All hands", "type": "bogus"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid data")

	w = app.do(http.MethodPost, "/api/announcements", token, gin.H{"title": "Hi", "message": "All hands"})
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"type":"info"`)
}

func TestImportAndExportOverHTTP(t *testing.T) {
	app := newTestApp(t, stubDatabase{})
	token := app.register(t, "ops@example.com").Token

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", "leads.csv")
	require.NoError(t, err)
	_, _ = part.Write([]byte("name,email,phone\nA,a@example.com,\nB,b@example.com,\n,missing@example.com,\n"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/leads/import", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	app.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Contains(t, w.Body.String(), `"imported":2`)

	w = app.do(http.MethodPost, "/api/leads/bulk", token, []gin.H{{"name": "C", "email": "c@example.com"}})
	require.Equal(t, http.StatusCreated, w.Code)

	w = app.do(http.MethodGet, "/api/leads/export?format=csv", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), "leads_")
	assert.Equal(t, 4, strings.Count(strings.TrimSpace(w.Body.String()), "\n")+1)

	w = app.do(http.MethodGet, "/api/leads/export?format=pdf", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHealthEndpoints(t *testing.T) {
	app := newTestApp(t, stubDatabase{})
	w := app.do(http.MethodGet, "/api/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = app.do(http.MethodGet, "/api", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = app.do(http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	down := newTestApp(t, stubDatabase{pingErr: errDatabaseDown})
	w = down.do(http.MethodGet, "/api/health", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
