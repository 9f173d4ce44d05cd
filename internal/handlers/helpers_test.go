package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/anonto42/inkwell/backend/internal/auth"
	"github.com/anonto42/inkwell/backend/internal/handlers"
	"github.com/anonto42/inkwell/backend/internal/models"
	"github.com/anonto42/inkwell/backend/internal/repositories"
	"github.com/anonto42/inkwell/backend/internal/router"
	"github.com/anonto42/inkwell/backend/pkg/config"
	"github.com/labstack/echo/v4"
	"golang.org/x/crypto/bcrypt"
)

// ============================================================================
// Test server
// ============================================================================

const testCookieName = "access_token"

type testEnv struct {
	t         *testing.T
	server    *httptest.Server
	repos     repositories.Repositories
	passwords *auth.PasswordHasher
}

type envOption func(*router.Dependencies)

func withGoogle(v handlers.IDTokenVerifier) envOption {
	return func(d *router.Dependencies) { d.Google = v }
}

func withPresigner(p handlers.UploadPresigner) envOption {
	return func(d *router.Dependencies) { d.Presigner = p }
}

func withUserRepository(users repositories.UserRepository) envOption {
	return func(d *router.Dependencies) { d.Repositories.Users = users }
}

// newTestEnv serves the full route table over a private in-memory SQLite store
func newTestEnv(t *testing.T, opts ...envOption) *testEnv {
	t.Helper()

	db, err := config.OpenSQLite(":memory:")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := repositories.MigrateGorm(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})

	deps := router.Dependencies{
		Repositories: repositories.NewGormRepositories(db),
		Tokens:       auth.NewTokenManager("test-secret", time.Hour),
		Passwords:    auth.NewPasswordHasher(bcrypt.MinCost),
		Cookie:       handlers.SessionCookie{Name: testCookieName},
	}
	for _, opt := range opts {
		opt(&deps)
	}

	e := echo.New()
	router.SetupRoutes(e, deps)
	srv := httptest.NewServer(e)
	t.Cleanup(srv.Close)

	return &testEnv{t: t, server: srv, repos: deps.Repositories, passwords: deps.Passwords}
}

// seedUser stores a user directly, which is the only way to create an admin
func (env *testEnv) seedUser(username, email, password string, admin bool) *models.User {
	env.t.Helper()
	hashed, err := env.passwords.Hash(password)
	if err != nil {
		env.t.Fatalf("hash: %v", err)
	}
	user := &models.User{
		Username:   username,
		Email:      email,
		Password:   hashed,
		ProfilePic: models.DefaultProfilePic,
		IsAdmin:    admin,
	}
	if err := env.repos.Users.CreateUser(context.Background(), user); err != nil {
		env.t.Fatalf("seed user %s: %v", username, err)
	}
	return user
}

// loggedIn seeds a user and returns a client holding its session cookie
func (env *testEnv) loggedIn(username string, admin bool) (*apiClient, *models.User) {
	env.t.Helper()
	user := env.seedUser(username, username+"@example.com", "Passw0rd!", admin)
	c := env.client()
	status, body := c.post("/api/auth/login", map[string]string{
		"email":    user.Email,
		"password": "Passw0rd!",
	})
	if status != http.StatusOK {
		env.t.Fatalf("login %s: %d %s", username, status, body)
	}
	return c, user
}

// createPost creates a post through the API as the given admin client
func (env *testEnv) createPost(c *apiClient, title string) models.Post {
	env.t.Helper()
	status, body := c.post("/api/post/create-post", map[string]string{
		"title":       title,
		"description": "A short description of the post",
		"content":     "<p>" + longText + "</p>",
		"category":    "golang",
	})
	if status != http.StatusCreated {
		env.t.Fatalf("create post %q: %d %s", title, status, body)
	}
	return decode[models.Post](env.t, body)
}

// allTime as a count lower bound counts every record
var allTime time.Time

const longText = "Lorem ipsum dolor sit amet, consectetur adipiscing elit, sed do eiusmod tempor."

// ============================================================================
// HTTP Client Helpers
// ============================================================================

type apiClient struct {
	t       *testing.T
	client  *http.Client
	baseURL string
}

func (env *testEnv) client() *apiClient {
	jar, err := cookiejar.New(nil)
	if err != nil {
		env.t.Fatalf("cookie jar: %v", err)
	}
	return &apiClient{
		t:       env.t,
		client:  &http.Client{Jar: jar, Timeout: 10 * time.Second},
		baseURL: env.server.URL,
	}
}

func (c *apiClient) do(method, path string, body interface{}) (int, []byte) {
	c.t.Helper()

	var bodyReader io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			c.t.Fatalf("marshal body: %v", err)
		}
		bodyReader = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequest(method, c.baseURL+path, bodyReader)
	if err != nil {
		c.t.Fatalf("new request: %v", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.client.Do(req)
	if err != nil {
		c.t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		c.t.Fatalf("read body: %v", err)
	}
	return resp.StatusCode, data
}

func (c *apiClient) get(path string) (int, []byte) {
	return c.do(http.MethodGet, path, nil)
}

func (c *apiClient) post(path string, body interface{}) (int, []byte) {
	return c.do(http.MethodPost, path, body)
}

func (c *apiClient) put(path string, body interface{}) (int, []byte) {
	return c.do(http.MethodPut, path, body)
}

func (c *apiClient) delete(path string) (int, []byte) {
	return c.do(http.MethodDelete, path, nil)
}

// sessionCookie returns the session cookie the jar would send, or nil
func (c *apiClient) sessionCookie() *http.Cookie {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		c.t.Fatalf("parse url: %v", err)
	}
	for _, cookie := range c.client.Jar.Cookies(u) {
		if cookie.Name == testCookieName {
			return cookie
		}
	}
	return nil
}

// setSessionCookie installs a raw token value, bypassing login
func (c *apiClient) setSessionCookie(value string) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		c.t.Fatalf("parse url: %v", err)
	}
	c.client.Jar.SetCookies(u, []*http.Cookie{{Name: testCookieName, Value: value, Path: "/"}})
}

// ============================================================================
// Assertions
// ============================================================================

func decode[T any](t *testing.T, data []byte) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		t.Fatalf("decode %T from %s: %v", v, data, err)
	}
	return v
}

// expectError checks the uniform error body
func expectError(t *testing.T, status int, body []byte, wantStatus int, wantMessage string) {
	t.Helper()
	if status != wantStatus {
		t.Fatalf("expected status %d, got %d: %s", wantStatus, status, body)
	}
	resp := decode[handlers.ErrorResponse](t, body)
	if resp.Success || resp.StatusCode != wantStatus {
		t.Errorf("unexpected error envelope: %s", body)
	}
	if wantMessage != "" && resp.Message != wantMessage {
		t.Errorf("expected message %q, got %q", wantMessage, resp.Message)
	}
}

func ids[T any](items []T, id func(T) string) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = id(item)
	}
	return out
}

func postID(p models.Post) string { return p.ID }
