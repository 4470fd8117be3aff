package httpserver

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/avolkov/auth-server/internal/lockout"
	"github.com/avolkov/auth-server/internal/models"
	"github.com/avolkov/auth-server/internal/repo"
	"github.com/avolkov/auth-server/internal/service"
	"github.com/avolkov/auth-server/internal/tokens"
)

func newTestServer(t *testing.T) *echo.Echo {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.LoginAttempt{}))

	store := &repo.GormStore{DB: db}
	svc := &service.AuthService{
		Store: store,
		Tokens: &tokens.Manager{
			Secret:     []byte("test-jwt-secret"),
			AccessTTL:  15 * time.Minute,
			RefreshTTL: 24 * time.Hour,
		},
		Lockout: &lockout.Policy{
			Store:       store,
			MaxAttempts: 3,
			Window:      15 * time.Minute,
		},
		PasswordMinLength: 8,
	}

	e := echo.New()
	Register(e, &Deps{AuthHandler: &AuthHTTP{Svc: svc}})
	return e
}

func postJSON(e *echo.Echo, path string, body map[string]string) *httptest.ResponseRecorder {
	data, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func getAuth(e *echo.Echo, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func loginTokens(t *testing.T, e *echo.Echo, username, password string) (string, string) {
	t.Helper()

	rec := postJSON(e, "/login", map[string]string{"username": username, "password": password})
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		AccessToken  string `json:"access_token"`
		RefreshToken string `json:"refresh_token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.NotEmpty(t, body.AccessToken)
	require.NotEmpty(t, body.RefreshToken)
	return body.AccessToken, body.RefreshToken
}

func TestRegisterEndpoint(t *testing.T) {
	t.Parallel()

	e := newTestServer(t)

	rec := postJSON(e, "/register", map[string]string{"username": "alice1", "password": "Passw0rd"})
	assert.Equal(t, http.StatusCreated, rec.Code)

	rec = postJSON(e, "/register", map[string]string{"username": "alice1", "password": "Passw0rd"})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = postJSON(e, "/register", map[string]string{"username": "a!", "password": "Passw0rd"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLoginEndpoint(t *testing.T) {
	t.Parallel()

	e := newTestServer(t)
	require.Equal(t, http.StatusCreated,
		postJSON(e, "/register", map[string]string{"username": "alice1", "password": "Passw0rd"}).Code)

	access, refresh := loginTokens(t, e, "alice1", "Passw0rd")
	assert.NotEqual(t, access, refresh)

	rec := postJSON(e, "/login", map[string]string{"username": "alice1", "password": "Wrong1Pass"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = postJSON(e, "/login", map[string]string{"username": "nobody1", "password": "Passw0rd"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLoginEndpoint_Locked(t *testing.T) {
	t.Parallel()

	e := newTestServer(t)
	require.Equal(t, http.StatusCreated,
		postJSON(e, "/register", map[string]string{"username": "alice1", "password": "Passw0rd"}).Code)

	for i := 0; i < 3; i++ {
		rec := postJSON(e, "/login", map[string]string{"username": "alice1", "password": "Wrong1Pass"})
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	}

	rec := postJSON(e, "/login", map[string]string{"username": "alice1", "password": "Passw0rd"})
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRefreshEndpoint(t *testing.T) {
	t.Parallel()

	e := newTestServer(t)
	require.Equal(t, http.StatusCreated,
		postJSON(e, "/register", map[string]string{"username": "alice1", "password": "Passw0rd"}).Code)
	access, refresh := loginTokens(t, e, "alice1", "Passw0rd")

	req := httptest.NewRequest(http.MethodPost, "/refresh", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+refresh)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		AccessToken string `json:"access_token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.NotEmpty(t, body.AccessToken)

	// An access token is the wrong kind.
	req = httptest.NewRequest(http.MethodPost, "/refresh", nil)
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+access)
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Missing header.
	req = httptest.NewRequest(http.MethodPost, "/refresh", nil)
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestValidateEndpoint(t *testing.T) {
	t.Parallel()

	e := newTestServer(t)
	require.Equal(t, http.StatusCreated,
		postJSON(e, "/register", map[string]string{"username": "alice1", "password": "Passw0rd"}).Code)
	access, refresh := loginTokens(t, e, "alice1", "Passw0rd")

	rec := getAuth(e, "/validate", access)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"valid": true}`, rec.Body.String())

	rec = getAuth(e, "/validate", refresh)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"valid": false}`, rec.Body.String())

	rec = getAuth(e, "/validate", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
