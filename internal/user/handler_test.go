package user

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/kinyy999/sample-share-backend/pkg/auth"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(store *fakeStore) *echo.Echo {
	e := echo.New()
	h := NewHandler(newTestService(store, &fakeMailer{}))

	e.POST("/register", h.Register)
	e.POST("/login", h.Login)

	admin := e.Group("/users", auth.JWTMiddleware, auth.AdminOnly)
	admin.GET("", h.List)
	admin.DELETE("/:id", h.Delete)
	admin.PATCH("/:id/role", h.UpdateRole)
	admin.PATCH("/:id/active", h.UpdateActive)

	return e
}

func doJSON(e *echo.Echo, method, path, body, token string) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func adminToken(t *testing.T, store *fakeStore) (int, string) {
	t.Helper()
	admin := &User{Username: "boss", Email: "boss@example.com", Password: "x", Role: "admin", IsActive: true}
	require.NoError(t, store.Create(admin))
	require.NoError(t, store.UpdateRole(admin.ID, "admin"))
	tok, err := auth.GenerateJWT(admin.ID, "admin")
	require.NoError(t, err)
	return admin.ID, tok
}

func TestRegisterHandler(t *testing.T) {
	t.Parallel()

	e := newTestServer(newFakeStore())
	rec := doJSON(e, http.MethodPost, "/register", `{"username":"dj","email":"dj@example.com","password":"secret123"}`, "")

	require.Equal(t, http.StatusCreated, rec.Code)

	var got User
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "dj", got.Username)
	assert.Equal(t, "user", got.Role)
	// Хеш пароля возвращается в ответе (поведение исходного бэкенда)
	assert.True(t, strings.HasPrefix(got.Password, "$2"), "expected bcrypt hash in response, got %q", got.Password)
}

func TestRegisterHandler_DuplicateEmail(t *testing.T) {
	t.Parallel()

	e := newTestServer(newFakeStore())
	body := `{"username":"dj","email":"dj@example.com","password":"secret123"}`

	rec := doJSON(e, http.MethodPost, "/register", body, "")
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(e, http.MethodPost, "/register", body, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "User already exists")
}

func TestRegisterHandler_InvalidBody(t *testing.T) {
	t.Parallel()

	e := newTestServer(newFakeStore())
	rec := doJSON(e, http.MethodPost, "/register", `{"username":"dj","email":"not-an-email","password":"secret123"}`, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLoginHandler(t *testing.T) {
	t.Parallel()

	e := newTestServer(newFakeStore())
	doJSON(e, http.MethodPost, "/register", `{"username":"dj","email":"dj@example.com","password":"secret123"}`, "")

	rec := doJSON(e, http.MethodPost, "/login", `{"email":"dj@example.com","password":"secret123"}`, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var got LoginResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.NotEmpty(t, got.Token)
	assert.Equal(t, "user", got.Role)

	rec = doJSON(e, http.MethodPost, "/login", `{"email":"dj@example.com","password":"wrong"}`, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid email or password")
}

func TestListUsers_AdminOnlyAndNoPasswords(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	e := newTestServer(store)
	_, tok := adminToken(t, store)

	// без токена
	rec := doJSON(e, http.MethodGet, "/users", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// обычный пользователь
	userTok, err := auth.GenerateJWT(99, "user")
	require.NoError(t, err)
	rec = doJSON(e, http.MethodGet, "/users", "", userTok)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// админ
	rec = doJSON(e, http.MethodGet, "/users", "", tok)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "password")
}

func TestDeleteUserHandler_SelfDelete(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	e := newTestServer(store)
	adminID, tok := adminToken(t, store)

	rec := doJSON(e, http.MethodDelete, fmt.Sprintf("/users/%d", adminID), "", tok)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Admin cannot delete own account")
}

func TestDeleteUserHandler(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	e := newTestServer(store)
	_, tok := adminToken(t, store)

	victim := &User{Username: "v", Email: "v@example.com", Password: "x", Role: "user", IsActive: true}
	require.NoError(t, store.Create(victim))

	rec := doJSON(e, http.MethodDelete, fmt.Sprintf("/users/%d", victim.ID), "", tok)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = doJSON(e, http.MethodDelete, fmt.Sprintf("/users/%d", victim.ID), "", tok)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = doJSON(e, http.MethodDelete, "/users/abc", "", tok)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateRoleHandler(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	e := newTestServer(store)
	_, tok := adminToken(t, store)

	target := &User{Username: "t", Email: "t@example.com", Password: "x", Role: "user", IsActive: true}
	require.NoError(t, store.Create(target))

	rec := doJSON(e, http.MethodPatch, fmt.Sprintf("/users/%d/role", target.ID), `{"role":"superuser"}`, tok)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Role must be user or admin")

	rec = doJSON(e, http.MethodPatch, fmt.Sprintf("/users/%d/role", target.ID), `{"role":"admin"}`, tok)
	require.Equal(t, http.StatusOK, rec.Code)

	got, err := store.GetByID(target.ID)
	require.NoError(t, err)
	assert.Equal(t, "admin", got.Role)
}

func TestUpdateActiveHandler(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	e := newTestServer(store)
	_, tok := adminToken(t, store)

	target := &User{Username: "t", Email: "t@example.com", Password: "x", Role: "user", IsActive: true}
	require.NoError(t, store.Create(target))

	rec := doJSON(e, http.MethodPatch, fmt.Sprintf("/users/%d/active", target.ID), `{"isActive":false}`, tok)
	require.Equal(t, http.StatusOK, rec.Code)

	got, err := store.GetByID(target.ID)
	require.NoError(t, err)
	assert.False(t, got.IsActive)

	// isActive обязателен
	rec = doJSON(e, http.MethodPatch, fmt.Sprintf("/users/%d/active", target.ID), `{}`, tok)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
