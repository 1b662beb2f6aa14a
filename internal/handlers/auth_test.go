package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/docflow/document-flow-api/internal/constants"
	"github.com/docflow/document-flow-api/internal/dto"
	"github.com/docflow/document-flow-api/internal/middleware"
	"github.com/docflow/document-flow-api/internal/models"
	"github.com/docflow/document-flow-api/internal/services"
)

func postJSON(t *testing.T, r *gin.Engine, path string, payload interface{}) *httptest.ResponseRecorder {
	t.Helper()

	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthHandler_Register(t *testing.T) {
	env := setupTestEnv(t)

	r := gin.New()
	r.POST("/api/auth/register", env.authHandler.Register)

	w := postJSON(t, r, "/api/auth/register", map[string]string{
		"email":    "First@Example.com",
		"password": "supersecret",
		"name":     "First User",
	})

	require.Equal(t, http.StatusCreated, w.Code)

	var response dto.AuthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.NotEmpty(t, response.Token)
	require.Equal(t, "first@example.com", response.User.Email)
	require.Equal(t, models.RoleAdmin, response.User.Role, "first user becomes admin")

	// The issued token resolves back to the created user.
	claims, err := env.tokenService.Verify(response.Token)
	require.NoError(t, err)
	require.Equal(t, response.User.ID, claims.UserID)
	require.Equal(t, models.RoleAdmin, claims.Role)

	// Subsequent registrations default to the user role.
	w = postJSON(t, r, "/api/auth/register", map[string]string{
		"email":    "second@example.com",
		"password": "supersecret",
		"name":     "Second User",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Equal(t, models.RoleUser, response.User.Role)
}

func TestAuthHandler_Register_InvalidEmail(t *testing.T) {
	env := setupTestEnv(t)

	r := gin.New()
	r.POST("/api/auth/register", env.authHandler.Register)

	w := postJSON(t, r, "/api/auth/register", map[string]string{
		"email":    "not an email",
		"password": "supersecret",
		"name":     "Some User",
	})

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuthHandler_Register_DuplicateEmail(t *testing.T) {
	env := setupTestEnv(t)
	registerUser(t, env, "taken@example.com", "Original")

	r := gin.New()
	r.POST("/api/auth/register", env.authHandler.Register)

	// Email matching is case-insensitive after normalization.
	w := postJSON(t, r, "/api/auth/register", map[string]string{
		"email":    "Taken@Example.COM",
		"password": "supersecret",
		"name":     "Impostor",
	})

	require.Equal(t, http.StatusConflict, w.Code)
}

func TestAuthHandler_Login(t *testing.T) {
	env := setupTestEnv(t)
	registerUser(t, env, "existing@example.com", "Existing User")

	r := gin.New()
	r.POST("/api/auth/login", env.authHandler.Login)

	w := postJSON(t, r, "/api/auth/login", map[string]string{
		"email":    "existing@example.com",
		"password": "supersecret",
	})

	require.Equal(t, http.StatusOK, w.Code)

	var response dto.AuthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.NotEmpty(t, response.Token)
	require.Equal(t, "existing@example.com", response.User.Email)
}

func TestAuthHandler_Login_UniformFailure(t *testing.T) {
	env := setupTestEnv(t)
	registerUser(t, env, "existing@example.com", "Existing User")

	r := gin.New()
	r.POST("/api/auth/login", env.authHandler.Login)

	wrongPassword := postJSON(t, r, "/api/auth/login", map[string]string{
		"email":    "existing@example.com",
		"password": "wrong-password",
	})
	unknownEmail := postJSON(t, r, "/api/auth/login", map[string]string{
		"email":    "nobody@example.com",
		"password": "supersecret",
	})

	// Wrong password and unknown email are indistinguishable.
	require.Equal(t, http.StatusUnauthorized, wrongPassword.Code)
	require.Equal(t, http.StatusUnauthorized, unknownEmail.Code)
	require.Equal(t, wrongPassword.Body.String(), unknownEmail.Body.String())
}

func TestAuthHandler_GetCurrentUser(t *testing.T) {
	env := setupTestEnv(t)
	user := registerUser(t, env, "current@example.com", "Current User")

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set(constants.ContextKeyUser, user)

	env.authHandler.GetCurrentUser(c)

	require.Equal(t, http.StatusOK, w.Code)

	var response struct {
		User dto.UserDTO `json:"user"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Equal(t, user.Email, response.User.Email)
}

func TestRequireAuth_TokenFlow(t *testing.T) {
	env := setupTestEnv(t)
	user := registerUser(t, env, "token@example.com", "Token User")

	r := gin.New()
	r.GET("/api/auth/me", middleware.RequireAuth(env.tokenService, env.userRepo), env.authHandler.GetCurrentUser)

	// No token.
	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	// Garbage token.
	req = httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusUnauthorized, w.Code)

	// Valid token.
	result, err := env.authService.Login(services.LoginInput{
		Email:    "token@example.com",
		Password: "supersecret",
	})
	require.NoError(t, err)

	req = httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+result.Token)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var response struct {
		User dto.UserDTO `json:"user"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Equal(t, user.ID, response.User.ID)
}
