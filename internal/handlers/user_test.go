package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/docflow/document-flow-api/internal/constants"
	"github.com/docflow/document-flow-api/internal/dto"
	"github.com/docflow/document-flow-api/internal/models"
)

func userRouter(env testEnv, actor *models.User) *gin.Engine {
	r := gin.New()
	withUser := func(c *gin.Context) {
		c.Set(constants.ContextKeyUser, actor)
	}
	r.GET("/api/users", withUser, env.userHandler.List)
	r.GET("/api/users/:id", withUser, env.userHandler.Get)
	return r
}

func TestUserHandler_List_AdminOnly(t *testing.T) {
	env := setupTestEnv(t)
	admin := registerUser(t, env, "admin@example.com", "Admin")
	user := registerUser(t, env, "user@example.com", "User")

	r := userRouter(env, admin)
	req := httptest.NewRequest(http.MethodGet, "/api/users", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var response dto.UserListResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Equal(t, int64(2), response.TotalCount)
	require.Len(t, response.Users, 2)

	// Non-admins are rejected.
	r = userRouter(env, user)
	req = httptest.NewRequest(http.MethodGet, "/api/users", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusForbidden, w.Code)
}

func TestUserHandler_Get(t *testing.T) {
	env := setupTestEnv(t)
	admin := registerUser(t, env, "admin@example.com", "Admin")
	user := registerUser(t, env, "user@example.com", "User")

	r := userRouter(env, admin)

	req := httptest.NewRequest(http.MethodGet, "/api/users/"+user.ID.String(), nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var response struct {
		User dto.UserDTO `json:"user"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.Equal(t, "user@example.com", response.User.Email)

	// Unknown and malformed IDs.
	req = httptest.NewRequest(http.MethodGet, "/api/users/1b671a64-40d5-491e-99b0-da01ff1f3341", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusNotFound, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/users/not-a-uuid", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusBadRequest, w.Code)
}
