package admin

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"staysphere/internal/domain/auth"
	"staysphere/internal/domain/property"
	"staysphere/internal/middleware"
	"staysphere/internal/pkg/jwt"
	"staysphere/internal/pkg/validator"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Errors  map[string]any  `json:"errors"`
}

func setupTestRouter(f *fixture) (*gin.Engine, *jwt.Service) {
	gin.SetMode(gin.TestMode)
	validator.Setup()

	tokens := jwt.New("secret", time.Hour)
	r := gin.New()
	NewHandler(f.svc).RegisterRoutes(r.Group("/api"), middleware.JWTAuth(tokens))
	return r, tokens
}

func call(t *testing.T, r http.Handler, method, path, token string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)

	var env envelope
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env), rr.Body.String())
	return rr, env
}

func TestAdminRoutes_RequireAdmin(t *testing.T) {
	f := setup(t)
	r, tokens := setupTestRouter(f)
	owner := createUser(t, f.db, "Olga", "olga@example.com", auth.RoleOwner)

	token, err := tokens.GenerateToken(owner, middleware.RoleOwner)
	require.NoError(t, err)
	rr, _ := call(t, r, http.MethodGet, "/api/admin/analytics", token, nil)
	assert.Equal(t, http.StatusForbidden, rr.Code)

	token, err = tokens.GenerateToken(f.admin, middleware.RoleAdmin)
	require.NoError(t, err)
	rr, env := call(t, r, http.MethodGet, "/api/admin/analytics", token, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var a Analytics
	require.NoError(t, json.Unmarshal(env.Data, &a))
	assert.Equal(t, int64(1), a.UsersByRole["OWNER"])
}

func TestAdminRoutes_ModerationAndUsers(t *testing.T) {
	f := setup(t)
	r, tokens := setupTestRouter(f)
	token, err := tokens.GenerateToken(f.admin, middleware.RoleAdmin)
	require.NoError(t, err)
	owner := createUser(t, f.db, "Olga", "olga@example.com", auth.RoleOwner)
	p := createProperty(t, f.db, owner, property.StatusPending)
	pid := strconv.FormatInt(p.ID, 10)
	uid := strconv.FormatInt(owner, 10)

	rr, env := call(t, r, http.MethodPost, "/api/admin/properties/"+pid+"/reject", token, map[string]string{})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, env.Errors["fields"], "reason")

	rr, _ = call(t, r, http.MethodPost, "/api/admin/properties/"+pid+"/approve", token, nil)
	require.Equal(t, http.StatusOK, rr.Code)

	rr, env = call(t, r, http.MethodPost, "/api/admin/properties/"+pid+"/approve", token, nil)
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.False(t, env.Success)

	rr, _ = call(t, r, http.MethodPost, "/api/admin/users/"+uid+"/ban", token, nil)
	require.Equal(t, http.StatusOK, rr.Code)

	rr, env = call(t, r, http.MethodGet, "/api/admin/users?banned=true", token, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var page struct {
		Items []auth.User `json:"items"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &page))
	require.Len(t, page.Items, 1)
	assert.Equal(t, owner, page.Items[0].ID)

	rr, _ = call(t, r, http.MethodPatch, "/api/admin/users/"+uid+"/role", token, map[string]string{"role": "WIZARD"})
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}
