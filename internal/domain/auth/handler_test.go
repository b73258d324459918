package auth

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"staysphere/internal/middleware"
	"staysphere/internal/pkg/jwt"
	"staysphere/internal/pkg/kvstore"
	"staysphere/internal/pkg/validator"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupTestRouter(t *testing.T) (*gin.Engine, *captureMailer) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	validator.Setup()

	db := setupTestDB(t)
	mailer := newCaptureMailer()
	tokens := jwt.New("secret", time.Hour)
	otp := NewOTPStore(kvstore.NewMemoryStore(), OTPConfig{Pepper: "p", TTL: time.Minute})
	h := NewHandler(NewService(NewUserRepository(db), otp, mailer, tokens, zap.NewNop()))

	r := gin.New()
	api := r.Group("/api")
	h.RegisterRoutes(api, middleware.JWTAuth(tokens), func(c *gin.Context) { c.Next() })
	return r, mailer
}

func doJSONRequest(r http.Handler, method, path string, body any, token string) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body == nil {
		reader = bytes.NewReader(nil)
	} else {
		b, _ := json.Marshal(body)
		reader = bytes.NewReader(b)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func TestAuthEndpoints_SignupFlow(t *testing.T) {
	r, mailer := setupTestRouter(t)

	rr := doJSONRequest(r, http.MethodPost, "/api/auth/register", map[string]any{
		"name": "Olive Owner", "email": "olive@example.com", "password": "s3cure-pass", "role": "OWNER",
	}, "")
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	rr = doJSONRequest(r, http.MethodPost, "/api/auth/verify-otp", map[string]any{
		"email": "olive@example.com", "code": mailer.code(PurposeSignup, "olive@example.com"),
	}, "")
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var body struct {
		Data AuthResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, RoleOwner, body.Data.User.Role)

	rr = doJSONRequest(r, http.MethodGet, "/api/auth/me", nil, body.Data.Token)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "olive@example.com")
}

func TestAuthEndpoints_ValidationErrors(t *testing.T) {
	r, _ := setupTestRouter(t)

	rr := doJSONRequest(r, http.MethodPost, "/api/auth/register", map[string]any{
		"name": "X", "email": "not-an-email", "password": "short",
	}, "")

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	fields := body["errors"].(map[string]any)["fields"].(map[string]any)
	assert.Equal(t, "email", fields["email"])
	assert.Equal(t, "min=8", fields["password"])
	assert.Equal(t, "min=2", fields["name"])
}

func TestAuthEndpoints_Unauthorized(t *testing.T) {
	r, _ := setupTestRouter(t)

	cases := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/auth/me"},
		{http.MethodPatch, "/api/auth/me"},
		{http.MethodPut, "/api/auth/password"},
	}
	for _, tc := range cases {
		rr := doJSONRequest(r, tc.method, tc.path, map[string]any{}, "")
		assert.Equal(t, http.StatusUnauthorized, rr.Code, tc.path)
	}
}

func TestAuthEndpoints_LoginWrongPassword(t *testing.T) {
	r, _ := setupTestRouter(t)

	rr := doJSONRequest(r, http.MethodPost, "/api/auth/login", map[string]any{
		"email": "ghost@example.com", "password": "whatever",
	}, "")

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Contains(t, rr.Body.String(), "INVALID_CREDENTIALS")
}
