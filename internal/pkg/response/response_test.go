package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"staysphere/internal/pkg/apperr"
	"staysphere/internal/pkg/pagination"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newContext() (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	rr := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rr)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	return c, rr
}

func decode(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	return body
}

func TestError_MapsKind(t *testing.T) {
	c, rr := newContext()
	sentinel := apperr.New(apperr.KindConflict, "BOOKING_CONFLICT", "dates are already booked")

	Error(c, fmt.Errorf("create booking: %w", sentinel))

	assert.Equal(t, http.StatusConflict, rr.Code)
	body := decode(t, rr)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "dates are already booked", body["message"])
	assert.Equal(t, float64(http.StatusConflict), body["statusCode"])
	assert.Equal(t, "BOOKING_CONFLICT", body["errors"].(map[string]any)["code"])
}

func TestError_HidesInternalDetails(t *testing.T) {
	c, rr := newContext()

	Error(c, errors.New("pq: relation bookings does not exist"))

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.NotContains(t, rr.Body.String(), "relation")
	assert.Len(t, c.Errors, 1)
}

func TestError_ValidationFields(t *testing.T) {
	c, rr := newContext()

	Error(c, apperr.Validation("invalid request", map[string]string{"endDate": "gtfield=StartDate"}))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	errs := decode(t, rr)["errors"].(map[string]any)
	assert.Equal(t, "gtfield=StartDate", errs["fields"].(map[string]any)["endDate"])
}

func TestPaginated(t *testing.T) {
	c, rr := newContext()

	Paginated(c, "ok", []int{1, 2}, pagination.Params{Page: 1, Limit: 2}, 5)

	data := decode(t, rr)["data"].(map[string]any)
	meta := data["pagination"].(map[string]any)
	assert.Len(t, data["items"], 2)
	assert.Equal(t, float64(3), meta["totalPages"])
	assert.Equal(t, float64(5), meta["totalItems"])
	assert.Equal(t, float64(1), meta["currentPage"])
	assert.Equal(t, float64(2), meta["itemsPerPage"])
}
