package response

import (
	"net/http"

	"staysphere/internal/pkg/apperr"
	"staysphere/internal/pkg/pagination"
	"staysphere/internal/pkg/validator"

	"github.com/gin-gonic/gin"
)

// Envelope is the shape of every JSON response.
type Envelope struct {
	Success    bool   `json:"success"`
	Message    string `json:"message"`
	Data       any    `json:"data,omitempty"`
	Errors     any    `json:"errors,omitempty"`
	StatusCode int    `json:"statusCode"`
}

func Success(c *gin.Context, statusCode int, message string, data any) {
	c.JSON(statusCode, Envelope{
		Success:    true,
		Message:    message,
		Data:       data,
		StatusCode: statusCode,
	})
}

func OK(c *gin.Context, message string, data any) {
	Success(c, http.StatusOK, message, data)
}

func Created(c *gin.Context, message string, data any) {
	Success(c, http.StatusCreated, message, data)
}

func Paginated[T any](c *gin.Context, message string, items []T, params pagination.Params, total int64) {
	Success(c, http.StatusOK, message, pagination.NewPage(items, params, total))
}

// Fail writes an error envelope with an explicit status and code.
func Fail(c *gin.Context, statusCode int, code, message string) {
	c.JSON(statusCode, Envelope{
		Success:    false,
		Message:    message,
		Errors:     gin.H{"code": code},
		StatusCode: statusCode,
	})
}

// Error maps err onto its kind. Unclassified errors are attached to the
// gin context for the request logger and answered with a generic 500.
func Error(c *gin.Context, err error) {
	appErr, ok := apperr.As(err)
	if !ok || appErr.Kind == apperr.KindInternal {
		_ = c.Error(err)
		Fail(c, http.StatusInternalServerError, apperr.KindInternal.String(), "internal server error")
		return
	}

	status := appErr.Kind.HTTPStatus()
	code := appErr.Code
	if code == "" {
		code = appErr.Kind.String()
	}
	details := gin.H{"code": code}
	if len(appErr.Fields) > 0 {
		details["fields"] = appErr.Fields
	}
	c.JSON(status, Envelope{
		Success:    false,
		Message:    appErr.Message,
		Errors:     details,
		StatusCode: status,
	})
}

// BindError answers a failed ShouldBind* call with field-level details when available.
func BindError(c *gin.Context, err error) {
	fields := validator.Fields(err)
	if fields == nil {
		fields = map[string]string{"body": err.Error()}
	}
	Error(c, apperr.Validation("invalid request", fields))
}
