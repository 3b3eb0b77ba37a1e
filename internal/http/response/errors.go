package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rskala/campusbridge-backend/internal/pkg/apperr"
)

// RespondAppError maps the service error taxonomy onto HTTP. Access denial
// is rendered exactly like not-found so a guardian cannot probe for
// students outside its links, and storage error text never leaves the
// process.
func RespondAppError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, apperr.ErrNotFound), errors.Is(err, apperr.ErrAccessDenied):
		c.JSON(http.StatusNotFound, ErrorEnvelope{
			Error: APIError{Message: "not found", Code: "not_found"},
		})
	case errors.Is(err, apperr.ErrConflict):
		c.JSON(http.StatusConflict, ErrorEnvelope{
			Error: APIError{
				Message: "already exists",
				Code:    "conflict",
				Field:   apperr.ConflictField(err),
			},
		})
	case errors.Is(err, apperr.ErrInvalidState):
		c.JSON(http.StatusUnprocessableEntity, ErrorEnvelope{
			Error: APIError{Message: err.Error(), Code: "invalid_state"},
		})
	case errors.Is(err, apperr.ErrUpstream):
		c.JSON(http.StatusBadGateway, ErrorEnvelope{
			Error: APIError{Message: "upstream service unavailable", Code: "upstream_error"},
		})
	default:
		c.JSON(http.StatusInternalServerError, ErrorEnvelope{
			Error: APIError{Message: "internal error", Code: "internal"},
		})
	}
}
