package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/veltagrid/appointments-api/internal/httperr"
)

// mapBusinessError translates use-case failures into HTTP responses.
// Anything that is not a business error is a dependency failure.
func mapBusinessError(c *gin.Context, err error, fallback string) {
	kind, ok := httperr.BusinessKind(err)
	if !ok {
		httperr.Internal(c, "internal_error", fallback)
		return
	}

	code := err.Error()

	switch kind {
	case httperr.KindValidation:
		httperr.BadRequest(c, code, fallback)
	case httperr.KindNotFound:
		httperr.NotFound(c, code, fallback)
	case httperr.KindConflict:
		httperr.Conflict(c, code, fallback)
	case httperr.KindInvalidState:
		httperr.UnprocessableEntity(c, code, fallback)
	default:
		httperr.Internal(c, code, fallback)
	}
}
