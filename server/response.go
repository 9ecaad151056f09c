package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/conduit/errors"
)

// RespondWithError inspects err: engine errors carry their own status and
// structured body; anything else becomes a generic 500.
func RespondWithError(c *gin.Context, err error) {
	if e, ok := errors.As(err); ok {
		status := e.HTTPStatus
		if status == 0 {
			status = http.StatusInternalServerError
		}
		c.JSON(status, e.ToResponse())
		return
	}
	c.JSON(http.StatusInternalServerError, errors.Internal(err).ToResponse())
}

// RespondOK sends a 200 response with the given body.
func RespondOK(c *gin.Context, body any) {
	c.JSON(http.StatusOK, body)
}
