package response

import (
	"errors"

	"github.com/gin-gonic/gin"
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Validation sends a 400 for a failed input check. Per-field ozzo errors are
// listed under "errors"; anything else becomes the message.
func Validation(c *gin.Context, err error) {
	var fields validation.Errors
	if errors.As(err, &fields) {
		Invalid(c, fields)
		return
	}
	BadRequest(c, err.Error())
}
