package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/oksasatya/pinit-down/pkg/validation"
)

// ErrorBody is the single-message error payload: {"error": "..."}.
type ErrorBody struct {
	Error string `json:"error"`
}

// ValidationBody lists every rejected field: {"errors": [{"field","message"}]}.
type ValidationBody struct {
	Errors []validation.FieldError `json:"errors"`
}

// MessageBody is returned by operations that only acknowledge success.
type MessageBody struct {
	Success bool   `json:"success,omitempty"`
	Message string `json:"message"`
}

func JSON(ctx *gin.Context, status int, body any) {
	if status == 0 {
		status = http.StatusOK
	}
	ctx.JSON(status, body)
}

// Error writes {"error": message} and aborts the handler chain.
func Error(ctx *gin.Context, status int, message string) {
	if status == 0 {
		status = http.StatusBadRequest
	}
	ctx.AbortWithStatusJSON(status, ErrorBody{Error: message})
}

// Validation writes the field list with 400 and aborts the handler chain.
func Validation(ctx *gin.Context, fields []validation.FieldError) {
	if fields == nil {
		fields = []validation.FieldError{}
	}
	ctx.AbortWithStatusJSON(http.StatusBadRequest, ValidationBody{Errors: fields})
}

func Message(ctx *gin.Context, status int, message string) {
	JSON(ctx, status, MessageBody{Success: true, Message: message})
}
