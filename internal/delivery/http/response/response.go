package response

import (
	"github.com/gin-gonic/gin"
)

// MessageResponse is the body of every successful response
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse is the body of every failed response
type ErrorResponse struct {
	Error string `json:"error"`
}

// Success sends a success response
func Success(c *gin.Context, code int, message string) {
	c.JSON(code, MessageResponse{Message: message})
}

// Error sends an error response. Only user-safe messages belong here.
func Error(c *gin.Context, code int, message string) {
	c.JSON(code, ErrorResponse{Error: message})
}
