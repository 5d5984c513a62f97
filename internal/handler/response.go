package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type Response struct {
	Status  string      `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func NewSuccessResponse(data interface{}) *Response {
	return &Response{
		Status: "success",
		Data:   data,
	}
}

func NewErrorResponse(message string) *Response {
	return &Response{
		Status:  "error",
		Message: message,
	}
}

// RespondError writes an error using the HTTP status the error carries,
// falling back to 500 for anything unclassified.
func RespondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	if coded, ok := err.(interface{ StatusCode() int }); ok {
		status = coded.StatusCode()
	}
	c.JSON(status, NewErrorResponse(err.Error()))
}
