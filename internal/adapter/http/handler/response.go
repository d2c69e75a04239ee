package handler

import "github.com/gin-gonic/gin"

// ErrorBody is the wire shape of every error response. Clients key on the
// flat top-level "error" field, so there is no envelope.
type ErrorBody struct {
	Error string `json:"error"`
}

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, ErrorBody{Error: message})
}
