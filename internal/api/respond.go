package api

import "github.com/gin-gonic/gin"

// Every response carries the {success, message} envelope so clients
// can branch without inspecting HTTP status codes.

// respond writes a success envelope with optional extra payload keys.
func respond(c *gin.Context, code int, message string, payload gin.H) {
	body := gin.H{"success": true, "message": message}
	for k, v := range payload {
		body[k] = v
	}
	c.JSON(code, body)
}

// abortWithError writes a failure envelope and aborts the request.
func abortWithError(c *gin.Context, code int, message string) {
	c.AbortWithStatusJSON(code, gin.H{"success": false, "message": message})
}
