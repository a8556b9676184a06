package handlers

import "github.com/gin-gonic/gin"

// detail writes the error envelope every endpoint uses.
func detail(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"detail": msg})
}
