package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const aliveText = "✅ Bot is alive!"

// Health answers the hosting platform's keep-alive probes.
func Health(c *gin.Context) {
	c.String(http.StatusOK, aliveText)
}
