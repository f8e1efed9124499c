package http

import "github.com/gin-gonic/gin"

// 客户端约定的响应信封：成功时 {"success": true, ...}，
// 失败时 {"success": false, "error": "..."}。

func ErrorResponse(c *gin.Context, code int, message string) {
	c.JSON(code, gin.H{"success": false, "error": message})
}

func SuccessResponse(c *gin.Context, code int, data gin.H) {
	payload := gin.H{"success": true}
	for k, v := range data {
		payload[k] = v
	}
	c.JSON(code, payload)
}
