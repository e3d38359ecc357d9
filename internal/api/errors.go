package api

import (
	"blog/internal/entity/common"
	"net/http"

	"github.com/gin-gonic/gin"
)

// 所有业务响应都使用 {status, body} 信封并返回 HTTP 200，
// 业务错误通过 body 中的 result/error 字段表达。

// Respond 返回 status=true 的信封
func Respond(c *gin.Context, body interface{}) {
	c.JSON(http.StatusOK, common.Ok(body))
}

// RespondEmpty 返回 {status:false, body:null}
func RespondEmpty(c *gin.Context) {
	c.JSON(http.StatusOK, common.Empty())
}

// InvalidPayload 请求体无法解析
func InvalidPayload(c *gin.Context) {
	RespondEmpty(c)
}

// TooManyRequests 429 限流，仍使用空信封
func TooManyRequests(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusTooManyRequests, common.Empty())
}
