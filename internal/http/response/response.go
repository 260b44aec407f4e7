package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	msgOK        = "ok"
	requestIDKey = "request_id"
)

// Response 统一响应结构
type Response struct {
	StatusCode int         `json:"status_code"` // 业务状态码
	Msg        string      `json:"msg"`         // 提示消息
	Data       interface{} `json:"data"`        // 数据内容
}

// PageResponse 分页响应结构
type PageResponse struct {
	Response
	Pagination Pagination `json:"pagination"`
}

// Pagination 分页信息
type Pagination struct {
	Page      int   `json:"page"`
	PageSize  int   `json:"page_size"`
	Total     int64 `json:"total"`
	TotalPage int64 `json:"total_page"`
}

// Success 成功响应
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{StatusCode: CodeOK, Msg: msgOK, Data: data})
}

// SuccessWithPage 分页成功响应
func SuccessWithPage(c *gin.Context, data interface{}, pagination Pagination) {
	c.JSON(http.StatusOK, PageResponse{
		Response:   Response{StatusCode: CodeOK, Msg: msgOK, Data: data},
		Pagination: pagination,
	})
}

// Error 错误响应，HTTP 状态固定 200，业务码放在 status_code
func Error(c *gin.Context, statusCode int, msg string) {
	ErrorWithData(c, statusCode, msg, nil)
}

// ErrorWithData 错误响应（带数据）
func ErrorWithData(c *gin.Context, statusCode int, msg string, data interface{}) {
	c.JSON(http.StatusOK, Response{
		StatusCode: statusCode,
		Msg:        msg,
		Data:       withRequestID(c, data),
	})
}

// withRequestID 错误数据中附带 request_id，便于对照日志
func withRequestID(c *gin.Context, data interface{}) interface{} {
	id := c.GetString(requestIDKey)
	if id == "" {
		return data
	}
	switch v := data.(type) {
	case nil:
		return gin.H{requestIDKey: id}
	case gin.H:
		if _, exists := v[requestIDKey]; !exists {
			v[requestIDKey] = id
		}
		return v
	default:
		return gin.H{requestIDKey: id, "detail": data}
	}
}
