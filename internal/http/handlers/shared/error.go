package shared

import (
	"github.com/gang-ground/internal/http/response"
	"github.com/gang-ground/internal/i18n"
	"github.com/gang-ground/internal/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RequestLog 提供携带 request_id 的日志实例。
func RequestLog(c *gin.Context) *zap.SugaredLogger {
	if c == nil {
		return logger.S()
	}
	if requestID, ok := c.Get("request_id"); ok {
		if id, ok := requestID.(string); ok && id != "" {
			return logger.SW("request_id", id)
		}
	}
	return logger.S()
}

// RespondError 返回国际化错误响应，并在有原始错误时记录日志。
func RespondError(c *gin.Context, code int, key string, err error) {
	msg := i18n.T(i18n.ResolveLocale(c), key)
	RespondErrorWithMsg(c, code, msg, err)
}

// RespondErrorWithMsg 返回自定义消息错误响应，并在有原始错误时记录日志。
func RespondErrorWithMsg(c *gin.Context, code int, msg string, err error) {
	appErr := response.WrapError(code, msg, err)
	if err != nil {
		logHandlerError(c, appErr)
	}
	response.Error(c, appErr.Code, appErr.Message)
}

// RespondErrorWithData 返回带业务数据的错误响应。
func RespondErrorWithData(c *gin.Context, code int, msg string, data interface{}, err error) {
	appErr := response.WrapError(code, msg, err)
	if err != nil {
		logHandlerError(c, appErr)
	}
	response.ErrorWithData(c, appErr.Code, appErr.Message, data)
}

func logHandlerError(c *gin.Context, appErr *response.AppError) {
	log := RequestLog(c)
	if !appErr.Internal() {
		log.Warnw("handler_rejected", "code", appErr.Code, "message", appErr.Message, "error", appErr.Err)
		return
	}
	log.Errorw("handler_error", "code", appErr.Code, "message", appErr.Message, "error", appErr.Err)
}
