package public

import (
	handlershared "github.com/gang-ground/internal/http/handlers/shared"

	"github.com/gin-gonic/gin"
)

func getCartSessionID(c *gin.Context) (string, bool) {
	return handlershared.GetCartSessionID(c)
}

func respondError(c *gin.Context, code int, key string, err error) {
	handlershared.RespondError(c, code, key, err)
}

func respondErrorWithData(c *gin.Context, code int, msg string, data interface{}, err error) {
	handlershared.RespondErrorWithData(c, code, msg, data, err)
}
