package public

import (
	"errors"

	"github.com/gang-ground/internal/http/response"
	"github.com/gang-ground/internal/service"

	"github.com/gin-gonic/gin"
)

// mappedHandlerError 定义业务错误到接口错误响应的映射关系。
type mappedHandlerError struct {
	target error
	code   int
	key    string
}

func respondWithMappedError(c *gin.Context, err error, rules []mappedHandlerError, fallbackCode int, fallbackKey string) {
	for _, rule := range rules {
		if errors.Is(err, rule.target) {
			// 目录不可用需要保留原始错误便于排查
			if rule.code >= response.CodeInternal {
				respondError(c, rule.code, rule.key, err)
				return
			}
			respondError(c, rule.code, rule.key, nil)
			return
		}
	}
	respondError(c, fallbackCode, fallbackKey, err)
}

func concatMappedHandlerErrors(groups ...[]mappedHandlerError) []mappedHandlerError {
	total := 0
	for _, group := range groups {
		total += len(group)
	}
	result := make([]mappedHandlerError, 0, total)
	for _, group := range groups {
		result = append(result, group...)
	}
	return result
}

var cartErrorRules = []mappedHandlerError{
	{target: service.ErrCartSessionInvalid, code: response.CodeBadRequest, key: "error.cart_session_invalid"},
	{target: service.ErrCartItemInvalid, code: response.CodeBadRequest, key: "error.cart_item_invalid"},
}

var productErrorRules = []mappedHandlerError{
	{target: service.ErrProductNotFound, code: response.CodeNotFound, key: "error.product_not_found"},
	{target: service.ErrCatalogUnavailable, code: response.CodeServiceUnavailable, key: "error.catalog_unavailable"},
}

var checkoutErrorRules = concatMappedHandlerErrors(cartErrorRules, []mappedHandlerError{
	{target: service.ErrContactInvalid, code: response.CodeBadRequest, key: "error.contact_invalid"},
	{target: service.ErrCatalogUnavailable, code: response.CodeServiceUnavailable, key: "error.catalog_unavailable"},
	{target: service.ErrOrderCreateFailed, code: response.CodeInternal, key: "error.order_create_failed"},
})

var orderErrorRules = concatMappedHandlerErrors(cartErrorRules, []mappedHandlerError{
	{target: service.ErrOrderNotFound, code: response.CodeNotFound, key: "error.order_not_found"},
	{target: service.ErrOrderFetchFailed, code: response.CodeInternal, key: "error.order_fetch_failed"},
	{target: service.ErrOrderUpdateFailed, code: response.CodeInternal, key: "error.order_fetch_failed"},
})
