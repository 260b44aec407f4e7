package i18n

var messages = map[string]map[string]string{
	LocaleRU: {
		"error.bad_request":            "Некорректный запрос",
		"error.internal":               "Внутренняя ошибка сервера",
		"error.not_found":              "Не найдено",
		"error.rate_limited":           "Слишком много запросов, повторите через %d сек.",
		"error.rate_limit_unavailable": "Сервис ограничения запросов недоступен",
		"error.cart_session_invalid":   "Некорректная сессия корзины",
		"error.cart_item_invalid":      "Некорректная позиция корзины",
		"error.product_not_found":      "Товар не найден",
		"error.catalog_unavailable":    "Каталог временно недоступен",
		"error.order_not_found":        "Заявка не найдена",
		"error.order_fetch_failed":     "Не удалось получить заявку",
		"error.checkout_failed":        "Не удалось оформить заказ",
		"error.contact_invalid":        "Укажите имя, телефон и email",
		"error.order_create_failed":    "Не удалось сохранить заявку",
		"checkout.cart_empty":          "Корзина пуста",
		"checkout.product_not_found":   "Товар не найден: %s",
		"checkout.variant_not_found":   "Вариация не найдена: %s %s",
		"checkout.out_of_stock":        "Нет в наличии: %s %s",
		"health.ok":                    "ok",
	},
	LocaleEN: {
		"error.bad_request":            "Bad request",
		"error.internal":               "Internal server error",
		"error.not_found":              "Not found",
		"error.rate_limited":           "Too many requests, retry in %d s",
		"error.rate_limit_unavailable": "Rate limiter unavailable",
		"error.cart_session_invalid":   "Invalid cart session",
		"error.cart_item_invalid":      "Invalid cart item",
		"error.product_not_found":      "Product not found",
		"error.catalog_unavailable":    "Catalog temporarily unavailable",
		"error.order_not_found":        "Order request not found",
		"error.order_fetch_failed":     "Failed to fetch order request",
		"error.checkout_failed":        "Checkout failed",
		"error.contact_invalid":        "Name, phone and email are required",
		"error.order_create_failed":    "Failed to save order request",
		"checkout.cart_empty":          "Cart is empty",
		"checkout.product_not_found":   "Product not found: %s",
		"checkout.variant_not_found":   "Variation not found: %s %s",
		"checkout.out_of_stock":        "Out of stock: %s %s",
		"health.ok":                    "ok",
	},
}
