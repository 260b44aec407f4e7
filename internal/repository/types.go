package repository

import "time"

// OrderListFilter 查询请求列表的过滤条件
type OrderListFilter struct {
	Page         int
	PageSize     int
	SessionID    string
	Status       string
	ContactEmail string
	CreatedFrom  *time.Time
	CreatedTo    *time.Time
}
