package models

import (
	"time"
)

// OrderItem 下单明细，保留加购时的价格快照
type OrderItem struct {
	ID          uint      `gorm:"primarykey" json:"id"`                                      // 主键
	OrderID     uint      `gorm:"index;not null" json:"order_id"`                            // 订单ID
	ProductID   string    `gorm:"type:varchar(64);index;not null" json:"product_id"`         // 目录商品ID
	VariationID string    `gorm:"type:varchar(64)" json:"variation_id,omitempty"`            // 目录变体ID
	Slug        string    `gorm:"type:varchar(255)" json:"slug"`                             // 商品 slug
	Name        string    `gorm:"type:varchar(255);not null" json:"name"`                    // 名称快照
	Size        string    `gorm:"type:varchar(32)" json:"size,omitempty"`                    // 尺码
	PriceLabel  string    `gorm:"type:varchar(64)" json:"price_label"`                       // 展示价格快照
	UnitPrice   Money     `gorm:"type:decimal(20,2);not null;default:0" json:"unit_price"`   // 单价
	Quantity    int       `gorm:"not null" json:"quantity"`                                  // 数量
	TotalPrice  Money     `gorm:"type:decimal(20,2);not null;default:0" json:"total_price"`  // 小计
	CreatedAt   time.Time `gorm:"index" json:"created_at"`                                   // 创建时间
}

// TableName 指定表名
func (OrderItem) TableName() string {
	return "order_items"
}
