package models

import (
	"time"

	"gorm.io/gorm"
)

// Order 下单请求记录
type Order struct {
	ID             uint           `gorm:"primarykey" json:"id"`                                         // 主键
	OrderNo        string         `gorm:"uniqueIndex;not null" json:"order_no"`                         // 请求编号 REQ-...
	SessionID      string         `gorm:"index;type:varchar(128)" json:"-"`                             // 购物车会话
	Status         string         `gorm:"index;not null" json:"status"`                                 // 状态
	Currency       string         `gorm:"not null" json:"currency"`                                     // 币种
	TotalItems     int            `gorm:"not null;default:0" json:"total_items"`                        // 件数
	TotalAmount    Money          `gorm:"type:decimal(20,2);not null;default:0" json:"total_amount"`    // 合计
	ContactName    string         `gorm:"type:varchar(200);not null" json:"contact_name"`               // 联系人
	ContactPhone   string         `gorm:"type:varchar(64);not null" json:"contact_phone"`               // 电话
	ContactEmail   string         `gorm:"type:varchar(200);index;not null" json:"contact_email"`        // 邮箱
	ContactAddress string         `gorm:"type:text" json:"contact_address,omitempty"`                   // 地址
	ContactComment string         `gorm:"type:text" json:"contact_comment,omitempty"`                   // 备注
	Locale         string         `gorm:"type:varchar(20)" json:"locale,omitempty"`                     // 语言
	CatalogBackend string         `gorm:"type:varchar(32)" json:"catalog_backend"`                      // 校验所用目录后端
	RemoteOrderID  string         `gorm:"type:varchar(64);index" json:"remote_order_id,omitempty"`      // 远端订单号
	PaymentURL     string         `gorm:"type:text" json:"payment_url,omitempty"`                       // 远端支付地址
	ExpiresAt      *time.Time     `gorm:"index" json:"expires_at,omitempty"`                            // 支付截止时间
	ExpiredAt      *time.Time     `gorm:"index" json:"expired_at,omitempty"`                            // 实际过期时间
	CreatedAt      time.Time      `gorm:"index" json:"created_at"`                                      // 创建时间
	UpdatedAt      time.Time      `gorm:"index" json:"updated_at"`                                      // 更新时间
	DeletedAt      gorm.DeletedAt `gorm:"index" json:"-"`                                               // 软删除时间

	Items []OrderItem `gorm:"foreignKey:OrderID" json:"items,omitempty"` // 明细
}

// TableName 指定表名
func (Order) TableName() string {
	return "orders"
}
