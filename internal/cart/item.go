package cart

import "strings"

const noSizeKey = "no-size"

// LineItem 购物车行项目（即持久化记录的结构）
type LineItem struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Price    string `json:"price"`
	Image    string `json:"image"`
	Size     string `json:"size,omitempty"`
	Quantity int    `json:"quantity"`
}

// Candidate 加购请求，不含数量
type Candidate struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Price string `json:"price"`
	Image string `json:"image"`
	Size  string `json:"size,omitempty"`
}

// Key 生成行项目的组合标识，无尺码时使用 no-size
func Key(id, size string) string {
	if size == "" {
		return id + "-" + noSizeKey
	}
	return id + "-" + size
}

// Key 返回行项目的组合标识
func (i LineItem) Key() string {
	return Key(i.ID, i.Size)
}

// SameEntry 判断是否为同一购物车条目（id 与 size 均相同）
func (i LineItem) SameEntry(id, size string) bool {
	return i.ID == id && i.Size == size
}

// LineTotal 行小计，溢出时为 0
func (i LineItem) LineTotal() int64 {
	return lineTotal(ParsePrice(i.Price), i.Quantity)
}

func (c Candidate) valid() bool {
	return strings.TrimSpace(c.ID) != "" && strings.TrimSpace(c.Name) != ""
}

func (c Candidate) toLineItem() LineItem {
	return LineItem{
		ID:       c.ID,
		Name:     c.Name,
		Price:    c.Price,
		Image:    c.Image,
		Size:     c.Size,
		Quantity: 1,
	}
}
