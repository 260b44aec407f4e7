package cart

// Action 购物车操作，仅限本包定义的变体
type Action interface {
	isAction()
}

// AddItem 加购；同一条目数量加一，否则追加
type AddItem struct {
	Item Candidate
}

// RemoveItem 按组合标识移除条目
type RemoveItem struct {
	Key string
}

// UpdateQuantity 设置条目数量，小于等于 0 时移除
type UpdateQuantity struct {
	Key      string
	Quantity int
}

// ClearCart 清空购物车
type ClearCart struct{}

// LoadCart 从持久化数据装载条目
type LoadCart struct {
	Items []LineItem
}

func (AddItem) isAction()        {}
func (RemoveItem) isAction()     {}
func (UpdateQuantity) isAction() {}
func (ClearCart) isAction()      {}
func (LoadCart) isAction()       {}
