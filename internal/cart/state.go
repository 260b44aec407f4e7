package cart

// State 购物车状态，汇总字段只能由 newState 计算
type State struct {
	Items      []LineItem `json:"items"`
	TotalItems int        `json:"total_items"`
	TotalPrice int64      `json:"total_price"`
}

// Empty 空购物车
func Empty() State {
	return newState(nil)
}

func newState(items []LineItem) State {
	state := State{Items: make([]LineItem, 0, len(items))}
	for _, item := range items {
		state.Items = append(state.Items, item)
		state.TotalItems = addQuantity(state.TotalItems, item.Quantity)
		state.TotalPrice = addPrice(state.TotalPrice, item.LineTotal())
	}
	return state
}

// Find 按组合标识查找行项目
func (s State) Find(key string) (LineItem, bool) {
	for _, item := range s.Items {
		if item.Key() == key {
			return item, true
		}
	}
	return LineItem{}, false
}

// IsEmpty 是否为空
func (s State) IsEmpty() bool {
	return len(s.Items) == 0
}

func (s State) clone() State {
	return newState(s.Items)
}
