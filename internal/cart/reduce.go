package cart

// Reduce 纯状态转移：总是返回合法的新状态，不修改入参
func Reduce(state State, action Action) State {
	switch a := action.(type) {
	case AddItem:
		return addItem(state, a.Item)
	case RemoveItem:
		return newState(removeByKey(state.Items, a.Key))
	case UpdateQuantity:
		if a.Quantity <= 0 {
			return newState(removeByKey(state.Items, a.Key))
		}
		return newState(setQuantity(state.Items, a.Key, a.Quantity))
	case ClearCart:
		return Empty()
	case LoadCart:
		return newState(Normalize(a.Items))
	default:
		return state.clone()
	}
}

func addItem(state State, candidate Candidate) State {
	if !candidate.valid() {
		return state.clone()
	}
	items := make([]LineItem, 0, len(state.Items)+1)
	merged := false
	for _, item := range state.Items {
		if !merged && item.SameEntry(candidate.ID, candidate.Size) {
			item.Quantity = addQuantity(item.Quantity, 1)
			merged = true
		}
		items = append(items, item)
	}
	if !merged {
		items = append(items, candidate.toLineItem())
	}
	return newState(items)
}

func removeByKey(items []LineItem, key string) []LineItem {
	result := make([]LineItem, 0, len(items))
	for _, item := range items {
		if item.Key() == key {
			continue
		}
		result = append(result, item)
	}
	return result
}

func setQuantity(items []LineItem, key string, quantity int) []LineItem {
	result := make([]LineItem, 0, len(items))
	for _, item := range items {
		if item.Key() == key {
			item.Quantity = quantity
		}
		result = append(result, item)
	}
	return result
}

// Normalize 清洗外部条目：丢弃空 id 或数量非正的记录，合并重复条目（保留首条字段，数量累加）
func Normalize(items []LineItem) []LineItem {
	result := make([]LineItem, 0, len(items))
	index := make(map[[2]string]int, len(items))
	for _, item := range items {
		if item.ID == "" || item.Quantity <= 0 {
			continue
		}
		identity := [2]string{item.ID, item.Size}
		if pos, ok := index[identity]; ok {
			result[pos].Quantity = addQuantity(result[pos].Quantity, item.Quantity)
			continue
		}
		index[identity] = len(result)
		result = append(result, item)
	}
	return result
}
