package cart

import "math"

// ParsePrice 提取价格字符串中的全部 ASCII 数字并按十进制解析。
// 小数分隔符同样被丢弃（"12.50" 得到 1250）；无数字或溢出时返回 0。
func ParsePrice(raw string) int64 {
	var value int64
	for i := 0; i < len(raw); i++ {
		ch := raw[i]
		if ch < '0' || ch > '9' {
			continue
		}
		digit := int64(ch - '0')
		if value > (math.MaxInt64-digit)/10 {
			return 0
		}
		value = value*10 + digit
	}
	return value
}

// lineTotal 单价乘数量，溢出时按 0 计，与 ParsePrice 一致
func lineTotal(price int64, quantity int) int64 {
	if price <= 0 || quantity <= 0 {
		return 0
	}
	if price > math.MaxInt64/int64(quantity) {
		return 0
	}
	return price * int64(quantity)
}

// addPrice 累加合计，溢出时封顶 math.MaxInt64
func addPrice(total, amount int64) int64 {
	if amount > 0 && total > math.MaxInt64-amount {
		return math.MaxInt64
	}
	return total + amount
}

// addQuantity 累加件数，溢出时封顶 math.MaxInt
func addQuantity(total, quantity int) int {
	if quantity > 0 && total > math.MaxInt-quantity {
		return math.MaxInt
	}
	return total + quantity
}
