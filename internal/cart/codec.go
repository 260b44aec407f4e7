package cart

import (
	"errors"
	"fmt"

	"github.com/goccy/go-json"
)

// ErrPayloadInvalid 持久化内容无法解析
var ErrPayloadInvalid = errors.New("cart payload invalid")

// Encode 将条目序列化为 JSON 数组（只持久化条目，汇总字段加载时重算）
func Encode(items []LineItem) (string, error) {
	if items == nil {
		items = []LineItem{}
	}
	body, err := json.Marshal(items)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// Decode 解析持久化内容并清洗
func Decode(raw string) ([]LineItem, error) {
	var items []LineItem
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPayloadInvalid, err)
	}
	return Normalize(items), nil
}
