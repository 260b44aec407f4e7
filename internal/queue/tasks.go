package queue

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gang-ground/internal/constants"

	"github.com/goccy/go-json"
	"github.com/hibiken/asynq"
)

const (
	// TaskOrderTimeoutCancel 待支付请求超时过期任务
	TaskOrderTimeoutCancel = constants.TaskOrderTimeoutCancel
)

// ErrPayloadInvalid 任务载荷无效
var ErrPayloadInvalid = errors.New("queue payload invalid")

// OrderTimeoutCancelPayload 超时过期任务载荷
type OrderTimeoutCancelPayload struct {
	OrderID uint   `json:"order_id"`
	OrderNo string `json:"order_no,omitempty"`
}

// NewOrderTimeoutCancelTask 创建超时过期任务
func NewOrderTimeoutCancelTask(payload OrderTimeoutCancelPayload) (*asynq.Task, error) {
	if payload.OrderID == 0 {
		return nil, ErrPayloadInvalid
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskOrderTimeoutCancel, body), nil
}

// ParseOrderTimeoutCancelPayload 解析超时过期任务载荷
func ParseOrderTimeoutCancelPayload(body []byte) (OrderTimeoutCancelPayload, error) {
	var payload OrderTimeoutCancelPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		return payload, fmt.Errorf("%w: %v", ErrPayloadInvalid, err)
	}
	if payload.OrderID == 0 {
		return payload, ErrPayloadInvalid
	}
	payload.OrderNo = strings.TrimSpace(payload.OrderNo)
	return payload, nil
}

// orderTimeoutTaskID 同一请求只保留一个过期任务
func orderTimeoutTaskID(orderID uint) string {
	return fmt.Sprintf("%s:%d", TaskOrderTimeoutCancel, orderID)
}
