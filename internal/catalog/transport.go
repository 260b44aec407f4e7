package catalog

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
)

const (
	defaultTimeout  = 12 * time.Second
	maxErrorExcerpt = 200
)

// transport 各后端共用的 JSON HTTP 调用
type transport struct {
	client  *http.Client
	timeout time.Duration
}

func newTransport(timeout time.Duration) *transport {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &transport{client: http.DefaultClient, timeout: timeout}
}

// doJSONRequest 发送请求并返回原始响应体与状态码
func (t *transport) doJSONRequest(ctx context.Context, method, endpoint string, header http.Header, payload interface{}) ([]byte, int, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := t.withDefaultTimeout(ctx)
	defer cancel()

	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, 0, fmt.Errorf("%w: marshal request failed", ErrRequestFailed)
		}
		body = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: build request failed", ErrRequestFailed)
	}
	for key, values := range header {
		for _, value := range values {
			req.Header.Add(key, value)
		}
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: http request failed: %v", ErrRequestFailed, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("%w: read response failed", ErrRequestFailed)
	}
	return respBody, resp.StatusCode, nil
}

// fetchJSON 请求并解码 2xx 响应
func (t *transport) fetchJSON(ctx context.Context, method, endpoint string, header http.Header, payload, dest interface{}) error {
	respBody, statusCode, err := t.doJSONRequest(ctx, method, endpoint, header, payload)
	if err != nil {
		return err
	}
	if statusCode < 200 || statusCode >= 300 {
		return fmt.Errorf("%w: status %d: %s", ErrRequestFailed, statusCode, excerpt(respBody))
	}
	if dest == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, dest); err != nil {
		return fmt.Errorf("%w: decode response failed", ErrResponseInvalid)
	}
	return nil
}

func (t *transport) withDefaultTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, ok := ctx.Deadline(); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, t.timeout)
}

func excerpt(body []byte) string {
	text := strings.TrimSpace(string(body))
	runes := []rune(text)
	if len(runes) > maxErrorExcerpt {
		return string(runes[:maxErrorExcerpt]) + "..."
	}
	return text
}
