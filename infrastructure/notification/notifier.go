// Package notification holds the concrete providers of notification.Notifier.
package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	domain "ddd-skeleton/domain/notification"

	"go.uber.org/zap"
)

// LogNotifier 把通知写入日志，开发环境默认使用
type LogNotifier struct {
	logger *zap.Logger
}

// NewLogNotifier nil logger 时使用 Nop
func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Send(ctx context.Context, recipient, message string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	n.logger.Info("Notification sent",
		zap.String("recipient", recipient),
		zap.String("message", message),
	)
	return nil
}

// Message 一条已发送的通知
type Message struct {
	Recipient string `json:"recipient"`
	Body      string `json:"message"`
}

// RecordingNotifier 在内存中记录通知，并发安全
// 可以通过 FailWith 注入发送失败
type RecordingNotifier struct {
	mu       sync.RWMutex
	messages []Message
	err      error
}

func NewRecordingNotifier() *RecordingNotifier {
	return &RecordingNotifier{}
}

func (n *RecordingNotifier) Send(ctx context.Context, recipient, message string) error {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.err != nil {
		return n.err
	}
	n.messages = append(n.messages, Message{Recipient: recipient, Body: message})
	return nil
}

// FailWith makes every following Send return err; nil restores normal behaviour
func (n *RecordingNotifier) FailWith(err error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.err = err
}

// Messages 返回已记录通知的副本
func (n *RecordingNotifier) Messages() []Message {
	n.mu.RLock()
	defer n.mu.RUnlock()

	out := make([]Message, len(n.messages))
	copy(out, n.messages)
	return out
}

// WebhookNotifier POST JSON {"recipient","message"} 到配置的 URL
type WebhookNotifier struct {
	url    string
	client *http.Client
}

// NewWebhookNotifier timeout <= 0 时使用 5 秒
func NewWebhookNotifier(url string, timeout time.Duration) *WebhookNotifier {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &WebhookNotifier{
		url:    url,
		client: &http.Client{Timeout: timeout},
	}
}

func (n *WebhookNotifier) Send(ctx context.Context, recipient, message string) error {
	body, err := json.Marshal(Message{Recipient: recipient, Body: message})
	if err != nil {
		return fmt.Errorf("encode notification: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build notification request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send notification: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4<<10))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("send notification: webhook returned %d", resp.StatusCode)
	}
	return nil
}

var (
	_ domain.Notifier = (*LogNotifier)(nil)
	_ domain.Notifier = (*RecordingNotifier)(nil)
	_ domain.Notifier = (*WebhookNotifier)(nil)
)
