package notification

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLogNotifier(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	n := NewLogNotifier(zap.New(core))

	require.NoError(t, n.Send(context.Background(), "alice@example.com", "welcome"))

	entries := logs.FilterMessage("Notification sent").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "alice@example.com", entries[0].ContextMap()["recipient"])
	assert.Equal(t, "welcome", entries[0].ContextMap()["message"])

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, n.Send(ctx, "alice@example.com", "late"), context.Canceled)
}

func TestRecordingNotifier(t *testing.T) {
	n := NewRecordingNotifier()
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = n.Send(ctx, "alice@example.com", "hello")
		}()
	}
	wg.Wait()
	assert.Len(t, n.Messages(), 10)

	boom := errors.New("smtp down")
	n.FailWith(boom)
	assert.ErrorIs(t, n.Send(ctx, "bob@example.com", "hello"), boom)
	assert.Len(t, n.Messages(), 10)

	n.FailWith(nil)
	require.NoError(t, n.Send(ctx, "bob@example.com", "hello"))
	assert.Equal(t, Message{Recipient: "bob@example.com", Body: "hello"}, n.Messages()[10])
}

func TestWebhookNotifier(t *testing.T) {
	var got Message
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusAccepted)
	}))
	defer server.Close()

	n := NewWebhookNotifier(server.URL, time.Second)
	require.NoError(t, n.Send(context.Background(), "alice@example.com", "budget allocated"))
	assert.Equal(t, Message{Recipient: "alice@example.com", Body: "budget allocated"}, got)
}

func TestWebhookNotifierNon2xx(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	err := NewWebhookNotifier(server.URL, time.Second).Send(context.Background(), "a@example.com", "x")
	assert.ErrorContains(t, err, "webhook returned 503")
}
