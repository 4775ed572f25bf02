package line

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"MacroBot/internal/domain/models"
	applogger "MacroBot/pkg/logger"

	"github.com/go-playground/assert/v2"
)

func TestReplySendsOrderedMessages(t *testing.T) {
	var got replyRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2/bot/message/reply", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		b, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(b, &got)
		_, _ = w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	c := New(srv.URL, "tok", time.Second, applogger.Nop())
	err := c.Reply(context.Background(), "rt-1", []string{"one", "two", "three", "four"})
	assert.Equal(t, nil, err)
	assert.Equal(t, "rt-1", got.ReplyToken)
	assert.Equal(t, 4, len(got.Messages))
	assert.Equal(t, "text", got.Messages[0].Type)
	assert.Equal(t, "four", got.Messages[3].Text)
}

func TestReplyRejectsTooManyMessages(t *testing.T) {
	c := New("http://127.0.0.1:1", "tok", time.Second, applogger.Nop())
	err := c.Reply(context.Background(), "rt", []string{"1", "2", "3", "4", "5", "6"})
	assert.NotEqual(t, nil, err)
}

func TestPushFailureIsUpstreamUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v2/bot/message/push", r.URL.Path)
		var body pushRequest
		b, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(b, &body)
		assert.Equal(t, "U123", body.To)
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := New(srv.URL, "bad", time.Second, applogger.Nop())
	err := c.Push(context.Background(), "U123", "digest")
	assert.Equal(t, true, errors.Is(err, models.ErrUpstreamUnavailable))
}

func TestSignature(t *testing.T) {
	body := []byte(`{"events":[]}`)
	sig := Sign("secret", body)

	assert.Equal(t, true, VerifySignature("secret", body, sig))
	assert.Equal(t, false, VerifySignature("other", body, sig))
	assert.Equal(t, false, VerifySignature("secret", []byte(`{"events":[{}]}`), sig))
	assert.Equal(t, false, VerifySignature("secret", body, "not base64!"))
	assert.Equal(t, false, VerifySignature("secret", body, ""))
}

func TestEventText(t *testing.T) {
	text, ok := Event{Type: "message", Message: &Message{Type: "text", Text: "cpi"}}.Text()
	assert.Equal(t, true, ok)
	assert.Equal(t, "cpi", text)

	_, ok = Event{Type: "message", Message: &Message{Type: "sticker"}}.Text()
	assert.Equal(t, false, ok)
	_, ok = Event{Type: "follow"}.Text()
	assert.Equal(t, false, ok)
}
