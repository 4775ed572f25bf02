package webhook

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"MacroBot/internal/domain/models"
	"MacroBot/internal/service/line"
	xhttp "MacroBot/pkg/http"
	xlogger "MacroBot/pkg/logger"

	"github.com/go-playground/assert/v2"
)

const secret = "channel-secret"

type stubLookup struct{ codes []string }

func (s *stubLookup) HandleCode(_ context.Context, code string) models.Payload {
	s.codes = append(s.codes, code)
	return models.Payload{Blocks: []string{"info " + code, "table " + code}, Outcome: models.OutcomeOK}
}

type reply struct {
	token  string
	blocks []string
}

type stubMessenger struct {
	replies []reply
	err     error
}

func (s *stubMessenger) Reply(_ context.Context, token string, blocks []string) error {
	s.replies = append(s.replies, reply{token, blocks})
	return s.err
}

func (s *stubMessenger) Push(context.Context, string, string) error { return nil }

func newServer(lk *stubLookup, msg *stubMessenger) *xhttp.Server {
	h := NewLineHandler(xlogger.Nop(), secret, lk, msg)
	return xhttp.NewServer(xlogger.Nop(), []xhttp.Handler{h}, xhttp.WithMetricsPath(""))
}

func post(s *xhttp.Server, body, sig string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/callback", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if sig != "" {
		req.Header.Set(line.SignatureHeader, sig)
	}
	rec := httptest.NewRecorder()
	s.Echo().ServeHTTP(rec, req)
	return rec
}

const events = `{"destination":"U0","events":[
 {"type":"message","replyToken":"r1","message":{"id":"1","type":"text","text":" cpi "},"source":{"type":"user","userId":"U1"}},
 {"type":"message","replyToken":"r2","message":{"id":"2","type":"text","text":"hello"},"source":{"type":"user","userId":"U1"}},
 {"type":"message","replyToken":"r3","message":{"id":"3","type":"sticker"},"source":{"type":"user","userId":"U1"}},
 {"type":"follow","replyToken":"r4","source":{"type":"user","userId":"U2"}}
]}`

func TestIndex(t *testing.T) {
	s := newServer(&stubLookup{}, &stubMessenger{})
	rec := httptest.NewRecorder()
	s.Echo().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "LINE Bot is running!", rec.Body.String())
}

func TestCallbackRepliesPerTextMessage(t *testing.T) {
	lk, msg := &stubLookup{}, &stubMessenger{}
	rec := post(newServer(lk, msg), events, line.Sign(secret, []byte(events)))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []string{"CPI"}, lk.codes)
	assert.Equal(t, 2, len(msg.replies))
	assert.Equal(t, reply{"r1", []string{"info CPI", "table CPI"}}, msg.replies[0])
	assert.Equal(t, reply{"r2", []string{helpText}}, msg.replies[1])
}

func TestCallbackRejectsBadSignature(t *testing.T) {
	lk, msg := &stubLookup{}, &stubMessenger{}
	s := newServer(lk, msg)

	rec := post(s, events, "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = post(s, events, line.Sign("wrong", []byte(events)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.MatchRegex(t, rec.Body.String(), `invalid signature`)
	assert.Equal(t, 0, len(msg.replies))
}

func TestCallbackRejectsMalformedBody(t *testing.T) {
	body := `{"events":[{"replyToken":"r1"}]}`
	rec := post(newServer(&stubLookup{}, &stubMessenger{}), body, line.Sign(secret, []byte(body)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	body = `not json`
	rec = post(newServer(&stubLookup{}, &stubMessenger{}), body, line.Sign(secret, []byte(body)))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCallbackSurvivesReplyFailure(t *testing.T) {
	var logs bytes.Buffer
	msg := &stubMessenger{err: errors.New("expired token")}
	h := NewLineHandler(xlogger.NewWriter(&logs, "info"), secret, &stubLookup{}, msg)
	srv := xhttp.NewServer(xlogger.Nop(), []xhttp.Handler{h}, xhttp.WithMetricsPath(""))
	rec := post(srv, events, line.Sign(secret, []byte(events)))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 2, len(msg.replies))
	assert.MatchRegex(t, logs.String(), `"source":\{"type":"user","userId":"U1"\}`)
	assert.MatchRegex(t, logs.String(), `"error":"expired token"`)
}
