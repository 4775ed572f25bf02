package line

import (
	"context"
	"fmt"
	"time"

	"MacroBot/internal/domain/models"
	drepo "MacroBot/internal/domain/repository"
	xhttp "MacroBot/pkg/http"
	applogger "MacroBot/pkg/logger"
)

// MaxMessages is the LINE limit on messages in one reply or push.
const MaxMessages = 5

// Client sends text messages through the LINE Messaging API.
type Client struct {
	http *xhttp.Client
	l    *applogger.Logger
}

var _ drepo.Messenger = (*Client)(nil)

func New(apiURL, accessToken string, timeout time.Duration, l *applogger.Logger, opts ...xhttp.ClientOption) *Client {
	opts = append([]xhttp.ClientOption{
		xhttp.WithBaseURL(apiURL),
		xhttp.WithTimeout(timeout),
		xhttp.WithBearerToken(accessToken),
	}, opts...)
	return &Client{http: xhttp.NewClient(opts...), l: l}
}

type textMessage struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type replyRequest struct {
	ReplyToken string        `json:"replyToken"`
	Messages   []textMessage `json:"messages"`
}

type pushRequest struct {
	To       string        `json:"to"`
	Messages []textMessage `json:"messages"`
}

func texts(blocks []string) []textMessage {
	out := make([]textMessage, 0, len(blocks))
	for _, b := range blocks {
		out = append(out, textMessage{Type: "text", Text: b})
	}
	return out
}

// Reply answers a webhook event. Blocks arrive as separate messages in order.
func (c *Client) Reply(ctx context.Context, replyToken string, blocks []string) error {
	if len(blocks) == 0 {
		return nil
	}
	if len(blocks) > MaxMessages {
		return fmt.Errorf("reply: %d messages exceeds limit of %d", len(blocks), MaxMessages)
	}
	err := c.http.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodPost,
		Path:   "/v2/bot/message/reply",
		Body:   replyRequest{ReplyToken: replyToken, Messages: texts(blocks)},
	}, nil)
	if err != nil {
		c.l.Error("line reply failed", applogger.Int("messages", len(blocks)), applogger.Error(err))
		return fmt.Errorf("reply: %w: %w", models.ErrUpstreamUnavailable, err)
	}
	return nil
}

// Push sends one unsolicited message to a user, group or room id.
func (c *Client) Push(ctx context.Context, to string, text string) error {
	err := c.http.SendAndParse(ctx, &xhttp.RequestOptions{
		Method: xhttp.MethodPost,
		Path:   "/v2/bot/message/push",
		Body:   pushRequest{To: to, Messages: texts([]string{text})},
	}, nil)
	if err != nil {
		c.l.Error("line push failed", applogger.String("to", to), applogger.Error(err))
		return fmt.Errorf("push: %w: %w", models.ErrUpstreamUnavailable, err)
	}
	return nil
}
