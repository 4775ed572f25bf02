package line

// WebhookBody is the subset of the LINE webhook payload the bot reads.
type WebhookBody struct {
	Destination string  `json:"destination"`
	Events      []Event `json:"events" validate:"dive"`
}

type Event struct {
	Type       string   `json:"type" validate:"required"`
	ReplyToken string   `json:"replyToken"`
	Message    *Message `json:"message,omitempty"`
	Source     Source   `json:"source"`
	Timestamp  int64    `json:"timestamp"`
}

type Message struct {
	ID   string `json:"id"`
	Type string `json:"type"`
	Text string `json:"text"`
}

type Source struct {
	Type    string `json:"type"`
	UserID  string `json:"userId"`
	GroupID string `json:"groupId,omitempty"`
	RoomID  string `json:"roomId,omitempty"`
}

// Text returns the message text of a text-message event.
func (e Event) Text() (string, bool) {
	if e.Type != "message" || e.Message == nil || e.Message.Type != "text" {
		return "", false
	}
	return e.Message.Text, true
}
