package types

// SlackMessage is the payload posted for a new feedback entry, either to an
// incoming webhook or to chat.postMessage (which also needs Channel)
type SlackMessage struct {
	Channel string       `json:"channel,omitempty"`
	Text    string       `json:"text"` // Notification fallback
	Blocks  []SlackBlock `json:"blocks,omitempty"`
}

// SlackBlock is a header, section or context block
type SlackBlock struct {
	Type     string            `json:"type"`
	Text     *SlackTextObject  `json:"text,omitempty"`
	Fields   []SlackTextObject `json:"fields,omitempty"`
	Elements []SlackTextObject `json:"elements,omitempty"`
}

type SlackTextObject struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// PlainText builds a plain_text object
func PlainText(text string) SlackTextObject {
	return SlackTextObject{Type: "plain_text", Text: text}
}

// Markdown builds a mrkdwn object
func Markdown(text string) SlackTextObject {
	return SlackTextObject{Type: "mrkdwn", Text: text}
}

// SlackResponse is the chat.postMessage reply
type SlackResponse struct {
	OK    bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}
