package flow

import "time"

// Direction distinguishes bot messages from user messages in the log.
type Direction string

const (
	Outgoing Direction = "outgoing"
	Incoming Direction = "incoming"
)

// MessageType is the media kind of an outgoing message.
type MessageType string

const (
	MessageText     MessageType = "text"
	MessageImage    MessageType = "image"
	MessageAudio    MessageType = "audio"
	MessageVideo    MessageType = "video"
	MessageDocument MessageType = "document"
)

// Message is one entry of a simulation transcript.
type Message struct {
	ID          string      `json:"id"`
	NodeID      string      `json:"node_id,omitempty"`
	Direction   Direction   `json:"direction"`
	MessageType MessageType `json:"message_type"`
	Content     string      `json:"content"`
	MediaURL    string      `json:"media_url,omitempty"`
	Buttons     []Button    `json:"buttons,omitempty"`
	Timestamp   time.Time   `json:"timestamp"`
}
