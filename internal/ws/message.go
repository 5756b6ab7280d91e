package ws

import (
	"encoding/json"
	"time"

	"github.com/go-demo/party/internal/service"
)

// Envelope is the wire format pushed to subscribed clients
type Envelope struct {
	Type      string      `json:"type"`
	Room      string      `json:"room"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// encodeEvent wraps a room event for the wire. Encoding failures drop the
// event rather than the connection.
func encodeEvent(slug string, event service.Event) ([]byte, error) {
	return json.Marshal(&Envelope{
		Type:      event.Type,
		Room:      slug,
		Data:      event.Data,
		Timestamp: time.Now().UTC(),
	})
}
