// Package bridge carries method calls and event streams between clients and
// handlers over a stream of JSON messages.
package bridge

import "encoding/json"

// Methods understood by event channels.
const (
	MethodListen = "listen"
	MethodCancel = "cancel"
)

// ErrCodeMissingID is reported for requests without an id.
const ErrCodeMissingID = "MISSING_ID"

// Message is the single frame shape used in both directions.
//
// Requests carry ID, Channel, Method and Args. Method replies echo ID and set
// one of Result, Error or NotImplemented. Stream frames carry Channel and one
// of Event, Error or EndOfStream.
//
// Request ids are chosen by the client and must be non-zero: a zero id is
// never echoed, so it marks frames that answer no request.
type Message struct {
	ID      int64           `json:"id,omitempty"`
	Channel string          `json:"channel,omitempty"`
	Method  string          `json:"method,omitempty"`
	Args    json.RawMessage `json:"args,omitempty"`

	Result         any    `json:"result,omitempty"`
	Error          *Error `json:"error,omitempty"`
	NotImplemented bool   `json:"notImplemented,omitempty"`

	Event       any  `json:"event,omitempty"`
	EndOfStream bool `json:"endOfStream,omitempty"`
}

// Error is an error reported to the client.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message,omitempty"`
	Details any    `json:"details,omitempty"`
}

func (e *Error) Error() string {
	if e.Message == "" {
		return e.Code
	}
	return e.Code + ": " + e.Message
}

// MethodCall is an incoming call on a method channel.
type MethodCall struct {
	Method string
	Args   json.RawMessage
}
