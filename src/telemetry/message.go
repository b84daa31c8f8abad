package telemetry

import (
	"encoding/json"
	"time"
)

type MessageType string

const (
	Log                 MessageType = "server_log"
	Error               MessageType = "server_error"
	SceneUpdate         MessageType = "server_scene_update"
	MetricsUpdate       MessageType = "server_metrics_update"
	WaitForConfirmation MessageType = "server_wait_for_confirmation"
	Hello               MessageType = "server_hello"
	ClientConfirmed     MessageType = "client_confirmed"
)

type Message struct {
	Type      MessageType `json:"type"`
	Data      any         `json:"data"`
	Timestamp time.Time   `json:"timestamp"`
}

// Frame is a decoded message as seen by a viewer.
type Frame struct {
	Type      MessageType     `json:"type"`
	Data      json.RawMessage `json:"data"`
	Timestamp time.Time       `json:"timestamp"`
}

// Publisher accepts messages for viewers. Publish must never block the
// caller or fail.
type Publisher interface {
	Publish(msg Message)
}

// Discard is a Publisher that drops everything.
type Discard struct{}

func (Discard) Publish(Message) {}

// Sink receives encoded frames from a Broadcaster.
type Sink interface {
	Send(frame []byte)
}

// Encode renders msg as one newline terminated JSON frame.
func Encode(msg Message) ([]byte, error) {
	frame, err := json.Marshal(msg)
	if err != nil {
		return nil, err
	}
	return append(frame, '\n'), nil
}
