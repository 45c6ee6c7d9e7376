package collab

import (
	"encoding/json"

	"github.com/igs/igs/internal/document"
	"github.com/igs/igs/internal/engine"
)

type Message struct {
	Type      string          `json:"type"`
	SessionID string          `json:"sessionId,omitempty"`
	ClientID  string          `json:"clientId,omitempty"`
	UserID    string          `json:"userId,omitempty"`
	Seq       int64           `json:"seq,omitempty"`
	Payload   json.RawMessage `json:"payload"`
}

type PresencePayload struct {
	Cursor      *CursorPos `json:"cursor,omitempty"`
	Selection   []int      `json:"selection,omitempty"`
	DisplayName string     `json:"displayName,omitempty"`
}

type CursorPos struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// PresenceStatePayload maps client IDs to their presence.
type PresenceStatePayload struct {
	Presences map[string]*PresencePayload `json:"presences"`
}

type PresenceJoinPayload struct {
	ClientID    string `json:"clientId"`
	UserID      string `json:"userId"`
	DisplayName string `json:"displayName"`
}

type PresenceLeavePayload struct {
	ClientID string `json:"clientId"`
	UserID   string `json:"userId"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}

const (
	TypePresenceUpdate = "presence.update"
	TypePresenceState  = "presence.state"
	TypePresenceJoin   = "presence.join"
	TypePresenceLeave  = "presence.leave"
	TypeError          = "error"

	// Connection
	TypeWelcome       = "welcome"
	TypeSessionClosed = "session.closed"

	// Scene sync
	TypeFrame = "frame"

	// Operation message types
	TypeOpSubmit    = "op.submit"
	TypeOpAck       = "op.ack"
	TypeOpNack      = "op.nack"
	TypeOpBroadcast = "op.broadcast"
)

// Operation types carried by op.submit.
const (
	OpShapeAdd       = "shape.add"
	OpShapeRemove    = "shape.remove"
	OpShapeRename    = "shape.rename"
	OpShapeTransform = "shape.transform"
	OpWindowMove     = "window.move"
	OpWindowZoom     = "window.zoom"
	OpInputKey       = "input.key"
	OpInputWheel     = "input.wheel"
)

// --- Operation Types ---

// Operation is a scene or window mutation submitted by a client.
type Operation struct {
	ID        string `json:"id"`
	Type      string `json:"type"`
	Timestamp int64  `json:"timestamp"`
	ClientSeq int64  `json:"clientSeq"`

	// For shape.add
	Shape *document.ShapeSpec `json:"shape,omitempty"`

	// For shape.remove / shape.rename
	Index *int   `json:"index,omitempty"`
	Name  string `json:"name,omitempty"`

	// For shape.transform. Without Indices the sender's selection is used.
	Indices []int                    `json:"indices,omitempty"`
	Steps   []document.TransformStep `json:"steps,omitempty"`

	// For window.move and window.zoom ("left", "right", "up", "down", "in", "out")
	Direction string `json:"direction,omitempty"`

	// For input.key / input.wheel
	Key    string `json:"key,omitempty"`
	DeltaY int    `json:"deltaY,omitempty"`
}

// OperationSubmitPayload is the payload for op.submit messages
type OperationSubmitPayload struct {
	Operation Operation `json:"operation"`
}

// OperationAckPayload is the payload for op.ack messages
type OperationAckPayload struct {
	OperationID     string `json:"operationId"`
	ServerSeq       int64  `json:"serverSeq"`
	ServerTimestamp int64  `json:"serverTimestamp"`
	Index           *int   `json:"index,omitempty"` // new display file index for shape.add
	Changed         *bool  `json:"changed,omitempty"`

	// For shape.transform, the matrix applied to each changed shape.
	Transforms []document.AppliedTransform `json:"transforms,omitempty"`
}

// OperationNackPayload is the payload for op.nack messages
type OperationNackPayload struct {
	OperationID string `json:"operationId"`
	Reason      string `json:"reason"`
}

// OperationBroadcastPayload is the payload for op.broadcast messages
type OperationBroadcastPayload struct {
	Operation  Operation                   `json:"operation"`
	UserID     string                      `json:"userId"`
	ServerSeq  int64                       `json:"serverSeq"`
	Transforms []document.AppliedTransform `json:"transforms,omitempty"`
}

// WelcomePayload is sent to a client right after it joins.
type WelcomePayload struct {
	ClientID  string         `json:"clientId"`
	ServerSeq int64          `json:"serverSeq"`
	Scene     document.Scene `json:"scene"`
}

// FramePayload carries the device-space draw commands for a revision.
type FramePayload struct {
	Revision int64                `json:"revision"`
	Commands []engine.DrawCommand `json:"commands"`
}

func newMessage(typ string, payload any) *Message {
	data, _ := json.Marshal(payload)
	return &Message{Type: typ, Payload: data}
}
