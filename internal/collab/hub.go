package collab

import (
	"encoding/json"
	"errors"
	"log/slog"
	"sync"

	"github.com/igs/igs/internal/engine"
	"github.com/igs/igs/internal/session"
)

var ErrHubStopped = errors.New("hub stopped")

type Room struct {
	sessionID   string
	clients     map[string]*Client // clientID -> client
	presence    *PresenceManager
	state       *SceneState
	unsubscribe func()
}

// NewRoom creates a room for sess. Presence selections follow removals from
// the session's display file inside the same engine critical section as
// the removal itself.
func NewRoom(sess *session.Session) *Room {
	room := &Room{
		sessionID: sess.ID,
		clients:   make(map[string]*Client),
		presence:  NewPresenceManager(),
		state:     NewSceneState(sess),
	}
	sess.Do(func(e *engine.Engine) error {
		room.unsubscribe = e.DisplayFile().Subscribe(func(ev engine.Event) {
			if ev.Kind == engine.EventRemoved {
				room.presence.ShapeRemoved(ev.Index)
			}
		})
		return nil
	})
	return room
}

// close detaches the room from its session.
func (r *Room) close() {
	r.state.session.Do(func(*engine.Engine) error {
		r.unsubscribe()
		return nil
	})
}

type Hub struct {
	mu         sync.RWMutex
	rooms      map[string]*Room // sessionID -> room
	sessions   *session.Service
	register   chan *Client
	unregister chan *Client
	quit       chan struct{}
	stopOnce   sync.Once
}

// NewHub creates a hub whose rooms edit sessions from sessions. The hub
// follows REST changes to those sessions.
func NewHub(sessions *session.Service) *Hub {
	h := &Hub{
		rooms:      make(map[string]*Room),
		sessions:   sessions,
		register:   make(chan *Client),
		unregister: make(chan *Client),
		quit:       make(chan struct{}),
	}
	sessions.OnChange(h.onSessionChange)
	return h
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.addClient(client)
		case client := <-h.unregister:
			h.removeClient(client)
		case <-h.quit:
			return
		}
	}
}

// Stop closes every connection and ends Run.
func (h *Hub) Stop() {
	h.stopOnce.Do(func() {
		h.mu.RLock()
		for _, room := range h.rooms {
			for _, c := range room.clients {
				c.Close("server shutting down")
			}
		}
		h.mu.RUnlock()
		close(h.quit)
	})
}

// Register hands client to the hub. It fails once the hub is stopped.
func (h *Hub) Register(client *Client) error {
	select {
	case h.register <- client:
		return nil
	case <-h.quit:
		return ErrHubStopped
	}
}

// Unregister removes client. It returns without waiting once the hub is
// stopped.
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.quit:
	}
}

func (h *Hub) addClient(client *Client) {
	sess, err := h.sessions.Get(client.SessionID)
	if err != nil {
		client.Send(newMessage(TypeError, ErrorPayload{Message: err.Error()}))
		return
	}

	h.mu.Lock()
	room, ok := h.rooms[client.SessionID]
	if !ok {
		room = NewRoom(sess)
		h.rooms[client.SessionID] = room
	}
	room.clients[client.ClientID] = client
	h.mu.Unlock()

	welcome := WelcomePayload{ClientID: client.ClientID, ServerSeq: room.state.ServerSeq()}
	sess.Do(func(e *engine.Engine) error {
		welcome.Scene = e.Scene()
		return nil
	})
	client.Send(newMessage(TypeWelcome, welcome))

	// Send current presence state to new client
	stateMsg := room.presence.StateMessage()
	if stateMsg != nil {
		client.Send(stateMsg)
	}
	client.Send(frameMessage(room))

	// Broadcast join to other clients
	joinMsg := newMessage(TypePresenceJoin, PresenceJoinPayload{
		ClientID:    client.ClientID,
		UserID:      client.UserID,
		DisplayName: client.DisplayName,
	})
	joinMsg.UserID = client.UserID
	h.broadcastToRoom(client.SessionID, joinMsg, client.ClientID)

	slog.Info("client joined", "user", client.UserID, "session", client.SessionID)
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	room, ok := h.rooms[client.SessionID]
	if !ok {
		h.mu.Unlock()
		return
	}
	if _, ok := room.clients[client.ClientID]; !ok {
		h.mu.Unlock()
		return
	}

	delete(room.clients, client.ClientID)
	close(client.send)
	room.presence.Remove(client.ClientID)

	empty := len(room.clients) == 0
	if empty {
		delete(h.rooms, client.SessionID)
	}
	h.mu.Unlock()

	if empty {
		room.close()
	}

	// Broadcast leave to remaining clients
	leaveMsg := newMessage(TypePresenceLeave, PresenceLeavePayload{
		ClientID: client.ClientID,
		UserID:   client.UserID,
	})
	leaveMsg.UserID = client.UserID
	h.broadcastToRoom(client.SessionID, leaveMsg, "")

	slog.Info("client left", "user", client.UserID, "session", client.SessionID)
}

func (h *Hub) room(sessionID string) *Room {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.rooms[sessionID]
}

func (h *Hub) handleMessage(sender *Client, msg *Message) {
	switch msg.Type {
	case TypePresenceUpdate:
		h.handlePresenceUpdate(sender, msg)
	case TypeOpSubmit:
		h.handleOpSubmit(sender, msg)
	default:
		slog.Warn("unknown message type", "type", msg.Type, "user", sender.UserID)
	}
}

func (h *Hub) handlePresenceUpdate(sender *Client, msg *Message) {
	var presence PresencePayload
	if err := json.Unmarshal(msg.Payload, &presence); err != nil {
		slog.Warn("invalid presence payload", "error", err)
		return
	}

	presence.DisplayName = sender.DisplayName

	room := h.room(sender.SessionID)
	if room == nil {
		return
	}

	room.presence.Update(sender.ClientID, &presence)

	// Broadcast to other clients in room
	outMsg := newMessage(TypePresenceUpdate, presence)
	outMsg.UserID = sender.UserID
	outMsg.ClientID = sender.ClientID
	h.broadcastToRoom(sender.SessionID, outMsg, sender.ClientID)
}

func (h *Hub) handleOpSubmit(sender *Client, msg *Message) {
	var submit OperationSubmitPayload
	if err := json.Unmarshal(msg.Payload, &submit); err != nil {
		slog.Warn("invalid op payload", "error", err, "user", sender.UserID)
		sender.Send(newMessage(TypeOpNack, OperationNackPayload{Reason: "invalid payload"}))
		return
	}
	op := submit.Operation

	room := h.room(sender.SessionID)
	if room == nil {
		return
	}

	res, seq, err := room.state.ApplyOperation(op, func() []int {
		return room.presence.Selection(sender.ClientID)
	})
	if err != nil {
		slog.Debug("operation rejected", "op", op.Type, "error", err, "user", sender.UserID)
		sender.Send(newMessage(TypeOpNack, OperationNackPayload{
			OperationID: op.ID,
			Reason:      err.Error(),
		}))
		return
	}

	if res.removed != nil {
		h.publishPresence(room)
	}

	ack := newMessage(TypeOpAck, OperationAckPayload{
		OperationID:     op.ID,
		ServerSeq:       seq,
		ServerTimestamp: GetServerTimestamp(),
		Index:           res.index,
		Changed:         res.changed,
		Transforms:      res.transforms,
	})
	ack.Seq = seq
	sender.Send(ack)

	broadcast := newMessage(TypeOpBroadcast, OperationBroadcastPayload{
		Operation:  op,
		UserID:     sender.UserID,
		ServerSeq:  seq,
		Transforms: res.transforms,
	})
	broadcast.Seq = seq
	h.broadcastToRoom(sender.SessionID, broadcast, sender.ClientID)
	h.broadcastToRoom(sender.SessionID, frameMessage(room), "")
}

// publishPresence sends the room's presence state after selections were
// shifted by a removal.
func (h *Hub) publishPresence(room *Room) {
	if msg := room.presence.StateMessage(); msg != nil {
		h.broadcastToRoom(room.sessionID, msg, "")
	}
}

// onSessionChange runs under the session service's lock and must not call
// back into it.
func (h *Hub) onSessionChange(c session.Change) {
	room := h.room(c.SessionID)
	if room == nil {
		return
	}

	if c.Deleted {
		h.broadcastToRoom(c.SessionID, newMessage(TypeSessionClosed, ErrorPayload{Message: "session deleted"}), "")
		h.mu.RLock()
		for _, client := range room.clients {
			client.Close("session deleted")
		}
		h.mu.RUnlock()
		return
	}

	if c.Removed != nil {
		h.publishPresence(room)
	}
	h.broadcastToRoom(c.SessionID, frameMessage(room), "")
}

func frameMessage(room *Room) *Message {
	var msg *Message
	room.state.session.Do(func(e *engine.Engine) error {
		msg = newMessage(TypeFrame, FramePayload{
			Revision: e.Revision(),
			Commands: append([]engine.DrawCommand{}, e.Render()...),
		})
		return nil
	})
	return msg
}

// broadcastToRoom sends while holding the read lock so removeClient cannot
// close a send channel mid-broadcast. Send never blocks.
func (h *Hub) broadcastToRoom(sessionID string, msg *Message, excludeClientID string) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	room, ok := h.rooms[sessionID]
	if !ok {
		return
	}

	for _, c := range room.clients {
		if c.ClientID != excludeClientID {
			c.Send(msg)
		}
	}
}
