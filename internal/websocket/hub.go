package websocket

import (
	"context"
	"encoding/json"
	"sync"

	"mitr-be/internal/model"
	"mitr-be/internal/pkg/logger"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	clusterChannel = "cluster_events"

	FrameNotification = "notification"
	FrameRiskAlert    = "risk_alert"
)

const (
	targetUser      = "user"
	targetBroadcast = "broadcast"
	targetRoom      = "room"
	targetRoomAlert = "room_alert"
)

// Frame is the JSON envelope written to every socket.
type Frame struct {
	Type string      `json:"type"`
	Room string      `json:"room,omitempty"`
	Data interface{} `json:"data"`
}

// clusterMessage is what instances exchange over redis. Origin lets an
// instance skip its own publications, which it has already delivered.
type clusterMessage struct {
	Origin  string          `json:"origin"`
	Target  string          `json:"target"`
	UserID  string          `json:"user_id,omitempty"`
	Room    string          `json:"room,omitempty"`
	Message json.RawMessage `json:"message"`
}

// Hub tracks two kinds of sockets: per-user notification streams and
// per-room group chat subscriptions. Delivery never blocks; a client whose
// buffer is full is dropped.
type Hub struct {
	users map[uuid.UUID]map[*Client]struct{}
	rooms map[string]map[*Client]struct{}
	mu    sync.RWMutex

	register   chan *Client
	unregister chan *Client
	done       chan struct{}

	rdb    *redis.Client
	origin string
	logger logger.ILogger
}

func NewHub(rdb *redis.Client, log logger.ILogger) *Hub {
	return &Hub{
		users:      make(map[uuid.UUID]map[*Client]struct{}),
		rooms:      make(map[string]map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		rdb:        rdb,
		origin:     uuid.NewString(),
		logger:     log,
	}
}

// Run owns registration until ctx is cancelled, then closes every client.
func (h *Hub) Run(ctx context.Context) {
	if h.rdb != nil {
		go h.subscribeToRedis(ctx)
	}

	for {
		select {
		case client := <-h.register:
			h.add(client)
		case client := <-h.unregister:
			h.remove(client)
		case <-ctx.Done():
			close(h.done)
			h.closeAll()
			return
		}
	}
}

// Register hands a client to the Run loop. After Run has stopped the client
// is closed immediately.
func (h *Hub) Register(c *Client) {
	select {
	case h.register <- c:
	case <-h.done:
		c.close()
	}
}

func (h *Hub) Unregister(c *Client) {
	select {
	case h.unregister <- c:
	case <-h.done:
	}
}

func (h *Hub) add(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if c.Room != "" {
		if h.rooms[c.Room] == nil {
			h.rooms[c.Room] = make(map[*Client]struct{})
		}
		h.rooms[c.Room][c] = struct{}{}
		h.logger.Debug("Hub", "Room subscriber registered", map[string]interface{}{"user_id": c.UserID, "room": c.Room})
		return
	}

	if h.users[c.UserID] == nil {
		h.users[c.UserID] = make(map[*Client]struct{})
	}
	h.users[c.UserID][c] = struct{}{}
	h.logger.Debug("Hub", "Client registered", map[string]interface{}{"user_id": c.UserID})
}

// remove is idempotent; the send channel is closed exactly once.
func (h *Hub) remove(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if c.Room != "" {
		if set, ok := h.rooms[c.Room]; ok {
			delete(set, c)
			if len(set) == 0 {
				delete(h.rooms, c.Room)
			}
		}
	} else if set, ok := h.users[c.UserID]; ok {
		delete(set, c)
		if len(set) == 0 {
			delete(h.users, c.UserID)
		}
	}
	c.close()
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, set := range h.users {
		for c := range set {
			c.close()
		}
	}
	for _, set := range h.rooms {
		for c := range set {
			c.close()
		}
	}
	h.users = make(map[uuid.UUID]map[*Client]struct{})
	h.rooms = make(map[string]map[*Client]struct{})
}

// deliver pushes data to the clients picked by pick, then drops the slow
// ones outside the read lock.
func (h *Hub) deliver(pick func() []*Client, data []byte) {
	h.mu.RLock()
	targets := pick()
	var slow []*Client
	for _, c := range targets {
		if !c.trySend(data) {
			slow = append(slow, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range slow {
		h.logger.Warn("Hub", "Client send buffer full, dropping connection", map[string]interface{}{"user_id": c.UserID, "room": c.Room})
		h.remove(c)
	}
}

func (h *Hub) userClients(userID uuid.UUID) func() []*Client {
	return func() []*Client {
		out := make([]*Client, 0, len(h.users[userID]))
		for c := range h.users[userID] {
			out = append(out, c)
		}
		return out
	}
}

func (h *Hub) allUserClients() []*Client {
	var out []*Client
	for _, set := range h.users {
		for c := range set {
			out = append(out, c)
		}
	}
	return out
}

func (h *Hub) roomClients(room string, unmutedOnly bool) func() []*Client {
	return func() []*Client {
		out := make([]*Client, 0, len(h.rooms[room]))
		for c := range h.rooms[room] {
			if unmutedOnly && c.Muted {
				continue
			}
			out = append(out, c)
		}
		return out
	}
}

func (h *Hub) publishCluster(msg clusterMessage) {
	if h.rdb == nil {
		return
	}
	msg.Origin = h.origin
	payload, err := json.Marshal(msg)
	if err != nil {
		return
	}
	if err := h.rdb.Publish(context.Background(), clusterChannel, payload).Err(); err != nil {
		h.logger.Warn("Hub", "Failed to publish cluster event", map[string]interface{}{"error": err.Error()})
	}
}

func encode(frame Frame) []byte {
	data, _ := json.Marshal(frame)
	return data
}

// Send delivers a notification to every socket the user has open.
func (h *Hub) Send(userID uuid.UUID, notification model.Notification) {
	data := encode(Frame{Type: FrameNotification, Data: notification})
	h.deliver(h.userClients(userID), data)
	h.publishCluster(clusterMessage{Target: targetUser, UserID: userID.String(), Message: data})
}

// Broadcast delivers a notification to every notification socket.
func (h *Hub) Broadcast(notification model.Notification) {
	data := encode(Frame{Type: FrameNotification, Data: notification})
	h.deliver(h.allUserClients, data)
	h.publishCluster(clusterMessage{Target: targetBroadcast, Message: data})
}

// PublishRoom sends a room change to all of the room's subscribers.
func (h *Hub) PublishRoom(room, eventType string, payload interface{}) {
	data := encode(Frame{Type: eventType, Room: room, Data: payload})
	h.deliver(h.roomClients(room, false), data)
	h.publishCluster(clusterMessage{Target: targetRoom, Room: room, Message: data})
}

// PublishRoomAlert skips subscribers that joined with groups muted.
func (h *Hub) PublishRoomAlert(room string, payload interface{}) {
	data := encode(Frame{Type: FrameRiskAlert, Room: room, Data: payload})
	h.deliver(h.roomClients(room, true), data)
	h.publishCluster(clusterMessage{Target: targetRoomAlert, Room: room, Message: data})
}

// ConnectedUsers is the number of users with a notification socket open.
func (h *Hub) ConnectedUsers() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.users)
}

func (h *Hub) subscribeToRedis(ctx context.Context) {
	pubsub := h.rdb.Subscribe(ctx, clusterChannel)
	defer pubsub.Close()

	h.consumeCluster(ctx, pubsub.Channel())
}

// consumeCluster returns when ctx is cancelled or the channel closes.
func (h *Hub) consumeCluster(ctx context.Context, ch <-chan *redis.Message) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			h.handleCluster([]byte(msg.Payload))
		}
	}
}

func (h *Hub) handleCluster(raw []byte) {
	var msg clusterMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		h.logger.Warn("Hub", "Malformed cluster event", map[string]interface{}{"error": err.Error()})
		return
	}
	if msg.Origin == h.origin {
		return
	}

	switch msg.Target {
	case targetUser:
		uid, err := uuid.Parse(msg.UserID)
		if err != nil {
			return
		}
		h.deliver(h.userClients(uid), msg.Message)
	case targetBroadcast:
		h.deliver(h.allUserClients, msg.Message)
	case targetRoom:
		h.deliver(h.roomClients(msg.Room, false), msg.Message)
	case targetRoomAlert:
		h.deliver(h.roomClients(msg.Room, true), msg.Message)
	}
}
