package realtime

import (
	"sync"

	"marketchat/internal/infrastructure/metrics"
)

// Registry tracks socket membership per room. Rooms are ephemeral: created on
// first join, discarded when the last member leaves. Room ids come straight
// from the connection URL; the registry does not know or care whether they
// map to a stored conversation.
type Registry struct {
	mu        sync.RWMutex
	rooms     map[string]map[string]*Connection // roomID -> connectionID -> connection
	connRooms map[string]map[string]struct{}    // connectionID -> set of roomIDs
}

// NewRegistry constructs an initialized Registry.
func NewRegistry() *Registry {
	return &Registry{
		rooms:     make(map[string]map[string]*Connection),
		connRooms: make(map[string]map[string]struct{}),
	}
}

// Join adds the connection as a member of the room.
func (g *Registry) Join(roomID string, conn *Connection) {
	g.mu.Lock()
	room := g.rooms[roomID]
	if room == nil {
		room = make(map[string]*Connection)
		g.rooms[roomID] = room
	}
	room[conn.ID] = conn

	memberships := g.connRooms[conn.ID]
	if memberships == nil {
		memberships = make(map[string]struct{})
		g.connRooms[conn.ID] = memberships
	}
	memberships[roomID] = struct{}{}
	g.mu.Unlock()
}

// Leave removes the connection from the room.
func (g *Registry) Leave(roomID string, conn *Connection) {
	g.mu.Lock()
	g.leaveLocked(roomID, conn.ID)
	g.mu.Unlock()
}

// Detach removes the connection from every room it joined. Called on
// disconnect so no orphaned membership entries survive the socket.
func (g *Registry) Detach(conn *Connection) {
	g.mu.Lock()
	for roomID := range g.connRooms[conn.ID] {
		g.leaveLocked(roomID, conn.ID)
	}
	delete(g.connRooms, conn.ID)
	g.mu.Unlock()
}

// Broadcast writes payload to every member of the room, the sender included.
// Delivery is best-effort: a member whose buffer is full is dropped without
// affecting the others. Returns the number of successful deliveries.
func (g *Registry) Broadcast(roomID string, payload []byte) int {
	g.mu.RLock()
	room := g.rooms[roomID]
	members := make([]*Connection, 0, len(room))
	for _, conn := range room {
		members = append(members, conn)
	}
	g.mu.RUnlock()

	if len(members) == 0 {
		return 0
	}

	metrics.RoomBroadcasts.Inc()
	delivered := 0
	for _, conn := range members {
		if err := conn.Send(payload); err == nil {
			delivered++
		}
	}
	metrics.RoomDeliveries.Add(float64(delivered))
	return delivered
}

// Members reports the current size of a room.
func (g *Registry) Members(roomID string) int {
	g.mu.RLock()
	n := len(g.rooms[roomID])
	g.mu.RUnlock()
	return n
}

// Close terminates all tracked connections and clears registry state.
func (g *Registry) Close() {
	g.mu.Lock()
	conns := make([]*Connection, 0, len(g.connRooms))
	seen := make(map[string]struct{}, len(g.connRooms))
	for _, room := range g.rooms {
		for id, conn := range room {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			conns = append(conns, conn)
		}
	}
	g.rooms = make(map[string]map[string]*Connection)
	g.connRooms = make(map[string]map[string]struct{})
	g.mu.Unlock()

	for _, conn := range conns {
		conn.Close(1001, "registry shutdown")
	}
}

func (g *Registry) leaveLocked(roomID string, connectionID string) {
	room := g.rooms[roomID]
	if room == nil {
		return
	}
	delete(room, connectionID)
	if len(room) == 0 {
		delete(g.rooms, roomID)
	}
	if memberships, ok := g.connRooms[connectionID]; ok {
		delete(memberships, roomID)
		if len(memberships) == 0 {
			delete(g.connRooms, connectionID)
		}
	}
}
