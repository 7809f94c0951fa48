/*
Package lobby contains the shared game lobby state: users, rooms, and the
registry that owns them.

This file defines the Registry struct, the single owner of all User and Room
records. Every validate-then-mutate sequence that spans registry state runs as
one critical section under the registry lock, so room-name uniqueness,
single ownership, single membership and room capacity hold against concurrent
reactions. Reactions never keep references into the registry beyond one call;
they receive value copies to respond with.
*/
package lobby

import (
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"gemhub/internal/pkg/errs"
	"gemhub/internal/pkg/ident"
	"gemhub/internal/pkg/logx"
)

// Registry is the shared, concurrently-accessed store of all known users and rooms.
type Registry struct {
	// users maps user identifier to the user record, keyed per connected session.
	users map[uuid.UUID]*User

	// rooms maps room identifier to the room. Name uniqueness is derived by
	// scanning; the room count stays small enough that a name index is not worth
	// carrying.
	rooms map[uuid.UUID]*Room

	// mu serializes all validate-then-mutate sequences.
	mu sync.RWMutex

	// structured logger with Registry context.
	logger zerolog.Logger
}

// Departure describes the outcome of a user leaving a room, carrying everything
// a caller needs to notify the affected connections after the lock is released.
type Departure struct {
	// RoomID identifies the room that was left.
	RoomID uuid.UUID

	// Leaver is the user that left.
	Leaver User

	// Recipients is the member list at the moment of leaving, leaver included.
	Recipients []User

	// Closed reports whether the departure closed the room (owner left or the
	// room emptied).
	Closed bool
}

// NewRegistry constructs an empty Registry.
func NewRegistry() *Registry {
	registryLogger := logx.Logger().With().Str("component", "Registry").Logger()

	return &Registry{
		users:  make(map[uuid.UUID]*User),
		rooms:  make(map[uuid.UUID]*Room),
		logger: registryLogger,
	}
}

// AddUser registers a user record. An identifier that is currently a member of
// a room cannot be re-registered; an identifier that is known but roomless is
// refreshed in place, which is what a reconnecting client looks like.
func (g *Registry) AddUser(u User) *errs.CustomError {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.addUserLocked(u)
}

// AddRoom registers a room. Both the room identifier and the room name must be
// unused.
func (g *Registry) AddRoom(room *Room) *errs.CustomError {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.rooms[room.ID]; ok {
		return errs.NewError(errs.ErrRoomAlreadyExists)
	}
	if g.roomByNameLocked(room.Name) != nil {
		return errs.NewError(errs.ErrRoomAlreadyExists)
	}

	g.rooms[room.ID] = room
	return nil
}

// GetUser returns a copy of the user record for the given identifier.
func (g *Registry) GetUser(userID uuid.UUID) (User, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	u, ok := g.users[userID]
	if !ok {
		return User{}, false
	}
	return *u, true
}

// GetRoom returns the room with the given identifier.
func (g *Registry) GetRoom(roomID uuid.UUID) (*Room, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	room, ok := g.rooms[roomID]
	return room, ok
}

// GetRoomByName returns the room with the given name.
func (g *Registry) GetRoomByName(name string) (*Room, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	room := g.roomByNameLocked(name)
	return room, room != nil
}

// AllRooms returns a point-in-time snapshot of all registered rooms.
func (g *Registry) AllRooms() []*Room {
	g.mu.RLock()
	defer g.mu.RUnlock()

	rooms := make([]*Room, 0, len(g.rooms))
	for _, room := range g.rooms {
		rooms = append(rooms, room)
	}
	return rooms
}

// CreateRoom atomically checks the creation invariants and registers a new room
// with the requesting user as owner and sole member.
// Check order is part of the client contract: room-name uniqueness, then
// single ownership, then single membership.
func (g *Registry) CreateRoom(owner User, name, password string) (*Room, *errs.CustomError) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.roomByNameLocked(name) != nil {
		return nil, errs.NewError(errs.ErrRoomAlreadyExists)
	}

	if owned := g.roomOwnedByLocked(owner.ID); owned != nil {
		return nil, errs.NewError(errs.ErrAlreadyAnOwner, owned.Name)
	}

	if g.roomWithMemberLocked(owner.ID) != nil {
		return nil, errs.NewError(errs.ErrUserAlreadyInRoom)
	}

	if cerr := g.addUserLocked(owner); cerr != nil {
		return nil, cerr
	}

	room := NewRoom(ident.NewID(), name, password, owner)
	g.rooms[room.ID] = room

	g.logger.Info().
		Str("room_id", room.ID.String()).
		Str("room_name", room.Name).
		Str("owner_id", owner.ID.String()).
		Msg("Room created.")

	return room, nil
}

// JoinRoom atomically checks the join invariants and adds the user to the room.
// It returns the room and the member list after the join, for broadcasting.
// Check order mirrors CreateRoom's contract: existence, then capacity, then
// single membership.
func (g *Registry) JoinRoom(roomID uuid.UUID, joiner User) (*Room, []User, *errs.CustomError) {
	g.mu.Lock()
	defer g.mu.Unlock()

	room, ok := g.rooms[roomID]
	if !ok {
		return nil, nil, errs.NewError(errs.ErrRoomDoesntExist)
	}

	if room.IsFull() {
		return nil, nil, errs.NewError(errs.ErrRoomFull)
	}

	if _, known := g.users[joiner.ID]; known {
		if g.roomWithMemberLocked(joiner.ID) != nil {
			return nil, nil, errs.NewError(errs.ErrUserAlreadyInRoom)
		}
	}

	if cerr := g.addUserLocked(joiner); cerr != nil {
		return nil, nil, cerr
	}

	room.addMember(joiner)

	g.logger.Info().
		Str("room_id", room.ID.String()).
		Str("user_id", joiner.ID.String()).
		Int("member_count", room.MemberCount()).
		Msg("User joined room.")

	return room, room.Members(), nil
}

// LeaveRoom atomically removes the user from its room and from the registry.
// The owner leaving closes the room and evicts every remaining member, freeing
// their identifiers for reuse.
func (g *Registry) LeaveRoom(userID uuid.UUID) (*Departure, *errs.CustomError) {
	g.mu.Lock()
	defer g.mu.Unlock()

	u, ok := g.users[userID]
	if !ok {
		return nil, errs.NewError(errs.ErrNotInRoom)
	}

	room := g.roomWithMemberLocked(userID)
	if room == nil {
		return nil, errs.NewError(errs.ErrNotInRoom)
	}

	return g.departLocked(*u, room), nil
}

// Disconnect removes the user bound to the given connection, if any, and frees
// its room membership. It returns the departure for broadcasting when the user
// was in a room, and reports whether a user was removed at all.
func (g *Registry) Disconnect(connectionID string) (*Departure, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	var u *User
	for _, candidate := range g.users {
		if candidate.ConnectionID == connectionID {
			u = candidate
			break
		}
	}
	if u == nil {
		return nil, false
	}

	room := g.roomWithMemberLocked(u.ID)
	if room == nil {
		delete(g.users, u.ID)
		g.logger.Info().Str("user_id", u.ID.String()).Msg("Roomless user removed on disconnect.")
		return nil, true
	}

	return g.departLocked(*u, room), true
}

// departLocked performs the membership mutation for a leaving user.
// Caller must hold the write lock.
func (g *Registry) departLocked(leaver User, room *Room) *Departure {
	departure := &Departure{
		RoomID:     room.ID,
		Leaver:     leaver,
		Recipients: room.Members(),
	}

	if room.Owner.ID == leaver.ID {
		// Owner departure closes the room and evicts everyone.
		for _, m := range departure.Recipients {
			delete(g.users, m.ID)
		}
		delete(g.rooms, room.ID)
		departure.Closed = true

		g.logger.Info().
			Str("room_id", room.ID.String()).
			Str("owner_id", leaver.ID.String()).
			Msg("Owner left. Room closed.")

		return departure
	}

	room.removeMember(leaver.ID)
	delete(g.users, leaver.ID)

	if room.MemberCount() == 0 {
		delete(g.rooms, room.ID)
		departure.Closed = true
	}

	g.logger.Info().
		Str("room_id", room.ID.String()).
		Str("user_id", leaver.ID.String()).
		Int("member_count", room.MemberCount()).
		Msg("User left room.")

	return departure
}

// addUserLocked inserts or refreshes a user record. Caller must hold the write lock.
func (g *Registry) addUserLocked(u User) *errs.CustomError {
	if _, known := g.users[u.ID]; known {
		if g.roomWithMemberLocked(u.ID) != nil {
			return errs.NewError(errs.ErrUserAlreadyInRoom)
		}
	}

	stored := u
	g.users[u.ID] = &stored
	return nil
}

// roomByNameLocked scans for a room with the given name. Caller must hold at
// least the read lock.
func (g *Registry) roomByNameLocked(name string) *Room {
	for _, room := range g.rooms {
		if room.Name == name {
			return room
		}
	}
	return nil
}

// roomOwnedByLocked scans for a room owned by the given user. Caller must hold
// at least the read lock.
func (g *Registry) roomOwnedByLocked(userID uuid.UUID) *Room {
	for _, room := range g.rooms {
		if room.Owner.ID == userID {
			return room
		}
	}
	return nil
}

// roomWithMemberLocked scans for a room that the given user is a member of.
// Caller must hold at least the read lock.
func (g *Registry) roomWithMemberLocked(userID uuid.UUID) *Room {
	for _, room := range g.rooms {
		if room.HasMember(userID) {
			return room
		}
	}
	return nil
}
