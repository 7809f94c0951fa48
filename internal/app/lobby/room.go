/*
Package lobby contains the shared game lobby state: users, rooms, and the
registry that owns them.

This file defines the Room struct, one game session with an owner, a password,
and a capacity-bounded member list.
*/
package lobby

import (
	"sync"

	"github.com/google/uuid"
)

// RoomCapacity is the maximum number of members a room can hold, owner included.
const RoomCapacity = 4

// RoomStatus describes the lifecycle state of a room.
type RoomStatus string

const (
	// StatusOpen means the room accepts new members.
	StatusOpen RoomStatus = "open"
)

// Room represents a single game session.
// Its identity fields are immutable after creation; the member list is guarded
// by an internal lock, and all validate-then-mutate sequences additionally run
// under the registry lock, which is what makes cross-room invariants hold.
type Room struct {
	// ID is the server-generated room identifier.
	ID uuid.UUID

	// Name is unique among registered rooms.
	Name string

	// Password is the opaque, format-validated room password.
	Password string

	// Owner is the creating user. It never changes; the owner leaving closes
	// the room.
	Owner User

	// Status is the lifecycle state of the room.
	Status RoomStatus

	// mu protects members.
	mu sync.RWMutex

	// members holds the current member list in join order, owner first.
	members []User
}

// NewRoom constructs an open room with the owner as its sole member.
func NewRoom(id uuid.UUID, name, password string, owner User) *Room {
	return &Room{
		ID:       id,
		Name:     name,
		Password: password,
		Owner:    owner,
		Status:   StatusOpen,
		members:  []User{owner},
	}
}

// MemberCount returns the current number of members.
func (r *Room) MemberCount() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.members)
}

// IsFull reports whether the room has reached its capacity.
func (r *Room) IsFull() bool {
	return r.MemberCount() >= RoomCapacity
}

// HasMember reports whether the user identifier is a current member.
func (r *Room) HasMember(userID uuid.UUID) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, m := range r.members {
		if m.ID == userID {
			return true
		}
	}
	return false
}

// Members returns a point-in-time copy of the member list in join order.
func (r *Room) Members() []User {
	r.mu.RLock()
	defer r.mu.RUnlock()

	snapshot := make([]User, len(r.members))
	copy(snapshot, r.members)
	return snapshot
}

// addMember appends a member. Capacity and membership invariants are checked
// by the registry before this is called.
func (r *Room) addMember(u User) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.members = append(r.members, u)
}

// removeMember drops the member with the given identifier, if present.
func (r *Room) removeMember(userID uuid.UUID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, m := range r.members {
		if m.ID == userID {
			r.members = append(r.members[:i], r.members[i+1:]...)
			return
		}
	}
}
