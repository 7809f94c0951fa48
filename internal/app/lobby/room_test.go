package lobby

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoom_MemberLifecycle(t *testing.T) {
	owner := User{ID: uuid.New(), Name: "James", ConnectionID: "conn-1"}
	room := NewRoom(uuid.New(), "TajnyPokoj", "haslo", owner)

	assert.Equal(t, 1, room.MemberCount())
	assert.True(t, room.HasMember(owner.ID))
	assert.False(t, room.IsFull())

	joiner := User{ID: uuid.New(), Name: "Jacuch", ConnectionID: "conn-2"}
	room.addMember(joiner)

	assert.Equal(t, 2, room.MemberCount())
	assert.True(t, room.HasMember(joiner.ID))

	members := room.Members()
	require.Len(t, members, 2)
	assert.Equal(t, owner.ID, members[0].ID, "owner joins first")

	room.removeMember(joiner.ID)
	assert.Equal(t, 1, room.MemberCount())
	assert.False(t, room.HasMember(joiner.ID))

	// Removing an unknown member is a no-op.
	room.removeMember(uuid.New())
	assert.Equal(t, 1, room.MemberCount())
}

func TestRoom_MembersReturnsSnapshot(t *testing.T) {
	owner := User{ID: uuid.New(), Name: "James"}
	room := NewRoom(uuid.New(), "TajnyPokoj", "haslo", owner)

	snapshot := room.Members()
	room.addMember(User{ID: uuid.New(), Name: "Jacuch"})

	assert.Len(t, snapshot, 1, "snapshot must not see later mutations")
	assert.Equal(t, 2, room.MemberCount())
}

func TestRoom_IsFull(t *testing.T) {
	owner := User{ID: uuid.New(), Name: "James"}
	room := NewRoom(uuid.New(), "TajnyPokoj", "haslo", owner)

	for i := 1; i < RoomCapacity; i++ {
		room.addMember(User{ID: uuid.New(), Name: "Gracz"})
	}

	assert.True(t, room.IsFull())
	assert.Equal(t, RoomCapacity, room.MemberCount())
}
