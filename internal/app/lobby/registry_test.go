package lobby_test

import (
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gemhub/internal/app/lobby"
	"gemhub/internal/pkg/errs"
)

func newUser(name string) lobby.User {
	return lobby.User{
		ID:           uuid.New(),
		Name:         name,
		ConnectionID: uuid.NewString(),
	}
}

func TestCreateRoom_OwnerIsSoleMember(t *testing.T) {
	g := lobby.NewRegistry()
	owner := newUser("James")

	room, cerr := g.CreateRoom(owner, "TajnyPokoj", "kjashjkasd")
	require.Nil(t, cerr)

	assert.Equal(t, "TajnyPokoj", room.Name)
	assert.Equal(t, owner.ID, room.Owner.ID)
	assert.Equal(t, 1, room.MemberCount())
	assert.True(t, room.HasMember(owner.ID))
	assert.Equal(t, lobby.StatusOpen, room.Status)

	stored, ok := g.GetUser(owner.ID)
	require.True(t, ok)
	assert.Equal(t, owner.ConnectionID, stored.ConnectionID)

	byName, ok := g.GetRoomByName("TajnyPokoj")
	require.True(t, ok)
	assert.Equal(t, room.ID, byName.ID)
}

func TestCreateRoom_DuplicateName(t *testing.T) {
	g := lobby.NewRegistry()

	_, cerr := g.CreateRoom(newUser("James"), "TajnyPokoj", "kjashjkasd")
	require.Nil(t, cerr)

	_, cerr = g.CreateRoom(newUser("Jacuch"), "TajnyPokoj", "inne haslo")
	require.NotNil(t, cerr)
	assert.Equal(t, errs.ErrRoomAlreadyExists, cerr.Code)

	// Registry unchanged: still exactly one room.
	assert.Len(t, g.AllRooms(), 1)
}

func TestCreateRoom_AlreadyAnOwner(t *testing.T) {
	g := lobby.NewRegistry()
	owner := newUser("James")

	_, cerr := g.CreateRoom(owner, "PokojJeden", "haslo jeden")
	require.Nil(t, cerr)

	_, cerr = g.CreateRoom(owner, "PokojDwa", "haslo dwa")
	require.NotNil(t, cerr)
	assert.Equal(t, errs.ErrAlreadyAnOwner, cerr.Code)
	assert.Contains(t, cerr.Message, "PokojJeden")

	assert.Len(t, g.AllRooms(), 1)
}

func TestCreateRoom_MemberElsewhere(t *testing.T) {
	g := lobby.NewRegistry()

	room, cerr := g.CreateRoom(newUser("James"), "TajnyPokoj", "kjashjkasd")
	require.Nil(t, cerr)

	joiner := newUser("Jacuch")
	_, _, cerr = g.JoinRoom(room.ID, joiner)
	require.Nil(t, cerr)

	// A room member may not open a room of their own.
	_, cerr = g.CreateRoom(joiner, "DrugiPokoj", "haslo")
	require.NotNil(t, cerr)
	assert.Equal(t, errs.ErrUserAlreadyInRoom, cerr.Code)
}

func TestJoinRoom_BroadcastListIncludesJoiner(t *testing.T) {
	g := lobby.NewRegistry()
	owner := newUser("James")

	room, cerr := g.CreateRoom(owner, "TajnyPokoj", "kjashjkasd")
	require.Nil(t, cerr)

	joiner := newUser("Jacuch")
	joined, members, cerr := g.JoinRoom(room.ID, joiner)
	require.Nil(t, cerr)

	assert.Equal(t, room.ID, joined.ID)
	assert.Equal(t, 2, joined.MemberCount())

	require.Len(t, members, 2)
	assert.Equal(t, owner.ID, members[0].ID)
	assert.Equal(t, joiner.ID, members[1].ID)
}

func TestJoinRoom_RoomDoesntExist(t *testing.T) {
	g := lobby.NewRegistry()

	_, _, cerr := g.JoinRoom(uuid.New(), newUser("Jacuch"))
	require.NotNil(t, cerr)
	assert.Equal(t, errs.ErrRoomDoesntExist, cerr.Code)
}

func TestJoinRoom_RoomFull(t *testing.T) {
	g := lobby.NewRegistry()

	room, cerr := g.CreateRoom(newUser("James"), "TajnyPokoj", "kjashjkasd")
	require.Nil(t, cerr)

	for i := 0; i < lobby.RoomCapacity-1; i++ {
		_, _, cerr := g.JoinRoom(room.ID, newUser(fmt.Sprintf("Gracz %d", i)))
		require.Nil(t, cerr)
	}
	require.Equal(t, lobby.RoomCapacity, room.MemberCount())

	_, _, cerr = g.JoinRoom(room.ID, newUser("Spozniony"))
	require.NotNil(t, cerr)
	assert.Equal(t, errs.ErrRoomFull, cerr.Code)
	assert.Equal(t, lobby.RoomCapacity, room.MemberCount())
}

func TestJoinRoom_UserAlreadyInRoom(t *testing.T) {
	g := lobby.NewRegistry()

	first, cerr := g.CreateRoom(newUser("James"), "PokojJeden", "haslo jeden")
	require.Nil(t, cerr)
	second, cerr := g.CreateRoom(newUser("Marek"), "PokojDwa", "haslo dwa")
	require.Nil(t, cerr)

	joiner := newUser("Jacuch")
	_, _, cerr = g.JoinRoom(first.ID, joiner)
	require.Nil(t, cerr)

	_, _, cerr = g.JoinRoom(second.ID, joiner)
	require.NotNil(t, cerr)
	assert.Equal(t, errs.ErrUserAlreadyInRoom, cerr.Code)

	// Rejoining the same room is refused the same way.
	_, _, cerr = g.JoinRoom(first.ID, joiner)
	require.NotNil(t, cerr)
	assert.Equal(t, errs.ErrUserAlreadyInRoom, cerr.Code)
}

func TestAddUser_Semantics(t *testing.T) {
	g := lobby.NewRegistry()

	u := newUser("James")
	require.Nil(t, g.AddUser(u))

	// A roomless identifier is refreshed in place (reconnect).
	reconnected := u
	reconnected.ConnectionID = uuid.NewString()
	require.Nil(t, g.AddUser(reconnected))

	stored, ok := g.GetUser(u.ID)
	require.True(t, ok)
	assert.Equal(t, reconnected.ConnectionID, stored.ConnectionID)

	// An identifier that is a member of a room cannot be re-registered.
	room, cerr := g.CreateRoom(newUser("Marek"), "TajnyPokoj", "haslo")
	require.Nil(t, cerr)
	_, _, cerr = g.JoinRoom(room.ID, u)
	require.Nil(t, cerr)

	cerr = g.AddUser(u)
	require.NotNil(t, cerr)
	assert.Equal(t, errs.ErrUserAlreadyInRoom, cerr.Code)
}

func TestLeaveRoom_MemberLeaves(t *testing.T) {
	g := lobby.NewRegistry()
	owner := newUser("James")

	room, cerr := g.CreateRoom(owner, "TajnyPokoj", "haslo")
	require.Nil(t, cerr)

	joiner := newUser("Jacuch")
	_, _, cerr = g.JoinRoom(room.ID, joiner)
	require.Nil(t, cerr)

	departure, cerr := g.LeaveRoom(joiner.ID)
	require.Nil(t, cerr)

	assert.Equal(t, room.ID, departure.RoomID)
	assert.Equal(t, joiner.ID, departure.Leaver.ID)
	assert.False(t, departure.Closed)
	require.Len(t, departure.Recipients, 2)

	assert.Equal(t, 1, room.MemberCount())
	_, ok := g.GetUser(joiner.ID)
	assert.False(t, ok)

	// The freed identifier can join again.
	_, _, cerr = g.JoinRoom(room.ID, joiner)
	assert.Nil(t, cerr)
}

func TestLeaveRoom_OwnerClosesRoom(t *testing.T) {
	g := lobby.NewRegistry()
	owner := newUser("James")

	room, cerr := g.CreateRoom(owner, "TajnyPokoj", "haslo")
	require.Nil(t, cerr)

	joiner := newUser("Jacuch")
	_, _, cerr = g.JoinRoom(room.ID, joiner)
	require.Nil(t, cerr)

	departure, cerr := g.LeaveRoom(owner.ID)
	require.Nil(t, cerr)

	assert.True(t, departure.Closed)
	require.Len(t, departure.Recipients, 2)

	_, ok := g.GetRoom(room.ID)
	assert.False(t, ok)

	// Every member was evicted and freed.
	_, ok = g.GetUser(owner.ID)
	assert.False(t, ok)
	_, ok = g.GetUser(joiner.ID)
	assert.False(t, ok)
}

func TestLeaveRoom_NotInRoom(t *testing.T) {
	g := lobby.NewRegistry()

	_, cerr := g.LeaveRoom(uuid.New())
	require.NotNil(t, cerr)
	assert.Equal(t, errs.ErrNotInRoom, cerr.Code)
}

func TestDisconnect(t *testing.T) {
	g := lobby.NewRegistry()
	owner := newUser("James")

	room, cerr := g.CreateRoom(owner, "TajnyPokoj", "haslo")
	require.Nil(t, cerr)

	joiner := newUser("Jacuch")
	_, _, cerr = g.JoinRoom(room.ID, joiner)
	require.Nil(t, cerr)

	departure, removed := g.Disconnect(joiner.ConnectionID)
	require.True(t, removed)
	require.NotNil(t, departure)
	assert.Equal(t, joiner.ID, departure.Leaver.ID)
	assert.Equal(t, 1, room.MemberCount())

	// Unknown connections are a no-op.
	_, removed = g.Disconnect("no-such-connection")
	assert.False(t, removed)
}

func TestConcurrent_DuplicateRoomName(t *testing.T) {
	g := lobby.NewRegistry()

	const attempts = 50

	var (
		wg            sync.WaitGroup
		successCount  int32
		conflictCount int32
	)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			_, cerr := g.CreateRoom(newUser("Gracz"), "TajnyPokoj", "haslo")
			if cerr == nil {
				atomic.AddInt32(&successCount, 1)
				return
			}
			if cerr.Code == errs.ErrRoomAlreadyExists {
				atomic.AddInt32(&conflictCount, 1)
			}
		}()
	}

	wg.Wait()

	assert.Equal(t, int32(1), successCount)
	assert.Equal(t, int32(attempts-1), conflictCount)
	assert.Len(t, g.AllRooms(), 1)
}

func TestConcurrent_SingleOwnership(t *testing.T) {
	g := lobby.NewRegistry()
	owner := newUser("James")

	const attempts = 50

	var (
		wg           sync.WaitGroup
		successCount int32
	)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()

			_, cerr := g.CreateRoom(owner, fmt.Sprintf("Pokoj %d", n), "haslo")
			if cerr == nil {
				atomic.AddInt32(&successCount, 1)
			}
		}(i)
	}

	wg.Wait()

	assert.Equal(t, int32(1), successCount)

	owned := 0
	for _, room := range g.AllRooms() {
		if room.Owner.ID == owner.ID {
			owned++
		}
	}
	assert.Equal(t, 1, owned)
}

func TestConcurrent_CapacityCeiling(t *testing.T) {
	g := lobby.NewRegistry()

	room, cerr := g.CreateRoom(newUser("James"), "TajnyPokoj", "haslo")
	require.Nil(t, cerr)

	const joiners = 20

	var (
		wg        sync.WaitGroup
		joinCount int32
		fullCount int32
	)

	for i := 0; i < joiners; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()

			_, _, cerr := g.JoinRoom(room.ID, newUser(fmt.Sprintf("Gracz %d", n)))
			if cerr == nil {
				atomic.AddInt32(&joinCount, 1)
				return
			}
			if cerr.Code == errs.ErrRoomFull {
				atomic.AddInt32(&fullCount, 1)
			}
		}(i)
	}

	wg.Wait()

	assert.Equal(t, int32(lobby.RoomCapacity-1), joinCount)
	assert.Equal(t, int32(joiners-(lobby.RoomCapacity-1)), fullCount)
	assert.Equal(t, lobby.RoomCapacity, room.MemberCount())
}

func TestConcurrent_SingleMembership(t *testing.T) {
	g := lobby.NewRegistry()

	const rooms = 8

	roomIDs := make([]uuid.UUID, 0, rooms)
	for i := 0; i < rooms; i++ {
		room, cerr := g.CreateRoom(newUser(fmt.Sprintf("Wlasciciel %d", i)), fmt.Sprintf("Pokoj %d", i), "haslo")
		require.Nil(t, cerr)
		roomIDs = append(roomIDs, room.ID)
	}

	joiner := newUser("Jacuch")

	var (
		wg           sync.WaitGroup
		successCount int32
	)

	for _, roomID := range roomIDs {
		wg.Add(1)
		go func(id uuid.UUID) {
			defer wg.Done()

			_, _, cerr := g.JoinRoom(id, joiner)
			if cerr == nil {
				atomic.AddInt32(&successCount, 1)
			}
		}(roomID)
	}

	wg.Wait()

	assert.Equal(t, int32(1), successCount)

	memberships := 0
	for _, room := range g.AllRooms() {
		if room.HasMember(joiner.ID) {
			memberships++
		}
	}
	assert.Equal(t, 1, memberships)
}
