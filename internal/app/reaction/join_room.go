/*
Package reaction implements the inbound message dispatch layer.

This file defines the JoinRoom reaction, which adds a user to an existing room
and notifies every member.
*/
package reaction

import (
	"gemhub/internal/app/lobby"
	"gemhub/internal/app/protocol"
	"gemhub/internal/pkg/errs"
	"gemhub/internal/pkg/ident"

	"github.com/google/uuid"
)

// JoinRoom reacts to JOIN_ROOM messages.
//
// Example request:
//
//	{
//	    "messageContextId": "80bdc250-5365-4caf-8dd9-a33e709a0116",
//	    "type": "JOIN_ROOM",
//	    "data": {
//	        "userDTO": {"uuid": "f8c3de3d-1fea-4d7c-a8b0-29f63c4c3456", "name": "Jacuch"},
//	        "roomDTO": {"uuid": "494fdfda-aa14-42f3-9569-4cde39b1f63b"}
//	    }
//	}
type JoinRoom struct{}

type joinRoomUserDTO struct {
	UUID string `json:"uuid" validate:"required"`
	Name string `json:"name" validate:"required"`
}

type joinRoomRoomDTO struct {
	UUID string `json:"uuid" validate:"required"`
}

type joinRoomData struct {
	UserDTO joinRoomUserDTO `json:"userDTO" validate:"required"`
	RoomDTO joinRoomRoomDTO `json:"roomDTO" validate:"required"`
}

type joinRoomUserResponse struct {
	UUID string `json:"uuid"`
	Name string `json:"name"`
}

type joinRoomRoomResponse struct {
	UUID string `json:"uuid"`
}

type joinRoomResponseData struct {
	User joinRoomUserResponse `json:"user"`
	Room joinRoomRoomResponse `json:"room"`
}

// Type returns the message type tag this reaction is registered under.
func (JoinRoom) Type() string {
	return protocol.TypeJoinRoom
}

// React validates the payload, joins the room atomically, and broadcasts a
// JOIN_ROOM_RESPONSE to every member of the room, the joiner included.
// Failures go to the requesting connection only.
func (JoinRoom) React(env *Env) {
	responseType := protocol.ResponseType(protocol.TypeJoinRoom)

	var data joinRoomData
	if cerr := env.Decode(&data); cerr != nil {
		env.Fail(responseType, cerr)
		return
	}

	userID, roomID, cerr := validateJoinRoom(&data)
	if cerr != nil {
		env.Fail(responseType, cerr)
		return
	}

	joiner := lobby.User{
		ID:           userID,
		Name:         data.UserDTO.Name,
		ConnectionID: env.ConnectionID,
	}

	room, members, cerr := env.Registry.JoinRoom(roomID, joiner)
	if cerr != nil {
		env.Fail(responseType, cerr)
		return
	}

	env.Broadcast(responseType, joinRoomResponseData{
		User: joinRoomUserResponse{UUID: joiner.ID.String(), Name: joiner.Name},
		Room: joinRoomRoomResponse{UUID: room.ID.String()},
	}, members)
}

// validateJoinRoom runs the format checks in their contractual order.
// Existence, capacity and membership are checked inside the registry's
// critical section.
func validateJoinRoom(data *joinRoomData) (uuid.UUID, uuid.UUID, *errs.CustomError) {
	userID, ok := ident.ParseID(data.UserDTO.UUID)
	if !ok {
		return uuid.UUID{}, uuid.UUID{}, errs.NewError(errs.ErrInvalidUUID)
	}

	roomID, ok := ident.ParseID(data.RoomDTO.UUID)
	if !ok {
		return uuid.UUID{}, uuid.UUID{}, errs.NewError(errs.ErrInvalidUUID)
	}

	return userID, roomID, nil
}
