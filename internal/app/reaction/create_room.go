/*
Package reaction implements the inbound message dispatch layer.

This file defines the CreateRoom reaction, which registers a new room with the
requesting user as owner and sole member.
*/
package reaction

import (
	"gemhub/internal/app/lobby"
	"gemhub/internal/app/protocol"
	"gemhub/internal/pkg/errs"
	"gemhub/internal/pkg/ident"

	"github.com/google/uuid"
)

// CreateRoom reacts to CREATE_ROOM messages.
//
// Example request:
//
//	{
//	    "messageContextId": "80bdc250-5365-4caf-8dd9-a33e709a0116",
//	    "type": "CREATE_ROOM",
//	    "data": {
//	        "userDTO":  {"uuid": "f8c3de3d-1fea-4d7c-a8b0-29f63c4c3454", "name": "James"},
//	        "roomDTO":  {"name": "TajnyPokoj", "password": "kjashjkasd"}
//	    }
//	}
type CreateRoom struct{}

type createRoomUserDTO struct {
	UUID string `json:"uuid" validate:"required"`
	Name string `json:"name" validate:"required"`
}

type createRoomRoomDTO struct {
	Name     string `json:"name" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type createRoomData struct {
	UserDTO createRoomUserDTO `json:"userDTO" validate:"required"`
	RoomDTO createRoomRoomDTO `json:"roomDTO" validate:"required"`
}

type createRoomUserResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type createRoomRoomResponse struct {
	Name string `json:"name"`
}

type createRoomResponseData struct {
	User createRoomUserResponse `json:"user"`
	Room createRoomRoomResponse `json:"room"`
}

// Type returns the message type tag this reaction is registered under.
func (CreateRoom) Type() string {
	return protocol.TypeCreateRoom
}

// React validates the payload, registers the room atomically, and answers the
// requesting connection with a CREATE_ROOM_RESPONSE.
func (CreateRoom) React(env *Env) {
	responseType := protocol.ResponseType(protocol.TypeCreateRoom)

	var data createRoomData
	if cerr := env.Decode(&data); cerr != nil {
		env.Fail(responseType, cerr)
		return
	}

	userID, cerr := validateCreateRoom(&data)
	if cerr != nil {
		env.Fail(responseType, cerr)
		return
	}

	owner := lobby.User{
		ID:           userID,
		Name:         data.UserDTO.Name,
		ConnectionID: env.ConnectionID,
	}

	room, cerr := env.Registry.CreateRoom(owner, data.RoomDTO.Name, data.RoomDTO.Password)
	if cerr != nil {
		env.Fail(responseType, cerr)
		return
	}

	env.Reply(responseType, createRoomResponseData{
		User: createRoomUserResponse{ID: owner.ID.String(), Name: owner.Name},
		Room: createRoomRoomResponse{Name: room.Name},
	})
}

// validateCreateRoom runs the format checks in their contractual order; the
// first failure wins. Registry-level invariants (name uniqueness, single
// ownership, single membership) are checked inside the registry's critical
// section.
func validateCreateRoom(data *createRoomData) (uuid.UUID, *errs.CustomError) {
	userID, ok := ident.ParseID(data.UserDTO.UUID)
	if !ok {
		return uuid.UUID{}, errs.NewError(errs.ErrInvalidUUID)
	}

	if !ident.IsValidText(data.UserDTO.Name) {
		return uuid.UUID{}, invalidText("username")
	}

	if !ident.IsValidText(data.RoomDTO.Name) {
		return uuid.UUID{}, invalidText("room name")
	}

	if !ident.IsValidText(data.RoomDTO.Password) {
		return uuid.UUID{}, invalidText("room password")
	}

	return userID, nil
}
