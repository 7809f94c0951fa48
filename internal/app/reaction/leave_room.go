/*
Package reaction implements the inbound message dispatch layer.

This file defines the LeaveRoom reaction, which removes a user from its room
and notifies the affected members. The same response shape is reused when a
connection closes without an explicit leave.
*/
package reaction

import (
	"gemhub/internal/app/lobby"
	"gemhub/internal/app/protocol"
	"gemhub/internal/pkg/errs"
	"gemhub/internal/pkg/ident"
)

// LeaveRoom reacts to LEAVE_ROOM messages.
//
// Example request:
//
//	{
//	    "messageContextId": "80bdc250-5365-4caf-8dd9-a33e709a0116",
//	    "type": "LEAVE_ROOM",
//	    "data": {
//	        "userDTO": {"uuid": "f8c3de3d-1fea-4d7c-a8b0-29f63c4c3456"}
//	    }
//	}
type LeaveRoom struct{}

type leaveRoomUserDTO struct {
	UUID string `json:"uuid" validate:"required"`
}

type leaveRoomData struct {
	UserDTO leaveRoomUserDTO `json:"userDTO" validate:"required"`
}

type leaveRoomUserResponse struct {
	UUID string `json:"uuid"`
	Name string `json:"name"`
}

type leaveRoomRoomResponse struct {
	UUID   string `json:"uuid"`
	Closed bool   `json:"closed"`
}

type leaveRoomResponseData struct {
	User leaveRoomUserResponse `json:"user"`
	Room leaveRoomRoomResponse `json:"room"`
}

// leaveRoomResponse maps a registry departure onto the wire shape.
func leaveRoomResponse(departure *lobby.Departure) leaveRoomResponseData {
	return leaveRoomResponseData{
		User: leaveRoomUserResponse{
			UUID: departure.Leaver.ID.String(),
			Name: departure.Leaver.Name,
		},
		Room: leaveRoomRoomResponse{
			UUID:   departure.RoomID.String(),
			Closed: departure.Closed,
		},
	}
}

// Type returns the message type tag this reaction is registered under.
func (LeaveRoom) Type() string {
	return protocol.TypeLeaveRoom
}

// React validates the payload, removes the user from its room atomically, and
// broadcasts a LEAVE_ROOM_RESPONSE to the membership as it was at the moment
// of leaving, the leaver included.
func (LeaveRoom) React(env *Env) {
	responseType := protocol.ResponseType(protocol.TypeLeaveRoom)

	var data leaveRoomData
	if cerr := env.Decode(&data); cerr != nil {
		env.Fail(responseType, cerr)
		return
	}

	userID, ok := ident.ParseID(data.UserDTO.UUID)
	if !ok {
		env.Fail(responseType, errs.NewError(errs.ErrInvalidUUID))
		return
	}

	departure, cerr := env.Registry.LeaveRoom(userID)
	if cerr != nil {
		env.Fail(responseType, cerr)
		return
	}

	env.Broadcast(responseType, leaveRoomResponse(departure), departure.Recipients)
}
