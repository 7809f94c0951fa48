/*
Package errs provides custom error types and application-level error code constants.

This file defines the map from error codes to the CustomError struct, used to
standardize FAILURE responses and internal error handling.
*/
package errs

import "net/http"

// errorMap stores the detailed CustomError struct corresponding to every application error code.
// The key is the error code (int), and the value contains the client-facing message
// and an optional HTTP status code for errors surfaced over plain HTTP.
var errorMap = map[int]CustomError{
	// 1xxx: Message Envelope and Dispatch Errors
	ErrInvalidPayload:     {Code: ErrInvalidPayload, Message: "Invalid message payload."},
	ErrUnknownMessageType: {Code: ErrUnknownMessageType, Message: "Unknown message type: %s"},

	// 2xxx: Validation and Room Business Logic Errors
	ErrInvalidUUID:       {Code: ErrInvalidUUID, Message: "Invalid UUID format."},
	ErrInvalidText:       {Code: ErrInvalidText, Message: "Invalid %s format."},
	ErrRoomAlreadyExists: {Code: ErrRoomAlreadyExists, Message: "Room with specified name already exists!"},
	ErrAlreadyAnOwner:    {Code: ErrAlreadyAnOwner, Message: "You are already an owner of %s room."},
	ErrRoomDoesntExist:   {Code: ErrRoomDoesntExist, Message: "Could not find a room with specified UUID."},
	ErrRoomFull:          {Code: ErrRoomFull, Message: "Room has already reached maximum player count!"},
	ErrUserAlreadyInRoom: {Code: ErrUserAlreadyInRoom, Message: "Leave your current room before joining another."},
	ErrNotInRoom:         {Code: ErrNotInRoom, Message: "You are not a member of any room."},

	// 5xxx: Internal System Errors
	ErrUnknown: {Code: ErrUnknown, Message: "Something went wrong. Please try again.", Status: http.StatusInternalServerError},
}
