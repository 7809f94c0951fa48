/*
Package errs provides custom error types and application-level error code constants.

These error codes identify specific business or system failures both internally
within the server and in the FAILURE responses sent back to clients.
*/
package errs

// 1xxx: Message Envelope and Dispatch Errors
const (
	// ErrInvalidPayload indicates that an inbound message or its data section
	// could not be decoded into the shape the handler expects.
	ErrInvalidPayload = 1001

	// ErrUnknownMessageType indicates that no handler is registered for the
	// declared message type.
	ErrUnknownMessageType = 1002
)

// 2xxx: Validation and Room Business Logic Errors
const (
	// ErrInvalidUUID indicates that an identifier is not a canonical
	// 36-character UUID string.
	ErrInvalidUUID = 2001

	// ErrInvalidText indicates that a display name, room name or room password
	// failed format validation.
	ErrInvalidText = 2002

	// ErrRoomAlreadyExists indicates that a room with the requested name is
	// already registered.
	ErrRoomAlreadyExists = 2101

	// ErrAlreadyAnOwner indicates that the requesting user already owns a room.
	ErrAlreadyAnOwner = 2102

	// ErrRoomDoesntExist indicates that no room matches the requested UUID.
	ErrRoomDoesntExist = 2103

	// ErrRoomFull indicates that the room has reached its player capacity.
	ErrRoomFull = 2104

	// ErrUserAlreadyInRoom indicates that the user is already a member of another room.
	ErrUserAlreadyInRoom = 2105

	// ErrNotInRoom indicates that the user is not a member of any room.
	ErrNotInRoom = 2106
)

// 5xxx: Internal System Errors
const (
	// ErrUnknown represents an unclassified, general server internal error.
	ErrUnknown = 5000
)
