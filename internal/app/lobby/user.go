/*
Package lobby contains the shared game lobby state: users, rooms, and the
registry that owns them.

This file defines the User struct, the identity record for one connected player.
*/
package lobby

import "github.com/google/uuid"

// User represents one connected player known to the registry.
type User struct {
	// ID is the client-supplied identifier, unique among connected users.
	ID uuid.UUID

	// Name is the player's display name.
	Name string

	// ConnectionID identifies the transport connection currently representing
	// this user. Outbound responses are addressed to it.
	ConnectionID string
}
