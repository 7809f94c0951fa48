/*
Package reaction implements the inbound message dispatch layer.

A reaction is a handler bound to one inbound message type, implementing the
validate-then-mutate-then-respond sequence against the lobby registry. The
Dispatcher owns a static table from message-type tag to reaction, resolved once
at construction; it decodes envelopes, recovers from handler panics, and
answers unknown or malformed messages with a generic FAILURE so one bad message
never takes down the session loop.
*/
package reaction

import (
	"encoding/json"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"gemhub/internal/app/lobby"
	"gemhub/internal/app/protocol"
	"gemhub/internal/pkg/errs"
	"gemhub/internal/pkg/logx"
)

// Messenger is the outbound channel reactions respond through: fire-and-forget
// delivery of a serialized payload to one connection, ordering preserved per
// connection.
type Messenger interface {
	Send(connectionID string, payload []byte)
}

// Handler is one reaction: it declares the message type it reacts to and
// performs a single validate-then-mutate-then-respond sequence.
type Handler interface {
	Type() string
	React(env *Env)
}

// payloadValidator checks decoded payload shapes for required fields before a
// reaction sees them.
var payloadValidator = validator.New()

// Env carries the per-request context a reaction works with: the requesting
// connection, the decoded envelope, and the shared dependencies.
type Env struct {
	// ConnectionID identifies the requesting transport connection.
	ConnectionID string

	// ContextID is the messageContextId mirrored back in every response.
	ContextID string

	// Data is the raw type-specific payload of the inbound message.
	Data json.RawMessage

	// Registry is the shared lobby state.
	Registry *lobby.Registry

	// Messenger is the outbound channel.
	Messenger Messenger

	logger zerolog.Logger
}

// Decode unmarshals the message data into dst and validates required fields.
func (e *Env) Decode(dst any) *errs.CustomError {
	if len(e.Data) == 0 {
		return errs.NewError(errs.ErrInvalidPayload)
	}

	if err := json.Unmarshal(e.Data, dst); err != nil {
		return errs.NewError(errs.ErrInvalidPayload)
	}

	if err := payloadValidator.Struct(dst); err != nil {
		return errs.NewError(errs.ErrInvalidPayload)
	}

	return nil
}

// Reply sends an OK response with the given data to the requesting connection.
func (e *Env) Reply(responseType string, data any) {
	e.deliver(e.ConnectionID, protocol.NewSuccess(e.ContextID, responseType, data))
}

// Fail sends a FAILURE response to the requesting connection only. Partner
// connections are never notified of another user's failed request.
func (e *Env) Fail(responseType string, err error) {
	e.deliver(e.ConnectionID, protocol.NewFailure(e.ContextID, responseType, err))
}

// Broadcast sends the same OK response to every recipient, each addressed to
// that recipient's own connection.
func (e *Env) Broadcast(responseType string, data any, recipients []lobby.User) {
	response := protocol.NewSuccess(e.ContextID, responseType, data)
	for _, recipient := range recipients {
		e.deliver(recipient.ConnectionID, response)
	}
}

// deliver marshals the response envelope and hands it to the messenger.
func (e *Env) deliver(connectionID string, response protocol.Response) {
	payload, err := json.Marshal(response)
	if err != nil {
		e.logger.Error().
			Err(err).
			Str("response_type", response.Type).
			Msg("Failed to marshal response envelope.")
		return
	}

	e.Messenger.Send(connectionID, payload)
}

// Dispatcher routes inbound messages to the reaction registered for their type tag.
type Dispatcher struct {
	registry  *lobby.Registry
	messenger Messenger

	// handlers is the static type-tag lookup table, populated once at construction.
	handlers map[string]Handler

	logger zerolog.Logger
}

// NewDispatcher constructs a Dispatcher with every known reaction registered.
func NewDispatcher(registry *lobby.Registry, messenger Messenger) *Dispatcher {
	dispatcherLogger := logx.Logger().With().Str("component", "Dispatcher").Logger()

	d := &Dispatcher{
		registry:  registry,
		messenger: messenger,
		handlers:  make(map[string]Handler),
		logger:    dispatcherLogger,
	}

	d.register(CreateRoom{})
	d.register(JoinRoom{})
	d.register(LeaveRoom{})

	return d
}

func (d *Dispatcher) register(h Handler) {
	d.handlers[h.Type()] = h
}

// Dispatch decodes the inbound envelope and invokes the matching reaction.
// Malformed envelopes and unknown type tags are answered with a generic
// FAILURE addressed to the sender; a panicking reaction is recovered and
// answered the same way.
func (d *Dispatcher) Dispatch(connectionID string, raw []byte) {
	var received protocol.Received
	if err := json.Unmarshal(raw, &received); err != nil {
		d.logger.Warn().
			Err(err).
			Str("connection_id", connectionID).
			Msg("Received invalid message envelope.")

		d.fail(connectionID, "", protocol.ResponseType(protocol.TypeUnknown), errs.NewError(errs.ErrInvalidPayload))
		return
	}

	handler, ok := d.handlers[received.Type]
	if !ok {
		d.logger.Warn().
			Str("connection_id", connectionID).
			Str("message_type", received.Type).
			Msg("No reaction registered for message type.")

		d.fail(connectionID, received.MessageContextID, protocol.ResponseType(protocol.TypeUnknown),
			errs.NewError(errs.ErrUnknownMessageType, received.Type))
		return
	}

	env := &Env{
		ConnectionID: connectionID,
		ContextID:    received.MessageContextID,
		Data:         received.Data,
		Registry:     d.registry,
		Messenger:    d.messenger,
		logger:       d.logger.With().Str("message_type", received.Type).Logger(),
	}

	defer func() {
		if recovered := recover(); recovered != nil {
			d.logger.Error().
				Str("connection_id", connectionID).
				Str("message_type", received.Type).
				Msgf("Reaction panicked: %v", recovered)

			d.fail(connectionID, received.MessageContextID, protocol.ResponseType(received.Type),
				errs.NewError(errs.ErrUnknown))
		}
	}()

	handler.React(env)
}

// Disconnect removes the user bound to a closed connection and notifies the
// remaining members of its room, if it was in one.
func (d *Dispatcher) Disconnect(connectionID string) {
	departure, removed := d.registry.Disconnect(connectionID)
	if !removed || departure == nil {
		return
	}

	// Server-initiated notification, so there is no inbound context to mirror.
	env := &Env{
		ConnectionID: connectionID,
		ContextID:    uuid.NewString(),
		Registry:     d.registry,
		Messenger:    d.messenger,
		logger:       d.logger.With().Str("connection_id", connectionID).Logger(),
	}

	env.Broadcast(protocol.ResponseType(protocol.TypeLeaveRoom), leaveRoomResponse(departure), departure.Recipients)
}

// fail sends a FAILURE envelope outside of any reaction context.
func (d *Dispatcher) fail(connectionID, contextID, responseType string, cerr *errs.CustomError) {
	env := &Env{
		ConnectionID: connectionID,
		ContextID:    contextID,
		Messenger:    d.messenger,
		logger:       d.logger,
	}
	env.Fail(responseType, cerr)
}

// invalidText builds the field-specific invalid-format failure shared by the
// text validators.
func invalidText(field string) *errs.CustomError {
	return errs.NewError(errs.ErrInvalidText, field)
}
