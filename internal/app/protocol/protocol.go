/*
Package protocol defines the JSON wire format spoken over the websocket session.

Every inbound message carries a context identifier, a type tag selecting the
reaction that handles it, and a type-specific data object. Every outbound
message mirrors the context identifier back and reports either an OK result
with a data payload or a FAILURE result with an error description.
*/
package protocol

import (
	"encoding/json"
	"errors"

	"github.com/google/uuid"

	"gemhub/internal/pkg/errs"
)

// Result is the outcome tag carried by every outbound response.
type Result string

const (
	ResultOK      Result = "OK"
	ResultFailure Result = "FAILURE"
)

// Inbound message type tags.
const (
	TypeCreateRoom = "CREATE_ROOM"
	TypeJoinRoom   = "JOIN_ROOM"
	TypeLeaveRoom  = "LEAVE_ROOM"

	// TypeUnknown is the response type used when the inbound type tag matches
	// no registered reaction or the envelope itself cannot be decoded.
	TypeUnknown = "UNKNOWN"
)

// Received is the generic inbound message envelope.
type Received struct {
	MessageContextID string          `json:"messageContextId"`
	Type             string          `json:"type"`
	Data             json.RawMessage `json:"data"`
}

// Response is the generic outbound message envelope.
type Response struct {
	MessageContextID string `json:"messageContextId"`
	Type             string `json:"type"`
	Result           Result `json:"result"`
	Data             any    `json:"data"`
}

// errorData is the data payload of a FAILURE response.
type errorData struct {
	Error string `json:"error"`
}

// ResponseType derives the outbound type tag for a given inbound type tag.
func ResponseType(requestType string) string {
	return requestType + "_RESPONSE"
}

// NewSuccess builds an OK response mirroring the request's context identifier.
func NewSuccess(messageContextID, responseType string, data any) Response {
	return Response{
		MessageContextID: messageContextID,
		Type:             responseType,
		Result:           ResultOK,
		Data:             data,
	}
}

// NewFailure builds a FAILURE response carrying the error description.
// A missing context identifier is replaced with a fresh one so the client can
// still correlate the response envelope.
func NewFailure(messageContextID, responseType string, err error) Response {
	if messageContextID == "" {
		messageContextID = uuid.NewString()
	}

	// Only the client-facing message goes over the wire, never the internal
	// code-and-status formatting.
	message := err.Error()
	var customErr *errs.CustomError
	if errors.As(err, &customErr) {
		message = customErr.Message
	}

	return Response{
		MessageContextID: messageContextID,
		Type:             responseType,
		Result:           ResultFailure,
		Data:             errorData{Error: message},
	}
}
