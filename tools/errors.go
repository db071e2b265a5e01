package tools

import "errors"

var (
	// ErrUnknownTool is returned when a call names a tool that is not registered.
	ErrUnknownTool = errors.New("tools: unknown tool")

	// ErrInvalidInput is returned when a tool call's input is missing a
	// required field or carries a value of the wrong type.
	ErrInvalidInput = errors.New("tools: invalid input")

	// ErrForbidden is returned when the caller's identity lacks the scope a
	// tool requires.
	ErrForbidden = errors.New("tools: forbidden")
)
