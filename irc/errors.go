package irc

import (
	"errors"
	"fmt"
)

var (
	ErrTagsMissingSeparator     = errors.New("irc: tags section is missing its enclosing space")
	ErrSourceMissingSeparator   = errors.New("irc: source section is missing its enclosing space")
	ErrInvalidCommand           = errors.New("irc: command must match [A-Z0-9]+")
	ErrParameterContainsSpace   = errors.New("irc: only the last parameter can contain spaces")
	ErrEmptyParameter           = errors.New("irc: only the last parameter can be empty")
	ErrParameterStartsWithColon = errors.New("irc: only the last parameter can start with ':'")
	ErrNilMessage               = errors.New("irc: message cannot be nil")
	ErrInvalidTagKey            = errors.New("irc: tag key is empty or holds a reserved character")
	ErrInvalidSource            = errors.New("irc: server name is empty or would not read back as a server")
)

// Phase names the part of a line a ParseError was raised in.
type Phase string

const (
	PhaseTags       Phase = "tags"
	PhaseSource     Phase = "source"
	PhaseCommand    Phase = "command"
	PhaseParameters Phase = "parameters"
)

// ParseError is returned by Parse. Err is one of the Err* sentinels.
type ParseError struct {
	Phase Phase
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s parsing error: %v", e.Phase, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// SerializeError is returned by Serialize. Index is the offending parameter
// index, or -1 when the error is not about a parameter.
type SerializeError struct {
	Index int
	Err   error
}

func (e *SerializeError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("serialize error: %v", e.Err)
	}
	return fmt.Sprintf("serialize error: parameter at index %d: %v", e.Index, e.Err)
}

func (e *SerializeError) Unwrap() error {
	return e.Err
}
