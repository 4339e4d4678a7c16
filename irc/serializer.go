package irc

import (
	"strings"
)

type serializeOptions struct {
	forceTrailing bool
}

// SerializeOption adjusts how Serialize renders a message.
type SerializeOption func(*serializeOptions)

// ForceTrailing marks the last parameter with ':' even when it does not
// need it, e.g. "PONG :tmi.twitch.tv".
func ForceTrailing() SerializeOption {
	return func(o *serializeOptions) {
		o.forceTrailing = true
	}
}

// Serialize renders a message as a single "\r\n" terminated line. Every
// section is validated on its own; nothing is assumed about how the message
// was built.
func Serialize(message *Message, opts ...SerializeOption) (string, error) {
	if message == nil {
		return "", &SerializeError{Index: -1, Err: ErrNilMessage}
	}
	options := &serializeOptions{}
	for _, opt := range opts {
		opt(options)
	}

	tags, err := serializeTags(message.Tags)
	if err != nil {
		return "", err
	}
	source, err := serializeSource(message.Source)
	if err != nil {
		return "", err
	}
	command, err := serializeCommand(message.Command)
	if err != nil {
		return "", err
	}
	parameters, err := serializeParameters(message.Parameters, options.forceTrailing)
	if err != nil {
		return "", err
	}

	sections := make([]string, 0, 4)
	for _, section := range []string{
		tags,
		source,
		command,
		parameters,
	} {
		if section != "" {
			sections = append(sections, section)
		}
	}
	// Empty sections are dropped rather than trimmed afterwards, a trailing
	// parameter may legally end in spaces
	return strings.Join(sections, Separator) + Terminator, nil
}

// https://modern.ircdocs.horse/#tags
func serializeTags(tags *Tags) (string, error) {
	if tags.Len() == 0 {
		return "", nil
	}
	for _, key := range tags.Keys() {
		if !validTagKey(key) {
			return "", &SerializeError{Index: -1, Err: ErrInvalidTagKey}
		}
	}
	return TagsSymbol + tags.String(), nil
}

// Client prefixes are never written: this side only talks to servers.
func serializeSource(source Source) (string, error) {
	switch s := derefSource(source).(type) {
	case ServerSource:
		if !validServerName(s.ServerName) {
			return "", &SerializeError{Index: -1, Err: ErrInvalidSource}
		}
		return SourceSymbol + s.ServerName, nil
	default:
		return "", nil
	}
}

// Keys are written unescaped, so nothing that ends a tag or the section
// may appear in them.
func validTagKey(key string) bool {
	return key != "" && !strings.ContainsAny(key, " ;=\r\n\x00")
}

// A name holding both '!' and '@' would read back as a client source.
func validServerName(name string) bool {
	if name == "" || strings.ContainsAny(name, " \r\n\x00") {
		return false
	}
	return !(strings.Contains(name, "!") && strings.Contains(name, "@"))
}

// https://modern.ircdocs.horse/#command
func serializeCommand(command string) (string, error) {
	if !validCommand(command) {
		return "", &SerializeError{Index: -1, Err: ErrInvalidCommand}
	}
	return command, nil
}

// https://modern.ircdocs.horse/#parameters
func serializeParameters(parameters []string, forceTrailing bool) (string, error) {
	if len(parameters) == 0 {
		return "", nil
	}

	last := len(parameters) - 1
	// Middle parameters cannot contain spaces, be empty or start with ':'
	for i, parameter := range parameters[:last] {
		switch {
		case strings.Contains(parameter, Separator):
			return "", &SerializeError{Index: i, Err: ErrParameterContainsSpace}
		case parameter == "":
			return "", &SerializeError{Index: i, Err: ErrEmptyParameter}
		case strings.HasPrefix(parameter, SourceSymbol):
			return "", &SerializeError{Index: i, Err: ErrParameterStartsWithColon}
		}
	}

	trailing := parameters[last]
	if forceTrailing || needsTrailingMarker(trailing) {
		trailing = SourceSymbol + trailing
	}
	if last == 0 {
		return trailing, nil
	}
	return strings.Join(parameters[:last], Separator) + Separator + trailing, nil
}

func needsTrailingMarker(parameter string) bool {
	return parameter == "" ||
		strings.Contains(parameter, Separator) ||
		strings.HasPrefix(parameter, SourceSymbol)
}
