// Package irc parses and serializes IRC protocol lines, including IRCv3
// message tags, in the dialect spoken by Twitch chat.
//
// Message format: https://modern.ircdocs.horse/#message-format
// Message tags: https://ircv3.net/specs/extensions/message-tags.html
package irc

import (
	"fmt"
	"regexp"
	"strings"
)

const (
	Separator    string = " "
	TagsSymbol   string = "@"
	SourceSymbol string = ":"
	Terminator   string = "\r\n"
)

const (
	separatorByte byte   = ' '
	trailingMark  string = " :"
)

var commandPattern = regexp.MustCompile(`^[A-Z0-9]+$`)

// Source identifies who sent a message. It is either a ClientSource or a
// ServerSource; a nil Source means the line carried no prefix.
type Source interface {
	fmt.Stringer
	isSource()
}

type ClientSource struct {
	Nickname string
	User     string
	Host     string
}

func (ClientSource) isSource() {}

func (s ClientSource) String() string {
	return s.Nickname + "!" + s.User + "@" + s.Host
}

type ServerSource struct {
	ServerName string
}

func (ServerSource) isSource() {}

func (s ServerSource) String() string {
	return s.ServerName
}

// Message is a single IRC line. Tags and Source are optional (nil when
// absent); Parameters is nil when the line carries none. The last parameter
// is the trailing one.
type Message struct {
	Tags       *Tags
	Source     Source
	Command    string
	Parameters []string
}

func NewMessage(command string, params ...string) *Message {
	message := &Message{
		Command: command,
	}
	if len(params) > 0 {
		message.Parameters = params
	}
	return message
}

// Param returns the parameter at index i or "" when there is none.
func (m *Message) Param(i int) string {
	if i < 0 || i >= len(m.Parameters) {
		return ""
	}
	return m.Parameters[i]
}

// Trailing returns the last parameter or "" when there are none.
func (m *Message) Trailing() string {
	return m.Param(len(m.Parameters) - 1)
}

// Tag looks up a tag value; a message without tags has none.
func (m *Message) Tag(key string) (string, bool) {
	if m.Tags == nil {
		return "", false
	}
	return m.Tags.Get(key)
}

// Equal reports whether both messages carry the same tags (in the same
// order), source, command and parameters. Absent and empty tags or
// parameters compare equal.
func (m *Message) Equal(other *Message) bool {
	if m == nil || other == nil {
		return m == other
	}
	if !m.Tags.Equal(other.Tags) {
		return false
	}
	if !sourcesEqual(m.Source, other.Source) {
		return false
	}
	if m.Command != other.Command || len(m.Parameters) != len(other.Parameters) {
		return false
	}
	for i := range m.Parameters {
		if m.Parameters[i] != other.Parameters[i] {
			return false
		}
	}
	return true
}

func (m *Message) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Command [%s]", m.Command)
	if m.Source != nil {
		fmt.Fprintf(&b, " Source [%s]", m.Source)
	}
	if m.Tags.Len() > 0 {
		fmt.Fprintf(&b, " Tags [%s]", m.Tags)
	}
	fmt.Fprintf(&b, " Params%q", m.Parameters)
	return b.String()
}

func sourcesEqual(a, b Source) bool {
	a, b = derefSource(a), derefSource(b)
	switch av := a.(type) {
	case nil:
		return b == nil
	case ClientSource:
		bv, ok := b.(ClientSource)
		return ok && av == bv
	case ServerSource:
		bv, ok := b.(ServerSource)
		return ok && av == bv
	}
	return false
}

// derefSource turns pointer variants into their value form.
func derefSource(source Source) Source {
	switch s := source.(type) {
	case *ClientSource:
		if s == nil {
			return nil
		}
		return *s
	case *ServerSource:
		if s == nil {
			return nil
		}
		return *s
	}
	return source
}

func validCommand(command string) bool {
	return commandPattern.MatchString(command)
}
