package irc

import (
	"strings"
)

// Parse turns one raw line into a Message. A single trailing "\r\n" is
// removed first; the line must not contain further line breaks other than
// inside the trailing parameter.
//
// Each phase takes the cursor left by the previous one and returns the
// cursor for the next, so nothing is shared between calls.
func Parse(raw string) (*Message, error) {
	line := strings.TrimSuffix(raw, Terminator)

	tags, cursor, err := parseTags(line, 0)
	if err != nil {
		return nil, err
	}
	source, cursor, err := parseSource(line, cursor)
	if err != nil {
		return nil, err
	}
	command, cursor, err := parseCommand(line, cursor)
	if err != nil {
		return nil, err
	}
	parameters := parseParameters(line, cursor)

	return &Message{
		Tags:       tags,
		Source:     source,
		Command:    command,
		Parameters: parameters,
	}, nil
}

// https://modern.ircdocs.horse/#tags
func parseTags(line string, cursor int) (*Tags, int, error) {
	if !strings.HasPrefix(line[cursor:], TagsSymbol) {
		return nil, cursor, nil
	}
	spaceIndex := indexFrom(line, cursor)
	if spaceIndex == -1 {
		return nil, cursor, &ParseError{Phase: PhaseTags, Err: ErrTagsMissingSeparator}
	}

	tags := &Tags{}
	for _, rawTag := range strings.Split(line[cursor+1:spaceIndex], ";") {
		// The serializer ends every tag with ';', leaving an empty piece
		if rawTag == "" {
			continue
		}
		key, value, _ := strings.Cut(rawTag, "=")
		tags.Set(key, UnescapeTagValue(value))
	}
	if tags.Len() == 0 {
		tags = nil
	}
	return tags, spaceIndex, nil
}

// https://modern.ircdocs.horse/#source
func parseSource(line string, cursor int) (Source, int, error) {
	cursor = skipSeparators(line, cursor)
	if !strings.HasPrefix(line[cursor:], SourceSymbol) {
		return nil, cursor, nil
	}
	spaceIndex := indexFrom(line, cursor)
	if spaceIndex == -1 {
		return nil, cursor, &ParseError{Phase: PhaseSource, Err: ErrSourceMissingSeparator}
	}

	section := line[cursor+1 : spaceIndex]
	if strings.Contains(section, "!") && strings.Contains(section, "@") {
		nickname, rest, _ := strings.Cut(section, "!")
		user, host, _ := strings.Cut(rest, "@")
		return ClientSource{Nickname: nickname, User: user, Host: host}, spaceIndex, nil
	}
	return ServerSource{ServerName: section}, spaceIndex, nil
}

// https://modern.ircdocs.horse/#command
func parseCommand(line string, cursor int) (string, int, error) {
	cursor = skipSeparators(line, cursor)
	end := indexFrom(line, cursor)
	// No space means the command runs to the end of the line
	if end == -1 {
		end = len(line)
	}
	command := strings.ToUpper(line[cursor:end])
	if !validCommand(command) {
		return "", cursor, &ParseError{Phase: PhaseCommand, Err: ErrInvalidCommand}
	}
	return command, end, nil
}

// https://modern.ircdocs.horse/#parameters
func parseParameters(line string, cursor int) []string {
	cursor = skipSeparators(line, cursor)
	if cursor >= len(line) {
		return nil
	}
	section := line[cursor:]

	// Trailing parameter only
	if strings.HasPrefix(section, SourceSymbol) {
		return []string{section[1:]}
	}

	middle, trailing, hasTrailing := strings.Cut(section, trailingMark)
	params := strings.FieldsFunc(middle, func(r rune) bool {
		return r == rune(separatorByte)
	})
	if hasTrailing {
		params = append(params, trailing)
	}
	if len(params) == 0 {
		return nil
	}
	return params
}

func skipSeparators(line string, cursor int) int {
	for cursor < len(line) && line[cursor] == separatorByte {
		cursor++
	}
	return cursor
}

// indexFrom returns the absolute index of the next separator at or after
// cursor, or -1.
func indexFrom(line string, cursor int) int {
	index := strings.IndexByte(line[cursor:], separatorByte)
	if index == -1 {
		return -1
	}
	return cursor + index
}
