package entities

import (
	"fmt"
	"regexp"
	"strings"
)

const (
	minChannelNameLength int = 4
	maxChannelNameLength int = 25
)

var (
	channelNamePattern       = regexp.MustCompile(`^[a-z0-9_]+$`)
	channelPlatformIDPattern = regexp.MustCompile(`^[0-9]+$`)
)

// ChannelName is a Twitch login name, without the leading '#'.
type ChannelName string

func NewChannelName(value string) (ChannelName, error) {
	// Ensure the name is not padded
	value = strings.TrimSpace(value)
	var found issues
	if value == "" {
		found = append(found, Issue{Field: "name", Message: "Name is required."})
		return "", found.err("Channel name validation failed.")
	}
	if len(value) < minChannelNameLength {
		found = append(found, Issue{Field: "name", Message: fmt.Sprintf("Minimum name length is %d", minChannelNameLength)})
	}
	if len(value) > maxChannelNameLength {
		found = append(found, Issue{Field: "name", Message: fmt.Sprintf("Maximum name length is %d", maxChannelNameLength)})
	}
	if !channelNamePattern.MatchString(value) {
		found = append(found, Issue{Field: "name", Message: "Name can contain only lowercase letters, numbers and underscores."})
	}
	if err := found.err("Channel name validation failed."); err != nil {
		return "", err
	}
	return ChannelName(value), nil
}

func (n ChannelName) String() string {
	return string(n)
}

// IRC returns the name as an IRC channel, e.g. "#dallas".
func (n ChannelName) IRC() string {
	return "#" + string(n)
}

// ChannelPlatformID is the numeric Twitch room id (the room-id tag).
type ChannelPlatformID string

func NewChannelPlatformID(value string) (ChannelPlatformID, error) {
	if !channelPlatformIDPattern.MatchString(value) {
		return "", invalid("Channel platform ID validation failed.", "platformId", "Channel platform ID should contain only numbers.")
	}
	return ChannelPlatformID(value), nil
}

type Channel struct {
	ID         ID
	Name       ChannelName
	PlatformID ChannelPlatformID
}

// NewChannel validates every field and reports all problems together.
func NewChannel(id string, name string, platformID string) (*Channel, error) {
	var found issues
	channelID, err := ParseID(id)
	found.add(err)
	channelName, err := NewChannelName(name)
	found.add(err)
	channelPlatformID, err := NewChannelPlatformID(platformID)
	found.add(err)
	if err := found.err("Channel validation failed."); err != nil {
		return nil, err
	}
	channel := &Channel{
		ID:         channelID,
		Name:       channelName,
		PlatformID: channelPlatformID,
	}
	return channel, nil
}
