package entities

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	minCommandNameLength        int = 2
	maxCommandNameLength        int = 50
	minCommandDescriptionLength int = 2
	maxCommandDescriptionLength int = 500
)

// CommandName is what follows the command prefix in chat, e.g. "hello"
// for "!hello".
type CommandName string

func NewCommandName(value string) (CommandName, error) {
	value, err := checkLength(value, "name", "Name", minCommandNameLength, maxCommandNameLength)
	if err != nil {
		return "", err
	}
	return CommandName(value), nil
}

func (n CommandName) String() string {
	return string(n)
}

type CommandDescription string

func NewCommandDescription(value string) (CommandDescription, error) {
	value, err := checkLength(value, "description", "Description", minCommandDescriptionLength, maxCommandDescriptionLength)
	if err != nil {
		return "", err
	}
	return CommandDescription(value), nil
}

type CommandCooldown struct {
	Duration time.Duration
	IsGlobal bool
}

// NewCommandCooldown accepts whole, non-negative seconds.
func NewCommandCooldown(duration time.Duration, isGlobal bool) (CommandCooldown, error) {
	if duration < 0 {
		return CommandCooldown{}, invalid("Cooldown validation failed.", "cooldown.duration", "Cooldown duration cannot be negative.")
	}
	if duration%time.Second != 0 {
		return CommandCooldown{}, invalid("Cooldown validation failed.", "cooldown.duration", "Cooldown duration must be a whole number of seconds.")
	}
	return CommandCooldown{Duration: duration, IsGlobal: isGlobal}, nil
}

// CommandPermission is the lowest chat role allowed to run a command.
type CommandPermission string

const (
	PermissionEveryone    CommandPermission = "EVERYONE"
	PermissionSubscriber  CommandPermission = "SUBSCRIBER"
	PermissionVIP         CommandPermission = "VIP"
	PermissionModerator   CommandPermission = "MODERATOR"
	PermissionBroadcaster CommandPermission = "BROADCASTER"
	PermissionAdmin       CommandPermission = "ADMIN"
)

var commandPermissionLevels = map[CommandPermission]int{
	PermissionEveryone:    0,
	PermissionSubscriber:  1,
	PermissionVIP:         2,
	PermissionModerator:   3,
	PermissionBroadcaster: 4,
	PermissionAdmin:       5,
}

var commandPermissionNames = []CommandPermission{
	PermissionEveryone,
	PermissionSubscriber,
	PermissionVIP,
	PermissionModerator,
	PermissionBroadcaster,
	PermissionAdmin,
}

func NewCommandPermission(value string) (CommandPermission, error) {
	if value == "" {
		return "", invalid("Permission validation failed.", "permission", "Permission is required.")
	}
	permission := CommandPermission(value)
	if _, ok := commandPermissionLevels[permission]; !ok {
		names := make([]string, len(commandPermissionNames))
		for i, name := range commandPermissionNames {
			names[i] = string(name)
		}
		return "", invalid("Permission validation failed.", "permission", "Permission must be: "+strings.Join(names, " "))
	}
	return permission, nil
}

func (p CommandPermission) Level() int {
	return commandPermissionLevels[p]
}

// CommandSpec holds the raw values NewCommand validates.
type CommandSpec struct {
	ID             string
	Name           string
	Permission     string
	Cooldown       time.Duration
	CooldownGlobal bool
	Aliases        []string
	Description    string
}

// Command describes a chat command. Cooldown and permission are carried for
// whoever enforces them; this package does not.
type Command struct {
	ID          ID
	Name        CommandName
	Permission  CommandPermission
	Cooldown    CommandCooldown
	Aliases     []CommandName
	Description CommandDescription
}

func NewCommand(spec CommandSpec) (*Command, error) {
	var found issues
	id, err := ParseID(spec.ID)
	found.add(err)
	name, err := NewCommandName(spec.Name)
	found.add(err)
	permission, err := NewCommandPermission(spec.Permission)
	found.add(err)
	cooldown, err := NewCommandCooldown(spec.Cooldown, spec.CooldownGlobal)
	found.add(err)
	var description CommandDescription
	if spec.Description != "" {
		description, err = NewCommandDescription(spec.Description)
		found.add(err)
	}
	var aliases []CommandName
	for i, rawAlias := range spec.Aliases {
		alias, err := NewCommandName(rawAlias)
		if err != nil {
			var validationErr *ValidationError
			if errors.As(err, &validationErr) {
				for _, issue := range validationErr.Issues {
					found = append(found, Issue{Field: fmt.Sprintf("aliases[%d]", i), Message: issue.Message})
				}
			}
			continue
		}
		aliases = append(aliases, alias)
	}
	if err := found.err("Command validation failed."); err != nil {
		return nil, err
	}
	command := &Command{
		ID:          id,
		Name:        name,
		Permission:  permission,
		Cooldown:    cooldown,
		Aliases:     aliases,
		Description: description,
	}
	return command, nil
}

// Names returns the command name followed by its aliases.
func (c *Command) Names() []CommandName {
	return append([]CommandName{c.Name}, c.Aliases...)
}

func checkLength(value string, field string, label string, minLength int, maxLength int) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", invalid(label+" validation failed.", field, label+" is required.")
	}
	length := utf8.RuneCountInString(value)
	if length < minLength {
		return "", invalid(label+" validation failed.", field, fmt.Sprintf("Minimum %s length is %d", field, minLength))
	}
	if length > maxLength {
		return "", invalid(label+" validation failed.", field, fmt.Sprintf("Maximum %s length is %d", field, maxLength))
	}
	return value, nil
}
