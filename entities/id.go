package entities

import (
	"github.com/google/uuid"
)

// ID identifies a channel or a command. It is always a UUID.
type ID string

func NewID() ID {
	return ID(uuid.NewString())
}

func ParseID(value string) (ID, error) {
	if value == "" {
		return "", invalid("ID validation failed.", "id", "ID is required.")
	}
	parsed, err := uuid.Parse(value)
	if err != nil {
		return "", invalid("ID validation failed.", "id", "ID must be a UUID.")
	}
	return ID(parsed.String()), nil
}

func (id ID) String() string {
	return string(id)
}
