package commands

import (
	"strings"

	"github.com/rs/zerolog"

	"github.com/ynotnauk/go-twitch-irc/entities"
)

// CommandsChatCommand lists every registered command with the prefix.
type CommandsChatCommand struct {
	Commands func() []*entities.Command
	Logger   zerolog.Logger
	Prefix   string
}

func (c *CommandsChatCommand) Execute(context *entities.ChatCommandContext) {
	var names []string
	for _, command := range c.Commands() {
		names = append(names, c.Prefix+command.Name.String())
	}
	err := context.Say(context.Message.Channel, "Commands: "+strings.Join(names, ", "))
	if err != nil {
		c.Logger.Error().Err(err).Msg("Could not list commands")
	}
}
