package commands

import (
	"github.com/rs/zerolog"

	"github.com/ynotnauk/go-twitch-irc/entities"
)

type HelloChatCommand struct {
	Logger zerolog.Logger
}

func (c *HelloChatCommand) Execute(context *entities.ChatCommandContext) {
	c.Logger.Info().Str("username", context.Message.Username).Msg("The hello command has been called")
	err := context.Reply(context.Message, "Hello "+context.Message.Username+"!")
	if err != nil {
		c.Logger.Error().Err(err).Msg("Could not reply")
	}
}
