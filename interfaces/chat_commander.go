package interfaces

import "github.com/ynotnauk/go-twitch-irc/entities"

type ChatCommander interface {
	Execute(context *entities.ChatCommandContext)
}
