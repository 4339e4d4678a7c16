package entities

import "github.com/ynotnauk/go-twitch-irc/irc"

type ChatPrivateMessage struct {
	Channel  string
	ID       string
	Message  string
	Tags     *irc.Tags
	Username string
}
