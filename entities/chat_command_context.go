package entities

type ChatCommandContext struct {
	Command       *Command
	CommandName   string
	CommandParams []string
	Message       *ChatPrivateMessage
	Reply         func(message *ChatPrivateMessage, response string) error
	Say           func(channel string, message string) error
}
