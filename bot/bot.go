package bot

import (
	"errors"
	"strings"

	"github.com/ergochat/irc-go/ircfmt"
	"github.com/rs/zerolog"

	"github.com/ynotnauk/go-twitch-irc/chat"
	"github.com/ynotnauk/go-twitch-irc/entities"
	"github.com/ynotnauk/go-twitch-irc/interfaces"
)

var (
	ErrBlankCommandPrefix error = errors.New("command prefix cannot be blank")
	ErrNilChatClient      error = errors.New("chat client cannot be nil")
	ErrNilCommand         error = errors.New("command cannot be nil")
	ErrNilCommandHandler  error = errors.New("command handler cannot be nil")
)

type registeredCommand struct {
	command *entities.Command
	handler interfaces.ChatCommander
}

type Bot struct {
	chat              *chat.Client
	chatCommandPrefix string
	chatCommands      map[string][]registeredCommand
	commands          []*entities.Command
	logger            zerolog.Logger
}

func (b *Bot) ChatJoin(channel string) error {
	return b.chat.Join(channel)
}

func (b *Bot) ChatReply(message *entities.ChatPrivateMessage, response string) error {
	return b.chat.Reply(message, response)
}

func (b *Bot) ChatSay(channel string, message string) error {
	return b.chat.Say(channel, message)
}

// Commands returns the registered commands in registration order.
func (b *Bot) Commands() []*entities.Command {
	return append([]*entities.Command(nil), b.commands...)
}

// HandlePrivateMessage runs the handlers of the command named in the
// message, if any. It reports whether a command was found.
func (b *Bot) HandlePrivateMessage(message *entities.ChatPrivateMessage) bool {
	if message == nil {
		return false
	}
	text := strings.TrimSpace(ircfmt.Strip(message.Message))
	// Check to see if a command has requested
	if !strings.HasPrefix(text, b.chatCommandPrefix) {
		return false
	}
	messageParts := strings.Fields(strings.TrimPrefix(text, b.chatCommandPrefix))
	if len(messageParts) == 0 {
		return false
	}
	commandName := strings.ToLower(messageParts[0])
	// Check if handler(s) have been loaded for the command
	handlers, ok := b.chatCommands[commandName]
	if !ok || len(handlers) == 0 {
		return false
	}
	b.logger.Debug().
		Str("channel", message.Channel).
		Str("command", commandName).
		Str("username", message.Username).
		Msg("Running chat command")
	for _, handler := range handlers {
		// Build command context
		commandContext := &entities.ChatCommandContext{
			Command:     handler.command,
			CommandName: commandName,
			Message:     message,
			Reply:       b.ChatReply,
			Say:         b.ChatSay,
		}
		if len(messageParts) > 1 {
			commandContext.CommandParams = messageParts[1:]
		}
		handler.handler.Execute(commandContext)
	}
	return true
}

// OnChatCommand registers a handler under the command name and every alias.
// Names are matched case-insensitively.
func (b *Bot) OnChatCommand(command *entities.Command, handler interfaces.ChatCommander) error {
	if command == nil {
		return ErrNilCommand
	}
	if handler == nil {
		return ErrNilCommandHandler
	}
	for _, name := range command.Names() {
		key := strings.ToLower(name.String())
		b.chatCommands[key] = append(b.chatCommands[key], registeredCommand{command: command, handler: handler})
	}
	b.commands = append(b.commands, command)
	return nil
}

func (b *Bot) OnChatJoin(handler func(message *entities.ChatJoinMessage)) {
	b.chat.OnJoin(handler)
}

func (b *Bot) OnChatPrivateMessage(handler func(message *entities.ChatPrivateMessage)) {
	b.chat.OnPrivateMessage(handler)
}

func (b *Bot) OnTwitchChatConnect(handler func(message *entities.ChatConnectMessage)) {
	b.chat.OnConnect(handler)
}

// Start hooks command dispatch into the chat client. Call it once, before
// the client starts reading.
func (b *Bot) Start() {
	b.logger.Info().
		Str("prefix", b.chatCommandPrefix).
		Int("commands", len(b.commands)).
		Msg("Starting bot")
	b.chat.OnPrivateMessage(func(message *entities.ChatPrivateMessage) {
		b.HandlePrivateMessage(message)
	})
}

func New(chatClient *chat.Client, prefix string, logger zerolog.Logger) (*Bot, error) {
	if chatClient == nil {
		return nil, ErrNilChatClient
	}
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return nil, ErrBlankCommandPrefix
	}
	// Create bot
	bot := &Bot{
		chat:              chatClient,
		chatCommands:      make(map[string][]registeredCommand),
		chatCommandPrefix: prefix,
		logger:            logger.With().Str("component", "bot").Logger(),
	}
	return bot, nil
}
