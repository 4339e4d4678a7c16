package main

import (
	"bufio"
	"context"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/docopt/docopt-go"
	"github.com/rs/zerolog"

	"github.com/ynotnauk/go-twitch-irc/bot"
	"github.com/ynotnauk/go-twitch-irc/chat"
	"github.com/ynotnauk/go-twitch-irc/cmd/example/commands"
	"github.com/ynotnauk/go-twitch-irc/config"
	"github.com/ynotnauk/go-twitch-irc/entities"
	"github.com/ynotnauk/go-twitch-irc/logging"
)

// writerSender writes serialized lines to a stream, e.g. stdout piped into
// a websocket or TLS client.
type writerSender struct {
	mu     sync.Mutex
	writer *bufio.Writer
}

func (s *writerSender) SendLine(line string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.writer.WriteString(line); err != nil {
		return err
	}
	return s.writer.Flush()
}

func newWriterSender(w io.Writer) *writerSender {
	return &writerSender{writer: bufio.NewWriter(w)}
}

func main() {
	usage := `Twitch bot example, reads raw chat lines on stdin and writes to stdout.
Usage:
	example [--conf <filename>]
	example -h | --help
Options:
	--conf <filename>  Configuration file to use.
	-h --help          Show this screen.`

	arguments, _ := docopt.ParseArgs(usage, nil, "")

	cfg := config.Default()
	if configfile, _ := arguments["--conf"].(string); configfile != "" {
		loaded, err := config.Load(configfile)
		if err != nil {
			panic(err)
		}
		cfg = loaded
	}
	logger := logging.New("twitch-bot-example", cfg.Log, os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, os.Stdin, os.Stdout, logger); err != nil && err != context.Canceled {
		logger.Fatal().Err(err).Msg("Bot stopped")
	}
}

func run(ctx context.Context, cfg config.Config, in io.Reader, out io.Writer, logger zerolog.Logger) error {
	// Create chat client
	chatClient, err := chat.NewClient(newWriterSender(out), logger)
	if err != nil {
		return err
	}
	// Create complete bot
	twitchBot, err := bot.New(chatClient, cfg.Chat.CommandPrefix, logger)
	if err != nil {
		return err
	}
	// Commands
	hello, err := entities.NewCommand(entities.CommandSpec{
		ID:          entities.NewID().String(),
		Name:        "hello",
		Permission:  string(entities.PermissionEveryone),
		Aliases:     []string{"hi"},
		Description: "Says hello back",
	})
	if err != nil {
		return err
	}
	list, err := entities.NewCommand(entities.CommandSpec{
		ID:          entities.NewID().String(),
		Name:        "commands",
		Permission:  string(entities.PermissionEveryone),
		Description: "Lists the available commands",
	})
	if err != nil {
		return err
	}
	err = twitchBot.OnChatCommand(hello, &commands.HelloChatCommand{Logger: logger})
	if err != nil {
		return err
	}
	err = twitchBot.OnChatCommand(list, &commands.CommandsChatCommand{
		Commands: twitchBot.Commands,
		Logger:   logger,
		Prefix:   cfg.Chat.CommandPrefix,
	})
	if err != nil {
		return err
	}
	// Handlers
	twitchBot.OnTwitchChatConnect(func(message *entities.ChatConnectMessage) {
		logger.Info().Str("nickname", message.Nickname).Msg("Connected")
		for _, channel := range cfg.Chat.Channels {
			if err := twitchBot.ChatJoin(channel); err != nil {
				logger.Error().Err(err).Str("channel", channel).Msg("Could not join channel")
			}
		}
	})
	twitchBot.OnChatJoin(func(message *entities.ChatJoinMessage) {
		logger.Debug().Str("channel", message.Channel).Str("username", message.Username).Msg("Joined")
	})
	// Start bot
	twitchBot.Start()
	if err := chatClient.RequestCapabilities(cfg.Chat.Capabilities...); err != nil {
		return err
	}
	if err := chatClient.Nick(cfg.Chat.Nick); err != nil {
		return err
	}
	return chatClient.Run(ctx, in)
}
