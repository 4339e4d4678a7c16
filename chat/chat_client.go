package chat

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/textproto"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/ergochat/irc-go/ircutils"
	"github.com/rs/zerolog"

	"github.com/ynotnauk/go-twitch-irc/entities"
	"github.com/ynotnauk/go-twitch-irc/interfaces"
	"github.com/ynotnauk/go-twitch-irc/irc"
)

const (
	serverHostname   string = "tmi.twitch.tv"
	maxMessageLength int    = 500
)

var (
	ErrBlankChannel  error = errors.New("channel cannot be blank")
	ErrBlankMessage  error = errors.New("message cannot be blank")
	ErrBlankNickname error = errors.New("nickname cannot be blank")
	ErrNilMessage    error = errors.New("message cannot be nil")
	ErrNilSender     error = errors.New("sender cannot be nil")
)

// DefaultCapabilities are the Twitch IRC capabilities requested when
// RequestCapabilities is called without arguments.
var DefaultCapabilities = []string{"twitch.tv/commands", "twitch.tv/membership", "twitch.tv/tags"}

// Client turns raw lines into chat events and chat actions into serialized
// lines. It owns no connection: lines come in through Run or HandleLine and
// go out through the LineSender. Handlers must be registered before Run.
type Client struct {
	logger           zerolog.Logger
	nickname         string
	onConnect        []func(message *entities.ChatConnectMessage)
	onJoin           []func(message *entities.ChatJoinMessage)
	onNotice         []func(message *entities.ChatNoticeMessage)
	onPart           []func(message *entities.ChatPartMessage)
	onPing           []func(message *entities.ChatPingMessage)
	onPong           []func(message *entities.ChatPongMessage)
	onPrivateMessage []func(message *entities.ChatPrivateMessage)
	sendMutex        sync.Mutex
	sender           interfaces.LineSender
}

// HandleLine parses one raw line and runs the matching handlers. A line
// that fails to parse is returned as an *irc.ParseError.
func (c *Client) HandleLine(rawIrcMessage string) error {
	parsedIrcMessage, err := irc.Parse(rawIrcMessage)
	if err != nil {
		return err
	}
	return c.handleParsedIrcMessage(parsedIrcMessage)
}

func (c *Client) handleParsedIrcMessage(parsedIrcMessage *irc.Message) error {
	switch parsedIrcMessage.Command {
	case "001":
		c.nickname = parsedIrcMessage.Param(0)
		// Run handlers if loaded
		if len(c.onConnect) > 0 {
			connectMessage := &entities.ChatConnectMessage{
				Hostname: serverName(parsedIrcMessage.Source),
				Nickname: c.nickname,
			}
			for _, handler := range c.onConnect {
				handler(connectMessage)
			}
		}
	case "JOIN":
		// Run handlers if loaded
		if len(c.onJoin) > 0 {
			joinMessage := &entities.ChatJoinMessage{
				Channel:  parsedIrcMessage.Param(0),
				Username: nickname(parsedIrcMessage.Source),
			}
			for _, handler := range c.onJoin {
				handler(joinMessage)
			}
		}
	case "NOTICE":
		// Run handlers if loaded
		if len(c.onNotice) > 0 {
			msgID, _ := parsedIrcMessage.Tag("msg-id")
			noticeMessage := &entities.ChatNoticeMessage{
				Channel: parsedIrcMessage.Param(0),
				Message: parsedIrcMessage.Trailing(),
				MsgID:   msgID,
			}
			for _, handler := range c.onNotice {
				handler(noticeMessage)
			}
		}
	case "PART":
		// Run handlers if loaded
		if len(c.onPart) > 0 {
			partMessage := &entities.ChatPartMessage{
				Channel:  parsedIrcMessage.Param(0),
				Username: nickname(parsedIrcMessage.Source),
			}
			for _, handler := range c.onPart {
				handler(partMessage)
			}
		}
	case "PING":
		// Echo the ping parameters back, Twitch expects "PONG :tmi.twitch.tv"
		params := parsedIrcMessage.Parameters
		if len(params) == 0 {
			params = []string{serverHostname}
		}
		err := c.Send(irc.NewMessage("PONG", params...), irc.ForceTrailing())
		if err != nil {
			return err
		}
		// Run handlers if loaded
		if len(c.onPing) > 0 {
			pingMessage := &entities.ChatPingMessage{
				Server: parsedIrcMessage.Trailing(),
			}
			for _, handler := range c.onPing {
				handler(pingMessage)
			}
		}
	case "PONG":
		// Run handlers if loaded
		if len(c.onPong) > 0 {
			pongMessage := &entities.ChatPongMessage{
				Server: parsedIrcMessage.Param(0),
			}
			// Pings sent by Ping carry a unix timestamp
			if len(parsedIrcMessage.Parameters) > 1 {
				parsedTimestamp, err := strconv.ParseInt(parsedIrcMessage.Trailing(), 10, 64)
				if err == nil {
					pongMessage.Timestamp = parsedTimestamp
				}
			}
			for _, handler := range c.onPong {
				handler(pongMessage)
			}
		}
	case "PRIVMSG":
		// Run handlers if loaded
		if len(c.onPrivateMessage) > 0 {
			id, _ := parsedIrcMessage.Tag("id")
			privateMessage := &entities.ChatPrivateMessage{
				Channel:  parsedIrcMessage.Param(0),
				ID:       id,
				Message:  parsedIrcMessage.Trailing(),
				Tags:     parsedIrcMessage.Tags,
				Username: nickname(parsedIrcMessage.Source),
			}
			for _, handler := range c.onPrivateMessage {
				handler(privateMessage)
			}
		}
	default:
		c.logger.Debug().
			Str("command", parsedIrcMessage.Command).
			Strs("params", parsedIrcMessage.Parameters).
			Msg("Unhandled command")
	}
	return nil
}

func (c *Client) Join(channel string) error {
	channel, err := normalizeChannel(channel)
	if err != nil {
		return err
	}
	return c.Send(irc.NewMessage("JOIN", channel))
}

func (c *Client) Nick(nickname string) error {
	if strings.TrimSpace(nickname) == "" {
		return ErrBlankNickname
	}
	return c.Send(irc.NewMessage("NICK", strings.TrimSpace(nickname)))
}

// Nickname is the name the server confirmed in its welcome (001) reply.
func (c *Client) Nickname() string {
	return c.nickname
}

func (c *Client) OnConnect(handler func(message *entities.ChatConnectMessage)) {
	c.onConnect = append(c.onConnect, handler)
}

func (c *Client) OnJoin(handler func(message *entities.ChatJoinMessage)) {
	c.onJoin = append(c.onJoin, handler)
}

func (c *Client) OnNotice(handler func(message *entities.ChatNoticeMessage)) {
	c.onNotice = append(c.onNotice, handler)
}

func (c *Client) OnPart(handler func(message *entities.ChatPartMessage)) {
	c.onPart = append(c.onPart, handler)
}

func (c *Client) OnPing(handler func(message *entities.ChatPingMessage)) {
	c.onPing = append(c.onPing, handler)
}

func (c *Client) OnPong(handler func(message *entities.ChatPongMessage)) {
	c.onPong = append(c.onPong, handler)
}

func (c *Client) OnPrivateMessage(handler func(message *entities.ChatPrivateMessage)) {
	c.onPrivateMessage = append(c.onPrivateMessage, handler)
}

func (c *Client) Part(channel string) error {
	channel, err := normalizeChannel(channel)
	if err != nil {
		return err
	}
	return c.Send(irc.NewMessage("PART", channel))
}

// Ping asks the server for a PONG. A blank token is replaced by the current
// unix time so the PONG handler can measure latency.
func (c *Client) Ping(token string) error {
	if token == "" {
		token = strconv.FormatInt(time.Now().Unix(), 10)
	}
	return c.Send(irc.NewMessage("PING", token), irc.ForceTrailing())
}

func (c *Client) Reply(message *entities.ChatPrivateMessage, response string) error {
	if message == nil {
		return ErrNilMessage
	}
	// Without a message id there is nothing to thread the reply to
	if message.ID == "" {
		return c.Say(message.Channel, response)
	}
	privateMessage, err := c.privateMessage(message.Channel, response)
	if err != nil {
		return err
	}
	privateMessage.Tags = irc.NewTags("reply-parent-msg-id", message.ID)
	return c.Send(privateMessage, irc.ForceTrailing())
}

// RequestCapabilities sends "CAP REQ" for the given capabilities, or for
// DefaultCapabilities when none are given.
func (c *Client) RequestCapabilities(capabilities ...string) error {
	if len(capabilities) == 0 {
		capabilities = DefaultCapabilities
	}
	return c.Send(irc.NewMessage("CAP", "REQ", strings.Join(capabilities, " ")), irc.ForceTrailing())
}

// Run reads lines from r until it is exhausted or ctx is done. Lines that
// fail to parse are logged and skipped. When ctx is done and r is an
// io.Closer, Run closes it to release the pending read; any other reader
// keeps its read goroutine blocked until the read returns.
func (c *Client) Run(ctx context.Context, r io.Reader) error {
	c.logger.Info().Msg("Starting chat client")
	lines := make(chan string, 64)
	readErr := make(chan error, 1)
	go func() {
		defer close(lines)
		tp := textproto.NewReader(bufio.NewReader(r))
		for {
			// Check if there is a new line to read
			line, err := tp.ReadLine()
			if err != nil {
				readErr <- err
				return
			}
			select {
			case lines <- line:
			case <-ctx.Done():
				return
			}
		}
	}()
	for {
		select {
		case <-ctx.Done():
			if closer, ok := r.(io.Closer); ok {
				if err := closer.Close(); err != nil {
					c.logger.Warn().Err(err).Msg("Could not close chat stream")
				}
			}
			c.logger.Info().Msg("Chat client stopped")
			return ctx.Err()
		case line, ok := <-lines:
			if !ok {
				return c.readResult(readErr)
			}
			if strings.TrimSpace(line) == "" {
				continue
			}
			err := c.HandleLine(line)
			if err != nil {
				var parseErr *irc.ParseError
				if !errors.As(err, &parseErr) {
					return err
				}
				c.logger.Warn().Err(err).Str("line", line).Msg("Skipping line that failed to parse")
			}
		}
	}
}

func (c *Client) readResult(readErr chan error) error {
	select {
	case err := <-readErr:
		if errors.Is(err, io.EOF) {
			c.logger.Info().Msg("Chat stream closed")
			return nil
		}
		return err
	default:
		return nil
	}
}

func (c *Client) Say(channel string, message string) error {
	privateMessage, err := c.privateMessage(channel, message)
	if err != nil {
		return err
	}
	return c.Send(privateMessage, irc.ForceTrailing())
}

// Send serializes a message and hands the line to the sender.
func (c *Client) Send(message *irc.Message, opts ...irc.SerializeOption) error {
	if message == nil {
		return ErrNilMessage
	}
	line, err := irc.Serialize(message, opts...)
	if err != nil {
		return err
	}
	c.sendMutex.Lock()
	defer c.sendMutex.Unlock()
	c.logger.Debug().Str("line", strings.TrimSuffix(line, irc.Terminator)).Msg("Sending")
	err = c.sender.SendLine(line)
	if err != nil {
		return fmt.Errorf("send %s: %w", message.Command, err)
	}
	return nil
}

func (c *Client) privateMessage(channel string, message string) (*irc.Message, error) {
	channel, err := normalizeChannel(channel)
	if err != nil {
		return nil, err
	}
	// Line breaks and NUL would end the line early
	message = ircutils.SanitizeText(message, maxMessageLength)
	if strings.TrimSpace(message) == "" {
		return nil, ErrBlankMessage
	}
	return irc.NewMessage("PRIVMSG", channel, message), nil
}

// normalizeChannel returns the channel as "#name", validated as a Twitch
// channel name.
func normalizeChannel(channel string) (string, error) {
	// TODO: split comma separated channel lists into one JOIN per channel
	channel = strings.TrimPrefix(strings.TrimSpace(channel), "#")
	if channel == "" {
		return "", ErrBlankChannel
	}
	channelName, err := entities.NewChannelName(strings.ToLower(channel))
	if err != nil {
		return "", err
	}
	return channelName.IRC(), nil
}

func nickname(source irc.Source) string {
	switch s := source.(type) {
	case irc.ClientSource:
		return s.Nickname
	case *irc.ClientSource:
		return s.Nickname
	default:
		return ""
	}
}

func serverName(source irc.Source) string {
	switch s := source.(type) {
	case irc.ServerSource:
		return s.ServerName
	case *irc.ServerSource:
		return s.ServerName
	default:
		return serverHostname
	}
}

func NewClient(sender interfaces.LineSender, logger zerolog.Logger) (*Client, error) {
	if sender == nil {
		return nil, ErrNilSender
	}
	client := &Client{
		logger: logger.With().Str("component", "chat").Logger(),
		sender: sender,
	}
	return client, nil
}
