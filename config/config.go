package config

import (
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/ynotnauk/go-twitch-irc/entities"
)

const (
	LogFormatConsole string = "console"
	LogFormatJSON    string = "json"

	OutputFormatYAML string = "yaml"
	OutputFormatJSON string = "json"
	OutputFormatLine string = "line"
)

type Config struct {
	Log    Log
	Chat   Chat
	Output Output
}

type Log struct {
	Level  string
	Format string
}

type Chat struct {
	Nick          string
	Channels      []string
	CommandPrefix string
	// Empty means the chat client's default capabilities.
	Capabilities []string
}

// Output controls how the ircmsg command renders parsed messages.
type Output struct {
	Format string
}

type fileConfig struct {
	Log struct {
		Level  string `toml:"level"`
		Format string `toml:"format"`
	} `toml:"log"`
	Chat struct {
		Nick          string   `toml:"nick"`
		Channels      []string `toml:"channels"`
		CommandPrefix string   `toml:"command_prefix"`
		Capabilities  []string `toml:"capabilities"`
	} `toml:"chat"`
	Output struct {
		Format string `toml:"format"`
	} `toml:"output"`
}

// Default logs at info to the console and connects anonymously.
func Default() Config {
	return Config{
		Log: Log{
			Level:  "info",
			Format: LogFormatConsole,
		},
		Chat: Chat{
			Nick:          "justinfan12345",
			Channels:      []string{},
			CommandPrefix: "!",
		},
		Output: Output{
			Format: OutputFormatYAML,
		},
	}
}

// Load reads a TOML file on top of Default and validates the result. Only
// keys present in the file override the defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return Config{}, errors.Wrap(err, "load config")
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Config{}, errors.Errorf("load config: unknown key %q", undecoded[0].String())
	}

	if meta.IsDefined("log", "level") {
		cfg.Log.Level = strings.ToLower(strings.TrimSpace(raw.Log.Level))
	}

	if meta.IsDefined("log", "format") {
		cfg.Log.Format = strings.ToLower(strings.TrimSpace(raw.Log.Format))
	}

	if meta.IsDefined("chat", "nick") {
		cfg.Chat.Nick = strings.TrimSpace(raw.Chat.Nick)
	}

	if meta.IsDefined("chat", "channels") {
		cfg.Chat.Channels = normalizeList(raw.Chat.Channels)
	}

	if meta.IsDefined("chat", "command_prefix") {
		cfg.Chat.CommandPrefix = strings.TrimSpace(raw.Chat.CommandPrefix)
	}

	if meta.IsDefined("chat", "capabilities") {
		cfg.Chat.Capabilities = normalizeList(raw.Chat.Capabilities)
	}

	if meta.IsDefined("output", "format") {
		cfg.Output.Format = strings.ToLower(strings.TrimSpace(raw.Output.Format))
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, errors.Wrapf(err, "invalid config %s", path)
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.Log.Level == "" {
		return errors.New("log.level: level cannot be blank")
	}
	if _, err := zerolog.ParseLevel(c.Log.Level); err != nil {
		return errors.Wrap(err, "log.level")
	}
	switch c.Log.Format {
	case LogFormatConsole, LogFormatJSON:
	default:
		return errors.Errorf("log.format: unknown format %q", c.Log.Format)
	}
	if c.Chat.Nick == "" {
		return errors.New("chat.nick: nick cannot be blank")
	}
	if c.Chat.CommandPrefix == "" {
		return errors.New("chat.command_prefix: command prefix cannot be blank")
	}
	for i, channel := range c.Chat.Channels {
		if _, err := entities.NewChannelName(strings.ToLower(strings.TrimPrefix(channel, "#"))); err != nil {
			return errors.Wrapf(err, "chat.channels[%d]", i)
		}
	}
	switch c.Output.Format {
	case OutputFormatYAML, OutputFormatJSON, OutputFormatLine:
	default:
		return errors.Errorf("output.format: unknown format %q", c.Output.Format)
	}
	return nil
}

func normalizeList(in []string) []string {
	if len(in) == 0 {
		return []string{}
	}
	out := make([]string, 0, len(in))
	for _, item := range in {
		v := strings.TrimSpace(item)
		if v == "" {
			continue
		}
		out = append(out, v)
	}
	return out
}
