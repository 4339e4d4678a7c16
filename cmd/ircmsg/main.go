package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/docopt/docopt-go"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v2"

	"github.com/ynotnauk/go-twitch-irc/config"
	"github.com/ynotnauk/go-twitch-irc/irc"
	"github.com/ynotnauk/go-twitch-irc/logging"
)

const version = "ircmsg 0.1.0"

const maxLineLength = 1024 * 1024

func main() {
	usage := `ircmsg.
Usage:
	ircmsg parse [--conf <filename>] [--format <format>] [<file>]
	ircmsg serialize [--conf <filename>] [<file>]
	ircmsg -h | --help
	ircmsg --version
Options:
	--conf <filename>  Configuration file to use.
	--format <format>  Output format: yaml, json or line.
	-h --help          Show this screen.
	--version          Show version.`

	arguments, _ := docopt.ParseArgs(usage, nil, version)

	cfg := config.Default()
	if configfile, _ := arguments["--conf"].(string); configfile != "" {
		loaded, err := config.Load(configfile)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		cfg = loaded
	}
	if format, _ := arguments["--format"].(string); format != "" {
		cfg.Output.Format = strings.ToLower(format)
		if err := cfg.Validate(); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
	}
	logger := logging.New("ircmsg", cfg.Log, os.Stderr)

	in := io.Reader(os.Stdin)
	if filename, _ := arguments["<file>"].(string); filename != "" {
		file, err := os.Open(filename)
		if err != nil {
			logger.Fatal().Err(err).Msg("Could not open input")
		}
		defer file.Close()
		in = file
	}
	out := bufio.NewWriter(os.Stdout)

	var err error
	if arguments["parse"].(bool) {
		var failed int
		failed, err = runParse(in, out, cfg.Output.Format, logger)
		if err == nil && failed > 0 {
			err = errors.Errorf("%d line(s) failed to parse", failed)
		}
	} else if arguments["serialize"].(bool) {
		err = runSerialize(in, out)
	}
	if flushErr := out.Flush(); err == nil {
		err = flushErr
	}
	if err != nil {
		logger.Error().Err(err).Msg("ircmsg failed")
		os.Exit(1)
	}
}

// runParse parses one raw line per input line and writes each message in
// the given format. Lines that fail to parse are logged and counted.
func runParse(in io.Reader, out io.Writer, format string, logger zerolog.Logger) (int, error) {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineLength)
	jsonEncoder := json.NewEncoder(out)
	var failed, lineNumber, written int
	for scanner.Scan() {
		lineNumber++
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		message, err := irc.Parse(line)
		if err != nil {
			logger.Warn().Err(err).Int("line_number", lineNumber).Str("line", line).Msg("Could not parse line")
			failed++
			continue
		}
		switch format {
		case config.OutputFormatJSON:
			err = jsonEncoder.Encode(newMessageDocument(message))
		case config.OutputFormatLine:
			var serialized string
			serialized, err = irc.Serialize(message)
			if err == nil {
				_, err = io.WriteString(out, serialized)
			}
		default:
			err = writeYAML(out, newMessageDocument(message), written > 0)
		}
		if err != nil {
			return failed, errors.Wrapf(err, "line %d", lineNumber)
		}
		written++
	}
	if err := scanner.Err(); err != nil {
		return failed, errors.Wrap(err, "read input")
	}
	return failed, nil
}

// runSerialize reads a YAML stream of message documents and writes one wire
// line per document. It stops at the first document that cannot be written.
func runSerialize(in io.Reader, out io.Writer) error {
	decoder := yaml.NewDecoder(in)
	for index := 0; ; index++ {
		var document messageDocument
		err := decoder.Decode(&document)
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return errors.Wrapf(err, "document %d", index)
		}
		message, err := document.message()
		if err != nil {
			return errors.Wrapf(err, "document %d", index)
		}
		line, err := irc.Serialize(message)
		if err != nil {
			return errors.Wrapf(err, "document %d", index)
		}
		if _, err := io.WriteString(out, line); err != nil {
			return err
		}
	}
}

func writeYAML(out io.Writer, document messageDocument, separate bool) error {
	data, err := yaml.Marshal(document)
	if err != nil {
		return err
	}
	if separate {
		if _, err := io.WriteString(out, "---\n"); err != nil {
			return err
		}
	}
	_, err = out.Write(data)
	return err
}
