package main

import (
	"bytes"
	"errors"
	"encoding/json"
	"strings"
	"testing"

	"github.com/go-test/deep"
	"github.com/rs/zerolog"

	"github.com/ynotnauk/go-twitch-irc/config"
	"github.com/ynotnauk/go-twitch-irc/irc"
)

const parseInput = "@badge-info=;id=b34ccfc7;display-name=Ronni\\sTwo :ronni!ronni@ronni.tmi.twitch.tv PRIVMSG #ronni :Kappa Keepo\r\n" +
	"\r\n" +
	"@broken\r\n" +
	":tmi.twitch.tv 001 justinfan123 :Welcome, GLHF!\n" +
	"PING :tmi.twitch.tv\r\n"

func TestRunParseLine(t *testing.T) {
	var out bytes.Buffer
	failed, err := runParse(strings.NewReader(parseInput), &out, config.OutputFormatLine, zerolog.Nop())
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if failed != 1 {
		t.Fatalf("expected one failed line, got %d", failed)
	}
	want := "@badge-info=;id=b34ccfc7;display-name=Ronni\\sTwo; PRIVMSG #ronni :Kappa Keepo\r\n" +
		":tmi.twitch.tv 001 justinfan123 :Welcome, GLHF!\r\n" +
		"PING tmi.twitch.tv\r\n"
	if out.String() != want {
		t.Fatalf("unexpected output:\n%q\nwant:\n%q", out.String(), want)
	}
}

func TestRunParseJSON(t *testing.T) {
	var out bytes.Buffer
	if _, err := runParse(strings.NewReader(parseInput), &out, config.OutputFormatJSON, zerolog.Nop()); err != nil {
		t.Fatalf("parse: %v", err)
	}
	decoder := json.NewDecoder(&out)
	var first map[string]interface{}
	if err := decoder.Decode(&first); err != nil {
		t.Fatalf("decode: %v", err)
	}
	want := map[string]interface{}{
		"tags": map[string]interface{}{
			"badge-info":   "",
			"id":           "b34ccfc7",
			"display-name": "Ronni Two",
		},
		"source": map[string]interface{}{
			"nickname": "ronni",
			"user":     "ronni",
			"host":     "ronni.tmi.twitch.tv",
		},
		"command":    "PRIVMSG",
		"parameters": []interface{}{"#ronni", "Kappa Keepo"},
	}
	if diff := deep.Equal(first, want); diff != nil {
		t.Fatal(diff)
	}
}

func TestRunParseYAMLKeepsTagOrder(t *testing.T) {
	var out bytes.Buffer
	if _, err := runParse(strings.NewReader(parseInput), &out, config.OutputFormatYAML, zerolog.Nop()); err != nil {
		t.Fatalf("parse: %v", err)
	}
	text := out.String()
	if strings.Count(text, "---\n") != 2 {
		t.Fatalf("expected three documents:\n%s", text)
	}
	badgeInfo := strings.Index(text, "badge-info")
	id := strings.Index(text, "id: ")
	displayName := strings.Index(text, "display-name")
	if badgeInfo < 0 || !(badgeInfo < id && id < displayName) {
		t.Fatalf("tags out of order:\n%s", text)
	}
}

// The YAML written by parse must read back through serialize.
func TestParseThenSerialize(t *testing.T) {
	var documents bytes.Buffer
	if _, err := runParse(strings.NewReader(parseInput), &documents, config.OutputFormatYAML, zerolog.Nop()); err != nil {
		t.Fatalf("parse: %v", err)
	}
	var lines bytes.Buffer
	if err := runSerialize(&documents, &lines); err != nil {
		t.Fatalf("serialize: %v", err)
	}
	// Client sources are never written.
	want := "@badge-info=;id=b34ccfc7;display-name=Ronni\\sTwo; PRIVMSG #ronni :Kappa Keepo\r\n" +
		":tmi.twitch.tv 001 justinfan123 :Welcome, GLHF!\r\n" +
		"PING tmi.twitch.tv\r\n"
	if lines.String() != want {
		t.Fatalf("unexpected lines:\n%q\nwant:\n%q", lines.String(), want)
	}
}

func TestRunSerialize(t *testing.T) {
	input := `
tags:
  reply-parent-msg-id: b34ccfc7
  client-nonce: 42
  empty:
command: privmsg
parameters: ["#dallas", "hello world"]
---
source:
  server: tmi.twitch.tv
command: "001"
parameters: [justinfan123, ":)"]
`
	var out bytes.Buffer
	err := runSerialize(strings.NewReader(input), &out)
	// Commands are written as given, lowercase is rejected.
	if err == nil || !strings.Contains(err.Error(), "document 0") {
		t.Fatalf("expected error for document 0, got %v", err)
	}
	input = strings.Replace(input, "privmsg", "PRIVMSG", 1)
	out.Reset()
	if err := runSerialize(strings.NewReader(input), &out); err != nil {
		t.Fatalf("serialize: %v", err)
	}
	want := "@reply-parent-msg-id=b34ccfc7;client-nonce=42;empty=; PRIVMSG #dallas :hello world\r\n" +
		":tmi.twitch.tv 001 justinfan123 ::)\r\n"
	if out.String() != want {
		t.Fatalf("unexpected output: %q", out.String())
	}
}

func TestDocumentSourceConflict(t *testing.T) {
	document := messageDocument{
		Source:  &sourceDocument{Server: "tmi.twitch.tv", Nickname: "ronni"},
		Command: "PING",
	}
	if _, err := document.message(); err == nil {
		t.Fatal("expected an error for a source with server and nickname")
	}
}

func TestDocumentMessage(t *testing.T) {
	message, err := irc.Parse(":tmi.twitch.tv CAP * ACK :twitch.tv/tags twitch.tv/commands")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	again, err := newMessageDocument(message).message()
	if err != nil {
		t.Fatalf("message: %v", err)
	}
	if !again.Equal(message) {
		t.Fatalf("document changed the message:\n  in:  %s\n  out: %s", message, again)
	}
}

func TestRunSerializeRejectsBadTagKey(t *testing.T) {
	input := "tags:\n  \"a b\": 1\ncommand: PING\n"
	var out bytes.Buffer
	err := runSerialize(strings.NewReader(input), &out)
	if !errors.Is(err, irc.ErrInvalidTagKey) {
		t.Fatalf("expected irc.ErrInvalidTagKey, got %v", err)
	}
	if out.Len() != 0 {
		t.Fatalf("expected no output, got %q", out.String())
	}
}
