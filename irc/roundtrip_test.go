package irc

import (
	"errors"
	"fmt"
	"testing"

	"github.com/ergochat/irc-go/ircmsg"
	"github.com/go-test/deep"
)

var twitchLines = []string{
	"@badge-info=;badges=broadcaster/1;color=#0D4200;display-name=ronni;emotes=25:0-4,12-16/1902:6-10;id=b34ccfc7-4977-403a-8a94-33c6bac34fb8;mod=0;room-id=1337;subscriber=0;tmi-sent-ts=1507246572675;turbo=1;user-id=1337;user-type=global_mod :ronni!ronni@ronni.tmi.twitch.tv PRIVMSG #ronni :Kappa Keepo Kappa",
	"@msg-id=slow_off :tmi.twitch.tv NOTICE #dallas :This room is no longer in slow mode.",
	"@ban-duration=350;room-id=12345678;target-user-id=87654321;tmi-sent-ts=1642719320727 :tmi.twitch.tv CLEARCHAT #dallas :ronni",
	"@emote-only=0;followers-only=-1;r9k=0;rituals=0;room-id=12345678;slow=0;subs-only=0 :tmi.twitch.tv ROOMSTATE #bar",
	"@system-msg=ronni\\shas\\ssubscribed\\sfor\\s6\\smonths! :tmi.twitch.tv USERNOTICE #dallas :Great stream -- keep it up!",
	":tmi.twitch.tv 001 justinfan123 :Welcome, GLHF!",
	":tmi.twitch.tv 372 justinfan123 :You are in a maze of twisty passages, all alike.",
	":tmi.twitch.tv CAP * ACK :twitch.tv/commands twitch.tv/membership twitch.tv/tags",
	":justinfan123!justinfan123@justinfan123.tmi.twitch.tv JOIN #dallas",
	":justinfan123.tmi.twitch.tv 353 justinfan123 = #dallas :justinfan123",
	":justinfan123.tmi.twitch.tv 366 justinfan123 #dallas :End of /NAMES list",
	":ronni!ronni@ronni.tmi.twitch.tv PART #dallas",
	"PING :tmi.twitch.tv",
	":tmi.twitch.tv PONG tmi.twitch.tv :1700000000",
	":tmi.twitch.tv RECONNECT",
}

func TestParseMatchesIrcmsg(t *testing.T) {
	for i, line := range twitchLines {
		t.Run(fmt.Sprintf("line %d", i), func(t *testing.T) {
			message, err := Parse(line + Terminator)
			if err != nil {
				t.Fatalf("parse: %v", err)
			}
			reference, err := ircmsg.ParseLine(line)
			if err != nil {
				t.Fatalf("ircmsg parse: %v", err)
			}
			if message.Command != reference.Command {
				t.Errorf("command: expected %q, got %q", reference.Command, message.Command)
			}
			if diff := deep.Equal(message.Parameters, reference.Params); diff != nil {
				t.Errorf("params: %v", diff)
			}
			source := ""
			if message.Source != nil {
				source = message.Source.String()
			}
			if source != reference.Source {
				t.Errorf("source: expected %q, got %q", reference.Source, source)
			}
			if diff := deep.Equal(message.Tags.Map(), reference.AllTags()); diff != nil {
				t.Errorf("tags: %v", diff)
			}
		})
	}
}

func TestRoundTrip(t *testing.T) {
	messages := []*Message{
		NewMessage("PING"),
		NewMessage("PONG", "tmi.twitch.tv"),
		NewMessage("PRIVMSG", ""),
		NewMessage("PRIVMSG", "#chan", "hello world"),
		NewMessage("PRIVMSG", "#chan", ":starts with colon"),
		NewMessage("PRIVMSG", "#chan", " leading and trailing "),
		NewMessage("CAP", "REQ", "twitch.tv/tags twitch.tv/commands"),
		{
			Tags:       NewTags("reply-parent-msg-id", "b34ccfc7", "empty", "", "escapes", "a b;c\\d\r\ne"),
			Source:     ServerSource{ServerName: "tmi.twitch.tv"},
			Command:    "PRIVMSG",
			Parameters: []string{"#chan", "x", "y z"},
		},
		{
			Source:  ServerSource{ServerName: "tmi.twitch.tv"},
			Command: "RECONNECT",
		},
	}
	for i, message := range messages {
		t.Run(fmt.Sprintf("message %d", i), func(t *testing.T) {
			line, err := Serialize(message)
			if err != nil {
				t.Fatalf("serialize: %v", err)
			}
			parsed, err := Parse(line)
			if err != nil {
				t.Fatalf("parse %q: %v", line, err)
			}
			if !parsed.Equal(message) {
				t.Fatalf("round trip mismatch:\n  in:  %s\n  out: %s", message, parsed)
			}
		})
	}
}

func TestRoundTripDropsClientSource(t *testing.T) {
	message, err := Parse(":ronni!ronni@ronni.tmi.twitch.tv PRIVMSG #ronni :hi")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	line, err := Serialize(message)
	if err != nil {
		t.Fatalf("serialize: %v", err)
	}
	if line != "PRIVMSG #ronni hi\r\n" {
		t.Fatalf("unexpected line: %q", line)
	}
}

func TestParseIsSafeForConcurrentUse(t *testing.T) {
	done := make(chan error, len(twitchLines))
	for _, line := range twitchLines {
		go func(line string) {
			message, err := Parse(line)
			if err == nil {
				_, err = Serialize(message)
			}
			done <- err
		}(line)
	}
	for range twitchLines {
		if err := <-done; err != nil {
			t.Fatal(err)
		}
	}
}

// FuzzParseSerialize checks that whatever Parse accepts can be written back
// and read again without change, client prefixes aside.
func FuzzParseSerialize(f *testing.F) {
	for _, line := range twitchLines {
		f.Add(line)
	}
	f.Add("@a=\\;b=\\\\s;;=x PING :")
	f.Add(":  cmd   a  :")
	f.Add("CMD :x\r\n\r\n")
	f.Fuzz(func(t *testing.T, raw string) {
		message, err := Parse(raw)
		if err != nil {
			var parseErr *ParseError
			if !errors.As(err, &parseErr) {
				t.Fatalf("unexpected error type %T", err)
			}
			return
		}
		line, err := Serialize(message)
		// Parse is lenient about keys and server names the serializer refuses
		if errors.Is(err, ErrInvalidTagKey) || errors.Is(err, ErrInvalidSource) {
			return
		}
		if err != nil {
			t.Fatalf("serialize parsed %q: %v", raw, err)
		}
		again, err := Parse(line)
		if err != nil {
			t.Fatalf("parse serialized %q: %v", line, err)
		}
		if _, ok := message.Source.(ClientSource); ok {
			message.Source = nil
		}
		if !again.Equal(message) {
			t.Fatalf("mismatch for %q:\n  first:  %s\n  second: %s", raw, message, again)
		}
	})
}
