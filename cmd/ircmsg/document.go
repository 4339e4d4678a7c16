package main

import (
	"encoding/json"
	"fmt"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"

	"github.com/ynotnauk/go-twitch-irc/irc"
)

// messageDocument is the YAML/JSON form of an irc.Message. Tags stay a
// MapSlice so YAML output keeps wire order.
type messageDocument struct {
	Tags       yaml.MapSlice   `yaml:"tags,omitempty"`
	Source     *sourceDocument `yaml:"source,omitempty"`
	Command    string          `yaml:"command"`
	Parameters []string        `yaml:"parameters,omitempty"`
}

type sourceDocument struct {
	Server   string `yaml:"server,omitempty" json:"server,omitempty"`
	Nickname string `yaml:"nickname,omitempty" json:"nickname,omitempty"`
	User     string `yaml:"user,omitempty" json:"user,omitempty"`
	Host     string `yaml:"host,omitempty" json:"host,omitempty"`
}

func newMessageDocument(message *irc.Message) messageDocument {
	document := messageDocument{
		Command:    message.Command,
		Parameters: message.Parameters,
	}
	message.Tags.Each(func(key string, value string) {
		document.Tags = append(document.Tags, yaml.MapItem{Key: key, Value: value})
	})
	switch source := message.Source.(type) {
	case irc.ServerSource:
		document.Source = &sourceDocument{Server: source.ServerName}
	case irc.ClientSource:
		document.Source = &sourceDocument{Nickname: source.Nickname, User: source.User, Host: source.Host}
	}
	return document
}

// MarshalJSON writes tags as an object; encoding/json sorts its keys.
func (d messageDocument) MarshalJSON() ([]byte, error) {
	var tags map[string]string
	if len(d.Tags) > 0 {
		tags = make(map[string]string, len(d.Tags))
		for _, item := range d.Tags {
			tags[fmt.Sprint(item.Key)] = fmt.Sprint(item.Value)
		}
	}
	return json.Marshal(struct {
		Tags       map[string]string `json:"tags,omitempty"`
		Source     *sourceDocument   `json:"source,omitempty"`
		Command    string            `json:"command"`
		Parameters []string          `json:"parameters,omitempty"`
	}{
		Tags:       tags,
		Source:     d.Source,
		Command:    d.Command,
		Parameters: d.Parameters,
	})
}

func (d messageDocument) message() (*irc.Message, error) {
	message := irc.NewMessage(d.Command, d.Parameters...)
	if len(d.Tags) > 0 {
		message.Tags = irc.NewTags()
		for _, item := range d.Tags {
			key, ok := item.Key.(string)
			if !ok {
				return nil, errors.Errorf("tag key %v is not a string", item.Key)
			}
			value := ""
			if item.Value != nil {
				value = fmt.Sprint(item.Value)
			}
			message.Tags.Set(key, value)
		}
	}
	if d.Source != nil {
		switch {
		case d.Source.Server != "" && d.Source.Nickname != "":
			return nil, errors.New("source has both server and nickname")
		case d.Source.Server != "":
			message.Source = irc.ServerSource{ServerName: d.Source.Server}
		case d.Source.Nickname != "":
			message.Source = irc.ClientSource{Nickname: d.Source.Nickname, User: d.Source.User, Host: d.Source.Host}
		}
	}
	return message, nil
}
