package entities

type ChatConnectMessage struct {
	Hostname string
	Nickname string
}
