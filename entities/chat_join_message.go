package entities

type ChatJoinMessage struct {
	Channel  string
	Username string
}

type ChatPartMessage struct {
	Channel  string
	Username string
}
