package entities

type ChatPingMessage struct {
	Server string
}

type ChatPongMessage struct {
	Server    string
	Timestamp int64
}
