package entities

// ChatNoticeMessage is a NOTICE from the server. MsgID carries the
// msg-id tag Twitch attaches to it.
type ChatNoticeMessage struct {
	Channel string
	Message string
	MsgID   string
}
