package interfaces

// LineSender delivers serialized lines, already terminated by "\r\n", to
// whatever transport carries the chat connection.
type LineSender interface {
	SendLine(line string) error
}
