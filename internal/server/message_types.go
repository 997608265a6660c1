package server

// MessageType represents a WebSocket message type
type MessageType string

const (
	// Client to server messages
	MessageTypePointer MessageType = "pointer"
	MessageTypeHover   MessageType = "hover"
	MessageTypeClick   MessageType = "click"
	MessageTypeAction  MessageType = "action"

	// Server to client messages
	MessageTypeWelcome MessageType = "welcome"
	MessageTypeState   MessageType = "state"
	MessageTypeTick    MessageType = "tick"
	MessageTypeNotice  MessageType = "notice"
	MessageTypeError   MessageType = "error"
)

// String returns the string representation of the message type
func (mt MessageType) String() string {
	return string(mt)
}

// Action names a table operation requested by a client
type Action string

const (
	ActionShuffle   Action = "shuffle"
	ActionRandomize Action = "randomize"
	ActionSpin      Action = "spin"
	ActionSplit     Action = "split"
	ActionRejoin    Action = "rejoin"
	ActionStart     Action = "start"
	ActionStop      Action = "stop"
	ActionDraw      Action = "draw"
	ActionReturn    Action = "return"
	ActionReturnAll Action = "return_all"
	ActionReset     Action = "reset"
	ActionMovePile  Action = "move_pile"
	ActionMoveCard  Action = "move_card"
	ActionFront     Action = "front"
	ActionFlip      Action = "flip"
	ActionFaceUp    Action = "face_up"
	ActionFaceDown  Action = "face_down"
)
