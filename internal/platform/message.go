package platform

// MessageID is a platform-neutral message identifier.
type MessageID int

const (
	MessageOther MessageID = iota
	MessageCreate
	MessageClose
	MessageDestroy
	MessageShow
	MessageHide
	MessageMove
	MessageSize
	MessageFocus
	MessageBlur
	MessageKeyDown
	MessageKeyUp
	MessageChar
)

var messageNames = map[MessageID]string{
	MessageOther:   "other",
	MessageCreate:  "create",
	MessageClose:   "close",
	MessageDestroy: "destroy",
	MessageShow:    "show",
	MessageHide:    "hide",
	MessageMove:    "move",
	MessageSize:    "size",
	MessageFocus:   "focus",
	MessageBlur:    "blur",
	MessageKeyDown: "keydown",
	MessageKeyUp:   "keyup",
	MessageChar:    "char",
}

func (id MessageID) String() string {
	if name, ok := messageNames[id]; ok {
		return name
	}
	return "unknown"
}

// Message is one notification delivered by the windowing subsystem.
type Message struct {
	Handle Handle
	ID     MessageID
	// Native is the backend's own message number (WM_* on Windows, the
	// X event code on X11).
	Native uint32
	WParam uintptr
	LParam uintptr
}

// Result reports whether a dispatch function consumed a message.
type Result int

const (
	// Handled means no default processing is needed.
	Handled Result = 0
	// Unhandled routes the message to the backend's default processing.
	Unhandled Result = 1
)
