// Package control defines lightweight command messages used by the UI to
// request actions from the application command loop. The loop runs backend
// calls off the UI thread so a slow reset never freezes the window.
package control

// CommandType enumerates supported command operations.
type CommandType int

const (
	CmdRequestReset CommandType = iota
	CmdCancelReset
	CmdConfirmReset
)

func (t CommandType) String() string {
	switch t {
	case CmdRequestReset:
		return "request-reset"
	case CmdCancelReset:
		return "cancel-reset"
	case CmdConfirmReset:
		return "confirm-reset"
	}
	return "unknown"
}

// Command is the message sent from UI to AppManager.commandLoop. The
// optional Reply channel receives the outcome (nil on success).
type Command struct {
	Type  CommandType
	Reply chan error
}
