package tracker

import "github.com/go-vgo/robotgo"

// SystemCursor reads the pointer position from the OS. On Linux this needs an
// X11 session; under Wayland the position does not update.
type SystemCursor struct{}

func (SystemCursor) Location() (int, int) {
	return robotgo.Location()
}
