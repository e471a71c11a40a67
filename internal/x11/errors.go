package x11

import (
	"errors"

	"github.com/BurntSushi/xgb/xproto"
)

// ErrOtherWM is returned by TakeOwnership when the root window is already
// redirected by another window manager.
var ErrOtherWM = errors.New("another window manager is already running")

// ErrorClass says how an asynchronous protocol error should be reported.
type ErrorClass int

const (
	// Ignore covers errors that follow from races with exiting clients.
	Ignore ErrorClass = iota
	// Warn covers everything else. The request is treated as a no-op.
	Warn
)

// opConfigureWindow is the major opcode of ConfigureWindow.
const opConfigureWindow = 12

// Classify sorts a protocol error. Requests on windows that vanished and
// BadMatch from ConfigureWindow are expected while clients come and go.
func Classify(err error) ErrorClass {
	if err == nil {
		return Ignore
	}
	var win xproto.WindowError
	if errors.As(err, &win) {
		return Ignore
	}
	var match xproto.MatchError
	if errors.As(err, &match) && match.MajorOpcode == opConfigureWindow {
		return Ignore
	}
	return Warn
}
