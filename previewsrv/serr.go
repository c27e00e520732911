package previewsrv

import "errors"

// Sentinel errors for the preview service. newError accepts them as causes,
// and Error's Unwrap exposes those causes to errors.Is.
var (
	ErrBadCredentials = errors.New("the supplied username/password combination is incorrect")
	ErrNotFound       = errors.New("the requested preset could not be found")
	ErrAlreadyExists  = errors.New("a preset with that name already exists")
	ErrBadArgument    = errors.New("one or more of the arguments is invalid")
	ErrBodyUnmarshal  = errors.New("malformed data in request")
)

// Error is a typed error carrying a message plus one or more causes, so that
// errors.Is works against any of its causes without manual type assertions.
type Error struct {
	msg   string
	cause []error
}

func (e Error) Error() string {
	if e.msg == "" && len(e.cause) > 0 {
		return e.cause[0].Error()
	}
	if len(e.cause) > 0 {
		return e.msg + ": " + e.cause[0].Error()
	}
	return e.msg
}

func (e Error) Unwrap() []error {
	if len(e.cause) > 0 {
		return e.cause
	}
	return nil
}

// newError creates an Error with the given message and causes. causes may be
// omitted.
func newError(msg string, causes ...error) Error {
	err := Error{msg: msg}
	if len(causes) > 0 {
		err.cause = append([]error{}, causes...)
	}
	return err
}
