package fault

import (
	"errors"
	"fmt"
)

// Kind classifies a failure the way callers need to branch on it.
type Kind int

const (
	KindInternal Kind = iota
	KindNotFound
	KindInvalid
	KindDuplicate
	KindNotAuthorized
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not found"
	case KindInvalid:
		return "invalid parameters"
	case KindDuplicate:
		return "duplicate"
	case KindNotAuthorized:
		return "not authorized"
	default:
		return "internal error"
	}
}

// Error is a kinded error. Validation and lookup failures carry a message;
// store-level failures additionally wrap the underlying cause.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	switch {
	case e.Msg != "" && e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Msg, innermost(e.Err))
	case e.Msg != "":
		return e.Msg
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Kind, innermost(e.Err))
	default:
		return e.Kind.String()
	}
}

func (e *Error) Unwrap() error { return e.Err }

// Is lets errors.Is match on kind alone, so packages can expose bare-kind
// sentinels without losing the call-site message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && t.Msg == "" && t.Err == nil
}

// Bare-kind sentinels for errors.Is.
var (
	NotFound      = &Error{Kind: KindNotFound}
	Invalid       = &Error{Kind: KindInvalid}
	Duplicate     = &Error{Kind: KindDuplicate}
	NotAuthorized = &Error{Kind: KindNotAuthorized}
)

func NotFoundf(format string, args ...any) error {
	return &Error{Kind: KindNotFound, Msg: fmt.Sprintf(format, args...)}
}

func Invalidf(format string, args ...any) error {
	return &Error{Kind: KindInvalid, Msg: fmt.Sprintf(format, args...)}
}

func Duplicatef(format string, args ...any) error {
	return &Error{Kind: KindDuplicate, Msg: fmt.Sprintf(format, args...)}
}

func NotAuthorizedf(format string, args ...any) error {
	return &Error{Kind: KindNotAuthorized, Msg: fmt.Sprintf(format, args...)}
}

// Internal wraps an unexpected store-level failure.
func Internal(err error, msg string) error {
	return &Error{Kind: KindInternal, Msg: msg, Err: err}
}

func IsNotFound(err error) bool      { return errors.Is(err, NotFound) }
func IsInvalid(err error) bool       { return errors.Is(err, Invalid) }
func IsDuplicate(err error) bool     { return errors.Is(err, Duplicate) }
func IsNotAuthorized(err error) bool { return errors.Is(err, NotAuthorized) }

// KindOf reports the kind of err, defaulting to KindInternal for errors
// that did not originate here.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

func innermost(err error) error {
	for {
		next := errors.Unwrap(err)
		if next == nil {
			return err
		}
		err = next
	}
}
