package tinyurl

import "errors"

// Kind classifies why a shorten request failed.
type Kind int

const (
	KindUnknownServerError Kind = iota
	KindInvalidURL
	KindNoURLAvailable
)

func (k Kind) String() string {
	switch k {
	case KindInvalidURL:
		return "invalid url"
	case KindNoURLAvailable:
		return "no short url available"
	default:
		return "unknown server error"
	}
}

// Error is the only error type returned by Client.
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Kind.String()
	}

	return e.Kind.String() + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error of the same kind, so the sentinels below work with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)

	return ok && t.Kind == e.Kind
}

var (
	ErrInvalidURL         = &Error{Kind: KindInvalidURL}
	ErrNoURLAvailable     = &Error{Kind: KindNoURLAvailable}
	ErrUnknownServerError = &Error{Kind: KindUnknownServerError}
)

// KindOf reports the kind of err. Errors not produced by Client are unknown server errors.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}

	return KindUnknownServerError
}
