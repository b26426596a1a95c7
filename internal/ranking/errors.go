package ranking

import "errors"

var (
	ErrEmptyScore    = errors.New("score is empty")
	ErrMalformedSet  = errors.New("malformed set score")
	ErrUnknownPlayer = errors.New("player not on roster")
)
