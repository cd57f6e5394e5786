package errorvalues

import "errors"

var (
	ErrUserNotFound = errors.New("user doesn't exist")
	ErrUserExists   = errors.New("such user already exists")
	ErrLogNotFound  = errors.New("daily log doesn't exist")
	ErrLogExists    = errors.New("daily log for this day already exists")
	ErrInvalidHabit = errors.New("unknown habit key")
)
