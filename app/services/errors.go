package services

import "errors"

var (
	// ErrForbidden means the caller is authenticated but is not the
	// owning principal of the resource it tried to mutate.
	ErrForbidden = errors.New("you are not the owner of this resource")

	// ErrUnauthorized means the presented credential is missing or
	// wrong. The message stays vague on purpose.
	ErrUnauthorized = errors.New("invalid credentials")
)
