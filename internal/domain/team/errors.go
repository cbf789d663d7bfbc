package team

import "errors"

var (
	ErrAlreadyExists = errors.New("team already exists")
	ErrSlugTaken     = errors.New("team slug already taken")
	ErrNotDeleted    = errors.New("team not deleted")
)
