package game

import "errors"

var (
	ErrNothingToImport = errors.New("nothing to import")
	ErrNotDeleted      = errors.New("game not deleted")
)
