package importer

import (
	crerr "github.com/cockroachdb/errors"
)

// ErrStructural marks errors that reject a whole document rather than one
// entry inside it.
var ErrStructural = crerr.New("structural import error")

var (
	ErrUnableToParseTeams   = structural("unable to parse teams data")
	ErrTeamsNotArray        = structural("teams data is not an array")
	ErrGameNotObject        = structural("game data is not an object")
	ErrGameMissingSides     = structural("game data does not have home and away")
	ErrUnableToParseGameday = structural("unable to parse gameday data")
	ErrGamedayNotObject     = structural("gameday data is not an object")
	ErrGamedayMissingDate   = structural("gameday data does not have date")
	ErrGamedayInvalidDate   = structural("gameday data date is invalid")
	ErrGamedayMissingGames  = structural("gameday data does not have games array")
)

func structural(msg string) error {
	return crerr.Mark(crerr.New(msg), ErrStructural)
}

// IsStructural reports whether err rejects a whole document.
func IsStructural(err error) bool {
	return crerr.Is(err, ErrStructural)
}
