package games

import (
	"strings"

	domaingames "github.com/preston-bernstein/games-api/internal/domain/games"
)

const (
	msgMissingTitle     = "Game must have a title"
	msgMissingDeveloper = "Game must have a developer"
)

// Validate returns one message per missing required field, title first.
// A nil result means the game is valid.
func Validate(game domaingames.Game) []string {
	var errs []string
	if strings.TrimSpace(game.Title) == "" {
		errs = append(errs, msgMissingTitle)
	}
	if strings.TrimSpace(game.Developer) == "" {
		errs = append(errs, msgMissingDeveloper)
	}
	return errs
}
