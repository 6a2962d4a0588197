package testutil

import (
	"time"

	domaingames "github.com/preston-bernstein/games-api/internal/domain/games"
)

// SampleGame returns a game fixture owned by developer with the provided id.
func SampleGame(id, developer string) domaingames.Game {
	return domaingames.Game{
		ID:          id,
		Title:       "Game " + id,
		ReleaseDate: domaingames.NewReleaseDate(2021, time.March, 4),
		Genres:      []string{"Action", "Adventure"},
		Developer:   developer,
	}
}

// SampleGameJSON is a create payload for a game developed by Acme.
const SampleGameJSON = `{"title":"Rocket Race","release_date":"2021-03-04","genres":["Racing"],"developer":"Acme"}`
