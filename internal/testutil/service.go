package testutil

import (
	"context"

	"github.com/preston-bernstein/games-api/internal/app/games"
	domaingames "github.com/preston-bernstein/games-api/internal/domain/games"
	"github.com/preston-bernstein/games-api/internal/store"
	"github.com/preston-bernstein/games-api/internal/teststubs"
)

// NewServiceWithGames builds a games service backed by an in-memory store preloaded with g.
// The developer directory authorises the named developers.
func NewServiceWithGames(g []domaingames.Game, developers ...string) *games.Service {
	ms := store.NewMemoryStore()
	for _, game := range g {
		if _, err := ms.Insert(context.Background(), game); err != nil {
			panic(err)
		}
	}
	return games.NewService(ms, teststubs.Authorised(developers...), games.DefaultMaxItemsPerPage)
}
