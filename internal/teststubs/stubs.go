package teststubs

import (
	"context"
	"sync/atomic"

	domaingames "github.com/preston-bernstein/games-api/internal/domain/games"
)

// StubDirectory is a test double for the authorised developer directory.
type StubDirectory struct {
	Developers []domaingames.Developer
	Err        error
	Calls      atomic.Int32
}

// Authorised builds a StubDirectory listing the given developer names.
func Authorised(names ...string) *StubDirectory {
	devs := make([]domaingames.Developer, 0, len(names))
	for _, n := range names {
		devs = append(devs, domaingames.Developer{Name: n})
	}
	return &StubDirectory{Developers: devs}
}

// AuthorisedDevelopers returns the configured developers and error while tracking calls.
func (d *StubDirectory) AuthorisedDevelopers(ctx context.Context) ([]domaingames.Developer, error) {
	_ = ctx
	d.Calls.Add(1)
	if d.Err != nil {
		return nil, d.Err
	}
	return d.Developers, nil
}

// ErrStore fails every operation with Err.
type ErrStore struct {
	Err error
}

func (s ErrStore) FindByID(ctx context.Context, id string) (domaingames.Game, bool, error) {
	return domaingames.Game{}, false, s.Err
}

func (s ErrStore) Insert(ctx context.Context, game domaingames.Game) (domaingames.Game, error) {
	return domaingames.Game{}, s.Err
}

func (s ErrStore) Save(ctx context.Context, game domaingames.Game) (domaingames.Game, error) {
	return domaingames.Game{}, s.Err
}

func (s ErrStore) Delete(ctx context.Context, game domaingames.Game) error {
	return s.Err
}

func (s ErrStore) FindAll(ctx context.Context, page, size int) ([]domaingames.Game, int64, error) {
	return nil, 0, s.Err
}
