package store

import (
	"context"
	"time"

	"github.com/preston-bernstein/games-api/internal/app/games"
	domaingames "github.com/preston-bernstein/games-api/internal/domain/games"
	"github.com/preston-bernstein/games-api/internal/metrics"
)

// InstrumentedStore times every call on the wrapped store and records it against backend.
type InstrumentedStore struct {
	inner    games.Store
	backend  string
	recorder *metrics.Recorder
	now      func() time.Time
}

// NewInstrumentedStore wraps inner. A nil recorder makes the wrapper a pass-through.
func NewInstrumentedStore(inner games.Store, backend string, recorder *metrics.Recorder) *InstrumentedStore {
	return &InstrumentedStore{
		inner:    inner,
		backend:  backend,
		recorder: recorder,
		now:      time.Now,
	}
}

func (s *InstrumentedStore) FindByID(ctx context.Context, id string) (domaingames.Game, bool, error) {
	start := s.now()
	g, ok, err := s.inner.FindByID(ctx, id)
	s.observe("find_by_id", start, err)
	return g, ok, err
}

func (s *InstrumentedStore) Insert(ctx context.Context, game domaingames.Game) (domaingames.Game, error) {
	start := s.now()
	g, err := s.inner.Insert(ctx, game)
	s.observe("insert", start, err)
	return g, err
}

func (s *InstrumentedStore) Save(ctx context.Context, game domaingames.Game) (domaingames.Game, error) {
	start := s.now()
	g, err := s.inner.Save(ctx, game)
	s.observe("save", start, err)
	return g, err
}

func (s *InstrumentedStore) Delete(ctx context.Context, game domaingames.Game) error {
	start := s.now()
	err := s.inner.Delete(ctx, game)
	s.observe("delete", start, err)
	return err
}

func (s *InstrumentedStore) FindAll(ctx context.Context, page, size int) ([]domaingames.Game, int64, error) {
	start := s.now()
	items, total, err := s.inner.FindAll(ctx, page, size)
	s.observe("find_all", start, err)
	return items, total, err
}

func (s *InstrumentedStore) observe(op string, start time.Time, err error) {
	s.recorder.RecordStoreOp(s.backend, op, s.now().Sub(start), err)
}
