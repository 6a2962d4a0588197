package store

import (
	"context"
	"fmt"
	"sync"

	domaingames "github.com/preston-bernstein/games-api/internal/domain/games"
)

// MemoryStore keeps games in memory, guarded by a RWMutex, in insertion order.
type MemoryStore struct {
	mu    sync.RWMutex
	games map[string]domaingames.Game
	order []string
}

// NewMemoryStore constructs an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		games: make(map[string]domaingames.Game),
	}
}

// FindByID retrieves a game by ID.
func (s *MemoryStore) FindByID(ctx context.Context, id string) (domaingames.Game, bool, error) {
	if err := ctx.Err(); err != nil {
		return domaingames.Game{}, false, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	g, ok := s.games[id]
	return cloneGame(g), ok, nil
}

// Insert adds a new game, failing with ErrDuplicateID when the id already exists.
func (s *MemoryStore) Insert(ctx context.Context, game domaingames.Game) (domaingames.Game, error) {
	if err := ctx.Err(); err != nil {
		return domaingames.Game{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.games[game.ID]; exists {
		return domaingames.Game{}, fmt.Errorf("insert %s: %w", game.ID, domaingames.ErrDuplicateID)
	}
	s.games[game.ID] = cloneGame(game)
	s.order = append(s.order, game.ID)
	return cloneGame(game), nil
}

// Save upserts a game by ID. Existing games keep their position.
func (s *MemoryStore) Save(ctx context.Context, game domaingames.Game) (domaingames.Game, error) {
	if err := ctx.Err(); err != nil {
		return domaingames.Game{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.games[game.ID]; !exists {
		s.order = append(s.order, game.ID)
	}
	s.games[game.ID] = cloneGame(game)
	return cloneGame(game), nil
}

// Delete removes a game. Deleting a missing game is a no-op.
func (s *MemoryStore) Delete(ctx context.Context, game domaingames.Game) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.games[game.ID]; !exists {
		return nil
	}
	delete(s.games, game.ID)
	for i, id := range s.order {
		if id == game.ID {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

// FindAll returns the requested zero-based page and the total number of games.
func (s *MemoryStore) FindAll(ctx context.Context, page, size int) ([]domaingames.Game, int64, error) {
	if err := ctx.Err(); err != nil {
		return nil, 0, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	total := int64(len(s.order))
	start, end, ok := pageBounds(page, size, total)
	if !ok {
		return []domaingames.Game{}, total, nil
	}
	result := make([]domaingames.Game, 0, end-start)
	for _, id := range s.order[start:end] {
		result = append(result, cloneGame(s.games[id]))
	}
	return result, total, nil
}

func cloneGame(g domaingames.Game) domaingames.Game {
	if g.Genres != nil {
		g.Genres = append([]string(nil), g.Genres...)
	}
	return g
}
